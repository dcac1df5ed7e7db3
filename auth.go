package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/oauth2"
)

func authAccount() {
	db, err := openDB(".leadcal.db")
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	if err := dbInit(db); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	fmt.Println("🚀 Starting account authorization...")
	fmt.Print("👤 Enter account name: ")
	var accountName string
	fmt.Scanln(&accountName)
	if accountName == "" {
		accountName = "default"
	}

	token := getTokenFromWeb(oauthConfig)
	if err := saveToken(db, accountName, token); err != nil {
		log.Fatalf("Error saving token: %v", err)
	}

	fmt.Printf("✅ Account %s authorized successfully\n", accountName)
}

func getTokenFromWeb(config *oauth2.Config) *oauth2.Token {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		log.Fatalf("Unable to read authorization code: %v", err)
	}

	tok, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		log.Fatalf("Unable to retrieve token from web: %v", err)
	}
	return tok
}
