package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
)

func manageLeads() {
	db, err := openDB(".leadcal.db")
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	if err := dbInit(db); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	subcommand := "list"
	if len(os.Args) > 2 {
		subcommand = os.Args[2]
	}

	switch subcommand {
	case "add":
		fmt.Print("🆔 Enter lead id: ")
		var leadID string
		fmt.Scanln(&leadID)
		if leadID == "" {
			log.Fatalf("Error: lead id must not be empty")
		}

		fmt.Print("👤 Enter lead name: ")
		reader := bufio.NewReader(os.Stdin)
		name, _ := reader.ReadString('\n')
		name = strings.TrimSpace(name)

		if err := saveLead(db, Lead{ID: leadID, Name: name}); err != nil {
			log.Fatalf("Error saving lead: %v", err)
		}
		fmt.Printf("✅ Lead %s (%s) saved\n", leadID, name)
	case "list":
		leads, err := listLeads(db)
		if err != nil {
			log.Fatalf("Error retrieving leads: %v", err)
		}
		fmt.Println("📋 Known leads:")
		for _, lead := range leads {
			fmt.Printf("  🆔 %s (%s)\n", lead.ID, lead.Name)
		}
	default:
		fmt.Printf("Unknown leads subcommand: %s\n", subcommand)
		os.Exit(1)
	}
}
