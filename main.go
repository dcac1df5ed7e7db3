package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: leadcal (auth|leads|agenda|create|update|cancel|classify)")
		os.Exit(1)
	}
	config, err := readConfig(".leadcal.toml")
	if err != nil {
		// Try reading from the home directory
		config, err = readConfig(os.Getenv("HOME") + "/" + ".leadcal.toml")
		if err != nil {
			log.Fatalf("Error reading config file: %v", err)
		}
	}
	initOAuthConfig(config)
	command := os.Args[1]
	switch command {
	case "auth":
		authAccount()
	case "leads":
		manageLeads()
	case "agenda":
		showAgenda()
	case "create":
		createAppointment()
	case "update":
		updateAppointment()
	case "cancel":
		cancelAppointment()
	case "classify":
		classifyLead()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbosityLevel >= 3 {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
