package main

import (
	"context"
	"fmt"
	"log"
	"os"
)

func cancelAppointment() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: leadcal cancel <event-id>")
		os.Exit(1)
	}
	eventID := os.Args[2]

	sess := openSession()
	defer sess.close()

	fmt.Print("⚠️  Are you sure you want to cancel this appointment? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)
	if confirmation != "y" && confirmation != "Y" {
		fmt.Println("❌ Cancellation aborted")
		return
	}

	feed := newAppointmentFeed(context.Background(), sess.api, sess.creds, sess.loc, sess.config.Debounce(), newLogger())
	defer feed.Close()

	if err := feed.DeleteAppointment(context.Background(), eventID); err != nil {
		log.Fatalf("Error deleting appointment: %v", err)
	}

	fmt.Printf("✅ Appointment %s deleted\n", eventID)
}
