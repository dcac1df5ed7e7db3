package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

func createAppointment() {
	sess := openSession()
	defer sess.close()

	fmt.Println("🚀 Creating a new appointment...")
	reader := bufio.NewReader(os.Stdin)

	a := Appointment{
		Title:     promptLine(reader, "📝 Title: "),
		LeadID:    promptLine(reader, "🆔 Lead id (optional): "),
		StartTime: promptLine(reader, "🕒 Start time (HH:MM): "),
		EndTime:   promptLine(reader, "🕓 End time (HH:MM, empty for +1h): "),
		Location:  promptLine(reader, "📍 Location (optional): "),
		Notes:     promptLine(reader, "🗒 Notes (optional): "),
		Purpose:   Purpose(strings.ToUpper(promptLine(reader, "🎯 Purpose (ADJUSTER|BUILD|ACV|RCV): "))),
		Status:    StatusScheduled,
	}

	date := promptLine(reader, "📅 Date (YYYY-MM-DD): ")
	parsed, err := time.ParseInLocation("2006-01-02", date, sess.loc)
	if err != nil {
		log.Fatalf("Error: invalid date %q, expected YYYY-MM-DD", date)
	}
	a.Date = parsed

	if a.LeadID != "" {
		if lead, err := loadLead(sess.db, a.LeadID); err == nil {
			a.LeadName = lead.Name
		} else {
			printVerbosely(1, "❗️ Lead %s not found in local registry, storing id only\n", a.LeadID)
		}
	}

	feed := newAppointmentFeed(context.Background(), sess.api, sess.creds, sess.loc, sess.config.Debounce(), newLogger())
	defer feed.Close()

	created, err := feed.CreateAppointment(context.Background(), a)
	if err != nil {
		log.Fatalf("Error creating appointment: %v", err)
	}

	fmt.Printf("✅ Appointment created with id %s\n", created.ID)
	printAppointment(created)
}

func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
