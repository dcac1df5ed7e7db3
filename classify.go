package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"
)

// classifyLead fetches a wide window of events and reports which ones belong
// to the lead, grouped into purpose buckets.
func classifyLead() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: leadcal classify <lead-id>")
		os.Exit(1)
	}
	leadID := os.Args[2]

	sess := openSession()
	defer sess.close()

	leadName := ""
	if lead, err := loadLead(sess.db, leadID); err == nil {
		leadName = lead.Name
	}

	now := time.Now().In(sess.loc)
	start := now.AddDate(0, -6, 0)
	end := now.AddDate(0, 6, 0)

	printVerbosely(1, "📥 Fetching events %s .. %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	events, err := sess.api.listEvents(context.Background(), sess.creds, start, end)
	if err != nil {
		log.Fatalf("Error retrieving events: %v", err)
	}

	appointments := make([]Appointment, 0, len(events))
	for _, ev := range events {
		a := fromRemote(ev, sess.loc)
		if a.ID == "" {
			continue
		}
		appointments = append(appointments, a)
	}

	result := classifyLeadEvents(appointments, leadID, leadName)

	fmt.Printf("🔎 Lead %s", leadID)
	if leadName != "" {
		fmt.Printf(" (%s)", leadName)
	}
	fmt.Printf(": %d of %d events attributed\n", len(result.Attributed), len(appointments))

	for _, bucket := range leadEventBuckets {
		events := result.ByBucket[bucket.name]
		if len(events) == 0 {
			continue
		}
		fmt.Printf("  🗂 %s:\n", bucket.name)
		for _, a := range events {
			printAppointment(a)
		}
	}
	if len(result.Unclassified) > 0 {
		fmt.Println("  ❓ unclassified:")
		for _, a := range result.Unclassified {
			printAppointment(a)
		}
	}
}
