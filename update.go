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

// updateAppointment reschedules an existing appointment. The remote record is
// fetched through the current window first so all unspecified fields keep
// their stored values.
func updateAppointment() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: leadcal update <event-id>")
		os.Exit(1)
	}
	eventID := os.Args[2]

	sess := openSession()
	defer sess.close()

	// A month around today is wide enough to locate the record being moved.
	start, _ := syncWindow(ViewMonth, time.Now().In(sess.loc), sess.loc)
	_, end := syncWindow(ViewMonth, time.Now().In(sess.loc).AddDate(0, 1, 0), sess.loc)

	events, err := sess.api.listEvents(context.Background(), sess.creds, start, end)
	if err != nil {
		log.Fatalf("Error retrieving events: %v", err)
	}

	var current Appointment
	for _, ev := range events {
		a := fromRemote(ev, sess.loc)
		if a.ID == eventID {
			current = a
			break
		}
	}
	if current.ID == "" {
		log.Fatalf("Error: appointment %s not found in the current or next month", eventID)
	}

	fmt.Println("🚀 Rescheduling appointment:")
	printAppointment(current)

	reader := bufio.NewReader(os.Stdin)
	if date := promptLine(reader, "📅 New date (YYYY-MM-DD, empty to keep): "); date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, sess.loc)
		if err != nil {
			log.Fatalf("Error: invalid date %q, expected YYYY-MM-DD", date)
		}
		current.Date = parsed
	}
	if start := promptLine(reader, "🕒 New start time (HH:MM, empty to keep): "); start != "" {
		current.StartTime = start
	}
	if end := promptLine(reader, "🕓 New end time (HH:MM, empty to keep): "); end != "" {
		current.EndTime = end
	}
	if status := promptLine(reader, "🚥 New status (empty to keep): "); status != "" {
		current.Status = ApptStatus(strings.ToUpper(status))
	}

	feed := newAppointmentFeed(context.Background(), sess.api, sess.creds, sess.loc, sess.config.Debounce(), newLogger())
	defer feed.Close()

	updated, err := feed.UpdateAppointment(context.Background(), current)
	if err != nil {
		log.Fatalf("Error updating appointment: %v", err)
	}

	fmt.Println("✅ Appointment updated")
	printAppointment(updated)
}
