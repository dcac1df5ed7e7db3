package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"
)

// showAgenda drives the appointment feed the way the UI would: pick a view,
// let the debounce settle, render once the fetch lands.
func showAgenda() {
	sess := openSession()
	defer sess.close()

	mode := ViewWeek
	if len(os.Args) > 2 {
		mode = ViewMode(os.Args[2])
		if mode != ViewDay && mode != ViewWeek && mode != ViewMonth {
			log.Fatalf("Error: unknown view mode %q (day|week|month)", os.Args[2])
		}
	}

	ref := time.Now().In(sess.loc)
	if len(os.Args) > 3 {
		parsed, err := time.ParseInLocation("2006-01-02", os.Args[3], sess.loc)
		if err != nil {
			log.Fatalf("Error: invalid date %q, expected YYYY-MM-DD", os.Args[3])
		}
		ref = parsed
	}

	feed := newAppointmentFeed(context.Background(), sess.api, sess.creds, sess.loc, sess.config.Debounce(), newLogger())
	defer feed.Close()

	changed := make(chan struct{}, 1)
	feed.onChange = func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	feed.SetView(mode, ref)

	start, end := syncWindow(mode, ref, sess.loc)
	printVerbosely(1, "📥 Fetching %s agenda %s .. %s\n", mode, start.Format("2006-01-02"), end.Format("2006-01-02"))

	for {
		select {
		case <-changed:
		case <-time.After(30 * time.Second):
			log.Fatalf("Error: timed out waiting for calendar response")
		}
		if !feed.IsLoading() {
			break
		}
	}

	if err := feed.Err(); err != nil {
		log.Fatalf("Error fetching agenda: %v", err)
	}

	appointments := feed.Appointments()
	if len(appointments) == 0 {
		fmt.Println("📭 No appointments in this window")
		return
	}

	fmt.Printf("📅 %d appointment(s):\n", len(appointments))
	for _, a := range appointments {
		printAppointment(a)
	}
}

func printAppointment(a Appointment) {
	lead := ""
	if a.LeadID != "" {
		lead = fmt.Sprintf(" [lead %s %s]", a.LeadID, a.LeadName)
	}
	fmt.Printf("  ✨ %s %s-%s  %s%s (%s, %s) id=%s\n",
		a.Date.Format("2006-01-02"), a.StartTime, a.EndTime, a.Title, lead, a.Purpose, a.Status, a.ID)
}
