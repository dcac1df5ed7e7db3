package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
)

type Purpose string

const (
	PurposeAdjuster Purpose = "ADJUSTER"
	PurposeBuild    Purpose = "BUILD"
	PurposeACV      Purpose = "ACV"
	PurposeRCV      Purpose = "RCV"
)

type ApptStatus string

const (
	StatusScheduled   ApptStatus = "SCHEDULED"
	StatusCompleted   ApptStatus = "COMPLETED"
	StatusCancelled   ApptStatus = "CANCELLED"
	StatusRescheduled ApptStatus = "RESCHEDULED"
)

// Appointment is the internal representation of a scheduled visit. ID is
// empty until the remote calendar assigns one; from then on every mutation
// needs it. Date is midnight of the calendar day in the configured zone,
// StartTime/EndTime are wall-clock "HH:MM" strings in that same zone.
type Appointment struct {
	ID        string
	Title     string
	LeadID    string
	LeadName  string
	Date      time.Time
	StartTime string
	EndTime   string
	Location  string
	Notes     string
	Purpose   Purpose
	Status    ApptStatus
}

// Private-metadata keys inside extendedProperties.private. This bag is the
// only authoritative link between a remote event and a lead; title/notes
// matching is a fallback for events whose metadata was stripped.
const (
	metaLeadID   = "leadId"
	metaLeadName = "leadName"
	metaPurpose  = "purpose"
	metaStatus   = "status"
)

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	return hour, minute, nil
}

// toRemote builds the calendar event payload for an appointment. The start
// instant is the appointment date with the start time-of-day applied in loc;
// the end instant comes from EndTime, or start plus one hour when EndTime is
// empty. All four metadata keys are always written, absent values as "".
func toRemote(a Appointment, loc *time.Location) (*calendar.Event, error) {
	if a.Date.IsZero() {
		return nil, fmt.Errorf("appointment has no date")
	}
	if a.StartTime == "" {
		return nil, fmt.Errorf("appointment has no start time")
	}

	hour, minute, err := parseClock(a.StartTime)
	if err != nil {
		return nil, err
	}
	start := time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), hour, minute, 0, 0, loc)

	end := start.Add(time.Hour)
	if a.EndTime != "" {
		hour, minute, err = parseClock(a.EndTime)
		if err != nil {
			return nil, err
		}
		end = time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), hour, minute, 0, 0, loc)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("appointment ends before it starts (%s > %s)", a.StartTime, a.EndTime)
	}

	return &calendar.Event{
		Summary:     a.Title,
		Description: a.Notes,
		Location:    a.Location,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				metaLeadID:   a.LeadID,
				metaLeadName: a.LeadName,
				metaPurpose:  string(a.Purpose),
				metaStatus:   string(a.Status),
			},
		},
	}, nil
}

// fromRemote maps a remote event back to an appointment. Events without both
// timed start and end (all-day entries, malformed instants) come back with an
// empty ID so the caller can drop them without failing the whole batch.
func fromRemote(ev *calendar.Event, loc *time.Location) Appointment {
	if ev == nil || ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
		return Appointment{}
	}
	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return Appointment{}
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		return Appointment{}
	}

	start = start.In(loc)
	end = end.In(loc)

	var private map[string]string
	if ev.ExtendedProperties != nil {
		private = ev.ExtendedProperties.Private
	}

	return Appointment{
		ID:        ev.Id,
		Title:     ev.Summary,
		LeadID:    private[metaLeadID],
		LeadName:  private[metaLeadName],
		Date:      time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc),
		StartTime: start.Format("15:04"),
		EndTime:   end.Format("15:04"),
		Location:  ev.Location,
		Notes:     ev.Description,
		Purpose:   Purpose(private[metaPurpose]),
		Status:    ApptStatus(private[metaStatus]),
	}
}
