package main

import "strings"

// LeadEvents is the result of attributing a window of events to one lead.
// Buckets are best-effort labels from title keywords, never exhaustive:
// attributed events matching no keyword land in Unclassified.
type LeadEvents struct {
	Attributed   []Appointment
	ByBucket     map[string][]Appointment
	Unclassified []Appointment
}

type keywordBucket struct {
	name     string
	keywords []string
}

// Ordered; first matching keyword wins.
var leadEventBuckets = []keywordBucket{
	{"adjuster", []string{"adjuster", "inspection"}},
	{"build", []string{"build", "install"}},
	{"acv", []string{"acv"}},
	{"rcv", []string{"rcv"}},
}

// attributedToLead reports whether an event belongs to the lead. The private
// metadata id is authoritative; title and notes matching are fallbacks for
// events whose metadata was stripped by external edits.
func attributedToLead(a Appointment, leadID, leadName string) bool {
	if leadID != "" && a.LeadID == leadID {
		return true
	}
	if leadName != "" && strings.Contains(strings.ToLower(a.Title), strings.ToLower(leadName)) {
		return true
	}
	if leadID != "" && strings.Contains(a.Notes, leadID) {
		return true
	}
	return false
}

func classifyLeadEvents(events []Appointment, leadID, leadName string) LeadEvents {
	result := LeadEvents{
		ByBucket: make(map[string][]Appointment),
	}

	for _, a := range events {
		if !attributedToLead(a, leadID, leadName) {
			continue
		}
		result.Attributed = append(result.Attributed, a)

		title := strings.ToLower(a.Title)
		bucketed := false
		for _, bucket := range leadEventBuckets {
			for _, keyword := range bucket.keywords {
				if strings.Contains(title, keyword) {
					result.ByBucket[bucket.name] = append(result.ByBucket[bucket.name], a)
					bucketed = true
					break
				}
			}
			if bucketed {
				break
			}
		}
		if !bucketed {
			result.Unclassified = append(result.Unclassified, a)
		}
	}

	return result
}
