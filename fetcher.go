package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// syncWindow computes the fetch window for a view mode and reference date.
// Total function of its inputs, no remote state consulted. Weeks start on
// Monday; the month window runs from the 1st to the 1st of the next month.
func syncWindow(mode ViewMode, ref time.Time, loc *time.Location) (time.Time, time.Time) {
	ref = ref.In(loc)
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)

	switch mode {
	case ViewWeek:
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case ViewMonth:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	default: // ViewDay
		return day, day.AddDate(0, 0, 1)
	}
}

// appointmentFeed keeps one UI session's window of appointments mirrored from
// the remote calendar. It is session-owned and passed by reference; nothing
// here is process-global. The in-memory list is a read-through projection:
// discarded and refetched whenever the window changes, only ever mutated
// after the remote side has confirmed a write.
type appointmentFeed struct {
	ctx   context.Context
	api   *calendarAPI
	creds credentials
	loc   *time.Location
	quiet time.Duration
	log   zerolog.Logger

	mu           sync.Mutex
	mode         ViewMode
	ref          time.Time
	appointments []Appointment
	loading      bool
	err          error
	gen          uint64
	debounce     *time.Timer

	// onChange fires after every state transition so the UI can re-render.
	onChange func()
}

func newAppointmentFeed(ctx context.Context, api *calendarAPI, creds credentials, loc *time.Location, quiet time.Duration, log zerolog.Logger) *appointmentFeed {
	return &appointmentFeed{
		ctx:   ctx,
		api:   api,
		creds: creds,
		loc:   loc,
		quiet: quiet,
		log:   log,
	}
}

// SetView records a new (mode, reference date) pair and schedules a fetch
// once the pair has been stable for the quiet period. Scrubbing through
// dates resets the timer each time, so only the value the user settles on
// reaches the network.
func (f *appointmentFeed) SetView(mode ViewMode, ref time.Time) {
	f.mu.Lock()
	f.mode = mode
	f.ref = ref
	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.debounce = time.AfterFunc(f.quiet, f.Refetch)
	f.mu.Unlock()
}

// Refetch starts a fetch of the current window immediately. A fetch started
// later supersedes any in-flight one: each fetch is tagged with a generation
// and a response whose generation is no longer current is discarded, so a
// slow stale response can never overwrite newer state.
func (f *appointmentFeed) Refetch() {
	f.mu.Lock()
	if f.mode == "" {
		// Idle: no view selected yet.
		f.mu.Unlock()
		return
	}
	f.gen++
	gen := f.gen
	f.loading = true
	f.err = nil
	start, end := syncWindow(f.mode, f.ref, f.loc)
	f.mu.Unlock()
	f.notify()

	go f.fetch(gen, start, end)
}

func (f *appointmentFeed) fetch(gen uint64, start, end time.Time) {
	events, err := f.api.listEvents(f.ctx, f.creds, start, end)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		f.log.Debug().Uint64("generation", gen).Msg("discarding stale fetch result")
		return
	}
	f.loading = false
	if err != nil {
		f.err = err
		f.mu.Unlock()
		f.notify()
		return
	}

	mapped := make([]Appointment, 0, len(events))
	for _, ev := range events {
		a := fromRemote(ev, f.loc)
		if a.ID == "" {
			// All-day or otherwise unusable entry; drop it, keep the batch.
			continue
		}
		mapped = append(mapped, a)
	}
	f.appointments = mapped
	f.err = nil
	f.mu.Unlock()
	f.notify()
}

// CreateAppointment writes a new appointment to the remote calendar. The
// local list is touched only after the remote side confirms; a failed write
// is never visible as if it succeeded.
func (f *appointmentFeed) CreateAppointment(ctx context.Context, a Appointment) (Appointment, error) {
	if a.ID != "" {
		return Appointment{}, fmt.Errorf("appointment already has remote id %s", a.ID)
	}
	payload, err := toRemote(a, f.loc)
	if err != nil {
		return Appointment{}, err
	}

	created, err := f.api.insertEvent(ctx, f.creds, payload)
	if err != nil {
		return Appointment{}, err
	}
	mapped := fromRemote(created, f.loc)

	f.mu.Lock()
	f.appointments = append(f.appointments, mapped)
	f.mu.Unlock()
	f.notify()
	f.Refetch()
	return mapped, nil
}

func (f *appointmentFeed) UpdateAppointment(ctx context.Context, a Appointment) (Appointment, error) {
	if a.ID == "" {
		return Appointment{}, fmt.Errorf("appointment has no remote id")
	}
	payload, err := toRemote(a, f.loc)
	if err != nil {
		return Appointment{}, err
	}

	updated, err := f.api.updateEvent(ctx, f.creds, a.ID, payload)
	if err != nil {
		return Appointment{}, err
	}
	mapped := fromRemote(updated, f.loc)

	f.mu.Lock()
	for i := range f.appointments {
		if f.appointments[i].ID == a.ID {
			f.appointments[i] = mapped
			break
		}
	}
	f.mu.Unlock()
	f.notify()
	f.Refetch()
	return mapped, nil
}

func (f *appointmentFeed) DeleteAppointment(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("appointment has no remote id")
	}
	if err := f.api.deleteEvent(ctx, f.creds, id); err != nil {
		return err
	}

	f.mu.Lock()
	kept := f.appointments[:0]
	for _, a := range f.appointments {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	f.appointments = kept
	f.mu.Unlock()
	f.notify()
	f.Refetch()
	return nil
}

// Appointments returns a copy of the current window's list.
func (f *appointmentFeed) Appointments() []Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Appointment, len(f.appointments))
	copy(out, f.appointments)
	return out
}

func (f *appointmentFeed) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

func (f *appointmentFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close stops a pending debounce timer. In-flight fetches finish on their
// own and are discarded by the generation check if superseded.
func (f *appointmentFeed) Close() {
	f.mu.Lock()
	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.mu.Unlock()
}

func (f *appointmentFeed) notify() {
	if f.onChange != nil {
		f.onChange()
	}
}
