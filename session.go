package main

import (
	"database/sql"
	"log"
	"time"
)

// session is the per-invocation wiring the sync core is handed: credentials
// from the token store, the configured zone, and the API client. Commands
// own it for the duration of one run; nothing outlives the process.
type session struct {
	config *Config
	db     *sql.DB
	loc    *time.Location
	api    *calendarAPI
	creds  credentials
}

func openSession() *session {
	config, err := readConfig(".leadcal.toml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	loc, err := config.Location()
	if err != nil {
		log.Fatalf("Error loading timezone: %v", err)
	}

	db, err := openDB(".leadcal.db")
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	if err := dbInit(db); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	token, err := loadToken(db, config.Account)
	if err != nil {
		log.Fatalf("Error: no token for account %s, run `leadcal auth` first: %v", config.Account, err)
	}

	api := newCalendarAPI(config, newLogger())
	// Persist a refreshed access token so the next invocation skips the
	// redundant refresh.
	api.onRefresh = func(accessToken string) {
		if err := saveAccessToken(db, config.Account, accessToken); err != nil {
			log.Printf("Warning: failed to persist refreshed token: %v", err)
		}
	}

	return &session{
		config: config,
		db:     db,
		loc:    loc,
		api:    api,
		creds:  credentials{AccessToken: token.AccessToken, RefreshToken: token.RefreshToken},
	}
}

func (s *session) close() {
	s.db.Close()
}
