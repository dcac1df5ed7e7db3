package main

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/oauth2"
)

// Lead is the business entity appointments are attributed to. Only the
// identity lives here; the rest of the lead record belongs to the CRM.
type Lead struct {
	ID   string
	Name string
}

func openDB(filename string) (*sql.DB, error) {
	// Try first the same dir, where the config file was found
	db, err := sql.Open("sqlite3", configDir+filename)
	if err != nil {
		// Try the current dir
		db, err = sql.Open("sqlite3", filename)
		if err != nil {
			return nil, err
		}
	}
	return db, nil
}

func dbInit(db *sql.DB) error {
	var dbVersion int
	err := db.QueryRow("SELECT version FROM db_version WHERE name='leadcal'").Scan(&dbVersion)
	if err != nil {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS db_version (
			name TEXT PRIMARY KEY,
			version INTEGER
		)`)
		if err != nil {
			return fmt.Errorf("error creating db_version table: %w", err)
		}
		_, err = db.Exec(`INSERT INTO db_version (name, version) VALUES ('leadcal', 0)`)
		if err != nil {
			return fmt.Errorf("error initializing db_version table: %w", err)
		}
		dbVersion = 0
	}

	if dbVersion == 0 {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		account_name TEXT PRIMARY KEY,
		token TEXT)`)
		if err != nil {
			return fmt.Errorf("error creating tokens table: %w", err)
		}

		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS leads (
		lead_id TEXT PRIMARY KEY,
		name TEXT)`)
		if err != nil {
			return fmt.Errorf("error creating leads table: %w", err)
		}

		dbVersion = 1
		_, err = db.Exec(`UPDATE db_version SET version = 1 WHERE name = 'leadcal'`)
		if err != nil {
			return fmt.Errorf("error updating db_version table: %w", err)
		}
	}

	return nil
}

func saveToken(db *sql.DB, accountName string, token *oauth2.Token) error {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return err
	}

	_, err = db.Exec("INSERT OR REPLACE INTO tokens (account_name, token) VALUES (?, ?)", accountName, tokenJSON)
	return err
}

func loadToken(db *sql.DB, accountName string) (*oauth2.Token, error) {
	var tokenJSON []byte
	err := db.QueryRow("SELECT token FROM tokens WHERE account_name = ?", accountName).Scan(&tokenJSON)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("error unmarshaling token for account %s: %w", accountName, err)
	}
	return &token, nil
}

// saveAccessToken overwrites only the access credential of a stored token,
// keeping the long-lived refresh credential. Used by the transport's refresh
// hook so later invocations skip a redundant refresh.
func saveAccessToken(db *sql.DB, accountName string, accessToken string) error {
	token, err := loadToken(db, accountName)
	if err != nil {
		return err
	}
	token.AccessToken = accessToken
	return saveToken(db, accountName, token)
}

func saveLead(db *sql.DB, lead Lead) error {
	_, err := db.Exec("INSERT OR REPLACE INTO leads (lead_id, name) VALUES (?, ?)", lead.ID, lead.Name)
	return err
}

func loadLead(db *sql.DB, leadID string) (Lead, error) {
	lead := Lead{ID: leadID}
	err := db.QueryRow("SELECT name FROM leads WHERE lead_id = ?", leadID).Scan(&lead.Name)
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func listLeads(db *sql.DB) ([]Lead, error) {
	rows, err := db.Query("SELECT lead_id, name FROM leads ORDER BY lead_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(&lead.ID, &lead.Name); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
