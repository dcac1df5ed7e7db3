package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

type Config struct {
	ClientID       string `toml:"client_id"`
	ClientSecret   string `toml:"client_secret"`
	Account        string `toml:"account"`
	CalendarID     string `toml:"calendar_id"`
	Timezone       string `toml:"timezone"`
	DebounceMS     int    `toml:"debounce_ms"`
	VerbosityLevel int    `toml:"verbosity_level"`
}

var oauthConfig *oauth2.Config
var configDir string
var verbosityLevel int

func initOAuthConfig(config *Config) {
	oauthConfig = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{calendar.CalendarScope},
	}
}

func readConfig(filename string) (*Config, error) {
	// Try first current dir, then `$HOME/.config/leadcal/`
	data, err := os.ReadFile(filename)
	if err != nil {
		data, err = os.ReadFile(os.Getenv("HOME") + "/.config/leadcal/" + filename)
		if err != nil {
			return nil, err
		}
		configDir = os.Getenv("HOME") + "/.config/leadcal/"
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if config.Account == "" {
		config.Account = "default"
	}
	if config.CalendarID == "" {
		config.CalendarID = "primary"
	}
	if config.Timezone == "" {
		config.Timezone = "America/Chicago"
	}
	if config.DebounceMS <= 0 {
		config.DebounceMS = 500
	}

	verbosityLevel = config.VerbosityLevel

	return &config, nil
}

// Location resolves the configured IANA zone. Every instant conversion in the
// mapper and window arithmetic goes through this zone; there is no fixed
// offset anywhere.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func printVerbosely(verbosity int, format string, a ...interface{}) {
	// Print only if verbosity is higher than verbosityLevel
	// verbosityLevel is set in the config file
	// 0 - no output, other than critical errors
	// 1 - report commands and their results
	// 2 - report each appointment touched
	// 3 - report every remote call
	if verbosity <= verbosityLevel {
		fmt.Printf(format, a...)
	}
}
