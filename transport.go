package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/calendar/v3"
)

const googleCalendarBaseURL = "https://www.googleapis.com/calendar/v3"

// RemoteAPIError means the remote API rejected a well-formed request: bad
// input, not-found, rate-limited, server error. Not retried beyond the single
// auth-retry case.
type RemoteAPIError struct {
	Status  int
	Message string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("calendar API error %d: %s", e.Status, e.Message)
}

// TransportError means the request never reached or returned from the remote
// service, so the UI can suggest "check connection" rather than "fix your
// input".
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calendar service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// credentials is the access/refresh pair supplied by the session layer.
// The transport treats it as read-only input; a refreshed access token is
// used for the single retried call and reported through onRefresh only.
type credentials struct {
	AccessToken  string
	RefreshToken string
}

type calendarAPI struct {
	baseURL      string
	tokenURL     string
	calendarID   string
	clientID     string
	clientSecret string
	client       *http.Client
	log          zerolog.Logger

	// onRefresh, when set, receives the new access token after a recovered
	// 401 so the session layer can persist it. Nil keeps refreshes
	// call-local.
	onRefresh func(accessToken string)
}

func newCalendarAPI(config *Config, log zerolog.Logger) *calendarAPI {
	return &calendarAPI{
		baseURL:      googleCalendarBaseURL,
		tokenURL:     googleTokenURL,
		calendarID:   config.CalendarID,
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		client:       http.DefaultClient,
		log:          log,
	}
}

// call issues one authenticated request against the calendar API. On exactly
// 401 with a refresh credential present it refreshes once and re-issues the
// identical request once; the second outcome is final. Any other non-success
// status becomes a RemoteAPIError, network failures become TransportError,
// and a success body is decoded into out as-is.
func (api *calendarAPI) call(ctx context.Context, method, path string, query url.Values, body interface{}, creds credentials, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request body: %w", err)
		}
	}

	status, respBody, err := api.do(ctx, method, path, query, payload, creds.AccessToken)
	if err != nil {
		return &TransportError{Err: err}
	}

	if status == http.StatusUnauthorized && creds.RefreshToken != "" {
		newToken, refreshErr := refreshAccessToken(ctx, api.client, api.tokenURL, api.clientID, api.clientSecret, creds.RefreshToken)
		if refreshErr != nil {
			// Fall through to normal error handling on the original response.
			api.log.Warn().Err(refreshErr).Msg("token refresh failed")
		} else {
			api.log.Debug().Str("method", method).Str("path", path).Msg("retrying with refreshed token")
			if api.onRefresh != nil {
				api.onRefresh(newToken)
			}
			status, respBody, err = api.do(ctx, method, path, query, payload, newToken)
			if err != nil {
				return &TransportError{Err: err}
			}
		}
	}

	if status < 200 || status > 299 {
		return &RemoteAPIError{Status: status, Message: apiErrorMessage(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}
	return nil
}

func (api *calendarAPI) do(ctx context.Context, method, path string, query url.Values, payload []byte, accessToken string) (int, []byte, error) {
	u := api.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := api.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// apiErrorMessage pulls the provider-supplied message out of an error body.
// Google nests it under "error", other responses carry a flat "message"; a
// body that parses as neither gets a generic message.
func apiErrorMessage(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &nested); err == nil {
		if nested.Error.Message != "" {
			return nested.Error.Message
		}
		if nested.Message != "" {
			return nested.Message
		}
	}
	return "calendar API request failed"
}

func (api *calendarAPI) eventsPath() string {
	return "/calendars/" + url.PathEscape(api.calendarID) + "/events"
}

func (api *calendarAPI) listEvents(ctx context.Context, creds credentials, timeMin, timeMax time.Time) ([]*calendar.Event, error) {
	query := url.Values{
		"timeMin":      {timeMin.Format(time.RFC3339)},
		"timeMax":      {timeMax.Format(time.RFC3339)},
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
	}

	var events calendar.Events
	if err := api.call(ctx, http.MethodGet, api.eventsPath(), query, nil, creds, &events); err != nil {
		return nil, err
	}
	return events.Items, nil
}

func (api *calendarAPI) insertEvent(ctx context.Context, creds credentials, event *calendar.Event) (*calendar.Event, error) {
	var created calendar.Event
	if err := api.call(ctx, http.MethodPost, api.eventsPath(), nil, event, creds, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (api *calendarAPI) updateEvent(ctx context.Context, creds credentials, eventID string, event *calendar.Event) (*calendar.Event, error) {
	var updated calendar.Event
	path := api.eventsPath() + "/" + url.PathEscape(eventID)
	if err := api.call(ctx, http.MethodPut, path, nil, event, creds, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (api *calendarAPI) deleteEvent(ctx context.Context, creds credentials, eventID string) error {
	path := api.eventsPath() + "/" + url.PathEscape(eventID)
	return api.call(ctx, http.MethodDelete, path, nil, nil, creds, nil)
}
