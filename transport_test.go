package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

// testAPI wires a calendarAPI against a stub server that serves both the
// calendar endpoints and the token endpoint.
func testAPI(srv *httptest.Server) *calendarAPI {
	return &calendarAPI{
		baseURL:      srv.URL,
		tokenURL:     srv.URL + "/token",
		calendarID:   "primary",
		clientID:     "id",
		clientSecret: "secret",
		client:       srv.Client(),
		log:          zerolog.Nop(),
	}
}

func TestCallRetriesOnceAfterRefresh(t *testing.T) {
	eventCalls := 0
	refreshCalls := 0
	var secondAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		w.Write([]byte(`{"access_token": "refreshed"}`))
	})
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		eventCalls++
		if eventCalls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		secondAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"items": []}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := testAPI(srv)
	var refreshed []string
	api.onRefresh = func(token string) { refreshed = append(refreshed, token) }

	_, err := api.listEvents(context.Background(), credentials{AccessToken: "stale", RefreshToken: "long-lived"}, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, eventCalls, "exactly two underlying HTTP calls")
	assert.Equal(t, 1, refreshCalls, "exactly one refresh call")
	assert.Equal(t, "Bearer refreshed", secondAuth)
	assert.Equal(t, []string{"refreshed"}, refreshed, "onRefresh fires once with the new token")
}

func TestCallFailsAfterSecond401(t *testing.T) {
	eventCalls := 0
	refreshCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		w.Write([]byte(`{"access_token": "refreshed"}`))
	})
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		eventCalls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Invalid Credentials"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := testAPI(srv)
	_, err := api.listEvents(context.Background(), credentials{AccessToken: "stale", RefreshToken: "long-lived"}, time.Now(), time.Now().Add(time.Hour))

	var apiErr *RemoteAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, 2, eventCalls, "no second retry")
	assert.Equal(t, 1, refreshCalls)
}

func TestCallNoRefreshWithoutRefreshToken(t *testing.T) {
	eventCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		t.Error("token endpoint must not be called without a refresh token")
	})
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		eventCalls++
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := testAPI(srv)
	_, err := api.listEvents(context.Background(), credentials{AccessToken: "stale"}, time.Now(), time.Now().Add(time.Hour))

	var apiErr *RemoteAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, 1, eventCalls)
}

func TestCallSurfacesOriginal401WhenRefreshFails(t *testing.T) {
	eventCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant"}`))
	})
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		eventCalls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Invalid Credentials"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := testAPI(srv)
	_, err := api.listEvents(context.Background(), credentials{AccessToken: "stale", RefreshToken: "revoked"}, time.Now(), time.Now().Add(time.Hour))

	var apiErr *RemoteAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid Credentials", apiErr.Message)
	assert.Equal(t, 1, eventCalls, "no retry when the refresh itself fails")
}

func TestCallErrorMessageParsing(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"google nested message", `{"error": {"message": "Not Found"}}`, "Not Found"},
		{"flat message", `{"message": "quota exceeded"}`, "quota exceeded"},
		{"unparseable body", `<html>backend error</html>`, "calendar API request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			api := testAPI(srv)
			err := api.deleteEvent(context.Background(), credentials{AccessToken: "access"}, "missing")

			var apiErr *RemoteAPIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusNotFound, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestCallNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	api := testAPI(srv)
	srv.Close()

	_, err := api.listEvents(context.Background(), credentials{AccessToken: "access"}, time.Now(), time.Now().Add(time.Hour))

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	var apiErr *RemoteAPIError
	assert.False(t, errors.As(err, &apiErr), "unreachable service must not look like a rejected request")
}

func TestListEventsQuery(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"timeMin":      r.URL.Query().Get("timeMin"),
			"timeMax":      r.URL.Query().Get("timeMax"),
			"singleEvents": r.URL.Query().Get("singleEvents"),
			"orderBy":      r.URL.Query().Get("orderBy"),
		}
		w.Write([]byte(`{"items": [{"id": "ev1", "summary": "Roof inspection"}]}`))
	}))
	defer srv.Close()

	timeMin := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	timeMax := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	api := testAPI(srv)
	events, err := api.listEvents(context.Background(), credentials{AccessToken: "access"}, timeMin, timeMax)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev1", events[0].Id)
	assert.Equal(t, map[string]string{
		"timeMin":      "2024-03-01T00:00:00Z",
		"timeMax":      "2024-04-01T00:00:00Z",
		"singleEvents": "true",
		"orderBy":      "startTime",
	}, gotQuery)
}

func TestInsertAndDeleteEvent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"id": "created-1", "summary": "Inspection"}`))
	})
	mux.HandleFunc("/calendars/primary/events/created-1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := testAPI(srv)
	creds := credentials{AccessToken: "access"}

	created, err := api.insertEvent(context.Background(), creds, &calendar.Event{Summary: "Inspection"})
	require.NoError(t, err)
	assert.Equal(t, "created-1", created.Id)

	require.NoError(t, api.deleteEvent(context.Background(), creds, "created-1"))
}
