package padelisrael

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/nimrod29/padel-bot/internal/availability"
)

func TestFetchSlots(t *testing.T) {
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Token"); got != "sess-token" {
			t.Errorf("Token header = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"data":{"facility":{"bookingAvailableHours":[
			{"secondsFromMidnight":64800,"formattedHourStart":"18:00","formattedHourEnd":"18:30","inWaitlist":false,"available":true},
			{"secondsFromMidnight":66600,"formattedHourStart":"18:30","formattedHourEnd":"19:00","inWaitlist":true,"available":true},
			{"secondsFromMidnight":68400,"formattedHourStart":"19:00","formattedHourEnd":"19:30","inWaitlist":false,"available":false},
			{"secondsFromMidnight":68401,"formattedHourStart":"19:00","formattedHourEnd":"19:30","inWaitlist":false,"available":true}
		]}}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "sess-token"}, zap.NewNop())
	slots, err := c.FetchSlots(context.Background(), "654", "2026-08-31")
	if err != nil {
		t.Fatalf("FetchSlots: %v", err)
	}

	if gotReq["operationName"] != "getAvailableHours" {
		t.Errorf("operationName = %v", gotReq["operationName"])
	}

	// Off-grid 68401 dropped; the rest normalized with flags preserved.
	if len(slots) != 3 {
		t.Fatalf("got %d slots: %+v", len(slots), slots)
	}
	first := slots[0]
	if first.ResourceID != "654" || first.Offset != 64800 || !first.Available || first.Waitlisted {
		t.Errorf("first slot = %+v", first)
	}
	if first.StartLabel != "18:00" || first.EndLabel != "18:30" {
		t.Errorf("labels = %q..%q", first.StartLabel, first.EndLabel)
	}
	if !slots[1].Waitlisted {
		t.Error("waitlist flag lost in normalization")
	}
	if slots[2].Available {
		t.Error("availability flag lost in normalization")
	}
}

func TestFetchSlotsErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusBadGateway)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{"))
			},
		},
		{
			name: "missing facility",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"errors":[{"message":"not found"}],"data":{}}`))
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := New(Config{BaseURL: srv.URL, Token: "x"}, zap.NewNop())
			_, err := c.FetchSlots(context.Background(), "654", "2026-08-31")
			if err == nil {
				t.Fatal("expected error")
			}
			if !availability.IsProviderError(err) {
				t.Errorf("error %v is not a ProviderError", err)
			}
		})
	}
}

func TestPing(t *testing.T) {
	var gotFacility string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables struct {
				FacilityID string `json:"facilityId"`
			} `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotFacility = req.Variables.FacilityID
		w.Write([]byte(`{"data":{"facility":{"bookingAvailableHours":[]}}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "x", PingFacilityID: "540"}, zap.NewNop())
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if gotFacility != "540" {
		t.Errorf("ping queried facility %q, want 540", gotFacility)
	}
}

func TestPingFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := New(Config{BaseURL: srv.URL, Token: "x"}, zap.NewNop()).Ping(context.Background())
	if err == nil {
		t.Fatal("Ping against a rejecting server should fail")
	}
	if !availability.IsProviderError(err) {
		t.Errorf("error %v is not a ProviderError", err)
	}

	if err := New(Config{BaseURL: srv.URL}, zap.NewNop()).Ping(context.Background()); err == nil {
		t.Error("Ping without token should fail before any request")
	}
}
