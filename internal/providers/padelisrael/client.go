// Package padelisrael adapts the Padel Israel booking backend (a GraphQL
// endpoint) to the canonical availability model.
package padelisrael

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nimrod29/padel-bot/internal/availability"
)

const defaultBaseURL = "https://book.padelstore.co.il"
const graphqlPath = "/graphql"
const defaultUA = "playbypoint/2 CFNetwork/1474.1 Darwin/23.0.0"

const availableHoursQuery = `
query getAvailableHours($facilityId: ID!, $input: BookingAvailableHoursInput!) {
    facility(id: $facilityId) {
        bookingAvailableHours(input: $input) {
            secondsFromMidnight
            formattedHourStart
            formattedHourEnd
            inWaitlist
            available
            schedule
            group
            __typename
        }
        __typename
    }
}`

type Config struct {
	BaseURL   string
	BasicAuth string // Authorization header value
	Token     string // session token captured from the mobile app

	// PingFacilityID is the facility Ping queries to prove connectivity.
	// Empty means the Rishon Lezion facility.
	PingFacilityID string
}

type Client struct {
	hc   *http.Client
	log  *zap.Logger
	base string
	cfg  Config
}

func New(cfg Config, log *zap.Logger) *Client {
	base := defaultBaseURL
	if strings.TrimSpace(cfg.BaseURL) != "" {
		base = cfg.BaseURL
	}
	if cfg.PingFacilityID == "" {
		cfg.PingFacilityID = "654"
	}
	return &Client{
		hc:   &http.Client{Timeout: 30 * time.Second},
		log:  log,
		base: strings.TrimRight(base, "/"),
		cfg:  cfg,
	}
}

func (c *Client) Name() string { return "padelisrael" }

// Ping proves connectivity by fetching today's availability for the ping
// facility with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	if strings.TrimSpace(c.cfg.Token) == "" {
		return errors.New("PADEL_ISRAEL_TOKEN is empty")
	}
	_, err := c.FetchSlots(ctx, c.cfg.PingFacilityID, time.Now().Format("2006-01-02"))
	return err
}

// FetchSlots queries bookingAvailableHours for one facility and date and
// normalizes the payload. Offsets arrive as seconds from midnight already on
// the 30-minute grid; anything off-grid is dropped rather than passed into
// the detector where it would violate the adjacency rule.
func (c *Client) FetchSlots(ctx context.Context, facilityID, date string) ([]availability.Slot, error) {
	payload := map[string]any{
		"operationName": "getAvailableHours",
		"variables": map[string]any{
			"facilityId": facilityID,
			"input": map[string]any{
				"surface": "padel",
				"date":    date,
				"kind":    "RESERVATION",
			},
		},
		"query": availableHoursQuery,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+graphqlPath, bytes.NewReader(b))
	if err != nil {
		return nil, c.wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", defaultUA)
	if c.cfg.BasicAuth != "" {
		req.Header.Set("Authorization", c.cfg.BasicAuth)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Token", c.cfg.Token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, c.wrap(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.wrap(fmt.Errorf("availability http %d: %s", resp.StatusCode, body))
	}

	var parsed struct {
		Data struct {
			Facility *struct {
				BookingAvailableHours []struct {
					SecondsFromMidnight int    `json:"secondsFromMidnight"`
					FormattedHourStart  string `json:"formattedHourStart"`
					FormattedHourEnd    string `json:"formattedHourEnd"`
					InWaitlist          bool   `json:"inWaitlist"`
					Available           bool   `json:"available"`
				} `json:"bookingAvailableHours"`
			} `json:"facility"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, c.wrap(fmt.Errorf("parse availability: %w", err))
	}
	if parsed.Data.Facility == nil {
		return nil, c.wrap(fmt.Errorf("unexpected response shape: %s", body))
	}

	hours := parsed.Data.Facility.BookingAvailableHours
	out := make([]availability.Slot, 0, len(hours))
	for _, h := range hours {
		if h.SecondsFromMidnight < 0 || h.SecondsFromMidnight%availability.GranularitySeconds != 0 {
			c.log.Debug("dropping off-grid slot",
				zap.String("facility", facilityID),
				zap.Int("seconds", h.SecondsFromMidnight))
			continue
		}
		out = append(out, availability.Slot{
			ResourceID: facilityID,
			Offset:     h.SecondsFromMidnight,
			Available:  h.Available,
			Waitlisted: h.InWaitlist,
			StartLabel: h.FormattedHourStart,
			EndLabel:   h.FormattedHourEnd,
		})
	}
	return out, nil
}

func (c *Client) wrap(err error) error {
	return &availability.ProviderError{Provider: c.Name(), Err: err}
}
