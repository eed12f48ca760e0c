// Package lazuz adapts the Lazuz booking backend (a REST endpoint returning
// per-court HH:MM:SS strings) to the canonical availability model.
package lazuz

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nimrod29/padel-bot/internal/availability"
)

const defaultBaseURL = "https://server.lazuz.co.il"
const slotsPath = "/client-app/club/availble-slots/" // upstream spelling
const defaultUA = "Dart/3.4 (dart:io)"

const padelCourtType = 9

type Config struct {
	BaseURL       string
	BearerToken   string
	AppCheckToken string

	// Query defaults sent with every request.
	DurationMinutes int    // 0 means 60
	FromTime        string // "" means "10:00:00"

	// PingClubID is the club Ping queries to prove connectivity. Empty
	// means the House Padel Beit Berl club.
	PingClubID string
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
	if cfg.DurationMinutes == 0 {
		cfg.DurationMinutes = 60
	}
	if cfg.FromTime == "" {
		cfg.FromTime = "10:00:00"
	}
	if cfg.PingClubID == "" {
		cfg.PingClubID = "215"
	}
	return &Client{
		hc: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				// The upstream cert chain does not validate from all networks.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		log:  log,
		base: strings.TrimRight(base, "/"),
		cfg:  cfg,
	}
}

func (c *Client) Name() string { return "lazuz" }

// Ping proves connectivity by fetching today's availability for the ping
// club with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	if strings.TrimSpace(c.cfg.BearerToken) == "" {
		return errors.New("LAZUZ_TOKEN is empty")
	}
	_, err := c.FetchSlots(ctx, c.cfg.PingClubID, time.Now().Format("2006-01-02"))
	return err
}

// FetchSlots lists free slots for every padel court of one club on one date.
// Court IDs become the slot ResourceID so runs never chain across courts.
func (c *Client) FetchSlots(ctx context.Context, clubID, date string) ([]availability.Slot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+slotsPath, nil)
	if err != nil {
		return nil, c.wrap(err)
	}
	q := req.URL.Query()
	q.Set("club_id", clubID)
	q.Set("date", date)
	q.Set("duration", strconv.Itoa(c.cfg.DurationMinutes))
	q.Set("court_type", strconv.Itoa(padelCourtType))
	q.Set("from_time", c.cfg.FromTime)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", defaultUA)
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}
	if c.cfg.AppCheckToken != "" {
		req.Header.Set("X-Appcheck-Server", c.cfg.AppCheckToken)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, c.wrap(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.wrap(fmt.Errorf("slots http %d: %s", resp.StatusCode, body))
	}

	var parsed struct {
		Courts []struct {
			CourtID          json.Number `json:"courtId"`
			AvailbleTimeSlot []string    `json:"availbleTimeSlot"`
		} `json:"courts"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, c.wrap(fmt.Errorf("parse slots: %w", err))
	}
	if parsed.Courts == nil {
		return nil, c.wrap(fmt.Errorf("unexpected response shape: %s", body))
	}

	var out []availability.Slot
	for _, court := range parsed.Courts {
		courtID := court.CourtID.String()
		for _, ts := range court.AvailbleTimeSlot {
			offset, err := parseTimeOfDay(ts)
			if err != nil || offset%availability.GranularitySeconds != 0 {
				c.log.Debug("dropping unparseable or off-grid slot",
					zap.String("club", clubID),
					zap.String("court", courtID),
					zap.String("time", ts))
				continue
			}
			out = append(out, availability.Slot{
				ResourceID: courtID,
				Offset:     offset,
				Available:  true, // the endpoint only returns free slots
				StartLabel: availability.FormatOffset(offset),
				EndLabel:   availability.FormatOffset(offset + availability.GranularitySeconds),
			})
		}
	}
	return out, nil
}

// parseTimeOfDay converts "HH:MM:SS" (or "HH:MM") to seconds from midnight.
func parseTimeOfDay(s string) (int, error) {
	layout := "15:04:05"
	if len(s) == 5 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

func (c *Client) wrap(err error) error {
	return &availability.ProviderError{Provider: c.Name(), Err: err}
}
