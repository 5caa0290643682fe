// Package matchstat reads ATP ranking publications and player biographies
// from the matchstat API.
package matchstat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/tennis-history/internal/platform/fetch"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/metrics"
	"github.com/riskibarqy/tennis-history/internal/platform/resilience"
	"github.com/riskibarqy/tennis-history/internal/usecase"
)

const (
	defaultBaseURL = "https://matchstat.com/tennis/api2"
	providerName   = "matchstat"

	// Dates travel as ISO timestamps and are queried as day.month.year.
	isoLayout   = "2006-01-02T15:04:05.000Z"
	queryLayout = "02.01.2006"
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Breaker    resilience.BreakerConfig
	Logger     *logging.Logger
	Metrics    *metrics.Recorder
}

// Client implements usecase.RankingSource.
type Client struct {
	http *fetch.Client
}

var _ usecase.RankingSource = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	retry := resilience.DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		retry.BaseDelay = cfg.RetryDelay
	}

	return &Client{
		http: fetch.New(fetch.Config{
			Provider:   providerName,
			HTTPClient: cfg.HTTPClient,
			BaseURL:    baseURL,
			Timeout:    cfg.Timeout,
			Retry:      retry,
			Breaker:    cfg.Breaker,
			Logger:     cfg.Logger,
			Metrics:    cfg.Metrics,
		}),
	}
}

type filtersPayload struct {
	Date []string `json:"date"`
}

type rankingEntryPayload struct {
	Position int `json:"position"`
	Player   struct {
		Name string `json:"name"`
	} `json:"player"`
}

type profilePayload struct {
	Birthday *string `json:"birthday"`
	Country  *struct {
		Name    string `json:"name"`
		Acronym string `json:"acronym"`
	} `json:"country"`
}

// ListRankingDates returns the publication dates as UTC midnight epochs.
func (c *Client) ListRankingDates(ctx context.Context) ([]int64, error) {
	var payload filtersPayload
	query := url.Values{"includeAll": {"true"}}
	if err := c.http.GetJSON(ctx, "/ranking/atp/filters", query, &payload); err != nil {
		return nil, translateError(err)
	}

	dates := make([]int64, 0, len(payload.Date))
	for _, raw := range payload.Date {
		day, err := parseDay(raw)
		if err != nil {
			return nil, crerr.Wrapf(err, "parse ranking date %q", raw)
		}
		dates = append(dates, day)
	}
	return dates, nil
}

func (c *Client) GetRankingPage(ctx context.Context, date int64, page int) ([]usecase.ExternalRankingEntry, error) {
	query := url.Values{
		"date":       {time.Unix(date, 0).UTC().Format(queryLayout)},
		"countryAcr": {""},
		"group":      {"singles"},
		"page":       {strconv.Itoa(page)},
		"includeAll": {"true"},
	}
	var payload []rankingEntryPayload
	if err := c.http.GetJSON(ctx, "/ranking/atp/", query, &payload); err != nil {
		return nil, translateError(err)
	}

	out := make([]usecase.ExternalRankingEntry, 0, len(payload))
	for _, item := range payload {
		name := strings.TrimSpace(item.Player.Name)
		if name == "" {
			continue
		}
		out = append(out, usecase.ExternalRankingEntry{PlayerName: name, Position: item.Position})
	}
	return out, nil
}

// GetPlayerBio looks a player up by display name. Fields the profile lacks
// stay empty.
func (c *Client) GetPlayerBio(ctx context.Context, name string) (usecase.ExternalPlayerBio, error) {
	var payload profilePayload
	path := "/profile/" + url.PathEscape(strings.TrimSpace(name))
	if err := c.http.GetJSON(ctx, path, url.Values{"includeAll": {"true"}}, &payload); err != nil {
		return usecase.ExternalPlayerBio{}, translateError(err)
	}

	var bio usecase.ExternalPlayerBio
	if payload.Birthday != nil {
		if ts, err := time.Parse(isoLayout, *payload.Birthday); err == nil {
			unix := ts.Unix()
			bio.BirthDate = &unix
		}
	}
	if payload.Country != nil {
		bio.Country = strings.TrimSpace(payload.Country.Name)
		if bio.Country == "" {
			bio.Country = strings.TrimSpace(payload.Country.Acronym)
		}
	}
	return bio, nil
}

func parseDay(raw string) (int64, error) {
	ts, err := time.Parse(isoLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix(), nil
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fetch.ErrNotFound):
		return fmt.Errorf("%w: %w", usecase.ErrNotFound, err)
	case errors.Is(err, fetch.ErrAccessDenied):
		return fmt.Errorf("%w: %w", usecase.ErrAccessDenied, err)
	case errors.Is(err, fetch.ErrUnavailable):
		return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", providerName, err)
	}
}
