// Package collyfetcher retrieves team score payloads from the scoreboard API using gocolly.
package collyfetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/JakeFAU/cp-leaderboard/internal/scoreboard"
)

var (
	// ErrUnexpectedStatus is returned for any response other than 200 OK.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrNoData is returned when the payload's data field is missing or empty.
	ErrNoData = errors.New("no score data")
)

// Config controls collector behavior.
type Config struct {
	BaseURL   string
	TeamParam string
	UserAgent string
	Timeout   time.Duration
	// Limiter, if set, paces requests to the API host.
	Limiter Limiter
}

// Limiter blocks until a request to a URL may be sent.
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Fetcher fetches one team's scores per call. It never retries.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

type response struct {
	status int
	body   []byte
}

type apiResponse struct {
	Data []scoreboard.ImageRecord `json:"data"`
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false), colly.AllowURLRevisit())
	// The scoreboard is a JSON API rather than a crawl target.
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Fetch retrieves the score records for teamID. Every failure is reported through the
// payload's Err field with no records, so callers can treat the team as having no data.
func (f *Fetcher) Fetch(ctx context.Context, teamID string) scoreboard.TeamPayload {
	payload := scoreboard.TeamPayload{TeamID: teamID}

	target, err := f.teamURL(teamID)
	if err != nil {
		payload.Err = err
		return payload
	}

	if f.cfg.Limiter != nil {
		if err := f.cfg.Limiter.Wait(ctx, target); err != nil {
			payload.Err = fmt.Errorf("team %q: %w", teamID, err)
			return payload
		}
	}

	var (
		resp     response
		fetchErr error
	)
	collector := f.buildCollector()
	f.configureCollectorHooks(collector, &resp, &fetchErr)
	if err := f.runCollector(ctx, collector, target, &fetchErr); err != nil {
		payload.Err = err
		return payload
	}

	records, err := decodeRecords(resp)
	if err != nil {
		payload.Err = fmt.Errorf("team %q: %w", teamID, err)
		return payload
	}
	payload.Records = records
	return payload
}

func (f *Fetcher) teamURL(teamID string) (string, error) {
	u, err := url.Parse(f.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Add(f.cfg.TeamParam, teamID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (f *Fetcher) buildCollector() *colly.Collector {
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = true
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	return collector
}

func (f *Fetcher) configureCollectorHooks(hooks collectorHooks, resp *response, fetchErr *error) {
	hooks.OnResponse(func(r *colly.Response) {
		*resp = response{
			status: r.StatusCode,
			body:   append([]byte(nil), r.Body...),
		}
	})

	hooks.OnError(func(_ *colly.Response, err error) {
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, target string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(target)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func decodeRecords(resp response) ([]scoreboard.ImageRecord, error) {
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.status)
	}
	var decoded apiResponse
	if err := json.Unmarshal(resp.body, &decoded); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if len(decoded.Data) == 0 {
		return nil, ErrNoData
	}
	return decoded.Data, nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
