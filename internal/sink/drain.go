package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	applog "github.com/mctaxshelter/site-api/internal/platform/logging"
	"github.com/mctaxshelter/site-api/internal/platform/timeutil"
)

const (
	userAgent      = "mctaxshelter-site-api"
	defaultTimeout = 5 * time.Second
	maxErrorBody   = 1 << 10
)

// DrainError reports a log drain that answered with a non-2xx status.
type DrainError struct {
	Status int
	Body   string
}

func (e *DrainError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("log drain returned status %d", e.Status)
	}
	return fmt.Sprintf("log drain returned status %d: %s", e.Status, e.Body)
}

// DrainSink forwards entries as JSON to an HTTP log collector.
type DrainSink struct {
	httpClient *http.Client
	url        string
	token      string
	timeout    time.Duration
}

// DrainOption configures a DrainSink.
type DrainOption func(*DrainSink)

// WithToken sets the Bearer token sent with every request.
func WithToken(token string) DrainOption {
	return func(d *DrainSink) {
		d.token = token
	}
}

// WithTimeout bounds each delivery. Zero keeps the default.
func WithTimeout(timeout time.Duration) DrainOption {
	return func(d *DrainSink) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDrainSink creates a sink posting to url. A nil httpClient uses http.DefaultClient.
func NewDrainSink(httpClient *http.Client, url string, opts ...DrainOption) *DrainSink {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	d := &DrainSink{
		httpClient: httpClient,
		url:        url,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type drainPayload struct {
	Title     string         `json:"title"`
	Form      string         `json:"form"`
	ID        string         `json:"id"`
	Timestamp timeutil.Time  `json:"timestamp"`
	Sections  []drainSection `json:"sections"`
	Text      string         `json:"text"`
}

type drainSection struct {
	Name   string      `json:"name,omitempty"`
	Fields []drainItem `json:"fields"`
}

type drainItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func toPayload(e Entry) drainPayload {
	secs := make([]drainSection, 0, len(e.Sections))
	for _, s := range e.Sections {
		fields := make([]drainItem, 0, len(s.Items))
		for _, it := range s.Items {
			fields = append(fields, drainItem(it))
		}
		secs = append(secs, drainSection{Name: s.Name, Fields: fields})
	}
	return drainPayload{
		Title:     e.Title,
		Form:      e.Form,
		ID:        e.ID,
		Timestamp: timeutil.NewTime(e.Timestamp),
		Sections:  secs,
		Text:      e.Text(),
	}
}

// Record posts the entry and fails on transport errors and non-2xx answers.
func (d *DrainSink) Record(ctx context.Context, e Entry) error {
	body, err := json.Marshal(toPayload(e))
	if err != nil {
		return fmt.Errorf("encoding drain payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating drain request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting to log drain: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			applog.LogWarn(ctx, "failed to close drain response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &DrainError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

var _ Sink = (*DrainSink)(nil)
