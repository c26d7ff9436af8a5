// Package submission holds the steps shared by every form intake: decoding the
// body, reporting rejections, and recording accepted entries to a sink.
package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mctaxshelter/site-api/internal/form"
	applog "github.com/mctaxshelter/site-api/internal/platform/logging"
	"github.com/mctaxshelter/site-api/internal/platform/timeutil"
	"github.com/mctaxshelter/site-api/internal/sink"
)

// Service errors
var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrSinkFailure      = errors.New("recording submission failed")
)

// Options carries the clock and calendar location used by a form service.
type Options struct {
	Now      timeutil.Clock
	Location *time.Location
}

// Option configures Options.
type Option func(*Options)

// WithClock pins the current time.
func WithClock(now timeutil.Clock) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}

// WithLocation sets the location whose calendar day counts as "today".
func WithLocation(loc *time.Location) Option {
	return func(o *Options) {
		if loc != nil {
			o.Location = loc
		}
	}
}

// NewOptions applies opts over the defaults: time.Now and time.Local.
func NewOptions(opts ...Option) Options {
	o := Options{Now: time.Now, Location: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Decode parses a request body, reporting any parse failure as ErrMalformedRequest.
func Decode(ctx context.Context, formName, contentType string, body []byte) (map[string]any, error) {
	raw, err := form.Decode(contentType, body)
	if err != nil {
		applog.LogSubmissionEvent(ctx, formName, "", applog.ResultFailed,
			map[string]any{"reason": "malformed_request"})
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	return raw, nil
}

// Reject logs an invalid result and returns it as a *form.ValidationError.
func Reject(ctx context.Context, formName string, res form.Result) error {
	applog.LogSubmissionEvent(ctx, formName, "", applog.ResultRejected,
		map[string]any{"errors": len(res.Errors)})
	return res.Err()
}

// Record writes e to s. A failing or panicking sink is reported as ErrSinkFailure.
func Record(ctx context.Context, s sink.Sink, formName string, e sink.Entry) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sink panic: %v", rec)
		}
		if err != nil {
			applog.LogSubmissionEvent(ctx, formName, e.ID, applog.ResultFailed,
				map[string]any{"reason": "sink_failure"})
			err = fmt.Errorf("%w: %w", ErrSinkFailure, err)
			return
		}
		applog.LogSubmissionEvent(ctx, formName, e.ID, applog.ResultAccepted, nil)
	}()
	return s.Record(ctx, e)
}

// Placeholder returns *v, or def when v is nil.
func Placeholder(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
