// Package sink records accepted form submissions to operational destinations.
package sink

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mctaxshelter/site-api/internal/platform/timeutil"
)

// Sink receives one Entry per accepted submission.
type Sink interface {
	Record(ctx context.Context, e Entry) error
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, e Entry) error

// Record calls f.
func (f Func) Record(ctx context.Context, e Entry) error {
	return f(ctx, e)
}

// Entry is a labeled, human-readable dump of one submission.
type Entry struct {
	Title     string
	Form      string
	ID        string
	Timestamp time.Time
	Sections  []Section
}

// Section groups related fields under a heading. An empty Name renders the
// items without a heading.
type Section struct {
	Name  string
	Items []Item
}

// Item is one labeled value.
type Item struct {
	Label string
	Value string
}

// Text renders the entry as the multi-line block operators read in the logs.
func (e Entry) Text() string {
	var b strings.Builder
	b.WriteString("=== " + e.Title + " ===\n")
	b.WriteString("Timestamp: " + e.Timestamp.UTC().Format(timeutil.RFC3339Millis) + "\n")
	for _, s := range e.Sections {
		if s.Name != "" {
			b.WriteString("\n" + s.Name + ":\n")
		}
		for _, it := range s.Items {
			b.WriteString(it.Label + ": " + it.Value + "\n")
		}
	}
	b.WriteString(strings.Repeat("=", len(e.Title)+8))
	return b.String()
}

type multi []Sink

// Multi records to every sink in order and joins their errors. Every sink is
// attempted even when an earlier one fails.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Record(ctx context.Context, e Entry) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
