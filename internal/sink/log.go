package sink

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	applog "github.com/mctaxshelter/site-api/internal/platform/logging"
	"github.com/mctaxshelter/site-api/internal/platform/timeutil"
)

// LogSink writes entries through the request-scoped zap logger as one line with
// the sections as nested objects and the plain-text block under "dump".
type LogSink struct{}

// NewLogSink creates a LogSink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Record never fails; zap reports its own write errors to the error output.
func (*LogSink) Record(ctx context.Context, e Entry) error {
	applog.LoggerFromContext(ctx).Info(e.Title,
		zap.String("submission.form", e.Form),
		zap.String("submission.id", e.ID),
		zap.String("submittedAt", e.Timestamp.UTC().Format(timeutil.RFC3339Millis)),
		zap.Object("fields", sections(e.Sections)),
		zap.String("dump", e.Text()),
	)
	return nil
}

type sections []Section

func (ss sections) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, s := range ss {
		if s.Name == "" {
			if err := items(s.Items).MarshalLogObject(enc); err != nil {
				return err
			}
			continue
		}
		if err := enc.AddObject(s.Name, items(s.Items)); err != nil {
			return err
		}
	}
	return nil
}

type items []Item

func (is items) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, it := range is {
		enc.AddString(it.Label, it.Value)
	}
	return nil
}

var _ Sink = (*LogSink)(nil)
