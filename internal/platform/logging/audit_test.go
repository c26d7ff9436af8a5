package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSubmissionEventAccepted(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	LogSubmissionEvent(ctx, "booking", "BOOK-1700000000000", ResultAccepted, map[string]any{"consultationType": "video"})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("expected info level, got %v", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["submission.form"] != "booking" || fields["submission.result"] != ResultAccepted {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["submission.id"] != "BOOK-1700000000000" {
		t.Fatalf("expected submission id, got %v", fields["submission.id"])
	}
}

func TestLogSubmissionEventRejectedIsNotAFault(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	LogSubmissionEvent(ctx, "contact", "", ResultRejected, nil)

	entry := recorded.All()[0]
	if entry.Level != zapcore.InfoLevel {
		t.Fatalf("expected info level for rejection, got %v", entry.Level)
	}
	fields := entry.ContextMap()
	if _, ok := fields["submission.id"]; ok {
		t.Fatalf("expected no id field, got %v", fields)
	}
	if _, ok := fields["submission.details"]; ok {
		t.Fatalf("expected no details field, got %v", fields)
	}
}

func TestLogSubmissionEventFailedWarns(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	LogSubmissionEvent(ctx, "contact", "c-1", ResultFailed, nil)

	if lvl := recorded.All()[0].Level; lvl != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %v", lvl)
	}
}
