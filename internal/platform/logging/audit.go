package logging

import (
	"context"

	"go.uber.org/zap"
)

// Submission outcomes recorded by LogSubmissionEvent.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// LogSubmissionEvent writes one line describing how a form submission ended.
//
// Args:
//   - form: the form kind ("contact", "booking")
//   - submissionID: the identifier assigned to the submission, empty when none was assigned
//   - result: one of ResultAccepted, ResultRejected, ResultFailed
//   - details: optional additional details
//
// Rejections are logged at info level; they are user-correctable and not faults.
func LogSubmissionEvent(ctx context.Context, form, submissionID, result string, details map[string]any) {
	logger := LoggerFromContext(ctx)
	fields := []zap.Field{
		zap.String("submission.form", form),
		zap.String("submission.result", result),
	}
	if submissionID != "" {
		fields = append(fields, zap.String("submission.id", submissionID))
	}
	if len(details) > 0 {
		fields = append(fields, zap.Any("submission.details", details))
	}

	if result == ResultFailed {
		logger.Warn("Submission event", fields...)
		return
	}
	logger.Info("Submission event", fields...)
}
