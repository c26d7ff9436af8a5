package api

// Envelope is the response shape returned by every endpoint, success or failure.
// success: clients branch on this flag only
// message: human-readable outcome
// data: present on success
// errors: present on validation failure, one message per violated rule
// error: failure detail, populated only in development mode
type Envelope[T any] struct {
	Success bool     `json:"success" doc:"Whether the request was accepted"`
	Message string   `json:"message" doc:"Human-readable outcome" example:"Validation failed"`
	Data    *T       `json:"data,omitempty" doc:"Payload, present on success"`
	Errors  []string `json:"errors,omitempty" doc:"Validation messages in field order"`
	Error   string   `json:"error,omitempty" doc:"Failure detail, development mode only"`
	TraceID *string  `json:"traceId,omitempty" doc:"Correlation identifier for support requests"`
}

// NewSuccessEnvelope constructs a success envelope carrying a copy of data.
func NewSuccessEnvelope[T any](traceID *string, message string, data T) Envelope[T] {
	d := data
	return Envelope[T]{
		Success: true,
		Message: message,
		Data:    &d,
		TraceID: traceID,
	}
}

// NewErrorEnvelope constructs a failure envelope with no data. errs is copied so
// callers may reuse their slice.
func NewErrorEnvelope[T any](traceID *string, message string, errs []string, detail string) Envelope[T] {
	var cloned []string
	if len(errs) > 0 {
		cloned = make([]string, len(errs))
		copy(cloned, errs)
	}
	return Envelope[T]{
		Success: false,
		Message: message,
		Errors:  cloned,
		Error:   detail,
		TraceID: traceID,
	}
}
