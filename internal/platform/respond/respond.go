package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mctaxshelter/site-api/internal/api"
	applog "github.com/mctaxshelter/site-api/internal/platform/logging"
)

const (
	// MsgValidationFailed is the message of every 400 validation envelope.
	MsgValidationFailed = "Validation failed"

	msgNotFound          = "resource not found"
	msgMethodNotAllowed  = "method not allowed"
	msgInternalServerErr = "internal server error"
)

var installOnce sync.Once

// Install makes Huma render framework-generated errors (body too large, schema
// violations, unexpected handler errors) with the shared envelope.
func Install() {
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			// Huma calls NewError(0, "") at registration to derive the error schema.
			if status == 0 {
				return &envelopeError{}
			}
			return statusError(context.Background(), status, messageOrDefault(status, msg), messagesFromErrors(errs), errs...)
		}

		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			goCtx := context.Background()
			if hctx != nil {
				goCtx = hctx.Context()
			}
			return statusError(goCtx, status, messageOrDefault(status, msg), messagesFromErrors(errs), errs...)
		}
	})
}

// Success wraps data in a success envelope tagged with the request's trace ID.
func Success[T any](ctx context.Context, message string, data T) api.Envelope[T] {
	return api.NewSuccessEnvelope(applog.TraceIDFromContext(ctx), message, data)
}

// Rejected returns the 400 envelope listing every violated rule. Rejections are
// user-correctable and are not logged here.
func Rejected(ctx context.Context, messages []string) huma.StatusError {
	env := api.NewErrorEnvelope[struct{}](applog.TraceIDFromContext(ctx), MsgValidationFailed, messages, "")
	return &envelopeError{Envelope: env, status: http.StatusBadRequest}
}

// Failure returns a failure envelope with the given status and message and logs
// cause. The cause text is placed in the envelope only when exposeDetail is true.
func Failure(ctx context.Context, status int, message string, cause error, exposeDetail bool) huma.StatusError {
	se := statusError(ctx, status, messageOrDefault(status, message), nil, cause)
	if exposeDetail && cause != nil {
		if env, ok := se.(*envelopeError); ok {
			env.Envelope.Error = cause.Error()
		}
	}
	return se
}

// Write serializes an envelope directly to the ResponseWriter.
func Write[T any](w http.ResponseWriter, status int, env api.Envelope[T]) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(env)
}

// WriteError renders a failure envelope for plain net/http handlers, logging as needed.
func WriteError(w http.ResponseWriter, ctx context.Context, status int, msg string, errs ...error) error {
	se := statusError(ctx, status, messageOrDefault(status, msg), nil, errs...)
	env, ok := se.(*envelopeError)
	if !ok {
		return se
	}
	return Write(w, env.status, env.Envelope)
}

// NotFoundHandler emits a shared-envelope 404 response.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := WriteError(w, r.Context(), http.StatusNotFound, msgNotFound); err != nil {
			applog.LogError(r.Context(), "failed to render not found", err)
		}
	}
}

// MethodNotAllowedHandler emits a shared-envelope 405 response with an Allow header.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		if err := WriteError(w, r.Context(), http.StatusMethodNotAllowed, msgMethodNotAllowed); err != nil {
			applog.LogError(r.Context(), "failed to render method not allowed", err)
		}
	}
}

// Recoverer converts panics into 500 envelopes. http.ErrAbortHandler is re-panicked
// so net/http can abort the connection.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
					panic(rec)
				}
				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("%v", v)
				}
				err = fmt.Errorf("%w\n%s", err, debug.Stack())
				if writeErr := WriteError(w, r.Context(), http.StatusInternalServerError, msgInternalServerErr, err); writeErr != nil {
					applog.LogError(r.Context(), "failed to render internal error", writeErr)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// allowedMethods inspects chi's routing context to discover allowed methods.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}

	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.Path
		if r.URL.RawPath != "" {
			routePath = r.URL.RawPath
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	methods := []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}
	allowed := make([]string, 0, len(methods))
	for _, method := range methods {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// envelopeError is a huma.StatusError that marshals as the shared envelope.
type envelopeError struct {
	api.Envelope[struct{}]
	status int
}

func (e *envelopeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.status)
}

func (e *envelopeError) GetStatus() int {
	return e.status
}

func statusError(ctx context.Context, status int, msg string, messages []string, errs ...error) huma.StatusError {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("message", msg),
	}
	if len(messages) > 0 {
		fields = append(fields, zap.Strings("errors", messages))
	}
	logWithStatus(ctx, status, msg, errors.Join(errs...), fields...)
	env := api.NewErrorEnvelope[struct{}](applog.TraceIDFromContext(ctx), msg, messages, "")
	return &envelopeError{Envelope: env, status: status}
}

// messagesFromErrors turns Huma error details into envelope messages of the form
// "location: message".
func messagesFromErrors(errs []error) []string {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		msg := err.Error()
		if detailer, ok := err.(huma.ErrorDetailer); ok {
			if detail := detailer.ErrorDetail(); detail != nil {
				msg = detail.Message
				if detail.Location != "" {
					msg = detail.Location + ": " + detail.Message
				}
			}
		}
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		return nil
	}
	return messages
}

func messageOrDefault(status int, msg string) string {
	if strings.TrimSpace(msg) != "" {
		return msg
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

func logWithStatus(ctx context.Context, status int, msg string, err error, fields ...zap.Field) {
	if ctx == nil {
		ctx = context.Background()
	}
	if msg == "" {
		msg = "request failed"
	}
	switch {
	case status >= 500:
		applog.LogError(ctx, msg, err, fields...)
	case status >= 400:
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		applog.LogWarn(ctx, msg, fields...)
	default:
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		applog.LogInfo(ctx, msg, fields...)
	}
}
