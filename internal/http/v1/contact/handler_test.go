package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mctaxshelter/site-api/internal/api"
	applog "github.com/mctaxshelter/site-api/internal/platform/logging"
	appmiddleware "github.com/mctaxshelter/site-api/internal/platform/middleware"
	"github.com/mctaxshelter/site-api/internal/platform/respond"
	contactsvc "github.com/mctaxshelter/site-api/internal/service/contact"
	"github.com/mctaxshelter/site-api/internal/sink"
)

const validBody = `{"name":"Jane Doe","email":"jane@example.com","phone":"555-1234","subject":"general","message":"Hi"}`

func newTestRouter(s sink.Sink, exposeDetail bool) chi.Router {
	respond.Install()

	router := chi.NewRouter()
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(""),
		respond.Recoverer(),
	)
	cfg := huma.DefaultConfig("ContactTest", "test")
	cfg.CreateHooks = nil
	humaAPI := humachi.New(router, cfg)
	Register(humaAPI, contactsvc.NewRecorder(s), Options{ExposeDetail: exposeDetail})
	return router
}

func okSink() sink.Sink {
	return sink.Func(func(context.Context, sink.Entry) error { return nil })
}

func post(t *testing.T, router http.Handler, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(chimiddleware.RequestIDHeader, "contact-test")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) api.Envelope[T] {
	t.Helper()
	var env api.Envelope[T]
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("json unmarshal %q: %v", resp.Body.String(), err)
	}
	return env
}

func TestSubmitValid(t *testing.T) {
	var entries []sink.Entry
	s := sink.Func(func(_ context.Context, e sink.Entry) error {
		entries = append(entries, e)
		return nil
	})
	resp := post(t, newTestRouter(s, false), "application/json", []byte(validBody))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	env := decode[ContactData](t, resp)
	if !env.Success || env.Message != msgAccepted {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Data == nil || env.Data.Name != "Jane Doe" || env.Data.Email != "jane@example.com" {
		t.Fatalf("unexpected data: %+v", env.Data)
	}
	if env.TraceID == nil || *env.TraceID != "contact-test" {
		t.Fatalf("expected the request id as trace id, got %v", env.TraceID)
	}
	if env.Errors != nil {
		t.Fatalf("errors must be absent on success")
	}
	if len(entries) != 1 || entries[0].Title != "Contact Form Submission" {
		t.Fatalf("expected one sink entry, got %+v", entries)
	}
}

func TestSubmitInvalid(t *testing.T) {
	body := `{"name":"","email":"bad","phone":"","subject":"","message":""}`
	resp := post(t, newTestRouter(okSink(), false), "application/json", []byte(body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	env := decode[ContactData](t, resp)
	if env.Success || env.Message != "Validation failed" || env.Data != nil {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if len(env.Errors) != 5 || env.Errors[0] != "Name is required" || env.Errors[1] != "Invalid email format" {
		t.Fatalf("unexpected errors: %v", env.Errors)
	}
}

func TestSubmitMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"truncated": `{"name":`,
		"array":     `[1,2]`,
		"null":      `null`,
		"empty":     ``,
	} {
		t.Run(name, func(t *testing.T) {
			resp := post(t, newTestRouter(okSink(), false), "application/json", []byte(body))
			if resp.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d: %s", resp.Code, resp.Body.String())
			}
			env := decode[ContactData](t, resp)
			if env.Success || env.Message != msgFailed || env.Error != "" {
				t.Fatalf("unexpected envelope: %+v", env)
			}
		})
	}
}

func TestSubmitEmptyBody(t *testing.T) {
	for name, contentType := range map[string]string{
		"json":         "application/json",
		"content-less": "",
	} {
		t.Run(name, func(t *testing.T) {
			recorded := 0
			s := sink.Func(func(context.Context, sink.Entry) error {
				recorded++
				return nil
			})
			req := httptest.NewRequest(http.MethodPost, Path, http.NoBody)
			if contentType != "" {
				req.Header.Set("Content-Type", contentType)
			}
			resp := httptest.NewRecorder()
			newTestRouter(s, false).ServeHTTP(resp, req)

			if resp.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d: %s", resp.Code, resp.Body.String())
			}
			env := decode[ContactData](t, resp)
			if env.Success || env.Message != msgFailed || env.Errors != nil {
				t.Fatalf("unexpected envelope: %+v", env)
			}
			if recorded != 0 {
				t.Fatalf("empty bodies must not reach the sink")
			}
		})
	}
}

func TestOpenAPIRequestBodyOptional(t *testing.T) {
	cfg := huma.DefaultConfig("ContactDocs", "test")
	cfg.CreateHooks = nil
	humaAPI := humachi.New(chi.NewRouter(), cfg)
	Register(humaAPI, nil, Options{})

	rb := humaAPI.OpenAPI().Paths[Path].Post.RequestBody
	if rb.Required {
		t.Fatalf("expected an optional request body")
	}
	if _, ok := rb.Content["application/octet-stream"]; ok {
		t.Fatalf("unexpected octet-stream media type")
	}
	if humaAPI.OpenAPI().Components.Schemas.Map()["ContactRequest"] == nil {
		t.Fatalf("expected ContactRequest schema")
	}
}

func TestSubmitSinkFailureDetail(t *testing.T) {
	failing := sink.Func(func(context.Context, sink.Entry) error { return errors.New("drain unreachable") })

	resp := post(t, newTestRouter(failing, false), "application/json", []byte(validBody))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "drain unreachable") {
		t.Fatalf("production responses must not expose the cause: %s", resp.Body.String())
	}

	resp = post(t, newTestRouter(failing, true), "application/json", []byte(validBody))
	env := decode[ContactData](t, resp)
	if !strings.Contains(env.Error, "drain unreachable") {
		t.Fatalf("expected the cause in development mode, got %+v", env)
	}
}

func TestSubmitCBORRequest(t *testing.T) {
	body, err := cbor.Marshal(map[string]string{
		"name": "Jane Doe", "email": "JANE@example.com", "phone": "1", "subject": "s", "message": "m",
	})
	if err != nil {
		t.Fatalf("cbor marshal: %v", err)
	}
	resp := post(t, newTestRouter(okSink(), false), "application/cbor", body)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if env := decode[ContactData](t, resp); env.Data == nil || env.Data.Email != "jane@example.com" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestSubmitCBORResponse(t *testing.T) {
	router := newTestRouter(okSink(), false)
	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Fatalf("expected application/cbor, got %s", ct)
	}
	var env api.Envelope[ContactData]
	if err := cbor.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if !env.Success || env.Data == nil || env.Data.Name != "Jane Doe" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestOptions(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(okSink(), false).ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, Path, nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Fatalf("unexpected Access-Control-Allow-Methods %q", got)
	}
	if body := strings.TrimSpace(resp.Body.String()); body != "{}" {
		t.Fatalf("expected empty object, got %q", body)
	}
}

func TestGetNotAllowed(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(okSink(), false).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, Path, nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	if allow := resp.Header().Get("Allow"); allow != "POST, OPTIONS" {
		t.Fatalf("unexpected Allow %q", allow)
	}
}
