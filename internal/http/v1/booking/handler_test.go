package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mctaxshelter/site-api/internal/api"
	applog "github.com/mctaxshelter/site-api/internal/platform/logging"
	appmiddleware "github.com/mctaxshelter/site-api/internal/platform/middleware"
	"github.com/mctaxshelter/site-api/internal/platform/respond"
	bookingsvc "github.com/mctaxshelter/site-api/internal/service/booking"
	"github.com/mctaxshelter/site-api/internal/service/submission"
	"github.com/mctaxshelter/site-api/internal/sink"
)

var fixedNow = time.Date(2026, 10, 14, 16, 45, 0, 0, time.UTC)

func newTestRouter(s sink.Sink, exposeDetail bool) chi.Router {
	respond.Install()

	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(""),
		respond.Recoverer(),
	)
	cfg := huma.DefaultConfig("BookingTest", "test")
	cfg.CreateHooks = nil
	humaAPI := humachi.New(router, cfg)
	svc := bookingsvc.NewRecorder(s,
		submission.WithClock(func() time.Time { return fixedNow }),
		submission.WithLocation(time.UTC),
	)
	Register(humaAPI, svc, Options{ExposeDetail: exposeDetail})
	return router
}

func okSink() sink.Sink {
	return sink.Func(func(context.Context, sink.Entry) error { return nil })
}

func bookingBody(t *testing.T, overrides map[string]any) []byte {
	t.Helper()
	body := map[string]any{
		"firstName":        "Ann",
		"lastName":         "Lee",
		"email":            "Ann@Example.com",
		"phone":            "555-0000",
		"serviceType":      "individual-tax",
		"annualIncome":     "50k-100k",
		"preferredDate":    fixedNow.AddDate(0, 0, 1).Format("2006-01-02"),
		"preferredTime":    "10:00 AM",
		"consultationType": "video",
	}
	for k, v := range overrides {
		body[k] = v
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return data
}

func post(t *testing.T, router http.Handler, body []byte) (*httptest.ResponseRecorder, api.Envelope[BookingData]) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env api.Envelope[BookingData]
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("json unmarshal %q: %v", resp.Body.String(), err)
	}
	return resp, env
}

func TestSubmitTomorrow(t *testing.T) {
	var entries []sink.Entry
	s := sink.Func(func(_ context.Context, e sink.Entry) error {
		entries = append(entries, e)
		return nil
	})
	resp, env := post(t, newTestRouter(s, false), bookingBody(t, nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !env.Success || env.Message != msgAccepted || env.Data == nil {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if !regexp.MustCompile(`^BOOK-\d+$`).MatchString(env.Data.BookingID) {
		t.Fatalf("unexpected booking id %q", env.Data.BookingID)
	}
	want := BookingData{
		BookingID:        bookingsvc.BookingID(fixedNow),
		Name:             "Ann Lee",
		Email:            "ann@example.com",
		Date:             "2026-10-15",
		Time:             "10:00 AM",
		ConsultationType: "video",
	}
	if *env.Data != want {
		t.Fatalf("expected %+v, got %+v", want, *env.Data)
	}
	if len(entries) != 1 || entries[0].ID != want.BookingID {
		t.Fatalf("expected one sink entry with the booking id, got %+v", entries)
	}
}

func TestSubmitToday(t *testing.T) {
	resp, _ := post(t, newTestRouter(okSink(), false), bookingBody(t, map[string]any{
		"preferredDate": "2026-10-14",
	}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected today to be accepted, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSubmitYesterday(t *testing.T) {
	resp, env := post(t, newTestRouter(okSink(), false), bookingBody(t, map[string]any{
		"preferredDate": "2026-10-13",
	}))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(env.Errors) != 1 || !strings.Contains(env.Errors[0], "must be today or in the future") {
		t.Fatalf("unexpected errors: %v", env.Errors)
	}
}

func TestSubmitInvalidFields(t *testing.T) {
	resp, env := post(t, newTestRouter(okSink(), false), bookingBody(t, map[string]any{
		"firstName":        " ",
		"preferredDate":    "01-01-2099",
		"consultationType": "fax",
	}))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	want := []string{"First name is required", "Invalid date format", "Invalid consultation type"}
	if strings.Join(env.Errors, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, env.Errors)
	}
}

func TestSubmitFailures(t *testing.T) {
	resp, env := post(t, newTestRouter(okSink(), false), []byte(`{"firstName":`))
	if resp.Code != http.StatusInternalServerError || env.Message != msgFailed {
		t.Fatalf("expected the booking failure envelope for a malformed body, got %d %+v", resp.Code, env)
	}
	if !strings.Contains(env.Message, "+1-929-310-8968") {
		t.Fatalf("failure message must carry the office number")
	}

	resp, env = post(t, newTestRouter(okSink(), false), nil)
	if resp.Code != http.StatusInternalServerError || env.Message != msgFailed {
		t.Fatalf("expected the booking failure envelope for an empty body, got %d %+v", resp.Code, env)
	}

	failing := sink.Func(func(context.Context, sink.Entry) error { return errors.New("collector down") })
	resp, env = post(t, newTestRouter(failing, true), bookingBody(t, nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(env.Error, "collector down") {
		t.Fatalf("expected detail in development mode, got %+v", env)
	}
}

func TestOptions(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(okSink(), false).ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, Path, nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Allow"); got != "POST, OPTIONS" {
		t.Fatalf("unexpected Allow %q", got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Fatalf("unexpected Access-Control-Allow-Headers %q", got)
	}
}

func TestOpenAPIRequestBody(t *testing.T) {
	router := chi.NewRouter()
	cfg := huma.DefaultConfig("BookingDocs", "test")
	cfg.CreateHooks = nil
	humaAPI := humachi.New(router, cfg)
	Register(humaAPI, nil, Options{})

	op := humaAPI.OpenAPI().Paths[Path].Post
	if op == nil || op.RequestBody == nil {
		t.Fatalf("expected a documented request body")
	}
	if op.RequestBody.Required {
		t.Fatalf("expected an optional request body")
	}
	if _, ok := op.RequestBody.Content["application/octet-stream"]; ok {
		t.Fatalf("unexpected octet-stream media type")
	}
	schema := humaAPI.OpenAPI().Components.Schemas.Map()["BookingRequest"]
	if schema == nil {
		t.Fatalf("expected BookingRequest schema")
	}
	if _, ok := schema.Properties["consultationType"]; !ok {
		t.Fatalf("expected consultationType property, got %v", schema.Properties)
	}
}
