package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"

	"github.com/mctaxshelter/site-api/internal/http/v1/booking"
	"github.com/mctaxshelter/site-api/internal/http/v1/contact"
	bookingsvc "github.com/mctaxshelter/site-api/internal/service/booking"
	contactsvc "github.com/mctaxshelter/site-api/internal/service/contact"
)

// DocsPath serves the interactive API reference.
const DocsPath = "/api-docs"

// Services are the form services behind the HTTP endpoints.
type Services struct {
	Contact contactsvc.Service
	Booking bookingsvc.Service

	// ExposeDetail adds failure causes to 500 envelopes. Development only.
	ExposeDetail bool
	// MaxBodyBytes caps form bodies. It must not exceed any outer limit on the
	// request body, or oversized posts fail as read errors instead of 413.
	MaxBodyBytes int64
}

// NewAPI mounts a Huma API on router. Responses keep the bare envelope shape, so
// the $schema link transformer is not installed, and every JSON media type in
// the OpenAPI document is mirrored as CBOR.
func NewAPI(router chi.Router, title, version string) huma.API {
	cfg := huma.DefaultConfig(title, version)
	cfg.DocsPath = DocsPath
	cfg.CreateHooks = nil
	api := humachi.New(router, cfg)

	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBOR)
	return api
}

func addCBOR(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

// Register wires all form routes into the provided API.
func Register(api huma.API, svcs Services) {
	contact.Register(api, svcs.Contact, contact.Options{ExposeDetail: svcs.ExposeDetail, MaxBodyBytes: svcs.MaxBodyBytes})
	booking.Register(api, svcs.Booking, booking.Options{ExposeDetail: svcs.ExposeDetail, MaxBodyBytes: svcs.MaxBodyBytes})
}
