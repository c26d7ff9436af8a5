package booking

import (
	"context"
	"errors"
	"net/http"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mctaxshelter/site-api/internal/form"
	"github.com/mctaxshelter/site-api/internal/http/v1/preflight"
	"github.com/mctaxshelter/site-api/internal/platform/respond"
	bookingsvc "github.com/mctaxshelter/site-api/internal/service/booking"
	"github.com/mctaxshelter/site-api/internal/service/submission"
)

const (
	// Path is where the booking page posts.
	Path = "/api/booking"

	msgAccepted = "Your consultation has been booked successfully! We will contact you within 24 hours to confirm your appointment."
	msgFailed   = "An error occurred while processing your booking. Please try again later or call us directly at +1-929-310-8968."
)

// Options tunes the booking endpoints.
type Options struct {
	// ExposeDetail adds the underlying error text to 500 envelopes. Development only.
	ExposeDetail bool
	// MaxBodyBytes caps the request body; zero keeps Huma's default of 1 MiB.
	MaxBodyBytes int64
}

// Register registers the booking form endpoints.
func Register(api huma.API, svc bookingsvc.Service, opts Options) {
	h := &handler{svc: svc, exposeDetail: opts.ExposeDetail}
	body := requestBody(api)

	huma.Register(api, huma.Operation{
		OperationID:      "submit-booking",
		Method:           http.MethodPost,
		Path:             Path,
		Summary:          "Book a consultation",
		Description:      "Validates a booking request, records it, and returns an informational booking reference.",
		Tags:             []string{"Forms"},
		RequestBody:      body,
		SkipValidateBody: true,
		MaxBodyBytes:     opts.MaxBodyBytes,
		Errors:           []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.submit)
	optionalRawBody(body)

	preflight.Register(api, "booking-options", Path, "Forms")
}

type handler struct {
	svc          bookingsvc.Service
	exposeDetail bool
}

func (h *handler) submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
	raw, err := submission.Decode(ctx, bookingsvc.FormName, input.ContentType, input.RawBody)
	if err != nil {
		return nil, h.mapServiceError(ctx, err)
	}
	receipt, err := h.svc.Submit(ctx, raw)
	if err != nil {
		return nil, h.mapServiceError(ctx, err)
	}
	return &SubmitOutput{
		Body: respond.Success(ctx, msgAccepted, toHTTPData(receipt)),
	}, nil
}

func (h *handler) mapServiceError(ctx context.Context, err error) error {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		return respond.Rejected(ctx, verr.Messages)
	}
	return respond.Failure(ctx, http.StatusInternalServerError, msgFailed, err, h.exposeDetail)
}

func toHTTPData(r *bookingsvc.Receipt) BookingData {
	return BookingData{
		BookingID:        r.BookingID,
		Name:             r.Name,
		Email:            r.Email,
		Date:             r.Date,
		Time:             r.Time,
		ConsultationType: r.ConsultationType,
	}
}

func requestBody(api huma.API) *huma.RequestBody {
	schema := api.OpenAPI().Components.Schemas.Schema(reflect.TypeOf(BookingRequest{}), true, "")
	return &huma.RequestBody{
		Description: "Booking form fields. Optional fields may be omitted or blank.",
		Content: map[string]*huma.MediaType{
			"application/json": {Schema: schema},
		},
	}
}

func optionalRawBody(rb *huma.RequestBody) {
	rb.Required = false
	delete(rb.Content, "application/octet-stream")
}
