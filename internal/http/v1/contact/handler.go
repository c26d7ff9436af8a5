package contact

import (
	"context"
	"errors"
	"net/http"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mctaxshelter/site-api/internal/form"
	"github.com/mctaxshelter/site-api/internal/http/v1/preflight"
	"github.com/mctaxshelter/site-api/internal/platform/respond"
	contactsvc "github.com/mctaxshelter/site-api/internal/service/contact"
	"github.com/mctaxshelter/site-api/internal/service/submission"
)

const (
	// Path is where the contact page posts.
	Path = "/api/contact"

	msgAccepted = "Thank you for contacting us! We will get back to you within 24 hours."
	msgFailed   = "An error occurred while processing your request. Please try again later."
)

// Options tunes the contact endpoints.
type Options struct {
	// ExposeDetail adds the underlying error text to 500 envelopes. Development only.
	ExposeDetail bool
	// MaxBodyBytes caps the request body; zero keeps Huma's default of 1 MiB.
	MaxBodyBytes int64
}

// Register registers the contact form endpoints.
func Register(api huma.API, svc contactsvc.Service, opts Options) {
	h := &handler{svc: svc, exposeDetail: opts.ExposeDetail}
	body := requestBody(api)

	huma.Register(api, huma.Operation{
		OperationID:      "submit-contact",
		Method:           http.MethodPost,
		Path:             Path,
		Summary:          "Submit the contact form",
		Description:      "Validates an enquiry, records it, and acknowledges it. All validation failures are reported together.",
		Tags:             []string{"Forms"},
		RequestBody:      body,
		SkipValidateBody: true,
		MaxBodyBytes:     opts.MaxBodyBytes,
		Errors:           []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.submit)
	optionalRawBody(body)

	preflight.Register(api, "contact-options", Path, "Forms")
}

type handler struct {
	svc          contactsvc.Service
	exposeDetail bool
}

func (h *handler) submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
	raw, err := submission.Decode(ctx, contactsvc.FormName, input.ContentType, input.RawBody)
	if err != nil {
		return nil, h.mapServiceError(ctx, err)
	}
	receipt, err := h.svc.Submit(ctx, raw)
	if err != nil {
		return nil, h.mapServiceError(ctx, err)
	}
	return &SubmitOutput{
		Body: respond.Success(ctx, msgAccepted, ContactData{Name: receipt.Name, Email: receipt.Email}),
	}, nil
}

func (h *handler) mapServiceError(ctx context.Context, err error) error {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		return respond.Rejected(ctx, verr.Messages)
	}
	return respond.Failure(ctx, http.StatusInternalServerError, msgFailed, err, h.exposeDetail)
}

func requestBody(api huma.API) *huma.RequestBody {
	schema := api.OpenAPI().Components.Schemas.Schema(reflect.TypeOf(ContactRequest{}), true, "")
	return &huma.RequestBody{
		Description: "Contact form fields. Every field is required.",
		Content: map[string]*huma.MediaType{
			"application/json": {Schema: schema},
		},
	}
}

// optionalRawBody undoes the required flag and the octet-stream media type Huma
// attaches to RawBody operations, so an empty post reaches the form decoder and
// is answered as a malformed submission.
func optionalRawBody(rb *huma.RequestBody) {
	rb.Required = false
	delete(rb.Content, "application/octet-stream")
}
