// Package booking validates and records consultation bookings.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/mctaxshelter/site-api/internal/form"
	"github.com/mctaxshelter/site-api/internal/platform/timeutil"
	"github.com/mctaxshelter/site-api/internal/service/submission"
	"github.com/mctaxshelter/site-api/internal/sink"
)

// FormName identifies booking submissions in logs and sink entries.
const FormName = "booking"

// ConsultationTypes is the closed set accepted for consultationType.
var ConsultationTypes = []string{"phone", "video", "in-person"}

// NewSchema declares the booking fields in reporting order: personal details,
// then service and financial details, then scheduling. The optional fields carry
// no rules and are listed so they are narrowed with the rest.
func NewSchema(now timeutil.Clock, loc *time.Location) form.Schema {
	required := []form.Rule{form.Required{}}
	return form.Schema{
		{Name: "firstName", Label: "First name", Rules: required},
		{Name: "lastName", Label: "Last name", Rules: required},
		{Name: "email", Label: "Email", Rules: []form.Rule{form.Required{}, form.Email()}},
		{Name: "phone", Label: "Phone number", Rules: required},
		{Name: "serviceType", Label: "Service type", Rules: required},
		{Name: "annualIncome", Label: "Annual income range", Rules: required},
		{Name: "businessType", Label: "Business type"},
		{Name: "currentTaxSituation", Label: "Current tax situation"},
		{Name: "preferredDate", Label: "Preferred date", Rules: []form.Rule{
			form.Required{},
			form.Date{Now: now, Location: loc},
		}},
		{Name: "preferredTime", Label: "Preferred time", Rules: required},
		{Name: "consultationType", Label: "Consultation type", Rules: []form.Rule{
			form.Required{},
			form.Enum{Values: ConsultationTypes},
		}},
		{Name: "specificConcerns", Label: "Specific concerns"},
		{Name: "howDidYouHear", Label: "How did you hear"},
	}
}

// Submission is a validated, normalized booking. Optional fields are nil when
// they were not provided or blank.
type Submission struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string

	ServiceType         string
	AnnualIncome        string
	BusinessType        *string
	CurrentTaxSituation *string

	PreferredDate    string
	PreferredTime    string
	ConsultationType string

	SpecificConcerns *string
	HowDidYouHear    *string
}

// FullName joins the first and last name.
func (s Submission) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Receipt is what the caller learns about an accepted booking.
type Receipt struct {
	BookingID        string
	Name             string
	Email            string
	Date             string
	Time             string
	ConsultationType string
}

// Service defines booking intake.
type Service interface {
	Submit(ctx context.Context, raw map[string]any) (*Receipt, error)
}

// Recorder implements Service by writing accepted bookings to a sink.
type Recorder struct {
	sink   sink.Sink
	opts   submission.Options
	schema form.Schema
}

// NewRecorder creates a booking Recorder writing to s.
func NewRecorder(s sink.Sink, opts ...submission.Option) *Recorder {
	o := submission.NewOptions(opts...)
	return &Recorder{
		sink:   s,
		opts:   o,
		schema: NewSchema(o.Now, o.Location),
	}
}

// Normalize trims every field, lower-cases the email, and maps blank optional
// fields to nil. It assumes values already passed the schema.
func Normalize(v form.Values) Submission {
	return Submission{
		FirstName:           v.Text("firstName"),
		LastName:            v.Text("lastName"),
		Email:               v.Email("email"),
		Phone:               v.Text("phone"),
		ServiceType:         v.Text("serviceType"),
		AnnualIncome:        v.Text("annualIncome"),
		BusinessType:        v.Optional("businessType"),
		CurrentTaxSituation: v.Optional("currentTaxSituation"),
		PreferredDate:       v.Text("preferredDate"),
		PreferredTime:       v.Text("preferredTime"),
		ConsultationType:    v.Text("consultationType"),
		SpecificConcerns:    v.Optional("specificConcerns"),
		HowDidYouHear:       v.Optional("howDidYouHear"),
	}
}

// BookingID derives the informational identifier from the submission time.
// Two bookings in the same millisecond share an identifier.
func BookingID(at time.Time) string {
	return fmt.Sprintf("BOOK-%d", at.UnixMilli())
}

// Submit validates raw, normalizes it, and records it. Validation failures are
// returned as *form.ValidationError; sink failures wrap submission.ErrSinkFailure.
func (r *Recorder) Submit(ctx context.Context, raw map[string]any) (*Receipt, error) {
	values, res := r.schema.Parse(raw)
	if !res.IsValid() {
		return nil, submission.Reject(ctx, FormName, res)
	}

	sub := Normalize(values)
	now := r.opts.Now()
	id := BookingID(now)
	if err := submission.Record(ctx, r.sink, FormName, sub.entry(id, now)); err != nil {
		return nil, err
	}
	return &Receipt{
		BookingID:        id,
		Name:             sub.FullName(),
		Email:            sub.Email,
		Date:             sub.PreferredDate,
		Time:             sub.PreferredTime,
		ConsultationType: sub.ConsultationType,
	}, nil
}

var _ Service = (*Recorder)(nil)
