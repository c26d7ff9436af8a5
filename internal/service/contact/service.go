// Package contact validates and records general enquiries from the contact page.
package contact

import (
	"context"

	"github.com/google/uuid"

	"github.com/mctaxshelter/site-api/internal/form"
	"github.com/mctaxshelter/site-api/internal/service/submission"
	"github.com/mctaxshelter/site-api/internal/sink"
)

// FormName identifies contact submissions in logs and sink entries.
const FormName = "contact"

// Schema declares the contact fields in the order their errors are reported.
var Schema = form.Schema{
	{Name: "name", Label: "Name", Rules: []form.Rule{form.Required{}}},
	{Name: "email", Label: "Email", Rules: []form.Rule{form.Required{}, form.Email()}},
	{Name: "phone", Label: "Phone number", Rules: []form.Rule{form.Required{}}},
	{Name: "subject", Label: "Subject", Rules: []form.Rule{form.Required{}}},
	{Name: "message", Label: "Message", Rules: []form.Rule{form.Required{}}},
}

// Submission is a validated, normalized contact form post.
type Submission struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// Receipt is what the caller learns about an accepted submission.
type Receipt struct {
	ReferenceID string
	Name        string
	Email       string
}

// Service defines contact form intake.
type Service interface {
	Submit(ctx context.Context, raw map[string]any) (*Receipt, error)
}

// Recorder implements Service by writing accepted submissions to a sink.
type Recorder struct {
	sink  sink.Sink
	opts  submission.Options
	newID func() string
}

// NewRecorder creates a contact Recorder writing to s.
func NewRecorder(s sink.Sink, opts ...submission.Option) *Recorder {
	return &Recorder{
		sink:  s,
		opts:  submission.NewOptions(opts...),
		newID: uuid.NewString,
	}
}

// Normalize trims every field and lower-cases the email. It assumes values
// already passed Schema.
func Normalize(v form.Values) Submission {
	return Submission{
		Name:    v.Text("name"),
		Email:   v.Email("email"),
		Phone:   v.Text("phone"),
		Subject: v.Text("subject"),
		Message: v.Text("message"),
	}
}

// Submit validates raw, normalizes it, and records it. Validation failures are
// returned as *form.ValidationError; sink failures wrap submission.ErrSinkFailure.
func (r *Recorder) Submit(ctx context.Context, raw map[string]any) (*Receipt, error) {
	values, res := Schema.Parse(raw)
	if !res.IsValid() {
		return nil, submission.Reject(ctx, FormName, res)
	}

	sub := Normalize(values)
	id := r.newID()
	if err := submission.Record(ctx, r.sink, FormName, sub.entry(id, r.opts.Now())); err != nil {
		return nil, err
	}
	return &Receipt{ReferenceID: id, Name: sub.Name, Email: sub.Email}, nil
}

var _ Service = (*Recorder)(nil)
