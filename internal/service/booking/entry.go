package booking

import (
	"time"

	"github.com/mctaxshelter/site-api/internal/service/submission"
	"github.com/mctaxshelter/site-api/internal/sink"
)

const entryTitle = "Consultation Booking Submission"

// Placeholders for optional fields that were not provided.
const (
	notApplicable = "N/A"
	noneProvided  = "None provided"
	notSpecified  = "Not specified"
)

func (s Submission) entry(id string, at time.Time) sink.Entry {
	return sink.Entry{
		Title:     entryTitle,
		Form:      FormName,
		ID:        id,
		Timestamp: at,
		Sections: []sink.Section{
			{Name: "Personal Information", Items: []sink.Item{
				{Label: "Name", Value: s.FullName()},
				{Label: "Email", Value: s.Email},
				{Label: "Phone", Value: s.Phone},
			}},
			{Name: "Service Details", Items: []sink.Item{
				{Label: "Service Type", Value: s.ServiceType},
				{Label: "Annual Income", Value: s.AnnualIncome},
				{Label: "Business Type", Value: submission.Placeholder(s.BusinessType, notApplicable)},
				{Label: "Current Tax Situation", Value: submission.Placeholder(s.CurrentTaxSituation, notApplicable)},
			}},
			{Name: "Scheduling", Items: []sink.Item{
				{Label: "Preferred Date", Value: s.PreferredDate},
				{Label: "Preferred Time", Value: s.PreferredTime},
				{Label: "Consultation Type", Value: s.ConsultationType},
			}},
			{Name: "Additional Information", Items: []sink.Item{
				{Label: "Specific Concerns", Value: submission.Placeholder(s.SpecificConcerns, noneProvided)},
				{Label: "How Did You Hear", Value: submission.Placeholder(s.HowDidYouHear, notSpecified)},
			}},
		},
	}
}
