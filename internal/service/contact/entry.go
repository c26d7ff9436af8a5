package contact

import (
	"time"

	"github.com/mctaxshelter/site-api/internal/sink"
)

const entryTitle = "Contact Form Submission"

func (s Submission) entry(id string, at time.Time) sink.Entry {
	return sink.Entry{
		Title:     entryTitle,
		Form:      FormName,
		ID:        id,
		Timestamp: at,
		Sections: []sink.Section{{Items: []sink.Item{
			{Label: "Name", Value: s.Name},
			{Label: "Email", Value: s.Email},
			{Label: "Phone", Value: s.Phone},
			{Label: "Subject", Value: s.Subject},
			{Label: "Message", Value: s.Message},
		}}},
	}
}
