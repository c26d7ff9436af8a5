package contact

import "github.com/mctaxshelter/site-api/internal/api"

// SubmitOutput is the success envelope for an accepted enquiry.
type SubmitOutput struct {
	Body api.Envelope[ContactData]
}
