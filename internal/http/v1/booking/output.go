package booking

import "github.com/mctaxshelter/site-api/internal/api"

// SubmitOutput is the success envelope for an accepted booking.
type SubmitOutput struct {
	Body api.Envelope[BookingData]
}
