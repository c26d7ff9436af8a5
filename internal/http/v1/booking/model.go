package booking

// BookingRequest documents the booking form body.
type BookingRequest struct {
	FirstName string `json:"firstName" doc:"Given name" example:"Ann"`
	LastName  string `json:"lastName" doc:"Family name" example:"Lee"`
	Email     string `json:"email" doc:"Confirmation address" example:"ann@example.com"`
	Phone     string `json:"phone" doc:"Phone number, any format" example:"555-0000"`

	ServiceType         string `json:"serviceType" doc:"Requested service" example:"individual-tax"`
	AnnualIncome        string `json:"annualIncome" doc:"Annual income range" example:"50k-100k"`
	BusinessType        string `json:"businessType,omitempty" doc:"Business structure, if any" example:"llc"`
	CurrentTaxSituation string `json:"currentTaxSituation,omitempty" doc:"Short description of the current situation"`

	PreferredDate    string `json:"preferredDate" doc:"Calendar date, today or later" format:"date" example:"2030-01-15"`
	PreferredTime    string `json:"preferredTime" doc:"Preferred time slot" example:"10:00 AM"`
	ConsultationType string `json:"consultationType" doc:"How the consultation is held" enum:"phone,video,in-person" example:"video"`

	SpecificConcerns string `json:"specificConcerns,omitempty" doc:"Anything the advisor should prepare for"`
	HowDidYouHear    string `json:"howDidYouHear,omitempty" doc:"Referral source"`
}

// BookingData is echoed back for an accepted booking.
type BookingData struct {
	BookingID        string `json:"bookingId" doc:"Informational booking reference" example:"BOOK-1700000000000"`
	Name             string `json:"name" doc:"First and last name" example:"Ann Lee"`
	Email            string `json:"email" doc:"Trimmed, lower-cased email" example:"ann@example.com"`
	Date             string `json:"date" doc:"Preferred date" example:"2030-01-15"`
	Time             string `json:"time" doc:"Preferred time" example:"10:00 AM"`
	ConsultationType string `json:"consultationType" doc:"Consultation channel" example:"video"`
}
