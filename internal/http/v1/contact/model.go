package contact

// ContactRequest documents the contact form body. The handler reads the body raw so
// that every field message comes from the form validator.
type ContactRequest struct {
	Name    string `json:"name" doc:"Full name" example:"Jane Doe"`
	Email   string `json:"email" doc:"Reply address" example:"jane@example.com"`
	Phone   string `json:"phone" doc:"Phone number, any format" example:"555-1234"`
	Subject string `json:"subject" doc:"Enquiry topic" example:"general"`
	Message string `json:"message" doc:"Enquiry text" example:"I have a question about my return."`
}

// ContactData is echoed back for an accepted enquiry.
type ContactData struct {
	Name  string `json:"name" doc:"Trimmed name" example:"Jane Doe"`
	Email string `json:"email" doc:"Trimmed, lower-cased email" example:"jane@example.com"`
}
