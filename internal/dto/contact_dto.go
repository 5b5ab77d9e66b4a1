package dto

// ContactRequest defines the expected payload for the contact form endpoint.
type ContactRequest struct {
	FirstName       string `json:"firstName" form:"firstName" validate:"trimmed_required,strict_min=2"`
	LastName        string `json:"lastName" form:"lastName" validate:"trimmed_required,strict_min=2"`
	Email           string `json:"email" form:"email" validate:"trimmed_required,loose_email"`
	Phone           string `json:"phone" form:"phone" validate:"trimmed_required,ph_phone"`
	Company         string `json:"company" form:"company"`
	InquiryType     string `json:"inquiryType" form:"inquiryType"`
	ProductInterest string `json:"productInterest" form:"productInterest"`
	Subject         string `json:"subject" form:"subject" validate:"trimmed_required"`
	Message         string `json:"message" form:"message" validate:"trimmed_required,message_length"`
	Honeypot        string `json:"_note" form:"_note"`
	IPAddress       string `json:"-" form:"-"`
}
