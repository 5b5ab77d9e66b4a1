package models

import "time"

// ContactStatusNew is the only status a submission ever holds.
const ContactStatusNew = "new"

// Inquiry categories offered by the contact form.
const (
	InquiryProduct   = "product"
	InquiryQuote     = "quote"
	InquiryTechnical = "technical"
	InquirySales     = "sales"
	InquiryGeneral   = "general"
)

var inquiryLabels = map[string]string{
	InquiryProduct:   "Product Inquiry",
	InquiryQuote:     "Request Quote",
	InquiryTechnical: "Technical Support",
	InquirySales:     "Sales",
	InquiryGeneral:   "General Inquiry",
}

// InquiryLabel returns the human readable label for an inquiry category,
// falling back to the raw value for unknown categories.
func InquiryLabel(inquiryType string) string {
	if label, ok := inquiryLabels[inquiryType]; ok {
		return label
	}
	return inquiryType
}

// ContactSubmission stores inbound enquiries from the website contact form.
type ContactSubmission struct {
	Seq             uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ID              string    `gorm:"column:public_id;size:64;uniqueIndex;not null" json:"_id"`
	FirstName       string    `gorm:"size:128;not null" json:"firstName"`
	LastName        string    `gorm:"size:128;not null" json:"lastName"`
	Email           string    `gorm:"size:160;not null" json:"email"`
	Phone           string    `gorm:"size:40;not null" json:"phone"`
	Company         string    `gorm:"size:160" json:"company"`
	InquiryType     string    `gorm:"size:32" json:"inquiryType"`
	ProductInterest string    `gorm:"size:160" json:"productInterest"`
	Subject         string    `gorm:"size:255;not null" json:"subject"`
	Message         string    `gorm:"type:text;not null" json:"message"`
	Status          string    `gorm:"size:32;not null" json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName pins the table used by the SQL-backed store.
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

// IsQuoteRequest reports whether the submission asks for a quotation.
func (c ContactSubmission) IsQuoteRequest() bool {
	return c.InquiryType == InquiryQuote
}

// FullName joins first and last name.
func (c ContactSubmission) FullName() string {
	return c.FirstName + " " + c.LastName
}
