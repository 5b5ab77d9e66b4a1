package service

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
	_ "time/tzdata"

	"github.com/accuro-ph/accuro-api/internal/models"
)

const submittedAtLayout = "1/2/2006, 3:04:05 PM"

//go:embed templates/*.tmpl
var notificationTemplates embed.FS

var (
	notificationHTML = htmltemplate.Must(htmltemplate.ParseFS(notificationTemplates, "templates/contact_notification.html.tmpl"))
	notificationText = texttemplate.Must(texttemplate.ParseFS(notificationTemplates, "templates/contact_notification.txt.tmpl"))
)

// Notification is the rendered operator email for one submission.
type Notification struct {
	Subject string
	HTML    string
	Text    string
}

type notificationView struct {
	Quote           bool
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Company         string
	InquiryLabel    string
	ProductInterest string
	Subject         string
	Message         string
	ReplySubject    string
	SubmittedAt     string
}

// RenderContactNotification builds the operator email for a stored submission.
// Submitted values are carried verbatim; the HTML body escapes them on output.
func RenderContactNotification(contact models.ContactSubmission, loc *time.Location) (Notification, error) {
	if loc == nil {
		loc = time.UTC
	}

	view := notificationView{
		Quote:           contact.IsQuoteRequest(),
		FirstName:       strings.TrimSpace(contact.FirstName),
		LastName:        strings.TrimSpace(contact.LastName),
		Email:           strings.TrimSpace(contact.Email),
		Phone:           strings.TrimSpace(contact.Phone),
		Company:         strings.TrimSpace(contact.Company),
		InquiryLabel:    models.InquiryLabel(contact.InquiryType),
		ProductInterest: strings.TrimSpace(contact.ProductInterest),
		Subject:         strings.TrimSpace(contact.Subject),
		Message:         strings.TrimSpace(contact.Message),
		SubmittedAt:     formatSubmittedAt(contact.CreatedAt, loc),
	}

	replyTo := view.Subject
	if replyTo == "" {
		replyTo = "Your inquiry"
	}
	view.ReplySubject = "Re: " + replyTo

	var htmlBody bytes.Buffer
	if err := notificationHTML.Execute(&htmlBody, view); err != nil {
		return Notification{}, fmt.Errorf("render html notification: %w", err)
	}

	var textBody bytes.Buffer
	if err := notificationText.Execute(&textBody, view); err != nil {
		return Notification{}, fmt.Errorf("render text notification: %w", err)
	}

	return Notification{
		Subject: notificationSubject(view),
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	}, nil
}

func notificationSubject(view notificationView) string {
	prefix := "📧 New Inquiry"
	if view.Quote {
		prefix = "🎯 QUOTE REQUEST"
	}

	subject := fmt.Sprintf("%s from %s %s", prefix, view.FirstName, view.LastName)
	if view.Company != "" {
		subject += " (" + view.Company + ")"
	}
	return subject
}

func formatSubmittedAt(at time.Time, loc *time.Location) string {
	if at.IsZero() {
		at = time.Now()
	}
	local := at.In(loc)

	zone := local.Format("MST")
	if loc.String() == "Asia/Manila" {
		zone = "PHT"
	}
	return fmt.Sprintf("%s (%s)", local.Format(submittedAtLayout), zone)
}
