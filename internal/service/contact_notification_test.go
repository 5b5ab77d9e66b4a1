package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/accuro-ph/accuro-api/internal/models"
)

func manila(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	return loc
}

func storedContact() models.ContactSubmission {
	return models.ContactSubmission{
		ID:          "3f1c7e0a-8a4b-4c62-9d7e-1b2c3d4e5f60",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		Phone:       "09171234567",
		InquiryType: models.InquiryProduct,
		Subject:     "Calibrator pricing",
		Message:     "Line one\nLine two",
		Status:      models.ContactStatusNew,
		CreatedAt:   time.Date(2025, 3, 13, 17, 2, 3, 0, time.UTC),
	}
}

func TestRenderContactNotificationGeneralInquiry(t *testing.T) {
	n, err := RenderContactNotification(storedContact(), manila(t))
	require.NoError(t, err)

	require.Equal(t, "📧 New Inquiry from Jane Doe", n.Subject)
	require.Contains(t, n.HTML, `href="mailto:jane@example.com"`)
	require.Contains(t, n.HTML, `href="tel:09171234567"`)
	require.Contains(t, n.HTML, "Product Inquiry")
	require.Contains(t, n.HTML, "white-space: pre-wrap")
	require.Contains(t, n.HTML, "Reply to Jane")
	require.Contains(t, n.HTML, `href="mailto:jane@example.com?subject=Re`)
	require.Contains(t, n.HTML, "Submitted on 3/14/2025, 1:02:03 AM (PHT)")
	require.NotContains(t, n.HTML, "Priority Follow-up Required")
	require.NotContains(t, n.HTML, "COMPANY")

	require.Contains(t, n.Text, "Name: Jane Doe")
	require.Contains(t, n.Text, "Inquiry Type: Product Inquiry")
	require.Contains(t, n.Text, "Line one\nLine two")
	require.NotContains(t, n.Text, "Company:")
}

func TestRenderContactNotificationQuoteWithCompany(t *testing.T) {
	contact := storedContact()
	contact.InquiryType = models.InquiryQuote
	contact.Company = "Acme Corp"

	n, err := RenderContactNotification(contact, manila(t))
	require.NoError(t, err)

	require.Equal(t, "🎯 QUOTE REQUEST from Jane Doe (Acme Corp)", n.Subject)
	require.Contains(t, n.HTML, "Quote Request - Priority Follow-up Required")
	require.Contains(t, n.HTML, "Request Quote")
	require.Contains(t, n.HTML, "Acme Corp")
	require.Contains(t, n.Text, "Company: Acme Corp")
}

func TestRenderContactNotificationUnknownInquiryFallsBackToRawValue(t *testing.T) {
	contact := storedContact()
	contact.InquiryType = "partnership"

	n, err := RenderContactNotification(contact, manila(t))
	require.NoError(t, err)
	require.Contains(t, n.HTML, "partnership")
	require.Contains(t, n.Text, "Inquiry Type: partnership")
}

func TestRenderContactNotificationEscapesMarkupWithoutDroppingText(t *testing.T) {
	contact := storedContact()
	contact.FirstName = `<script>alert("x")</script>Jane`
	contact.Company = "Tom & Jerry"
	contact.Message = "<img src=x onerror=alert(1)>Need 5 < 10 units\n  indented <thermocouple type K> a<b and c>d"

	n, err := RenderContactNotification(contact, manila(t))
	require.NoError(t, err)

	require.NotContains(t, n.HTML, "<script>")
	require.NotContains(t, n.HTML, "<img")
	require.Contains(t, n.HTML, "&lt;script&gt;")
	require.Contains(t, n.HTML, "&lt;img src=x onerror=alert(1)&gt;Need 5 &lt; 10 units")
	require.Contains(t, n.HTML, "&lt;thermocouple type K&gt; a&lt;b and c&gt;d")
	require.Contains(t, n.HTML, "Tom &amp; Jerry")

	require.Contains(t, n.Text, "<img src=x onerror=alert(1)>Need 5 < 10 units\n  indented <thermocouple type K> a<b and c>d")
	require.Contains(t, n.Text, "Company: Tom & Jerry")
	require.Equal(t, `📧 New Inquiry from <script>alert("x")</script>Jane Doe (Tom & Jerry)`, n.Subject)
}

func TestRenderContactNotificationOtherTimezone(t *testing.T) {
	n, err := RenderContactNotification(storedContact(), time.UTC)
	require.NoError(t, err)
	require.Contains(t, n.Text, "Submitted on 3/13/2025, 5:02:03 PM (UTC)")
}
