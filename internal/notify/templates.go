package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/salinmesh/lead-intake/internal/leads"
)

// buildInternalAlert builds the email that notifies the sales mailbox of a
// new lead. Reply-to is set to the submitter so sales can respond directly.
func buildInternalAlert(lead *leads.LeadSubmission, salesEmail string) EmailMessage {
	name := html.EscapeString(lead.Name)
	email := html.EscapeString(lead.Email)
	company := html.EscapeString(lead.Company)
	country := html.EscapeString(lead.Country)

	phoneRow := ""
	phoneLine := ""
	if lead.Phone != "" {
		phone := html.EscapeString(lead.Phone)
		phoneRow = fmt.Sprintf(`<strong>Phone:</strong> <a href="tel:%s">%s</a><br>`, phone, phone)
		phoneLine = fmt.Sprintf("\nPhone: %s", lead.Phone)
	}

	productItems := make([]string, len(lead.Products))
	for i, p := range lead.Products {
		productItems[i] = "• " + html.EscapeString(p)
	}

	htmlBody := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
<div style="background: linear-gradient(135deg, #1e40af, #3b82f6); color: white; padding: 20px; border-radius: 8px 8px 0 0;">
  <h2 style="margin: 0;">🔥 New Lead from Salin Website</h2>
  <p style="margin: 8px 0 0;">A potential customer has submitted an inquiry</p>
</div>
<div style="background: #f8fafc; padding: 20px; border-radius: 0 0 8px 8px;">
  <div style="margin-bottom: 15px;">
    <div style="font-weight: bold; color: #1e40af;">👤 Contact Information</div>
    <div style="margin-top: 5px;">
      <strong>Name:</strong> %s<br>
      <strong>Email:</strong> <a href="mailto:%s">%s</a><br>
      <strong>Company:</strong> %s<br>
      %s<strong>Country:</strong> %s
    </div>
  </div>
  <div style="margin-bottom: 15px;">
    <div style="font-weight: bold; color: #1e40af;">🏭 Products of Interest</div>
    <div style="background: white; padding: 15px; border-radius: 6px; border-left: 4px solid #1e40af;">%s</div>
  </div>
  <div style="margin-bottom: 15px;">
    <div style="font-weight: bold; color: #1e40af;">💬 Message</div>
    <div style="background: white; padding: 15px; border-radius: 6px; white-space: pre-wrap;">%s</div>
  </div>
  <div>
    <div style="font-weight: bold; color: #1e40af;">⏰ Submission Time</div>
    <div style="margin-top: 5px;">%s</div>
  </div>
</div>
</div>`,
		name, email, email, company, phoneRow, country,
		strings.Join(productItems, "<br>"),
		html.EscapeString(lead.Message),
		lead.SubmittedAt.Format(time.RFC1123))

	body := fmt.Sprintf(`New lead from the Salin website.

Name: %s
Email: %s
Company: %s%s
Country: %s
Products: %s
Submitted: %s

Message:
%s`,
		lead.Name, lead.Email, lead.Company, phoneLine, lead.Country,
		strings.Join(lead.Products, ", "),
		lead.SubmittedAt.Format(time.RFC1123),
		lead.Message)

	return EmailMessage{
		To:      salesEmail,
		Subject: fmt.Sprintf("🔥 New Lead: %s from %s", lead.Name, lead.Company),
		Body:    body,
		HTML:    htmlBody,
		ReplyTo: lead.Email,
	}
}

// buildCustomerAck builds the acknowledgment sent back to the submitter,
// confirming receipt and the 24-hour response commitment.
func buildCustomerAck(lead *leads.LeadSubmission) EmailMessage {
	name := html.EscapeString(lead.Name)

	htmlBody := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
<div style="background: linear-gradient(135deg, #1e40af, #3b82f6); color: white; padding: 20px; border-radius: 8px; text-align: center;">
  <h2 style="margin: 0;">Thank You for Your Inquiry!</h2>
  <p style="margin: 8px 0 0;">Salin Wire Mesh &amp; Hardware</p>
</div>
<div style="padding: 20px;">
  <p>Dear %s,</p>
  <p>Thank you for contacting Salin Wire Mesh &amp; Hardware. We have received your inquiry about our products and services.</p>
  <p>Our sales team will review your requirements and respond within 24 hours with:</p>
  <ul>
    <li>✅ Detailed product specifications</li>
    <li>✅ Competitive pricing</li>
    <li>✅ Custom solutions if needed</li>
    <li>✅ Delivery timeline</li>
  </ul>
  <p>For urgent inquiries, please contact us directly:</p>
  <p>📞 <strong>Phone:</strong> +86-318-5289812<br>
  📧 <strong>Email:</strong> sales@salin.com<br>
  💬 <strong>WhatsApp:</strong> +86-138-3289-5678</p>
  <p>Best regards,<br>
  <strong>Salin Sales Team</strong><br>
  Salin Wire Mesh &amp; Hardware Co., Ltd.</p>
</div>
</div>`, name)

	body := fmt.Sprintf(`Dear %s,

Thank you for contacting Salin Wire Mesh & Hardware. We have received your inquiry and our sales team will respond within 24 hours.

For urgent inquiries:
Phone: +86-318-5289812
Email: sales@salin.com
WhatsApp: +86-138-3289-5678

Best regards,
Salin Sales Team`, lead.Name)

	return EmailMessage{
		To:      lead.Email,
		ToName:  lead.Name,
		Subject: "Thank you for contacting Salin - We'll respond within 24 hours",
		Body:    body,
		HTML:    htmlBody,
	}
}
