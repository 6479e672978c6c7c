package mailer

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/startech-innovation/sitekit/config"
	"github.com/startech-innovation/sitekit/models"
)

// strict strips every tag and escapes what remains, so submitted text is
// inert inside the HTML body.
var strict = bluemonday.StrictPolicy()

// ContactEmail builds the notification for a contact-form submission.
// The submitter's address becomes Reply-To.
func ContactEmail(req *models.ContactRequest, cfg config.ContactConfig) *Email {
	return &Email{
		From:    cfg.From,
		To:      append([]string(nil), cfg.To...),
		ReplyTo: req.Email,
		Subject: "New Contact Form Submission from " + singleLine(req.Name),
		HTML:    contactHTML(req, cfg.SiteName),
		Text:    contactText(req, cfg.SiteName),
	}
}

func contactHTML(req *models.ContactRequest, site string) string {
	var b strings.Builder
	b.WriteString("<h2>New Contact Form Submission</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>\n", strict.Sanitize(req.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", strict.Sanitize(req.Email))
	if req.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>\n", strict.Sanitize(req.Phone))
	}
	b.WriteString("<p><strong>Message:</strong></p>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n", messageHTML(req.Message))
	b.WriteString("<hr>\n")
	fmt.Fprintf(&b, "<p><small>Sent from %s website contact form</small></p>\n", strict.Sanitize(site))
	return b.String()
}

// messageHTML sanitises each line of the message and joins them with <br>.
func messageHTML(msg string) string {
	lines := strings.Split(strings.ReplaceAll(msg, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strict.Sanitize(line)
	}
	return strings.Join(lines, "<br>")
}

func contactText(req *models.ContactRequest, site string) string {
	var b strings.Builder
	b.WriteString("New Contact Form Submission\n\n")
	fmt.Fprintf(&b, "Name: %s\n", req.Name)
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	if req.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	}
	fmt.Fprintf(&b, "Message:\n%s\n\n", req.Message)
	fmt.Fprintf(&b, "---\nSent from %s website contact form\n", site)
	return b.String()
}

// singleLine keeps header values on one line.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
