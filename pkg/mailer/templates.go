package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// Template names
const (
	TemplateVerification  = "verification"
	TemplatePasswordReset = "password_reset"
	TemplateApproval      = "approval"
	TemplateContactReply  = "contact_reply"
)

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#1f2937">
<h2>{{.Heading}}</h2>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}{{if .Highlight}}<p style="font-size:24px;letter-spacing:4px"><strong>{{.Highlight}}</strong></p>
{{end}}<p style="color:#6b7280">The Actinova team</p>
</body></html>`))

type page struct {
	Heading    string
	Paragraphs []string
	Highlight  string
}

func render(p page) string {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, p); err != nil {
		return ""
	}
	return buf.String()
}

func plain(p page) string {
	var b strings.Builder
	b.WriteString(p.Heading + "\n\n")
	for _, para := range p.Paragraphs {
		b.WriteString(para + "\n\n")
	}
	if p.Highlight != "" {
		b.WriteString(p.Highlight + "\n\n")
	}
	b.WriteString("The Actinova team\n")
	return b.String()
}

func build(to, subject, name string, secret bool, p page) Message {
	return Message{
		To:       to,
		Subject:  subject,
		Text:     plain(p),
		HTML:     render(p),
		Template: name,
		Secret:   secret,
	}
}

// VerificationEmail carries the sign-up verification code
func VerificationEmail(to, name, code string) Message {
	return build(to, "Verify your Actinova admin account", TemplateVerification, true, page{
		Heading: fmt.Sprintf("Hi %s,", name),
		Paragraphs: []string{
			"Use the code below to verify your email address. It expires in 15 minutes.",
		},
		Highlight: code,
	})
}

// PasswordResetEmail carries a password reset token
func PasswordResetEmail(to, name, token string) Message {
	return build(to, "Reset your Actinova admin password", TemplatePasswordReset, true, page{
		Heading: fmt.Sprintf("Hi %s,", name),
		Paragraphs: []string{
			"We received a request to reset your password. Use the token below within one hour.",
			"If you did not ask for this, you can ignore this email.",
		},
		Highlight: token,
	})
}

// ApprovalEmail tells an admin their account was approved
func ApprovalEmail(to, name string) Message {
	return build(to, "Your Actinova admin account is approved", TemplateApproval, false, page{
		Heading: fmt.Sprintf("Hi %s,", name),
		Paragraphs: []string{
			"Your admin account has been approved. You can now sign in to the dashboard.",
		},
	})
}

// ContactReplyEmail answers a contact form submission
func ContactReplyEmail(to, name, subject, message, originalSubject string) Message {
	if strings.TrimSpace(subject) == "" {
		subject = "Re: " + originalSubject
	}
	paragraphs := strings.Split(strings.TrimSpace(message), "\n\n")
	return build(to, subject, TemplateContactReply, false, page{
		Heading:    fmt.Sprintf("Hi %s,", name),
		Paragraphs: paragraphs,
	})
}
