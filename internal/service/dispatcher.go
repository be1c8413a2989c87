package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/octobees/lead-capture/api/internal/email"
)

const confirmationTag = "lead-confirmation"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, Helvetica, sans-serif; color: #1f2933; line-height: 1.5;">
    <p>Hi{{if .Name}} {{.Name}}{{end}},</p>
    <p>{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
    <p>Talk soon,<br>The team</p>
  </body>
</html>
`))

// EmailDispatcher composes and sends the confirmation email.
type EmailDispatcher struct {
	sender  email.Sender
	subject string
}

// NewEmailDispatcher wires a dispatcher; an empty subject uses a default.
func NewEmailDispatcher(sender email.Sender, subject string) *EmailDispatcher {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "Thanks for reaching out"
	}
	return &EmailDispatcher{sender: sender, subject: subject}
}

// Compose renders the confirmation message. Blank content falls back to FallbackText.
func (d *EmailDispatcher) Compose(recipient, name string, content Content) (email.Message, error) {
	text := strings.TrimSpace(content.Text)
	if text == "" {
		text = FallbackText
	}
	name = strings.TrimSpace(name)

	var buf bytes.Buffer
	err := confirmationTemplate.Execute(&buf, struct {
		Name  string
		Lines []string
	}{Name: name, Lines: toLines(text)})
	if err != nil {
		return email.Message{}, fmt.Errorf("render confirmation: %w", err)
	}

	subject := d.subject
	if name != "" {
		subject += ", " + name
	}
	return email.Message{
		To:       strings.TrimSpace(recipient),
		Subject:  subject,
		HTMLBody: buf.String(),
		Tag:      confirmationTag,
	}, nil
}

// Send composes the message and hands it to the sender exactly once.
func (d *EmailDispatcher) Send(ctx context.Context, recipient, name string, content Content) error {
	if d.sender == nil {
		return fmt.Errorf("%w: no sender configured", ErrDelivery)
	}
	msg, err := d.Compose(recipient, name, content)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		return errors.Join(ErrDelivery, err)
	}
	return nil
}

func toLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
