package userauth

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/goliatone/go-errors"
)

// SMTPMailer delivers templated mail over plain SMTP. Templates are looked
// up by the Email.Template name and executed with Email.Data.
type SMTPMailer struct {
	host      string
	port      string
	from      string
	auth      smtp.Auth
	templates *template.Template
	logger    Logger
}

// NewSMTPMailer builds a mailer. The password may be empty for servers that
// accept unauthenticated relay, e.g. a local dev catcher.
func NewSMTPMailer(host, port, from, password string, templates *template.Template) *SMTPMailer {
	m := &SMTPMailer{
		host:      host,
		port:      port,
		from:      from,
		templates: templates,
		logger:    defLogger{},
	}

	if password != "" {
		m.auth = smtp.PlainAuth("", from, password, host)
	}

	return m
}

// WithLogger overwrites the default logger
func (m *SMTPMailer) WithLogger(logger Logger) *SMTPMailer {
	m.logger = logger
	return m
}

// Send renders the email's template and delivers it to the recipient.
func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "mail send canceled")
	}

	body, err := m.render(email)
	if err != nil {
		return err
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body)

	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, m.auth, m.from, []string{email.To}, msg.Bytes()); err != nil {
		m.logger.Error("mail delivery failed: %s", err)
		return errors.Wrap(err, errors.CategoryOperation, "failed to deliver mail").
			WithTextCode(TextCodeMailFailed)
	}

	m.logger.Debug("mail delivered to %s: %s", email.To, email.Subject)

	return nil
}

func (m *SMTPMailer) render(email Email) ([]byte, error) {
	if m.templates == nil {
		return nil, errors.New("mailer has no templates configured", errors.CategoryOperation).
			WithTextCode(TextCodeMailFailed)
	}

	out := bytes.Buffer{}
	if err := m.templates.ExecuteTemplate(&out, email.Template, email.Data); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to render mail template").
			WithTextCode(TextCodeMailFailed).
			WithMetadata(map[string]any{
				"template": email.Template,
			})
	}

	return out.Bytes(), nil
}
