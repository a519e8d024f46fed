// Package email delivers reminder mail over plain SMTP. Local stacks point
// it at Mailpit; production points it at a real relay.
package email

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

type Sender interface {
	Send(to string, subject string, body string) error
}

const defaultFrom = "no-reply@climatize.local"

// SMTPSender speaks unauthenticated SMTP. The reminder subjects and bodies
// are Portuguese, so headers that can carry non-ASCII get RFC 2047 encoded.
type SMTPSender struct {
	addr     string
	from     string
	fromName string
}

func NewSMTPSender(host string, port string, from string) *SMTPSender {
	from = strings.TrimSpace(from)
	if from == "" {
		from = defaultFrom
	}
	return &SMTPSender{
		addr:     strings.TrimSpace(host) + ":" + strings.TrimSpace(port),
		from:     from,
		fromName: "Climatize",
	}
}

func (s *SMTPSender) Send(to string, subject string, body string) error {
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, s.compose(to, subject, body))
}

func (s *SMTPSender) compose(to, subject, body string) []byte {
	var b strings.Builder
	writeHeader := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}
	writeHeader("From", fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.fromName), s.from))
	writeHeader("To", to)
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", subject))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", "text/plain; charset=utf-8")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
