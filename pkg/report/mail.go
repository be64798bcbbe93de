package report

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"patchcheck/pkg/errors"
)

// Mailer delivers a rendered report to the configured recipients.
type Mailer interface {
	Send(subject, body string, recipients []string) error
}

// SMTPMailer submits plain-text mail through one relay, the way
// release pipelines hand reports to their mail gateway. No
// authentication: the relay is expected to accept submissions from
// the build network.
type SMTPMailer struct {
	// Addr is the relay in host:port form.
	Addr string
	// From is the envelope and header sender.
	From string
}

var _ Mailer = SMTPMailer{}

func (m SMTPMailer) Send(subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return errors.New(errors.ErrInvalidInput, "no report recipients configured")
	}
	if m.Addr == "" || m.From == "" {
		return errors.New(errors.ErrInvalidInput, "smtp host and sender must be configured")
	}

	msg := message(m.From, subject, body, recipients)
	if err := smtp.SendMail(m.Addr, nil, m.From, recipients, msg); err != nil {
		return errors.Wrapf(err, errors.ErrReportMail, "sending report via %s", m.Addr)
	}

	log.Info().Int("recipients", len(recipients)).Str("relay", m.Addr).Msg("Report mailed")
	return nil
}

// message assembles the RFC 5322 payload. The body is normalized to
// CRLF line endings for the wire.
func message(from, subject, body string, recipients []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(normalized, "\n", "\r\n"))
	return []byte(b.String())
}
