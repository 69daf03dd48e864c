package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/greenvolunteer/backend/config"
)

// Message is one outbound email.
type Message struct {
	To           string
	Subject      string
	BodyHTML     string
	ReplyToEmail string
	ReplyToName  string
}

// Mailer delivers email over SMTP with optional PLAIN auth.
type Mailer struct {
	cfg config.EmailConfig
}

// New creates a mailer.
func New(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers one message. Not configured SMTP is an error so the worker
// retries once the host is set.
func (m *Mailer) Send(msg Message) error {
	if m.cfg.SMTPHost == "" {
		return fmt.Errorf("smtp host not configured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.FromAddress)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.ReplyToEmail != "" {
		if msg.ReplyToName != "" {
			fmt.Fprintf(&b, "Reply-To: %s <%s>\r\n", msg.ReplyToName, msg.ReplyToEmail)
		} else {
			fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyToEmail)
		}
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.BodyHTML)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
