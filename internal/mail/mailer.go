package mail

import (
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/yoursocial/yoursocial/internal/models"
	"github.com/yoursocial/yoursocial/pkg/config"
	"github.com/yoursocial/yoursocial/pkg/logging"
)

// Sender delivers email over SMTP
type Sender interface {
	Send(to, subject, body string) error
}

// Mailer sends email through a configured SMTP relay. With mail disabled
// it logs and drops messages.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a mailer from SMTP configuration. Returns nil when mail is
// disabled; a nil *Mailer drops messages.
func New(cfg *config.MailConfig) *Mailer {
	if !cfg.Enabled {
		logging.GetLogger().Info("Mail delivery disabled")
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers a plain-text message
func (m *Mailer) Send(to, subject, body string) error {
	if m == nil || m.dialer == nil {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// DigestSubject is the subject line of the periodic notification digest
const DigestSubject = "You have unread notifications"

// DigestBody renders the plain-text digest for one recipient's unread
// notifications
func DigestBody(recipient *models.User, notifs []*models.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", recipient.FullName())
	fmt.Fprintf(&b, "You have %d unread notification(s) from the last day:\n\n", len(notifs))
	for _, n := range notifs {
		fmt.Fprintf(&b, "  - %s\n", n.Content)
	}
	b.WriteString("\nVisit YourSocial to catch up.\n")
	return b.String()
}
