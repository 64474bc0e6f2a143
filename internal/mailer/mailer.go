// payment-reminder/internal/mailer/mailer.go

package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned by SendPaymentReminder when SMTP credentials
// are missing from the environment.
var ErrNotConfigured = errors.New("email service not configured")

// Service sends payment-reminder emails over SMTP. Construct with NewService;
// the zero value refuses to send.
type Service struct {
	dialer *gomail.Dialer
	from   string
	log    *slog.Logger
}

// NewService builds a reminder sender. Empty host or user leaves the service
// unconfigured: every send then fails with ErrNotConfigured instead of the
// process failing at startup.
func NewService(host string, port int, user, pass string, log *slog.Logger) *Service {
	s := &Service{from: user, log: log}
	if host == "" || user == "" {
		log.Warn("SMTP credentials not configured, reminder emails will fail")
		return s
	}
	s.dialer = gomail.NewDialer(host, port, user, pass)
	return s
}

// SendPaymentReminder sends one reminder and returns the provider message
// identifier. The Message-ID is generated locally and stamped on the outgoing
// mail, so the identifier is meaningful even though plain SMTP returns none.
func (s *Service) SendPaymentReminder(ctx context.Context, toEmail, toName string, amount decimal.Decimal, dueDate time.Time, note string) (string, error) {
	if s.dialer == nil {
		return "", ErrNotConfigured
	}

	body, err := renderReminderHTML(toName, amount, dueDate, note)
	if err != nil {
		return "", fmt.Errorf("render reminder body: %w", err)
	}

	messageID := fmt.Sprintf("<%s@payment-reminder>", uuid.NewString())

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", toEmail, toName)
	m.SetHeader("Subject", fmt.Sprintf("Payment Reminder - %s", toName))
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("failed to send payment reminder", "to", toEmail, "error", err)
		return "", err
	}

	s.log.Info("payment reminder sent", "to", toEmail, "message_id", messageID)
	return messageID, nil
}
