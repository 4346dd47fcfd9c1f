/*
Package email mirrors delivered ticker summaries to an SMTP mailbox.
*/
package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "gopkg.in/mail.v2"

	"TickerScanner/internal/config"
	"TickerScanner/internal/ports"
)

const dialTimeout = 10 * time.Second

// dialer is the part of gomail.Dialer the sender needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender delivers summaries via SMTP.
type Sender struct {
	cfg    config.EmailConfig
	dialer dialer
	logger *slog.Logger
}

var _ ports.Mirror = (*Sender)(nil)

// NewSender creates a sender with the given SMTP configuration.
func NewSender(cfg config.EmailConfig, log *slog.Logger) *Sender {
	d := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.Timeout = dialTimeout
	return &Sender{cfg: cfg, dialer: d, logger: log}
}

// PublishSummary e-mails one formatted ticker summary as plain text.
func (s *Sender) PublishSummary(ctx context.Context, symbol, text string) error {
	if !s.cfg.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", subject(symbol))
	m.SetBody("text/plain", text)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send summary for %s to %s: %w", symbol, s.cfg.ToEmail, err)
	}

	if s.logger != nil {
		s.logger.Info("summary mailed", "ticker", symbol, "to", s.cfg.ToEmail)
	}
	return nil
}

func subject(symbol string) string {
	return "Ticker summary: " + symbol
}
