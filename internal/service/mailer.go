package service

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Payphone-Digital/eventhub/config"
	"github.com/Payphone-Digital/eventhub/pkg/circuit"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
)

// Mail is a plain-text message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// NewMailer returns an SMTP mailer, or a log-only mailer when mail is
// disabled or no SMTP host is configured.
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.Disabled || cfg.Host == "" {
		logger.Info("Mailer running in log-only mode").
			Bool("disabled", cfg.Disabled).
			Log()
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// LogMailer records what would have been sent.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, mail Mail) error {
	logger.InfoWithContext(ctx, "Mail not sent (mailer disabled)").
		String("to", mail.To).
		String("subject", mail.Subject).
		Log()
	return nil
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers through an SMTP relay behind a circuit breaker, so an
// unreachable relay is skipped instead of stalling every request.
type SMTPMailer struct {
	cfg     config.MailConfig
	breaker *circuit.Breaker
	send    sendFunc
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		breaker: circuit.NewBreaker("smtp", circuit.DefaultConfig()),
		send:    smtp.SendMail,
	}
}

// Breaker exposes the relay breaker for the readiness report.
func (m *SMTPMailer) Breaker() *circuit.Breaker {
	return m.breaker
}

func (m *SMTPMailer) Send(ctx context.Context, mail Mail) error {
	return m.breaker.Execute(ctx, func(ctx context.Context) error {
		var auth smtp.Auth
		if m.cfg.User != "" {
			auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
		}
		addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

		// smtp.SendMail has no context; abandon the wait on cancellation.
		done := make(chan error, 1)
		go func() {
			done <- m.send(addr, auth, m.cfg.From, []string{mail.To}, buildMessage(m.cfg.From, mail))
		}()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

func buildMessage(from string, mail Mail) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", mail.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mail.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(mail.Body)
	return []byte(b.String())
}

// RegistrationMail confirms a registration for title starting at.
func RegistrationMail(to, username, title string, at time.Time) Mail {
	return Mail{
		To:      to,
		Subject: "Registration confirmed: " + title,
		Body: fmt.Sprintf("Hi %s,\r\n\r\nYou are registered for %s on %s.\r\n\r\nSee you there!\r\n",
			username, title, at.UTC().Format("Mon, 02 Jan 2006 15:04 MST")),
	}
}

// EventUpdateMail carries an organizer's message to one attendee.
func EventUpdateMail(to, username, message, title, location string, at time.Time) Mail {
	return Mail{
		To:      to,
		Subject: "Update for " + title,
		Body: fmt.Sprintf("Hi %s,\r\n\r\n%s\r\n\r\nEvent: %s\r\nDate: %s\r\nLocation: %s\r\n",
			username, message, title, at.UTC().Format("Mon, 02 Jan 2006 15:04 MST"), location),
	}
}

// sendQuietly delivers mail and logs a failure instead of returning it.
func sendQuietly(ctx context.Context, mailer Mailer, mail Mail) bool {
	if err := mailer.Send(ctx, mail); err != nil {
		logger.WarnWithContext(ctx, "Mail delivery failed").
			String("to", mail.To).
			String("subject", mail.Subject).
			Err(err).
			Log()
		return false
	}
	return true
}
