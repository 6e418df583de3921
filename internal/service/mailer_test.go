package service

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/eventhub/config"
	"github.com/Payphone-Digital/eventhub/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer_LogOnlyWithoutRelay(t *testing.T) {
	assert.IsType(t, LogMailer{}, NewMailer(config.MailConfig{}))
	assert.IsType(t, LogMailer{}, NewMailer(config.MailConfig{Host: "smtp.example.com", Disabled: true}))
	assert.IsType(t, &SMTPMailer{}, NewMailer(config.MailConfig{Host: "smtp.example.com", Port: 587}))
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "smtp.example.com", Port: 2525, From: "events@example.com"})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	at := time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC)
	require.NoError(t, m.Send(context.Background(), RegistrationMail("bob@example.com", "bob", "Go meetup", at)))

	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, []string{"bob@example.com"}, gotTo)
	assert.True(t, strings.HasPrefix(gotMsg, "From: events@example.com\r\n"))
	assert.Contains(t, gotMsg, "Subject: Registration confirmed: Go meetup\r\n")
	assert.Contains(t, gotMsg, "You are registered for Go meetup on Wed, 01 May 2030 18:00 UTC.")
}

func TestSMTPMailer_BreakerOpensOnRelayFailures(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "smtp.example.com", Port: 25})
	calls := 0
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("dial tcp: connection refused")
	}

	mail := Mail{To: "x@example.com", Subject: "s", Body: "b"}
	for i := 0; i < circuit.DefaultConfig().Threshold; i++ {
		assert.Error(t, m.Send(context.Background(), mail))
	}
	assert.Equal(t, circuit.StateOpen, m.Breaker().State())

	err := m.Send(context.Background(), mail)
	assert.ErrorIs(t, err, circuit.ErrCircuitOpen)
	assert.Equal(t, circuit.DefaultConfig().Threshold, calls)
}

func TestSendQuietly_SwallowsErrors(t *testing.T) {
	failing := &recordingMailer{err: errors.New("relay down")}
	assert.False(t, sendQuietly(context.Background(), failing, Mail{To: "x@example.com"}))

	ok := &recordingMailer{}
	assert.True(t, sendQuietly(context.Background(), ok, Mail{To: "x@example.com"}))
	assert.Len(t, ok.Sent(), 1)
}
