package mail

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"synnapse/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSender struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.sent = append(f.sent, m...)

	return f.err
}

func TestResetLink(t *testing.T) {
	assert.Equal(t, "https://syn.example/reset-password?token=abc123",
		ResetLink("https://syn.example/", "abc123"))
}

func TestRenderResetBody(t *testing.T) {
	body, err := renderResetBody("https://syn.example/reset-password?token=abc123")
	require.NoError(t, err)
	assert.Contains(t, body, `href="https://syn.example/reset-password?token=abc123"`)
	assert.Contains(t, body, "1 hora")
}

func TestSMTPMailer_SendPasswordReset(t *testing.T) {
	fs := &fakeSender{}
	m := &smtpMailer{from: "no-reply@syn.example", baseURL: "https://syn.example", dialer: fs, logger: newDiscardLogger()}

	require.NoError(t, m.SendPasswordReset(context.Background(), "user@example.com", "tok"))
	require.Len(t, fs.sent, 1)

	msg := fs.sent[0]
	assert.Equal(t, []string{"user@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{resetSubject}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "reset-password?token=3Dtok") // quoted-printable "="
}

func TestSMTPMailer_PropagatesSendError(t *testing.T) {
	fs := &fakeSender{err: assert.AnError}
	m := &smtpMailer{from: "a@b", baseURL: "https://syn.example", dialer: fs, logger: newDiscardLogger()}

	err := m.SendPasswordReset(context.Background(), "user@example.com", "tok")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSMTPMailer_RespectsDeadline(t *testing.T) {
	fs := &fakeSender{delay: 200 * time.Millisecond}
	m := &smtpMailer{from: "a@b", baseURL: "https://syn.example", dialer: fs, logger: newDiscardLogger()}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := m.SendPasswordReset(ctx, "user@example.com", "tok")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogMailer_LogsLink(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer("https://syn.example", slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, m.SendPasswordReset(context.Background(), "user@example.com", "tok"))
	assert.True(t, strings.Contains(buf.String(), "reset-password?token=tok"))
}

func TestNewMailer_Providers(t *testing.T) {
	cfg := &config.Config{}
	m, err := NewMailer(MailerParams{Config: cfg, Logger: newDiscardLogger()})
	require.NoError(t, err)
	assert.IsType(t, &logMailer{}, m)

	cfg.Mail.Provider = config.MailProviderSMTP
	_, err = NewMailer(MailerParams{Config: cfg, Logger: newDiscardLogger()})
	assert.Error(t, err)

	cfg.Mail.Host = "smtp.example"
	cfg.Mail.From = "no-reply@syn.example"
	m, err = NewMailer(MailerParams{Config: cfg, Logger: newDiscardLogger()})
	require.NoError(t, err)
	assert.IsType(t, &smtpMailer{}, m)

	cfg.Mail.Provider = "pigeon"
	_, err = NewMailer(MailerParams{Config: cfg, Logger: newDiscardLogger()})
	assert.Error(t, err)
}
