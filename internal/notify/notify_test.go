package notify

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
)

func TestComposeRendersSubjectAndBody(t *testing.T) {
	tpl := domain.NotificationTemplate{
		Key:     NewsletterWelcome,
		Subject: "Welcome to {{.Store.Name}}",
		Body:    "Hi {{.Email}}, thanks for joining {{.Store.Name}}.{{.Missing}}",
		Active:  true,
	}
	m, err := Compose(tpl, "a@b.co", map[string]any{
		"Store": domain.Store{Name: "Tiny Steps"},
		"Email": "a@b.co",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", m.To)
	assert.Equal(t, "Welcome to Tiny Steps", m.Subject)
	assert.Contains(t, m.Body, "Hi a@b.co, thanks for joining Tiny Steps.")
}

func TestComposeInactiveAndBroken(t *testing.T) {
	_, err := Compose(domain.NotificationTemplate{Key: "x", Subject: "s"}, "a@b.co", nil)
	assert.ErrorIs(t, err, ErrInactive)

	_, err = Render(domain.NotificationTemplate{Key: "x", Subject: "{{.Broken"}, nil)
	assert.Error(t, err)
}

func TestNewMailer(t *testing.T) {
	assert.IsType(t, Log{}, NewMailer("", "25", "", "", "f@x.co"))

	s, ok := NewMailer("smtp.example.com", "587", "u", "p", "f@x.co").(*SMTP)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com:587", s.Addr)
	assert.NotNil(t, s.Auth)

	var buf bytes.Buffer
	applog.SetOutput(&buf)
	defer applog.SetOutput(io.Discard)
	require.NoError(t, Log{}.Send(context.Background(), Message{To: "a@b.co", Subject: "Hi"}))
	assert.Contains(t, buf.String(), `"action":"notify.mail"`)
}
