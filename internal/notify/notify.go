// Package notify renders store notification templates and sends them by mail.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"text/template"

	"github.com/jordan-wright/email"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
)

const (
	NewsletterWelcome = "newsletter.welcome"
	OrderConfirmation = "order.confirmation"
	PasswordReset     = "password.reset"
)

// Keys lists the templates a store can edit in the admin.
var Keys = []string{NewsletterWelcome, OrderConfirmation, PasswordReset}

var ErrInactive = errors.New("notify: template inactive")

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// Render executes the subject and body of t against data.
func Render(t domain.NotificationTemplate, data any) (Message, error) {
	subject, err := execute(t.Key+".subject", t.Subject, data)
	if err != nil {
		return Message{}, err
	}
	body, err := execute(t.Key+".body", t.Body, data)
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: strings.TrimSpace(subject), Body: body}, nil
}

func execute(name, text string, data any) (string, error) {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("notify: parse %s: %w", name, err)
	}
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("notify: render %s: %w", name, err)
	}
	return b.String(), nil
}

// Compose renders an active template for recipient to.
func Compose(t domain.NotificationTemplate, to string, data any) (Message, error) {
	if !t.Active {
		return Message{}, ErrInactive
	}
	m, err := Render(t, data)
	if err != nil {
		return Message{}, err
	}
	m.To = to
	return m, nil
}

// SMTP sends plain text mail through one relay.
type SMTP struct {
	Addr string
	From string
	Auth smtp.Auth
}

func NewSMTP(host, port, user, password, from string) *SMTP {
	s := &SMTP{Addr: net.JoinHostPort(host, port), From: from}
	if user != "" {
		s.Auth = smtp.PlainAuth("", user, password, host)
	}
	return s
}

func (s *SMTP) Send(_ context.Context, m Message) error {
	e := email.NewEmail()
	e.From = s.From
	e.To = []string{m.To}
	e.Subject = m.Subject
	e.Text = []byte(m.Body)
	if err := e.Send(s.Addr, s.Auth); err != nil {
		return fmt.Errorf("notify: send to %s: %w", m.To, err)
	}
	return nil
}

// Log records messages instead of sending them.
type Log struct{}

func (Log) Send(_ context.Context, m Message) error {
	applog.Info(nil, "notify.mail", map[string]any{"to": m.To, "subject": m.Subject})
	return nil
}

// NewMailer returns SMTP when host is set, Log otherwise.
func NewMailer(host, port, user, password, from string) Mailer {
	if host == "" {
		return Log{}
	}
	return NewSMTP(host, port, user, password, from)
}
