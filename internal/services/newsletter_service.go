package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/events"
	"shopfront/internal/notify"
	"shopfront/internal/validate"
)

var (
	ErrSubmissionInFlight = errors.New("subscription already being processed")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrAlreadySubscribed  = errors.New("this email is already subscribed")
)

// SubscribedDisplay is how long the form shows its subscribed state before
// returning to idle.
const SubscribedDisplay = 5 * time.Second

type SubscriberStore interface {
	Subscribe(storeID, email string) (bool, error)
}

type NewsletterService struct {
	Subs      SubscriberStore
	Templates TemplateLookup
	Mailer    notify.Mailer
	Events    events.Publisher

	inflight sync.Map
}

func NewNewsletterService(subs SubscriberStore, tpls TemplateLookup, mailer notify.Mailer, pub events.Publisher) *NewsletterService {
	return &NewsletterService{Subs: subs, Templates: tpls, Mailer: mailer, Events: pub}
}

// Subscribe adds email to the store's list. While one submission for a
// (store, email) is running, another fails with ErrSubmissionInFlight.
func (s *NewsletterService) Subscribe(ctx context.Context, store *domain.Store, raw string) error {
	email, ok := validate.Email(raw)
	if !ok {
		return ErrInvalidEmail
	}
	email = strings.ToLower(email)

	key := store.ID + "|" + email
	if _, busy := s.inflight.LoadOrStore(key, struct{}{}); busy {
		return ErrSubmissionInFlight
	}
	defer s.inflight.Delete(key)

	created, err := s.Subs.Subscribe(store.ID, email)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadySubscribed
	}

	publish(ctx, s.Events, events.NewsletterSubscribed, store.ID, map[string]any{"email": email})
	mailTemplate(ctx, s.Templates, s.Mailer, store.ID, notify.NewsletterWelcome, email, map[string]any{
		"Store": store, "Email": email,
	})
	return nil
}
