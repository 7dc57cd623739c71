package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/events"
	"shopfront/internal/repos"
	"shopfront/internal/services"
)

func TestNewsletterSubscribe(t *testing.T) {
	db := memdb(t)
	rec := &recorder{}
	subs := repos.NewNewsletterRepo(db)
	svc := services.NewNewsletterService(subs, repos.NewTemplateRepo(db), rec, rec)
	tiny := store(t, db, tinySteps)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, tiny, "  Reader@Example.com "))
	assert.Contains(t, rec.types(), events.NewsletterSubscribed)
	mail := rec.lastMail()
	assert.Equal(t, "reader@example.com", mail.To)
	assert.Equal(t, "Welcome to Tiny Steps", mail.Subject)

	require.ErrorIs(t, svc.Subscribe(ctx, tiny, "reader@example.com"), services.ErrAlreadySubscribed)
	require.ErrorIs(t, svc.Subscribe(ctx, tiny, "not-an-email"), services.ErrInvalidEmail)
	require.ErrorIs(t, svc.Subscribe(ctx, tiny, ""), services.ErrInvalidEmail)

	// The same address is a new subscriber for another store.
	require.NoError(t, svc.Subscribe(ctx, store(t, db, maison), "reader@example.com"))

	n, err := subs.Count(tinySteps)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewsletterSubscribe_InactiveTemplateSendsNothing(t *testing.T) {
	db := memdb(t)
	rec := &recorder{}
	tpls := repos.NewTemplateRepo(db)
	tpl, err := tpls.ByKey(tinySteps, "newsletter.welcome")
	require.NoError(t, err)
	tpl.Active = false
	require.NoError(t, tpls.Update(tpl))

	svc := services.NewNewsletterService(repos.NewNewsletterRepo(db), tpls, rec, rec)
	require.NoError(t, svc.Subscribe(context.Background(), store(t, db, tinySteps), "quiet@example.com"))
	assert.Empty(t, rec.mails)
}

// slowSubscribers holds every Subscribe call until release is closed.
type slowSubscribers struct {
	entered chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (s *slowSubscribers) Subscribe(storeID, email string) (bool, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	s.entered <- struct{}{}
	<-s.release
	return true, nil
}

func TestNewsletterSubscribe_RejectsDuplicateInFlight(t *testing.T) {
	db := memdb(t)
	subs := &slowSubscribers{entered: make(chan struct{}, 2), release: make(chan struct{})}
	svc := services.NewNewsletterService(subs, nil, nil, &recorder{})
	tiny := store(t, db, tinySteps)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- svc.Subscribe(ctx, tiny, "a@example.com") }()

	select {
	case <-subs.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never started")
	}

	require.ErrorIs(t, svc.Subscribe(ctx, tiny, "A@example.com"), services.ErrSubmissionInFlight)

	close(subs.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, subs.calls)

	// Once settled, the guard is released.
	require.NoError(t, svc.Subscribe(ctx, tiny, "a@example.com"))
}
