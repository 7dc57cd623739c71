package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"shopfront/internal/cache"
	"shopfront/internal/domain"
	"shopfront/internal/events"
	"shopfront/internal/notify"
	"shopfront/internal/repos"
	"shopfront/internal/services"
)

const (
	tinySteps = "st-tiny-steps"
	maison    = "st-maison"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	mails  []notify.Message
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) Send(_ context.Context, m notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = append(r.mails, m)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) lastMail() notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.mails) == 0 {
		return notify.Message{}
	}
	return r.mails[len(r.mails)-1]
}

func newCommerce(db *sqlx.DB, rec *recorder) *services.CommerceService {
	return services.NewCommerceService(repos.NewCartRepo(db), repos.NewWishlistRepo(db), repos.NewProductRepo(db), cache.NewMemory(), rec)
}

func store(t *testing.T, db *sqlx.DB, id string) *domain.Store {
	t.Helper()
	s, err := repos.NewStoreRepo(db).ByID(id)
	require.NoError(t, err)
	return s
}
