//go:build integration

package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"shopfront/internal/domain"
)

func TestPostgresDialect(t *testing.T) {
	ctx := context.Background()

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:14-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer func() { _ = pg.Terminate(ctx) }()

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	// reopening runs the schema and seeds again without error or duplicates
	db2, err := Open("postgres", dsn)
	require.NoError(t, err)
	_ = db2.Close()

	s, err := NewStoreRepo(db).BySlug("tiny-steps")
	require.NoError(t, err)
	assert.Equal(t, "baby-kids", s.Theme)

	p, err := NewProductRepo(db).BySlug(s.ID, "romper")
	require.NoError(t, err)
	assert.True(t, p.OnSale())

	carts := NewCartRepo(db)
	cartID, err := carts.Ensure(s.ID, "sid")
	require.NoError(t, err)
	opts := domain.Options{"Size": "0-3m", "Color": "Oat"}
	require.NoError(t, carts.Upsert(cartID, p.ID, opts, 1, p.EffectivePrice()))
	require.NoError(t, carts.Upsert(cartID, p.ID, opts, 1, p.EffectivePrice()))
	items, err := carts.Items(s.ID, "sid")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)

	page, err := NewProductRepo(db).List(s.ID, "rom", 1, 10, "/admin/products")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	o := domain.Order{ID: "o-pg", StoreID: s.ID, SessionID: "sid", Number: "PG-1", Status: "pending",
		Total: decimal.RequireFromString("39"), CreatedAt: now()}
	require.NoError(t, NewOrderRepo(db).Place(o, []domain.OrderItem{{ProductID: p.ID, Name: p.Name, Qty: 2, UnitPrice: p.EffectivePrice()}}, cartID))
	got, err := NewOrderRepo(db).ByNumber(s.ID, "PG-1")
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("39")))
	assert.Equal(t, 2, got.ItemCount)

	created, err := NewNewsletterRepo(db).Subscribe(s.ID, "pg@x.co")
	require.NoError(t, err)
	assert.True(t, created)
}
