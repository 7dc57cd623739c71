package repos

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
)

func openTest(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenSeedsDemoStoresOnce(t *testing.T) {
	db := openTest(t)
	stores := NewStoreRepo(db)

	s, err := stores.BySlug("Tiny-Steps")
	require.NoError(t, err)
	assert.Equal(t, "baby-kids", s.Theme)
	assert.Equal(t, "https://instagram.com/tiny-steps", s.Socials["instagram"])

	_, err = stores.BySlug("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	// a second pass over the same database must not duplicate anything
	require.NoError(t, seedIfEmpty(db))
	require.NoError(t, seedUsers(db))
	all, err := stores.List()
	require.NoError(t, err)
	assert.Len(t, all, len(demoStores))
}

func TestStoreContentRoundTrip(t *testing.T) {
	db := openTest(t)
	stores := NewStoreRepo(db)

	c, err := stores.Content("st-tiny-steps")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": "Little steps, big smiles"}, c["hero"]["title"])

	require.NoError(t, stores.SaveContent("st-tiny-steps", "hero", map[string]any{"title": "New"}))
	c, err = stores.Content("st-tiny-steps")
	require.NoError(t, err)
	assert.Equal(t, "New", c["hero"]["title"])

	_, err = db.Exec(`INSERT INTO store_contents(store_id, section, payload_json, updated_at) VALUES('st-tiny-steps','broken','[1,2','x')`)
	require.NoError(t, err)
	c, err = stores.Content("st-tiny-steps")
	require.NoError(t, err)
	assert.NotContains(t, c, "broken")

	require.NoError(t, stores.UpdateTheme("st-corner", "watches"))
	s, err := stores.ByID("st-corner")
	require.NoError(t, err)
	assert.Equal(t, "watches", s.Theme)
}

func TestProductScanAndLookups(t *testing.T) {
	db := openTest(t)
	products := NewProductRepo(db)

	p, err := products.BySlug("st-tiny-steps", "romper")
	require.NoError(t, err)
	assert.True(t, p.OnSale())
	assert.True(t, p.EffectivePrice().Equal(decimal.RequireFromString("19.5")))
	require.Len(t, p.Variants, 2)

	loafers, err := products.ByID("maison-loafers")
	require.NoError(t, err)
	assert.False(t, loafers.OnSale(), "equal sale price is not a sale")

	_, err = products.BySlug("st-tiny-steps", "old-blanket")
	assert.ErrorIs(t, err, ErrNotFound, "inactive products are hidden")

	found, err := products.Search("st-voltage", "EARBUDS", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "voltage-earbuds", found[0].ID)

	byIDs, err := products.ByIDs("st-voltage", []string{"voltage-earbuds", "tiny-steps-rattle"})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1, "other stores' products are excluded")
}

func TestTableListPaginatesSearchesAndScopes(t *testing.T) {
	db := openTest(t)
	products := NewProductRepo(db)

	page, err := products.List("st-tiny-steps", "", 1, 2, "/admin/products")
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.From)
	assert.Equal(t, 2, page.To)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, page.Links, 4)
	assert.Empty(t, page.Links[0].URL)
	assert.Equal(t, "/admin/products?page=2", page.Links[3].URL)

	page, err = products.List("st-tiny-steps", "rattle", 1, 15, "/admin/products")
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "rattle", page.Query)
	assert.Equal(t, "/admin/products?page=1&q=rattle", page.Links[1].URL)

	_, err = products.Get("st-maison", "tiny-steps-rattle")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, products.Delete("st-maison", "tiny-steps-rattle"), ErrNotFound)
}

func TestTableInsertUpdateDelete(t *testing.T) {
	db := openTest(t)
	taxes := NewTaxRepo(db)

	rate := domain.TaxRate{ID: "tx-1", StoreID: "st-voltage", Name: "CA", Country: "US", Region: "CA", Rate: decimal.RequireFromString("7.25"), Active: true}
	require.NoError(t, taxes.Insert(rate))

	rate.Rate = decimal.RequireFromString("7.5")
	rate.Active = false
	require.NoError(t, taxes.Update(rate))

	got, err := taxes.Get("st-voltage", "tx-1")
	require.NoError(t, err)
	assert.True(t, got.Rate.Equal(decimal.RequireFromString("7.5")))
	assert.False(t, got.Active)

	rate.StoreID = "st-maison"
	assert.ErrorIs(t, taxes.Update(rate), ErrNotFound)

	require.NoError(t, taxes.Delete("st-voltage", "tx-1"))
	_, err = taxes.Get("st-voltage", "tx-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewsJoinProductName(t *testing.T) {
	db := openTest(t)
	reviews := NewReviewRepo(db)

	r, err := reviews.Get("st-tiny-steps", "tiny-steps-review-2")
	require.NoError(t, err)
	assert.Equal(t, "Organic Cotton Romper", r.ProductName)
	assert.Equal(t, "pending", r.Status)

	require.NoError(t, reviews.SetStatus("st-tiny-steps", r.ID, "approved"))
	approved, err := reviews.Approved("st-tiny-steps", "tiny-steps-romper")
	require.NoError(t, err)
	assert.Len(t, approved, 2)
}

func TestCartUpsertMergesEqualOptions(t *testing.T) {
	db := openTest(t)
	carts := NewCartRepo(db)

	id, err := carts.Ensure("st-tiny-steps", "sid-1")
	require.NoError(t, err)
	again, err := carts.Ensure("st-tiny-steps", "sid-1")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	price := decimal.RequireFromString("19.50")
	sage := domain.Options{"Size": "0-3m", "Color": "Sage"}
	require.NoError(t, carts.Upsert(id, "tiny-steps-romper", sage, 1, price))
	require.NoError(t, carts.Upsert(id, "tiny-steps-romper", domain.Options{"Color": "Sage", "Size": "0-3m"}, 2, price))
	require.NoError(t, carts.Upsert(id, "tiny-steps-romper", domain.Options{"Size": "3-6m", "Color": "Oat"}, 1, price))
	require.NoError(t, carts.Upsert(id, "tiny-steps-rattle", nil, 1, decimal.RequireFromString("12")))

	items, err := carts.Items("st-tiny-steps", "sid-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	byKey := map[string]domain.CartItem{}
	for _, it := range items {
		byKey[it.ProductID+"|"+it.OptionsKey] = it
	}
	merged := byKey["tiny-steps-romper|"+sage.Key()]
	assert.Equal(t, 3, merged.Qty)
	assert.Equal(t, "Sage", merged.Options["Color"])

	qty, err := carts.LineQty(id, "tiny-steps-romper", sage.Key())
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	qty, err = carts.ProductQty(id, "tiny-steps-romper")
	require.NoError(t, err)
	assert.Equal(t, 4, qty, "every option line of the product")
	qty, err = carts.ProductQty(id, "tiny-steps-stroller")
	require.NoError(t, err)
	assert.Zero(t, qty)

	require.NoError(t, carts.SetQty(id, "tiny-steps-rattle", "", 0))
	items, err = carts.Items("st-tiny-steps", "sid-1")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	other, err := carts.Items("st-maison", "sid-1")
	require.NoError(t, err)
	assert.Empty(t, other, "carts are per store")
}

func TestMergeForLogin(t *testing.T) {
	db := openTest(t)
	carts := NewCartRepo(db)
	users := NewUserRepo(db)
	price := decimal.RequireFromString("12")

	old, err := carts.Ensure("st-tiny-steps", "sid-old")
	require.NoError(t, err)
	require.NoError(t, carts.Upsert(old, "tiny-steps-rattle", nil, 2, price))
	_, err = carts.MergeForLogin("u-alice", "sid-old")
	require.NoError(t, err)

	cur, err := carts.Ensure("st-tiny-steps", "sid-new")
	require.NoError(t, err)
	require.NoError(t, carts.Upsert(cur, "tiny-steps-rattle", nil, 1, price))
	require.NoError(t, users.BindSession("sid-new", "u-alice"))

	stores, err := carts.MergeForLogin("u-alice", "sid-new")
	require.NoError(t, err)
	assert.Equal(t, []string{"st-tiny-steps"}, stores)

	items, err := carts.Items("st-tiny-steps", "sid-new")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Qty)

	gone, err := carts.Items("st-tiny-steps", "sid-old")
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestWishlist(t *testing.T) {
	db := openTest(t)
	w := NewWishlistRepo(db)

	id, err := w.Ensure("st-voltage", "sid")
	require.NoError(t, err)
	require.NoError(t, w.Add(id, "voltage-earbuds"))
	require.NoError(t, w.Add(id, "voltage-earbuds"))

	has, err := w.Has(id, "voltage-earbuds")
	require.NoError(t, err)
	assert.True(t, has)

	items, err := w.Items("st-voltage", "sid")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Wireless Earbuds", items[0].Name)

	require.NoError(t, w.Remove(id, "voltage-earbuds"))
	has, err = w.Has(id, "voltage-earbuds")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestOrderPlaceIsAllOrNothing(t *testing.T) {
	db := openTest(t)
	orders := NewOrderRepo(db)
	inv := NewInventoryRepo(db)
	carts := NewCartRepo(db)

	cartID, err := carts.Ensure("st-tiny-steps", "sid")
	require.NoError(t, err)
	require.NoError(t, carts.Upsert(cartID, "tiny-steps-rattle", nil, 2, decimal.RequireFromString("12")))

	o := domain.Order{ID: "o-1", StoreID: "st-tiny-steps", SessionID: "sid", Number: "TS-1", Status: "pending",
		Total: decimal.RequireFromString("24"), CustomerName: "Ann", CustomerEmail: "ann@x.co", CreatedAt: now()}
	items := []domain.OrderItem{{ProductID: "tiny-steps-rattle", Name: "Wooden Rattle", Qty: 2, UnitPrice: decimal.RequireFromString("12")}}
	require.NoError(t, orders.Place(o, items, cartID))

	stock, err := inv.Stock("tiny-steps-rattle")
	require.NoError(t, err)
	assert.Equal(t, 3, stock)
	left, err := carts.Items("st-tiny-steps", "sid")
	require.NoError(t, err)
	assert.Empty(t, left)

	got, err := orders.ByNumber("st-tiny-steps", "TS-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ItemCount)

	o2 := o
	o2.ID, o2.Number = "o-2", "TS-2"
	items2 := []domain.OrderItem{
		{ProductID: "tiny-steps-rattle", Name: "Wooden Rattle", Qty: 1, UnitPrice: decimal.RequireFromString("12")},
		{ProductID: "tiny-steps-stroller", Name: "City Stroller", Qty: 1, UnitPrice: decimal.RequireFromString("349")},
	}
	err = orders.Place(o2, items2, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	stock, err = inv.Stock("tiny-steps-rattle")
	require.NoError(t, err)
	assert.Equal(t, 3, stock, "rolled back")
	_, err = orders.ByNumber("st-tiny-steps", "TS-2")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := orders.ListForCustomer("st-tiny-steps", "", "sid")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, orders.UpdateStatus("st-tiny-steps", "o-1", "shipped"))
	stats, err := orders.Stats("st-tiny-steps")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Orders)
	assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(24)))
	assert.Equal(t, 0, stats.Pending)
}

func TestNewsletterSubscribeIsIdempotent(t *testing.T) {
	db := openTest(t)
	n := NewNewsletterRepo(db)

	created, err := n.Subscribe("st-lumiere", "A@B.co")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = n.Subscribe("st-lumiere", "a@b.co")
	require.NoError(t, err)
	assert.False(t, created)
	created, err = n.Subscribe("st-maison", "a@b.co")
	require.NoError(t, err)
	assert.True(t, created)

	count, err := n.Count("st-lumiere")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUsersSessionsAndResetTokens(t *testing.T) {
	db := openTest(t)
	users := NewUserRepo(db)

	u, err := users.ByEmail("ADMIN@shopfront.test")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", u.Role)

	require.ErrorIs(t, users.Create(domain.User{ID: "x", Email: "admin@shopfront.test", Role: "USER"}), ErrEmailTaken)

	require.NoError(t, users.BindSession("sid", u.ID))
	su, err := users.SessionUser("sid")
	require.NoError(t, err)
	assert.Equal(t, u.ID, su.ID)
	require.NoError(t, users.UnbindSession("sid"))
	_, err = users.SessionUser("sid")
	assert.ErrorIs(t, err, ErrNotFound)

	ts := time.Now()
	require.NoError(t, users.SaveResetToken("h1", u.ID, Timestamp(ts.Add(time.Hour))))
	require.NoError(t, users.SaveResetToken("h2", u.ID, Timestamp(ts.Add(-time.Minute))))

	id, err := users.ConsumeResetToken("h1", Timestamp(ts))
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	_, err = users.ConsumeResetToken("h1", Timestamp(ts))
	assert.ErrorIs(t, err, ErrNotFound, "single use")
	_, err = users.ConsumeResetToken("h2", Timestamp(ts))
	assert.ErrorIs(t, err, ErrNotFound, "expired")
}

func TestInventory(t *testing.T) {
	db := openTest(t)
	inv := NewInventoryRepo(db)

	low, err := inv.LowStock("st-tiny-steps", 5, 10)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "tiny-steps-stroller", low[0].ProductID)

	require.NoError(t, inv.SetStock("st-tiny-steps", "tiny-steps-stroller", 4))
	assert.ErrorIs(t, inv.SetStock("st-maison", "tiny-steps-stroller", 4), ErrNotFound)
	assert.Error(t, inv.SetStock("st-tiny-steps", "tiny-steps-stroller", -1))
}

func TestBlog(t *testing.T) {
	db := openTest(t)
	blog := NewBlogRepo(db)

	page, err := blog.List("st-maison", 1, 1, "/s/maison/blog")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Data, 1)

	p, err := blog.BySlug("st-maison", "welcome-to-maison-noir")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Maison Noir", p.Title)
}
