package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"shopfront/internal/cache"
	"shopfront/internal/domain"
	"shopfront/internal/events"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
)

var (
	ErrProductUnavailable = errors.New("product is not available")
	ErrInvalidOptions     = errors.New("invalid product options")
	ErrOutOfStock         = errors.New("not enough stock")
	ErrToggleInFlight     = errors.New("wishlist update already in progress")
)

// CartStore is the part of repos.CartRepo the commerce state needs.
type CartStore interface {
	Ensure(storeID, sessionID string) (string, error)
	LineQty(cartID, productID, optionsKey string) (int, error)
	ProductQty(cartID, productID string) (int, error)
	Upsert(cartID, productID string, opts domain.Options, qty int, price decimal.Decimal) error
	SetQty(cartID, productID, optionsKey string, qty int) error
	Items(storeID, sessionID string) ([]domain.CartItem, error)
}

// WishlistStore is the part of repos.WishlistRepo the commerce state needs.
type WishlistStore interface {
	Ensure(storeID, sessionID string) (string, error)
	Has(wishlistID, productID string) (bool, error)
	Add(wishlistID, productID string) error
	Remove(wishlistID, productID string) error
	Items(storeID, sessionID string) ([]domain.WishlistItem, error)
}

type ProductLookup interface {
	ByID(id string) (domain.Product, error)
}

// Snapshot is what every page and the JSON API read about a visitor's
// cart and wishlist. Count is the sum of line quantities.
type Snapshot struct {
	Items    []domain.CartItem `json:"items"`
	Count    int               `json:"count"`
	Total    decimal.Decimal   `json:"total"`
	Wishlist []string          `json:"wishlist"`
}

// InWishlist reports whether productID is saved.
func (s Snapshot) InWishlist(productID string) bool {
	for _, id := range s.Wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// CommerceService owns the cart and wishlist of a (store, session). It is
// the only writer of both; every mutation drops the cached snapshot.
type CommerceService struct {
	Carts     CartStore
	Wishlists WishlistStore
	Products  ProductLookup
	Cache     cache.Cache
	Events    events.Publisher
	TTL       time.Duration

	toggles sync.Map
}

func NewCommerceService(carts CartStore, wishlists WishlistStore, products ProductLookup, c cache.Cache, pub events.Publisher) *CommerceService {
	if c == nil {
		c = cache.NewMemory()
	}
	if pub == nil {
		pub = events.Log{}
	}
	return &CommerceService{Carts: carts, Wishlists: wishlists, Products: products, Cache: c, Events: pub, TTL: 10 * time.Minute}
}

func generationKey(storeID, sid string) string { return "snapgen:" + storeID + ":" + sid }

func snapshotKey(storeID, sid string, gen int64) string {
	return "snap:" + storeID + ":" + sid + ":" + strconv.FormatInt(gen, 10)
}

// generationTTL outlives any snapshot, so an expired counter never brings
// back a cached snapshot from an earlier generation.
const generationTTL = 24 * time.Hour

// Snapshot returns the cached state, rebuilding it from storage on a miss.
// Snapshots are cached under the generation read before the rebuild; a
// mutation bumps the generation, so a rebuild that raced with it is never
// served.
func (s *CommerceService) Snapshot(ctx context.Context, storeID, sid string) (Snapshot, error) {
	gen, err := cache.Generation(ctx, s.Cache, generationKey(storeID, sid))
	if err != nil {
		applog.Error(nil, "commerce.cache.generation", err, map[string]any{"store_id": storeID})
		return s.build(storeID, sid)
	}
	var snap Snapshot
	key := snapshotKey(storeID, sid, gen)
	err = cache.GetJSON(ctx, s.Cache, key, &snap)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		applog.Error(nil, "commerce.cache.get", err, map[string]any{"store_id": storeID})
	}

	snap, err = s.build(storeID, sid)
	if err != nil {
		return Snapshot{}, err
	}
	if err := cache.SetJSON(ctx, s.Cache, key, snap, s.TTL); err != nil {
		applog.Error(nil, "commerce.cache.set", err, map[string]any{"store_id": storeID})
	}
	return snap, nil
}

func (s *CommerceService) build(storeID, sid string) (Snapshot, error) {
	items, err := s.Carts.Items(storeID, sid)
	if err != nil {
		return Snapshot{}, err
	}
	saved, err := s.Wishlists.Items(storeID, sid)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Items: items, Total: decimal.Zero, Wishlist: make([]string, 0, len(saved))}
	if snap.Items == nil {
		snap.Items = []domain.CartItem{}
	}
	for _, it := range items {
		snap.Count += it.Qty
		snap.Total = snap.Total.Add(it.Subtotal())
	}
	for _, w := range saved {
		snap.Wishlist = append(snap.Wishlist, w.ProductID)
	}
	return snap, nil
}

// Invalidate moves (store, session) to a new generation. It must run after
// the mutation is stored.
func (s *CommerceService) Invalidate(ctx context.Context, storeID, sid string) {
	gen, err := s.Cache.Incr(ctx, generationKey(storeID, sid), generationTTL)
	if err != nil {
		applog.Error(nil, "commerce.cache.incr", err, map[string]any{"store_id": storeID})
		return
	}
	if err := s.Cache.Delete(ctx, snapshotKey(storeID, sid, gen-1)); err != nil {
		applog.Error(nil, "commerce.cache.delete", err, map[string]any{"store_id": storeID})
	}
}

// storeProduct loads a product and checks it belongs to the store.
func (s *CommerceService) storeProduct(storeID, productID string) (domain.Product, error) {
	p, err := s.Products.ByID(productID)
	if errors.Is(err, repos.ErrNotFound) || (err == nil && p.StoreID != storeID) {
		return domain.Product{}, ErrProductUnavailable
	}
	return p, err
}

// publish emits a domain event; delivery failures are logged only.
func publish(ctx context.Context, pub events.Publisher, typ, storeID string, data map[string]any) {
	if pub == nil {
		return
	}
	e := events.Event{Type: typ, StoreID: storeID, At: time.Now().UTC(), Data: data}
	if err := pub.Publish(ctx, e); err != nil {
		applog.Error(nil, "event.publish", err, map[string]any{"type": typ})
	}
}
