package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Ensure(storeID, sessionID string) (string, error) {
	if _, err := r.db.Exec(r.db.Rebind(`
		INSERT INTO wishlists(id, store_id, session_id, updated_at) VALUES(?,?,?,?)
		ON CONFLICT(store_id, session_id) DO NOTHING
	`), uuid.NewString(), storeID, sessionID, now()); err != nil {
		return "", err
	}
	var id string
	err := r.db.Get(&id, r.db.Rebind(`SELECT id FROM wishlists WHERE store_id = ? AND session_id = ?`), storeID, sessionID)
	return id, err
}

func (r *WishlistRepo) Has(wishlistID, productID string) (bool, error) {
	var n int
	err := r.db.Get(&n, r.db.Rebind(`SELECT COUNT(*) FROM wishlist_items WHERE wishlist_id = ? AND product_id = ?`), wishlistID, productID)
	return n > 0, err
}

func (r *WishlistRepo) Add(wishlistID, productID string) error {
	_, err := r.db.Exec(r.db.Rebind(`
		INSERT INTO wishlist_items(wishlist_id, product_id, created_at) VALUES(?,?,?)
		ON CONFLICT(wishlist_id, product_id) DO NOTHING
	`), wishlistID, productID, now())
	return err
}

func (r *WishlistRepo) Remove(wishlistID, productID string) error {
	_, err := r.db.Exec(r.db.Rebind(`DELETE FROM wishlist_items WHERE wishlist_id = ? AND product_id = ?`), wishlistID, productID)
	return err
}

// Items lists the saved products of the (store, session) wishlist.
func (r *WishlistRepo) Items(storeID, sessionID string) ([]domain.WishlistItem, error) {
	out := []domain.WishlistItem{}
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT p.id AS product_id, p.name, p.cover_image, p.price, p.is_active
		FROM wishlists w
		JOIN wishlist_items wi ON wi.wishlist_id = w.id
		JOIN products p ON p.id = wi.product_id
		WHERE w.store_id = ? AND w.session_id = ?
		ORDER BY wi.created_at, p.name
	`), storeID, sessionID)
	return out, err
}
