package repos

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Ensure returns the cart of (store, session), creating it on first use.
func (r *CartRepo) Ensure(storeID, sessionID string) (string, error) {
	ts := now()
	if _, err := r.db.Exec(r.db.Rebind(`
		INSERT INTO carts(id, store_id, session_id, updated_at) VALUES(?,?,?,?)
		ON CONFLICT(store_id, session_id) DO NOTHING
	`), uuid.NewString(), storeID, sessionID, ts); err != nil {
		return "", err
	}
	var id string
	err := r.db.Get(&id, r.db.Rebind(`SELECT id FROM carts WHERE store_id = ? AND session_id = ?`), storeID, sessionID)
	return id, err
}

// LineQty returns the quantity already in the cart for one line, 0 if none.
func (r *CartRepo) LineQty(cartID, productID, optionsKey string) (int, error) {
	var qty int
	err := r.db.Get(&qty, r.db.Rebind(`SELECT qty FROM cart_items WHERE cart_id = ? AND product_id = ? AND options_key = ?`),
		cartID, productID, optionsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return qty, err
}

// ProductQty sums the quantity of a product over every line of the cart.
func (r *CartRepo) ProductQty(cartID, productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, r.db.Rebind(`SELECT COALESCE(SUM(qty), 0) FROM cart_items WHERE cart_id = ? AND product_id = ?`),
		cartID, productID)
	return qty, err
}

// Upsert adds qty to the line with the same product and options, creating it
// if needed. The unit price is refreshed to the current price.
func (r *CartRepo) Upsert(cartID, productID string, opts domain.Options, qty int, price decimal.Decimal) error {
	if opts == nil {
		opts = domain.Options{}
	}
	ts := now()
	_, err := r.db.Exec(r.db.Rebind(`
		INSERT INTO cart_items(cart_id, product_id, options_key, options_json, qty, unit_price, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?,?)
		ON CONFLICT(cart_id, product_id, options_key) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, unit_price = excluded.unit_price, updated_at = excluded.updated_at
	`), cartID, productID, opts.Key(), opts, qty, price, ts, ts)
	if err != nil {
		return err
	}
	return r.touch(cartID, ts)
}

// SetQty sets a line's quantity; zero or less removes the line.
func (r *CartRepo) SetQty(cartID, productID, optionsKey string, qty int) error {
	var err error
	if qty <= 0 {
		_, err = r.db.Exec(r.db.Rebind(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ? AND options_key = ?`),
			cartID, productID, optionsKey)
	} else {
		_, err = r.db.Exec(r.db.Rebind(`UPDATE cart_items SET qty = ?, updated_at = ? WHERE cart_id = ? AND product_id = ? AND options_key = ?`),
			qty, now(), cartID, productID, optionsKey)
	}
	if err != nil {
		return err
	}
	return r.touch(cartID, now())
}

func (r *CartRepo) touch(cartID, ts string) error {
	_, err := r.db.Exec(r.db.Rebind(`UPDATE carts SET updated_at = ? WHERE id = ?`), ts, cartID)
	return err
}

// Items lists the lines of the (store, session) cart; no cart means no lines.
func (r *CartRepo) Items(storeID, sessionID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT ci.product_id, p.name, p.cover_image, ci.options_json, ci.options_key, ci.qty, ci.unit_price
		FROM carts c
		JOIN cart_items ci ON ci.cart_id = c.id
		JOIN products p ON p.id = ci.product_id
		WHERE c.store_id = ? AND c.session_id = ?
		ORDER BY ci.created_at, p.name
	`), storeID, sessionID)
	return out, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(r.db.Rebind(`DELETE FROM cart_items WHERE cart_id = ?`), cartID)
	return err
}

// MergeForLogin folds carts the user left in other sessions into this
// session's carts, store by store, and marks this session's carts as theirs.
func (r *CartRepo) MergeForLogin(userID, sid string) ([]string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	type cartRow struct {
		ID      string `db:"id"`
		StoreID string `db:"store_id"`
	}
	var old []cartRow
	if err := tx.Select(&old, tx.Rebind(`SELECT id, store_id FROM carts WHERE user_id = ? AND session_id <> ?`), userID, sid); err != nil {
		return nil, err
	}

	ts := now()
	var touched []string
	for _, oc := range old {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO carts(id, store_id, session_id, user_id, updated_at) VALUES(?,?,?,?,?)
			ON CONFLICT(store_id, session_id) DO NOTHING
		`), uuid.NewString(), oc.StoreID, sid, userID, ts); err != nil {
			return nil, err
		}
		var cur string
		if err := tx.Get(&cur, tx.Rebind(`SELECT id FROM carts WHERE store_id = ? AND session_id = ?`), oc.StoreID, sid); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO cart_items(cart_id, product_id, options_key, options_json, qty, unit_price, created_at, updated_at)
			SELECT ?, product_id, options_key, options_json, qty, unit_price, created_at, ?
			FROM cart_items WHERE cart_id = ?
			ON CONFLICT(cart_id, product_id, options_key) DO UPDATE
			SET qty = cart_items.qty + excluded.qty, updated_at = excluded.updated_at
		`), cur, ts, oc.ID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(tx.Rebind(`DELETE FROM carts WHERE id = ?`), oc.ID); err != nil {
			return nil, err
		}
		touched = append(touched, oc.StoreID)
	}
	if _, err := tx.Exec(tx.Rebind(`UPDATE carts SET user_id = ?, updated_at = ? WHERE session_id = ?`), userID, ts, sid); err != nil {
		return nil, err
	}
	return touched, tx.Commit()
}
