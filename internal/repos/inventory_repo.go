package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// LowStockRow is used by the admin dashboard.
type LowStockRow struct {
	ProductID string `db:"id"`
	Name      string `db:"name"`
	Stock     int    `db:"stock"`
}

// Stock returns the units on hand for a product.
func (r *InventoryRepo) Stock(productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, r.db.Rebind(`SELECT stock FROM products WHERE id = ?`), productID)
	return qty, notFound(err)
}

// LowStock lists active products at or below threshold, emptiest first.
func (r *InventoryRepo) LowStock(storeID string, threshold, limit int) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.Select(&rows, r.db.Rebind(`
		SELECT id, name, stock FROM products
		WHERE store_id = ? AND is_active = TRUE AND stock <= ?
		ORDER BY stock, name
		LIMIT ?`), storeID, threshold, limit)
	return rows, err
}

// SetStock overwrites the stock level of one of the store's products.
func (r *InventoryRepo) SetStock(storeID, productID string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("stock must be >= 0")
	}
	res, err := r.db.Exec(r.db.Rebind(`UPDATE products SET stock = ? WHERE store_id = ? AND id = ?`), qty, storeID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ErrInsufficientStock is returned by decrement when fewer units remain.
var ErrInsufficientStock = fmt.Errorf("insufficient stock")

// decrement subtracts by units inside tx only if enough stock exists.
func decrement(tx *sqlx.Tx, productID string, by int) error {
	res, err := tx.Exec(tx.Rebind(`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`), by, productID, by)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w for %s", ErrInsufficientStock, productID)
	}
	return nil
}
