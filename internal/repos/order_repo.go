package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
)

type OrderRepo struct {
	Table[domain.Order]
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{Table[domain.Order]{
		db:   db,
		name: "orders",
		cols: []string{"id", "store_id", "session_id", "user_id", "number", "status", "total",
			"customer_name", "customer_email", "shipping_address", "created_at"},
		search: []string{"number", "customer_name", "customer_email", "status"},
		order:  "t.created_at DESC",
		extra:  "(SELECT COALESCE(SUM(oi.qty), 0) FROM order_items oi WHERE oi.order_id = t.id) AS item_count",
	}}
}

// Place writes the order and its items, takes the units out of stock and
// empties the cart, all in one transaction. Nothing is written if any
// product lacks stock.
func (r *OrderRepo) Place(o domain.Order, items []domain.OrderItem, cartID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range items {
		if err := decrement(tx, it.ProductID, it.Qty); err != nil {
			return err
		}
	}
	if _, err := tx.NamedExec(`
		INSERT INTO orders(id, store_id, session_id, user_id, number, status, total, customer_name, customer_email, shipping_address, created_at)
		VALUES(:id, :store_id, :session_id, :user_id, :number, :status, :total, :customer_name, :customer_email, :shipping_address, :created_at)
	`, o); err != nil {
		return err
	}
	for _, it := range items {
		it.OrderID = o.ID
		if it.Options == nil {
			it.Options = domain.Options{}
		}
		if _, err := tx.NamedExec(`
			INSERT INTO order_items(order_id, product_id, name, options_json, qty, unit_price)
			VALUES(:order_id, :product_id, :name, :options_json, :qty, :unit_price)
		`, it); err != nil {
			return err
		}
	}
	if cartID != "" {
		if _, err := tx.Exec(tx.Rebind(`DELETE FROM cart_items WHERE cart_id = ?`), cartID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Items(orderID string) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := r.db.Select(&out, r.db.Rebind(`
		SELECT order_id, product_id, name, options_json, qty, unit_price
		FROM order_items WHERE order_id = ? ORDER BY name`), orderID)
	return out, err
}

// ByNumber loads an order of the store by its public number.
func (r *OrderRepo) ByNumber(storeID, number string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, r.db.Rebind(r.selectSQL()+` WHERE t.store_id = ? AND t.number = ?`), storeID, number)
	return o, notFound(err)
}

// ListForCustomer returns the store's orders placed by the user, or in the
// session when no user is signed in.
func (r *OrderRepo) ListForCustomer(storeID, userID, sessionID string) ([]domain.Order, error) {
	out := []domain.Order{}
	var err error
	if userID != "" {
		err = r.db.Select(&out, r.db.Rebind(r.selectSQL()+` WHERE t.store_id = ? AND t.user_id = ? ORDER BY t.created_at DESC`), storeID, userID)
	} else {
		err = r.db.Select(&out, r.db.Rebind(r.selectSQL()+` WHERE t.store_id = ? AND t.session_id = ? ORDER BY t.created_at DESC`), storeID, sessionID)
	}
	return out, err
}

func (r *OrderRepo) UpdateStatus(storeID, id, status string) error {
	res, err := r.db.Exec(r.db.Rebind(`UPDATE orders SET status = ? WHERE store_id = ? AND id = ?`), status, storeID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats summarizes the store's orders for the admin dashboard.
type Stats struct {
	Orders  int             `db:"orders"`
	Revenue decimal.Decimal `db:"revenue"`
	Pending int             `db:"pending"`
}

func (r *OrderRepo) Stats(storeID string) (Stats, error) {
	var s Stats
	err := r.db.Get(&s, r.db.Rebind(`
		SELECT COUNT(*) AS orders,
		       COALESCE(SUM(total), 0) AS revenue,
		       COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending
		FROM orders WHERE store_id = ? AND status <> 'cancelled'`), storeID)
	return s, err
}
