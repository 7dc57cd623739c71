package repos

import (
	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type ShippingRepo struct{ Table[domain.ShippingMethod] }

func NewShippingRepo(db *sqlx.DB) *ShippingRepo {
	return &ShippingRepo{Table[domain.ShippingMethod]{
		db: db, name: "shipping_methods",
		cols:   []string{"id", "store_id", "name", "description", "price", "min_order", "is_active"},
		search: []string{"name", "description"},
		order:  "t.price, t.name",
	}}
}

// Active lists the methods offered at checkout.
func (r *ShippingRepo) Active(storeID string) ([]domain.ShippingMethod, error) {
	var out []domain.ShippingMethod
	err := r.db.Select(&out, r.db.Rebind(r.selectSQL()+` WHERE t.store_id = ? AND t.is_active = TRUE ORDER BY `+r.order), storeID)
	return out, err
}

type TaxRepo struct{ Table[domain.TaxRate] }

func NewTaxRepo(db *sqlx.DB) *TaxRepo {
	return &TaxRepo{Table[domain.TaxRate]{
		db: db, name: "tax_rates",
		cols:   []string{"id", "store_id", "name", "country", "region", "rate", "is_active"},
		search: []string{"name", "country", "region"},
		order:  "t.country, t.region, t.name",
	}}
}

type ReviewRepo struct{ Table[domain.Review] }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo {
	return &ReviewRepo{Table[domain.Review]{
		db: db, name: "reviews",
		cols:   []string{"id", "store_id", "product_id", "author", "rating", "body", "status", "created_at"},
		search: []string{"author", "body", "status"},
		order:  "t.created_at DESC",
		extra:  "COALESCE(p.name, '') AS product_name",
		join:   "LEFT JOIN products p ON p.id = t.product_id",
	}}
}

func (r *ReviewRepo) SetStatus(storeID, id, status string) error {
	res, err := r.db.Exec(r.db.Rebind(`UPDATE reviews SET status = ? WHERE store_id = ? AND id = ?`), status, storeID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Approved lists the published reviews of a product.
func (r *ReviewRepo) Approved(storeID, productID string) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.Select(&out, r.db.Rebind(r.selectSQL()+` WHERE t.store_id = ? AND t.product_id = ? AND t.status = 'approved' ORDER BY t.created_at DESC`),
		storeID, productID)
	return out, err
}

type TemplateRepo struct {
	Table[domain.NotificationTemplate]
}

func NewTemplateRepo(db *sqlx.DB) *TemplateRepo {
	return &TemplateRepo{Table[domain.NotificationTemplate]{
		db: db, name: "notification_templates",
		cols:   []string{"id", "store_id", "template_key", "subject", "body", "is_active"},
		search: []string{"template_key", "subject"},
		order:  "t.template_key",
	}}
}

func (r *TemplateRepo) ByKey(storeID, key string) (domain.NotificationTemplate, error) {
	var t domain.NotificationTemplate
	err := r.db.Get(&t, r.db.Rebind(r.selectSQL()+` WHERE t.store_id = ? AND t.template_key = ?`), storeID, key)
	return t, notFound(err)
}

type POSRepo struct{ Table[domain.POSTransaction] }

func NewPOSRepo(db *sqlx.DB) *POSRepo {
	return &POSRepo{Table[domain.POSTransaction]{
		db: db, name: "pos_transactions",
		cols:   []string{"id", "store_id", "register", "cashier", "total", "payment_method", "items_count", "created_at"},
		search: []string{"register", "cashier", "payment_method"},
		order:  "t.created_at DESC",
	}}
}
