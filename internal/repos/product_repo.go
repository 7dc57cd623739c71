package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type ProductRepo struct {
	Table[domain.Product]
}

func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{Table[domain.Product]{
		db:   db,
		name: "products",
		cols: []string{"id", "store_id", "category_id", "name", "slug", "description", "price", "sale_price",
			"stock", "is_active", "variants_json", "cover_image", "created_at"},
		search: []string{"name", "slug", "description"},
		order:  "t.created_at DESC, t.name",
	}}
}

// ByID loads a product of any store; callers compare StoreID themselves.
func (r *ProductRepo) ByID(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, r.db.Rebind(r.selectSQL()+` WHERE t.id = ?`), id)
	return p, notFound(err)
}

func (r *ProductRepo) BySlug(storeID, slug string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, r.db.Rebind(r.selectSQL()+` WHERE t.store_id = ? AND t.slug = ? AND t.is_active = TRUE`), storeID, slug)
	return p, notFound(err)
}

func (r *ProductRepo) Latest(storeID string, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, r.db.Rebind(r.selectSQL()+`
		WHERE t.store_id = ? AND t.is_active = TRUE
		ORDER BY t.created_at DESC, t.name
		LIMIT ?`), storeID, limit)
	return out, err
}

func (r *ProductRepo) ListByCategory(storeID, categoryID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, r.db.Rebind(r.selectSQL()+`
		WHERE t.store_id = ? AND t.category_id = ? AND t.is_active = TRUE
		ORDER BY t.name
		LIMIT ? OFFSET ?`), storeID, categoryID, limit, offset)
	return out, err
}

// Search matches active products by name or description.
func (r *ProductRepo) Search(storeID, q string, limit, offset int) ([]domain.Product, error) {
	like := "%" + strings.ToLower(q) + "%"
	var out []domain.Product
	err := r.db.Select(&out, r.db.Rebind(r.selectSQL()+`
		WHERE t.store_id = ? AND t.is_active = TRUE
		  AND (LOWER(t.name) LIKE ? OR LOWER(t.description) LIKE ?)
		ORDER BY t.name
		LIMIT ? OFFSET ?`), storeID, like, like, limit, offset)
	return out, err
}

// ByIDs returns the store's products among ids, in no particular order.
func (r *ProductRepo) ByIDs(storeID string, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(r.selectSQL()+` WHERE t.store_id = ? AND t.id IN (?)`, storeID, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	err = r.db.Select(&out, r.db.Rebind(q), args...)
	return out, err
}
