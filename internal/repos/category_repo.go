package repos

import (
	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type CategoryRepo struct {
	Table[domain.Category]
}

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo {
	return &CategoryRepo{Table[domain.Category]{
		db:     db,
		name:   "categories",
		cols:   []string{"id", "store_id", "slug", "name", "parent_id", "position", "is_active", "created_at"},
		search: []string{"name", "slug"},
		order:  "t.position, t.name",
	}}
}

// Active lists the categories shown in the storefront navigation.
func (r *CategoryRepo) Active(storeID string) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, r.db.Rebind(r.selectSQL()+` WHERE t.store_id = ? AND t.is_active = TRUE ORDER BY t.position, t.name`), storeID)
	return out, err
}

func (r *CategoryRepo) BySlug(storeID, slug string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, r.db.Rebind(r.selectSQL()+` WHERE t.store_id = ? AND t.slug = ?`), storeID, slug)
	return c, notFound(err)
}
