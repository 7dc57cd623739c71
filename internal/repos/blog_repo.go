package repos

import (
	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type BlogRepo struct{ db *sqlx.DB }

func NewBlogRepo(db *sqlx.DB) *BlogRepo { return &BlogRepo{db: db} }

const blogCols = `id, store_id, title, slug, excerpt, body, featured_image, author, category, published_at`

func (r *BlogRepo) List(storeID string, page, per int, base string) (Page[domain.BlogPost], error) {
	page, per = Clamp(page, per)
	var total int
	if err := r.db.Get(&total, r.db.Rebind(`SELECT COUNT(*) FROM blog_posts WHERE store_id = ?`), storeID); err != nil {
		return Page[domain.BlogPost]{}, err
	}
	var rows []domain.BlogPost
	if err := r.db.Select(&rows, r.db.Rebind(`SELECT `+blogCols+` FROM blog_posts WHERE store_id = ?
		ORDER BY published_at DESC, title LIMIT ? OFFSET ?`), storeID, per, (page-1)*per); err != nil {
		return Page[domain.BlogPost]{}, err
	}
	return NewPage(rows, total, page, per, base, nil), nil
}

func (r *BlogRepo) BySlug(storeID, slug string) (domain.BlogPost, error) {
	var p domain.BlogPost
	err := r.db.Get(&p, r.db.Rebind(`SELECT `+blogCols+` FROM blog_posts WHERE store_id = ? AND slug = ?`), storeID, slug)
	return p, notFound(err)
}

func (r *BlogRepo) Recent(storeID string, limit int) ([]domain.BlogPost, error) {
	var rows []domain.BlogPost
	err := r.db.Select(&rows, r.db.Rebind(`SELECT `+blogCols+` FROM blog_posts WHERE store_id = ?
		ORDER BY published_at DESC, title LIMIT ?`), storeID, limit)
	return rows, err
}
