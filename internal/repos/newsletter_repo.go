package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

type NewsletterRepo struct{ db *sqlx.DB }

func NewNewsletterRepo(db *sqlx.DB) *NewsletterRepo { return &NewsletterRepo{db: db} }

// Subscribe records (store, email) and reports whether it was new.
func (r *NewsletterRepo) Subscribe(storeID, email string) (bool, error) {
	res, err := r.db.Exec(r.db.Rebind(`
		INSERT INTO newsletter_subscribers(store_id, email, created_at) VALUES(?,?,?)
		ON CONFLICT(store_id, email) DO NOTHING
	`), storeID, strings.ToLower(email), now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *NewsletterRepo) Count(storeID string) (int, error) {
	var n int
	err := r.db.Get(&n, r.db.Rebind(`SELECT COUNT(*) FROM newsletter_subscribers WHERE store_id = ?`), storeID)
	return n, err
}
