package repos

import (
	"encoding/json"
	"strings"

	"github.com/jmoiron/sqlx"

	"shopfront/internal/content"
	"shopfront/internal/domain"
)

type StoreRepo struct{ db *sqlx.DB }

func NewStoreRepo(db *sqlx.DB) *StoreRepo { return &StoreRepo{db: db} }

const storeCols = `id, slug, name, theme, logo, email, phone, address, currency, socials_json, created_at`

func (r *StoreRepo) BySlug(slug string) (*domain.Store, error) {
	var s domain.Store
	err := r.db.Get(&s, r.db.Rebind(`SELECT `+storeCols+` FROM stores WHERE slug = ?`), strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *StoreRepo) ByID(id string) (*domain.Store, error) {
	var s domain.Store
	if err := r.db.Get(&s, r.db.Rebind(`SELECT `+storeCols+` FROM stores WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *StoreRepo) List() ([]domain.Store, error) {
	var out []domain.Store
	err := r.db.Select(&out, `SELECT `+storeCols+` FROM stores ORDER BY name`)
	return out, err
}

func (r *StoreRepo) UpdateTheme(storeID, theme string) error {
	res, err := r.db.Exec(r.db.Rebind(`UPDATE stores SET theme = ? WHERE id = ?`), theme, storeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Content returns every CMS section of the store. Rows whose payload is not a
// JSON object are skipped; readers treat missing sections as empty.
func (r *StoreRepo) Content(storeID string) (map[string]content.Payload, error) {
	var rows []struct {
		Section string `db:"section"`
		Payload string `db:"payload_json"`
	}
	if err := r.db.Select(&rows, r.db.Rebind(`SELECT section, payload_json FROM store_contents WHERE store_id = ?`), storeID); err != nil {
		return nil, err
	}
	out := make(map[string]content.Payload, len(rows))
	for _, row := range rows {
		var p content.Payload
		if json.Unmarshal([]byte(row.Payload), &p) == nil && p != nil {
			out[row.Section] = p
		}
	}
	return out, nil
}

func (r *StoreRepo) SaveContent(storeID, section string, payload content.Payload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(r.db.Rebind(`
		INSERT INTO store_contents(store_id, section, payload_json, updated_at) VALUES(?,?,?,?)
		ON CONFLICT(store_id, section) DO UPDATE SET payload_json = excluded.payload_json, updated_at = excluded.updated_at
	`), storeID, section, string(b), now())
	return err
}
