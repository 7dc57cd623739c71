package repos

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"shopfront/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrEmailTaken is returned by Create for an address already registered.
var ErrEmailTaken = errors.New("email already registered")

const userCols = `id, store_id, email, name, password_hash, role`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE LOWER(email) = LOWER(?)`), strings.TrimSpace(email))
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	if err := r.DB.Get(&u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) Create(u domain.User) error {
	if _, err := r.ByEmail(u.Email); err == nil {
		return ErrEmailTaken
	}
	_, err := r.DB.Exec(r.DB.Rebind(`INSERT INTO users(id, store_id, email, name, password_hash, role, created_at) VALUES(?,?,?,?,?,?,?)`),
		u.ID, u.StoreID, strings.TrimSpace(u.Email), u.Name, u.Hash, u.Role, now())
	return err
}

func (r *UserRepo) SetPassword(userID, hash string) error {
	_, err := r.DB.Exec(r.DB.Rebind(`UPDATE users SET password_hash = ? WHERE id = ?`), hash, userID)
	return err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	ts := now()
	_, err := r.DB.Exec(r.DB.Rebind(`
		INSERT INTO sessions(id, user_id, created_at, last_seen) VALUES(?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, last_seen = excluded.last_seen
	`), sid, userID, ts, ts)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, r.DB.Rebind(`
		SELECT u.id, u.store_id, u.email, u.name, u.password_hash, u.role
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?`), sid)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(r.DB.Rebind(`UPDATE sessions SET user_id = NULL, last_seen = ? WHERE id = ?`), now(), sid)
	return err
}

// SaveResetToken stores the hash of a password reset token.
func (r *UserRepo) SaveResetToken(tokenHash, userID, expiresAt string) error {
	_, err := r.DB.Exec(r.DB.Rebind(`INSERT INTO password_resets(token_hash, user_id, expires_at, used) VALUES(?,?,?,?)`),
		tokenHash, userID, expiresAt, false)
	return err
}

// ConsumeResetToken marks an unused, unexpired token as used and returns its
// user. A token works once.
func (r *UserRepo) ConsumeResetToken(tokenHash, nowTS string) (string, error) {
	tx, err := r.DB.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var userID string
	err = tx.Get(&userID, tx.Rebind(`SELECT user_id FROM password_resets WHERE token_hash = ? AND used = FALSE AND expires_at > ?`), tokenHash, nowTS)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err := tx.Exec(tx.Rebind(`UPDATE password_resets SET used = TRUE WHERE token_hash = ?`), tokenHash); err != nil {
		return "", err
	}
	return userID, tx.Commit()
}
