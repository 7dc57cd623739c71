package domain

type User struct {
	ID      string `db:"id"`
	StoreID string `db:"store_id"`
	Email   string `db:"email"`
	Name    string `db:"name"`
	Hash    string `db:"password_hash"`
	Role    string `db:"role"` // USER | STAFF | MANAGER | ADMIN
}

func (u *User) GetID() string {
	if u == nil {
		return ""
	}
	return u.ID
}

// IsBackOffice reports whether the user may enter /admin at all.
func (u *User) IsBackOffice() bool {
	return u != nil && u.Role != "" && u.Role != "USER"
}
