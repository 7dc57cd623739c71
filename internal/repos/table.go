package repos

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Table is CRUD over one store-scoped table whose rows map onto T by db tag.
// Every statement filters by store_id, so one store can never read or change
// another store's rows through it.
type Table[T any] struct {
	db     *sqlx.DB
	name   string
	cols   []string // writable columns, id and store_id included
	search []string // columns matched by ?q=
	order  string
	extra  string // additional select expressions
	join   string
}

func (t *Table[T]) selectSQL() string {
	cols := make([]string, len(t.cols))
	for i, c := range t.cols {
		cols[i] = "t." + c
	}
	sel := strings.Join(cols, ", ")
	if t.extra != "" {
		sel += ", " + t.extra
	}
	return "SELECT " + sel + " FROM " + t.name + " t " + t.join
}

func (t *Table[T]) where(storeID, q string) (string, []any) {
	w := " WHERE t.store_id = ?"
	args := []any{storeID}
	q = strings.ToLower(strings.TrimSpace(q))
	if q != "" && len(t.search) > 0 {
		ors := make([]string, len(t.search))
		for i, c := range t.search {
			ors[i] = "LOWER(t." + c + ") LIKE ?"
			args = append(args, "%"+q+"%")
		}
		w += " AND (" + strings.Join(ors, " OR ") + ")"
	}
	return w, args
}

// List returns one page of rows matching q.
func (t *Table[T]) List(storeID, q string, page, per int, base string) (Page[T], error) {
	page, per = Clamp(page, per)
	where, args := t.where(storeID, q)

	var total int
	if err := t.db.Get(&total, t.db.Rebind("SELECT COUNT(*) FROM "+t.name+" t"+where), args...); err != nil {
		return Page[T]{}, fmt.Errorf("%s count: %w", t.name, err)
	}
	var rows []T
	query := t.selectSQL() + where + " ORDER BY " + t.order + " LIMIT ? OFFSET ?"
	if err := t.db.Select(&rows, t.db.Rebind(query), append(args, per, (page-1)*per)...); err != nil {
		return Page[T]{}, fmt.Errorf("%s list: %w", t.name, err)
	}
	qv := url.Values{}
	if q != "" {
		qv.Set("q", q)
	}
	return NewPage(rows, total, page, per, base, qv), nil
}

// All returns every row of the store, for export.
func (t *Table[T]) All(storeID string) ([]T, error) {
	var rows []T
	err := t.db.Select(&rows, t.db.Rebind(t.selectSQL()+" WHERE t.store_id = ? ORDER BY "+t.order), storeID)
	return rows, err
}

func (t *Table[T]) Get(storeID, id string) (T, error) {
	var v T
	err := t.db.Get(&v, t.db.Rebind(t.selectSQL()+" WHERE t.store_id = ? AND t.id = ?"), storeID, id)
	return v, notFound(err)
}

func (t *Table[T]) Insert(v T) error {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = ":" + c
	}
	_, err := t.db.NamedExec("INSERT INTO "+t.name+"("+strings.Join(t.cols, ",")+") VALUES("+strings.Join(names, ",")+")", v)
	return err
}

// Update writes every column but id, store_id and created_at.
func (t *Table[T]) Update(v T) error {
	var sets []string
	for _, c := range t.cols {
		if c == "id" || c == "store_id" || c == "created_at" {
			continue
		}
		sets = append(sets, c+" = :"+c)
	}
	res, err := t.db.NamedExec("UPDATE "+t.name+" SET "+strings.Join(sets, ", ")+" WHERE id = :id AND store_id = :store_id", v)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *Table[T]) Delete(storeID, id string) error {
	res, err := t.db.Exec(t.db.Rebind("DELETE FROM "+t.name+" WHERE store_id = ? AND id = ?"), storeID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
