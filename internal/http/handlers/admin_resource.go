package handlers

import (
	"encoding/csv"
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/routes"
	"shopfront/internal/validate"
)

var (
	formDecoder = func() *schema.Decoder {
		d := schema.NewDecoder()
		d.IgnoreUnknownKeys(true)
		d.ZeroEmpty(true)
		return d
	}()
	formEncoder = schema.NewEncoder()
)

// crudStore is the store-scoped CRUD surface of repos.Table.
type crudStore[T any] interface {
	List(storeID, q string, page, per int, base string) (repos.Page[T], error)
	All(storeID string) ([]T, error)
	Get(storeID, id string) (T, error)
	Insert(v T) error
	Update(v T) error
	Delete(storeID, id string) error
}

// Column is one list, detail and CSV column.
type Column[T any] struct {
	Label string
	Cell  func(s *domain.Store, v T) string
}

type Option struct {
	Value string
	Label string
}

// Field is one input of the generic admin form. Name is the schema tag of
// the form struct field it fills.
type Field struct {
	Name    string
	Label   string
	Type    string // text, textarea, number, checkbox, select, file
	Options []Option
	Choices func(storeID string) []Option
	Help    string
}

type fieldView struct {
	Field
	Value   string
	Checked bool
}

type rowView struct {
	ID    string
	Label string
	Cells []string
}

// AdminResource is what the router mounts for each back office resource.
type AdminResource interface {
	ResourceName() string
	Handler(action string) fiber.Handler
}

// Resource is the admin CRUD of one table. F is the form struct decoded
// from the request with gorilla/schema; Apply validates it onto a row.
type Resource[T, F any] struct {
	Name      string
	Title     string
	Repo      crudStore[T]
	Columns   []Column[T]
	Fields    []Field
	Creatable bool

	ID     func(T) string
	Label  func(T) string
	New    func(storeID string) T
	ToForm func(T) F
	Apply  func(F, *T) error

	// optional
	BeforeSave func(c *fiber.Ctx, v *T) error
	Extra      func(c *fiber.Ctx, s *domain.Store, v T) fiber.Map
}

// errInvalid marks Apply errors whose message is shown on the form.
type errInvalid struct{ msg string }

func (e errInvalid) Error() string { return e.msg }

func invalidf(msg string) error { return errInvalid{msg: msg} }

func (r *Resource[T, F]) ResourceName() string { return r.Name }

func (r *Resource[T, F]) Handler(action string) fiber.Handler {
	switch action {
	case "index":
		return r.Index
	case "export":
		return r.Export
	case "create":
		return r.Create
	case "store":
		return r.Store
	case "show":
		return r.Show
	case "edit":
		return r.Edit
	case "update":
		return r.Update
	case "delete":
		return r.Delete
	case "destroy":
		return r.Destroy
	}
	return nil
}

func (r *Resource[T, F]) row(s *domain.Store, v T) rowView {
	cells := make([]string, len(r.Columns))
	for i, col := range r.Columns {
		cells[i] = col.Cell(s, v)
	}
	return rowView{ID: r.ID(v), Label: r.Label(v), Cells: cells}
}

func (r *Resource[T, F]) headers() []string {
	out := make([]string, len(r.Columns))
	for i, col := range r.Columns {
		out[i] = col.Label
	}
	return out
}

func (r *Resource[T, F]) base(c *fiber.Ctx, data fiber.Map) fiber.Map {
	data["Resource"] = r.Name
	data["Title"] = r.Title
	data["Store"] = storeOf(c)
	data["Creatable"] = r.Creatable
	return data
}

func (r *Resource[T, F]) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": r.Title + " not found"})
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

// GET /admin/<r>?q=&page=
func (r *Resource[T, F]) Index(c *fiber.Ctx) error {
	s := storeOf(c)
	q := strings.TrimSpace(c.Query("q"))
	if len(q) > 60 {
		q = q[:60]
	}
	p, err := r.Repo.List(s.ID, q, validate.Page(c.Query("page")), repos.DefaultPerPage, routes.URL(r.Name+".index"))
	if err != nil {
		applog.Error(c, "admin."+r.Name+".list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load " + r.Title})
	}
	if wantsJSON(c) {
		return c.JSON(p)
	}
	rows := make([]rowView, len(p.Data))
	for i, v := range p.Data {
		rows[i] = r.row(s, v)
	}
	return render(c, "admin/index", r.base(c, fiber.Map{
		"Headers": r.headers(),
		"Rows":    rows,
		"Links":   p.Links,
		"From":    p.From,
		"To":      p.To,
		"Total":   p.Total,
		"Q":       q,
	}), adminLayout)
}

// GET /admin/<r>/export writes every row of the store as CSV.
func (r *Resource[T, F]) Export(c *fiber.Ctx) error {
	s := storeOf(c)
	rows, err := r.Repo.All(s.ID)
	if err != nil {
		applog.Error(c, "admin."+r.Name+".export.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("could not export")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+r.Name+`.csv"`)

	w := csv.NewWriter(c.Response().BodyWriter())
	_ = w.Write(append([]string{"id"}, r.headers()...))
	for _, v := range rows {
		row := r.row(s, v)
		record := make([]string, 0, len(row.Cells)+1)
		record = append(record, csvSafe(row.ID))
		for _, cell := range row.Cells {
			record = append(record, csvSafe(cell))
		}
		_ = w.Write(record)
	}
	w.Flush()
	applog.Audit(c, "admin."+r.Name+".export", map[string]any{"rows": len(rows)})
	return w.Error()
}

// csvSafe quotes a cell that a spreadsheet would read as a formula.
func csvSafe(cell string) string {
	if cell != "" && strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}

func (r *Resource[T, F]) fields(storeID string, values url.Values) []fieldView {
	out := make([]fieldView, len(r.Fields))
	for i, f := range r.Fields {
		if f.Choices != nil {
			f.Options = f.Choices(storeID)
		}
		// checkboxes post a hidden "false" before the box, so the last value wins
		var val string
		if vs := values[f.Name]; len(vs) > 0 {
			val = vs[len(vs)-1]
		}
		out[i] = fieldView{Field: f, Value: val, Checked: val == "true"}
	}
	return out
}

func encodeForm(form any) url.Values {
	values := url.Values{}
	_ = formEncoder.Encode(form, values)
	return values
}

func (r *Resource[T, F]) form(c *fiber.Ctx, v T, values url.Values, editing bool, msg string) error {
	s := storeOf(c)
	action := routes.URL(r.Name + ".store")
	if editing {
		action = routes.URL(r.Name+".update", r.ID(v))
	}
	return render(c, "admin/form", r.base(c, fiber.Map{
		"Fields":  r.fields(s.ID, values),
		"Action":  action,
		"Editing": editing,
		"ID":      r.ID(v),
		"Label":   r.Label(v),
		"Err":     msg,
	}), adminLayout)
}

// decode reads the submitted form into F and applies it onto v.
func (r *Resource[T, F]) decode(c *fiber.Ctx, v *T) (url.Values, error) {
	values := url.Values{}
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		for k, vs := range mf.Value {
			values[k] = vs
		}
	} else {
		c.Request().PostArgs().VisitAll(func(k, val []byte) {
			values.Add(string(k), string(val))
		})
	}
	var form F
	if err := formDecoder.Decode(&form, values); err != nil {
		return values, invalidf("Please check the values entered")
	}
	if err := r.Apply(form, v); err != nil {
		return values, err
	}
	if r.BeforeSave != nil {
		if err := r.BeforeSave(c, v); err != nil {
			return values, err
		}
	}
	return values, nil
}

func (r *Resource[T, F]) saveFailed(c *fiber.Ctx, v T, values url.Values, editing bool, err error) error {
	var inv errInvalid
	if errors.As(err, &inv) {
		c.Status(fiber.StatusUnprocessableEntity)
		return r.form(c, v, values, editing, inv.msg)
	}
	applog.Error(c, "admin."+r.Name+".save.fail", err, map[string]any{"id": r.ID(v)})
	c.Status(fiber.StatusBadRequest)
	return r.form(c, v, values, editing, "Could not save. Please check the values and retry.")
}

// GET /admin/<r>/new
func (r *Resource[T, F]) Create(c *fiber.Ctx) error {
	if !r.Creatable {
		return r.notFound(c)
	}
	v := r.New(storeOf(c).ID)
	return r.form(c, v, encodeForm(r.ToForm(v)), false, "")
}

// POST /admin/<r>
func (r *Resource[T, F]) Store(c *fiber.Ctx) error {
	if !r.Creatable {
		return r.notFound(c)
	}
	v := r.New(storeOf(c).ID)
	values, err := r.decode(c, &v)
	if err == nil {
		err = r.Repo.Insert(v)
	}
	if err != nil {
		return r.saveFailed(c, v, values, false, err)
	}
	applog.Audit(c, "admin."+r.Name+".create", map[string]any{"id": r.ID(v)})
	return c.Redirect(routes.URL(r.Name+".show", r.ID(v)))
}

func (r *Resource[T, F]) load(c *fiber.Ctx) (T, bool, error) {
	v, err := r.Repo.Get(storeOf(c).ID, c.Params("id"))
	if errors.Is(err, repos.ErrNotFound) {
		return v, false, r.notFound(c)
	}
	if err != nil {
		applog.Error(c, "admin."+r.Name+".load.fail", err, map[string]any{"id": c.Params("id")})
		return v, false, err
	}
	return v, true, nil
}

// GET /admin/<r>/:id
func (r *Resource[T, F]) Show(c *fiber.Ctx) error {
	v, ok, err := r.load(c)
	if !ok {
		return err
	}
	s := storeOf(c)
	data := r.base(c, fiber.Map{
		"Headers": r.headers(),
		"Row":     r.row(s, v),
		"Flash":   c.Query("msg"),
	})
	if r.Extra != nil {
		for k, val := range r.Extra(c, s, v) {
			data[k] = val
		}
	}
	if wantsJSON(c) {
		return c.JSON(v)
	}
	return render(c, "admin/show", data, adminLayout)
}

// GET /admin/<r>/:id/edit
func (r *Resource[T, F]) Edit(c *fiber.Ctx) error {
	v, ok, err := r.load(c)
	if !ok {
		return err
	}
	return r.form(c, v, encodeForm(r.ToForm(v)), true, "")
}

// POST /admin/<r>/:id
func (r *Resource[T, F]) Update(c *fiber.Ctx) error {
	v, ok, err := r.load(c)
	if !ok {
		return err
	}
	values, err := r.decode(c, &v)
	if err == nil {
		err = r.Repo.Update(v)
	}
	if err != nil {
		return r.saveFailed(c, v, values, true, err)
	}
	applog.Audit(c, "admin."+r.Name+".update", map[string]any{"id": r.ID(v)})
	return c.Redirect(routes.URL(r.Name+".show", r.ID(v)))
}

// GET /admin/<r>/:id/delete asks for confirmation.
func (r *Resource[T, F]) Delete(c *fiber.Ctx) error {
	v, ok, err := r.load(c)
	if !ok {
		return err
	}
	return render(c, "admin/delete", r.base(c, fiber.Map{
		"ID":    r.ID(v),
		"Label": r.Label(v),
	}), adminLayout)
}

// POST /admin/<r>/:id/delete removes the row only with confirm=yes;
// anything else goes back to the confirmation page.
func (r *Resource[T, F]) Destroy(c *fiber.Ctx) error {
	id := c.Params("id")
	if c.FormValue("confirm") != "yes" {
		return c.Redirect(routes.URL(r.Name+".delete", id))
	}
	err := r.Repo.Delete(storeOf(c).ID, id)
	if errors.Is(err, repos.ErrNotFound) {
		return r.notFound(c)
	}
	if err != nil {
		applog.Error(c, "admin."+r.Name+".delete.fail", err, map[string]any{"id": id})
		return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Could not delete. It may still be in use."})
	}
	applog.Audit(c, "admin."+r.Name+".delete", map[string]any{"id": id})
	return c.Redirect(routes.URL(r.Name + ".index"))
}
