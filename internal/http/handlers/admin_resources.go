package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	"shopfront/internal/media"
	"shopfront/internal/notify"
	"shopfront/internal/repos"
	"shopfront/internal/validate"
	"shopfront/internal/view"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func money(s *domain.Store, d decimal.Decimal) string { return view.Money(d, s.Currency) }

func optionalMoney(raw string) (decimal.NullDecimal, bool) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, true
	}
	d, ok := validate.Money(raw)
	return decimal.NullDecimal{Decimal: d, Valid: ok}, ok
}

func formatNullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

// FormatVariants renders variant axes as "Size: S, M; Color: Red".
func FormatVariants(v domain.Variants) string {
	parts := make([]string, 0, len(v))
	for _, axis := range v {
		parts = append(parts, axis.Name+": "+strings.Join(axis.Values, ", "))
	}
	return strings.Join(parts, "; ")
}

// ParseVariants reads the FormatVariants notation back.
func ParseVariants(s string) (domain.Variants, error) {
	var out domain.Variants
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, vals, ok := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, invalidf("Variants must look like \"Size: S, M; Color: Red\"")
		}
		axis := domain.Variant{Name: name}
		for _, v := range strings.Split(vals, ",") {
			if v = strings.TrimSpace(v); v != "" {
				axis.Values = append(axis.Values, v)
			}
		}
		if len(axis.Values) == 0 {
			return nil, invalidf("Variant " + name + " needs at least one value")
		}
		out = append(out, axis)
	}
	return out, nil
}

func slugOr(slug, name string) (string, error) {
	if strings.TrimSpace(slug) == "" {
		slug = validate.Slugify(name)
	}
	s, ok := validate.Slug(slug)
	if !ok {
		return "", invalidf("Slug may only contain lowercase letters, digits and dashes")
	}
	return s, nil
}

type ProductForm struct {
	Name        string `schema:"name"`
	Slug        string `schema:"slug"`
	CategoryID  string `schema:"category_id"`
	Description string `schema:"description"`
	Price       string `schema:"price"`
	SalePrice   string `schema:"sale_price"`
	Stock       int    `schema:"stock"`
	Active      bool   `schema:"is_active"`
	Variants    string `schema:"variants"`
	CoverImage  string `schema:"cover_image"`
}

type CategoryForm struct {
	Name     string `schema:"name"`
	Slug     string `schema:"slug"`
	ParentID string `schema:"parent_id"`
	Position int    `schema:"position"`
	Active   bool   `schema:"is_active"`
}

type OrderForm struct {
	Status          string `schema:"status"`
	CustomerName    string `schema:"customer_name"`
	CustomerEmail   string `schema:"customer_email"`
	ShippingAddress string `schema:"shipping_address"`
}

type ShippingForm struct {
	Name        string `schema:"name"`
	Description string `schema:"description"`
	Price       string `schema:"price"`
	MinOrder    string `schema:"min_order"`
	Active      bool   `schema:"is_active"`
}

type TaxForm struct {
	Name    string `schema:"name"`
	Country string `schema:"country"`
	Region  string `schema:"region"`
	Rate    string `schema:"rate"`
	Active  bool   `schema:"is_active"`
}

type ReviewForm struct {
	ProductID string `schema:"product_id"`
	Author    string `schema:"author"`
	Rating    int    `schema:"rating"`
	Body      string `schema:"body"`
	Status    string `schema:"status"`
}

type TemplateForm struct {
	Key     string `schema:"template_key"`
	Subject string `schema:"subject"`
	Body    string `schema:"body"`
	Active  bool   `schema:"is_active"`
}

type POSForm struct {
	Register      string `schema:"register"`
	Cashier       string `schema:"cashier"`
	Total         string `schema:"total"`
	PaymentMethod string `schema:"payment_method"`
	ItemsCount    int    `schema:"items_count"`
}

func options(vals ...string) []Option {
	out := make([]Option, len(vals))
	for i, v := range vals {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

var reviewStatuses = []string{"pending", "approved", "rejected"}

// NewResources builds the back office resources in menu order.
func NewResources(
	cats *repos.CategoryRepo, prods *repos.ProductRepo, orders *repos.OrderRepo, ship *repos.ShippingRepo,
	tax *repos.TaxRepo, reviews *repos.ReviewRepo, tpls *repos.TemplateRepo, pos *repos.POSRepo,
	up media.Uploader,
) []AdminResource {
	categoryChoices := func(storeID string) []Option {
		all, _ := cats.All(storeID)
		out := []Option{{Value: "", Label: "None"}}
		for _, c := range all {
			out = append(out, Option{Value: c.ID, Label: c.Name})
		}
		return out
	}
	productChoices := func(storeID string) []Option {
		all, _ := prods.All(storeID)
		out := make([]Option, 0, len(all))
		for _, p := range all {
			out = append(out, Option{Value: p.ID, Label: p.Name})
		}
		return out
	}

	return []AdminResource{
		&Resource[domain.Product, ProductForm]{
			Name: "products", Title: "Products", Repo: prods, Creatable: true,
			Columns: []Column[domain.Product]{
				{"Name", func(_ *domain.Store, p domain.Product) string { return p.Name }},
				{"Slug", func(_ *domain.Store, p domain.Product) string { return p.Slug }},
				{"Price", func(s *domain.Store, p domain.Product) string { return money(s, p.Price) }},
				{"Sale price", func(s *domain.Store, p domain.Product) string {
					if !p.SalePrice.Valid {
						return ""
					}
					return money(s, p.SalePrice.Decimal)
				}},
				{"Stock", func(_ *domain.Store, p domain.Product) string { return strconv.Itoa(p.Stock) }},
				{"Active", func(_ *domain.Store, p domain.Product) string { return yesNo(p.Active) }},
				{"Variants", func(_ *domain.Store, p domain.Product) string { return FormatVariants(p.Variants) }},
			},
			Fields: []Field{
				{Name: "name", Label: "Name", Type: "text"},
				{Name: "slug", Label: "Slug", Type: "text", Help: "Leave empty to derive it from the name"},
				{Name: "category_id", Label: "Category", Type: "select", Choices: categoryChoices},
				{Name: "description", Label: "Description", Type: "textarea"},
				{Name: "price", Label: "Price", Type: "text"},
				{Name: "sale_price", Label: "Sale price", Type: "text"},
				{Name: "stock", Label: "Stock", Type: "number"},
				{Name: "is_active", Label: "Active", Type: "checkbox"},
				{Name: "variants", Label: "Variants", Type: "text", Help: "Size: S, M, L; Color: Red, Blue"},
				{Name: "cover_image", Label: "Cover image path or URL", Type: "text"},
				{Name: "cover_file", Label: "Upload cover image", Type: "file"},
			},
			ID:    func(p domain.Product) string { return p.ID },
			Label: func(p domain.Product) string { return p.Name },
			New: func(storeID string) domain.Product {
				return domain.Product{ID: uuid.NewString(), StoreID: storeID, Active: true, CreatedAt: repos.Timestamp(time.Now())}
			},
			ToForm: func(p domain.Product) ProductForm {
				return ProductForm{
					Name: p.Name, Slug: p.Slug, CategoryID: p.CategoryID, Description: p.Description,
					Price: p.Price.StringFixed(2), SalePrice: formatNullMoney(p.SalePrice), Stock: p.Stock,
					Active: p.Active, Variants: FormatVariants(p.Variants), CoverImage: p.CoverImage,
				}
			},
			Apply: func(f ProductForm, p *domain.Product) error {
				name, ok := validate.Name(f.Name)
				if !ok {
					return invalidf("Name is required")
				}
				slug, err := slugOr(f.Slug, name)
				if err != nil {
					return err
				}
				price, ok := validate.Money(f.Price)
				if !ok {
					return invalidf("Price must be a positive amount")
				}
				sale, ok := optionalMoney(f.SalePrice)
				if !ok {
					return invalidf("Sale price must be a positive amount")
				}
				if f.Stock < 0 {
					return invalidf("Stock cannot be negative")
				}
				if f.CategoryID != "" {
					if _, ok := validate.ID(f.CategoryID); !ok {
						return invalidf("Unknown category")
					}
				}
				variants, err := ParseVariants(f.Variants)
				if err != nil {
					return err
				}
				p.Name, p.Slug, p.CategoryID = name, slug, f.CategoryID
				p.Description = strings.TrimSpace(f.Description)
				p.Price, p.SalePrice, p.Stock, p.Active = price, sale, f.Stock, f.Active
				p.Variants = variants
				p.CoverImage = strings.TrimSpace(f.CoverImage)
				return nil
			},
			BeforeSave: func(c *fiber.Ctx, p *domain.Product) error {
				fh, err := c.FormFile("cover_file")
				if err != nil || fh == nil || fh.Size == 0 || up == nil {
					return nil
				}
				f, err := fh.Open()
				if err != nil {
					return err
				}
				defer f.Close()
				ref, err := up.Upload(c.UserContext(), "products/"+p.StoreID, fh.Filename, f)
				if errors.Is(err, media.ErrUnsupportedImage) {
					return invalidf("Cover image must be a JPG, PNG, WebP or GIF")
				}
				if err != nil {
					return err
				}
				p.CoverImage = ref
				return nil
			},
		},

		&Resource[domain.Category, CategoryForm]{
			Name: "categories", Title: "Categories", Repo: cats, Creatable: true,
			Columns: []Column[domain.Category]{
				{"Name", func(_ *domain.Store, c domain.Category) string { return c.Name }},
				{"Slug", func(_ *domain.Store, c domain.Category) string { return c.Slug }},
				{"Position", func(_ *domain.Store, c domain.Category) string { return strconv.Itoa(c.Position) }},
				{"Active", func(_ *domain.Store, c domain.Category) string { return yesNo(c.Active) }},
			},
			Fields: []Field{
				{Name: "name", Label: "Name", Type: "text"},
				{Name: "slug", Label: "Slug", Type: "text", Help: "Leave empty to derive it from the name"},
				{Name: "parent_id", Label: "Parent", Type: "select", Choices: categoryChoices},
				{Name: "position", Label: "Position", Type: "number"},
				{Name: "is_active", Label: "Active", Type: "checkbox"},
			},
			ID:    func(c domain.Category) string { return c.ID },
			Label: func(c domain.Category) string { return c.Name },
			New: func(storeID string) domain.Category {
				return domain.Category{ID: uuid.NewString(), StoreID: storeID, Active: true, CreatedAt: repos.Timestamp(time.Now())}
			},
			ToForm: func(c domain.Category) CategoryForm {
				return CategoryForm{Name: c.Name, Slug: c.Slug, ParentID: c.ParentID, Position: c.Position, Active: c.Active}
			},
			Apply: func(f CategoryForm, c *domain.Category) error {
				name, ok := validate.Name(f.Name)
				if !ok {
					return invalidf("Name is required")
				}
				slug, err := slugOr(f.Slug, name)
				if err != nil {
					return err
				}
				if f.ParentID == c.ID {
					return invalidf("A category cannot be its own parent")
				}
				c.Name, c.Slug, c.ParentID, c.Position, c.Active = name, slug, f.ParentID, f.Position, f.Active
				return nil
			},
		},

		&Resource[domain.Order, OrderForm]{
			Name: "orders", Title: "Orders", Repo: orders,
			Columns: []Column[domain.Order]{
				{"Number", func(_ *domain.Store, o domain.Order) string { return o.Number }},
				{"Customer", func(_ *domain.Store, o domain.Order) string { return o.CustomerName }},
				{"Email", func(_ *domain.Store, o domain.Order) string { return o.CustomerEmail }},
				{"Items", func(_ *domain.Store, o domain.Order) string { return strconv.Itoa(o.ItemCount) }},
				{"Total", func(s *domain.Store, o domain.Order) string { return money(s, o.Total) }},
				{"Status", func(_ *domain.Store, o domain.Order) string { return o.Status }},
				{"Placed", func(_ *domain.Store, o domain.Order) string { return view.Date(o.CreatedAt) }},
			},
			Fields: []Field{
				{Name: "status", Label: "Status", Type: "select", Options: options(domain.OrderStatuses...)},
				{Name: "customer_name", Label: "Customer name", Type: "text"},
				{Name: "customer_email", Label: "Customer email", Type: "text"},
				{Name: "shipping_address", Label: "Shipping address", Type: "textarea"},
			},
			ID:    func(o domain.Order) string { return o.ID },
			Label: func(o domain.Order) string { return o.Number },
			New:   func(storeID string) domain.Order { return domain.Order{StoreID: storeID} },
			ToForm: func(o domain.Order) OrderForm {
				return OrderForm{Status: o.Status, CustomerName: o.CustomerName, CustomerEmail: o.CustomerEmail, ShippingAddress: o.ShippingAddress}
			},
			Apply: func(f OrderForm, o *domain.Order) error {
				if !validate.OneOf(f.Status, domain.OrderStatuses...) {
					return invalidf("Unknown status")
				}
				name, ok := validate.Name(f.CustomerName)
				if !ok {
					return invalidf("Customer name is required")
				}
				email, ok := validate.Email(f.CustomerEmail)
				if !ok {
					return invalidf("Customer email is invalid")
				}
				o.Status, o.CustomerName, o.CustomerEmail = f.Status, name, email
				o.ShippingAddress = strings.TrimSpace(f.ShippingAddress)
				return nil
			},
			Extra: func(_ *fiber.Ctx, _ *domain.Store, o domain.Order) fiber.Map {
				items, err := orders.Items(o.ID)
				if err != nil {
					items = nil
				}
				return fiber.Map{"Order": o, "Items": items, "Statuses": domain.OrderStatuses}
			},
		},

		&Resource[domain.ShippingMethod, ShippingForm]{
			Name: "shipping", Title: "Shipping methods", Repo: ship, Creatable: true,
			Columns: []Column[domain.ShippingMethod]{
				{"Name", func(_ *domain.Store, m domain.ShippingMethod) string { return m.Name }},
				{"Price", func(s *domain.Store, m domain.ShippingMethod) string { return money(s, m.Price) }},
				{"Free from", func(s *domain.Store, m domain.ShippingMethod) string {
					if !m.MinOrder.Valid {
						return ""
					}
					return money(s, m.MinOrder.Decimal)
				}},
				{"Active", func(_ *domain.Store, m domain.ShippingMethod) string { return yesNo(m.Active) }},
			},
			Fields: []Field{
				{Name: "name", Label: "Name", Type: "text"},
				{Name: "description", Label: "Description", Type: "textarea"},
				{Name: "price", Label: "Price", Type: "text"},
				{Name: "min_order", Label: "Free from order total", Type: "text", Help: "Leave empty for never free"},
				{Name: "is_active", Label: "Active", Type: "checkbox"},
			},
			ID:    func(m domain.ShippingMethod) string { return m.ID },
			Label: func(m domain.ShippingMethod) string { return m.Name },
			New: func(storeID string) domain.ShippingMethod {
				return domain.ShippingMethod{ID: uuid.NewString(), StoreID: storeID, Active: true}
			},
			ToForm: func(m domain.ShippingMethod) ShippingForm {
				return ShippingForm{Name: m.Name, Description: m.Description, Price: m.Price.StringFixed(2), MinOrder: formatNullMoney(m.MinOrder), Active: m.Active}
			},
			Apply: func(f ShippingForm, m *domain.ShippingMethod) error {
				name, ok := validate.Name(f.Name)
				if !ok {
					return invalidf("Name is required")
				}
				price, ok := validate.Money(f.Price)
				if !ok {
					return invalidf("Price must be a positive amount")
				}
				minOrder, ok := optionalMoney(f.MinOrder)
				if !ok {
					return invalidf("Free shipping threshold must be a positive amount")
				}
				m.Name, m.Description, m.Price, m.MinOrder, m.Active = name, strings.TrimSpace(f.Description), price, minOrder, f.Active
				return nil
			},
		},

		&Resource[domain.TaxRate, TaxForm]{
			Name: "tax", Title: "Tax rates", Repo: tax, Creatable: true,
			Columns: []Column[domain.TaxRate]{
				{"Name", func(_ *domain.Store, t domain.TaxRate) string { return t.Name }},
				{"Country", func(_ *domain.Store, t domain.TaxRate) string { return t.Country }},
				{"Region", func(_ *domain.Store, t domain.TaxRate) string { return t.Region }},
				{"Rate", func(_ *domain.Store, t domain.TaxRate) string { return t.Rate.String() + "%" }},
				{"Active", func(_ *domain.Store, t domain.TaxRate) string { return yesNo(t.Active) }},
			},
			Fields: []Field{
				{Name: "name", Label: "Name", Type: "text"},
				{Name: "country", Label: "Country code", Type: "text"},
				{Name: "region", Label: "Region", Type: "text"},
				{Name: "rate", Label: "Rate (%)", Type: "text"},
				{Name: "is_active", Label: "Active", Type: "checkbox"},
			},
			ID:    func(t domain.TaxRate) string { return t.ID },
			Label: func(t domain.TaxRate) string { return t.Name },
			New: func(storeID string) domain.TaxRate {
				return domain.TaxRate{ID: uuid.NewString(), StoreID: storeID, Active: true}
			},
			ToForm: func(t domain.TaxRate) TaxForm {
				return TaxForm{Name: t.Name, Country: t.Country, Region: t.Region, Rate: t.Rate.String(), Active: t.Active}
			},
			Apply: func(f TaxForm, t *domain.TaxRate) error {
				name, ok := validate.Name(f.Name)
				if !ok {
					return invalidf("Name is required")
				}
				country := strings.ToUpper(strings.TrimSpace(f.Country))
				if len(country) != 2 {
					return invalidf("Country must be a two letter code")
				}
				rate, ok := validate.Percent(f.Rate)
				if !ok {
					return invalidf("Rate must be between 0 and 100")
				}
				t.Name, t.Country, t.Region, t.Rate, t.Active = name, country, strings.TrimSpace(f.Region), rate, f.Active
				return nil
			},
		},

		&Resource[domain.Review, ReviewForm]{
			Name: "reviews", Title: "Reviews", Repo: reviews, Creatable: true,
			Columns: []Column[domain.Review]{
				{"Product", func(_ *domain.Store, r domain.Review) string { return r.ProductName }},
				{"Author", func(_ *domain.Store, r domain.Review) string { return r.Author }},
				{"Rating", func(_ *domain.Store, r domain.Review) string { return strings.Repeat("★", r.Rating) }},
				{"Status", func(_ *domain.Store, r domain.Review) string { return r.Status }},
				{"Posted", func(_ *domain.Store, r domain.Review) string { return view.Date(r.CreatedAt) }},
			},
			Fields: []Field{
				{Name: "product_id", Label: "Product", Type: "select", Choices: productChoices},
				{Name: "author", Label: "Author", Type: "text"},
				{Name: "rating", Label: "Rating (1-5)", Type: "number"},
				{Name: "body", Label: "Review", Type: "textarea"},
				{Name: "status", Label: "Status", Type: "select", Options: options(reviewStatuses...)},
			},
			ID:    func(r domain.Review) string { return r.ID },
			Label: func(r domain.Review) string { return r.Author + " on " + r.ProductName },
			New: func(storeID string) domain.Review {
				return domain.Review{ID: uuid.NewString(), StoreID: storeID, Rating: 5, Status: "pending", CreatedAt: repos.Timestamp(time.Now())}
			},
			ToForm: func(r domain.Review) ReviewForm {
				return ReviewForm{ProductID: r.ProductID, Author: r.Author, Rating: r.Rating, Body: r.Body, Status: r.Status}
			},
			Apply: func(f ReviewForm, r *domain.Review) error {
				if _, ok := validate.ID(f.ProductID); !ok {
					return invalidf("Choose a product")
				}
				author, ok := validate.Name(f.Author)
				if !ok {
					return invalidf("Author is required")
				}
				if !validate.Rating(f.Rating) {
					return invalidf("Rating must be between 1 and 5")
				}
				if !validate.OneOf(f.Status, reviewStatuses...) {
					return invalidf("Unknown status")
				}
				r.ProductID, r.Author, r.Rating, r.Body, r.Status = f.ProductID, author, f.Rating, strings.TrimSpace(f.Body), f.Status
				return nil
			},
		},

		&Resource[domain.NotificationTemplate, TemplateForm]{
			Name: "templates", Title: "Notification templates", Repo: tpls, Creatable: true,
			Columns: []Column[domain.NotificationTemplate]{
				{"Key", func(_ *domain.Store, t domain.NotificationTemplate) string { return t.Key }},
				{"Subject", func(_ *domain.Store, t domain.NotificationTemplate) string { return t.Subject }},
				{"Active", func(_ *domain.Store, t domain.NotificationTemplate) string { return yesNo(t.Active) }},
			},
			Fields: []Field{
				{Name: "template_key", Label: "Key", Type: "select", Options: options(notify.Keys...)},
				{Name: "subject", Label: "Subject", Type: "text"},
				{Name: "body", Label: "Body", Type: "textarea", Help: "Go template, e.g. {{.Store.Name}}"},
				{Name: "is_active", Label: "Active", Type: "checkbox"},
			},
			ID:    func(t domain.NotificationTemplate) string { return t.ID },
			Label: func(t domain.NotificationTemplate) string { return t.Key },
			New: func(storeID string) domain.NotificationTemplate {
				return domain.NotificationTemplate{ID: uuid.NewString(), StoreID: storeID, Active: true}
			},
			ToForm: func(t domain.NotificationTemplate) TemplateForm {
				return TemplateForm{Key: t.Key, Subject: t.Subject, Body: t.Body, Active: t.Active}
			},
			Apply: func(f TemplateForm, t *domain.NotificationTemplate) error {
				if !validate.OneOf(f.Key, notify.Keys...) {
					return invalidf("Unknown template key")
				}
				if strings.TrimSpace(f.Subject) == "" {
					return invalidf("Subject is required")
				}
				candidate := domain.NotificationTemplate{Key: f.Key, Subject: f.Subject, Body: f.Body}
				if _, err := notify.Render(candidate, previewData(nil)); err != nil {
					return invalidf("Template does not render: " + err.Error())
				}
				t.Key, t.Subject, t.Body, t.Active = f.Key, f.Subject, f.Body, f.Active
				return nil
			},
			Extra: func(_ *fiber.Ctx, s *domain.Store, t domain.NotificationTemplate) fiber.Map {
				msg, err := notify.Render(t, previewData(s))
				if err != nil {
					return fiber.Map{"PreviewErr": err.Error()}
				}
				return fiber.Map{"Preview": msg}
			},
		},

		&Resource[domain.POSTransaction, POSForm]{
			Name: "pos", Title: "POS transactions", Repo: pos, Creatable: true,
			Columns: []Column[domain.POSTransaction]{
				{"Register", func(_ *domain.Store, t domain.POSTransaction) string { return t.Register }},
				{"Cashier", func(_ *domain.Store, t domain.POSTransaction) string { return t.Cashier }},
				{"Items", func(_ *domain.Store, t domain.POSTransaction) string { return strconv.Itoa(t.ItemsCount) }},
				{"Total", func(s *domain.Store, t domain.POSTransaction) string { return money(s, t.Total) }},
				{"Payment", func(_ *domain.Store, t domain.POSTransaction) string { return t.PaymentMethod }},
				{"Date", func(_ *domain.Store, t domain.POSTransaction) string { return view.Date(t.CreatedAt) }},
			},
			Fields: []Field{
				{Name: "register", Label: "Register", Type: "text"},
				{Name: "cashier", Label: "Cashier", Type: "text"},
				{Name: "total", Label: "Total", Type: "text"},
				{Name: "payment_method", Label: "Payment method", Type: "select", Options: options("cash", "card", "mobile")},
				{Name: "items_count", Label: "Items", Type: "number"},
			},
			ID:    func(t domain.POSTransaction) string { return t.ID },
			Label: func(t domain.POSTransaction) string { return t.Register + " " + view.Date(t.CreatedAt) },
			New: func(storeID string) domain.POSTransaction {
				return domain.POSTransaction{ID: uuid.NewString(), StoreID: storeID, PaymentMethod: "card", CreatedAt: repos.Timestamp(time.Now())}
			},
			ToForm: func(t domain.POSTransaction) POSForm {
				return POSForm{Register: t.Register, Cashier: t.Cashier, Total: t.Total.StringFixed(2), PaymentMethod: t.PaymentMethod, ItemsCount: t.ItemsCount}
			},
			Apply: func(f POSForm, t *domain.POSTransaction) error {
				register, ok := validate.Name(f.Register)
				if !ok {
					return invalidf("Register is required")
				}
				total, ok := validate.Money(f.Total)
				if !ok {
					return invalidf("Total must be a positive amount")
				}
				if !validate.OneOf(f.PaymentMethod, "cash", "card", "mobile") {
					return invalidf("Unknown payment method")
				}
				if f.ItemsCount < 0 {
					return invalidf("Items cannot be negative")
				}
				t.Register, t.Cashier, t.Total, t.PaymentMethod, t.ItemsCount = register, strings.TrimSpace(f.Cashier), total, f.PaymentMethod, f.ItemsCount
				return nil
			},
		},
	}
}

// previewData is the sample binding used to preview notification templates.
func previewData(s *domain.Store) map[string]any {
	if s == nil {
		s = &domain.Store{Name: "Your store", Currency: "USD"}
	}
	order := domain.Order{Number: "SF-PREVIEW01", Status: "pending", Total: decimal.NewFromInt(42), CustomerName: "Sam Customer", CustomerEmail: "sam@example.com"}
	return map[string]any{
		"Store": s,
		"Email": "sam@example.com",
		"Name":  "Sam Customer",
		"Link":  "https://example.com/reset-password?token=preview",
		"Order": order,
		"Items": []domain.OrderItem{{Name: "Sample product", Qty: 2, UnitPrice: decimal.NewFromInt(21)}},
		"Total": order.Total.StringFixed(2),
	}
}
