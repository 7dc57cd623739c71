package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type Store struct {
	ID        string  `db:"id"`
	Slug      string  `db:"slug"`
	Name      string  `db:"name"`
	Theme     string  `db:"theme"`
	Logo      string  `db:"logo"`
	Email     string  `db:"email"`
	Phone     string  `db:"phone"`
	Address   string  `db:"address"`
	Currency  string  `db:"currency"`
	Socials   Socials `db:"socials_json"`
	CreatedAt string  `db:"created_at"`
}

type Socials map[string]string

func (s Socials) Value() (driver.Value, error) { return jsonValue(s) }
func (s *Socials) Scan(src any) error          { return jsonScan(src, s) }

type Category struct {
	ID        string `db:"id"`
	StoreID   string `db:"store_id"`
	Slug      string `db:"slug"`
	Name      string `db:"name"`
	ParentID  string `db:"parent_id"`
	Position  int    `db:"position"`
	Active    bool   `db:"is_active"`
	CreatedAt string `db:"created_at"`
}

// Variant is one option axis of a product, e.g. Size: S, M, L.
type Variant struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Variants []Variant

func (v Variants) Value() (driver.Value, error) { return jsonValue(v) }
func (v *Variants) Scan(src any) error          { return jsonScan(src, v) }

// Validate checks a selection against the declared axes. Every axis must be
// chosen and every chosen value must exist.
func (v Variants) Validate(opts Options) error {
	for name := range opts {
		if v.find(name) == nil {
			return fmt.Errorf("unknown option %q", name)
		}
	}
	for _, axis := range v {
		chosen, ok := opts[axis.Name]
		if !ok {
			return fmt.Errorf("missing option %q", axis.Name)
		}
		found := false
		for _, val := range axis.Values {
			if val == chosen {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("invalid value %q for %q", chosen, axis.Name)
		}
	}
	return nil
}

func (v Variants) find(name string) *Variant {
	for i := range v {
		if v[i].Name == name {
			return &v[i]
		}
	}
	return nil
}

// Options is a variant selection, axis name -> value.
type Options map[string]string

func (o Options) Value() (driver.Value, error) { return jsonValue(o) }
func (o *Options) Scan(src any) error          { return jsonScan(src, o) }

// Key is a stable signature used to merge cart lines with equal selections.
func (o Options) Key() string {
	if len(o) == 0 {
		return ""
	}
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+o[k])
	}
	return strings.Join(parts, ";")
}

type Product struct {
	ID          string              `db:"id"`
	StoreID     string              `db:"store_id"`
	CategoryID  string              `db:"category_id"`
	Name        string              `db:"name"`
	Slug        string              `db:"slug"`
	Description string              `db:"description"`
	Price       decimal.Decimal     `db:"price"`
	SalePrice   decimal.NullDecimal `db:"sale_price"`
	Stock       int                 `db:"stock"`
	Active      bool                `db:"is_active"`
	Variants    Variants            `db:"variants_json"`
	CoverImage  string              `db:"cover_image"`
	CreatedAt   string              `db:"created_at"`
}

// OnSale is true only when a sale price exists and undercuts the list price.
func (p Product) OnSale() bool {
	return p.SalePrice.Valid && p.SalePrice.Decimal.LessThan(p.Price)
}

// EffectivePrice is what the customer pays per unit.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.OnSale() {
		return p.SalePrice.Decimal
	}
	return p.Price
}

func (p Product) InStock() bool { return p.Stock > 0 }

type CartItem struct {
	ProductID  string          `db:"product_id" json:"product_id"`
	Name       string          `db:"name" json:"name"`
	CoverImage string          `db:"cover_image" json:"cover_image"`
	Options    Options         `db:"options_json" json:"options"`
	OptionsKey string          `db:"options_key" json:"options_key"`
	Qty        int             `db:"qty" json:"qty"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
}

func (c CartItem) Subtotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Qty)))
}

type WishlistItem struct {
	ProductID  string          `db:"product_id" json:"product_id"`
	Name       string          `db:"name" json:"name"`
	CoverImage string          `db:"cover_image" json:"cover_image"`
	Price      decimal.Decimal `db:"price" json:"price"`
	Active     bool            `db:"is_active" json:"is_active"`
}

type Order struct {
	ID              string          `db:"id"`
	StoreID         string          `db:"store_id"`
	SessionID       string          `db:"session_id"`
	UserID          string          `db:"user_id"`
	Number          string          `db:"number"`
	Status          string          `db:"status"`
	Total           decimal.Decimal `db:"total"`
	CustomerName    string          `db:"customer_name"`
	CustomerEmail   string          `db:"customer_email"`
	ShippingAddress string          `db:"shipping_address"`
	CreatedAt       string          `db:"created_at"`
	ItemCount       int             `db:"item_count"`
}

type OrderItem struct {
	OrderID   string          `db:"order_id"`
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	Options   Options         `db:"options_json"`
	Qty       int             `db:"qty"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Known order statuses. The column is an open string; these are the values
// the admin offers and the views know how to decorate.
var OrderStatuses = []string{"pending", "processing", "shipped", "delivered", "cancelled", "refunded"}

type BlogPost struct {
	ID            string `db:"id"`
	StoreID       string `db:"store_id"`
	Title         string `db:"title"`
	Slug          string `db:"slug"`
	Excerpt       string `db:"excerpt"`
	Body          string `db:"body"`
	FeaturedImage string `db:"featured_image"`
	Author        string `db:"author"`
	Category      string `db:"category"`
	PublishedAt   string `db:"published_at"`
}

type ShippingMethod struct {
	ID          string              `db:"id"`
	StoreID     string              `db:"store_id"`
	Name        string              `db:"name"`
	Description string              `db:"description"`
	Price       decimal.Decimal     `db:"price"`
	MinOrder    decimal.NullDecimal `db:"min_order"`
	Active      bool                `db:"is_active"`
}

type TaxRate struct {
	ID      string          `db:"id"`
	StoreID string          `db:"store_id"`
	Name    string          `db:"name"`
	Country string          `db:"country"`
	Region  string          `db:"region"`
	Rate    decimal.Decimal `db:"rate"`
	Active  bool            `db:"is_active"`
}

type Review struct {
	ID          string `db:"id"`
	StoreID     string `db:"store_id"`
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	Author      string `db:"author"`
	Rating      int    `db:"rating"`
	Body        string `db:"body"`
	Status      string `db:"status"` // pending | approved | rejected
	CreatedAt   string `db:"created_at"`
}

type NotificationTemplate struct {
	ID      string `db:"id"`
	StoreID string `db:"store_id"`
	Key     string `db:"template_key"`
	Subject string `db:"subject"`
	Body    string `db:"body"`
	Active  bool   `db:"is_active"`
}

type POSTransaction struct {
	ID            string          `db:"id"`
	StoreID       string          `db:"store_id"`
	Register      string          `db:"register"`
	Cashier       string          `db:"cashier"`
	Total         decimal.Decimal `db:"total"`
	PaymentMethod string          `db:"payment_method"`
	ItemsCount    int             `db:"items_count"`
	CreatedAt     string          `db:"created_at"`
}

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
