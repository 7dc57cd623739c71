package repos

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/domain"
)

type seedProduct struct {
	slug, name, category, price, sale string
	stock                             int
	active                            bool
	variants                          domain.Variants
}

type seedStore struct {
	slug, name, theme, currency string
	categories                  [][2]string // slug, name
	products                    []seedProduct
	content                     map[string]map[string]any
}

var demoStores = []seedStore{
	{
		slug: "tiny-steps", name: "Tiny Steps", theme: "baby-kids", currency: "USD",
		categories: [][2]string{{"clothing", "Clothing"}, {"toys", "Toys"}, {"gear", "Gear"}},
		products: []seedProduct{
			{slug: "romper", name: "Organic Cotton Romper", category: "clothing", price: "24.00", sale: "19.50", stock: 30, active: true,
				variants: domain.Variants{{Name: "Size", Values: []string{"0-3m", "3-6m", "6-12m"}}, {Name: "Color", Values: []string{"Oat", "Sage"}}}},
			{slug: "rattle", name: "Wooden Rattle", category: "toys", price: "12.00", stock: 5, active: true},
			{slug: "stroller", name: "City Stroller", category: "gear", price: "349.00", stock: 0, active: true},
			{slug: "old-blanket", name: "Retired Blanket", category: "gear", price: "30.00", stock: 10, active: false},
		},
		content: map[string]map[string]any{
			"hero":      {"title": map[string]any{"value": "Little steps, big smiles"}, "image": "hero/tiny-steps.jpg"},
			"cta_boxes": {"cta_boxes": map[string]any{"value": []any{map[string]any{"title": "Gentle fabrics", "text": "Certified organic cotton."}}}},
			"footer":    {"about": "Thoughtful things for little ones."},
		},
	},
	{
		slug: "maison", name: "Maison Noir", theme: "fashion", currency: "EUR",
		categories: [][2]string{{"women", "Women"}, {"men", "Men"}},
		products: []seedProduct{
			{slug: "trench", name: "Classic Trench Coat", category: "women", price: "189.00", stock: 12, active: true,
				variants: domain.Variants{{Name: "Size", Values: []string{"S", "M", "L"}}}},
			{slug: "loafers", name: "Leather Loafers", category: "men", price: "129.00", sale: "129.00", stock: 8, active: true},
			{slug: "scarf", name: "Silk Scarf", category: "women", price: "59.00", stock: 20, active: true},
		},
		content: map[string]map[string]any{
			"hero":       {"title": "Autumn / Winter", "subtitle": map[string]any{"value": "Tailoring for the season."}},
			"newsletter": {"title": map[string]any{"value": "Le journal"}},
		},
	},
	{
		slug: "voltage", name: "Voltage", theme: "electronics", currency: "USD",
		categories: [][2]string{{"audio", "Audio"}, {"phones", "Phones"}},
		products: []seedProduct{
			{slug: "headphones", name: "Noise Cancelling Headphones", category: "audio", price: "299.00", sale: "249.00", stock: 15, active: true,
				variants: domain.Variants{{Name: "Color", Values: []string{"Black", "Silver"}}}},
			{slug: "earbuds", name: "Wireless Earbuds", category: "audio", price: "99.00", stock: 40, active: true},
			{slug: "phone-case", name: "Rugged Phone Case", category: "phones", price: "29.00", stock: 100, active: true},
		},
	},
	{
		slug: "lumiere", name: "Lumière", theme: "beauty", currency: "EUR",
		categories: [][2]string{{"skincare", "Skincare"}},
		products: []seedProduct{
			{slug: "serum", name: "Vitamin C Serum", category: "skincare", price: "42.00", stock: 25, active: true},
			{slug: "cream", name: "Night Cream", category: "skincare", price: "38.00", stock: 18, active: true},
		},
	},
	{
		slug: "corner", name: "Corner Shop", theme: "retro-wave", currency: "GBP",
		categories: [][2]string{{"general", "General"}},
		products: []seedProduct{
			{slug: "mug", name: "Enamel Mug", category: "general", price: "9.50", stock: 60, active: true},
		},
	},
}

// seedIfEmpty inserts the demo stores once, on an empty database.
func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM stores`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	logSeed("inserting demo stores/catalog/content")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exec := func(q string, args ...any) {
		if err != nil {
			return
		}
		_, err = tx.Exec(tx.Rebind(q), args...)
	}

	ts := now()
	for _, s := range demoStores {
		storeID := "st-" + s.slug
		exec(`INSERT INTO stores(id,slug,name,theme,logo,email,phone,address,currency,socials_json,created_at)
		      VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
			storeID, s.slug, s.name, s.theme, "logos/"+s.slug+".png", "hello@"+s.slug+".test", "+1 555 0100",
			"1 Market Street", s.currency, `{"instagram":"https://instagram.com/`+s.slug+`"}`, ts)

		for i, c := range s.categories {
			exec(`INSERT INTO categories(id,store_id,slug,name,parent_id,position,is_active,created_at) VALUES(?,?,?,?,?,?,?,?)`,
				s.slug+"-"+c[0], storeID, c[0], c[1], "", i, true, ts)
		}
		for _, p := range s.products {
			var sale any
			if p.sale != "" {
				sale = p.sale
			}
			variants := p.variants
			if variants == nil {
				variants = domain.Variants{}
			}
			vj, _ := json.Marshal(variants)
			exec(`INSERT INTO products(id,store_id,category_id,name,slug,description,price,sale_price,stock,is_active,variants_json,cover_image,created_at)
			      VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				s.slug+"-"+p.slug, storeID, s.slug+"-"+p.category, p.name, p.slug,
				p.name+" from "+s.name+".", p.price, sale, p.stock, p.active, string(vj),
				"products/"+s.slug+"/"+p.slug+".jpg", ts)
		}
		for section, payload := range s.content {
			pj, _ := json.Marshal(payload)
			exec(`INSERT INTO store_contents(store_id,section,payload_json,updated_at) VALUES(?,?,?,?)`, storeID, section, string(pj), ts)
		}

		for i, title := range []string{"Welcome to " + s.name, "How we choose our products"} {
			slug := strings.ToLower(strings.NewReplacer(" ", "-", "è", "e").Replace(title))
			exec(`INSERT INTO blog_posts(id,store_id,title,slug,excerpt,body,featured_image,author,category,published_at)
			      VALUES(?,?,?,?,?,?,?,?,?,?)`,
				s.slug+"-post-"+string(rune('a'+i)), storeID, title, slug, "A few words from the team.",
				"We opened "+s.name+" to bring you things we love.", "", "The "+s.name+" team", "News", ts)
		}

		exec(`INSERT INTO shipping_methods(id,store_id,name,description,price,min_order,is_active) VALUES(?,?,?,?,?,?,?)`,
			s.slug+"-ship-standard", storeID, "Standard", "3-5 business days", "4.95", nil, true)
		exec(`INSERT INTO shipping_methods(id,store_id,name,description,price,min_order,is_active) VALUES(?,?,?,?,?,?,?)`,
			s.slug+"-ship-free", storeID, "Free shipping", "Orders over 50", "0", "50", true)
		exec(`INSERT INTO tax_rates(id,store_id,name,country,region,rate,is_active) VALUES(?,?,?,?,?,?,?)`,
			s.slug+"-tax-vat", storeID, "Standard rate", "US", "", "8.250", true)

		if len(s.products) > 0 {
			exec(`INSERT INTO reviews(id,store_id,product_id,author,rating,body,status,created_at) VALUES(?,?,?,?,?,?,?,?)`,
				s.slug+"-review-1", storeID, s.slug+"-"+s.products[0].slug, "Jamie", 5, "Lovely quality.", "approved", ts)
			exec(`INSERT INTO reviews(id,store_id,product_id,author,rating,body,status,created_at) VALUES(?,?,?,?,?,?,?,?)`,
				s.slug+"-review-2", storeID, s.slug+"-"+s.products[0].slug, "Sam", 3, "Runs a bit small.", "pending", ts)
		}

		for key, tpl := range defaultTemplates {
			exec(`INSERT INTO notification_templates(id,store_id,template_key,subject,body,is_active) VALUES(?,?,?,?,?,?)`,
				s.slug+"-tpl-"+strings.ReplaceAll(key, ".", "-"), storeID, key, tpl[0], tpl[1], true)
		}

		exec(`INSERT INTO pos_transactions(id,store_id,register,cashier,total,payment_method,items_count,created_at) VALUES(?,?,?,?,?,?,?,?)`,
			s.slug+"-pos-1", storeID, "Front desk", "Robin", "48.50", "card", 3, ts)
		exec(`INSERT INTO pos_transactions(id,store_id,register,cashier,total,payment_method,items_count,created_at) VALUES(?,?,?,?,?,?,?,?)`,
			s.slug+"-pos-2", storeID, "Front desk", "Robin", "12.00", "cash", 1, ts)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

var defaultTemplates = map[string][2]string{
	"newsletter.welcome": {"Welcome to {{.Store.Name}}", "Hi {{.Email}},\n\nThanks for subscribing to {{.Store.Name}}. New arrivals and offers will land in your inbox.\n"},
	"order.confirmation": {"Your {{.Store.Name}} order {{.Order.Number}}", "Hi {{.Order.CustomerName}},\n\nWe received order {{.Order.Number}}. Total: {{.Total}}.\n"},
	"password.reset":     {"Reset your {{.Store.Name}} password", "Use this link within one hour: {{.Link}}\n"},
}

var (
	demoHashOnce sync.Once
	demoHash     string
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "Passw0rd!"

func demoPasswordHash() string {
	demoHashOnce.Do(func() {
		h, _ := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		demoHash = string(h)
	})
	return demoHash
}

// seedUsers ensures the demo accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	users := []domain.User{
		{ID: "u-admin", StoreID: "st-maison", Email: "admin@shopfront.test", Name: "Admin", Role: "ADMIN"},
		{ID: "u-manager", StoreID: "st-tiny-steps", Email: "manager@shopfront.test", Name: "Morgan", Role: "MANAGER"},
		{ID: "u-staff", StoreID: "st-tiny-steps", Email: "staff@shopfront.test", Name: "Sasha", Role: "STAFF"},
		{ID: "u-alice", StoreID: "st-tiny-steps", Email: "alice@shopfront.test", Name: "Alice", Role: "USER"},
		{ID: "u-bob", StoreID: "st-maison", Email: "bob@shopfront.test", Name: "Bob", Role: "USER"},
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	for _, u := range users {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO users(id,store_id,email,name,password_hash,role,created_at)
			VALUES(?,?,?,?,?,?,?)
			ON CONFLICT(id) DO NOTHING
		`), u.ID, u.StoreID, u.Email, u.Name, demoPasswordHash(), u.Role, ts); err != nil {
			return err
		}
	}
	return tx.Commit()
}
