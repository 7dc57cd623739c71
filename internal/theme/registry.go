package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	applog "shopfront/internal/log"
)

// PageKind is a logical storefront page.
type PageKind string

const (
	PageHome           PageKind = "home"
	PageProduct        PageKind = "product"
	PageCategory       PageKind = "category"
	PageCart           PageKind = "cart"
	PageCheckout       PageKind = "checkout"
	PageOrders         PageKind = "orders"
	PageOrderDetail    PageKind = "order-detail"
	PageWishlist       PageKind = "wishlist"
	PageLogin          PageKind = "login"
	PageRegister       PageKind = "register"
	PageForgotPassword PageKind = "forgot-password"
	PageResetPassword  PageKind = "reset-password"
	PageBlog           PageKind = "blog"
	PageBlogPost       PageKind = "blog-post"
)

var Pages = []PageKind{
	PageHome, PageProduct, PageCategory, PageCart, PageCheckout, PageOrders, PageOrderDetail,
	PageWishlist, PageLogin, PageRegister, PageForgotPassword, PageResetPassword, PageBlog, PageBlogPost,
}

// SectionKind is a fragment composed into pages.
type SectionKind string

const (
	SectionHeader      SectionKind = "header"
	SectionFooter      SectionKind = "footer"
	SectionHero        SectionKind = "hero"
	SectionProductCard SectionKind = "product-card"
	SectionNewsletter  SectionKind = "newsletter"
)

var Sections = []SectionKind{SectionHeader, SectionFooter, SectionHero, SectionProductCard, SectionNewsletter}

// Declared lists, per page or section kind, the themes that ship a variant.
type Declared struct {
	Pages    map[PageKind][]ID
	Sections map[SectionKind][]ID
}

// Shipped is the variant table for the templates under web/templates.
var Shipped = Declared{
	Pages: map[PageKind][]ID{
		PageOrders:   {Fashion, Beauty, Electronics, Jewelry, Furniture, Automotive, BabyKids, Perfume, Watches},
		PageWishlist: {Fashion, Beauty, Electronics, BabyKids},
		PageLogin:    {Fashion, Beauty, Jewelry},
		PageHome:     {Fashion, Electronics, BabyKids},
		PageBlog:     {Fashion, Furniture},
	},
	Sections: map[SectionKind][]ID{
		SectionHero:        {Fashion, Electronics, BabyKids},
		SectionFooter:      {Fashion, Jewelry},
		SectionProductCard: {Electronics, BabyKids},
		SectionNewsletter:  {Beauty, Perfume},
	},
}

// Template names are paths relative to the template root without extension,
// which is how the html view engine names them.
func GenericPage(k PageKind) string        { return "pages/" + string(k) }
func GenericSection(k SectionKind) string  { return "sections/" + string(k) }
func VariantPage(id ID, k PageKind) string { return "themes/" + string(id) + "/" + string(k) }
func VariantSection(id ID, k SectionKind) string {
	return "themes/" + string(id) + "/sections/" + string(k)
}

// Registry is the kind -> theme -> template lookup table. It is immutable
// after NewRegistry and safe for concurrent use.
type Registry struct {
	pages    map[PageKind]map[ID]string
	sections map[SectionKind]map[ID]string
	ext      string
}

// ErrMissingGeneric is returned by NewRegistry when a kind has no generic
// template to fall back to.
var ErrMissingGeneric = errors.New("theme: generic template missing")

// NewRegistry checks every generic template and every declared variant
// against fsys (rooted at the template directory). Missing variants are
// logged and dropped; a missing generic template is an error.
func NewRegistry(fsys fs.FS, ext string, declared Declared) (*Registry, error) {
	r := &Registry{
		pages:    make(map[PageKind]map[ID]string, len(Pages)),
		sections: make(map[SectionKind]map[ID]string, len(Sections)),
		ext:      ext,
	}
	var missing []string
	for _, k := range Pages {
		if !r.exists(fsys, GenericPage(k)) {
			missing = append(missing, GenericPage(k))
		}
		r.pages[k] = map[ID]string{}
		for _, id := range declared.Pages[k] {
			if name := VariantPage(id, k); r.exists(fsys, name) {
				r.pages[k][id] = name
			} else {
				applog.Error(nil, "theme.variant.missing", fs.ErrNotExist, map[string]any{"theme": id, "kind": k, "template": name})
			}
		}
	}
	for _, k := range Sections {
		if !r.exists(fsys, GenericSection(k)) {
			missing = append(missing, GenericSection(k))
		}
		r.sections[k] = map[ID]string{}
		for _, id := range declared.Sections[k] {
			if name := VariantSection(id, k); r.exists(fsys, name) {
				r.sections[k][id] = name
			} else {
				applog.Error(nil, "theme.variant.missing", fs.ErrNotExist, map[string]any{"theme": id, "kind": k, "template": name})
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %v", ErrMissingGeneric, missing)
	}
	return r, nil
}

func (r *Registry) exists(fsys fs.FS, name string) bool {
	fi, err := fs.Stat(fsys, path.Clean(name+r.ext))
	return err == nil && !fi.IsDir()
}

// Page returns the template for kind under theme id: the variant when one is
// registered, the generic template otherwise.
func (r *Registry) Page(k PageKind, id ID) string {
	if name, ok := r.pages[k][id]; ok {
		return name
	}
	return GenericPage(k)
}

func (r *Registry) Section(k SectionKind, id ID) string {
	if name, ok := r.sections[k][id]; ok {
		return name
	}
	return GenericSection(k)
}

// Variants reports which themes have a registered variant of page k.
func (r *Registry) Variants(k PageKind) []ID {
	out := make([]ID, 0, len(r.pages[k]))
	for _, id := range All {
		if _, ok := r.pages[k][id]; ok {
			out = append(out, id)
		}
	}
	return out
}
