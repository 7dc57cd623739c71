package handlers

import (
	"html/template"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/config"
	"shopfront/internal/content"
	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/services"
	"shopfront/internal/theme"
)

const (
	storeLayout = "layouts/main"
	adminLayout = "layouts/admin"
)

// Site holds what every storefront page needs: the tenant, its theme set,
// the shared cart/wishlist state and the composed layout sections.
type Site struct {
	Stores   *repos.StoreRepo
	Cats     *repos.CategoryRepo
	Resolver *theme.Resolver
	Composer *theme.Composer
	Commerce *services.CommerceService
	Perms    *config.PermissionConfig
}

func csrfToken(c *fiber.Ctx) string {
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// the cookie carries the same token when Locals was not populated
		tok = c.Cookies("csrf_")
	}
	return tok
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// render is the plain (non-themed) renderer used by admin and error pages.
func render(c *fiber.Ctx, tmpl string, data fiber.Map, layout ...string) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := currentUser(c); u != nil {
		data["User"] = u
	}
	data["CSRFToken"] = csrfToken(c)
	return c.Render(tmpl, data, layout...)
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}

// common builds the props shared by the page and its sections.
func (s *Site) common(c *fiber.Ctx) fiber.Map {
	store := storeOf(c)
	set := setOf(c)
	sid := ensureSID(c)

	snap, err := s.Commerce.Snapshot(c.UserContext(), store.ID, sid)
	if err != nil {
		applog.Error(c, "commerce.snapshot", err, nil)
		snap = services.Snapshot{}
	}
	sections, err := s.Stores.Content(store.ID)
	if err != nil {
		applog.Error(c, "content.load", err, nil)
	}
	var footer content.Footer
	var news content.Newsletter
	_ = content.Bind(&footer, sections["footer"])
	_ = content.Bind(&news, sections["newsletter"])

	nav, err := s.Cats.Active(store.ID)
	if err != nil {
		applog.Error(c, "categories.nav", err, nil)
	}

	return fiber.Map{
		"Store":             store,
		"Theme":             set.Theme,
		"User":              currentUser(c),
		"CSRFToken":         csrfToken(c),
		"Cart":              snap,
		"Nav":               nav,
		"Content":           sections,
		"Footer":            footer,
		"Newsletter":        news,
		"SubscribedDisplay": services.SubscribedDisplay.Milliseconds(),
	}
}

// page renders kind through the store's theme set. A variant that fails to
// execute is logged and the generic page is rendered instead.
func (s *Site) page(c *fiber.Ctx, kind theme.PageKind, data fiber.Map) error {
	set := setOf(c)
	props := s.common(c)
	for k, v := range data {
		props[k] = v
	}
	props["Sections"] = s.Composer.Sections(c, set, props, theme.SectionHeader, theme.SectionFooter, theme.SectionNewsletter)

	name := set.Page(kind)
	err := c.Render(name, props, storeLayout)
	if err == nil {
		return nil
	}
	generic := theme.GenericPage(kind)
	if name == generic {
		return err
	}
	applog.Error(c, "theme.page.render", err, map[string]any{"theme": set.Theme, "kind": kind, "template": name})
	return c.Render(generic, props, storeLayout)
}

// cards renders each product through the theme's product card section.
func (s *Site) cards(c *fiber.Ctx, products []domain.Product, snap services.Snapshot) []template.HTML {
	set := setOf(c)
	store := storeOf(c)
	out := make([]template.HTML, 0, len(products))
	for _, p := range products {
		out = append(out, s.Composer.Section(c, set, theme.SectionProductCard, fiber.Map{
			"Store":      store,
			"Product":    p,
			"InWishlist": snap.InWishlist(p.ID),
			"CSRFToken":  csrfToken(c),
		}))
	}
	return out
}

// snapshot reads the visitor's cart state for handlers that need it
// before calling page.
func (s *Site) snapshot(c *fiber.Ctx) services.Snapshot {
	snap, err := s.Commerce.Snapshot(c.UserContext(), storeOf(c).ID, ensureSID(c))
	if err != nil {
		applog.Error(c, "commerce.snapshot", err, nil)
	}
	return snap
}
