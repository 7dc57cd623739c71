package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/content"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/services"
	"shopfront/internal/theme"
	"shopfront/internal/validate"
)

type CategoryHandler struct {
	*Site
	Catalog *services.CatalogService
}

func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	store := storeOf(c)
	home, err := h.Catalog.Home(c.UserContext(), store.ID)
	if err != nil {
		applog.Error(c, "home.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the store. Please retry."})
	}

	sections, _ := h.Stores.Content(store.ID)
	var hero content.Hero
	var boxes content.CTABoxes
	var logos content.Logos
	_ = content.Bind(&hero, sections["hero"])
	_ = content.Bind(&boxes, sections["cta_boxes"])
	_ = content.Bind(&logos, sections["logos"])
	if hero.CTALink == "" && len(home.Categories) > 0 {
		hero.CTALink = "/s/" + store.Slug + "/categories/" + home.Categories[0].Slug
	}

	snap := h.snapshot(c)
	return h.page(c, theme.PageHome, fiber.Map{
		"Home":     home,
		"Hero":     h.Composer.Section(c, setOf(c), theme.SectionHero, fiber.Map{"Store": store, "Hero": hero}),
		"CTABoxes": boxes.Boxes,
		"Logos":    logos.Logos,
		"Cards":    h.cards(c, home.Latest, snap),
	})
}

func (h *CategoryHandler) Category(c *fiber.Ctx) error {
	store := storeOf(c)
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		return notFound(c, "Category not found")
	}
	page := validate.Page(c.Query("page"))
	cat, products, err := h.Catalog.CategoryPage(store.ID, slug, page)
	if errors.Is(err, repos.ErrNotFound) {
		return notFound(c, "Category not found")
	}
	if err != nil {
		applog.Error(c, "category.load", err, map[string]any{"slug": slug})
		return err
	}
	return h.page(c, theme.PageCategory, fiber.Map{
		"Category": cat,
		"Products": products,
		"Cards":    h.cards(c, products, h.snapshot(c)),
		"Page":     page,
		"HasPrev":  page > 1,
		"HasNext":  len(products) == services.PageSize,
	})
}
