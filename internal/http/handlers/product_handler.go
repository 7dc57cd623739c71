package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/services"
	"shopfront/internal/theme"
	"shopfront/internal/validate"
)

type ProductHandler struct {
	*Site
	Catalog *services.CatalogService
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	store := storeOf(c)
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "This item is no longer available")
	}
	p, reviews, err := h.Catalog.Product(store.ID, slug)
	if errors.Is(err, repos.ErrNotFound) || (err == nil && !p.Active) {
		return notFound(c, "This item is no longer available")
	}
	if err != nil {
		log.Error(c, "product.load", err, map[string]any{"slug": slug})
		return err
	}
	snap := h.snapshot(c)
	return h.page(c, theme.PageProduct, fiber.Map{
		"P":          p,
		"Reviews":    reviews,
		"InWishlist": snap.InWishlist(p.ID),
		"Err":        c.Query("err"),
	})
}
