package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/log"
	"shopfront/internal/services"
	"shopfront/internal/theme"
	"shopfront/internal/validate"
)

type SearchHandler struct {
	*Site
	Catalog *services.CatalogService
}

// Search renders results through the category page so every theme that
// styles its category listing styles search too.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	store := storeOf(c)
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		return h.page(c, theme.PageCategory, fiber.Map{"Search": true, "Q": "", "Products": nil, "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		c.Status(fiber.StatusBadRequest)
		return h.page(c, theme.PageCategory, fiber.Map{
			"Search": true, "Q": "", "Products": nil, "Count": 0, "Err": "Enter a valid keyword (letters/numbers only)",
		})
	}
	page := validate.Page(c.Query("page"))
	products, err := h.Catalog.Search(store.ID, q, page)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load results. Please retry."})
	}
	return h.page(c, theme.PageCategory, fiber.Map{
		"Search":   true,
		"Q":        q,
		"Products": products,
		"Cards":    h.cards(c, products, h.snapshot(c)),
		"Count":    len(products),
		"Page":     page,
		"HasPrev":  page > 1,
		"HasNext":  len(products) == services.PageSize,
	})
}
