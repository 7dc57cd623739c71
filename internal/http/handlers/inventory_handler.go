package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/routes"
)

type InventoryHandler struct {
	Inventory *repos.InventoryRepo
}

// SetStock is the quick stock edit of the product list and the low stock
// panel: POST /admin/products/:id/stock with qty.
func (h *InventoryHandler) SetStock(c *fiber.Ctx) error {
	id := c.Params("id")
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("qty")))
	if err != nil || qty < 0 || qty > 1_000_000 {
		applog.Security(c, "validation.fail", map[string]any{"field": "qty"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	err = h.Inventory.SetStock(storeOf(c).ID, id, qty)
	if errors.Is(err, repos.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	if err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"product": id, "qty": qty})
		return c.Status(fiber.StatusBadRequest).SendString("could not save inventory")
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product": id, "qty": qty})
	back := c.Get(fiber.HeaderReferer)
	if back == "" {
		back = routes.URL("products.show", id)
	}
	return c.Redirect(back)
}
