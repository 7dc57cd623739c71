package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
	"shopfront/internal/routes"
	"shopfront/internal/services"
	"shopfront/internal/theme"
	"shopfront/internal/validate"
)

type WishlistHandler struct {
	*Site
	Commerce *services.CommerceService
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Commerce.Wishlist(c.UserContext(), storeOf(c).ID, sid)
	if err != nil {
		applog.Error(c, "wishlist.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load wishlist"})
	}
	return h.page(c, theme.PageWishlist, fiber.Map{"Items": items})
}

// Toggle is the form fallback of the heart button.
func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	sid := ensureSID(c)
	store := storeOf(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	saved, _, err := h.Commerce.ToggleWishlist(c.UserContext(), store.ID, sid, pid)
	if err != nil {
		status, msg, known := commerceStatus(err)
		if !known {
			applog.Error(c, "wishlist.toggle.fail", err, map[string]any{"product": pid})
		}
		return c.Status(status).SendString(msg)
	}
	applog.Audit(c, "wishlist.toggle", map[string]any{"product": pid, "saved": saved})
	back := c.Get(fiber.HeaderReferer)
	if back == "" {
		back = routes.URL("store.wishlist", store.Slug)
	}
	return c.Redirect(back)
}

type toggleRequest struct {
	ProductID string `json:"product_id"`
}

func (h *WishlistHandler) APIToggle(c *fiber.Ctx) error {
	sid := ensureSID(c)
	store := storeOf(c)
	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}
	saved, snap, err := h.Commerce.ToggleWishlist(c.UserContext(), store.ID, sid, pid)
	if err != nil {
		status, msg, known := commerceStatus(err)
		if !known {
			applog.Error(c, "api.wishlist.toggle", err, map[string]any{"product": pid})
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
	}
	applog.Audit(c, "wishlist.toggle", map[string]any{"product": pid, "saved": saved})
	return c.JSON(fiber.Map{"success": true, "saved": saved, "state": snap})
}
