package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/routes"
	"shopfront/internal/services"
	"shopfront/internal/theme"
	"shopfront/internal/validate"
)

type CartHandler struct {
	*Site
	Commerce *services.CommerceService
	Orders   *services.OrderService
}

// commerceStatus maps commerce errors onto a status and a message safe to
// show the customer. ok is false for unexpected errors.
func commerceStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, services.ErrProductUnavailable):
		return fiber.StatusNotFound, "This item is no longer available", true
	case errors.Is(err, services.ErrInvalidOptions):
		return fiber.StatusUnprocessableEntity, "Please choose valid options", true
	case errors.Is(err, services.ErrOutOfStock):
		return fiber.StatusConflict, "Not enough stock for this item", true
	case errors.Is(err, services.ErrToggleInFlight):
		return fiber.StatusConflict, "Already updating, please wait", true
	}
	return fiber.StatusInternalServerError, "Something went wrong, please retry", false
}

// formOptions collects opt_<axis> form fields into a variant selection.
func formOptions(c *fiber.Ctx) domain.Options {
	opts := domain.Options{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		if name, ok := strings.CutPrefix(string(k), "opt_"); ok && name != "" {
			opts[name] = string(v)
		}
	})
	if len(opts) == 0 {
		return nil
	}
	return opts
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	return h.view(c, "")
}

func (h *CartHandler) view(c *fiber.Ctx, msg string) error {
	store := storeOf(c)
	snap := h.snapshot(c)
	quotes, err := h.Orders.ShippingOptions(store.ID, snap.Total)
	if err != nil {
		applog.Error(c, "cart.shipping", err, nil)
	}
	return h.page(c, theme.PageCart, fiber.Map{"Shipping": quotes, "Err": msg})
}

// Add is the form fallback of the add-to-cart button.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	store := storeOf(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	if _, err := h.Commerce.AddToCart(c.UserContext(), store.ID, sid, productID, qty, formOptions(c)); err != nil {
		status, msg, known := commerceStatus(err)
		if !known {
			applog.Error(c, "cart.add", err, map[string]any{"product": productID})
		}
		c.Status(status)
		return h.view(c, msg)
	}
	applog.Audit(c, "cart.add", map[string]any{"product": productID, "qty": qty})
	return c.Redirect(routes.URL("store.cart", store.Slug))
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	store := storeOf(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	// qty 0 removes the line
	n := 0
	if raw := c.FormValue("qty"); strings.TrimSpace(raw) != "0" {
		n = validate.Qty(raw)
	}
	if _, err := h.Commerce.UpdateQty(c.UserContext(), store.ID, sid, productID, c.FormValue("optionsKey"), n); err != nil {
		status, msg, known := commerceStatus(err)
		if !known {
			applog.Error(c, "cart.update", err, map[string]any{"product": productID})
		}
		c.Status(status)
		return h.view(c, msg)
	}
	return c.Redirect(routes.URL("store.cart", store.Slug))
}

type addRequest struct {
	ProductID string         `json:"product_id"`
	Qty       int            `json:"qty"`
	Options   domain.Options `json:"options"`
}

// APIAdd adds a line and answers with the fresh snapshot, which the page
// script uses to redraw the cart badge.
func (h *CartHandler) APIAdd(c *fiber.Ctx) error {
	sid := ensureSID(c)
	store := storeOf(c)
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}
	if req.Qty > 50 {
		req.Qty = 50
	}
	snap, err := h.Commerce.AddToCart(c.UserContext(), store.ID, sid, productID, req.Qty, req.Options)
	if err != nil {
		status, msg, known := commerceStatus(err)
		if !known {
			applog.Error(c, "api.cart.add", err, map[string]any{"product": productID})
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
	}
	applog.Audit(c, "cart.add", map[string]any{"product": productID, "qty": req.Qty})
	return c.JSON(fiber.Map{"success": true, "state": snap})
}

func (h *CartHandler) APIState(c *fiber.Ctx) error {
	snap, err := h.Commerce.Snapshot(c.UserContext(), storeOf(c).ID, ensureSID(c))
	if err != nil {
		applog.Error(c, "api.state", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false})
	}
	return c.JSON(fiber.Map{"success": true, "state": snap})
}
