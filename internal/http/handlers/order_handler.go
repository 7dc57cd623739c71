package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
	"shopfront/internal/routes"
	"shopfront/internal/services"
	"shopfront/internal/theme"
	"shopfront/internal/validate"
)

type OrderHandler struct {
	*Site
	Orders *services.OrderService
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	return h.checkout(c, fiber.Map{})
}

func (h *OrderHandler) checkout(c *fiber.Ctx, data fiber.Map) error {
	store := storeOf(c)
	snap := h.snapshot(c)
	quotes, err := h.Orders.ShippingOptions(store.ID, snap.Total)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	data["Shipping"] = quotes
	if u := currentUser(c); u != nil {
		if _, ok := data["Name"]; !ok {
			data["Name"], data["Email"] = u.Name, u.Email
		}
	}
	return h.page(c, theme.PageCheckout, data)
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	store := storeOf(c)
	form := fiber.Map{
		"Name":    c.FormValue("name"),
		"Email":   c.FormValue("email"),
		"Address": c.FormValue("address"),
	}
	invalid := func(field, msg string) error {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		form["Err"] = msg
		c.Status(fiber.StatusBadRequest)
		return h.checkout(c, form)
	}

	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return invalid("email", "Please enter a valid email address")
	}
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return invalid("name", "Please enter your name")
	}
	address := strings.TrimSpace(c.FormValue("address"))
	if address == "" || len(address) > 500 {
		return invalid("address", "Please enter a shipping address")
	}
	shipping := strings.TrimSpace(c.FormValue("shipping"))
	if shipping != "" {
		if _, ok := validate.ID(shipping); !ok {
			return invalid("shipping", "Please choose a shipping method")
		}
	}

	o, err := h.Orders.Checkout(c.UserContext(), store, sid, currentUser(c).GetID(), services.Contact{
		Name: name, Email: strings.ToLower(email), Address: address, Shipping: shipping,
	})
	if err != nil {
		msg := "Could not place order. Please review quantities and try again."
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			msg = "Your cart is empty"
		case errors.Is(err, services.ErrInvalidShipping):
			msg = "Please choose a shipping method"
		case errors.Is(err, services.ErrOutOfStock):
		default:
			applog.Error(c, "order.place", err, nil)
			return err
		}
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		form["Err"] = msg
		c.Status(fiber.StatusBadRequest)
		return h.checkout(c, form)
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "number": o.Number, "total": o.Total.StringFixed(2)})
	return c.Redirect(routes.URL("store.order-detail", store.Slug, o.Number))
}

// History lists the signed-in user's orders, or the session's for guests.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.ForCustomer(storeOf(c).ID, currentUser(c).GetID(), ensureSID(c))
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return h.page(c, theme.PageOrders, fiber.Map{"Orders": orders})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	number := c.Params("number")
	o, items, err := h.Orders.Order(storeOf(c).ID, number, currentUser(c).GetID(), ensureSID(c))
	if errors.Is(err, services.ErrOrderNotFound) {
		applog.Security(c, "access.denied.order", map[string]any{"number": number})
		return notFound(c, "Order not found")
	}
	if err != nil {
		applog.Error(c, "order.view", err, nil)
		return err
	}
	return h.page(c, theme.PageOrderDetail, fiber.Map{"Order": o, "Items": items})
}
