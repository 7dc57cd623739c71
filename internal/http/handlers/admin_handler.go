package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/notify"
	"shopfront/internal/repos"
	"shopfront/internal/routes"
	"shopfront/internal/services"
	"shopfront/internal/theme"
	"shopfront/internal/validate"
)

const lowStockThreshold = 5

type AdminHandler struct {
	Stores    *repos.StoreRepo
	Resolver  *theme.Resolver
	Orders    *services.OrderService
	OrderRepo *repos.OrderRepo
	Inventory *repos.InventoryRepo
	Reviews   *repos.ReviewRepo
	Templates *repos.TemplateRepo
	Subs      *repos.NewsletterRepo
	Resources []AdminResource
}

// Scope loads the store the signed-in staff member administers.
func (h *AdminHandler) Scope(c *fiber.Ctx) error {
	u := currentUser(c)
	s, err := h.Stores.ByID(u.StoreID)
	if err != nil {
		applog.Security(c, "access.denied.admin.store", map[string]any{"store_id": u.StoreID})
		return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
	}
	c.Locals("store", s)
	return c.Next()
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	s := storeOf(c)
	stats, err := h.OrderRepo.Stats(s.ID)
	if err != nil {
		applog.Error(c, "admin.dashboard.stats", err, nil)
	}
	low, err := h.Inventory.LowStock(s.ID, lowStockThreshold, 10)
	if err != nil {
		applog.Error(c, "admin.dashboard.lowstock", err, nil)
	}
	subs, err := h.Subs.Count(s.ID)
	if err != nil {
		applog.Error(c, "admin.dashboard.subscribers", err, nil)
	}
	return render(c, "admin/dashboard", fiber.Map{
		"Store":       s,
		"Stats":       stats,
		"LowStock":    low,
		"Subscribers": subs,
		"Themes":      theme.All,
		"Current":     theme.Parse(s.Theme),
		"Flash":       c.Query("msg"),
	}, adminLayout)
}

// POST /admin/theme switches the storefront theme. The memoized template
// set of the store is dropped so the next request resolves the new one.
func (h *AdminHandler) Theme(c *fiber.Ctx) error {
	s := storeOf(c)
	raw := c.FormValue("theme")
	id := theme.Parse(raw)
	if string(id) != raw {
		return c.Status(fiber.StatusUnprocessableEntity).SendString("unknown theme")
	}
	if err := h.Stores.UpdateTheme(s.ID, id.String()); err != nil {
		applog.Error(c, "admin.theme.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).SendString("could not change theme")
	}
	h.Resolver.Invalidate(s.ID)
	applog.Audit(c, "admin.theme.update", map[string]any{"from": s.Theme, "to": id})
	return c.Redirect(routes.Path("admin.dashboard") + "?msg=Theme+updated")
}

// POST /admin/orders/:id/status
func (h *AdminHandler) OrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status := c.FormValue("status")
	if !validate.OneOf(status, domain.OrderStatuses...) {
		return c.Status(fiber.StatusBadRequest).SendString("unknown status")
	}
	err := h.Orders.SetStatus(c.UserContext(), storeOf(c).ID, id, status)
	if errors.Is(err, repos.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	if err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusBadRequest).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect(routes.URL("orders.show", id) + "?msg=Status+updated")
}

func (h *AdminHandler) reviewStatus(status string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		err := h.Reviews.SetStatus(storeOf(c).ID, id, status)
		if errors.Is(err, repos.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Review not found"})
		}
		if err != nil {
			applog.Error(c, "admin.reviews.moderate.fail", err, map[string]any{"review_id": id})
			return c.Status(fiber.StatusBadRequest).SendString("could not update review")
		}
		applog.Audit(c, "admin.reviews.moderate", map[string]any{"review_id": id, "status": status})
		back := c.Get(fiber.HeaderReferer)
		if back == "" {
			back = routes.URL("reviews.index")
		}
		return c.Redirect(back)
	}
}

// ApproveReview and RejectReview publish or hide a review.
func (h *AdminHandler) ApproveReview(c *fiber.Ctx) error { return h.reviewStatus("approved")(c) }
func (h *AdminHandler) RejectReview(c *fiber.Ctx) error  { return h.reviewStatus("rejected")(c) }

// POST /admin/templates/:id/preview renders the submitted subject and body
// against sample data without saving them.
func (h *AdminHandler) PreviewTemplate(c *fiber.Ctx) error {
	s := storeOf(c)
	t, err := h.Templates.Get(s.ID, c.Params("id"))
	if errors.Is(err, repos.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Template not found"})
	}
	if err != nil {
		applog.Error(c, "admin.templates.preview", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false})
	}
	if subject := c.FormValue("subject"); subject != "" {
		t.Subject = subject
	}
	if body := c.FormValue("body"); body != "" {
		t.Body = body
	}
	msg, err := notify.Render(t, previewData(s))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "subject": msg.Subject, "body": msg.Body})
}
