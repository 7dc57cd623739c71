package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/content"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/routes"
	"shopfront/internal/services"
)

type NewsletterHandler struct {
	Stores *repos.StoreRepo
	News   *services.NewsletterService
}

type subscribeRequest struct {
	Email     string `json:"email" form:"email"`
	StoreSlug string `json:"store_slug" form:"store_slug"`
}

// Subscribe answers {success, message}. Plain form posts (no script) are
// redirected back to the page they came from.
func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}
	store, err := h.Stores.BySlug(req.StoreSlug)
	if errors.Is(err, repos.ErrNotFound) {
		return h.reply(c, fiber.StatusNotFound, false, "Store not found", "")
	}
	if err != nil {
		applog.Error(c, "newsletter.store", err, nil)
		return h.reply(c, fiber.StatusInternalServerError, false, "Something went wrong, please retry", "")
	}

	err = h.News.Subscribe(c.UserContext(), store, req.Email)
	switch {
	case err == nil:
		sections, _ := h.Stores.Content(store.ID)
		var nl content.Newsletter
		_ = content.Bind(&nl, sections["newsletter"])
		applog.Audit(c, "newsletter.subscribe", map[string]any{"store": store.Slug})
		return h.reply(c, fiber.StatusOK, true, nl.Success, store.Slug)
	case errors.Is(err, services.ErrInvalidEmail):
		return h.reply(c, fiber.StatusUnprocessableEntity, false, err.Error(), store.Slug)
	case errors.Is(err, services.ErrSubmissionInFlight):
		applog.Security(c, "newsletter.duplicate", map[string]any{"store": store.Slug})
		return h.reply(c, fiber.StatusConflict, false, err.Error(), store.Slug)
	case errors.Is(err, services.ErrAlreadySubscribed):
		return h.reply(c, fiber.StatusOK, false, err.Error(), store.Slug)
	}
	applog.Error(c, "newsletter.subscribe", err, map[string]any{"store": store.Slug})
	return h.reply(c, fiber.StatusInternalServerError, false, "Something went wrong, please retry", store.Slug)
}

func (h *NewsletterHandler) reply(c *fiber.Ctx, status int, ok bool, msg, slug string) error {
	if c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML && !c.Is("json") {
		back := c.Get(fiber.HeaderReferer)
		if back == "" && slug != "" {
			back = routes.URL("store.home", slug)
		}
		if back == "" {
			back = routes.Path("home")
		}
		return c.Redirect(back)
	}
	body := fiber.Map{"success": ok}
	if msg != "" {
		body["message"] = msg
	}
	return c.Status(status).JSON(body)
}
