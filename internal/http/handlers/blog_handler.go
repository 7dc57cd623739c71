package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/content"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/routes"
	"shopfront/internal/services"
	"shopfront/internal/theme"
	"shopfront/internal/validate"
)

type BlogHandler struct {
	*Site
	Blog *services.BlogService
}

func (h *BlogHandler) List(c *fiber.Ctx) error {
	store := storeOf(c)
	posts, err := h.Blog.List(store.ID, validate.Page(c.Query("page")), routes.URL("store.blog", store.Slug))
	if err != nil {
		applog.Error(c, "blog.list", err, nil)
		return err
	}
	sections, _ := h.Stores.Content(store.ID)
	var header content.BlogHeader
	_ = content.Bind(&header, sections["blog_header"])
	return h.page(c, theme.PageBlog, fiber.Map{"Posts": posts, "Header": header})
}

func (h *BlogHandler) Show(c *fiber.Ctx) error {
	store := storeOf(c)
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return notFound(c, "Post not found")
	}
	post, err := h.Blog.Post(store.ID, slug)
	if errors.Is(err, repos.ErrNotFound) {
		return notFound(c, "Post not found")
	}
	if err != nil {
		applog.Error(c, "blog.show", err, map[string]any{"slug": slug})
		return err
	}
	return h.page(c, theme.PageBlogPost, fiber.Map{"Post": post})
}
