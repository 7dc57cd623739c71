package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/theme"
)

// Tenant resolves the :store slug into the store and its template set.
// Unknown slugs are 404.
func Tenant(stores *repos.StoreRepo, resolver *theme.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, err := stores.BySlug(c.Params("store"))
		if errors.Is(err, repos.ErrNotFound) {
			return notFound(c, "Store not found")
		}
		if err != nil {
			applog.Error(c, "tenant.lookup", err, map[string]any{"slug": c.Params("store")})
			return err
		}
		c.Locals("store", store)
		c.Locals("themeSet", resolver.ForStore(store.ID, store.Theme))
		return c.Next()
	}
}

func storeOf(c *fiber.Ctx) *domain.Store {
	s, _ := c.Locals("store").(*domain.Store)
	return s
}

func setOf(c *fiber.Ctx) *theme.Set {
	s, _ := c.Locals("themeSet").(*theme.Set)
	return s
}
