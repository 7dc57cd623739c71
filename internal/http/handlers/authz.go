package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/config"
	applog "shopfront/internal/log"
	"shopfront/internal/routes"
	"shopfront/internal/services"
)

// LoadUser puts the signed-in user, if any, into Locals("user").
func LoadUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// RequireBackOffice lets staff roles into /admin.
func RequireBackOffice() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return c.Redirect(routes.Path("admin.login"))
		}
		if !u.IsBackOffice() {
			applog.Security(c, "access.denied.admin", map[string]any{"role": u.Role})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		return c.Next()
	}
}

// permissionAction folds route actions onto the permission they need:
// the form and the submit of a change share one permission.
func permissionAction(resource, action string) string {
	switch action {
	case "create", "store":
		action = "create"
	case "edit", "update":
		action = "edit"
	case "delete", "destroy":
		action = "delete"
	}
	return resource + "." + action
}

// RequirePermission checks the signed-in user's role against the role table.
func RequirePermission(perms *config.PermissionConfig, resource, action string) fiber.Handler {
	perm := permissionAction(resource, action)
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil || !perms.Allows(u.Role, perm) {
			applog.Security(c, "access.denied.permission", map[string]any{"permission": perm})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		return c.Next()
	}
}
