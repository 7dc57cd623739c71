package handlers

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"shopfront/internal/config"
	applog "shopfront/internal/log"
	"shopfront/internal/routes"
)

// ErrorHandler logs the error and shows a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		status = fe.Code
	}
	applog.Error(c, "server.error", err, map[string]any{"status": status})
	msg := "Something went wrong. Please try again."
	if status == fiber.StatusNotFound {
		msg = "Page not found"
	}
	if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}

var errMissingToken = errors.New("missing csrf token")

// csrfExtractor reads the token from the X-CSRF-TOKEN header used by the page
// scripts, or from the csrf form field of plain forms.
func csrfExtractor(c *fiber.Ctx) (string, error) {
	if tok := c.Get("X-CSRF-TOKEN"); tok != "" {
		return tok, nil
	}
	if tok := c.FormValue("csrf"); tok != "" {
		return tok, nil
	}
	return "", errMissingToken
}

// NewApp builds the fiber app with the middleware stack and every route.
func NewApp(cfg config.Config, views fiber.Views, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views,
		ErrorHandler: ErrorHandler,
		BodyLimit:    4 << 20, // cover uploads
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		// product images may come from the media CDN
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		Extractor:      csrfExtractor,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Security check failed. Please refresh and try again."})
			}
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	if cfg.StaticDir != "" {
		app.Static("/static", cfg.StaticDir)
	}
	if cfg.MediaDir != "" {
		app.Get("/media/*", mediaHandler(cfg.MediaDir))
	}

	Register(app, d)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
	return app
}

// mediaHandler serves uploaded files from dir, refusing traversal.
func mediaHandler(dir string) fiber.Handler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(dir, clean), true)
	}
}

var postActions = map[string]bool{"store": true, "update": true, "destroy": true}

// Register mounts every named route.
func Register(app *fiber.App, d *Deps) {
	app.Use(LoadUser(d.Auth))
	path := routes.Path

	app.Get(path("home"), d.StoreIndex)

	// storefront
	tenant := Tenant(d.Stores, d.Resolver)
	searchLimiter := limiter.New(limiter.Config{Max: 20, Expiration: time.Minute})
	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("notfound", fiber.Map{"Message": "Too many attempts. Please try again later."})
		},
	})

	app.Get(path("store.home"), tenant, d.CategoryHandler.Home)
	app.Get(path("store.search"), tenant, searchLimiter, d.SearchHandler.Search)
	app.Get(path("store.category"), tenant, d.CategoryHandler.Category)
	app.Get(path("store.product"), tenant, d.ProductHandler.Detail)
	app.Get(path("store.cart"), tenant, d.CartHandler.View)
	app.Post(path("store.cart"), tenant, d.CartHandler.Add)
	app.Post(path("store.cart.update"), tenant, d.CartHandler.Update)
	app.Get(path("store.checkout"), tenant, d.OrderHandler.Checkout)
	app.Post(path("store.checkout"), tenant, d.OrderHandler.Place)
	app.Get(path("store.wishlist"), tenant, d.WishlistHandler.List)
	app.Post(path("store.wishlist.toggle"), tenant, d.WishlistHandler.Toggle)
	app.Get(path("store.orders"), tenant, d.OrderHandler.History)
	app.Get(path("store.order-detail"), tenant, d.OrderHandler.View)
	app.Get(path("store.blog"), tenant, d.BlogHandler.List)
	app.Get(path("store.blog.show"), tenant, d.BlogHandler.Show)
	app.Get(path("store.login"), tenant, d.AuthHandler.LoginForm)
	app.Post(path("store.login"), tenant, loginLimiter, d.AuthHandler.Login)
	app.Get(path("store.register"), tenant, d.AuthHandler.RegisterForm)
	app.Post(path("store.register"), tenant, d.AuthHandler.Register)
	app.Get(path("store.forgot-password"), tenant, d.AuthHandler.ForgotForm)
	app.Post(path("store.forgot-password"), tenant, loginLimiter, d.AuthHandler.Forgot)
	app.Get(path("store.reset-password"), tenant, d.AuthHandler.ResetForm)
	app.Post(path("store.reset-password"), tenant, d.AuthHandler.Reset)
	app.Post(path("store.logout"), tenant, d.AuthHandler.Logout)

	// JSON api
	app.Post(path("api.cart"), tenant, d.CartHandler.APIAdd)
	app.Get(path("api.state"), tenant, d.CartHandler.APIState)
	app.Post(path("api.wishlist.toggle"), tenant, d.WishlistHandler.APIToggle)
	app.Post(path("newsletter.subscribe"), limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.newsletter.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "message": "Too many attempts, retry soon"})
		},
	}), d.NewsletterHandler.Subscribe)

	// back office
	app.Get(path("admin.login"), d.AuthHandler.AdminLoginForm)
	app.Post(path("admin.login"), loginLimiter, d.AuthHandler.AdminLogin)
	app.Post(path("admin.logout"), d.AuthHandler.AdminLogout)

	back := []fiber.Handler{RequireBackOffice(), d.AdminHandler.Scope}
	guarded := func(perm string, h fiber.Handler) []fiber.Handler {
		out := append([]fiber.Handler{}, back...)
		if perm != "" {
			resource, action, _ := strings.Cut(perm, ".")
			out = append(out, RequirePermission(d.Perms, resource, action))
		}
		return append(out, h)
	}
	app.Get(path("admin.dashboard"), guarded("", d.AdminHandler.Dashboard)...)
	app.Post(path("admin.theme"), guarded("settings.theme", d.AdminHandler.Theme)...)
	app.Post(path("reviews.approve"), guarded("reviews.edit", d.AdminHandler.ApproveReview)...)
	app.Post(path("reviews.reject"), guarded("reviews.edit", d.AdminHandler.RejectReview)...)
	app.Post(path("orders.status"), guarded("orders.edit", d.AdminHandler.OrderStatus)...)
	app.Post(path("products.stock"), guarded("products.edit", d.InventoryHandler.SetStock)...)
	app.Post(path("templates.preview"), guarded("templates.edit", d.AdminHandler.PreviewTemplate)...)

	for _, res := range d.AdminHandler.Resources {
		name := res.ResourceName()
		for _, action := range routes.AdminActions {
			handlers := guarded(name+"."+action, res.Handler(action))
			if postActions[action] {
				app.Post(path(name+"."+action), handlers...)
			} else {
				app.Get(path(name+"."+action), handlers...)
			}
		}
	}
}

// StoreIndex lists every storefront.
func (d *Deps) StoreIndex(c *fiber.Ctx) error {
	stores, err := d.Stores.List()
	if err != nil {
		applog.Error(c, "stores.list", err, nil)
		return err
	}
	return render(c, "index", fiber.Map{"Stores": stores})
}
