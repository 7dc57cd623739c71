package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shopfront/internal/log"
	"shopfront/internal/routes"
	"shopfront/internal/services"
	"shopfront/internal/theme"
	"shopfront/internal/validate"
)

type AuthHandler struct {
	*Site
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	if sid, ok := c.Locals("sid").(string); ok && sid != "" {
		return sid
	}
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   secureCookies,
		})
	}
	c.Locals("sid", sid)
	return sid
}

func clearSID(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secureCookies,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return h.page(c, theme.PageLogin, fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	store := storeOf(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	fail := func(reason string) error {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "store": store.Slug, "reason": reason})
		c.Status(fiber.StatusUnauthorized)
		return h.page(c, theme.PageLogin, fiber.Map{"Err": "Invalid email or password", "Email": email})
	}
	if _, ok := validate.Email(email); !ok {
		return fail("bad_format")
	}
	if pass == "" || len(pass) > 64 {
		return fail("bad_password_format")
	}
	if _, err := h.Auth.Login(c.UserContext(), sid, email, pass); err != nil {
		if !errors.Is(err, services.ErrBadCreds) {
			log.Error(c, "auth.login", err, nil)
		}
		return fail("bad_credentials")
	}
	log.Audit(c, "auth.login.success", map[string]any{"email": email, "store": store.Slug})
	return c.Redirect(routes.URL("store.home", store.Slug))
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return h.page(c, theme.PageRegister, fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	store := storeOf(c)
	name, email := c.FormValue("name"), c.FormValue("email")
	if c.FormValue("password") != c.FormValue("password_confirmation") {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.page(c, theme.PageRegister, fiber.Map{"Err": "Passwords do not match", "Name": name, "Email": email})
	}
	u, err := h.Auth.Register(c.UserContext(), store.ID, sid, name, email, c.FormValue("password"))
	switch {
	case errors.Is(err, services.ErrInvalidName), errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrWeakPassword), errors.Is(err, services.ErrEmailTaken):
		c.Status(fiber.StatusUnprocessableEntity)
		return h.page(c, theme.PageRegister, fiber.Map{"Err": err.Error(), "Name": name, "Email": email})
	case err != nil:
		log.Error(c, "auth.register", err, nil)
		return err
	}
	log.Audit(c, "auth.register", map[string]any{"user_id": u.ID, "store": store.Slug})
	return c.Redirect(routes.URL("store.home", store.Slug))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	clearSID(c)
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	if store := storeOf(c); store != nil {
		return c.Redirect(routes.URL("store.home", store.Slug))
	}
	return c.Redirect(routes.Path("home"))
}

func (h *AuthHandler) ForgotForm(c *fiber.Ctx) error {
	return h.page(c, theme.PageForgotPassword, fiber.Map{})
}

// Forgot always answers the same way so the form cannot be used to probe
// which addresses have accounts.
func (h *AuthHandler) Forgot(c *fiber.Ctx) error {
	store := storeOf(c)
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.page(c, theme.PageForgotPassword, fiber.Map{"Err": services.ErrInvalidEmail.Error()})
	}
	link := func(token string) string {
		return c.BaseURL() + routes.URL("store.reset-password", store.Slug) + "?token=" + token
	}
	if err := h.Auth.ForgotPassword(c.UserContext(), store, email, link); err != nil {
		log.Error(c, "auth.forgot", err, nil)
	}
	log.Security(c, "auth.reset.requested", map[string]any{"store": store.Slug})
	return h.page(c, theme.PageForgotPassword, fiber.Map{"Sent": true})
}

func (h *AuthHandler) ResetForm(c *fiber.Ctx) error {
	return h.page(c, theme.PageResetPassword, fiber.Map{"Token": c.Query("token")})
}

func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	store := storeOf(c)
	token := c.FormValue("token")
	if c.FormValue("password") != c.FormValue("password_confirmation") {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.page(c, theme.PageResetPassword, fiber.Map{"Token": token, "Err": "Passwords do not match"})
	}
	err := h.Auth.ResetPassword(token, c.FormValue("password"))
	switch {
	case errors.Is(err, services.ErrWeakPassword), errors.Is(err, services.ErrResetInvalid):
		log.Security(c, "auth.reset.fail", map[string]any{"store": store.Slug, "reason": err.Error()})
		c.Status(fiber.StatusUnprocessableEntity)
		return h.page(c, theme.PageResetPassword, fiber.Map{"Token": token, "Err": err.Error()})
	case err != nil:
		log.Error(c, "auth.reset", err, nil)
		return err
	}
	log.Audit(c, "auth.reset.success", map[string]any{"store": store.Slug})
	return c.Redirect(routes.URL("store.login", store.Slug))
}

// AdminLoginForm and AdminLogin sign staff into the back office.
func (h *AuthHandler) AdminLoginForm(c *fiber.Ctx) error {
	return render(c, "admin/login", fiber.Map{"Err": ""}, adminLayout)
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	u, err := h.Auth.Login(c.UserContext(), sid, email, c.FormValue("password"))
	if err == nil && !u.IsBackOffice() {
		_ = h.Auth.Logout(sid)
		err = services.ErrBadCreds
	}
	if err != nil {
		log.Security(c, "auth.admin.login.fail", map[string]any{"email": email})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "admin/login", fiber.Map{"Err": "Invalid email or password", "Email": email}, adminLayout)
	}
	log.Audit(c, "auth.admin.login.success", map[string]any{"email": email, "role": u.Role})
	return c.Redirect(routes.Path("admin.dashboard"))
}

func (h *AuthHandler) AdminLogout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	clearSID(c)
	log.Audit(c, "auth.admin.logout", nil)
	return c.Redirect(routes.Path("admin.login"))
}
