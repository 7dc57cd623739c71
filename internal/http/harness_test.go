package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"shopfront/internal/cache"
	"shopfront/internal/config"
	"shopfront/internal/events"
	"shopfront/internal/http/handlers"
	applog "shopfront/internal/log"
	"shopfront/internal/media"
	"shopfront/internal/notify"
	"shopfront/internal/repos"
	"shopfront/internal/theme"
	"shopfront/internal/view"
)

const templatesDir = "../../web/templates"

type testEnv struct {
	app      *fiber.App
	db       *sqlx.DB
	logs     *bytes.Buffer
	mediaDir string
}

// newEnv boots the full app on a seeded in-memory database. Log entries
// written through applog land in env.logs.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	return newEnvWithTemplates(t, templatesDir)
}

// newEnvWithTemplates is newEnv with views loaded from dir.
func newEnvWithTemplates(t *testing.T, dir string) *testEnv {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	perms, err := config.LoadPermissionConfig("")
	require.NoError(t, err)
	reg, err := theme.NewRegistry(os.DirFS(dir), ".html", theme.Shipped)
	require.NoError(t, err)

	engine := html.New(dir, ".html")
	engine.AddFuncMap(view.Funcs(media.NewResolver(nil, "/media", "https://placehold.co"), perms))

	mediaDir := t.TempDir()
	cfg := config.Config{MediaDir: mediaDir}
	deps := handlers.NewDeps(db, cfg, handlers.Infra{
		Cache:    cache.NewMemory(),
		Events:   events.Log{},
		Mailer:   notify.Log{},
		Uploader: media.NewUploader(nil, mediaDir),
		Perms:    perms,
		Resolver: theme.NewResolver(reg),
		Views:    engine,
	})

	logs := &bytes.Buffer{}
	applog.SetOutput(logs)
	t.Cleanup(func() { applog.SetOutput(os.Stdout) })

	return &testEnv{app: handlers.NewApp(cfg, engine, deps), db: db, logs: logs, mediaDir: mediaDir}
}

// client keeps cookies between requests like a browser and sends the csrf
// cookie back as the X-CSRF-TOKEN header on unsafe methods.
type client struct {
	t       *testing.T
	env     *testEnv
	cookies map[string]string
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, env: e, cookies: map[string]string{}}
}

func (c *client) do(req *http.Request) (*http.Response, string) {
	c.t.Helper()
	for name, v := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: v})
	}
	if req.Method != http.MethodGet && req.Header.Get("X-CSRF-TOKEN") == "" {
		if tok := c.cookies["csrf_"]; tok != "" {
			req.Header.Set("X-CSRF-TOKEN", tok)
		}
	}
	resp, err := c.env.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Value == "" || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck.Value
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (c *client) get(path string) (*http.Response, string) {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// prime fetches a page so the csrf cookie is issued.
func (c *client) prime() {
	c.t.Helper()
	if c.cookies["csrf_"] == "" {
		c.get("/healthz")
	}
	require.NotEmpty(c.t, c.cookies["csrf_"], "csrf cookie not issued")
}

func (c *client) postForm(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	c.prime()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return c.do(req)
}

func (c *client) postJSON(path string, v any) (*http.Response, map[string]any) {
	c.t.Helper()
	c.prime()
	b, err := json.Marshal(v)
	require.NoError(c.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	resp, body := c.do(req)
	out := map[string]any{}
	_ = json.Unmarshal([]byte(body), &out)
	return resp, out
}

// adminLogin signs email into the back office with the demo password.
func (c *client) adminLogin(email string) {
	c.t.Helper()
	resp, _ := c.postForm("/admin/login", url.Values{"email": {email}, "password": {repos.DemoPassword}})
	require.Equal(c.t, http.StatusFound, resp.StatusCode, "admin login for %s", email)
}
