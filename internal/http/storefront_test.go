package handlers_test

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreIndexListsStores(t *testing.T) {
	env := newEnv(t)
	resp, body := env.client(t).get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Tiny Steps")
	assert.Contains(t, body, "/s/maison")
}

func TestUnknownStoreIs404(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)
	for _, path := range []string{"/s/nope", "/s/nope/cart", "/s/nope/products/romper"} {
		resp, body := c.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, body, "Store not found", path)
	}
}

func TestThemeVariantsAreDispatchedPerStore(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	cases := []struct {
		path    string
		present []string
		absent  []string
	}{
		// baby-kids ships home, hero and product card variants
		{"/s/tiny-steps", []string{"BabyKidsHome", "BabyKidsHero", "BabyKidsCard", "Little steps, big smiles"}, nil},
		// electronics has its own home and card, generic footer
		{"/s/voltage", []string{"ElectronicsHome", "ElectronicsCard"}, []string{"Footer\""}},
		// fashion: home, hero and footer
		{"/s/maison", []string{"FashionHome", "FashionHero", "FashionFooter"}, []string{"Card\""}},
		// beauty: generic home, its own newsletter
		{"/s/lumiere", []string{"BeautyNewsletter"}, []string{"Home\"", "Hero\""}},
		// unknown theme name falls back to the generic templates everywhere
		{"/s/corner", []string{"Corner Shop"}, []string{"data-variant"}},
	}
	for _, tc := range cases {
		resp, body := c.get(tc.path)
		require.Equal(t, http.StatusOK, resp.StatusCode, tc.path)
		for _, s := range tc.present {
			assert.Contains(t, body, s, tc.path)
		}
		for _, s := range tc.absent {
			assert.NotContains(t, body, s, tc.path)
		}
	}
}

func TestOrdersPageUsesThemeVariant(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	_, body := c.get("/s/tiny-steps/orders")
	assert.Contains(t, body, "BabyKidsOrders")

	_, body = c.get("/s/corner/orders")
	assert.Contains(t, body, "Your orders")
	assert.NotContains(t, body, "Orders\"")
}

func TestBrokenThemePageFallsBackToGeneric(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.CopyFS(dir, os.DirFS(templatesDir)))
	// parses, then fails while executing
	broken := `<section data-variant="BabyKidsOrders">{{index "BabyKidsOrders" 99}}</section>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "themes", "baby-kids", "orders.html"), []byte(broken), 0o644))

	env := newEnvWithTemplates(t, dir)
	resp, body := env.client(t).get("/s/tiny-steps/orders")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Your orders")
	assert.NotContains(t, body, "BabyKidsOrders")
	logs := env.logs.String()
	assert.Contains(t, logs, "theme.page.render")
	assert.Contains(t, logs, "themes/baby-kids/orders")
}

func TestLoginAndWishlistVariants(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	_, body := c.get("/s/lumiere/login")
	assert.Contains(t, body, "BeautyLogin")
	_, body = c.get("/s/voltage/login")
	assert.NotContains(t, body, "Login\"")
	assert.Contains(t, body, "Sign in")

	_, body = c.get("/s/voltage/wishlist")
	assert.Contains(t, body, "ElectronicsWishlist")
}

func TestProductPage(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	resp, body := c.get("/s/tiny-steps/products/romper")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Organic Cotton Romper")
	assert.Contains(t, body, `name="opt_Size"`)
	assert.Contains(t, body, "Lovely quality.")
	assert.NotContains(t, body, "Runs a bit small.", "pending reviews stay hidden")

	resp, _ = c.get("/s/tiny-steps/products/old-blanket")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "inactive product")

	resp, _ = c.get("/s/maison/products/romper")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "product of another store")
}

func TestCategoryAndSearch(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	resp, body := c.get("/s/tiny-steps/categories/toys")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Wooden Rattle")

	resp, _ = c.get("/s/tiny-steps/categories/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = c.get("/s/voltage/search?q=" + url.QueryEscape("earbuds"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Wireless Earbuds")

	resp, body = c.get("/s/voltage/search?q=" + url.QueryEscape("<script>"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Enter a valid keyword")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, env.logs.String(), "validation.fail")
}

func TestBlogPages(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	resp, body := c.get("/s/maison/blog")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "FashionBlog")

	resp, _ = c.get("/s/maison/blog/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
