package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/repos"
)

func TestSeededPasswordsAreHashed(t *testing.T) {
	env := newEnv(t)
	var hashes []string
	require.NoError(t, env.db.Select(&hashes, `SELECT password_hash FROM users`))
	require.NotEmpty(t, hashes)
	for _, h := range hashes {
		assert.NotContains(t, h, repos.DemoPassword)
		assert.True(t, strings.HasPrefix(h, "$2"), h)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte(repos.DemoPassword)))
	}
}

func TestStoreLoginLogout(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	resp, body := c.postForm("/s/tiny-steps/login", url.Values{"email": {"alice@shopfront.test"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid email or password")
	assert.Contains(t, env.logs.String(), "auth.login.fail")
	assert.NotContains(t, env.logs.String(), "wrong", "passwords never reach the log")

	resp, _ = c.postForm("/s/tiny-steps/login", url.Values{"email": {"alice@shopfront.test"}, "password": {repos.DemoPassword}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, body = c.get("/s/tiny-steps")
	assert.Contains(t, body, "Sign out")

	resp, _ = c.postForm("/s/tiny-steps/logout", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, body = c.get("/s/tiny-steps")
	assert.NotContains(t, body, "Sign out")
}

func TestLoginIsThrottled(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)
	var last int
	for i := 0; i < 6; i++ {
		resp, _ := c.postForm("/s/tiny-steps/login", url.Values{"email": {"alice@shopfront.test"}, "password": {"nope"}})
		last = resp.StatusCode
		if i < 5 {
			assert.Equal(t, http.StatusUnauthorized, last, "attempt %d", i)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
	assert.Contains(t, env.logs.String(), "rate.login.hit")
}

func TestRegisterKeepsGuestCart(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)
	resp, _ := c.postJSON("/api/s/voltage/cart", map[string]any{"product_id": "voltage-earbuds", "qty": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := c.postForm("/s/voltage/register", url.Values{
		"name": {"Riley"}, "email": {"riley@example.com"}, "password": {"Sup3rSecret!"}, "password_confirmation": {"nope"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Passwords do not match")

	resp, _ = c.postForm("/s/voltage/register", url.Values{
		"name": {"Riley"}, "email": {"riley@example.com"}, "password": {"Sup3rSecret!"}, "password_confirmation": {"Sup3rSecret!"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	_, state := c.get("/api/s/voltage/state")
	assert.Contains(t, state, `"count":1`)
	_, body = c.get("/s/voltage")
	assert.Contains(t, body, "Sign out")
}

func TestPasswordResetFlow(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	// unknown and known addresses get the same answer
	for _, email := range []string{"nobody@example.com", "alice@shopfront.test"} {
		resp, body := c.postForm("/s/tiny-steps/forgot-password", url.Values{"email": {email}})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "reset link is on its way")
	}

	var token string
	require.NoError(t, env.db.Get(&token, `SELECT token_hash FROM password_resets LIMIT 1`))
	require.NotEmpty(t, token)

	resp, body := c.postForm("/s/tiny-steps/reset-password", url.Values{
		"token": {"not-a-real-token"}, "password": {"N3wPassword!"}, "password_confirmation": {"N3wPassword!"},
	})
	assert.NotEqual(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, body, "Choose a new password")
}

func TestAdminLoginRejectsCustomers(t *testing.T) {
	env := newEnv(t)
	c := env.client(t)

	resp, body := c.postForm("/admin/login", url.Values{"email": {"alice@shopfront.test"}, "password": {repos.DemoPassword}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid email or password")

	resp, _ = c.get("/admin")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
}
