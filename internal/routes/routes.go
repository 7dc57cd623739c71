// Package routes is the table of named routes. Handlers mount paths by
// name and templates build links with the same names.
package routes

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// AdminResources are the back office resources with the standard actions.
var AdminResources = []string{"products", "categories", "orders", "shipping", "tax", "reviews", "templates", "pos"}

// AdminActions are the per resource actions, in the order they are mounted.
// create/edit/delete are the form and confirmation pages, store/update/
// destroy their submissions.
var AdminActions = []string{"index", "export", "create", "store", "show", "edit", "update", "delete", "destroy"}

var table = map[string]string{
	"home": "/",

	"store.home":            "/s/:store",
	"store.search":          "/s/:store/search",
	"store.category":        "/s/:store/categories/:slug",
	"store.product":         "/s/:store/products/:slug",
	"store.cart":            "/s/:store/cart",
	"store.cart.update":     "/s/:store/cart/update",
	"store.checkout":        "/s/:store/checkout",
	"store.wishlist":        "/s/:store/wishlist",
	"store.wishlist.toggle": "/s/:store/wishlist/toggle",
	"store.orders":          "/s/:store/orders",
	"store.order-detail":    "/s/:store/orders/:number",
	"store.blog":            "/s/:store/blog",
	"store.blog.show":       "/s/:store/blog/:slug",
	"store.login":           "/s/:store/login",
	"store.register":        "/s/:store/register",
	"store.forgot-password": "/s/:store/forgot-password",
	"store.reset-password":  "/s/:store/reset-password",
	"store.logout":          "/s/:store/logout",

	"api.cart":             "/api/s/:store/cart",
	"api.wishlist.toggle":  "/api/s/:store/wishlist/toggle",
	"api.state":            "/api/s/:store/state",
	"newsletter.subscribe": "/api/newsletter/subscribe",

	"admin.dashboard": "/admin",
	"admin.login":     "/admin/login",
	"admin.logout":    "/admin/logout",
	"admin.theme":     "/admin/theme",

	"reviews.approve":   "/admin/reviews/:id/approve",
	"reviews.reject":    "/admin/reviews/:id/reject",
	"orders.status":     "/admin/orders/:id/status",
	"products.stock":    "/admin/products/:id/stock",
	"templates.preview": "/admin/templates/:id/preview",
}

func init() {
	for _, r := range AdminResources {
		base := "/admin/" + r
		table[r+".index"] = base
		table[r+".export"] = base + "/export"
		table[r+".create"] = base + "/new"
		table[r+".store"] = base
		table[r+".show"] = base + "/:id"
		table[r+".edit"] = base + "/:id/edit"
		table[r+".update"] = base + "/:id"
		table[r+".delete"] = base + "/:id/delete"
		table[r+".destroy"] = base + "/:id/delete"
	}
}

// Path returns the route pattern for name. It panics on unknown names so a
// typo fails at startup rather than on a request.
func Path(name string) string {
	p, ok := table[name]
	if !ok {
		panic(fmt.Sprintf("routes: unknown route %q", name))
	}
	return p
}

// Has reports whether name is a known route.
func Has(name string) bool {
	_, ok := table[name]
	return ok
}

// URL fills the :params of name in order. Unknown names yield "#" so a bad
// link never breaks a page. Extra params are ignored; missing ones leave
// the segment empty.
func URL(name string, params ...any) string {
	p, ok := table[name]
	if !ok {
		return "#"
	}
	segs := strings.Split(p, "/")
	i := 0
	for n, s := range segs {
		if !strings.HasPrefix(s, ":") {
			continue
		}
		v := ""
		if i < len(params) {
			v = url.PathEscape(fmt.Sprint(params[i]))
		}
		segs[n] = v
		i++
	}
	return strings.Join(segs, "/")
}

// Names lists every route name, sorted.
func Names() []string {
	out := make([]string, 0, len(table))
	for n := range table {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
