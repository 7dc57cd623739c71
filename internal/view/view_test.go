package view

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/config"
	"shopfront/internal/domain"
	"shopfront/internal/media"
	"shopfront/internal/repos"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1,234.50", Money(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "€19.50", Money("19.5", "eur"))
	assert.Equal(t, "£0.00", Money(nil, "GBP"))
	assert.Equal(t, "-$3.10", Money(-3.1, "USD"))
	assert.Equal(t, "$2.00", Money(decimal.RequireFromString("1.999"), "USD"))
	assert.Equal(t, "SEK 12.00", Money(12, "SEK"))
	assert.Equal(t, "7.25", Money("7.25", ""))
	assert.Equal(t, "$5.00", Money(decimal.NewNullDecimal(decimal.NewFromInt(5)), "USD"))
}

func TestDateAndAgo(t *testing.T) {
	ts := repos.Timestamp(time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "Nov 5, 2024", Date(ts))
	assert.Equal(t, "not a date", Date("not a date"))
	assert.Contains(t, Ago(repos.Timestamp(time.Now().Add(-3*time.Hour))), "hours ago")
}

func TestStatusStyles(t *testing.T) {
	assert.Equal(t, "green", StatusColor("Delivered"))
	assert.Equal(t, "truck", StatusIcon("shipped"))
	assert.Equal(t, "gray", StatusColor("on-hold"), "unknown statuses are neutral")
	assert.Equal(t, "circle", StatusIcon(""))
	for _, s := range domain.OrderStatuses {
		assert.NotEqual(t, "circle", StatusIcon(s), s)
	}
}

func TestOptionsLabel(t *testing.T) {
	assert.Equal(t, "Color: Oat, Size: 0-3m", OptionsLabel(domain.Options{"Size": "0-3m", "Color": "Oat"}))
	assert.Equal(t, "", OptionsLabel(nil))
}

func TestFuncsInTemplate(t *testing.T) {
	perms, err := config.LoadPermissionConfig("")
	require.NoError(t, err)
	img := media.NewResolver(nil, "/media", "https://placehold.co")

	tpl := template.Must(template.New("t").Funcs(Funcs(img, perms)).Parse(
		`{{route "store.product" "maison" "trench"}}|{{img "products/a.jpg"}}|{{img ""}}|` +
			`{{if hasPermission .Staff "products.delete"}}del{{else}}nodel{{end}}|` +
			`{{if hasPermission .Manager "products.delete"}}del{{end}}|{{if hasPermission .Nobody "products.index"}}x{{end}}`))

	var buf bytes.Buffer
	require.NoError(t, tpl.Execute(&buf, map[string]any{
		"Staff":   &domain.User{Role: "STAFF"},
		"Manager": &domain.User{Role: "MANAGER"},
		"Nobody":  (*domain.User)(nil),
	}))
	assert.Equal(t, "/s/maison/products/trench|/media/products/a.jpg|https://placehold.co/600x600|nodel|del|", buf.String())
}
