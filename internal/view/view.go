// Package view holds the template helpers shared by every theme.
package view

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"shopfront/internal/config"
	"shopfront/internal/domain"
	"shopfront/internal/media"
	"shopfront/internal/repos"
	"shopfront/internal/routes"
	"shopfront/internal/theme"
)

var symbols = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "CAD": "CA$", "AUD": "A$", "CHF": "CHF ",
}

// Money formats an amount with the store currency, e.g. $1,234.50. It
// accepts decimals, numbers and numeric strings; anything else is 0.
func Money(amount any, currency string) string {
	d := toDecimal(amount)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	frac := d.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if frac == 100 {
		whole = whole.Add(decimal.NewFromInt(1))
		frac = 0
	}
	sym, ok := symbols[strings.ToUpper(currency)]
	if !ok {
		sym = strings.ToUpper(currency)
		if sym != "" {
			sym += " "
		}
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, sym, humanize.Comma(whole.IntPart()), frac)
}

func toDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x != nil {
			return *x
		}
	case decimal.NullDecimal:
		if x.Valid {
			return x.Decimal
		}
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case float64:
		return decimal.NewFromFloat(x)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func parseTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		if t, err := repos.ParseTimestamp(x); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, x); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date formats a stored timestamp as "Jan 2, 2006"; unparsable input is
// returned unchanged.
func Date(v any) string {
	t, ok := parseTime(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return t.Format("Jan 2, 2006")
}

// Ago renders a timestamp relative to now ("3 hours ago").
func Ago(v any) string {
	t, ok := parseTime(v)
	if !ok {
		return fmt.Sprint(v)
	}
	return humanize.Time(t)
}

type statusStyle struct{ color, icon string }

var statuses = map[string]statusStyle{
	"pending":    {"amber", "clock"},
	"processing": {"blue", "cog"},
	"shipped":    {"indigo", "truck"},
	"delivered":  {"green", "check"},
	"cancelled":  {"red", "x"},
	"refunded":   {"gray", "rotate-ccw"},
	"approved":   {"green", "check"},
	"rejected":   {"red", "x"},
}

// StatusColor maps an order or review status to a colour name. Unknown
// statuses are gray.
func StatusColor(status string) string {
	if s, ok := statuses[strings.ToLower(strings.TrimSpace(status))]; ok {
		return s.color
	}
	return "gray"
}

func StatusIcon(status string) string {
	if s, ok := statuses[strings.ToLower(strings.TrimSpace(status))]; ok {
		return s.icon
	}
	return "circle"
}

// OptionsLabel renders a variant selection as "Color: Oat, Size: 0-3m".
func OptionsLabel(o domain.Options) string {
	if len(o) == 0 {
		return ""
	}
	parts := strings.Split(o.Key(), ";")
	for i, p := range parts {
		parts[i] = strings.Replace(p, "=", ": ", 1)
	}
	return strings.Join(parts, ", ")
}

// Dict builds a map from key/value pairs so templates can pass several
// values to a partial.
func Dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return m
}

// Funcs is the FuncMap registered on the view engine.
func Funcs(img *media.Resolver, perms *config.PermissionConfig) template.FuncMap {
	return template.FuncMap{
		"money":       Money,
		"date":        Date,
		"ago":         Ago,
		"statusColor": StatusColor,
		"statusIcon":  StatusIcon,
		"options":     OptionsLabel,
		"dict":        Dict,
		"route":       routes.URL,
		"themeLabel":  func(id theme.ID) string { return id.Label() },
		"themeOf":     theme.Parse,
		"list":        func(s ...string) []string { return s },
		"statuses":    func() []string { return domain.OrderStatuses },
		"img":         img.URL,
		"placeholder": img.Placeholder,
		"hasPermission": func(u *domain.User, action string) bool {
			return u != nil && perms.Allows(u.Role, action)
		},
		"add": func(a, b int) int { return a + b },
	}
}
