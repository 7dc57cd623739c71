// Package theme maps a store's theme name onto the templates that render it.
//
// Every page and section has a generic template; themes may ship their own
// variant. Variants are checked once at startup, so a request never waits on
// template discovery and never sees a half-registered theme.
package theme

import "strings"

// ID is one of a closed set of storefront themes.
type ID string

const (
	Default     ID = "default"
	Fashion     ID = "fashion"
	Beauty      ID = "beauty"
	Electronics ID = "electronics"
	Jewelry     ID = "jewelry"
	Furniture   ID = "furniture"
	Automotive  ID = "automotive"
	BabyKids    ID = "baby-kids"
	Perfume     ID = "perfume"
	Watches     ID = "watches"
)

// All lists every theme, Default first.
var All = []ID{Default, Fashion, Beauty, Electronics, Jewelry, Furniture, Automotive, BabyKids, Perfume, Watches}

var known = func() map[ID]bool {
	m := make(map[ID]bool, len(All))
	for _, id := range All {
		m[id] = true
	}
	return m
}()

// Parse never fails: blank or unknown names map to Default.
// "Baby_Kids" and " baby kids " both read as BabyKids.
func Parse(s string) ID {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	if id := ID(s); known[id] {
		return id
	}
	return Default
}

func (id ID) String() string { return string(id) }

// Label is the display name used in the admin theme picker.
func (id ID) Label() string {
	parts := strings.Split(string(id), "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " & ")
}
