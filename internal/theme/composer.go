package theme

import (
	"bytes"
	"html/template"
	"io"

	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
)

// Renderer is the part of fiber.Views the composer needs.
type Renderer interface {
	Render(out io.Writer, name string, binding interface{}, layout ...string) error
}

// Composer renders sections into HTML fragments that pages embed. A failing
// variant degrades to the generic section, and a failing generic section to
// nothing; a section never fails the page.
type Composer struct {
	Views Renderer
}

func (cp *Composer) Section(c *fiber.Ctx, set *Set, k SectionKind, data any) template.HTML {
	name := set.Section(k)
	out, err := cp.render(name, data)
	if err == nil {
		return out
	}
	applog.Error(c, "theme.section.render", err, map[string]any{"theme": set.Theme, "kind": k, "template": name})

	generic := GenericSection(k)
	if name == generic {
		return ""
	}
	out, err = cp.render(generic, data)
	if err != nil {
		applog.Error(c, "theme.section.render", err, map[string]any{"theme": Default, "kind": k, "template": generic})
		return ""
	}
	return out
}

// Sections renders each kind with the same data.
func (cp *Composer) Sections(c *fiber.Ctx, set *Set, data any, kinds ...SectionKind) map[string]template.HTML {
	out := make(map[string]template.HTML, len(kinds))
	for _, k := range kinds {
		out[string(k)] = cp.Section(c, set, k, data)
	}
	return out
}

func (cp *Composer) render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := cp.Views.Render(&buf, name, data); err != nil {
		return "", err
	}
	// output comes from html/template, so it is already escaped
	return template.HTML(buf.String()), nil
}

var _ Renderer = (fiber.Views)(nil)
