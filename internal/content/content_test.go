package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvelopeAndBareValues(t *testing.T) {
	wrapped := Payload{"title": map[string]any{"value": "Hello"}}
	bare := Payload{"title": "Hi"}

	assert.Equal(t, "Hello", Resolve(wrapped, "title", nil, "Default"))
	assert.Equal(t, "Hi", Resolve(bare, "title", nil, "Default"))
	assert.Equal(t, "Default", Resolve(Payload{}, "title", nil, "Default"))
	assert.Equal(t, "Prop", Resolve(wrapped, "title", "Prop", "Default"))
}

func TestResolveNeverPanicsOnDeepAbsence(t *testing.T) {
	cases := []any{
		nil,
		Payload{},
		Payload{"cta_boxes": nil},
		Payload{"cta_boxes": map[string]any{}},
		Payload{"cta_boxes": map[string]any{"value": nil}},
		Payload{"cta_boxes": "not a list"},
		Payload{"cta_boxes": []any{}},
		Payload{"cta_boxes": 42},
	}
	for _, c := range cases {
		assert.NotPanics(t, func() {
			assert.Equal(t, "fallback", Resolve(c, "cta_boxes.value.0.title", nil, "fallback"))
			assert.Equal(t, "fallback", String(c, "cta_boxes.0.title", "", "fallback"))
			assert.Nil(t, Items(c, "cta_boxes"))
		})
	}
}

func TestLookupThroughNestedEnvelopesAndLists(t *testing.T) {
	p := Payload{
		"cta_boxes": map[string]any{"value": []any{
			map[string]any{"title": map[string]any{"value": "Fast"}},
			map[string]any{"title": "Cheap"},
		}},
	}
	v, ok := Lookup(p, "cta_boxes.1.title")
	require.True(t, ok)
	assert.Equal(t, "Cheap", v)
	assert.Equal(t, "Fast", String(p, "cta_boxes.0.title", "", ""))

	items := Items(p, "cta_boxes")
	require.Len(t, items, 2)
	assert.Equal(t, "Fast", items[0]["title"])

	_, ok = Lookup(p, "cta_boxes.7.title")
	assert.False(t, ok)
}

func TestBlankStringsCountAsAbsent(t *testing.T) {
	p := Payload{"title": map[string]any{"value": "   "}}
	assert.Equal(t, "Default", String(p, "title", "", "Default"))
}

func TestStrings(t *testing.T) {
	p := Payload{"logos": map[string]any{"value": []any{"a.png", map[string]any{"value": "b.png"}, 3, ""}}}
	assert.Equal(t, []string{"a.png", "b.png"}, Strings(p, "logos", nil))
	assert.Equal(t, []string{"x"}, Strings(Payload{}, "logos", []string{"x"}))
}

func TestStringFormatsScalars(t *testing.T) {
	p := Payload{"count": 3, "on": true}
	assert.Equal(t, "3", String(p, "count", "", "0"))
	assert.Equal(t, "true", String(p, "on", "", "false"))
}

func TestBindLayersAndDefaults(t *testing.T) {
	var h Hero
	payload := Payload{
		"title":    map[string]any{"value": "Spring drop"},
		"subtitle": "",
		"image":    "hero/spring.jpg",
	}
	props := map[string]any{"cta_label": "Browse"}
	require.NoError(t, Bind(&h, props, payload))

	assert.Equal(t, "Spring drop", h.Title)
	assert.Equal(t, "Hand-picked products, delivered to your door.", h.Subtitle)
	assert.Equal(t, "Browse", h.CTALabel)
	assert.Equal(t, "hero/spring.jpg", h.Image)
}

func TestBindEarlierLayerWins(t *testing.T) {
	var n Newsletter
	require.NoError(t, Bind(&n,
		map[string]any{"title": "Prop title"},
		Payload{"title": "CMS title", "button": "Join"},
		map[string]any{"button": "Theme button", "placeholder": "you@example.com"},
	))
	assert.Equal(t, "Prop title", n.Title)
	assert.Equal(t, "Join", n.Button)
	assert.Equal(t, "you@example.com", n.Placeholder)
	assert.Equal(t, "Thanks for subscribing!", n.Success)
}

func TestBindNilAndMalformedPayloads(t *testing.T) {
	var f Footer
	require.NoError(t, Bind(&f, nil))
	assert.Equal(t, "All rights reserved.", f.Copyright)
	assert.Len(t, f.Links, 3)

	var boxes CTABoxes
	require.NoError(t, Bind(&boxes, Payload{"cta_boxes": "oops"}))
	assert.Len(t, boxes.Boxes, 3)

	boxes = CTABoxes{}
	require.NoError(t, Bind(&boxes, Payload{"cta_boxes": map[string]any{"value": []any{
		map[string]any{"title": map[string]any{"value": "Only one"}},
	}}}))
	require.Len(t, boxes.Boxes, 1)
	assert.Equal(t, "Only one", boxes.Boxes[0].Title)
}

func TestBindRejectsNonPointer(t *testing.T) {
	assert.Error(t, Bind(Hero{}, nil))
}

func TestExplicitValueSegment(t *testing.T) {
	p := Payload{"cta_boxes": map[string]any{"value": []any{map[string]any{"title": "A"}}}}
	assert.Equal(t, "A", String(p, "cta_boxes.value.0.title", "", "x"))
	assert.Equal(t, "x", String(Payload{}, "cta_boxes.value", "", "x"))
}
