package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	for _, ok := range []string{"a@b.co", " jane.doe+news@shop.example.com "} {
		_, valid := Email(ok)
		assert.True(t, valid, ok)
	}
	for _, bad := range []string{"", "nope", "a@b", "a b@c.de", "<script>@x.io"} {
		_, valid := Email(bad)
		assert.False(t, valid, bad)
	}
}

func TestQtyAndPage(t *testing.T) {
	assert.Equal(t, 1, Qty("0"))
	assert.Equal(t, 1, Qty("abc"))
	assert.Equal(t, 3, Qty(" 3 "))
	assert.Equal(t, 50, Qty("999"))
	assert.Equal(t, 1, Page("-2"))
	assert.Equal(t, 4, Page("4"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "organic-cotton-romper", Slugify("  Organic Cotton  Romper! "))
	assert.Equal(t, "a-b", Slugify("A & B"))
	_, ok := Slug("baby-kids")
	assert.True(t, ok)
	_, ok = Slug("Baby Kids")
	assert.False(t, ok)
}

func TestMoneyAndPercent(t *testing.T) {
	d, ok := Money("19.99")
	assert.True(t, ok)
	assert.Equal(t, "19.99", d.StringFixed(2))
	_, ok = Money("-1")
	assert.False(t, ok)
	_, ok = Money("1.999")
	assert.False(t, ok)
	_, ok = Money("ten")
	assert.False(t, ok)

	_, ok = Percent("8.25")
	assert.True(t, ok)
	_, ok = Percent("101")
	assert.False(t, ok)
}

func TestPassword(t *testing.T) {
	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))
	assert.False(t, Password("Sh0rt!"))
}

func TestMisc(t *testing.T) {
	assert.True(t, Rating(5))
	assert.False(t, Rating(0))
	assert.True(t, OneOf("shipped", "pending", "shipped"))
	_, ok := Q("red shoes")
	assert.True(t, ok)
	_, ok = Q("<b>")
	assert.False(t, ok)
}
