package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/repos"
	"shopfront/internal/services"
)

func newCatalog(t *testing.T) *services.CatalogService {
	db := memdb(t)
	return services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db), repos.NewReviewRepo(db), repos.NewBlogRepo(db))
}

func TestCatalogHome(t *testing.T) {
	svc := newCatalog(t)

	home, err := svc.Home(context.Background(), tinySteps)
	require.NoError(t, err)
	assert.Len(t, home.Categories, 3)
	assert.Len(t, home.Latest, 3, "inactive products are hidden")
	assert.Len(t, home.Posts, 2)
	for _, p := range home.Latest {
		assert.Equal(t, tinySteps, p.StoreID)
	}
}

func TestCatalogCategoryAndProduct(t *testing.T) {
	svc := newCatalog(t)

	cat, prods, err := svc.CategoryPage(tinySteps, "gear", 1)
	require.NoError(t, err)
	assert.Equal(t, "Gear", cat.Name)
	require.Len(t, prods, 1)
	assert.Equal(t, "City Stroller", prods[0].Name)

	_, _, err = svc.CategoryPage(maison, "gear", 1)
	require.ErrorIs(t, err, repos.ErrNotFound)

	p, reviews, err := svc.Product(tinySteps, "romper")
	require.NoError(t, err)
	assert.True(t, p.OnSale())
	require.Len(t, reviews, 1, "pending reviews are not shown")
	assert.Equal(t, "Jamie", reviews[0].Author)

	_, _, err = svc.Product(tinySteps, "old-blanket")
	require.ErrorIs(t, err, repos.ErrNotFound)
}

func TestCatalogSearch(t *testing.T) {
	svc := newCatalog(t)

	got, err := svc.Search(tinySteps, "RATTLE", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.Search(maison, "rattle", 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}
