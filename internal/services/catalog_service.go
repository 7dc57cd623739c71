package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

// PageSize is the number of products on a category or search page.
const PageSize = 12

const (
	homeLatest   = 8
	homePosts    = 3
	maxPageIndex = 1000
)

type CatalogService struct {
	Cats    *repos.CategoryRepo
	Prods   *repos.ProductRepo
	Reviews *repos.ReviewRepo
	Blog    *repos.BlogRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, reviews *repos.ReviewRepo, blog *repos.BlogRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Reviews: reviews, Blog: blog}
}

type HomeData struct {
	Categories []domain.Category
	Latest     []domain.Product
	Posts      []domain.BlogPost
}

// Home loads the three independent lists of the landing page in parallel.
func (s *CatalogService) Home(ctx context.Context, storeID string) (HomeData, error) {
	var d HomeData
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Categories, err = s.Cats.Active(storeID)
		return err
	})
	g.Go(func() (err error) {
		d.Latest, err = s.Prods.Latest(storeID, homeLatest)
		return err
	})
	g.Go(func() (err error) {
		d.Posts, err = s.Blog.Recent(storeID, homePosts)
		return err
	})
	if err := g.Wait(); err != nil {
		return HomeData{}, err
	}
	return d, nil
}

func (s *CatalogService) Categories(storeID string) ([]domain.Category, error) {
	return s.Cats.Active(storeID)
}

func offset(page int) int {
	if page < 1 {
		page = 1
	}
	if page > maxPageIndex {
		page = maxPageIndex
	}
	return (page - 1) * PageSize
}

// CategoryPage returns an active category and one page of its products.
func (s *CatalogService) CategoryPage(storeID, slug string, page int) (domain.Category, []domain.Product, error) {
	cat, err := s.Cats.BySlug(storeID, slug)
	if err != nil {
		return domain.Category{}, nil, err
	}
	if !cat.Active {
		return domain.Category{}, nil, repos.ErrNotFound
	}
	prods, err := s.Prods.ListByCategory(storeID, cat.ID, PageSize, offset(page))
	return cat, prods, err
}

// Product returns an active product with its approved reviews.
func (s *CatalogService) Product(storeID, slug string) (domain.Product, []domain.Review, error) {
	p, err := s.Prods.BySlug(storeID, slug)
	if err != nil {
		return domain.Product{}, nil, err
	}
	reviews, err := s.Reviews.Approved(storeID, p.ID)
	return p, reviews, err
}

func (s *CatalogService) Search(storeID, q string, page int) ([]domain.Product, error) {
	return s.Prods.Search(storeID, q, PageSize, offset(page))
}
