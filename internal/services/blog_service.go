package services

import (
	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

type BlogService struct {
	Posts *repos.BlogRepo
}

func NewBlogService(posts *repos.BlogRepo) *BlogService { return &BlogService{Posts: posts} }

// List returns one page of posts, newest first. base is the URL the page
// links point at.
func (s *BlogService) List(storeID string, page int, base string) (repos.Page[domain.BlogPost], error) {
	return s.Posts.List(storeID, page, 9, base)
}

func (s *BlogService) Post(storeID, slug string) (domain.BlogPost, error) {
	return s.Posts.BySlug(storeID, slug)
}
