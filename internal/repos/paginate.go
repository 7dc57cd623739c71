package repos

import (
	"net/url"
	"strconv"
)

const DefaultPerPage = 15

// Link is one entry of a pager; URL is empty for disabled entries.
type Link struct {
	URL    string `json:"url"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Page is the list envelope shared by admin pages and JSON list endpoints.
type Page[T any] struct {
	Data        []T    `json:"data"`
	Links       []Link `json:"links"`
	From        int    `json:"from"`
	To          int    `json:"to"`
	Total       int    `json:"total"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	PerPage     int    `json:"per_page"`
	Query       string `json:"query,omitempty"`
}

// Clamp normalizes a requested page number and size.
func Clamp(page, per int) (int, int) {
	if per <= 0 || per > 100 {
		per = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	return page, per
}

// NewPage builds the envelope; links point at base with the given query
// plus page=N.
func NewPage[T any](data []T, total, page, per int, base string, query url.Values) Page[T] {
	page, per = Clamp(page, per)
	if data == nil {
		data = []T{}
	}
	last := (total + per - 1) / per
	if last < 1 {
		last = 1
	}
	p := Page[T]{Data: data, Total: total, CurrentPage: page, LastPage: last, PerPage: per, Query: query.Get("q")}
	if len(data) > 0 {
		p.From = (page-1)*per + 1
		p.To = p.From + len(data) - 1
	}

	href := func(n int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(n))
		return base + "?" + q.Encode()
	}
	prev := Link{Label: "« Previous"}
	if page > 1 {
		prev.URL = href(page - 1)
	}
	p.Links = append(p.Links, prev)
	for n := 1; n <= last; n++ {
		p.Links = append(p.Links, Link{URL: href(n), Label: strconv.Itoa(n), Active: n == page})
	}
	next := Link{Label: "Next »"}
	if page < last {
		next.URL = href(page + 1)
	}
	p.Links = append(p.Links, next)
	return p
}
