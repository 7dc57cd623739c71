// Package media turns stored image paths into URLs and stores uploads.
package media

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"

	applog "shopfront/internal/log"
)

// Resolver maps a stored image reference to a fully qualified URL:
// absolute URLs pass through, relative paths go to Cloudinary when configured
// and to the media base URL otherwise, and empty paths get a placeholder.
type Resolver struct {
	cld         *cloudinary.Cloudinary
	baseURL     string
	placeholder string
}

func NewResolver(cld *cloudinary.Cloudinary, baseURL, placeholderURL string) *Resolver {
	return &Resolver{
		cld:         cld,
		baseURL:     strings.TrimRight(baseURL, "/"),
		placeholder: strings.TrimRight(placeholderURL, "/"),
	}
}

// NewCloudinary returns nil when cloudinaryURL is empty or malformed.
func NewCloudinary(cloudinaryURL string) *cloudinary.Cloudinary {
	if cloudinaryURL == "" {
		return nil
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		applog.Error(nil, "media.cloudinary.init", err, nil)
		return nil
	}
	cld.Config.URL.Secure = true
	return cld
}

func (r *Resolver) URL(path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return r.Placeholder(600, 600, "")
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "//"), strings.HasPrefix(path, "data:"):
		return path
	}
	path = strings.TrimLeft(path, "/")
	if r.cld != nil {
		if img, err := r.cld.Image(path); err == nil {
			if u, err := img.String(); err == nil && u != "" {
				return u
			}
		}
	}
	return r.baseURL + "/" + path
}

// Placeholder returns a generated placeholder image URL; text may be empty.
func (r *Resolver) Placeholder(w, h int, text string) string {
	u := fmt.Sprintf("%s/%dx%d", r.placeholder, w, h)
	if text != "" {
		u += "?text=" + url.QueryEscape(text)
	}
	return u
}
