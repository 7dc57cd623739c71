package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Uploader stores an image and returns the reference saved on the record.
type Uploader interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

var ErrUnsupportedImage = errors.New("media: unsupported image type")

func checkExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedImage
	}
	return ext, nil
}

// Cloudinary uploads to the configured account and returns the public id,
// which Resolver turns back into a delivery URL.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *Cloudinary { return &Cloudinary{cld: cld} }

func (u *Cloudinary) Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if _, err := checkExt(filename); err != nil {
		return "", err
	}
	res, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", fmt.Errorf("media: cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("media: cloudinary upload: %s", res.Error.Message)
	}
	return res.PublicID, nil
}

// Dir writes uploads below a local directory served at the media base URL.
type Dir struct {
	Root string
}

func (d Dir) Upload(_ context.Context, folder, filename string, r io.Reader) (string, error) {
	ext, err := checkExt(filename)
	if err != nil {
		return "", err
	}
	folder = filepath.Clean("/" + folder)[1:]
	if err := os.MkdirAll(filepath.Join(d.Root, folder), 0o755); err != nil {
		return "", fmt.Errorf("media: mkdir: %w", err)
	}
	rel := filepath.ToSlash(filepath.Join(folder, uuid.NewString()+ext))
	f, err := os.Create(filepath.Join(d.Root, rel))
	if err != nil {
		return "", fmt.Errorf("media: create: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("media: write: %w", err)
	}
	return rel, nil
}

// NewUploader prefers Cloudinary when cld is configured.
func NewUploader(cld *cloudinary.Cloudinary, dir string) Uploader {
	if cld != nil {
		return NewCloudinaryUploader(cld)
	}
	return Dir{Root: dir}
}
