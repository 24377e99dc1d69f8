package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shadowbane/home-flood-report/pkg/models"
)

// ErrUnsupportedImage is returned for uploads that are not jpg, jpeg or png.
var ErrUnsupportedImage = errors.New("unsupported image format")

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ImageStore writes uploaded report photos into a single directory.
type ImageStore struct {
	dir string
}

func New(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

func (s *ImageStore) Dir() string {
	return s.dir
}

// Store writes data to <dir>/<name> and returns that path. The directory is
// created when missing and an existing file with the same name is replaced.
func (s *ImageStore) Store(ctx context.Context, data io.Reader, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	return path, nil
}

// ImageName derives the stored filename from the address and the selected
// cause: spaces become underscores and the extension is always .jpg.
// Two reports for the same address and cause share a name.
func ImageName(address string, cause models.CauseType) string {
	name := strings.ReplaceAll(address, " ", "_") + "_" + string(cause) + ".jpg"
	// keep the file inside the image directory
	return strings.NewReplacer("/", "_", `\`, "_").Replace(name)
}

// IsSupported reports whether the uploaded filename has an accepted extension.
func IsSupported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
