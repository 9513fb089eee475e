package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"coleccion-arte/internal/infra/metrics"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	// URLPrefix is how stored images are referenced in obras.url_imagen and
	// served by the static /uploads route.
	URLPrefix = "uploads/"

	MaxDimension = 1200
	JPEGQuality  = 85
)

var ErrNotImage = errors.New("uploaded file is not a supported image")

var encodeJPEG = jpeg.Encode

// Store keeps optimised artwork images on local disk.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// SaveUpload optimises a multipart upload and returns its url_imagen value.
func (s *Store) SaveUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.Save(f)
}

// Save decodes any supported format (JPEG, PNG, GIF, WebP...), fits it inside
// MaxDimension x MaxDimension without enlarging, and writes it as JPEG under a
// random name.
func (s *Store) Save(r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	if img.Bounds().Dx() > MaxDimension || img.Bounds().Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	name := uuid.NewString() + ".jpeg"
	if err := writeJPEG(filepath.Join(s.Dir, name), img); err != nil {
		return "", err
	}
	metrics.RecordImageStored()
	return URLPrefix + name, nil
}

// writeJPEG leaves no file behind when encoding or closing fails.
func writeJPEG(path string, img image.Image) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close image file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := encodeJPEG(out, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// Remove deletes a stored image. A file that is already gone is not an error.
func (s *Store) Remove(url string) error {
	if err := os.Remove(s.Path(url)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Path maps a url_imagen value to a file inside Dir. Only the base name is
// used, so stored values cannot point outside the uploads directory.
func (s *Store) Path(url string) string {
	return filepath.Join(s.Dir, filepath.Base(url))
}

// LoadJPEG returns the stored image as JPEG bytes, transcoding older WebP or
// PNG files. A missing file yields an error wrapping os.ErrNotExist.
func (s *Store) LoadJPEG(url string) ([]byte, error) {
	path := s.Path(url)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jpeg" || ext == ".jpg" {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return EncodeJPEG(img)
}

// Thumbnail returns JPEG bytes of the stored image fitted inside w x h.
func (s *Store) Thumbnail(url string, w, h int) ([]byte, error) {
	img, err := imaging.Open(s.Path(url), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return EncodeJPEG(imaging.Fit(img, w, h, imaging.Lanczos))
}

func EncodeJPEG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
