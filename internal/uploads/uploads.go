// Package uploads stores book cover images in the public uploads directory.
package uploads

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"github.com/spf13/afero"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format, only PNG, JPG and JPEG are allowed")
	ErrInvalidImage      = errors.New("invalid image")
)

type Saver struct {
	Fs        afero.Fs
	Dir       string // directory on Fs
	URLPrefix string // public path the directory is served under, e.g. "/uploads"
	MaxWidth  uint   // wider images are scaled down, 0 keeps the original size
	Now       func() time.Time
}

func NewSaver(fs afero.Fs, dir, urlPrefix string, maxWidth uint) *Saver {
	return &Saver{
		Fs:        fs,
		Dir:       dir,
		URLPrefix: strings.TrimSuffix(urlPrefix, "/"),
		MaxWidth:  maxWidth,
		Now:       time.Now,
	}
}

// Save decodes the image, scales it down if needed and writes it under a name
// built from the current millisecond timestamp and the original extension.
// It returns the public URL of the stored file.
func (s *Saver) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))

	var img image.Image
	var err error
	switch ext {
	case ".png":
		img, err = png.Decode(r)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(r)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if s.MaxWidth > 0 && uint(img.Bounds().Dx()) > s.MaxWidth {
		img = resize.Resize(s.MaxWidth, 0, img, resize.Lanczos3)
	}

	if err := s.Fs.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	name, err := s.freeName(ext)
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.Dir, name)
	out, err := s.Fs.Create(full)
	if err != nil {
		return "", err
	}

	if ext == ".png" {
		err = png.Encode(out, img)
	} else {
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 85})
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// never leave a truncated file in the public directory
		if rerr := s.Fs.Remove(full); rerr != nil {
			slog.Warn("Failed to remove partial upload", "file", full, "error", rerr)
		}
		return "", fmt.Errorf("encode image: %w", err)
	}
	return path.Join(s.URLPrefix, name), nil
}

// freeName picks the timestamp name, moving forward a millisecond while a file
// with that name already exists.
func (s *Saver) freeName(ext string) (string, error) {
	ts := s.Now().UnixMilli()
	for {
		name := strconv.FormatInt(ts, 10) + ext
		exists, err := afero.Exists(s.Fs, filepath.Join(s.Dir, name))
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
		ts++
	}
}

// FileSystem exposes the uploads directory for http.FileServer.
func (s *Saver) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.Fs).Dir(s.Dir)
}
