package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand"
	"path"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/gift"
	_ "golang.org/x/image/webp" // register the WebP decoder
)

const (
	MaxImageWidth  = 4000
	MaxImageHeight = 4000
	JPEGQuality    = 90
	WebPQuality    = 80
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageTooLarge    = fmt.Errorf("image too large (max %dx%d)", MaxImageWidth, MaxImageHeight)
)

// ImageUploader resizes uploaded images and hands them to a Store.
type ImageUploader struct {
	store Store
	now   func() time.Time
}

func NewImageUploader(store Store) *ImageUploader {
	return &ImageUploader{store: store, now: time.Now}
}

// UploadAndFit stores the image read from src under images/<dir>/YYYY/MM/DD/ and returns its URL.
// The format comes from the image content, never from the file name. When width and height
// are both positive the image is scaled down to fit inside them, keeping its aspect ratio.
func (u *ImageUploader) UploadAndFit(ctx context.Context, src io.Reader, dir string, width, height int) (string, error) {
	if dir == "" {
		dir = "posts"
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	// the header alone gives the dimensions, so oversized images are refused before any pixel buffer exists
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width > MaxImageWidth || cfg.Height > MaxImageHeight {
		return "", ErrImageTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	if width > 0 && height > 0 {
		img = fit(img, width, height)
	}

	var buf bytes.Buffer
	contentType, ext, err := encode(&buf, img, format)
	if err != nil {
		return "", err
	}

	return u.put(ctx, dir, ext, &buf, contentType)
}

func (u *ImageUploader) put(ctx context.Context, dir, ext string, r io.Reader, contentType string) (string, error) {
	now := u.now()
	object := path.Join(
		"images", dir, now.Format("2006"), now.Format("01"), now.Format("02"),
		fmt.Sprintf("%s_%d.%s", now.Format("2006_01_02_15_04_05"), rand.Intn(90)+10, ext),
	)
	return u.store.Put(ctx, object, r, contentType)
}

func fit(src image.Image, width, height int) image.Image {
	g := gift.New(gift.ResizeToFit(width, height, gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

func encode(w io.Writer, img image.Image, format string) (contentType, ext string, err error) {
	switch format {
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
		contentType, ext = "image/jpeg", "jpg"
	case "png":
		err = png.Encode(w, img)
		contentType, ext = "image/png", "png"
	case "gif":
		err = gif.Encode(w, img, nil)
		contentType, ext = "image/gif", "gif"
	case "webp":
		err = webp.Encode(w, img, &webp.Options{Quality: WebPQuality})
		contentType, ext = "image/webp", "webp"
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to encode image: %w", err)
	}
	return contentType, ext, nil
}
