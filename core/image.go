package core

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned for uploads that are not jpeg, png or webp.
var ErrUnsupportedImage = errors.New("Only image files are allowed (jpeg, jpg, png, webp)")

// ErrImageDimensions is returned for images whose declared size exceeds the pixel budget.
var ErrImageDimensions = errors.New("Image dimensions are too large")

// DefaultMaxPixels bounds decoding to about 40 megapixels.
const DefaultMaxPixels = 40_000_000

var allowedImageExt = regexp.MustCompile(`^\.(jpe?g|png|webp)$`)

var allowedImageMIME = []string{"image/jpeg", "image/png", "image/webp"}

// CheckImageUpload verifies both the filename extension and the sniffed content type.
func CheckImageUpload(filename string, data []byte) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt.MatchString(ext) {
		return ErrUnsupportedImage
	}
	if !mimetype.EqualsAny(mimetype.Detect(data).String(), allowedImageMIME...) {
		return ErrUnsupportedImage
	}
	return nil
}

// ImageProcessor re-encodes uploaded images into the stored format.
type ImageProcessor interface {
	Normalize(data []byte) (out []byte, ext string, contentType string, err error)
}

// ImagingProcessor fits images inside MaxSide×MaxSide without upscaling and writes JPEG at Quality.
// Images declaring more than MaxPixels are refused before their pixels are decoded.
type ImagingProcessor struct {
	MaxSide   int
	Quality   int
	MaxPixels int
}

func NewImagingProcessor(maxSide, quality int) *ImagingProcessor {
	if maxSide <= 0 {
		maxSide = 800
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &ImagingProcessor{MaxSide: maxSide, Quality: quality, MaxPixels: DefaultMaxPixels}
}

func (p *ImagingProcessor) Normalize(data []byte) ([]byte, string, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to decode image: %w", err)
	}
	if max := p.MaxPixels; max > 0 && (cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > max/cfg.Height) {
		return nil, "", "", fmt.Errorf("%w: %dx%d", ErrImageDimensions, cfg.Width, cfg.Height)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to decode image: %w", err)
	}

	img := fitWithin(src, p.MaxSide)

	// JPEG has no alpha; flatten transparent areas onto white.
	b := img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return nil, "", "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), ".jpg", "image/jpeg", nil
}

// fitWithin scales img down to fit a max×max box, keeping aspect ratio. Smaller images are returned as-is.
func fitWithin(img image.Image, max int) image.Image {
	b := img.Bounds()
	if b.Dx() <= max && b.Dy() <= max {
		return img
	}
	return imaging.Fit(img, max, max, imaging.Lanczos)
}
