// Package images normalises uploaded pictures (avatars, banners, thumbnails)
// into bounded-size JPEGs before they reach object storage.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"path"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ContentType of every processed image
const ContentType = "image/jpeg"

// Processor transforms image data according to a preset.
type Processor interface {
	Process(data []byte, preset Preset) ([]byte, error)
}

// ImageProcessor implements Processor using the imaging library.
type ImageProcessor struct {
	maxSourceBytes int64
}

// NewProcessor creates a processor rejecting sources above maxSourceBytes (0 = unlimited).
func NewProcessor(maxSourceBytes int64) *ImageProcessor {
	return &ImageProcessor{maxSourceBytes: maxSourceBytes}
}

// Process decodes JPEG, PNG or WebP input and re-encodes it as JPEG at the
// preset's dimensions. EXIF orientation is applied before resizing.
func (p *ImageProcessor) Process(data []byte, preset Preset) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrUnsupportedFormat)
	}
	if p.maxSourceBytes > 0 && int64(len(data)) > p.maxSourceBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}
	if err := preset.Validate(); err != nil {
		return nil, err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if format != "jpeg" && format != "png" && format != "webp" {
		return nil, fmt.Errorf("%w: format %s", ErrUnsupportedFormat, format)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrProcessingFailed, err)
	}

	var processed image.Image
	switch preset.Fit {
	case FitCover:
		processed = imaging.Fill(img, preset.Width, preset.Height, imaging.Center, imaging.Lanczos)
	case FitContain:
		processed = processContain(img, preset.Width, preset.Height)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: preset.Quality}); err != nil {
		return nil, fmt.Errorf("%w: failed to encode JPEG: %v", ErrProcessingFailed, err)
	}

	return buf.Bytes(), nil
}

// processContain fits the image inside maxWidth x maxHeight preserving aspect
// ratio. Smaller images are returned untouched. maxHeight 0 scales by width only.
func processContain(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= maxWidth && (maxHeight == 0 || srcHeight <= maxHeight) {
		return img
	}

	newWidth := maxWidth
	newHeight := int(float64(srcHeight) * (float64(maxWidth) / float64(srcWidth)))

	if maxHeight > 0 && newHeight > maxHeight {
		newHeight = maxHeight
		newWidth = int(float64(srcWidth) * (float64(maxHeight) / float64(srcHeight)))
	}

	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
}

// JPEGName replaces the extension of an uploaded filename with .jpg
func JPEGName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "image.jpg"
	}
	return strings.TrimSuffix(base, path.Ext(base)) + ".jpg"
}
