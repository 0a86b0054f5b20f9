package trim

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageBuffer is a PixelBuffer over a decoded image.
type ImageBuffer struct {
	pix *image.NRGBA
}

// NewImageBuffer wraps the image. The image is
// converted to non-premultiplied RGBA once.
func NewImageBuffer(img image.Image) *ImageBuffer {
	pix, ok := img.(*image.NRGBA)

	if !ok || pix.Rect.Min != (image.Point{}) {
		pix = imaging.Clone(img)
	}

	return &ImageBuffer{pix: pix}
}

// Open decodes the image file at path.
func Open(path string) (*ImageBuffer, error) {
	img, err := imaging.Open(path)

	if err != nil {
		return nil, err
	}

	return NewImageBuffer(img), nil
}

// Width returns the width of the image in pixels.
func (b *ImageBuffer) Width() int {
	return b.pix.Rect.Dx()
}

// Height returns the height of the image in pixels.
func (b *ImageBuffer) Height() int {
	return b.pix.Rect.Dy()
}

// Alpha returns the alpha of the pixel counting rows
// from the bottom of the image.
func (b *ImageBuffer) Alpha(x, y int) float64 {
	offset := b.pix.PixOffset(x, b.Height()-1-y)
	return float64(b.pix.Pix[offset+3]) / 255
}
