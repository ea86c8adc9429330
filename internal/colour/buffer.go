package colour

import (
	"fmt"
	"image"
	"image/draw"
)

// bytesPerPixel is the width of one RGBA pixel in a PixelBuffer.
const bytesPerPixel = 4

// PixelBuffer is a row-major, non-premultiplied RGBA raster.
// Pix holds 4 bytes per pixel and is never modified by this package.
type PixelBuffer struct {
	Pix    []uint8
	Width  int
	Height int
}

// NewPixelBuffer wraps raw RGBA bytes.
// It returns an error when pix is too short for the given dimensions.
func NewPixelBuffer(pix []uint8, width, height int) (PixelBuffer, error) {
	if width < 0 || height < 0 {
		return PixelBuffer{}, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidParameter, width, height)
	}
	if need := width * height * bytesPerPixel; len(pix) < need {
		return PixelBuffer{}, fmt.Errorf("%w: buffer holds %d bytes, %dx%d needs %d", ErrInvalidParameter, len(pix), width, height, need)
	}
	return PixelBuffer{Pix: pix, Width: width, Height: height}, nil
}

// Len returns the number of pixels covered by the buffer dimensions.
func (b PixelBuffer) Len() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Valid reports whether the buffer has a non-empty extent backed by enough bytes.
func (b PixelBuffer) Valid() bool {
	return b.Width > 0 && b.Height > 0 && len(b.Pix) >= b.Width*b.Height*bytesPerPixel
}

// At returns the RGBA channels of the pixel at flat index i.
func (b PixelBuffer) At(i int) (r, g, bl, a uint8) {
	o := i * bytesPerPixel
	p := b.Pix[o : o+bytesPerPixel : o+bytesPerPixel]
	return p[0], p[1], p[2], p[3]
}

// BufferFromImage renders img into a non-premultiplied RGBA buffer.
// An *image.NRGBA with tightly packed rows is used without copying.
func BufferFromImage(img image.Image) PixelBuffer {
	if img == nil {
		return PixelBuffer{}
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return PixelBuffer{}
	}

	if n, ok := img.(*image.NRGBA); ok && n.Stride == width*bytesPerPixel {
		start := n.PixOffset(bounds.Min.X, bounds.Min.Y)
		return PixelBuffer{Pix: n.Pix[start : start+width*height*bytesPerPixel], Width: width, Height: height}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return PixelBuffer{Pix: dst.Pix, Width: width, Height: height}
}
