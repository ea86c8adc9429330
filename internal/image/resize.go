package image

import (
	"image"

	"golang.org/x/image/draw"
)

// Fit scales img down so that neither side exceeds maxDim, keeping the aspect ratio.
// Images already within bounds, and a maxDim of zero or less, are returned unchanged.
// Nearest-neighbour sampling keeps every output pixel one of the source's colours.
func Fit(img image.Image, maxDim int) image.Image {
	if img == nil || maxDim <= 0 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}

	// NRGBA keeps the buffer conversion downstream copy-free.
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
