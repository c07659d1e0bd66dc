package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Rasterize composites frame onto dst with source-over blending. Frame
// coordinates are relative to dst.Bounds().Min; primitives are clipped to dst.
func Rasterize(dst xdraw.Image, frame Frame) {
	bounds := dst.Bounds()
	for _, p := range frame.Primitives {
		r := p.Bounds().Add(bounds.Min).Intersect(bounds)
		if r.Empty() {
			continue
		}
		xdraw.Draw(dst, r, image.NewUniform(p.Color), image.Point{}, xdraw.Over)
	}
}

// Snapshot returns frame drawn over a uniform background.
func Snapshot(frame Frame, background color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)
	Rasterize(img, frame)
	return img
}
