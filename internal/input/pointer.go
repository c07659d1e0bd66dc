package input

import (
	"image"
	"sync"
)

// Pointer is the global pointer position, accumulated from relative motion
// and clamped to a surface. Several device readers may move it while the app
// loop polls Position.
type Pointer struct {
	mu     sync.Mutex
	bounds image.Rectangle
	pos    image.Point
}

// NewPointer starts in the middle of bounds.
func NewPointer(bounds image.Rectangle) *Pointer {
	return &Pointer{
		bounds: bounds,
		pos:    center(bounds),
	}
}

func center(r image.Rectangle) image.Point {
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}

func (p *Pointer) Bounds() image.Rectangle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bounds
}

// SetBounds changes the surface and pulls the pointer back inside it. A
// pointer that had no surface yet starts in the middle of the new one.
func (p *Pointer) SetBounds(bounds image.Rectangle) {
	p.mu.Lock()
	if p.bounds.Empty() {
		p.pos = center(bounds)
	}
	p.bounds = bounds
	p.pos = p.clamp(p.pos)
	p.mu.Unlock()
}

func (p *Pointer) Position() image.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

// Set moves the pointer to pt, clamped to the bounds.
func (p *Pointer) Set(pt image.Point) {
	p.mu.Lock()
	p.pos = p.clamp(pt)
	p.mu.Unlock()
}

// Move applies a relative motion.
func (p *Pointer) Move(dx, dy int) {
	p.mu.Lock()
	p.pos = p.clamp(p.pos.Add(image.Pt(dx, dy)))
	p.mu.Unlock()
}

func (p *Pointer) clamp(pt image.Point) image.Point {
	if p.bounds.Empty() {
		return pt
	}
	pt.X = min(max(pt.X, p.bounds.Min.X), p.bounds.Max.X-1)
	pt.Y = min(max(pt.Y, p.bounds.Min.Y), p.bounds.Max.Y-1)
	return pt
}
