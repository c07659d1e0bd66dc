package render

import (
	"context"
	"image"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"
)

const defaultFBDevice = "/dev/fb0"

// FBRenderer shows overlay frames on the Linux framebuffer. The framebuffer
// bounds are the overlay surface; frames are composed on an offscreen canvas
// and copied to the device in one pass.
type FBRenderer struct {
	Device string
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	fbDev   *fb.Device
	canvas  *image.RGBA
	running atomic.Bool
	frames  atomic.Int64
	lastLog time.Time
}

func NewFBRenderer() *FBRenderer { return &FBRenderer{Device: defaultFBDevice} }

func (r *FBRenderer) Start(ctx context.Context) error {
	path := r.Device
	if path == "" {
		path = defaultFBDevice
	}
	dev, err := fb.Open(path)
	if err != nil {
		return err
	}
	r.fbDev = dev
	bounds := dev.Bounds()
	if r.Logger != nil {
		r.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}

	r.canvas = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	if r.fbDev != nil {
		r.fbDev.Close()
	}
	return nil
}

// Bounds is the framebuffer rectangle. Before Start it is empty.
func (r *FBRenderer) Bounds() image.Rectangle {
	if r.canvas == nil {
		return image.Rectangle{}
	}
	return r.canvas.Bounds()
}

// Present draws frame over the background and copies it to the device.
func (r *FBRenderer) Present(frame Frame) {
	if !r.running.Load() || r.fbDev == nil || r.canvas == nil {
		return
	}
	xdraw.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(Background), image.Point{}, xdraw.Src)
	Rasterize(r.canvas, frame)
	xdraw.Draw(r.fbDev, r.fbDev.Bounds(), r.canvas, image.Point{}, xdraw.Src)

	n := r.frames.Add(1)
	if r.Logger != nil && time.Since(r.lastLog) > time.Second {
		r.Logger.Infof("fb", "frame %d, cursor=%v, primitives=%d", n, frame.Cursor, len(frame.Primitives))
		r.lastLog = time.Now()
	}
}
