package tui

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/anchorlines/internal/input"
	"github.com/rook-computer/anchorlines/internal/render"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// DefaultCellSize is how many surface pixels one terminal cell stands for.
var DefaultCellSize = image.Pt(8, 16)

// Keys maps single key presses to hotkey commands. Terminals cannot report
// Ctrl+Shift chords reliably, so the preview uses bare letters.
var Keys = map[rune]input.Command{
	't': input.CmdToggleOverlay,
	'i': input.CmdToggleInverted,
	'h': input.CmdToggleHLine,
	'v': input.CmdToggleVLine,
	'p': input.CmdPreviousProfile,
	'n': input.CmdNextProfile,
}

// Terminal is a preview shell: it shows overlay frames as coloured terminal
// cells, uses mouse motion as the pointer and turns key presses into
// hotkey commands. The desktop underneath is a dim checkerboard so the
// overlay's transparency is visible.
type Terminal struct {
	Logger   Logger
	Pointer  *input.Pointer
	Commands chan<- input.Command
	// Quit is called once when q, Esc or Ctrl+C is pressed.
	Quit func()
	// Resized reports the new surface after a terminal resize.
	Resized func(bounds image.Rectangle)
	// Status returns lines drawn in the bottom-left corner on every frame.
	Status   func() []string
	CellSize image.Point

	screen   tcell.Screen
	mu       sync.Mutex
	bounds   image.Rectangle
	canvas   *image.RGBA
	quitOnce sync.Once
}

func New() *Terminal { return &Terminal{CellSize: DefaultCellSize} }

// NewWithScreen uses an existing screen, such as a tcell simulation screen.
func NewWithScreen(s tcell.Screen) *Terminal {
	return &Terminal{CellSize: DefaultCellSize, screen: s}
}

func (t *Terminal) Start(ctx context.Context) error {
	if t.CellSize.X <= 0 || t.CellSize.Y <= 0 {
		t.CellSize = DefaultCellSize
	}
	if t.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		t.screen = s
	}
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse(tcell.MouseMotionEvents)
	t.screen.HideCursor()

	cols, rows := t.screen.Size()
	t.resize(cols, rows)
	if t.Pointer == nil {
		t.Pointer = input.NewPointer(t.Bounds())
	} else {
		t.Pointer.SetBounds(t.Bounds())
	}
	if t.Logger != nil {
		t.Logger.Infof("tui", "terminal %dx%d cells, surface %v", cols, rows, t.Bounds())
	}

	go t.poll(ctx)
	return nil
}

func (t *Terminal) Stop() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Terminal) Bounds() image.Rectangle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bounds
}

// Position is the pointer in surface pixels.
func (t *Terminal) Position() image.Point {
	if t.Pointer == nil {
		return image.Point{}
	}
	return t.Pointer.Position()
}

func (t *Terminal) resize(cols, rows int) image.Rectangle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bounds = image.Rect(0, 0, cols*t.CellSize.X, rows*t.CellSize.Y)
	t.canvas = image.NewRGBA(t.bounds)
	return t.bounds
}

// Present paints frame. Each cell takes the colour of the surface pixel at
// its centre, blended over the desktop pattern.
func (t *Terminal) Present(frame render.Frame) {
	if t.screen == nil {
		return
	}
	t.mu.Lock()
	canvas := t.canvas
	cell := t.CellSize
	t.mu.Unlock()
	if canvas == nil {
		return
	}

	xdraw.Draw(canvas, canvas.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
	render.Rasterize(canvas, frame)

	cols, rows := t.screen.Size()
	cursorCell := image.Pt(frame.Cursor.X/cell.X, frame.Cursor.Y/cell.Y)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			px := image.Pt(x*cell.X+cell.X/2, y*cell.Y+cell.Y/2)
			bg := CellColor(desktop(x, y), pixelAt(canvas, px))
			style := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorWhite)
			r := ' '
			if image.Pt(x, y) == cursorCell {
				r = '+'
			}
			t.screen.SetContent(x, y, r, nil, style)
		}
	}

	if t.Status != nil {
		lines := t.Status()
		style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorSilver)
		for i, line := range lines {
			y := rows - len(lines) + i
			if y < 0 {
				continue
			}
			for x, r := range []rune(line) {
				if x >= cols {
					break
				}
				t.screen.SetContent(x, y, r, nil, style)
			}
		}
	}
	t.screen.Show()
}

// CellColor composites an overlay pixel over the desktop colour.
func CellColor(under colorful.Color, over color.NRGBA) tcell.Color {
	out := under
	if over.A > 0 {
		fg := colorful.Color{R: float64(over.R) / 255, G: float64(over.G) / 255, B: float64(over.B) / 255}
		out = under.BlendRgb(fg, float64(over.A)/255)
	}
	r, g, b := out.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func pixelAt(img *image.RGBA, pt image.Point) color.NRGBA {
	if !pt.In(img.Bounds()) {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(img.RGBAAt(pt.X, pt.Y)).(color.NRGBA)
}

var (
	desktopDark  = colorful.Color{R: 0.09, G: 0.09, B: 0.11}
	desktopLight = colorful.Color{R: 0.16, G: 0.16, B: 0.19}
)

func desktop(x, y int) colorful.Color {
	if (x/4+y/2)%2 == 0 {
		return desktopDark
	}
	return desktopLight
}

func (t *Terminal) poll(ctx context.Context) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventMouse:
			x, y := ev.Position()
			if t.Pointer != nil {
				t.Pointer.Set(image.Pt(x*t.CellSize.X+t.CellSize.X/2, y*t.CellSize.Y+t.CellSize.Y/2))
			}
		case *tcell.EventResize:
			cols, rows := ev.Size()
			bounds := t.resize(cols, rows)
			if t.Pointer != nil {
				t.Pointer.SetBounds(bounds)
			}
			if t.Resized != nil {
				t.Resized(bounds)
			}
		case *tcell.EventKey:
			t.handleKey(ctx, ev)
		}
	}
}

func (t *Terminal) handleKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit()
		return
	case tcell.KeyRune:
	default:
		return
	}
	r := ev.Rune()
	if r == 'q' {
		t.quit()
		return
	}
	cmd, ok := Keys[r]
	if !ok || t.Commands == nil {
		return
	}
	select {
	case t.Commands <- cmd:
	case <-ctx.Done():
	}
}

func (t *Terminal) quit() {
	t.quitOnce.Do(func() {
		if t.Quit != nil {
			t.Quit()
		}
	})
}
