package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rook-computer/anchorlines/internal/render"
	"github.com/rook-computer/anchorlines/internal/scheme"
	"github.com/rook-computer/anchorlines/internal/state"
)

type renderOptions struct {
	profile  string
	width    int
	height   int
	cursor   string
	inverted bool
	caption  bool
	out      string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a profile over a plain background to a PNG",
		Long: `Render composes the overlay exactly as the running overlay would for the
given surface size and cursor position and writes the result as a PNG.
Without --profile the built-in thin look is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := renderSnapshot(root, opts)
			if err != nil {
				return err
			}
			if err := writePNGFile(opts.out, img); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", opts.out, opts.width, opts.height)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.profile, "profile", "", "profile to render")
	f.IntVar(&opts.width, "width", 1920, "surface width in pixels")
	f.IntVar(&opts.height, "height", 1080, "surface height in pixels")
	f.StringVar(&opts.cursor, "cursor", "", "cursor position as x,y (default: centre)")
	f.BoolVar(&opts.inverted, "inverted", false, "render inverted mode")
	f.BoolVar(&opts.caption, "caption", false, "annotate the image with profile and cursor")
	f.StringVarP(&opts.out, "out", "o", "anchorlines.png", "output PNG path")
	return cmd
}

func renderSnapshot(root *rootOptions, opts *renderOptions) (*image.RGBA, error) {
	if opts.width <= 0 || opts.height <= 0 {
		return nil, fmt.Errorf("surface %dx%d is empty", opts.width, opts.height)
	}
	st := state.New()
	st.Inverted = opts.inverted
	st.Cursor = image.Pt(opts.width/2, opts.height/2)
	if opts.cursor != "" {
		pt, err := parsePoint(opts.cursor)
		if err != nil {
			return nil, err
		}
		st.Cursor = pt
	}
	st.Scheme = scheme.Normal()
	if opts.profile != "" {
		s, err := loadProfile(root, opts.profile)
		if err != nil {
			return nil, err
		}
		st.Scheme = s
	}

	frame := render.Compose(render.Input{State: st, Width: opts.width, Height: opts.height})
	img := render.Snapshot(frame, render.Background)
	if opts.caption {
		render.DrawCaption(img, render.CaptionLines(st)...)
	}
	return img, nil
}

func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("cursor %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("cursor %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("cursor %q: %w", s, err)
	}
	return image.Pt(x, y), nil
}
