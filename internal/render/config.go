package render

import (
	"image/color"
	"time"
)

// Global render configuration.
var (
	// Background fills surfaces that have nothing underneath the overlay
	// (the framebuffer console and exported snapshots).
	Background = color.RGBA{R: 0x18, G: 0x18, B: 0x18, A: 0xFF}

	// CaptionColor is used for snapshot annotations.
	CaptionColor = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}

	// TickInterval is the pointer polling cadence.
	TickInterval = time.Second / 60
)
