package frontend

import (
	"image/color"

	"github.com/vladimirvolkov/courtside/internal/game"
)

var (
	ColorCourt     = color.RGBA{0x1b, 0x1e, 0x2b, 0xff}
	ColorFloor     = color.RGBA{0xc6, 0x8a, 0x4e, 0xff}
	ColorRim       = color.RGBA{0xff, 0x6a, 0x00, 0xff}
	ColorBackboard = color.RGBA{0xe8, 0xe8, 0xe8, 0xff}
	ColorBall      = color.RGBA{0xf0, 0x8c, 0x28, 0xff}
	ColorText      = color.RGBA{0xff, 0xff, 0xff, 0xff}

	colorRed    = color.RGBA{0xe0, 0x3c, 0x3c, 0xff}
	colorPurple = color.RGBA{0x8e, 0x44, 0xd8, 0xff}
	colorNone   = color.RGBA{0x80, 0x80, 0x80, 0xff}
	colorReady  = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	colorDunk   = color.RGBA{0xff, 0xff, 0x80, 0xff}
)

func TeamColor(t game.Team) color.RGBA {
	switch t {
	case game.TeamRed:
		return colorRed
	case game.TeamPurple:
		return colorPurple
	}
	return colorNone
}

// Outline returns the accent drawn around an actor for its pose, and false
// when the pose has none.
func Outline(h game.VisualHint) (color.RGBA, bool) {
	switch h {
	case game.HintReadyToDunk:
		return colorReady, true
	case game.HintDunking:
		return colorDunk, true
	}
	return color.RGBA{}, false
}

// RGB unpacks a 0xRRGGBB event colour.
func RGB(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}
}

// Fade scales c's alpha, premultiplying the channels as image/color expects.
func Fade(c color.RGBA, alpha float32) color.RGBA {
	if alpha <= 0 {
		return color.RGBA{}
	}
	if alpha >= 1 {
		return c
	}
	scale := func(v uint8) uint8 { return uint8(float32(v) * alpha) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: scale(c.A)}
}
