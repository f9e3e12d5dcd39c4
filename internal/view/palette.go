package view

import (
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

// Tile shimmer bounds, as alpha over the dark board.
const (
	tileAlphaMin = 0.03
	tileAlphaMax = 0.10
)

var teamColors = [2]color.RGBA{
	game.TeamA: {R: 70, G: 200, B: 90, A: 255},
	game.TeamB: {R: 70, G: 120, B: 230, A: 255},
}

var (
	healthHigh = color.RGBA{R: 60, G: 210, B: 80, A: 255}
	healthMid  = color.RGBA{R: 230, G: 210, B: 50, A: 255}
	healthLow  = color.RGBA{R: 220, G: 60, B: 50, A: 255}
)

// HealthColor picks the bar colour for a health fraction: green above half,
// yellow above a quarter, red otherwise.
func HealthColor(h float64) color.RGBA {
	switch {
	case h > 0.5:
		return healthHigh
	case h > 0.25:
		return healthMid
	default:
		return healthLow
	}
}

// TeamColor returns the unit colour for t.
func TeamColor(t game.Team) color.RGBA {
	return teamColors[t]
}

// TileShades draws one shimmer alpha per cell in [0.03, 0.10].
func TileShades(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = tileAlphaMin + rng.Float64()*(tileAlphaMax-tileAlphaMin)
	}
	return out
}

// newFace wraps the 7x13 bitmap font for text/v2.
func newFace() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
}

func drawText(dst *ebiten.Image, face text.Face, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

// textWidth returns the advance of s in pixels.
func textWidth(face text.Face, s string) int {
	w, _ := text.Measure(s, face, 0)
	return int(w)
}
