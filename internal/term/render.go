// Package term renders battles in a terminal using tcell.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

const (
	cellWidth = 4 // screen columns per board cell
	boardLeft = 1
	boardTop  = 1
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	emptyStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	centreStyle = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	bannerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	teamStyles = map[game.Team]tcell.Style{
		game.TeamA: tcell.StyleDefault.Foreground(tcell.ColorGreen),
		game.TeamB: tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue),
	}
)

// Renderer draws snapshots onto a tcell screen. Row 0 is drawn at the bottom.
type Renderer struct {
	screen tcell.Screen
}

// NewRenderer wraps screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// BoardSize is the number of screen columns and rows the board frame takes.
func BoardSize(cols, rows int) (int, int) {
	return cols*cellWidth + 2, rows + 2
}

// cellOrigin maps a board coordinate to the screen position of its glyph.
func cellOrigin(s game.Snapshot, c game.Coord) (int, int) {
	return boardLeft + c.X*cellWidth, boardTop + (s.Rows - 1 - c.Y)
}

// Draw clears the screen and renders s with the given status and feed lines.
// It does not call Show.
func (r *Renderer) Draw(s game.Snapshot, status string, feed []string) {
	r.screen.Clear()
	if s.Columns == 0 || s.Rows == 0 {
		r.text(0, 0, status, textStyle)
		return
	}
	r.drawFrame(s)
	r.drawUnits(s)

	_, h := BoardSize(s.Columns, s.Rows)
	r.text(0, h, headline(s), textStyle)
	r.text(0, h+1, status, dimStyle)
	if s.Over() {
		r.text(0, h+2, fmt.Sprintf("Team %s wins!", s.Winner), bannerStyle)
	}
	for i, line := range feed {
		r.text(0, h+4+i, line, dimStyle)
	}
}

func (r *Renderer) drawFrame(s game.Snapshot) {
	w, h := BoardSize(s.Columns, s.Rows)
	for x := 1; x < w-1; x++ {
		r.screen.SetContent(x, 0, '─', nil, borderStyle)
		r.screen.SetContent(x, h-1, '─', nil, borderStyle)
	}
	for y := 1; y < h-1; y++ {
		r.screen.SetContent(0, y, '│', nil, borderStyle)
		r.screen.SetContent(w-1, y, '│', nil, borderStyle)
	}
	r.screen.SetContent(0, 0, '┌', nil, borderStyle)
	r.screen.SetContent(w-1, 0, '┐', nil, borderStyle)
	r.screen.SetContent(0, h-1, '└', nil, borderStyle)
	r.screen.SetContent(w-1, h-1, '┘', nil, borderStyle)

	half := s.Columns / 2
	for y := 0; y < s.Rows; y++ {
		for x := 0; x < s.Columns; x++ {
			sx, sy := cellOrigin(s, game.Coord{X: x, Y: y})
			r.screen.SetContent(sx+1, sy, '·', nil, emptyStyle)
		}
		if half > 0 {
			sx, sy := cellOrigin(s, game.Coord{X: half, Y: y})
			r.screen.SetContent(sx-1, sy, '┊', nil, centreStyle)
		}
	}
}

func (r *Renderer) drawUnits(s game.Snapshot) {
	for _, u := range s.Units {
		if u.Status == game.StatusDead {
			continue
		}
		sx, sy := cellOrigin(s, u.Coord)
		style := UnitStyle(u)
		r.text(sx, sy, fmt.Sprintf("%-2s%c", u.Label, HealthGlyph(u.Health)), style)
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// UnitStyle colours a unit by team, bolding finished units and dimming
// badly hurt ones.
func UnitStyle(u game.UnitSnapshot) tcell.Style {
	style := teamStyles[u.Team]
	switch {
	case u.Status == game.StatusFinish:
		style = style.Bold(true)
	case u.Health <= 0.25:
		style = style.Dim(true)
	}
	return style
}

// HealthGlyph buckets health into a single bar character.
func HealthGlyph(h float64) rune {
	switch {
	case h > 0.75:
		return '█'
	case h > 0.5:
		return '▆'
	case h > 0.25:
		return '▄'
	case h > 0:
		return '▂'
	}
	return ' '
}

func headline(s game.Snapshot) string {
	var a, b int
	for _, u := range s.Units {
		if u.Status == game.StatusDead {
			continue
		}
		if u.Team == game.TeamA {
			a++
		} else {
			b++
		}
	}
	return fmt.Sprintf("T=%03d %-7s A:%d B:%d", s.Tick, s.State, a, b)
}
