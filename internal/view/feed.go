package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 15
	feedHighlight  = 3 // newest entries drawn on a highlighted row
)

// EventFeed is a ring buffer of recent battle events rendered on-screen.
type EventFeed struct {
	entries []game.BattleLogEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{entries: make([]game.BattleLogEntry, feedMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (f *EventFeed) Add(e game.BattleLogEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Reset drops every entry.
func (f *EventFeed) Reset() {
	f.head = 0
	f.count = 0
}

// Len returns the number of buffered entries.
func (f *EventFeed) Len() int { return f.count }

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []game.BattleLogEntry {
	out := make([]game.BattleLogEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		out[i] = f.entries[idx]
	}
	return out
}

// feedLine formats an entry for the panel.
func feedLine(e game.BattleLogEntry) string {
	return fmt.Sprintf("%4d %-3s %s %s", e.Tick, e.Unit, e.Key, e.Value)
}

// Draw renders the feed panel at panelX spanning the full window height.
func (f *EventFeed) Draw(screen *ebiten.Image, face text.Face, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, 18, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	drawText(screen, face, "BATTLE LOG  [C] copy", panelX+8, 2, color.White)
	vector.StrokeLine(screen, float32(panelX), 18, float32(panelX+feedPanelWidth), 18, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 22
	for i, e := range entries {
		recent := i >= len(entries)-feedHighlight
		if recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 7, entryColor(e), false)

		txt := color.RGBA{R: 170, G: 170, B: 170, A: 255}
		if recent {
			txt = color.RGBA{R: 240, G: 240, B: 240, A: 255}
		}
		drawText(screen, face, feedLine(e), panelX+12, y, txt)
		y += feedLineHeight
	}
}

func entryColor(e game.BattleLogEntry) color.RGBA {
	switch e.Team {
	case game.TeamA.String():
		return teamColors[game.TeamA]
	case game.TeamB.String():
		return teamColors[game.TeamB]
	default:
		return color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}
}
