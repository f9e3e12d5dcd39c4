package view

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

const (
	borderWidth = 24
	cellPixels  = 72
	hudHeight   = 56
	buttonW     = 160
	buttonH     = 36
)

// speedSteps are the selectable simulation speed multipliers.
var speedSteps = []float64{0.5, 1, 2, 4, 8}

// Viewer renders a Battle in an ebiten window and drives it from Update, so
// the battle only ever runs on the ebiten game goroutine.
type Viewer struct {
	battle *game.Battle
	feed   *EventFeed
	face   text.Face
	rng    *rand.Rand

	width  int
	height int
	boardW int
	boardH int

	prev      game.Snapshot // snapshot before the last tick, for tweening
	cur       game.Snapshot
	shades    []float64
	logCursor int // next BattleLog entry to copy into the feed

	paused    bool
	speedIdx  int
	tickAccum float64
	status    string // transient HUD message
	statusTTL int
}

// New creates a viewer for b. b must not be driven by anything else.
func New(b *game.Battle, seed int64) *Viewer {
	cfg := b.Config()
	v := &Viewer{
		battle:   b,
		feed:     NewEventFeed(),
		face:     newFace(),
		rng:      rand.New(rand.NewSource(seed)), // #nosec G404 -- cosmetic only
		boardW:   cfg.Columns * cellPixels,
		boardH:   cfg.Rows * cellPixels,
		speedIdx: 1,
	}
	v.width = borderWidth + v.boardW + borderWidth + feedPanelWidth
	v.height = borderWidth + v.boardH + hudHeight
	v.shades = TileShades(v.rng, cfg.Columns*cfg.Rows)
	v.cur = b.Snapshot()
	v.prev = v.cur
	b.AddObserver(game.ObserverFuncs{
		Tick: v.onTick,
		Over: v.onOver,
	})
	return v
}

// Size returns the window size the viewer lays out for.
func (v *Viewer) Size() (int, int) { return v.width, v.height }

func (v *Viewer) onTick(s game.Snapshot) {
	v.prev = v.cur
	if len(v.prev.Units) != len(s.Units) || s.Tick == 0 {
		v.prev = s
	}
	v.cur = s
}

func (v *Viewer) onOver(t game.Team) {
	v.flash(winText(t))
}

func winText(t game.Team) string {
	return fmt.Sprintf("Team %s wins!", t)
}

// begin rearms the battle with fresh tile shimmer.
func (v *Viewer) begin() {
	v.feed.Reset()
	v.logCursor = 0
	v.tickAccum = 0
	v.shades = TileShades(v.rng, len(v.shades))
	if err := v.battle.Begin(); err != nil {
		v.flash(err.Error())
		return
	}
	v.drainLog()
}

// drainLog copies new battle log entries into the on-screen feed.
func (v *Viewer) drainLog() {
	entries := v.battle.Log().Entries()
	for ; v.logCursor < len(entries); v.logCursor++ {
		e := entries[v.logCursor]
		if e.Category == game.CatTick {
			continue
		}
		v.feed.Add(e)
	}
}

func (v *Viewer) flash(msg string) {
	v.status = msg
	v.statusTTL = 3 * ebiten.TPS()
}

// framesPerTick converts the battle's tick interval to update frames at 1x.
func (v *Viewer) framesPerTick() float64 {
	f := v.battle.Config().TickInterval.Seconds() * float64(ebiten.TPS())
	return max(f, 1)
}

func (v *Viewer) Update() error {
	v.handleInput()
	if v.statusTTL > 0 {
		v.statusTTL--
	}

	if v.paused || v.battle.State() != game.StateRunning {
		return nil
	}
	v.tickAccum += speedSteps[v.speedIdx] / v.framesPerTick()
	for v.tickAccum >= 1.0 {
		v.tickAccum -= 1.0
		over := v.battle.Step()
		v.drainLog()
		if over {
			v.tickAccum = 0
			break
		}
	}
	return nil
}

func (v *Viewer) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && v.battle.State() != game.StateRunning {
		v.begin()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && v.battle.State() != game.StateRunning {
		if image.Pt(ebiten.CursorPosition()).In(v.buttonRect()) {
			v.begin()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.paused = !v.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) && v.speedIdx < len(speedSteps)-1 {
		v.speedIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && v.speedIdx > 0 {
		v.speedIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.copyLog()
	}
}

func (v *Viewer) copyLog() {
	if err := clipboard.WriteAll(v.battle.Log().Format()); err != nil {
		v.flash("clipboard: " + err.Error())
		return
	}
	v.flash(fmt.Sprintf("copied %d log lines", len(v.battle.Log().Entries())))
}

// buttonRect is the begin button below the board.
func (v *Viewer) buttonRect() image.Rectangle {
	x := borderWidth + (v.boardW-buttonW)/2
	y := borderWidth + v.boardH + (hudHeight-buttonH)/2
	return image.Rect(x, y, x+buttonW, y+buttonH)
}

// cellOrigin returns the top-left screen pixel of cell c. Row 0 is at the
// bottom of the board.
func (v *Viewer) cellOrigin(c game.Coord) (float32, float32) {
	rows := v.battle.Config().Rows
	x := borderWidth + c.X*cellPixels
	y := borderWidth + (rows-1-c.Y)*cellPixels
	return float32(x), float32(y)
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})
	v.drawBoard(screen)
	v.drawUnits(screen)

	ox, oy := float32(borderWidth), float32(borderWidth)
	vector.StrokeRect(screen, ox-1, oy-1, float32(v.boardW)+2, float32(v.boardH)+2, 2.0, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)

	v.drawHUD(screen)
	v.feed.Draw(screen, v.face, borderWidth+v.boardW+borderWidth, v.height)
}

func (v *Viewer) drawBoard(screen *ebiten.Image) {
	cfg := v.battle.Config()
	for y := 0; y < cfg.Rows; y++ {
		for x := 0; x < cfg.Columns; x++ {
			px, py := v.cellOrigin(game.Coord{X: x, Y: y})
			a := uint8(v.shades[y*cfg.Columns+x] * 255)
			vector.FillRect(screen, px+1, py+1, cellPixels-2, cellPixels-2, color.NRGBA{R: 255, G: 255, B: 255, A: a}, false)
		}
	}
	// Centre line between the two deployment halves.
	mid := float32(borderWidth + cfg.Columns/2*cellPixels)
	vector.StrokeLine(screen, mid, borderWidth, mid, float32(borderWidth+v.boardH), 1.0, color.RGBA{R: 80, G: 80, B: 80, A: 120}, false)
}

func (v *Viewer) drawUnits(screen *ebiten.Image) {
	t := float32(min(v.tickAccum, 1))
	for i, u := range v.cur.Units {
		if u.Status == game.StatusDead {
			continue
		}
		x, y := v.cellOrigin(u.Coord)
		if i < len(v.prev.Units) {
			px, py := v.cellOrigin(v.prev.Units[i].Coord)
			x = px + (x-px)*t
			y = py + (y-py)*t
		}
		cx, cy := x+cellPixels/2, y+cellPixels/2

		col := TeamColor(u.Team)
		vector.FillCircle(screen, cx, cy, cellPixels*0.3, col, true)
		if u.Status == game.StatusFinish {
			vector.StrokeCircle(screen, cx, cy, cellPixels*0.36, 2, color.White, true)
		}

		barW := float32(cellPixels) * 0.7
		bx, by := cx-barW/2, y+6
		vector.FillRect(screen, bx, by, barW, 5, color.RGBA{R: 30, G: 30, B: 30, A: 220}, false)
		vector.FillRect(screen, bx, by, barW*float32(u.Health), 5, HealthColor(u.Health), false)

		drawText(screen, v.face, u.Label, int(cx)-textWidth(v.face, u.Label)/2, int(cy)-6, color.Black)
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	hudY := borderWidth + v.boardH
	state := v.battle.State()
	info := fmt.Sprintf("tick %d  %s  x%g", v.cur.Tick, state, speedSteps[v.speedIdx])
	if v.paused {
		info += "  PAUSED"
	}
	drawText(screen, v.face, info, borderWidth, hudY+6, color.RGBA{R: 180, G: 200, B: 180, A: 255})
	drawText(screen, v.face, "[Space] begin  [P] pause  [+/-] speed", borderWidth, hudY+24, color.RGBA{R: 120, G: 140, B: 120, A: 255})

	if state != game.StateRunning {
		r := v.buttonRect()
		vector.FillRect(screen, float32(r.Min.X), float32(r.Min.Y), buttonW, buttonH, color.RGBA{R: 60, G: 90, B: 120, A: 255}, false)
		label := "Begin battle"
		drawText(screen, v.face, label, r.Min.X+(buttonW-textWidth(v.face, label))/2, r.Min.Y+11, color.White)
	}

	if w, over := v.battle.Winner(); over {
		banner := winText(w)
		bw := textWidth(v.face, banner)
		x := borderWidth + (v.boardW-bw)/2
		y := borderWidth + v.boardH/2 - 10
		vector.FillRect(screen, float32(x-16), float32(y-8), float32(bw+32), 30, color.RGBA{R: 0, G: 0, B: 0, A: 200}, false)
		drawText(screen, v.face, banner, x, y, TeamColor(w))
	}

	if v.statusTTL > 0 && v.status != "" {
		drawText(screen, v.face, v.status, borderWidth, hudY+40, color.RGBA{R: 230, G: 200, B: 120, A: 255})
	}
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width, v.height
}
