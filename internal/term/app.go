package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

const feedLines = 8

// App runs a battle in the terminal. The battle is stepped only from Run's
// goroutine.
type App struct {
	screen   tcell.Screen
	battle   *game.Battle
	renderer *Renderer

	snap   game.Snapshot
	paused bool
	status string
}

// NewApp binds b to an initialised screen.
func NewApp(screen tcell.Screen, b *game.Battle) *App {
	a := &App{
		screen:   screen,
		battle:   b,
		renderer: NewRenderer(screen),
		snap:     b.Snapshot(),
		status:   "[space] begin  [p] pause  [q] quit",
	}
	b.AddObserver(game.ObserverFuncs{
		Tick: func(s game.Snapshot) { a.snap = s },
		Over: func(game.Team) { a.status = "battle over - [space] to rearm  [q] quit" },
	})
	return a
}

// Run polls input and steps the battle every tick interval until the user
// quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.battle.Config().TickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			eventChan <- ev
		}
	}()

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.tick()
		}
		a.draw()
	}
}

// tick advances the battle once unless paused.
func (a *App) tick() {
	if a.paused || a.battle.State() != game.StateRunning {
		return
	}
	a.battle.Step()
}

// handleEvent applies one input event and reports whether to keep running.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				a.begin()
			case 'p':
				if a.battle.State() == game.StateRunning {
					a.paused = !a.paused
				}
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) begin() {
	if a.battle.State() == game.StateRunning {
		return
	}
	if err := a.battle.Begin(); err != nil {
		a.status = fmt.Sprintf("begin failed: %v", err)
		return
	}
	a.paused = false
	a.status = "[p] pause  [q] quit"
}

func (a *App) draw() {
	status := a.status
	if a.paused {
		status = "paused - [p] resume"
	}
	a.renderer.Draw(a.snap, status, a.feed())
	a.screen.Show()
}

// feed returns the most recent non-tick log lines, oldest first.
func (a *App) feed() []string {
	entries := a.battle.Log().Entries()
	lines := make([]string, 0, feedLines)
	for i := len(entries) - 1; i >= 0 && len(lines) < feedLines; i-- {
		if entries[i].Category == game.CatTick {
			continue
		}
		lines = append(lines, entries[i].String())
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}
