package view

import (
	"fmt"
	"image/color"
	"math/rand"
	"testing"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

func TestHealthColor_Thresholds(t *testing.T) {
	cases := []struct {
		h    float64
		want string
	}{
		{1.0, "high"}, {0.51, "high"}, {0.5, "mid"}, {0.26, "mid"}, {0.25, "low"}, {0, "low"},
	}
	names := map[string]color.RGBA{"high": healthHigh, "mid": healthMid, "low": healthLow}
	for _, tc := range cases {
		if got := HealthColor(tc.h); got != names[tc.want] {
			t.Fatalf("HealthColor(%.2f) = %v, want %s", tc.h, got, tc.want)
		}
	}
}

func TestTileShades_Range(t *testing.T) {
	shades := TileShades(rand.New(rand.NewSource(3)), 48) // #nosec G404 -- test
	if len(shades) != 48 {
		t.Fatalf("expected 48 shades, got %d", len(shades))
	}
	for i, s := range shades {
		if s < tileAlphaMin || s > tileAlphaMax {
			t.Fatalf("shade %d = %.3f outside [%.2f,%.2f]", i, s, tileAlphaMin, tileAlphaMax)
		}
	}
}

func TestEventFeed_WrapsOldestFirst(t *testing.T) {
	f := NewEventFeed()
	for i := 0; i < feedMaxEntries+5; i++ {
		f.Add(game.BattleLogEntry{Tick: i, Key: fmt.Sprint(i)})
	}
	got := f.Recent()
	if len(got) != feedMaxEntries {
		t.Fatalf("expected %d entries, got %d", feedMaxEntries, len(got))
	}
	if got[0].Tick != 5 || got[len(got)-1].Tick != feedMaxEntries+4 {
		t.Fatalf("expected ticks 5..%d, got %d..%d", feedMaxEntries+4, got[0].Tick, got[len(got)-1].Tick)
	}
	f.Reset()
	if f.Len() != 0 || len(f.Recent()) != 0 {
		t.Fatal("Reset should empty the feed")
	}
}

func newTestViewer(t *testing.T) (*Viewer, *game.Battle) {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Seed = 12
	b, err := game.NewBattle(cfg, game.WithLog(game.NewBattleLog(true)))
	if err != nil {
		t.Fatalf("NewBattle: %v", err)
	}
	return New(b, 1), b
}

func TestViewer_RowZeroAtBottom(t *testing.T) {
	v, _ := newTestViewer(t)
	_, top := v.cellOrigin(game.Coord{X: 0, Y: 7})
	_, bottom := v.cellOrigin(game.Coord{X: 0, Y: 0})
	if top != borderWidth || bottom != float32(borderWidth+7*cellPixels) {
		t.Fatalf("unexpected row placement: top=%v bottom=%v", top, bottom)
	}
	w, h := v.Size()
	if w != borderWidth*2+6*cellPixels+feedPanelWidth || h != borderWidth+8*cellPixels+hudHeight {
		t.Fatalf("unexpected window size %dx%d", w, h)
	}
}

func TestViewer_BeginFillsFeedWithoutTickEntries(t *testing.T) {
	v, b := newTestViewer(t)
	v.begin()
	if b.State() != game.StateRunning {
		t.Fatalf("expected running, got %s", b.State())
	}
	for i := 0; i < 6; i++ {
		b.Step()
	}
	v.drainLog()
	if v.feed.Len() == 0 {
		t.Fatal("feed should hold the begin entry and turn events")
	}
	for _, e := range v.feed.Recent() {
		if e.Category == game.CatTick {
			t.Fatalf("verbose tick entry leaked into the feed: %s", e.String())
		}
	}
	if v.cur.Tick != 6 {
		t.Fatalf("viewer should track the latest snapshot, got tick %d", v.cur.Tick)
	}

	v.begin()
	if v.logCursor != 1 || v.feed.Len() != 1 {
		t.Fatalf("rearm should restart the feed, cursor=%d len=%d", v.logCursor, v.feed.Len())
	}
}

func TestWinText(t *testing.T) {
	if got := winText(game.TeamB); got != "Team B wins!" {
		t.Fatalf("unexpected banner %q", got)
	}
}
