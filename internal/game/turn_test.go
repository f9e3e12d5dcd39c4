package game

import (
	"errors"
	"math"
	"testing"
)

func mustScenario(t *testing.T, opts ...ScenarioOption) *Scenario {
	t.Helper()
	s, err := NewScenario(opts...)
	if err != nil {
		t.Fatalf("NewScenario: %v", err)
	}
	return s
}

// checkOccupancy verifies the occupancy index and unit coordinates agree and
// that only living active units are indexed.
func checkOccupancy(t *testing.T, b *Battle) {
	t.Helper()
	occ := b.Occupancy()
	living := 0
	for _, u := range b.Roster().All() {
		if u.Status == StatusDead {
			continue
		}
		living++
		if got := occ.At(u.Coord); got != u {
			t.Fatalf("%s at %s but index holds %v", u.Label(), u.Coord, got)
		}
	}
	if occ.Len() != living {
		t.Fatalf("index has %d entries for %d living units", occ.Len(), living)
	}
	for _, u := range occ.Units() {
		if !u.Active || u.Status == StatusDead {
			t.Fatalf("index holds inactive or dead unit %s", u.Label())
		}
	}
}

// checkGridFree verifies no obstacle marks survive between ticks.
func checkGridFree(t *testing.T, g *Grid) {
	t.Helper()
	for _, c := range g.Cells() {
		if c.Kind != CellFree {
			t.Fatalf("cell %s left as %s", c.Coord, c.Kind)
		}
	}
}

func TestTurn_AdjacentAttackInsteadOfPath(t *testing.T) {
	s := mustScenario(t,
		WithDamage(0.05, 0.05),
		WithUnit(TeamA, 2, 2),
		WithUnit(TeamB, 3, 2),
	)
	s.RunTicks(1)

	turns := s.Battle.LastTurns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	for _, tr := range turns {
		if tr.Action != ActionAttack {
			t.Fatalf("%s: expected attack, got %s", tr.Unit.Label(), tr.Action)
		}
	}
	if s.Battle.Resolver().Pathfinder().Passes() != 0 {
		t.Fatal("pathfinder should not run when an enemy is adjacent")
	}
	if s.Log.CountCategory(CatMove, "") != 0 || s.Log.CountCategory(CatPath, "") != 0 {
		t.Fatalf("unexpected move/path entries:\n%s", s.Log.Format())
	}
	a, b := s.Unit(TeamA, 0), s.Unit(TeamB, 0)
	if math.Abs(a.Health-0.95) > 1e-9 || math.Abs(b.Health-0.95) > 1e-9 {
		t.Fatalf("expected both at 0.95, got A=%.3f B=%.3f", a.Health, b.Health)
	}
	if a.Coord != (Coord{2, 2}) || b.Coord != (Coord{3, 2}) {
		t.Fatalf("attackers must not move: A=%s B=%s", a.Coord, b.Coord)
	}
}

func TestTurn_DamageWithinBounds(t *testing.T) {
	s := mustScenario(t,
		WithSeed(99),
		WithDamage(0.01, 0.12),
		WithUnit(TeamA, 2, 2),
		WithUnit(TeamB, 3, 3),
	)
	s.RunTicks(5)
	for _, e := range s.Log.Filter(CatAttack, "hit") {
		if e.NumVal < 0.01 || e.NumVal > 0.12 {
			t.Fatalf("damage %.4f outside [0.01,0.12]: %s", e.NumVal, e.String())
		}
	}
	if got := s.Log.CountCategory(CatAttack, "hit"); got != 10 {
		t.Fatalf("expected 10 hits over 5 ticks, got %d", got)
	}
}

func TestTurn_KillRemovesEnemy(t *testing.T) {
	s := mustScenario(t,
		WithDamage(1, 1),
		WithUnit(TeamA, 2, 2),
		WithUnit(TeamB, 3, 2),
	)
	s.RunTicks(1)

	b := s.Unit(TeamB, 0)
	if b.Status != StatusDead {
		t.Fatalf("expected B0 dead, got %s", b.Status)
	}
	if s.Battle.Occupancy().At(Coord{3, 2}) != nil {
		t.Fatal("dead unit must leave the occupancy index")
	}
	turns := s.Battle.LastTurns()
	if !turns[0].Killed || turns[1].Action != ActionSkip {
		t.Fatalf("expected kill then skip, got %s/%v then %s", turns[0].Action, turns[0].Killed, turns[1].Action)
	}
	if s.Unit(TeamA, 0).Health != 1 {
		t.Fatal("a unit killed earlier in the tick must not strike back")
	}
	checkOccupancy(t, s.Battle)
	checkGridFree(t, s.Battle.Grid())
}

func TestTurn_MoveOneCellTowardEnemy(t *testing.T) {
	s := mustScenario(t,
		WithUnit(TeamA, 0, 0),
		WithUnit(TeamB, 5, 0),
	)
	s.RunTicks(1)

	a, b := s.Unit(TeamA, 0), s.Unit(TeamB, 0)
	if a.Coord != (Coord{1, 0}) {
		t.Fatalf("expected A0 at (1,0), got %s", a.Coord)
	}
	if b.Coord != (Coord{4, 0}) {
		t.Fatalf("expected B0 at (4,0), got %s", b.Coord)
	}
	if tr := s.Battle.LastTurns()[0]; tr.Ring != 5 || tr.Target != b {
		t.Fatalf("expected A0 to pursue B0 on ring 5, got ring %d", tr.Ring)
	}
	checkOccupancy(t, s.Battle)
	checkGridFree(t, s.Battle.Grid())

	s.RunTicks(1)
	if a.Coord != (Coord{2, 0}) || b.Coord != (Coord{3, 0}) {
		t.Fatalf("expected A0 (2,0) B0 (3,0), got %s %s", a.Coord, b.Coord)
	}
	s.RunTicks(1)
	if s.Log.CountCategory(CatAttack, "hit") != 2 {
		t.Fatalf("expected the units to trade blows on tick 3:\n%s", s.Log.Format())
	}
}

func TestTurn_TeammatesMaskedForOneQuery(t *testing.T) {
	s := mustScenario(t,
		WithUnit(TeamA, 0, 0),
		WithUnit(TeamA, 1, 0),
		WithUnit(TeamB, 5, 0),
	)
	s.RunTicks(1)

	a0, a1 := s.Unit(TeamA, 0), s.Unit(TeamA, 1)
	if a0.Coord != (Coord{0, 1}) {
		t.Fatalf("A0 should route around A1 to (0,1), got %s", a0.Coord)
	}
	if a1.Coord != (Coord{2, 0}) {
		t.Fatalf("A1 should advance to (2,0), got %s", a1.Coord)
	}
	checkOccupancy(t, s.Battle)
	checkGridFree(t, s.Battle.Grid())
}

func TestTurn_LockedUnitWaits(t *testing.T) {
	s := mustScenario(t,
		WithUnit(TeamA, 0, 0),
		WithUnit(TeamA, 1, 0),
		WithUnit(TeamA, 0, 1),
		WithUnit(TeamB, 5, 7),
	)
	s.RunTicks(1)

	tr := s.Battle.LastTurns()[0]
	if tr.Action != ActionWait || !errors.Is(tr.Err, ErrLocked) {
		t.Fatalf("expected A0 to wait locked, got %s err=%v", tr.Action, tr.Err)
	}
	if s.Unit(TeamA, 0).Coord != (Coord{0, 0}) {
		t.Fatal("locked unit must not move")
	}
	if !s.Log.HasEntry(CatPath, "locked", "B0") {
		t.Fatalf("expected a path/locked entry:\n%s", s.Log.Format())
	}
	checkGridFree(t, s.Battle.Grid())
}

func TestTurn_FinishWhenNoEnemies(t *testing.T) {
	s := mustScenario(t,
		WithUnit(TeamA, 0, 0),
		WithUnit(TeamA, 3, 3),
	)
	s.RunTicks(1)
	for _, tr := range s.Battle.LastTurns() {
		if tr.Action != ActionFinish {
			t.Fatalf("%s: expected finish, got %s", tr.Unit.Label(), tr.Action)
		}
		if tr.Unit.Status != StatusFinish {
			t.Fatalf("%s: status %s", tr.Unit.Label(), tr.Unit.Status)
		}
	}
}

func TestTurn_SkipsFinishedAndDead(t *testing.T) {
	s := mustScenario(t,
		WithUnit(TeamA, 0, 0),
		WithUnit(TeamB, 5, 7),
	)
	a := s.Unit(TeamA, 0)
	a.Status = StatusFinish
	res := s.Battle.Resolver().Resolve(a)
	if res.Action != ActionSkip {
		t.Fatalf("finished unit should skip, got %s", res.Action)
	}
	a.Status = StatusDead
	if res := s.Battle.Resolver().Resolve(a); res.Action != ActionSkip {
		t.Fatalf("dead unit should skip, got %s", res.Action)
	}
}
