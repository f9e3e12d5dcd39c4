package game

import (
	"context"
	"fmt"
	"time"
)

// BattleState is the phase of the battle state machine.
type BattleState int

const (
	StateIdle    BattleState = iota // built, waiting for Begin
	StateRunning                    // ticking
	StateOver                       // a team won; Begin rearms
)

func (s BattleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateOver:
		return "over"
	default:
		return "unknown"
	}
}

// MarshalText lets snapshots encode the state by name.
func (s BattleState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a state name.
func (s *BattleState) UnmarshalText(b []byte) error {
	for _, st := range []BattleState{StateIdle, StateRunning, StateOver} {
		if string(b) == st.String() {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown battle state %q", b)
}

// Placement puts one unit of a team on a coordinate at deploy time.
type Placement struct {
	Team  Team
	Coord Coord
}

// Battle owns the grid, roster and occupancy index and advances them one tick
// at a time. It is not safe for concurrent use; observers get copies.
type Battle struct {
	cfg       Config
	grid      *Grid
	roster    *Roster
	occ       *Occupancy
	resolver  *TurnResolver
	rng       Rand
	log       *BattleLog
	observers []Observer

	state   BattleState
	tick    int
	winner  Team
	results []TurnResult // turns resolved in the last tick
}

// BattleOption customises a Battle at construction.
type BattleOption func(*Battle)

// WithRand injects the random source. The default is seeded from Config.Seed.
func WithRand(r Rand) BattleOption {
	return func(b *Battle) { b.rng = r }
}

// WithLog injects the event log.
func WithLog(l *BattleLog) BattleOption {
	return func(b *Battle) { b.log = l }
}

// WithObserver registers an observer.
func WithObserver(o Observer) BattleOption {
	return func(b *Battle) { b.observers = append(b.observers, o) }
}

// NewBattle validates cfg and builds the board and roster once.
func NewBattle(cfg Config, opts ...BattleOption) (*Battle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Battle{
		cfg:    cfg,
		grid:   NewGrid(cfg.Columns, cfg.Rows, cfg.TilePitch),
		roster: NewRoster(cfg.MaxUnitsPerTeam),
		occ:    NewOccupancy(cfg.MaxUnitsPerTeam * teamCount),
	}
	for _, o := range opts {
		o(b)
	}
	if b.rng == nil {
		b.rng = NewRand(SeedOrClock(cfg.Seed))
	}
	if b.log == nil {
		b.log = NewBattleLog(false)
	}
	b.resolver = NewTurnResolver(cfg, b.grid, b.roster, b.occ, b.rng, b.log, &b.tick)
	return b, nil
}

// AddObserver registers an observer after construction.
func (b *Battle) AddObserver(o Observer) {
	b.observers = append(b.observers, o)
}

// Begin starts a fresh battle with random team sizes and random, distinct
// starting cells inside each team's half of the board.
func (b *Battle) Begin() error {
	var counts [teamCount]int
	for _, team := range Teams {
		counts[team] = b.cfg.MinUnits + b.rng.Intn(b.cfg.MaxUnits-b.cfg.MinUnits+1)
	}
	picked := make(map[Coord]bool, counts[TeamA]+counts[TeamB])
	placements := make([]Placement, 0, len(picked))
	for _, team := range Teams {
		for i := 0; i < counts[team]; i++ {
			placements = append(placements, Placement{Team: team, Coord: b.randomCoord(team, picked)})
		}
	}
	return b.Deploy(placements)
}

// randomCoord rejection-samples a free cell in team's half.
func (b *Battle) randomCoord(team Team, picked map[Coord]bool) Coord {
	lo, hi := b.cfg.columnRange(team)
	for {
		c := Coord{X: lo + b.rng.Intn(hi-lo), Y: b.rng.Intn(b.cfg.Rows)}
		if !picked[c] {
			picked[c] = true
			return c
		}
	}
}

// Deploy resets the board and starts a battle with units at the given cells.
// Units are numbered per team in placement order.
func (b *Battle) Deploy(placements []Placement) error {
	var counts [teamCount]int
	for _, p := range placements {
		if !b.grid.InBounds(p.Coord) {
			return fmt.Errorf("deploy %s unit: %w: %s", p.Team, ErrOutOfBounds, p.Coord)
		}
		counts[p.Team]++
	}

	b.grid.Reset()
	b.occ.Clear()
	b.log.Reset()
	b.results = b.results[:0]
	b.tick = 0
	b.state = StateIdle
	for _, team := range Teams {
		if err := b.roster.Activate(team, counts[team]); err != nil {
			b.roster.Deactivate()
			return err
		}
	}

	var next [teamCount]int
	for _, p := range placements {
		u := b.roster.Unit(p.Team, next[p.Team])
		next[p.Team]++
		u.Coord = p.Coord
		if err := b.occ.Place(u); err != nil {
			b.roster.Deactivate()
			b.occ.Clear()
			return err
		}
	}

	b.state = StateRunning
	b.log.Add(0, "--", "--", CatBattle, "begin",
		fmt.Sprintf("A=%d B=%d on %dx%d", counts[TeamA], counts[TeamB], b.cfg.Columns, b.cfg.Rows), 0)
	b.publish()
	return nil
}

// Step advances one tick and reports whether the battle is over. The first
// WarmupTicks ticks only publish a snapshot.
func (b *Battle) Step() bool {
	if b.state != StateRunning {
		return b.state == StateOver
	}
	b.tick++
	b.results = b.results[:0]

	if b.tick > b.cfg.WarmupTicks {
		for _, u := range b.roster.All() {
			b.results = append(b.results, b.resolver.Resolve(u))
		}
		if team, over := b.checkOver(); over {
			b.state = StateOver
			b.winner = team
			b.log.Add(b.tick, "--", "--", CatBattle, "over", fmt.Sprintf("team %s wins", team), 0)
		}
	}

	if b.log.Verbose() {
		for _, u := range b.roster.All() {
			b.log.AddVerbose(b.tick, u.Label(), u.Team.String(), CatTick, "unit",
				fmt.Sprintf("%s hp=%.3f %s", u.Coord, max(u.Health, 0), u.Status), u.Health)
		}
	}

	b.publish()
	if b.state == StateOver {
		for _, o := range b.observers {
			o.OnBattleOver(b.winner)
		}
		return true
	}
	return false
}

// checkOver reports game over when every unit still on the board is FINISH.
// Dead units have left the occupancy index, so a wiped-out team never blocks
// the survivors from finishing.
func (b *Battle) checkOver() (Team, bool) {
	living := b.occ.Units()
	if len(living) == 0 {
		return TeamA, false
	}
	for _, u := range living {
		if u.Status != StatusFinish {
			return TeamA, false
		}
	}
	return living[0].Team, true
}

// Run steps the battle every TickInterval until it is over or ctx is done.
func (b *Battle) Run(ctx context.Context) error {
	t := time.NewTicker(b.cfg.TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if b.Step() {
				return nil
			}
		}
	}
}

// RunTicks steps up to n ticks without waiting and returns the tick count at
// which the battle ended, or -1 if it is still running.
func (b *Battle) RunTicks(n int) int {
	for i := 0; i < n; i++ {
		if b.Step() {
			return b.tick
		}
	}
	return -1
}

func (b *Battle) publish() {
	if len(b.observers) == 0 {
		return
	}
	snap := b.Snapshot()
	for _, o := range b.observers {
		o.OnTick(snap)
	}
}

// Snapshot copies the current state for observers.
func (b *Battle) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    b.tick,
		State:   b.state,
		Winner:  b.winner,
		Columns: b.cfg.Columns,
		Rows:    b.cfg.Rows,
	}
	for _, u := range b.roster.All() {
		snap.Units = append(snap.Units, UnitSnapshot{
			ID:     u.ID,
			Team:   u.Team,
			Label:  u.Label(),
			Coord:  u.Coord,
			Pos:    b.grid.mustCell(u.Coord).Pos,
			Health: min(max(u.Health, 0), 1),
			Status: u.Status,
		})
	}
	return snap
}

// State returns the current phase.
func (b *Battle) State() BattleState { return b.state }

// Tick returns the number of ticks run since the last Begin.
func (b *Battle) Tick() int { return b.tick }

// Winner returns the winning team once the battle is over.
func (b *Battle) Winner() (Team, bool) { return b.winner, b.state == StateOver }

// LastTurns returns the turns resolved during the most recent tick.
func (b *Battle) LastTurns() []TurnResult { return b.results }

// Config returns the battle configuration.
func (b *Battle) Config() Config { return b.cfg }

// Grid returns the board.
func (b *Battle) Grid() *Grid { return b.grid }

// Roster returns the unit pool.
func (b *Battle) Roster() *Roster { return b.roster }

// Occupancy returns the coordinate index.
func (b *Battle) Occupancy() *Occupancy { return b.occ }

// Resolver returns the turn resolver.
func (b *Battle) Resolver() *TurnResolver { return b.resolver }

// Log returns the event log.
func (b *Battle) Log() *BattleLog { return b.log }
