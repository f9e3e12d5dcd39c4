package game

// Scenario is a hand-placed battle used by tests and the headless report. It
// skips random deployment so unit positions are exact, while damage still
// draws from a seeded source.
type Scenario struct {
	Cfg    Config
	Battle *Battle
	Log    *BattleLog

	placements []Placement
	verbose    bool
	seed       int64

	// Observed output.
	Snapshots []Snapshot
	Overs     []Team
}

// scenarioOptionKind controls the pass in which an option is applied.
type scenarioOptionKind int

const (
	scenarioOptInfra scenarioOptionKind = iota // board, seed, damage, verbose
	scenarioOptUnit                            // unit placements
)

// ScenarioOption is a builder function applied to a Scenario during construction.
type ScenarioOption struct {
	kind scenarioOptionKind
	fn   func(*Scenario)
}

// WithGridSize sets the board dimensions.
func WithGridSize(cols, rows int) ScenarioOption {
	return ScenarioOption{scenarioOptInfra, func(s *Scenario) {
		s.Cfg.Columns = cols
		s.Cfg.Rows = rows
	}}
}

// WithSeed sets the RNG seed for deterministic damage rolls.
func WithSeed(seed int64) ScenarioOption {
	return ScenarioOption{scenarioOptInfra, func(s *Scenario) {
		s.seed = seed
	}}
}

// WithDamage sets the damage bounds. Equal bounds make every hit identical.
func WithDamage(lo, hi float64) ScenarioOption {
	return ScenarioOption{scenarioOptInfra, func(s *Scenario) {
		s.Cfg.MinDamage = lo
		s.Cfg.MaxDamage = hi
	}}
}

// WithWarmup sets the number of leading ticks that resolve nothing.
func WithWarmup(n int) ScenarioOption {
	return ScenarioOption{scenarioOptInfra, func(s *Scenario) {
		s.Cfg.WarmupTicks = n
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) ScenarioOption {
	return ScenarioOption{scenarioOptInfra, func(s *Scenario) {
		s.verbose = v
	}}
}

// WithUnit places a unit of team at (x,y). Units are numbered per team in the
// order they are added.
func WithUnit(team Team, x, y int) ScenarioOption {
	return ScenarioOption{scenarioOptUnit, func(s *Scenario) {
		s.placements = append(s.placements, Placement{Team: team, Coord: Coord{x, y}})
	}}
}

// NewScenario builds and deploys a battle from the given options. Warm-up
// defaults to zero so the first Step resolves turns.
func NewScenario(opts ...ScenarioOption) (*Scenario, error) {
	s := &Scenario{Cfg: DefaultConfig(), seed: 1}
	s.Cfg.WarmupTicks = 0
	for _, o := range opts {
		if o.kind == scenarioOptInfra {
			o.fn(s)
		}
	}
	for _, o := range opts {
		if o.kind == scenarioOptUnit {
			o.fn(s)
		}
	}

	var perTeam [teamCount]int
	for _, p := range s.placements {
		perTeam[p.Team]++
	}
	need := max(perTeam[TeamA], perTeam[TeamB], 1)
	s.Cfg.MinUnits = 1
	s.Cfg.MaxUnits = need
	s.Cfg.MaxUnitsPerTeam = need
	s.Cfg.Seed = s.seed

	s.Log = NewBattleLog(s.verbose)
	b, err := NewBattle(s.Cfg,
		WithRand(NewRand(s.seed)),
		WithLog(s.Log),
		WithObserver(ObserverFuncs{
			Tick: func(snap Snapshot) { s.Snapshots = append(s.Snapshots, snap) },
			Over: func(t Team) { s.Overs = append(s.Overs, t) },
		}),
	)
	if err != nil {
		return nil, err
	}
	s.Battle = b
	if err := b.Deploy(s.placements); err != nil {
		return nil, err
	}
	return s, nil
}

// Unit returns the unit of team with the given per-team id.
func (s *Scenario) Unit(team Team, id int) *Unit {
	return s.Battle.Roster().Unit(team, id)
}

// RunTicks advances the battle n ticks, or fewer if it ends first.
func (s *Scenario) RunTicks(n int) {
	s.Battle.RunTicks(n)
}

// RunUntilOver advances up to maxTicks and returns the tick the battle ended
// on, or -1.
func (s *Scenario) RunUntilOver(maxTicks int) int {
	return s.Battle.RunTicks(maxTicks)
}

// RunUntil advances up to maxTicks, stopping early once predicate returns
// true. Returns the tick at which it was satisfied, or -1.
func (s *Scenario) RunUntil(predicate func(*Scenario) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		over := s.Battle.Step()
		if predicate(s) {
			return s.Battle.Tick()
		}
		if over {
			break
		}
	}
	return -1
}
