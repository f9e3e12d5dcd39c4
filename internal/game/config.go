package game

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a battle. It is fixed for the lifetime of a
// Battle; build a new Battle to change it.
type Config struct {
	Columns         int           `yaml:"columns"`
	Rows            int           `yaml:"rows"`
	MinUnits        int           `yaml:"min_units"`          // per team, inclusive
	MaxUnits        int           `yaml:"max_units"`          // per team, inclusive
	MaxUnitsPerTeam int           `yaml:"max_units_per_team"` // roster capacity
	MinDamage       float64       `yaml:"min_damage"`
	MaxDamage       float64       `yaml:"max_damage"`
	TilePitch       float64       `yaml:"tile_pitch"`    // world units between cell centres
	TickInterval    time.Duration `yaml:"tick_interval"` // wall-clock time between ticks
	WarmupTicks     int           `yaml:"warmup_ticks"`  // leading ticks with no resolution
	Seed            int64         `yaml:"seed"`          // 0 = derive from the clock
}

// DefaultConfig returns the stock 6×8 board setup.
func DefaultConfig() Config {
	return Config{
		Columns:         6,
		Rows:            8,
		MinUnits:        2,
		MaxUnits:        5,
		MaxUnitsPerTeam: 5,
		MinDamage:       0.01,
		MaxDamage:       0.12,
		TilePitch:       1.3,
		TickInterval:    500 * time.Millisecond,
		WarmupTicks:     1,
	}
}

// Validate checks that a battle can be set up with c.
func (c Config) Validate() error {
	switch {
	case c.Columns < 2 || c.Rows < 1:
		return fmt.Errorf("%w: board %dx%d needs at least 2 columns and 1 row", ErrInvalidConfig, c.Columns, c.Rows)
	case c.MinUnits < 1 || c.MaxUnits < c.MinUnits:
		return fmt.Errorf("%w: unit bounds [%d,%d]", ErrInvalidConfig, c.MinUnits, c.MaxUnits)
	case c.MaxUnitsPerTeam < c.MaxUnits:
		return fmt.Errorf("%w: capacity %d below max units %d", ErrInvalidConfig, c.MaxUnitsPerTeam, c.MaxUnits)
	case c.MaxUnits > c.halfCells(TeamA) || c.MaxUnits > c.halfCells(TeamB):
		return fmt.Errorf("%w: %d units do not fit in a %d-cell half board", ErrInvalidConfig,
			c.MaxUnits, min(c.halfCells(TeamA), c.halfCells(TeamB)))
	case c.MinDamage <= 0 || c.MaxDamage < c.MinDamage || c.MaxDamage > 1:
		return fmt.Errorf("%w: damage bounds [%g,%g]", ErrInvalidConfig, c.MinDamage, c.MaxDamage)
	case c.TilePitch <= 0:
		return fmt.Errorf("%w: tile pitch %g", ErrInvalidConfig, c.TilePitch)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval %s", ErrInvalidConfig, c.TickInterval)
	case c.WarmupTicks < 0:
		return fmt.Errorf("%w: warmup ticks %d", ErrInvalidConfig, c.WarmupTicks)
	}
	return nil
}

// columnRange returns the half-open column span a team deploys into.
func (c Config) columnRange(team Team) (lo, hi int) {
	if team == TeamA {
		return 0, c.Columns / 2
	}
	return c.Columns / 2, c.Columns
}

func (c Config) halfCells(team Team) int {
	lo, hi := c.columnRange(team)
	return (hi - lo) * c.Rows
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Rand is the random source the engine draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source. A zero seed is mapped to 1 so that an unset
// seed still gives a reproducible stream.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation only
}

// SeedOrClock returns seed, or a clock-derived seed when seed is zero.
func SeedOrClock(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
