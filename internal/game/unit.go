package game

import "fmt"

// Team identifies one of the two sides.
type Team int

const (
	TeamA Team = iota // left half of the board
	TeamB             // right half of the board
)

const teamCount = 2

// Teams lists both sides in resolution order.
var Teams = [teamCount]Team{TeamA, TeamB}

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return "?"
	}
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// UnitStatus is the lifecycle state of a unit within one battle.
type UnitStatus int

const (
	StatusReady  UnitStatus = iota // acts every tick
	StatusFinish                   // no enemies left
	StatusDead                     // killed
)

func (s UnitStatus) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFinish:
		return "finish"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// MarshalText lets snapshots encode the status by name.
func (s UnitStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText lets snapshots encode the team by name.
func (t Team) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText parses "A" or "B".
func (t *Team) UnmarshalText(b []byte) error {
	for _, team := range Teams {
		if string(b) == team.String() {
			*t = team
			return nil
		}
	}
	return fmt.Errorf("unknown team %q", b)
}

// UnmarshalText parses a status name.
func (s *UnitStatus) UnmarshalText(b []byte) error {
	for _, st := range []UnitStatus{StatusReady, StatusFinish, StatusDead} {
		if string(b) == st.String() {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown unit status %q", b)
}

// Unit is one fighter on the board.
type Unit struct {
	ID     int
	Team   Team
	Coord  Coord
	Health float64 // 1.0 = full, <= 0 = dead
	Status UnitStatus
	Active bool // takes part in the current battle
}

// Label returns a short identifier such as "A0" or "B3".
func (u *Unit) Label() string {
	return fmt.Sprintf("%s%d", u.Team, u.ID)
}

// Alive reports whether the unit is active and not dead.
func (u *Unit) Alive() bool {
	return u.Active && u.Status != StatusDead
}

// ApplyDamage subtracts d from health. It returns true if the hit killed the
// unit. Only READY units take damage.
func (u *Unit) ApplyDamage(d float64) bool {
	if u.Status != StatusReady {
		return false
	}
	u.Health -= d
	if u.Health <= 0 {
		u.Status = StatusDead
		return true
	}
	return false
}

// Finish marks a READY unit as having no enemies left.
func (u *Unit) Finish() {
	if u.Status == StatusReady {
		u.Status = StatusFinish
	}
}

func (u *Unit) reset() {
	u.Health = 1.0
	u.Status = StatusReady
}

// Roster holds a fixed-capacity pool of units per team. Units are allocated
// once and recycled between battles.
type Roster struct {
	capacity int
	units    [teamCount][]*Unit
	counts   [teamCount]int
}

// NewRoster allocates capacity inactive units for each team.
func NewRoster(capacity int) *Roster {
	r := &Roster{capacity: capacity}
	for _, team := range Teams {
		r.units[team] = make([]*Unit, capacity)
		for i := 0; i < capacity; i++ {
			r.units[team][i] = &Unit{ID: i, Team: team, Health: 1.0}
		}
	}
	return r
}

// Capacity returns the per-team unit capacity.
func (r *Roster) Capacity() int { return r.capacity }

// Activate enables the first count units of team with fresh health and
// status; the remainder become inactive.
func (r *Roster) Activate(team Team, count int) error {
	if count < 0 || count > r.capacity {
		return fmt.Errorf("%w: team %s count %d outside [0,%d]", ErrInvalidConfig, team, count, r.capacity)
	}
	for i, u := range r.units[team] {
		u.Active = i < count
		u.reset()
	}
	r.counts[team] = count
	return nil
}

// Deactivate disables every unit on both teams.
func (r *Roster) Deactivate() {
	for _, team := range Teams {
		for _, u := range r.units[team] {
			u.Active = false
		}
		r.counts[team] = 0
	}
}

// Count returns how many units of team take part in the battle.
func (r *Roster) Count(team Team) int { return r.counts[team] }

// Active returns the active units of team in index order.
func (r *Roster) Active(team Team) []*Unit {
	return r.units[team][:r.counts[team]]
}

// All returns every active unit, team A first, then team B, in index order.
func (r *Roster) All() []*Unit {
	out := make([]*Unit, 0, r.counts[TeamA]+r.counts[TeamB])
	for _, team := range Teams {
		out = append(out, r.Active(team)...)
	}
	return out
}

// Unit returns the unit with the given team and id, or nil.
func (r *Roster) Unit(team Team, id int) *Unit {
	if id < 0 || id >= r.capacity {
		return nil
	}
	return r.units[team][id]
}

// Living returns the number of active, non-dead units of team.
func (r *Roster) Living(team Team) int {
	n := 0
	for _, u := range r.Active(team) {
		if u.Status != StatusDead {
			n++
		}
	}
	return n
}
