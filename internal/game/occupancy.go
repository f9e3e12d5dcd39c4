package game

import (
	"fmt"
	"sort"
)

// Occupancy maps grid coordinates to the living unit standing there. It is the
// single source of truth for "who is at (x,y)"; Unit.Coord mirrors it.
type Occupancy struct {
	byCoord map[Coord]*Unit
}

// NewOccupancy creates an empty index sized for capacity units.
func NewOccupancy(capacity int) *Occupancy {
	return &Occupancy{byCoord: make(map[Coord]*Unit, capacity)}
}

// At returns the unit at c, or nil.
func (o *Occupancy) At(c Coord) *Unit {
	return o.byCoord[c]
}

// Place indexes u at its current coordinate.
func (o *Occupancy) Place(u *Unit) error {
	if prev, ok := o.byCoord[u.Coord]; ok && prev != u {
		return fmt.Errorf("%w: %s holds %s, cannot place %s", ErrOccupied, u.Coord, prev.Label(), u.Label())
	}
	o.byCoord[u.Coord] = u
	return nil
}

// Move relocates the unit at from to to, updating its coordinate. Either both
// entries change or neither does.
func (o *Occupancy) Move(from, to Coord) error {
	u, ok := o.byCoord[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotOccupied, from)
	}
	if from == to {
		return nil
	}
	if prev, ok := o.byCoord[to]; ok {
		return fmt.Errorf("%w: %s holds %s", ErrOccupied, to, prev.Label())
	}
	delete(o.byCoord, from)
	o.byCoord[to] = u
	u.Coord = to
	return nil
}

// Remove deletes the entry at c and returns the unit that was there, if any.
func (o *Occupancy) Remove(c Coord) *Unit {
	u, ok := o.byCoord[c]
	if !ok {
		return nil
	}
	delete(o.byCoord, c)
	return u
}

// Len returns the number of indexed units.
func (o *Occupancy) Len() int { return len(o.byCoord) }

// Clear empties the index.
func (o *Occupancy) Clear() {
	clear(o.byCoord)
}

// Units returns the indexed units ordered by team then id.
func (o *Occupancy) Units() []*Unit {
	out := make([]*Unit, 0, len(o.byCoord))
	for _, u := range o.byCoord {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].ID < out[j].ID
	})
	return out
}
