package game

import (
	"errors"
	"testing"
)

func TestOccupancy_PlaceRejectsCollision(t *testing.T) {
	occ := NewOccupancy(4)
	place(t, occ, TeamA, 0, Coord{1, 1}, StatusReady)
	other := &Unit{ID: 0, Team: TeamB, Coord: Coord{1, 1}, Active: true}
	if err := occ.Place(other); !errors.Is(err, ErrOccupied) {
		t.Fatalf("expected ErrOccupied, got %v", err)
	}
	if occ.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", occ.Len())
	}
}

func TestOccupancy_MoveIsAtomic(t *testing.T) {
	occ := NewOccupancy(4)
	a := place(t, occ, TeamA, 0, Coord{1, 1}, StatusReady)
	b := place(t, occ, TeamB, 0, Coord{2, 1}, StatusReady)

	if err := occ.Move(Coord{1, 1}, Coord{2, 1}); !errors.Is(err, ErrOccupied) {
		t.Fatalf("expected ErrOccupied, got %v", err)
	}
	if occ.At(Coord{1, 1}) != a || occ.At(Coord{2, 1}) != b || a.Coord != (Coord{1, 1}) {
		t.Fatal("failed move must leave both entries untouched")
	}

	if err := occ.Move(Coord{1, 1}, Coord{1, 2}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if occ.At(Coord{1, 1}) != nil || occ.At(Coord{1, 2}) != a || a.Coord != (Coord{1, 2}) {
		t.Fatal("move should swap the entry and update the unit coordinate")
	}

	if err := occ.Move(Coord{4, 4}, Coord{4, 5}); !errors.Is(err, ErrNotOccupied) {
		t.Fatalf("expected ErrNotOccupied, got %v", err)
	}
}

func TestOccupancy_RemoveAndOrder(t *testing.T) {
	occ := NewOccupancy(4)
	b1 := place(t, occ, TeamB, 1, Coord{5, 5}, StatusReady)
	a1 := place(t, occ, TeamA, 1, Coord{0, 5}, StatusReady)
	a0 := place(t, occ, TeamA, 0, Coord{3, 3}, StatusReady)

	units := occ.Units()
	if len(units) != 3 || units[0] != a0 || units[1] != a1 || units[2] != b1 {
		t.Fatalf("expected A0 A1 B1 order, got %v", units)
	}
	if got := occ.Remove(Coord{0, 5}); got != a1 {
		t.Fatalf("Remove returned %v", got)
	}
	if occ.Remove(Coord{0, 5}) != nil {
		t.Fatal("second remove should find nothing")
	}
	occ.Clear()
	if occ.Len() != 0 {
		t.Fatal("Clear should empty the index")
	}
}

func TestRoster_ActivateResetsUnits(t *testing.T) {
	r := NewRoster(5)
	if err := r.Activate(TeamA, 3); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	u := r.Unit(TeamA, 0)
	u.ApplyDamage(0.4)
	u.Finish()
	if err := r.Activate(TeamA, 2); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if u.Health != 1 || u.Status != StatusReady || !u.Active {
		t.Fatalf("unit not reset: hp=%.2f %s active=%v", u.Health, u.Status, u.Active)
	}
	if r.Unit(TeamA, 2).Active {
		t.Fatal("units beyond the count must be inactive")
	}
	if err := r.Activate(TeamB, 6); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig over capacity, got %v", err)
	}
	if r.Unit(TeamA, 5) != nil {
		t.Fatal("out-of-range id should return nil")
	}
}

func TestUnit_StatusTransitions(t *testing.T) {
	u := &Unit{Team: TeamA, Health: 1, Status: StatusReady, Active: true}
	if u.ApplyDamage(0.5) {
		t.Fatal("half damage should not kill")
	}
	if !u.ApplyDamage(0.5) || u.Status != StatusDead {
		t.Fatalf("health %.2f should be dead, status %s", u.Health, u.Status)
	}
	u.Finish()
	if u.Status != StatusDead {
		t.Fatal("DEAD is terminal")
	}

	f := &Unit{Team: TeamB, Health: 1, Status: StatusReady}
	f.Finish()
	if f.ApplyDamage(2) || f.Status != StatusFinish {
		t.Fatal("FINISH is terminal and takes no damage")
	}
}
