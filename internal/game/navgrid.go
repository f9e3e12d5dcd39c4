package game

import (
	"fmt"
	"strings"
)

const unlabelled = -1

// orthoDirs is the neighbour priority shared by labelling and backtracking:
// x-1, y-1, x+1, y+1. Changing it changes which of several equal-length paths
// is chosen.
var orthoDirs = [4]Coord{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

// Pathfinder computes uniform-cost orthogonal paths over a Grid with a
// wavefront flood fill. It owns the distance labels; the grid only stores
// free/obstacle state, so labels never leak between queries.
type Pathfinder struct {
	grid   *Grid
	dist   []int
	passes int // labelling passes in the last query
}

// NewPathfinder creates a pathfinder with a label buffer sized to g.
func NewPathfinder(g *Grid) *Pathfinder {
	return &Pathfinder{
		grid: g,
		dist: make([]int, g.Width()*g.Height()),
	}
}

// FindPath returns the cells to walk from `from` to `to`, excluding `from` and
// including `to`. Obstacle cells are never entered; `from` itself is always
// treated as walkable. from == to yields an empty path.
func (pf *Pathfinder) FindPath(from, to Coord) ([]Coord, error) {
	g := pf.grid
	pf.passes = 0
	if !g.InBounds(from) || !g.InBounds(to) {
		return nil, fmt.Errorf("%w: path %s -> %s", ErrOutOfBounds, from, to)
	}
	if from == to {
		return []Coord{}, nil
	}

	for i := range pf.dist {
		pf.dist[i] = unlabelled
	}
	pf.dist[g.index(to)] = 0

	if pf.locked(from) {
		return nil, ErrLocked
	}

	if err := pf.label(from); err != nil {
		return nil, err
	}
	return pf.backtrack(from, to)
}

// locked reports whether all four orthogonal neighbours are blocked or off-grid.
func (pf *Pathfinder) locked(c Coord) bool {
	for _, d := range orthoDirs {
		if !pf.grid.IsBlocked(c.Add(d)) {
			return false
		}
	}
	return true
}

// label floods outward from the target one ring per pass, scanning the grid in
// row-major order, until `from` receives a label.
func (pf *Pathfinder) label(from Coord) error {
	g := pf.grid
	fromIdx := g.index(from)
	limit := g.Width() * g.Height()

	for step := 0; ; {
		labelled := false
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				c := Coord{x, y}
				if pf.dist[g.index(c)] != step {
					continue
				}
				for _, d := range orthoDirs {
					n := c.Add(d)
					if !g.InBounds(n) {
						continue
					}
					ni := g.index(n)
					if pf.dist[ni] != unlabelled {
						continue
					}
					if n != from && g.IsBlocked(n) {
						continue
					}
					pf.dist[ni] = step + 1
					labelled = true
				}
			}
		}
		step++
		pf.passes++

		if pf.dist[fromIdx] != unlabelled {
			return nil
		}
		if !labelled {
			return fmt.Errorf("%w: wavefront stalled at step %d", ErrUnreachable, step)
		}
		if step > limit {
			return fmt.Errorf("%w: wavefront exceeded %d steps", ErrUnreachable, limit)
		}
	}
}

// backtrack walks strictly decreasing labels from `from` down to `to`.
func (pf *Pathfinder) backtrack(from, to Coord) ([]Coord, error) {
	g := pf.grid
	cur := from
	step := pf.dist[g.index(from)]
	path := make([]Coord, 0, step)

	for cur != to {
		moved := false
		for _, d := range orthoDirs {
			n := cur.Add(d)
			if !g.InBounds(n) {
				continue
			}
			v := pf.dist[g.index(n)]
			if v >= 0 && v < step {
				step = v
				cur = n
				path = append(path, n)
				moved = true
				break
			}
		}
		if !moved {
			return nil, fmt.Errorf("%w: no descending neighbour at %s (label %d)", ErrUnreachable, cur, step)
		}
	}
	return path, nil
}

// Passes returns the number of labelling passes the last FindPath ran. Zero
// means the query was answered without flooding.
func (pf *Pathfinder) Passes() int { return pf.passes }

// Label returns the distance label the last query assigned to c, or -1.
func (pf *Pathfinder) Label(c Coord) int {
	if !pf.grid.InBounds(c) {
		return unlabelled
	}
	return pf.dist[pf.grid.index(c)]
}

// DumpLabels renders the label buffer top row first, obstacles as '#' and
// unlabelled cells as '.', for failure diagnostics.
func (pf *Pathfinder) DumpLabels() string {
	g := pf.grid
	var sb strings.Builder
	for y := g.Height() - 1; y >= 0; y-- {
		for x := 0; x < g.Width(); x++ {
			c := Coord{x, y}
			v := pf.dist[g.index(c)]
			switch {
			case v >= 0:
				fmt.Fprintf(&sb, "%3d", v)
			case g.IsBlocked(c):
				sb.WriteString("  #")
			default:
				sb.WriteString("  .")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
