package game

import "fmt"

// CellKind is the persistent state of a grid cell. The numeric values match the
// legacy board encoding so diagnostics can print them unchanged.
type CellKind int8

const (
	CellFree     CellKind = -1 // walkable
	CellObstacle CellKind = -2 // impassable for path queries
)

func (k CellKind) String() string {
	switch k {
	case CellFree:
		return "free"
	case CellObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// Coord is an integer grid coordinate. X grows right, Y grows up.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns c offset by d.
func (c Coord) Add(d Coord) Coord { return Coord{c.X + d.X, c.Y + d.Y} }

// Manhattan returns the orthogonal step distance between c and o.
func (c Coord) Manhattan(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Chebyshev returns the king-move distance between c and o.
func (c Coord) Chebyshev(o Coord) int {
	return max(abs(c.X-o.X), abs(c.Y-o.Y))
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Vec2 is a world-space position.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell is one square of the battlefield.
type Cell struct {
	Pos   Vec2     // world-space centre
	Coord Coord    // grid coordinate
	Kind  CellKind // free or obstacle
}

// Value returns the legacy integer encoding of the cell (-1 free, -2 obstacle).
func (c Cell) Value() int { return int(c.Kind) }

// Grid is a fixed W×H board of cells. It owns no unit references.
type Grid struct {
	cols  int
	rows  int
	pitch float64
	cells []Cell // row-major: index = y*cols + x
}

// NewGrid lays out cols×rows cells on a uniform pitch centred about the origin.
// Every cell starts free.
func NewGrid(cols, rows int, pitch float64) *Grid {
	if cols < 1 || rows < 1 {
		panic(fmt.Sprintf("game: invalid grid size %dx%d", cols, rows))
	}
	g := &Grid{
		cols:  cols,
		rows:  rows,
		pitch: pitch,
		cells: make([]Cell, cols*rows),
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := Coord{x, y}
			g.cells[g.index(c)] = Cell{Pos: g.CellToWorld(c), Coord: c, Kind: CellFree}
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.cols }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.rows }

// Pitch returns the world-space distance between adjacent cell centres.
func (g *Grid) Pitch() float64 { return g.pitch }

// InBounds reports whether c lies inside [0,W)×[0,H).
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.cols && c.Y >= 0 && c.Y < g.rows
}

func (g *Grid) index(c Coord) int { return c.Y*g.cols + c.X }

// CellAt returns a copy of the cell at c.
func (g *Grid) CellAt(c Coord) (Cell, error) {
	if !g.InBounds(c) {
		return Cell{}, fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, c, g.cols, g.rows)
	}
	return g.cells[g.index(c)], nil
}

// mustCell is CellAt for engine-internal callers that have already validated c.
func (g *Grid) mustCell(c Coord) Cell {
	cell, err := g.CellAt(c)
	if err != nil {
		panic(err)
	}
	return cell
}

// Kind returns the cell kind at c. Off-grid coordinates read as obstacles.
func (g *Grid) Kind(c Coord) CellKind {
	if !g.InBounds(c) {
		return CellObstacle
	}
	return g.cells[g.index(c)].Kind
}

// IsBlocked returns true if c is off-grid or an obstacle.
func (g *Grid) IsBlocked(c Coord) bool {
	return g.Kind(c) == CellObstacle
}

// SetStatus marks exactly one cell free or obstacle.
func (g *Grid) SetStatus(c Coord, k CellKind) error {
	if k != CellFree && k != CellObstacle {
		return fmt.Errorf("%w: %d", ErrInvalidCellKind, k)
	}
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, c, g.cols, g.rows)
	}
	g.cells[g.index(c)].Kind = k
	return nil
}

// Reset restores every cell to free.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i].Kind = CellFree
	}
}

// Cells returns a copy of all cells in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// CellToWorld converts a grid coordinate to its world-space centre.
func (g *Grid) CellToWorld(c Coord) Vec2 {
	offX := float64(g.cols) / 2 * g.pitch
	offY := float64(g.rows) / 2 * g.pitch
	return Vec2{
		X: float64(c.X)*g.pitch + g.pitch/2 - offX,
		Y: float64(c.Y)*g.pitch + g.pitch/2 - offY,
	}
}

// WorldToCell converts a world-space point to the cell containing it.
func (g *Grid) WorldToCell(p Vec2) (Coord, bool) {
	offX := float64(g.cols) / 2 * g.pitch
	offY := float64(g.rows) / 2 * g.pitch
	fx := (p.X + offX) / g.pitch
	fy := (p.Y + offY) / g.pitch
	if fx < 0 || fy < 0 {
		return Coord{}, false
	}
	c := Coord{int(fx), int(fy)}
	return c, g.InBounds(c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
