package game

// EnemyFinder locates opposing units by scanning square rings around a cell.
// Ring order decides which enemy is targeted, so it must stay fixed:
// the four corners (down-left, down-right, up-right, up-left), then the
// bottom edge left→right, right edge bottom→top, top edge right→left and
// left edge top→bottom.
type EnemyFinder struct {
	grid     *Grid
	occ      *Occupancy
	maxDepth int
	ring     []Coord // scratch, reused between queries
}

// NewEnemyFinder creates a finder over the given grid and occupancy index.
func NewEnemyFinder(g *Grid, occ *Occupancy) *EnemyFinder {
	return &EnemyFinder{
		grid:     g,
		occ:      occ,
		maxDepth: max(g.Width(), g.Height()),
	}
}

// Ring returns every integer cell on the square perimeter at radius r around
// c, in search order. Off-grid cells are included; callers skip them.
func Ring(c Coord, r int) []Coord {
	return appendRing(nil, c, r)
}

func appendRing(dst []Coord, c Coord, r int) []Coord {
	if r <= 0 {
		return append(dst, c)
	}
	dl := Coord{c.X - r, c.Y - r}
	dr := Coord{c.X + r, c.Y - r}
	ur := Coord{c.X + r, c.Y + r}
	ul := Coord{c.X - r, c.Y + r}
	dst = append(dst, dl, dr, ur, ul)

	// Adjacent corners are 2r apart, leaving 2r-1 cells between them.
	side := 2*r - 1
	for i := 1; i <= side; i++ {
		dst = append(dst, Coord{dl.X + i, dl.Y})
	}
	for i := 1; i <= side; i++ {
		dst = append(dst, Coord{dr.X, dr.Y + i})
	}
	for i := 1; i <= side; i++ {
		dst = append(dst, Coord{ur.X - i, ur.Y})
	}
	for i := 1; i <= side; i++ {
		dst = append(dst, Coord{ul.X, ul.Y - i})
	}
	return dst
}

// FindAdjacentEnemy returns the first enemy among the eight neighbours of c.
func (f *EnemyFinder) FindAdjacentEnemy(c Coord, team Team) (*Unit, bool) {
	return f.searchRing(c, 1, team)
}

// FindEnemy scans rings of radius 2 up to max(W,H)-1 and returns the first
// enemy found together with the ring radius it sits on.
func (f *EnemyFinder) FindEnemy(c Coord, team Team) (*Unit, int, bool) {
	for r := 2; r < f.maxDepth; r++ {
		if u, ok := f.searchRing(c, r, team); ok {
			return u, r, true
		}
	}
	return nil, 0, false
}

func (f *EnemyFinder) searchRing(c Coord, r int, team Team) (*Unit, bool) {
	f.ring = appendRing(f.ring[:0], c, r)
	for _, p := range f.ring {
		if !f.grid.InBounds(p) {
			continue
		}
		u := f.occ.At(p)
		if u != nil && u.Team != team && u.Status != StatusDead {
			return u, true
		}
	}
	return nil, false
}
