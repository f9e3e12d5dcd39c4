package game

import (
	"errors"
	"fmt"
)

// Action is what a unit did on its turn.
type Action int

const (
	ActionSkip   Action = iota // not READY, did nothing
	ActionAttack               // hit an adjacent enemy
	ActionMove                 // stepped one cell toward an enemy
	ActionWait                 // enemy exists but no path this tick
	ActionFinish               // no enemies left anywhere
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionAttack:
		return "attack"
	case ActionMove:
		return "move"
	case ActionWait:
		return "wait"
	case ActionFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// TurnResult describes one resolved unit turn.
type TurnResult struct {
	Unit   *Unit
	Action Action
	Target *Unit   // attacked or pursued enemy
	Damage float64 // ActionAttack only
	Killed bool    // ActionAttack only
	From   Coord
	To     Coord // equals From unless the unit moved
	Ring   int   // ring radius the pursued enemy was found on
	Err    error // ErrLocked or ErrUnreachable on ActionWait
}

// TurnResolver decides and applies a single unit's action: attack if an enemy
// is adjacent, else step toward the nearest enemy, else finish.
type TurnResolver struct {
	cfg    Config
	grid   *Grid
	roster *Roster
	occ    *Occupancy
	finder *EnemyFinder
	nav    *Pathfinder
	rng    Rand
	log    *BattleLog
	tick   *int // current tick, owned by the battle

	masked []Coord // teammate cells marked as obstacles for the current query
}

// NewTurnResolver wires a resolver to the shared battle state.
func NewTurnResolver(cfg Config, g *Grid, roster *Roster, occ *Occupancy, rng Rand, log *BattleLog, tick *int) *TurnResolver {
	return &TurnResolver{
		cfg:    cfg,
		grid:   g,
		roster: roster,
		occ:    occ,
		finder: NewEnemyFinder(g, occ),
		nav:    NewPathfinder(g),
		rng:    rng,
		log:    log,
		tick:   tick,
	}
}

// Finder exposes the resolver's enemy finder.
func (r *TurnResolver) Finder() *EnemyFinder { return r.finder }

// Pathfinder exposes the resolver's pathfinder.
func (r *TurnResolver) Pathfinder() *Pathfinder { return r.nav }

// Resolve runs one turn for u.
func (r *TurnResolver) Resolve(u *Unit) TurnResult {
	res := TurnResult{Unit: u, Action: ActionSkip, From: u.Coord, To: u.Coord}
	if !u.Active || u.Status != StatusReady {
		return res
	}

	if enemy, ok := r.finder.FindAdjacentEnemy(u.Coord, u.Team); ok {
		r.attack(u, enemy, &res)
		return res
	}

	enemy, ring, ok := r.finder.FindEnemy(u.Coord, u.Team)
	if !ok {
		u.Finish()
		res.Action = ActionFinish
		r.log.AddUnit(*r.tick, u, CatStatus, "finish", "all enemies down", 0)
		return res
	}
	res.Target = enemy
	res.Ring = ring

	r.maskTeammates(u)
	path, err := r.nav.FindPath(u.Coord, enemy.Coord)
	r.unmask()

	if err != nil {
		res.Action = ActionWait
		res.Err = err
		r.logPathFailure(u, enemy, err)
		return res
	}
	if len(path) == 0 {
		res.Action = ActionWait
		return res
	}
	r.step(u, path[0], &res)
	return res
}

func (r *TurnResolver) attack(u, enemy *Unit, res *TurnResult) {
	dmg := r.cfg.MinDamage + r.rng.Float64()*(r.cfg.MaxDamage-r.cfg.MinDamage)
	killed := enemy.ApplyDamage(dmg)

	res.Action = ActionAttack
	res.Target = enemy
	res.Damage = dmg
	res.Killed = killed

	r.log.AddUnit(*r.tick, u, CatAttack, "hit",
		fmt.Sprintf("%s -%.3f -> %.3f", enemy.Label(), dmg, max(enemy.Health, 0)), dmg)
	if killed {
		r.occ.Remove(enemy.Coord)
		r.setCell(enemy.Coord, CellFree)
		r.log.AddUnit(*r.tick, u, CatAttack, "kill", enemy.Label(), 0)
	}
}

func (r *TurnResolver) step(u *Unit, next Coord, res *TurnResult) {
	from := u.Coord
	if err := r.occ.Move(from, next); err != nil {
		res.Action = ActionWait
		res.Err = err
		r.log.AddUnit(*r.tick, u, CatMove, "blocked", err.Error(), 0)
		return
	}
	r.setCell(from, CellFree)
	r.setCell(next, CellFree)
	res.Action = ActionMove
	res.To = next
	r.log.AddUnit(*r.tick, u, CatMove, "step", fmt.Sprintf("%s -> %s", from, next), 0)
}

// maskTeammates marks every living teammate of u as an obstacle so the path
// routes around allies. Only cells that were free are recorded for unmasking.
func (r *TurnResolver) maskTeammates(u *Unit) {
	r.masked = r.masked[:0]
	for _, m := range r.roster.Active(u.Team) {
		if m == u || m.Status == StatusDead {
			continue
		}
		if r.grid.Kind(m.Coord) == CellObstacle {
			continue
		}
		r.setCell(m.Coord, CellObstacle)
		r.masked = append(r.masked, m.Coord)
	}
}

func (r *TurnResolver) unmask() {
	for _, c := range r.masked {
		r.setCell(c, CellFree)
	}
	r.masked = r.masked[:0]
}

func (r *TurnResolver) logPathFailure(u, enemy *Unit, err error) {
	key := "unreachable"
	if errors.Is(err, ErrLocked) {
		key = "locked"
	}
	r.log.AddUnit(*r.tick, u, CatPath, key, fmt.Sprintf("-> %s at %s", enemy.Label(), enemy.Coord), 0)
	if key == "unreachable" && r.log.Verbose() {
		r.log.AddUnit(*r.tick, u, CatPath, "dump", "\n"+r.nav.DumpLabels(), 0)
	}
}

// setCell writes a cell the engine already knows to be on the board.
func (r *TurnResolver) setCell(c Coord, k CellKind) {
	if err := r.grid.SetStatus(c, k); err != nil {
		panic(err)
	}
}
