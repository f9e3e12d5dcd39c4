package game

// UnitSnapshot is a read-only copy of one unit for renderers.
type UnitSnapshot struct {
	ID     int        `json:"id"`
	Team   Team       `json:"team"`
	Label  string     `json:"label"`
	Coord  Coord      `json:"coord"`
	Pos    Vec2       `json:"pos"`
	Health float64    `json:"health"` // clamped to [0,1]
	Status UnitStatus `json:"status"`
}

// Snapshot is the state observers see between ticks. It shares no memory with
// the engine and may be handed to other goroutines.
type Snapshot struct {
	Tick    int            `json:"tick"`
	State   BattleState    `json:"state"`
	Winner  Team           `json:"winner"` // meaningful only when State is over
	Columns int            `json:"columns"`
	Rows    int            `json:"rows"`
	Units   []UnitSnapshot `json:"units"`
}

// Over reports whether the snapshot was taken after the battle ended.
func (s Snapshot) Over() bool { return s.State == StateOver }

// Observer receives battle output. Callbacks run on the goroutine driving the
// battle and must not block for long.
type Observer interface {
	OnTick(Snapshot)
	OnBattleOver(winner Team)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs struct {
	Tick func(Snapshot)
	Over func(Team)
}

// OnTick implements Observer.
func (o ObserverFuncs) OnTick(s Snapshot) {
	if o.Tick != nil {
		o.Tick(s)
	}
}

// OnBattleOver implements Observer.
func (o ObserverFuncs) OnBattleOver(t Team) {
	if o.Over != nil {
		o.Over(t)
	}
}
