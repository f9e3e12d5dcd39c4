package game

import "fmt"

// BattleOutcome classifies how a battle ended.
type BattleOutcome int

const (
	OutcomeInconclusive BattleOutcome = iota // still running when the caller gave up
	OutcomeAVictory
	OutcomeBVictory
)

func (o BattleOutcome) String() string {
	switch o {
	case OutcomeAVictory:
		return "a_victory"
	case OutcomeBVictory:
		return "b_victory"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// MarshalText lets reports encode the outcome by name.
func (o BattleOutcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// BattleOutcomeReason summarises a finished (or abandoned) battle.
type BattleOutcomeReason struct {
	Outcome     BattleOutcome `json:"outcome"`
	Ticks       int           `json:"ticks"`
	ASurvivors  int           `json:"a_survivors"`
	ATotal      int           `json:"a_total"`
	BSurvivors  int           `json:"b_survivors"`
	BTotal      int           `json:"b_total"`
	Hits        int           `json:"hits"`
	Kills       int           `json:"kills"`
	Waits       int           `json:"waits"` // locked or unreachable path queries
	Description string        `json:"description"`
}

// DetermineOutcome reads the battle's roster and log.
func DetermineOutcome(b *Battle) BattleOutcomeReason {
	r := b.Roster()
	log := b.Log()
	out := BattleOutcomeReason{
		Ticks:      b.Tick(),
		ASurvivors: r.Living(TeamA),
		ATotal:     r.Count(TeamA),
		BSurvivors: r.Living(TeamB),
		BTotal:     r.Count(TeamB),
		Hits:       log.CountCategory(CatAttack, "hit"),
		Kills:      log.CountCategory(CatAttack, "kill"),
		Waits:      log.CountCategory(CatPath, "locked") + log.CountCategory(CatPath, "unreachable"),
	}
	winner, over := b.Winner()
	switch {
	case !over:
		out.Outcome = OutcomeInconclusive
		out.Description = fmt.Sprintf("inconclusive_after_%d_ticks", out.Ticks)
	case winner == TeamA:
		out.Outcome = OutcomeAVictory
		out.Description = victoryDescription("a", out.ASurvivors, out.ATotal)
	default:
		out.Outcome = OutcomeBVictory
		out.Description = victoryDescription("b", out.BSurvivors, out.BTotal)
	}
	return out
}

func victoryDescription(team string, survivors, total int) string {
	switch {
	case survivors == total:
		return "flawless_" + team + "_victory"
	case survivors*2 >= total:
		return "decisive_" + team + "_victory"
	default:
		return "costly_" + team + "_victory"
	}
}
