package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

type unitRecord struct {
	Label    string    `json:"label"`
	Team     game.Team `json:"team"`
	Survived bool      `json:"survived"`
	Damage   float64   `json:"damage"`
	Kills    int       `json:"kills"`
}

type runStats struct {
	RunIndex int   `json:"run"`
	Seed     int64 `json:"seed"`

	Outcome game.BattleOutcomeReason `json:"outcome"`

	FirstHitTick    int `json:"first_hit_tick"`
	FirstKillTick   int `json:"first_kill_tick"`
	FirstWaitTick   int `json:"first_wait_tick"`
	FirstFinishTick int `json:"first_finish_tick"`
	Moves           int `json:"moves"`

	Units []unitRecord `json:"units"`

	Stalemate       bool   `json:"stalemate"`
	StalemateReason string `json:"stalemate_reason"`
}

type options struct {
	runs     int
	maxTicks int
	seedBase int64
	seedStep int64
	config   string
	jsonOut  bool
}

func main() {
	var opts options
	flag.IntVar(&opts.runs, "runs", 5, "number of headless battles")
	flag.IntVar(&opts.maxTicks, "max-ticks", 2000, "tick limit per battle")
	flag.Int64Var(&opts.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&opts.config, "config", "", "optional YAML battle config")
	flag.BoolVar(&opts.jsonOut, "json", false, "emit the report as JSON")
	flag.Parse()

	if err := run(os.Stdout, opts); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, opts options) error {
	if opts.runs <= 0 {
		return fmt.Errorf("-runs must be > 0")
	}
	if opts.maxTicks <= 0 {
		return fmt.Errorf("-max-ticks must be > 0")
	}
	cfg := game.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = game.LoadConfig(opts.config); err != nil {
			return err
		}
	}

	all := make([]runStats, 0, opts.runs)
	for i := 0; i < opts.runs; i++ {
		seed := opts.seedBase + int64(i)*opts.seedStep
		rs, err := runBattle(cfg, i+1, seed, opts.maxTicks)
		if err != nil {
			return fmt.Errorf("run %d (seed=%d): %w", i+1, seed, err)
		}
		all = append(all, rs)
	}

	if opts.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Runs      []runStats `json:"runs"`
			Aggregate aggregate  `json:"aggregate"`
		}{all, aggregateRuns(all)})
	}

	fmt.Fprintf(w, "=== Headless Battle Report ===\n")
	fmt.Fprintf(w, "grid=%dx%d runs=%d max_ticks=%d seed_base=%d seed_step=%d\n\n",
		cfg.Columns, cfg.Rows, opts.runs, opts.maxTicks, opts.seedBase, opts.seedStep)
	for _, rs := range all {
		printRun(w, rs)
	}
	printAggregate(w, aggregateRuns(all))
	return nil
}

func runBattle(cfg game.Config, runIndex int, seed int64, maxTicks int) (runStats, error) {
	cfg.Seed = seed
	b, err := game.NewBattle(cfg)
	if err != nil {
		return runStats{}, err
	}
	if err := b.Begin(); err != nil {
		return runStats{}, err
	}
	b.RunTicks(maxTicks)

	entries := b.Log().Entries()
	rs := runStats{
		RunIndex:        runIndex,
		Seed:            seed,
		Outcome:         game.DetermineOutcome(b),
		FirstHitTick:    firstTick(entries, game.CatAttack, "hit"),
		FirstKillTick:   firstTick(entries, game.CatAttack, "kill"),
		FirstWaitTick:   min(firstTickOr(entries, game.CatPath, "locked"), firstTickOr(entries, game.CatPath, "unreachable")),
		FirstFinishTick: firstTick(entries, game.CatStatus, "finish"),
		Moves:           b.Log().CountCategory(game.CatMove, "step"),
		Units:           unitRecords(b.Roster(), entries),
	}
	if rs.FirstWaitTick == noTick {
		rs.FirstWaitTick = -1
	}
	rs.Stalemate, rs.StalemateReason = detectStalemate(rs)
	return rs, nil
}

const noTick = int(^uint(0) >> 1)

func firstTick(entries []game.BattleLogEntry, category, key string) int {
	if t := firstTickOr(entries, category, key); t != noTick {
		return t
	}
	return -1
}

func firstTickOr(entries []game.BattleLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return noTick
}

func unitRecords(r *game.Roster, entries []game.BattleLogEntry) []unitRecord {
	byLabel := map[string]*unitRecord{}
	var out []unitRecord
	for _, u := range r.All() {
		out = append(out, unitRecord{Label: u.Label(), Team: u.Team, Survived: u.Alive()})
	}
	for i := range out {
		byLabel[out[i].Label] = &out[i]
	}
	for _, e := range entries {
		rec, ok := byLabel[e.Unit]
		if !ok || e.Category != game.CatAttack {
			continue
		}
		switch e.Key {
		case "hit":
			rec.Damage += e.NumVal
		case "kill":
			rec.Kills++
		}
	}
	return out
}

func teamSurvivalCounts(units []unitRecord) (aTotal, bTotal, aSurvivors, bSurvivors int) {
	for _, u := range units {
		if u.Team == game.TeamA {
			aTotal++
			if u.Survived {
				aSurvivors++
			}
			continue
		}
		bTotal++
		if u.Survived {
			bSurvivors++
		}
	}
	return aTotal, bTotal, aSurvivors, bSurvivors
}

// detectStalemate flags battles that hit the tick limit with both sides
// still fielding units.
func detectStalemate(rs runStats) (bool, string) {
	aTotal, bTotal, aSurv, bSurv := teamSurvivalCounts(rs.Units)
	if rs.Outcome.Outcome != game.OutcomeInconclusive {
		return false, rs.Outcome.Description
	}
	if aSurv == 0 || bSurv == 0 {
		return false, fmt.Sprintf("one_sided a=%d/%d b=%d/%d", aSurv, aTotal, bSurv, bTotal)
	}
	reason := fmt.Sprintf("mutual_survival a=%d/%d b=%d/%d waits=%d", aSurv, aTotal, bSurv, bTotal, rs.Outcome.Waits)
	if rs.Outcome.Hits == 0 {
		reason += " no_contact"
	}
	return true, reason
}

func printRun(w io.Writer, rs runStats) {
	o := rs.Outcome
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.RunIndex, rs.Seed)
	fmt.Fprintf(w, "outcome=%s ticks=%d description=%s\n", o.Outcome, o.Ticks, o.Description)
	fmt.Fprintf(w, "survivors: a=%d/%d b=%d/%d\n", o.ASurvivors, o.ATotal, o.BSurvivors, o.BTotal)
	fmt.Fprintf(w, "phase_markers: first_hit=%d first_kill=%d first_wait=%d first_finish=%d\n",
		rs.FirstHitTick, rs.FirstKillTick, rs.FirstWaitTick, rs.FirstFinishTick)
	fmt.Fprintf(w, "event_totals: hits=%d kills=%d moves=%d waits=%d\n", o.Hits, o.Kills, rs.Moves, o.Waits)
	if rs.Stalemate {
		fmt.Fprintf(w, "stalemate: %s\n", rs.StalemateReason)
	}
	for _, u := range rs.Units {
		state := "dead"
		if u.Survived {
			state = "alive"
		}
		fmt.Fprintf(w, "  %-3s %-5s damage=%.3f kills=%d\n", u.Label, state, u.Damage, u.Kills)
	}
	fmt.Fprintln(w)
}

type labelAggregate struct {
	Label        string  `json:"label"`
	Runs         int     `json:"runs"`
	SurvivalRate float64 `json:"survival_rate"`
	AvgDamage    float64 `json:"avg_damage"`
	Kills        int     `json:"kills"`
}

type aggregate struct {
	Runs         int              `json:"runs"`
	AWins        int              `json:"a_wins"`
	BWins        int              `json:"b_wins"`
	Inconclusive int              `json:"inconclusive"`
	Stalemates   int              `json:"stalemates"`
	AvgTicks     float64          `json:"avg_ticks"`
	AvgHits      float64          `json:"avg_hits"`
	AvgKills     float64          `json:"avg_kills"`
	AvgWaits     float64          `json:"avg_waits"`
	FirstHit     string           `json:"avg_first_hit"`
	FirstKill    string           `json:"avg_first_kill"`
	Labels       []labelAggregate `json:"labels"`
}

func aggregateRuns(all []runStats) aggregate {
	agg := aggregate{Runs: len(all)}
	var ticks, hits, kills, waits int
	var hitTicks, killTicks []int
	type labelSum struct {
		runs, survived, kills int
		damage                float64
	}
	labels := map[string]*labelSum{}

	for _, rs := range all {
		switch rs.Outcome.Outcome {
		case game.OutcomeAVictory:
			agg.AWins++
		case game.OutcomeBVictory:
			agg.BWins++
		default:
			agg.Inconclusive++
		}
		if rs.Stalemate {
			agg.Stalemates++
		}
		ticks += rs.Outcome.Ticks
		hits += rs.Outcome.Hits
		kills += rs.Outcome.Kills
		waits += rs.Outcome.Waits
		if rs.FirstHitTick >= 0 {
			hitTicks = append(hitTicks, rs.FirstHitTick)
		}
		if rs.FirstKillTick >= 0 {
			killTicks = append(killTicks, rs.FirstKillTick)
		}
		for _, u := range rs.Units {
			ls, ok := labels[u.Label]
			if !ok {
				ls = &labelSum{}
				labels[u.Label] = ls
			}
			ls.runs++
			ls.kills += u.Kills
			ls.damage += u.Damage
			if u.Survived {
				ls.survived++
			}
		}
	}

	agg.AvgTicks = avg(ticks, len(all))
	agg.AvgHits = avg(hits, len(all))
	agg.AvgKills = avg(kills, len(all))
	agg.AvgWaits = avg(waits, len(all))
	agg.FirstHit = avgTickString(hitTicks)
	agg.FirstKill = avgTickString(killTicks)
	for label, ls := range labels {
		agg.Labels = append(agg.Labels, labelAggregate{
			Label:        label,
			Runs:         ls.runs,
			SurvivalRate: float64(ls.survived) / float64(ls.runs) * 100,
			AvgDamage:    ls.damage / float64(ls.runs),
			Kills:        ls.kills,
		})
	}
	sort.Slice(agg.Labels, func(i, j int) bool {
		return agg.Labels[i].Label < agg.Labels[j].Label
	})
	return agg
}

func printAggregate(w io.Writer, agg aggregate) {
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d a_wins=%d b_wins=%d inconclusive=%d stalemates=%d\n",
		agg.Runs, agg.AWins, agg.BWins, agg.Inconclusive, agg.Stalemates)
	fmt.Fprintf(w, "avg_per_run: ticks=%.1f hits=%.1f kills=%.1f waits=%.1f\n",
		agg.AvgTicks, agg.AvgHits, agg.AvgKills, agg.AvgWaits)
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_hit=%s first_kill=%s\n", agg.FirstHit, agg.FirstKill)

	fmt.Fprintln(w, "\n=== Aggregate Unit Performance ===")
	var b strings.Builder
	for _, l := range agg.Labels {
		fmt.Fprintf(&b, "  %-3s runs=%d survival=%.0f%% avg_damage=%.3f kills=%d\n",
			l.Label, l.Runs, l.SurvivalRate, l.AvgDamage, l.Kills)
	}
	fmt.Fprint(w, b.String())
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
