package game

import (
	"fmt"
	"strings"
)

// Log categories.
const (
	CatBattle = "battle" // begin, over
	CatAttack = "attack" // hit, kill
	CatMove   = "move"   // step
	CatPath   = "path"   // locked, unreachable, dump
	CatStatus = "status" // finish
	CatTick   = "tick"   // verbose per-tick snapshots
)

// BattleLogEntry is one recorded event during a battle.
type BattleLogEntry struct {
	Tick     int
	Unit     string  // label e.g. "A0", "B3", or "--" for global events
	Team     string  // "A", "B", or "--"
	Category string  // battle, attack, move, path, status, tick
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=004] A2   attack  hit              B1 -0.073 -> 0.412
func (e BattleLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-7s %-16s %s",
		e.Tick, e.Unit, e.Category, e.Key, e.Value)
}

// BattleLog collects structured events during a battle. It is unbounded and
// machine-readable; viewers keep their own short feeds.
type BattleLog struct {
	entries []BattleLogEntry
	verbose bool
}

// NewBattleLog creates a BattleLog. If verbose is true, per-tick unit
// positions and path diagnostics are also recorded.
func NewBattleLog(verbose bool) *BattleLog {
	return &BattleLog{verbose: verbose}
}

// Verbose reports whether verbose entries are recorded.
func (bl *BattleLog) Verbose() bool { return bl.verbose }

// Add records a new entry.
func (bl *BattleLog) Add(tick int, unit, team, category, key, value string, numVal float64) {
	bl.entries = append(bl.entries, BattleLogEntry{
		Tick:     tick,
		Unit:     unit,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddUnit records an entry attributed to u.
func (bl *BattleLog) AddUnit(tick int, u *Unit, category, key, value string, numVal float64) {
	bl.Add(tick, u.Label(), u.Team.String(), category, key, value, numVal)
}

// AddVerbose records an entry only when verbose mode is on.
func (bl *BattleLog) AddVerbose(tick int, unit, team, category, key, value string, numVal float64) {
	if !bl.verbose {
		return
	}
	bl.Add(tick, unit, team, category, key, value, numVal)
}

// Reset drops all entries.
func (bl *BattleLog) Reset() {
	bl.entries = bl.entries[:0]
}

// Entries returns all recorded entries.
func (bl *BattleLog) Entries() []BattleLogEntry {
	return bl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (bl *BattleLog) Filter(category, key string) []BattleLogEntry {
	var out []BattleLogEntry
	for _, e := range bl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterUnit returns entries for a specific unit label.
func (bl *BattleLog) FilterUnit(label string) []BattleLogEntry {
	var out []BattleLogEntry
	for _, e := range bl.entries {
		if e.Unit == label {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (bl *BattleLog) CountCategory(category, key string) int {
	return len(bl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (bl *BattleLog) LastOf(category, key string) (BattleLogEntry, bool) {
	entries := bl.Filter(category, key)
	if len(entries) == 0 {
		return BattleLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (bl *BattleLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range bl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string.
func (bl *BattleLog) Format() string {
	var sb strings.Builder
	for _, e := range bl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
