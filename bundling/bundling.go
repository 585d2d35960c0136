// Package bundling implements the hour-bundling core: the greedy allocation of
// unbundled log entries into fixed-size bundles, the inverse consolidation of
// fragments after a bundle is deleted, and the balance calculation. Everything
// here is pure — functions take an ordered snapshot of entries and return a
// plan of operations for the caller to apply inside a storage transaction.
package bundling

import (
	"math"
	"strings"
	"time"
)

// Quota is the fixed bundle size in hours.
const Quota = 3.0

// Entry is a snapshot of one log entry. Callers pass entries ordered oldest
// first (start ascending, insertion order breaking ties).
type Entry struct {
	ID    string
	Hours float64
	Start time.Time
	End   time.Time
	Note  string
}

// Round2 rounds to two decimal places, half away from zero. It is applied
// after every arithmetic step so all fragments stay on the same grid.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Balance returns the total unbundled hours and how many full bundles that
// total covers. An empty snapshot yields 0, 0.
func Balance(entries []Entry) (hours float64, bundles int) {
	for _, e := range entries {
		hours = Round2(hours + e.Hours)
	}
	return hours, int(hours / Quota)
}

// Split trims the boundary entry down to Keep hours inside the bundle; a new
// unbundled entry carries the Leftover hours with the source's start, end and
// note copied over.
type Split struct {
	EntryID  string
	Keep     float64
	Leftover float64
}

// Plan is the outcome of one allocation pass.
type Plan struct {
	AssignIDs []string // entries consumed whole, in walk order
	Split     *Split   // boundary entry, when it held more hours than needed
	Notes     string   // bullet-joined notes of every contributor, "" if none
}

// PlanBundle walks the snapshot oldest-first, consuming hours until the quota
// is met. Notes are collected in the same pass, so assignment and note
// aggregation cannot drift apart. ok is false when the total falls short of
// the quota; the caller then does nothing at all.
func PlanBundle(entries []Entry) (Plan, bool) {
	total, _ := Balance(entries)
	if total < Quota {
		return Plan{}, false
	}

	var plan Plan
	var notes []string
	needed := Quota
	for _, e := range entries {
		if needed <= 0 {
			break
		}
		if e.Hours <= needed {
			plan.AssignIDs = append(plan.AssignIDs, e.ID)
			needed = Round2(needed - e.Hours)
		} else {
			plan.Split = &Split{
				EntryID:  e.ID,
				Keep:     needed,
				Leftover: Round2(e.Hours - needed),
			}
			needed = 0
		}
		if n := strings.TrimSpace(e.Note); n != "" {
			notes = append(notes, "• "+n)
		}
	}
	plan.Notes = strings.Join(notes, "\n")
	return plan, true
}

// Merge folds a run of duplicate fragments into its first member: Hours is
// the new total for KeepID and the DropIDs are deleted.
type Merge struct {
	KeepID  string
	Hours   float64
	DropIDs []string
}

// PlanMerges scans a start-ordered snapshot for adjacent entries with
// identical Start AND End — the signature of fragments split from one
// original entry — and merges each run into its first member. Runs longer
// than two collapse into a single entry. Entries whose timestamps differ are
// never merged, even when the hours happen to coincide.
func PlanMerges(entries []Entry) []Merge {
	var merges []Merge
	for i := 0; i < len(entries); {
		m := Merge{KeepID: entries[i].ID, Hours: entries[i].Hours}
		j := i + 1
		for j < len(entries) &&
			entries[j].Start.Equal(entries[i].Start) &&
			entries[j].End.Equal(entries[i].End) {
			m.Hours = Round2(m.Hours + entries[j].Hours)
			m.DropIDs = append(m.DropIDs, entries[j].ID)
			j++
		}
		if len(m.DropIDs) > 0 {
			merges = append(merges, m)
		}
		i = j
	}
	return merges
}
