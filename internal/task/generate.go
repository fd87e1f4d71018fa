package task

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"
)

var (
	phases = []string{
		"Site Preparation", "Excavation", "Foundation Pour", "Foundation Curing",
		"Framing - Floor", "Framing - Walls", "Framing - Roof", "Roof Sheathing",
		"Window Installation", "Door Installation", "Rough Electrical", "Rough Plumbing",
		"HVAC Installation", "Insulation", "Drywall Hanging", "Drywall Taping",
		"Drywall Finishing", "Interior Painting", "Exterior Painting", "Flooring - Subfloor",
		"Flooring - Tile", "Flooring - Hardwood", "Flooring - Carpet", "Cabinet Installation",
		"Countertop Installation", "Fixture Installation", "Final Electrical", "Final Plumbing",
		"Landscaping", "Driveway", "Walkways", "Final Inspection",
	}
	locations = []string{"Building A", "Building B", "Building C", "Building D", "Site Common Area"}
)

// GenerateOptions controls the demo dataset.
type GenerateOptions struct {
	Count int
	Seed  uint64
	// Anchor is "today" for the generated schedule.
	Anchor time.Time
	// MaxDependencies bounds the links per item.
	MaxDependencies int
}

// Generate builds a construction-schedule demo: items start between 12
// months before and 48 months after the anchor, last one to four weeks,
// and depend on up to MaxDependencies earlier items. Dependents are pushed
// to start the day after their latest dependency ends, and the result is
// ordered by end date. The same options always produce the same items.
func Generate(opts GenerateOptions) []Item {
	if opts.Count <= 0 {
		return nil
	}
	if opts.MaxDependencies <= 0 {
		opts.MaxDependencies = 5
	}
	anchor := opts.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}
	anchor = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	items := make([]Item, opts.Count)
	for i := range items {
		start := anchor.AddDate(0, rng.IntN(60)-12, rng.IntN(28))
		end := start.AddDate(0, 0, 7*(rng.IntN(4)+1))
		items[i] = Item{
			ID: int64(i + 1),
			Name: fmt.Sprintf("%s - %s - Phase %d",
				phases[i%len(phases)],
				locations[(i/len(phases))%len(locations)],
				i/50+1),
			Start:        Date{start},
			End:          Date{end},
			Dependencies: []int64{},
		}
	}

	for i := 1; i < len(items); i++ {
		n := rng.IntN(opts.MaxDependencies + 1)
		seen := make(map[int64]bool, n)
		for j := 0; j < n && j < i; j++ {
			dep := items[rng.IntN(i)].ID
			if !seen[dep] {
				seen[dep] = true
				items[i].Dependencies = append(items[i].Dependencies, dep)
			}
		}
	}

	sortByEnd(items)
	Reschedule(items)
	sortByEnd(items)

	for i := range items {
		items[i].Progress = progressAt(items[i], anchor)
	}
	return items
}

// Reschedule moves every item with dependencies to start the day after
// its latest dependency ends, keeping its duration. Items are visited in
// slice order and only ever moved later.
func Reschedule(items []Item) {
	byID := make(map[int64]*Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for i := range items {
		it := &items[i]
		if len(it.Dependencies) == 0 {
			continue
		}
		var latest time.Time
		for _, id := range it.Dependencies {
			if dep, ok := byID[id]; ok && dep.End.After(latest) {
				latest = dep.End.Time
			}
		}
		if latest.IsZero() {
			continue
		}
		earliest := latest.AddDate(0, 0, 1)
		if earliest.After(it.Start.Time) {
			days := int(it.Days())
			it.Start = Date{earliest}
			it.End = Date{earliest.AddDate(0, 0, days)}
		}
	}
}

func sortByEnd(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].End.Before(items[j].End.Time)
	})
}

func progressAt(it Item, now time.Time) float64 {
	switch {
	case !now.After(it.Start.Time):
		return 0
	case !now.Before(it.End.Time):
		return 100
	default:
		done := now.Sub(it.Start.Time).Hours() / 24
		return float64(int(done / it.Days() * 100))
	}
}
