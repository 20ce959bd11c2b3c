package reporting

import (
	"sort"

	"github.com/guiaturistica/reportes-api/internal/models"
)

// CountByWindow counts, per window, the records whose field timestamp falls
// inside it. Records without a parsable timestamp are never counted.
func CountByWindow(records []models.Record, field string, windows []Window) []int {
	counts := make([]int, len(windows))
	for _, rec := range records {
		ts, ok := rec.Timestamp(field)
		if !ok {
			continue
		}
		for i, w := range windows {
			if w.Contains(ts) {
				counts[i]++
			}
		}
	}
	return counts
}

// SumByWindow sums valueField per window. Missing, null or non-numeric
// values add 0.
func SumByWindow(records []models.Record, field string, windows []Window, valueField string) []float64 {
	sums := make([]float64, len(windows))
	for _, rec := range records {
		ts, ok := rec.Timestamp(field)
		if !ok {
			continue
		}
		for i, w := range windows {
			if w.Contains(ts) {
				sums[i] += rec.Number(valueField)
			}
		}
	}
	return sums
}

// Sum adds valueField over every record
func Sum(records []models.Record, valueField string) float64 {
	var total float64
	for _, rec := range records {
		total += rec.Number(valueField)
	}
	return total
}

// Group is the aggregate collected for one key
type Group struct {
	Key     string
	Count   int
	Sum     float64
	Ratings []float64
	// Tally holds per-source counts when several record sets feed one grouping
	Tally map[string]int
	// Attrs holds descriptive values captured from the first record seen
	Attrs map[string]string
}

// MeanRating returns the mean of the collected ratings, 0 when there are none
func (g *Group) MeanRating() float64 {
	return Mean(g.Ratings)
}

// Attr returns a descriptive attribute
func (g *Group) Attr(name string) string {
	return g.Attrs[name]
}

// Groups keeps groups in first-seen order
type Groups struct {
	order []*Group
	index map[string]*Group
}

// NewGroups creates an empty grouping
func NewGroups() *Groups {
	return &Groups{index: make(map[string]*Group)}
}

// GroupSpec describes how records are grouped and what is collected
type GroupSpec struct {
	// Key returns the group key; an empty key skips the record
	Key func(models.Record) string
	// Attrs captures descriptive values when a group is first created
	Attrs func(models.Record) map[string]string
	// SumField, when set, is summed per group
	SumField string
	// CollectRatings appends genuine numeric ratings per group
	CollectRatings bool
	// Tally, when set, counts records under this name as well
	Tally string
}

// GroupBy groups records according to spec
func GroupBy(records []models.Record, spec GroupSpec) *Groups {
	return NewGroups().Add(records, spec)
}

// Add folds more records into the grouping and returns it
func (gs *Groups) Add(records []models.Record, spec GroupSpec) *Groups {
	for _, rec := range records {
		key := spec.Key(rec)
		if key == "" {
			continue
		}
		g, ok := gs.index[key]
		if !ok {
			g = &Group{Key: key, Tally: map[string]int{}, Attrs: map[string]string{}}
			if spec.Attrs != nil {
				for k, v := range spec.Attrs(rec) {
					g.Attrs[k] = v
				}
			}
			gs.index[key] = g
			gs.order = append(gs.order, g)
		}
		g.Count++
		if spec.Tally != "" {
			g.Tally[spec.Tally]++
		}
		if spec.SumField != "" {
			g.Sum += rec.Number(spec.SumField)
		}
		if spec.CollectRatings {
			if rating, ok := rec.Rating(); ok {
				g.Ratings = append(g.Ratings, rating)
			}
		}
	}
	return gs
}

// Get returns the group for key
func (gs *Groups) Get(key string) (*Group, bool) {
	g, ok := gs.index[key]
	return g, ok
}

// List returns the groups in first-seen order
func (gs *Groups) List() []*Group {
	out := make([]*Group, len(gs.order))
	copy(out, gs.order)
	return out
}

// Len returns the number of groups
func (gs *Groups) Len() int {
	return len(gs.order)
}

// TopN ranks groups by score descending and keeps the first n. Ties keep
// their input order so the first-seen group wins. n <= 0 keeps all.
func TopN(groups []*Group, score func(*Group) float64, n int) []*Group {
	ranked := make([]*Group, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ByCount scores a group by its record count
func ByCount(g *Group) float64 {
	return float64(g.Count)
}

// ByTally scores a group by one of its tallies
func ByTally(name string) func(*Group) float64 {
	return func(g *Group) float64 {
		return float64(g.Tally[name])
	}
}

// UniqueActors counts distinct resolved actor ids across record sets
func UniqueActors(sets ...[]models.Record) int {
	seen := make(map[string]struct{})
	for _, records := range sets {
		for _, rec := range records {
			if id := rec.ResolveActorID(); id != "" {
				seen[id] = struct{}{}
			}
		}
	}
	return len(seen)
}

// UniquePlaces counts distinct place keys
func UniquePlaces(records []models.Record) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.ResolvePlaceID()] = struct{}{}
	}
	return len(seen)
}

// Mean returns the arithmetic mean, 0 for no values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// Ratio returns part/whole, 0 when whole is 0
func Ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole
}
