package aggregate

import (
	"sort"

	"github.com/amishk599/skillmap/internal/model"
)

// TopN keeps the n highest counts of every group. Within a group rows are
// sorted by count descending; ties keep their input order. Groups appear in
// the order they are first seen in counts.
func TopN(counts []model.Count, n int) []model.Count {
	if n <= 0 {
		return nil
	}
	groups := ByGroup(counts)
	var out []model.Count
	for _, g := range Groups(counts) {
		out = append(out, First(groups[g], n)...)
	}
	return out
}

// First returns the n highest counts of a single group without modifying it.
func First(counts []model.Count, n int) []model.Count {
	sorted := make([]model.Count, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
