// Package aggregate builds count tables over exploded skill rows.
package aggregate

import (
	"sort"

	"github.com/amishk599/skillmap/internal/model"
)

// CountBy counts rows per (group, skill key). The result is ordered by group
// then skill key, ascending. Rows with an empty group are skipped.
func CountBy(rows []model.SkillRow, group func(model.SkillRow) string) []model.Count {
	type pair struct{ group, key string }
	counts := make(map[pair]*model.Count)
	for _, r := range rows {
		g := group(r)
		if g == "" {
			continue
		}
		p := pair{g, r.Key}
		c, ok := counts[p]
		if !ok {
			c = &model.Count{Group: g, Key: r.Key, Display: r.Display}
			counts[p] = c
		}
		c.Count++
	}

	out := make([]model.Count, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// CityCounts counts skills per location_city.
func CityCounts(rows []model.SkillRow) []model.Count {
	return CountBy(rows, func(r model.SkillRow) string { return r.City })
}

// RoleCounts counts skills per title.
func RoleCounts(rows []model.SkillRow) []model.Count {
	return CountBy(rows, func(r model.SkillRow) string { return r.Title })
}

// GroupTotals sums counts per group.
func GroupTotals(counts []model.Count) map[string]int {
	totals := make(map[string]int)
	for _, c := range counts {
		totals[c.Group] += c.Count
	}
	return totals
}

// Groups returns the distinct groups in first-seen order.
func Groups(counts []model.Count) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range counts {
		if !seen[c.Group] {
			seen[c.Group] = true
			out = append(out, c.Group)
		}
	}
	return out
}

// ByGroup splits counts into per-group slices, keeping order within each group.
func ByGroup(counts []model.Count) map[string][]model.Count {
	out := make(map[string][]model.Count)
	for _, c := range counts {
		out[c.Group] = append(out[c.Group], c)
	}
	return out
}
