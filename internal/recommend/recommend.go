// Package recommend turns count tables into short focus sentences.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/amishk599/skillmap/internal/aggregate"
	"github.com/amishk599/skillmap/internal/model"
)

const reportTitle = "Job Demand Recommendations"

// Report is the recommendation text of one run.
type Report struct {
	RunID     string
	CityLines []string
	RoleLines []string
}

// String renders the report as written to recommendations.txt.
func (r Report) String() string {
	lines := []string{reportTitle, "", "By City:"}
	lines = append(lines, r.CityLines...)
	lines = append(lines, "", "By Role:")
	lines = append(lines, r.RoleLines...)
	return strings.Join(lines, "\n")
}

// CityFocus names the k most mentioned skills of every city in top, which
// must be grouped by city as TopN returns it.
func CityFocus(top []model.Count, k int) []string {
	groups := aggregate.ByGroup(top)
	var lines []string
	for _, city := range aggregate.Groups(top) {
		best := aggregate.First(groups[city], k)
		names := make([]string, len(best))
		for i, c := range best {
			names[i] = c.Display
		}
		lines = append(lines, fmt.Sprintf("- %s: Focus on %s", city, strings.Join(names, ", ")))
	}
	return lines
}

// Lift returns, for one matrix row, every skill's count divided by that
// skill's mean count across roles. A zero mean is replaced by floor.
func Lift(m model.Matrix, role int, floor float64) []float64 {
	return liftRow(m.Cells[role], columnMeans(m, floor))
}

// columnMeans is the mean count of every skill across roles, with zero
// replaced by floor.
func columnMeans(m model.Matrix, floor float64) []float64 {
	n := float64(len(m.Roles))
	means := make([]float64, len(m.Skills))
	for j, total := range aggregate.ColumnTotals(m) {
		means[j] = float64(total) / n
		if means[j] == 0 {
			means[j] = floor
		}
	}
	return means
}

func liftRow(row []int, means []float64) []float64 {
	lift := make([]float64, len(row))
	for j, v := range row {
		lift[j] = float64(v) / means[j]
	}
	return lift
}

// RoleLift names the k skills with the highest lift for every role. Ties
// keep matrix column order.
func RoleLift(m model.Matrix, k int, floor float64) []string {
	var lines []string
	means := columnMeans(m, floor)
	for i, role := range m.Roles {
		lift := liftRow(m.Cells[i], means)
		order := make([]int, len(lift))
		for j := range order {
			order[j] = j
		}
		sort.SliceStable(order, func(a, b int) bool {
			return lift[order[a]] > lift[order[b]]
		})
		if len(order) > k {
			order = order[:k]
		}
		names := make([]string, len(order))
		for x, j := range order {
			names[x] = m.Display[j]
		}
		lines = append(lines, fmt.Sprintf("- %s: Prioritize %s", role, strings.Join(names, ", ")))
	}
	return lines
}

// Build assembles the report for a run.
func Build(runID string, top []model.Count, m model.Matrix, cityFocus, roleFocus int, floor float64) Report {
	return Report{
		RunID:     runID,
		CityLines: CityFocus(top, cityFocus),
		RoleLines: RoleLift(m, roleFocus, floor),
	}
}
