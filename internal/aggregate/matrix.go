package aggregate

import (
	"sort"

	"github.com/amishk599/skillmap/internal/model"
)

// BuildMatrix pivots (role, skill) counts into a dense matrix. Roles and
// skills are sorted ascending; pairs with no mentions are zero.
func BuildMatrix(roleCounts []model.Count) model.Matrix {
	roleIdx := make(map[string]int)
	skillIdx := make(map[string]int)
	display := make(map[string]string)
	var m model.Matrix
	for _, c := range roleCounts {
		if _, ok := roleIdx[c.Group]; !ok {
			roleIdx[c.Group] = 0
			m.Roles = append(m.Roles, c.Group)
		}
		if _, ok := skillIdx[c.Key]; !ok {
			skillIdx[c.Key] = 0
			display[c.Key] = c.Display
			m.Skills = append(m.Skills, c.Key)
		}
	}
	sort.Strings(m.Roles)
	sort.Strings(m.Skills)
	for i, r := range m.Roles {
		roleIdx[r] = i
	}
	m.Display = make([]string, len(m.Skills))
	for j, s := range m.Skills {
		skillIdx[s] = j
		m.Display[j] = display[s]
	}

	m.Cells = make([][]int, len(m.Roles))
	for i := range m.Cells {
		m.Cells[i] = make([]int, len(m.Skills))
	}
	for _, c := range roleCounts {
		m.Cells[roleIdx[c.Group]][skillIdx[c.Key]] += c.Count
	}
	return m
}

// ColumnTotals returns the sum of every skill column.
func ColumnTotals(m model.Matrix) []int {
	totals := make([]int, len(m.Skills))
	for _, row := range m.Cells {
		for j, v := range row {
			totals[j] += v
		}
	}
	return totals
}
