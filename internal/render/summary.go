package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/skillmap/internal/aggregate"
	"github.com/amishk599/skillmap/internal/model"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 0, 2)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Width(16).
				PaddingLeft(2)

	summaryCityStyle = lipgloss.NewStyle().
				Bold(true).
				PaddingLeft(2)

	summarySkillStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				PaddingLeft(4)

	summaryBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))
)

// maxBar caps the width of the inline count bars.
const maxBar = 30

// SummaryStats are the headline numbers of a run.
type SummaryStats struct {
	RunID     string
	Records   int
	Exploded  int
	OutputDir string
}

// Summary writes a static, styled overview of the run to out: headline
// numbers followed by the first k skills of every city.
func Summary(out io.Writer, stats SummaryStats, top []model.Count, k int) {
	var sb strings.Builder
	sb.WriteString(summaryTitleStyle.Render("Skill demand summary"))
	sb.WriteString("\n\n")
	for _, kv := range [][2]string{
		{"Run", stats.RunID},
		{"Postings", fmt.Sprint(stats.Records)},
		{"Skill mentions", fmt.Sprint(stats.Exploded)},
		{"Output", stats.OutputDir},
	} {
		sb.WriteString(summaryLabelStyle.Render(kv[0]) + kv[1] + "\n")
	}

	groups := aggregate.ByGroup(top)
	for _, city := range aggregate.Groups(top) {
		best := aggregate.First(groups[city], k)
		sb.WriteString("\n" + summaryCityStyle.Render(city) + "\n")
		peak := best[0].Count
		for _, c := range best {
			sb.WriteString(summarySkillStyle.Render(fmt.Sprintf("%-20s", c.Display)))
			sb.WriteString(" " + summaryBarStyle.Render(bar(c.Count, peak)))
			sb.WriteString(fmt.Sprintf(" %d\n", c.Count))
		}
	}
	fmt.Fprintln(out, sb.String())
}

func bar(count, peak int) string {
	if peak <= 0 {
		return ""
	}
	n := count * maxBar / peak
	if n == 0 && count > 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
