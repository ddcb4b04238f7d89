// Package render writes analysis results to files and the terminal.
package render

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amishk599/skillmap/internal/model"
)

// File names inside the output directory.
const (
	MatrixFile  = "role_skill_matrix.csv"
	HeatmapFile = "role_skill_heatmap.png"
	ReportFile  = "recommendations.txt"
)

// TopTableFile is the per-city top-N table for a given N.
func TopTableFile(n int) string {
	return fmt.Sprintf("top%d_skills_by_city.csv", n)
}

// BarChartFile is the bar chart image name for a city.
func BarChartFile(n int, city string) string {
	return fmt.Sprintf("top%d_skills_%s.png", n, SafeName(city))
}

// SafeName makes a group name usable as part of a file name. The name is
// kept verbatim apart from characters that are not allowed in file names.
func SafeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// FileNamer hands out file names that are unique within one output
// directory. Names are compared case-insensitively.
type FileNamer struct {
	used map[string]bool
}

// NewFileNamer returns an empty FileNamer.
func NewFileNamer() *FileNamer {
	return &FileNamer{used: make(map[string]bool)}
}

// Unique returns name the first time it is seen. Later requests that collide
// get a numeric suffix before the extension: "x.png", "x_2.png", "x_3.png".
func (f *FileNamer) Unique(name string) string {
	if f.claim(name) {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if f.claim(candidate) {
			return candidate
		}
	}
}

func (f *FileNamer) claim(name string) bool {
	key := strings.ToLower(name)
	if f.used[key] {
		return false
	}
	f.used[key] = true
	return true
}

// EnsureDir creates the output directory if absent.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	return nil
}

// WriteTopTable writes the top-N-per-city counts.
func WriteTopTable(path string, top []model.Count) error {
	rows := make([][]string, 0, len(top)+1)
	rows = append(rows, []string{"location_city", "skill", "count"})
	for _, c := range top {
		rows = append(rows, []string{c.Group, c.Display, strconv.Itoa(c.Count)})
	}
	return writeCSV(path, rows)
}

// WriteMatrix writes the role x skill matrix with display names as headers.
func WriteMatrix(path string, m model.Matrix) error {
	rows := make([][]string, 0, len(m.Roles)+1)
	rows = append(rows, append([]string{"title"}, m.Display...))
	for i, role := range m.Roles {
		row := make([]string, 0, len(m.Skills)+1)
		row = append(row, role)
		for _, v := range m.Cells[i] {
			row = append(row, strconv.Itoa(v))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, rows)
}

// WriteReport writes the recommendation text.
func WriteReport(path string, report fmt.Stringer) error {
	if err := os.WriteFile(path, []byte(report.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
