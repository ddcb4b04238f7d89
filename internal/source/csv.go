// Package source loads job postings from delimited text files.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amishk599/skillmap/internal/model"
)

// Ensure CSVSource implements model.JobSource.
var _ model.JobSource = (*CSVSource)(nil)

const (
	colTitle  = "title"
	colCity   = "location_city"
	colSkills = "skills"
)

// nullTokens are the cell values read as missing, mirroring the NA markers
// most dataframe tools recognise by default.
var nullTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "#N/A": {}, "#NA": {}, "<NA>": {},
	"#N/A N/A": {}, "-1.#IND": {}, "1.#IND": {}, "1.#QNAN": {}, "-1.#QNAN": {},
}

// IsNull reports whether a raw cell value counts as missing.
func IsNull(cell string) bool {
	_, ok := nullTokens[cell]
	return ok
}

// CSVSource reads a whole postings file into memory.
type CSVSource struct {
	path      string
	delimiter rune
}

// NewCSVSource returns a source for the file at path. A zero delimiter means ','.
func NewCSVSource(path string, delimiter rune) *CSVSource {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVSource{path: path, delimiter: delimiter}
}

// Load opens the file and parses every row.
func (s *CSVSource) Load(ctx context.Context) ([]model.JobRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	recs, err := Parse(ctx, f, s.delimiter)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return recs, nil
}

// Parse reads postings from r. The first row is the header; the title,
// location_city and skills columns are located by name. Short rows are padded
// with missing cells, long rows are an error.
func Parse(ctx context.Context, r io.Reader, delimiter rune) ([]model.JobRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &model.LoadError{Line: 1, Err: errors.New("empty file, no header row")}
	}
	if err != nil {
		return nil, &model.LoadError{Line: 1, Err: err}
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var recs []model.JobRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &model.LoadError{Line: pe.StartLine, Err: pe.Err}
			}
			return nil, &model.LoadError{Err: err}
		}
		line, _ := cr.FieldPos(0)
		if len(row) > len(header) {
			return nil, &model.LoadError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, saw %d", len(header), len(row)),
			}
		}

		skills, skillsNull := cell(row, idx[colSkills])
		title, _ := cell(row, idx[colTitle])
		city, _ := cell(row, idx[colCity])
		recs = append(recs, model.JobRecord{
			Line:       line,
			Title:      title,
			City:       city,
			Skills:     skills,
			SkillsNull: skillsNull,
		})
	}
	return recs, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, 3)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	var missing []string
	for _, want := range []string{colTitle, colCity, colSkills} {
		if _, ok := idx[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, &model.LoadError{
			Line: 1,
			Err:  fmt.Errorf("%w: %s", model.ErrMissingColumn, strings.Join(missing, ", ")),
		}
	}
	return idx, nil
}

// cell returns the value at i and whether it is missing. Missing cells come
// back as the empty string.
func cell(row []string, i int) (string, bool) {
	if i >= len(row) || IsNull(row[i]) {
		return "", true
	}
	return row[i], false
}
