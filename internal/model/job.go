package model

import (
	"context"
	"time"
)

// JobRecord is one row of the input postings table.
type JobRecord struct {
	Line       int    // 1-based line in the source file
	Title      string // role; empty when the cell is NULL
	City       string // location_city; empty when the cell is NULL
	Skills     string // raw comma-separated skills cell
	SkillsNull bool   // skills cell was NULL / NA
}

// SkillRow is one (job record, skill token) pair after exploding.
type SkillRow struct {
	Title   string
	City    string
	Key     string // lower-cased grouping key
	Display string // title-cased display form of Key
}

// Count is the number of exploded rows for one (group, skill) pair.
type Count struct {
	Group   string
	Key     string
	Display string
	Count   int
}

// Matrix is a dense role x skill table. Cells[i][j] is the count of
// Skills[j] for Roles[i]; absent pairs are zero.
type Matrix struct {
	Roles   []string
	Skills  []string // skill keys, ascending
	Display []string // display names, parallel to Skills
	Cells   [][]int
}

// Empty reports whether the matrix has no rows or no columns.
func (m Matrix) Empty() bool {
	return len(m.Roles) == 0 || len(m.Skills) == 0
}

// RunSummary is what a ResultStore persists for one pipeline run.
type RunSummary struct {
	RunID      string
	Input      string
	StartedAt  time.Time
	Records    int
	Exploded   int
	CityCounts []Count
	RoleCounts []Count
}

// JobSource loads job postings into memory.
type JobSource interface {
	Load(ctx context.Context) ([]JobRecord, error)
}

// RecordFilter decides whether a record takes part in the analysis.
type RecordFilter interface {
	Match(rec JobRecord) bool
}

// ResultStore snapshots the counts of a run.
type ResultStore interface {
	SaveRun(ctx context.Context, run RunSummary) error
	Close() error
}
