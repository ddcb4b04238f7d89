package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/amishk599/skillmap/internal/config"
	"github.com/amishk599/skillmap/internal/filter"
	"github.com/amishk599/skillmap/internal/model"
	"github.com/amishk599/skillmap/internal/render"
)

// --- Mock/Fake Implementations ---

// MockSource returns a canned slice of records or an error.
type MockSource struct {
	Records []model.JobRecord
	Err     error
}

func (m *MockSource) Load(_ context.Context) ([]model.JobRecord, error) {
	return m.Records, m.Err
}

// RecordingStore keeps every saved run and counts Cleanup calls.
type RecordingStore struct {
	Runs     []model.RunSummary
	Cleanups int
	Err      error
}

func (s *RecordingStore) SaveRun(_ context.Context, run model.RunSummary) error {
	if s.Err != nil {
		return s.Err
	}
	s.Runs = append(s.Runs, run)
	return nil
}

func (s *RecordingStore) Cleanup(_ context.Context, _ time.Duration) error {
	s.Cleanups++
	return nil
}

func (s *RecordingStore) Close() error { return nil }

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Input = "test.csv"
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Charts.BarSize = config.Size{Width: 3 * vg.Inch, Height: 2 * vg.Inch}
	cfg.Charts.HeatmapSize = config.Size{Width: 3 * vg.Inch, Height: 2 * vg.Inch}
	return cfg
}

func newTestPipeline(cfg *config.Config, src model.JobSource, f model.RecordFilter, st model.ResultStore) *Pipeline {
	p := New(cfg, src, f, st, discardLogger())
	p.newID = func() string { return "run-1" }
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return p
}

func sampleRecords() []model.JobRecord {
	return []model.JobRecord{
		{Line: 2, Title: "Engineer", City: "Austin", Skills: "Python, SQL, python"},
		{Line: 3, Title: "Analyst", City: "Boston", Skills: "Excel, SQL"},
		{Line: 4, Title: "Analyst", City: "Austin", SkillsNull: true},
	}
}

// --- Tests ---

func TestRun_WritesAllOutputs(t *testing.T) {
	cfg := testConfig(t)
	st := &RecordingStore{}
	p := newTestPipeline(cfg, &MockSource{Records: sampleRecords()}, nil, st)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, 3, res.Records)
	assert.Equal(t, 5, res.Exploded)
	assert.Equal(t, []model.Count{
		{Group: "Austin", Key: "python", Display: "Python", Count: 2},
		{Group: "Austin", Key: "sql", Display: "Sql", Count: 1},
		{Group: "Boston", Key: "excel", Display: "Excel", Count: 1},
		{Group: "Boston", Key: "sql", Display: "Sql", Count: 1},
	}, res.TopCities)

	for _, name := range []string{
		render.TopTableFile(10),
		render.BarChartFile(10, "Austin"),
		render.BarChartFile(10, "Boston"),
		render.MatrixFile,
		render.HeatmapFile,
		render.ReportFile,
	} {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}
	assert.Len(t, res.Files, 6)

	report, err := os.ReadFile(filepath.Join(cfg.OutputDir, render.ReportFile))
	require.NoError(t, err)
	assert.Equal(t, res.Report.String(), string(report))
	assert.Contains(t, string(report), "- Austin: Focus on Python, Sql")

	require.Len(t, st.Runs, 1)
	run := st.Runs[0]
	assert.Equal(t, "run-1", run.RunID)
	assert.Equal(t, "test.csv", run.Input)
	assert.Equal(t, 5, run.Exploded)
	assert.Equal(t, res.CityCounts, run.CityCounts)
	assert.Zero(t, st.Cleanups, "retain of zero keeps all runs")
}

func TestRun_OneChartPerCityWhenNamesCollide(t *testing.T) {
	cfg := testConfig(t)
	recs := []model.JobRecord{
		{Title: "Dev", City: "Austin/TX", Skills: "Go"},
		{Title: "Dev", City: "Austin_TX", Skills: "Go"},
		{Title: "Dev", City: " Boston", Skills: "Go"},
		{Title: "Dev", City: "Boston", Skills: "Go"},
	}
	p := newTestPipeline(cfg, &MockSource{Records: recs}, nil, &RecordingStore{})

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, f := range res.Files {
		assert.False(t, seen[f], "file written twice: %s", f)
		seen[f] = true
	}

	charts, err := filepath.Glob(filepath.Join(cfg.OutputDir, "top10_skills_*.png"))
	require.NoError(t, err)
	assert.Len(t, charts, 4)
	for _, name := range []string{
		"top10_skills_Austin_TX.png",
		"top10_skills_Austin_TX_2.png",
		"top10_skills_ Boston.png",
		"top10_skills_Boston.png",
	} {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}
}

func TestRun_ChartsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Charts.Enabled = false
	p := newTestPipeline(cfg, &MockSource{Records: sampleRecords()}, nil, &RecordingStore{})

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Files, 3)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, render.HeatmapFile))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, render.BarChartFile(10, "Austin")))
}

func TestRun_SourceError(t *testing.T) {
	cfg := testConfig(t)
	st := &RecordingStore{}
	p := newTestPipeline(cfg, &MockSource{Err: errors.New("disk gone")}, nil, st)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.Empty(t, st.Runs)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestRun_EmptyDataset(t *testing.T) {
	cfg := testConfig(t)
	p := newTestPipeline(cfg, &MockSource{}, nil, &RecordingStore{})

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.TopCities)
	assert.True(t, res.Matrix.Empty())
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, render.HeatmapFile))

	report, err := os.ReadFile(filepath.Join(cfg.OutputDir, render.ReportFile))
	require.NoError(t, err)
	assert.Equal(t, "Job Demand Recommendations\n\nBy City:\n\nBy Role:", string(report))
}

func TestRun_FilterAndRetain(t *testing.T) {
	cfg := testConfig(t)
	cfg.Charts.Enabled = false
	cfg.SQLite.Retain = 24 * time.Hour
	st := &RecordingStore{}
	f := filter.NewRoleAndCityFilter(nil, []string{"boston"})
	p := newTestPipeline(cfg, &MockSource{Records: sampleRecords()}, f, st)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Records)
	assert.Equal(t, []string{"Boston"}, []string{res.TopCities[0].Group})
	assert.Equal(t, 1, st.Cleanups)
}

func TestRun_StoreError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Charts.Enabled = false
	p := newTestPipeline(cfg, &MockSource{Records: sampleRecords()}, nil, &RecordingStore{Err: errors.New("locked")})

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshotting run")
}

func TestRun_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newTestPipeline(cfg, &MockSource{Records: sampleRecords()}, nil, &RecordingStore{})

	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
