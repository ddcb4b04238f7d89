package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/skillmap/internal/aggregate"
	"github.com/amishk599/skillmap/internal/config"
	"github.com/amishk599/skillmap/internal/model"
	"github.com/amishk599/skillmap/internal/normalize"
	"github.com/amishk599/skillmap/internal/recommend"
	"github.com/amishk599/skillmap/internal/render"
)

// pruner is implemented by stores that can drop old runs.
type pruner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// Result holds everything one run produced.
type Result struct {
	RunID      string
	Records    int
	Exploded   int
	CityCounts []model.Count
	RoleCounts []model.Count
	TopCities  []model.Count
	Matrix     model.Matrix
	Report     recommend.Report
	Files      []string // written outputs, in write order
}

// Pipeline owns a full analysis run:
// load → filter → explode → aggregate → render → recommend → snapshot.
type Pipeline struct {
	cfg    *config.Config
	source model.JobSource
	filter model.RecordFilter
	store  model.ResultStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a pipeline wired with all its dependencies.
func New(
	cfg *config.Config,
	source model.JobSource,
	filter model.RecordFilter,
	store model.ResultStore,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		source: source,
		filter: filter,
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Analyze runs the in-memory stages over already loaded records.
func Analyze(recs []model.JobRecord, topN int) *Result {
	rows := normalize.Explode(recs)
	res := &Result{
		Records:    len(recs),
		Exploded:   len(rows),
		CityCounts: aggregate.CityCounts(rows),
		RoleCounts: aggregate.RoleCounts(rows),
	}
	res.TopCities = aggregate.TopN(res.CityCounts, topN)
	res.Matrix = aggregate.BuildMatrix(res.RoleCounts)
	return res
}

// Run executes one full run and writes every output file.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.now()
	runID := p.newID()
	log := p.logger.With("run_id", runID)

	recs, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading postings: %w", err)
	}
	loaded := len(recs)

	if p.filter != nil {
		kept := recs[:0:0]
		for _, r := range recs {
			if p.filter.Match(r) {
				kept = append(kept, r)
			}
		}
		recs = kept
	}
	log.Info("loaded postings", "input", p.cfg.Input, "records", loaded, "kept", len(recs))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := Analyze(recs, p.cfg.TopN)
	res.RunID = runID
	log.Info("aggregated skills",
		"exploded", res.Exploded,
		"cities", len(aggregate.Groups(res.CityCounts)),
		"roles", len(res.Matrix.Roles),
		"skills", len(res.Matrix.Skills),
	)

	if err := p.render(ctx, log, res); err != nil {
		return nil, err
	}

	res.Report = recommend.Build(runID, res.TopCities, res.Matrix, p.cfg.CityFocus, p.cfg.RoleFocus, p.cfg.LiftFloor)
	reportPath := filepath.Join(p.cfg.OutputDir, render.ReportFile)
	if err := render.WriteReport(reportPath, res.Report); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, reportPath)

	if err := p.snapshot(ctx, log, res, started); err != nil {
		return nil, err
	}

	log.Info("analysis complete", "output_dir", p.cfg.OutputDir, "files", len(res.Files))
	return res, nil
}

func (p *Pipeline) render(ctx context.Context, log *slog.Logger, res *Result) error {
	out := p.cfg.OutputDir
	if err := render.EnsureDir(out); err != nil {
		return err
	}

	topPath := filepath.Join(out, render.TopTableFile(p.cfg.TopN))
	if err := render.WriteTopTable(topPath, res.TopCities); err != nil {
		return err
	}
	res.Files = append(res.Files, topPath)

	if p.cfg.Charts.Enabled {
		groups := aggregate.ByGroup(res.TopCities)
		names := render.NewFileNamer()
		for _, city := range aggregate.Groups(res.TopCities) {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(out, names.Unique(render.BarChartFile(p.cfg.TopN, city)))
			if err := render.BarChart(path, p.cfg.TopN, city, groups[city], p.cfg.Charts.BarSize); err != nil {
				return err
			}
			log.Debug("wrote bar chart", "city", city, "path", path)
			res.Files = append(res.Files, path)
		}
	}

	matrixPath := filepath.Join(out, render.MatrixFile)
	if err := render.WriteMatrix(matrixPath, res.Matrix); err != nil {
		return err
	}
	res.Files = append(res.Files, matrixPath)

	if p.cfg.Charts.Enabled {
		if res.Matrix.Empty() {
			log.Warn("no role skill pairs, skipping heatmap")
		} else {
			path := filepath.Join(out, render.HeatmapFile)
			if err := render.Heatmap(path, res.Matrix, p.cfg.Charts.HeatmapSize); err != nil {
				return err
			}
			res.Files = append(res.Files, path)
		}
	}
	return nil
}

func (p *Pipeline) snapshot(ctx context.Context, log *slog.Logger, res *Result, started time.Time) error {
	if p.store == nil {
		return nil
	}
	err := p.store.SaveRun(ctx, model.RunSummary{
		RunID:      res.RunID,
		Input:      p.cfg.Input,
		StartedAt:  started,
		Records:    res.Records,
		Exploded:   res.Exploded,
		CityCounts: res.CityCounts,
		RoleCounts: res.RoleCounts,
	})
	if err != nil {
		return fmt.Errorf("snapshotting run: %w", err)
	}

	if pr, ok := p.store.(pruner); ok && p.cfg.SQLite.Retain > 0 {
		if err := pr.Cleanup(ctx, p.cfg.SQLite.Retain); err != nil {
			return fmt.Errorf("pruning snapshots: %w", err)
		}
		log.Debug("pruned old snapshots", "retain", p.cfg.SQLite.Retain.String())
	}
	return nil
}
