// Package pipeline runs the walk, summarize and assemble steps end to end
// and regenerates parts of a stored run.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"dirsight/internal/report"
	"dirsight/internal/scan"
	"dirsight/internal/store"
	"dirsight/internal/summarize"
	t "dirsight/internal/types"
)

const (
	recordPath = "run.json"
	reportPath = "report.md"
)

type Options struct {
	// Model is recorded on every run for reference.
	Model    string
	MaxDepth int
	Logger   *log.Logger
}

// Service owns one engine and one store.
type Service struct {
	engine *summarize.Engine
	store  store.Store
	model  string
	scan   scan.Options
	log    *log.Logger
	now    func() time.Time
}

func New(engine *summarize.Engine, st store.Store, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		engine: engine,
		store:  st,
		model:  opts.Model,
		scan:   scan.Options{MaxDepth: opts.MaxDepth, Logger: logger},
		log:    logger,
		now:    time.Now,
	}
}

// Run summarizes root from scratch and persists the result under a new id.
// A canceled run still persists its partial report and returns ctx.Err().
func (s *Service) Run(ctx context.Context, root string, ignore []string) (t.RunRecord, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return t.RunRecord{}, &scan.PathError{Path: root, Err: err}
	}
	now := s.now().UTC()
	rec := t.RunRecord{
		ID:        uuid.NewString(),
		Root:      abs,
		Ignore:    scan.NewIgnoreSet(ignore...).Paths(),
		Model:     s.model,
		CreatedAt: now,
	}
	return s.run(ctx, rec)
}

// RegenerateAll discards rec's stored context and reruns the whole pipeline
// for the same root and ignore set, keeping the run id.
func (s *Service) RegenerateAll(ctx context.Context, rec t.RunRecord) (t.RunRecord, error) {
	rec.Report = t.Report{}
	rec.Model = s.model
	return s.run(ctx, rec)
}

func (s *Service) run(ctx context.Context, rec t.RunRecord) (t.RunRecord, error) {
	skel, err := scan.Walk(rec.Root, scan.NewIgnoreSet(rec.Ignore...), s.scan)
	if err != nil {
		return t.RunRecord{}, err
	}
	s.log.Printf("pipeline: run=%s walked %d nodes under %s", rec.ID, skel.Count(), rec.Root)

	tree, runErr := s.engine.Run(ctx, skel)
	rec.Report = report.Assemble(tree)
	rec.UpdatedAt = s.now().UTC()

	// persist even when canceled so the partial report is not lost
	if err := s.Save(context.WithoutCancel(ctx), rec); err != nil {
		return rec, err
	}
	if runErr != nil {
		return rec, fmt.Errorf("pipeline: run %s interrupted: %w", rec.ID, runErr)
	}
	return rec, nil
}

// NodeResult is the regenerated subtree of one path. Entries are in
// pre-order with paths relative to the run root.
type NodeResult struct {
	Node    *t.Node
	Entries []t.ContextEntry
}

// RegenerateNode re-summarizes exactly one path of root: a file is
// re-extracted and re-summarized, a directory is walked and summarized
// again with the same ignore set. Nothing is persisted; see MergeNode.
func (s *Service) RegenerateNode(ctx context.Context, root, relPath string, ignore []string) (NodeResult, error) {
	n, err := scan.WalkAt(root, relPath, scan.NewIgnoreSet(ignore...), s.scan)
	if err != nil {
		return NodeResult{}, err
	}
	var out *t.Node
	if n.Kind == t.KindFile {
		out, err = s.engine.SummarizeFile(ctx, n)
	} else {
		out, err = s.engine.Run(ctx, n)
	}
	if out == nil {
		return NodeResult{}, err
	}
	return NodeResult{Node: out, Entries: report.Flatten(out)}, err
}

// MergeNode splices res into rec's context and refreshes the derived
// report fields. Ancestor summaries are left as stored.
func (s *Service) MergeNode(rec t.RunRecord, res NodeResult) t.RunRecord {
	if len(res.Entries) == 0 {
		return rec
	}
	rec.Report.Context = report.Merge(rec.Report.Context, res.Entries)
	rec.Report.TreeText = report.RenderEntries(rec.Report.Context)
	if res.Entries[0].Path == t.RootPath {
		rec.Report.Overview = res.Entries[0].Summary
	}
	rec.UpdatedAt = s.now().UTC()
	return rec
}

// Save writes the run record and its Markdown rendering.
func (s *Service) Save(ctx context.Context, rec t.RunRecord) error {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: encode run %s: %w", rec.ID, err)
	}
	if err := s.store.Put(ctx, rec.ID, recordPath, raw); err != nil {
		return fmt.Errorf("pipeline: save run %s: %w", rec.ID, err)
	}
	if err := s.store.Put(ctx, rec.ID, reportPath, []byte(report.Markdown(rec))); err != nil {
		return fmt.Errorf("pipeline: save report %s: %w", rec.ID, err)
	}
	return nil
}

// Load reads a stored run. Missing runs wrap store.ErrNotFound.
func (s *Service) Load(ctx context.Context, id string) (t.RunRecord, error) {
	raw, err := s.store.Get(ctx, id, recordPath)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return t.RunRecord{}, fmt.Errorf("pipeline: run %s: %w", id, err)
		}
		return t.RunRecord{}, fmt.Errorf("pipeline: load run %s: %w", id, err)
	}
	var rec t.RunRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return t.RunRecord{}, fmt.Errorf("pipeline: decode run %s: %w", id, err)
	}
	return rec, nil
}
