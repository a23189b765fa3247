package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dirsight/internal/report"
	"dirsight/internal/scan"
	"dirsight/internal/summarize"
	t "dirsight/internal/types"
)

const (
	SectionOverview    = "overview"
	SectionTree        = "tree"
	SectionFiles       = "files"
	SectionDirectories = "directories"
	SectionContext     = "context"
)

var ErrUnknownSection = errors.New("pipeline: unknown section")

// Sections lists the ids accepted by RegenerateSection.
func Sections() []string {
	return []string{SectionOverview, SectionTree, SectionFiles, SectionDirectories, SectionContext}
}

// RegenerateSection re-derives one textual section of rec from its stored
// summaries. Only "overview" calls the model (once) and only "tree" touches
// the filesystem.
func (s *Service) RegenerateSection(ctx context.Context, sectionID string, rec t.RunRecord) (string, error) {
	id := strings.ToLower(strings.TrimSpace(sectionID))
	switch id {
	case SectionOverview:
		return s.overview(ctx, rec), nil
	case SectionTree:
		skel, err := scan.Walk(rec.Root, scan.NewIgnoreSet(rec.Ignore...), s.scan)
		if err != nil {
			return "", err
		}
		return report.RenderTree(skel), nil
	case SectionFiles, SectionDirectories:
		dirs, files := report.Split(rec.Report.Context)
		entries := files
		if id == SectionDirectories {
			entries = dirs
		}
		var b strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&b, "%s: %s\n", e.Path, oneLine(e.Summary))
		}
		return b.String(), nil
	case SectionContext:
		return ContextText(rec.Report.Context), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, sectionID)
	}
}

// ContextText renders entries as reusable prompt context, one
// "path [kind]: summary" line each.
func ContextText(entries []t.ContextEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s [%s]: %s\n", e.Path, e.Kind, oneLine(e.Summary))
	}
	return b.String()
}

// overview falls back to the stored root summary when the call fails.
func (s *Service) overview(ctx context.Context, rec t.RunRecord) string {
	root, _ := rec.Entry(t.RootPath)
	stored := root.Summary
	if stored == "" {
		stored = rec.Report.Overview
	}
	var top []summarize.ChildSummary
	for _, e := range rec.Report.Context {
		if e.Path != t.RootPath && !strings.Contains(e.Path, "/") {
			top = append(top, summarize.ChildSummary{Name: e.Name, Kind: e.Kind, Summary: e.Summary})
		}
	}
	if len(top) == 0 {
		return stored
	}
	text, err := s.engine.Overview(ctx, stored, top)
	if err != nil {
		s.log.Printf("pipeline: overview for run=%s fell back to stored summary: %v", rec.ID, err)
		return stored
	}
	return text
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
