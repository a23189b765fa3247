package report

import (
	"fmt"
	"strings"

	t "dirsight/internal/types"
)

// Markdown renders a stored run for reading.
func Markdown(rec t.RunRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rec.Root)
	fmt.Fprintf(&b, "- run: `%s`\n", rec.ID)
	if rec.Model != "" {
		fmt.Fprintf(&b, "- model: `%s`\n", rec.Model)
	}
	if !rec.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "- updated: %s\n", rec.UpdatedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	if len(rec.Ignore) > 0 {
		fmt.Fprintf(&b, "- ignored: %s\n", strings.Join(rec.Ignore, ", "))
	}

	b.WriteString("\n## Overview\n\n")
	b.WriteString(strings.TrimSpace(rec.Report.Overview))
	b.WriteString("\n\n## Tree\n\n```\n")
	b.WriteString(rec.Report.TreeText)
	if !strings.HasSuffix(rec.Report.TreeText, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")

	dirs, files := Split(rec.Report.Context)
	writeEntries(&b, "Directories", dirs)
	writeEntries(&b, "Files", files)
	return b.String()
}

// Split partitions entries by kind, keeping their order.
func Split(entries []t.ContextEntry) (dirs, files []t.ContextEntry) {
	for _, e := range entries {
		if e.Kind == t.KindDirectory {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	return dirs, files
}

func writeEntries(b *strings.Builder, title string, entries []t.ContextEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, e := range entries {
		fmt.Fprintf(b, "- `%s`: %s\n", e.Path, strings.Join(strings.Fields(e.Summary), " "))
	}
}
