package summarize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	t "dirsight/internal/types"
)

const (
	// DefaultMaxChildrenChars caps the children block of a directory prompt.
	DefaultMaxChildrenChars = 8000
	// maxChildSummaryRunes caps each child line's summary.
	maxChildSummaryRunes = 300
)

// ChildSummary is the finished summary of one immediate child.
type ChildSummary struct {
	Name    string
	Kind    t.Kind
	Summary string
}

// ChildrenOf collects the finished summaries of n's children in order.
func ChildrenOf(n *t.Node) []ChildSummary {
	out := make([]ChildSummary, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, ChildSummary{Name: c.Name, Kind: c.Kind, Summary: c.Summary})
	}
	return out
}

// BuildChildrenBlock renders one "- [FILE|FOLDER] name: summary" line per
// child. The block never exceeds limit bytes plus the truncation marker;
// limit <= 0 uses DefaultMaxChildrenChars.
func BuildChildrenBlock(children []ChildSummary, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxChildrenChars
	}
	var b strings.Builder
	for i, c := range children {
		tag := "FILE"
		if c.Kind == t.KindDirectory {
			tag = "FOLDER"
		}
		line := fmt.Sprintf("- [%s] %s: %s", tag, c.Name, shortSummary(c.Summary))
		sep := 0
		if i > 0 {
			sep = 1
		}
		if b.Len()+sep+len(line) > limit {
			if b.Len() == 0 {
				// a single oversized line is cut rather than dropped
				line = cutBytes(line, limit)
				b.WriteString(line)
				i++
			}
			if rest := len(children) - i; rest > 0 {
				fmt.Fprintf(&b, "\n... (truncated, %d more entries)", rest)
			}
			return b.String()
		}
		if sep == 1 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

// shortSummary collapses s to one line of at most maxChildSummaryRunes runes.
func shortSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "(no summary)"
	}
	if utf8.RuneCountInString(s) <= maxChildSummaryRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxChildSummaryRunes-3]) + "..."
}

// cutBytes shortens s to at most n bytes on a rune boundary.
func cutBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
