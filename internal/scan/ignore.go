package scan

import (
	"path"
	"sort"
	"strings"
)

// IgnoreSet holds caller-supplied relative paths excluded from a walk.
// A path matches when it equals an entry or lives under entry + "/".
type IgnoreSet struct {
	entries []string
}

// NewIgnoreSet normalizes and deduplicates paths. Empty entries and entries
// naming the root are dropped.
func NewIgnoreSet(paths ...string) IgnoreSet {
	seen := make(map[string]struct{}, len(paths))
	var out []string
	for _, p := range paths {
		p = NormalizePath(p)
		if p == "." {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return IgnoreSet{entries: out}
}

// Match reports whether rel is excluded by the set.
func (s IgnoreSet) Match(rel string) bool {
	if len(s.entries) == 0 {
		return false
	}
	rel = NormalizePath(rel)
	for _, e := range s.entries {
		if rel == e || strings.HasPrefix(rel, e+"/") {
			return true
		}
	}
	return false
}

// Paths returns the normalized entries in sorted order.
func (s IgnoreSet) Paths() []string {
	return append([]string(nil), s.entries...)
}

func (s IgnoreSet) Len() int { return len(s.entries) }

// NormalizePath converts a user-supplied relative path into the run's
// canonical form: forward slashes, no leading "./" or "/", no trailing "/".
// The root is ".".
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, "/")
	if p == "" {
		return "."
	}
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

// JoinPath appends name to a run-relative directory path.
func JoinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}
