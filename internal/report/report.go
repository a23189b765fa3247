// Package report turns a finished node tree into the durable run report and
// renders stored runs for people.
package report

import (
	"strings"

	"dirsight/internal/scan"
	t "dirsight/internal/types"
)

// Assemble builds the report of a finished tree.
func Assemble(root *t.Node) t.Report {
	if root == nil {
		return t.Report{Context: []t.ContextEntry{}}
	}
	return t.Report{
		TreeText: RenderTree(root),
		Overview: root.Summary,
		Context:  Flatten(root),
	}
}

// RenderTree draws the tree below root, two spaces per level, "+ name/" for
// directories and "- name" for files. The root line itself is omitted.
// Only the tree shape is used.
func RenderTree(root *t.Node) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	var draw func(n *t.Node, depth int)
	draw = func(n *t.Node, depth int) {
		for _, c := range n.Children {
			b.WriteString(strings.Repeat("  ", depth))
			if c.IsDir() {
				b.WriteString("+ " + c.Name + "/\n")
				draw(c, depth+1)
				continue
			}
			b.WriteString("- " + c.Name + "\n")
		}
	}
	if root.IsDir() {
		draw(root, 0)
	} else {
		b.WriteString("- " + root.Name + "\n")
	}
	return b.String()
}

// RenderEntries draws the same tree as RenderTree from a pre-order context,
// so a merged context can be re-rendered without walking the filesystem.
func RenderEntries(entries []t.ContextEntry) string {
	var b strings.Builder
	for _, e := range entries {
		if e.Path == t.RootPath {
			continue
		}
		b.WriteString(strings.Repeat("  ", strings.Count(e.Path, "/")))
		if e.Kind == t.KindDirectory {
			b.WriteString("+ " + e.Name + "/\n")
		} else {
			b.WriteString("- " + e.Name + "\n")
		}
	}
	return b.String()
}

// Flatten lists every node of the tree in pre-order.
func Flatten(root *t.Node) []t.ContextEntry {
	out := make([]t.ContextEntry, 0, root.Count())
	var visit func(n *t.Node)
	visit = func(n *t.Node) {
		out = append(out, t.ContextEntry{Path: n.Path, Name: n.Name, Kind: n.Kind, Summary: n.Summary})
		for _, c := range n.Children {
			visit(c)
		}
	}
	if root != nil {
		visit(root)
	}
	return out
}

// Merge splices a regenerated subtree into a stored context. The entries of
// result replace the stored entry at result[0].Path and all of its
// descendants, in place; every other entry is kept unchanged and in order.
// A path not present in ctx is inserted under its nearest stored ancestor
// at the position a fresh walk would give it.
func Merge(ctx []t.ContextEntry, result []t.ContextEntry) []t.ContextEntry {
	if len(result) == 0 {
		return append([]t.ContextEntry(nil), ctx...)
	}
	target := result[0].Path
	out := make([]t.ContextEntry, 0, len(ctx)+len(result))
	inserted := false
	for i := 0; i < len(ctx); i++ {
		if covers(target, ctx[i].Path) {
			if !inserted {
				out = append(out, result...)
				inserted = true
			}
			continue
		}
		out = append(out, ctx[i])
	}
	if inserted {
		return out
	}
	at := insertionPoint(out, target, result[0].Kind)
	merged := make([]t.ContextEntry, 0, len(out)+len(result))
	merged = append(merged, out[:at]...)
	merged = append(merged, result...)
	return append(merged, out[at:]...)
}

// insertionPoint finds where a path absent from entries belongs: under its
// closest stored ancestor, among that ancestor's children in walk order
// (directories first, then files, each by name).
func insertionPoint(entries []t.ContextEntry, target string, kind t.Kind) int {
	anc := parentOf(target)
	end := subtreeEnd(entries, anc)
	for end < 0 && anc != t.RootPath {
		anc = parentOf(anc)
		end = subtreeEnd(entries, anc)
	}
	if end < 0 {
		return len(entries)
	}
	// the sibling key is the first segment of target below anc
	name := strings.TrimPrefix(target, anc+"/")
	if anc == t.RootPath {
		name = target
	}
	isDir := kind == t.KindDirectory
	if i := strings.Index(name, "/"); i >= 0 {
		name, isDir = name[:i], true
	}
	for i, e := range entries[:end] {
		if e.Path == anc || parentOf(e.Path) != anc {
			continue
		}
		if walkBefore(name, isDir, e.Name, e.Kind == t.KindDirectory) {
			return i
		}
	}
	return end
}

func walkBefore(name string, isDir bool, other string, otherDir bool) bool {
	if isDir != otherDir {
		return isDir
	}
	return scan.NameLess(name, other)
}

// covers reports whether p is target or below it.
func covers(target, p string) bool {
	if target == t.RootPath {
		return true
	}
	return p == target || strings.HasPrefix(p, target+"/")
}

func parentOf(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return t.RootPath
	}
	return p[:i]
}

// subtreeEnd returns the index just past the entries at or below p, or -1
// when p is absent.
func subtreeEnd(entries []t.ContextEntry, p string) int {
	start := -1
	for i, e := range entries {
		if e.Path == p {
			start = i
			break
		}
	}
	if start < 0 {
		return -1
	}
	end := start + 1
	for end < len(entries) && covers(p, entries[end].Path) {
		end++
	}
	return end
}
