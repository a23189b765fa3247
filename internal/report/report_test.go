package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirsight/internal/types"
)

func sample() *types.Node {
	return &types.Node{Path: ".", Name: "proj", Kind: types.KindDirectory, Summary: "root sum", Children: []*types.Node{
		{Path: "docs", Name: "docs", Kind: types.KindDirectory, Summary: "docs sum", Children: []*types.Node{
			{Path: "docs/readme.md", Name: "readme.md", Kind: types.KindFile, Summary: "readme sum"},
		}},
		{Path: "src", Name: "src", Kind: types.KindDirectory, Summary: "src sum", Children: []*types.Node{
			{Path: "src/lib", Name: "lib", Kind: types.KindDirectory, Summary: "empty folder"},
			{Path: "src/main.py", Name: "main.py", Kind: types.KindFile, Summary: "main sum"},
		}},
		{Path: "LICENSE", Name: "LICENSE", Kind: types.KindFile, Summary: "license sum"},
	}}
}

func TestAssemble(t *testing.T) {
	rep := Assemble(sample())
	assert.Equal(t, "root sum", rep.Overview)
	assert.Equal(t, "+ docs/\n  - readme.md\n+ src/\n  + lib/\n  - main.py\n- LICENSE\n", rep.TreeText)
	require.Len(t, rep.Context, 7)
	var paths []string
	for _, e := range rep.Context {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{".", "docs", "docs/readme.md", "src", "src/lib", "src/main.py", "LICENSE"}, paths)
	assert.Equal(t, types.ContextEntry{Path: "src/main.py", Name: "main.py", Kind: types.KindFile, Summary: "main sum"}, rep.Context[5])
}

func TestRenderEntries_MatchesRenderTree(t *testing.T) {
	root := sample()
	assert.Equal(t, RenderTree(root), RenderEntries(Flatten(root)))
}

func TestRenderTree_ShapeOnly(t *testing.T) {
	a := sample()
	b := sample()
	var blank func(*types.Node)
	blank = func(n *types.Node) {
		n.Summary = "[summary unavailable: boom]"
		n.Fallback = true
		for _, c := range n.Children {
			blank(c)
		}
	}
	blank(b)
	assert.Equal(t, RenderTree(a), RenderTree(b))
	assert.Empty(t, RenderTree(&types.Node{Path: ".", Kind: types.KindDirectory}))
}

func TestAssemble_EmptyRoot(t *testing.T) {
	rep := Assemble(&types.Node{Path: ".", Name: "x", Kind: types.KindDirectory, Summary: "empty or entirely ignored"})
	require.Len(t, rep.Context, 1)
	assert.Equal(t, "empty or entirely ignored", rep.Overview)
	assert.Empty(t, rep.TreeText)
}

func TestMerge_ReplacesSubtreeOnly(t *testing.T) {
	stored := Flatten(sample())
	before := append([]types.ContextEntry(nil), stored...)

	fresh := []types.ContextEntry{
		{Path: "src", Name: "src", Kind: types.KindDirectory, Summary: "new src"},
		{Path: "src/main.py", Name: "main.py", Kind: types.KindFile, Summary: "new main"},
		{Path: "src/util.py", Name: "util.py", Kind: types.KindFile, Summary: "new util"},
	}
	got := Merge(stored, fresh)
	assert.Equal(t, before, stored, "input must not change")

	var paths []string
	for _, e := range got {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{".", "docs", "docs/readme.md", "src", "src/main.py", "src/util.py", "LICENSE"}, paths)
	for _, e := range got {
		if e.Path == "src" || strings.HasPrefix(e.Path, "src/") {
			continue
		}
		orig, ok := find(before, e.Path)
		require.True(t, ok)
		assert.Equal(t, orig, e)
	}
}

func TestMerge_NewPathAndFile(t *testing.T) {
	stored := Flatten(sample())
	got := Merge(stored, []types.ContextEntry{{Path: "docs/new.md", Name: "new.md", Kind: types.KindFile, Summary: "n"}})
	require.Len(t, got, len(stored)+1)
	assert.Equal(t, "docs/new.md", got[2].Path)

	got = Merge(stored, []types.ContextEntry{{Path: "LICENSE", Name: "LICENSE", Kind: types.KindFile, Summary: "changed"}})
	require.Len(t, got, len(stored))
	assert.Equal(t, "changed", got[6].Summary)
	assert.Equal(t, stored[:6], got[:6])
}

func TestMerge_NewPathsFollowWalkOrder(t *testing.T) {
	stored := []types.ContextEntry{
		{Path: ".", Name: "proj", Kind: types.KindDirectory},
		{Path: "src", Name: "src", Kind: types.KindDirectory},
		{Path: "src/main.py", Name: "main.py", Kind: types.KindFile},
		{Path: "z.txt", Name: "z.txt", Kind: types.KindFile},
	}
	pathsOf := func(entries []types.ContextEntry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.Path)
		}
		return out
	}

	got := Merge(stored, []types.ContextEntry{{Path: "a.txt", Name: "a.txt", Kind: types.KindFile}})
	assert.Equal(t, []string{".", "src", "src/main.py", "a.txt", "z.txt"}, pathsOf(got))
	assert.Equal(t, "+ src/\n  - main.py\n- a.txt\n- z.txt\n", RenderEntries(got))

	got = Merge(stored, []types.ContextEntry{
		{Path: "Assets", Name: "Assets", Kind: types.KindDirectory},
		{Path: "Assets/logo.png", Name: "logo.png", Kind: types.KindFile},
	})
	assert.Equal(t, []string{".", "Assets", "Assets/logo.png", "src", "src/main.py", "z.txt"}, pathsOf(got))

	got = Merge(stored, []types.ContextEntry{{Path: "src/gen/out.py", Name: "out.py", Kind: types.KindFile}})
	assert.Equal(t, []string{".", "src", "src/gen/out.py", "src/main.py", "z.txt"}, pathsOf(got))

	got = Merge(stored, []types.ContextEntry{{Path: "src/zz.py", Name: "zz.py", Kind: types.KindFile}})
	assert.Equal(t, []string{".", "src", "src/main.py", "src/zz.py", "z.txt"}, pathsOf(got))
}

func find(entries []types.ContextEntry, p string) (types.ContextEntry, bool) {
	for _, e := range entries {
		if e.Path == p {
			return e, true
		}
	}
	return types.ContextEntry{}, false
}

func TestMarkdown(t *testing.T) {
	rec := types.RunRecord{
		ID:        "run-1",
		Root:      "/tmp/proj",
		Ignore:    []string{"vendor"},
		Model:     "fake",
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Report:    Assemble(sample()),
	}
	md := Markdown(rec)
	assert.Contains(t, md, "# /tmp/proj\n")
	assert.Contains(t, md, "- ignored: vendor\n")
	assert.Contains(t, md, "## Overview\n\nroot sum\n")
	assert.Contains(t, md, "```\n+ docs/\n")
	assert.Contains(t, md, "## Directories\n\n- `.`: root sum\n")
	assert.Contains(t, md, "- `src/main.py`: main sum\n")
}
