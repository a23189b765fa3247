//go:build unix

package extract

import (
	"context"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirsight/internal/types"
)

func TestExtract_SpecialFileIsError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pipe")
	require.NoError(t, syscall.Mkfifo(p, 0o644))

	n := &types.Node{Path: "pipe", Name: "pipe", Kind: types.KindFile, AbsPath: p}
	ex := New(0).Extract(context.Background(), n)
	assert.True(t, ex.Failed())
	assert.Equal(t, "[unreadable file: not a regular file]", ex.Text)
}
