//go:build unix

package scan

import (
	"errors"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkAt_SpecialFilesNotFound(t *testing.T) {
	root := t.TempDir()
	write(t, root, "src/main.py", "print('hi')")
	require.NoError(t, syscall.Mkfifo(filepath.Join(root, "src", "pipe"), 0o644))

	_, err := WalkAt(root, "src/pipe", NewIgnoreSet(), quiet())
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	dir, err := WalkAt(root, "src", NewIgnoreSet(), quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "src/main.py"}, paths(dir))

	whole, err := Walk(root, NewIgnoreSet(), quiet())
	require.NoError(t, err)
	assert.Equal(t, []string{".", "src", "src/main.py"}, paths(whole))
}
