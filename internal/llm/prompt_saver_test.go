package llm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptSaver_WritesPerPhase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "trace")
	saver := &PromptSaver{Dir: dir}
	s := &scripted{errs: []error{errors.New("quota")}}
	cli := Wrap(s, WithHooks())

	ctx := WithPhase(WithHook(context.Background(), saver), "file")
	_, err := cli.GenerateJSON(ctx, "Summarize.", map[string]any{"path": "src/main.py"})
	require.Error(t, err)
	_, err = cli.GenerateJSON(ctx, "Summarize.", map[string]any{"path": "README.md"})
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "file.txt"))
	require.NoError(t, err)
	text := string(b)
	assert.Contains(t, text, "Summarize.\n\n[INPUT JSON]\n")
	assert.Contains(t, text, `"path": "src/main.py"`)
	assert.Contains(t, text, "[RESPONSE]\nERROR: quota\n")
	assert.Contains(t, text, `{"summary":"ok"}`)

	_, err = cli.GenerateJSON(WithHook(context.Background(), saver), "Overview.", nil)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "unknown.txt"))
	assert.NoError(t, err)
}
