package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmclient "dirsight/internal/llm/client"
)

// scripted returns the queued errors in order, then succeeds.
type scripted struct {
	mu    sync.Mutex
	errs  []error
	calls int
	times []time.Time
}

func (s *scripted) Name() string                { return "scripted" }
func (s *scripted) Close() error                { return nil }
func (s *scripted) CountTokens(text string) int { return len(text) }
func (s *scripted) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.times = append(s.times, time.Now())
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	return json.RawMessage(`{"summary":"ok"}`), nil
}

func TestWrap_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next llmclient.LLMClient) llmclient.LLMClient {
			order = append(order, name)
			return next
		}
	}
	Wrap(&scripted{}, mk("A"), mk("B"), nil)
	assert.Equal(t, []string{"B", "A"}, order)
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	s := &scripted{errs: []error{errors.New("503"), errors.New("503")}}
	cli := Wrap(s, Retry(3, time.Millisecond))
	raw, err := cli.GenerateJSON(context.Background(), "p", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok"}`, string(raw))
	assert.Equal(t, 3, s.calls)
}

func TestRetry_PermanentStops(t *testing.T) {
	s := &scripted{errs: []error{llmclient.NewPermanentError(errors.New("bad request"))}}
	cli := Wrap(s, Retry(5, time.Millisecond))
	_, err := cli.GenerateJSON(context.Background(), "p", nil)
	require.Error(t, err)
	assert.True(t, llmclient.IsPermanent(err))
	assert.Equal(t, 1, s.calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	s := &scripted{errs: []error{boom, boom, boom}}
	cli := Wrap(s, Retry(2, time.Millisecond))
	_, err := cli.GenerateJSON(context.Background(), "p", nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, s.calls)
}

func TestRetry_CanceledContext(t *testing.T) {
	s := &scripted{errs: []error{errors.New("x"), errors.New("x")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cli := Wrap(s, Retry(5, time.Hour))
	_, err := cli.GenerateJSON(ctx, "p", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, s.calls)
}

func TestRateLimit_Spacing(t *testing.T) {
	s := &scripted{}
	cli := Wrap(s, RateLimit(10, 1))
	t.Cleanup(func() { _ = cli.Close() })
	for i := 0; i < 3; i++ {
		_, err := cli.GenerateJSON(context.Background(), "p", nil)
		require.NoError(t, err)
	}
	require.Len(t, s.times, 3)
	assert.GreaterOrEqual(t, s.times[2].Sub(s.times[0]), 150*time.Millisecond)
}

func TestRateLimit_Disabled(t *testing.T) {
	cli := Wrap(&scripted{}, RateLimit(0, 0))
	_, err := cli.GenerateJSON(context.Background(), "p", nil)
	assert.NoError(t, err)
	assert.NoError(t, cli.Close())
}

type recHook struct{ before, after []string }

func (h *recHook) Before(ctx context.Context, phase, prompt string, input any) {
	h.before = append(h.before, phase)
}
func (h *recHook) After(ctx context.Context, phase string, raw json.RawMessage, err error) {
	h.after = append(h.after, phase)
}

func TestLoggingAndHooks(t *testing.T) {
	var buf bytes.Buffer
	s := &scripted{errs: []error{errors.New("down")}}
	cli := Wrap(s, WithLogging(log.New(&buf, "", 0)), WithHooks())

	h := &recHook{}
	ctx := WithPhase(WithHook(context.Background(), h), "file")
	_, err := cli.GenerateJSON(ctx, "prompt", map[string]string{"path": "a"})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "LLM request (file)")
	assert.Contains(t, buf.String(), "LLM error (file)")
	assert.Equal(t, []string{"file"}, h.before)
	assert.Equal(t, []string{"file"}, h.after)

	assert.Equal(t, "unknown", PhaseFrom(context.Background()))
	assert.Nil(t, HookFrom(context.Background()))
}
