package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"dirsight/internal/extract"
	"dirsight/internal/llm"
	llmclient "dirsight/internal/llm/client"
	t "dirsight/internal/types"
)

const (
	DefaultConcurrency = 4
	DefaultCallTimeout = 120 * time.Second

	// EmptyFolderSummary is assigned to directories with no remaining children.
	EmptyFolderSummary = "empty folder"
	// EmptyRootSummary is assigned to a root with no remaining children.
	EmptyRootSummary = "empty or entirely ignored"
)

var errEmptySummary = errors.New("empty summary")

// Fallback renders the placeholder summary of a node whose call failed.
func Fallback(cause error) string {
	return fmt.Sprintf("[summary unavailable: %v]", cause)
}

// Options configures an Engine.
type Options struct {
	// Concurrency is the number of in-flight external calls allowed across
	// everything the engine runs (<=0 uses DefaultConcurrency).
	Concurrency int
	// CallTimeout bounds each external call (<=0 uses DefaultCallTimeout).
	CallTimeout time.Duration
	// MaxChildrenChars caps the children block of directory prompts.
	MaxChildrenChars int
	Logger           *log.Logger
}

// Engine summarizes node trees bottom-up. All work on one Engine shares a
// single pool of Concurrency call slots.
type Engine struct {
	llm       llmclient.LLMClient
	extractor extract.Extractor
	pool      *semaphore.Weighted
	timeout   time.Duration
	maxBlock  int
	log       *log.Logger
}

func New(client llmclient.LLMClient, extractor extract.Extractor, opts Options) *Engine {
	n := opts.Concurrency
	if n <= 0 {
		n = DefaultConcurrency
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	maxBlock := opts.MaxChildrenChars
	if maxBlock <= 0 {
		maxBlock = DefaultMaxChildrenChars
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if extractor == nil {
		extractor = extract.New(0)
	}
	return &Engine{
		llm:       client,
		extractor: extractor,
		pool:      semaphore.NewWeighted(int64(n)),
		timeout:   timeout,
		maxBlock:  maxBlock,
		log:       logger,
	}
}

// run holds per-call counters.
type run struct {
	e         *Engine
	nodes     atomic.Int64
	fallbacks atomic.Int64
}

// Run returns a summarized copy of root; the input skeleton is left
// untouched. root may be any subtree of a walk; only the walk root itself
// gets the empty-root sentinel. Node failures never fail the run: they become fallback
// summaries. When ctx ends early, unfinished nodes fold to fallback text and
// Run returns the partial tree together with ctx.Err().
func (e *Engine) Run(ctx context.Context, root *t.Node) (*t.Node, error) {
	if root == nil {
		return nil, errors.New("summarize: nil root")
	}
	start := time.Now()
	r := &run{e: e}
	out := r.visit(ctx, root, root.Path == t.RootPath)
	e.log.Printf("summarize: run done root=%s nodes=%d fallbacks=%d elapsed=%s",
		root.Path, r.nodes.Load(), r.fallbacks.Load(), time.Since(start).Round(time.Millisecond))
	return out, ctx.Err()
}

// SummarizeFile summarizes a single file node through the shared pool.
func (e *Engine) SummarizeFile(ctx context.Context, n *t.Node) (*t.Node, error) {
	if n == nil || n.Kind != t.KindFile {
		return nil, errors.New("summarize: not a file node")
	}
	r := &run{e: e}
	return r.visit(ctx, n, false), ctx.Err()
}

// Overview asks for a tree-level narrative from stored summaries. Unlike
// node summaries, a failure is returned to the caller.
func (e *Engine) Overview(ctx context.Context, rootSummary string, top []ChildSummary) (string, error) {
	input := map[string]any{
		"path":         t.RootPath,
		"root_summary": rootSummary,
		"children":     BuildChildrenBlock(top, e.maxBlock),
	}
	return e.call(ctx, "overview", overviewPrompt, input)
}

func (r *run) visit(ctx context.Context, n *t.Node, isRoot bool) *t.Node {
	out := n.ShallowCopy()
	r.nodes.Add(1)
	if n.Kind != t.KindDirectory {
		r.summarizeFile(ctx, out)
		return out
	}

	if len(n.Children) == 0 {
		out.Summary = EmptyFolderSummary
		if isRoot {
			out.Summary = EmptyRootSummary
		}
		return out
	}

	kids := make([]*t.Node, len(n.Children))
	var g errgroup.Group
	for i, c := range n.Children {
		g.Go(func() error {
			kids[i] = r.visit(ctx, c, false)
			return nil
		})
	}
	_ = g.Wait()
	out.Children = kids

	input := map[string]any{
		"path":     out.Path,
		"children": BuildChildrenBlock(ChildrenOf(out), r.e.maxBlock),
	}
	summary, err := r.e.call(ctx, "directory", dirPrompt, input)
	r.settle(out, summary, err)
	return out
}

func (r *run) summarizeFile(ctx context.Context, n *t.Node) {
	if err := ctx.Err(); err != nil {
		r.settle(n, "", err)
		return
	}
	ex := r.e.extractor.Extract(ctx, n)
	if ex.Failed() {
		n.Summary = ex.Text
		n.Fallback = true
		r.fallbacks.Add(1)
		r.e.log.Printf("summarize: extraction failed path=%s text=%q", n.Path, ex.Text)
		return
	}
	input := map[string]any{
		"path":    n.Path,
		"content": ex.Text,
	}
	summary, err := r.e.call(ctx, "file", filePrompt, input)
	r.settle(n, summary, err)
}

func (r *run) settle(n *t.Node, summary string, err error) {
	if err != nil {
		n.Summary = Fallback(err)
		n.Fallback = true
		r.fallbacks.Add(1)
		r.e.log.Printf("summarize: fallback path=%s cause=%v", n.Path, err)
		return
	}
	n.Summary = summary
}

// call holds one pool slot for the duration of a single external request.
func (e *Engine) call(ctx context.Context, phase, prompt string, input any) (string, error) {
	if e.llm == nil {
		return "", errors.New("no text-generation client")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := e.pool.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.pool.Release(1)

	cctx, cancel := context.WithTimeout(llm.WithPhase(ctx, phase), e.timeout)
	defer cancel()
	raw, err := e.llm.GenerateJSON(cctx, prompt, input)
	if err != nil {
		return "", err
	}
	return parseSummary(raw)
}

func parseSummary(raw json.RawMessage) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: %v", llmclient.ErrInvalidJSON, err)
	}
	s := strings.TrimSpace(out.Summary)
	if s == "" {
		return "", errEmptySummary
	}
	return s, nil
}
