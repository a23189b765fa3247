package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dirsight/internal/config"
	"dirsight/internal/extract"
	"dirsight/internal/llm"
	llmclient "dirsight/internal/llm/client"
	"dirsight/internal/pipeline"
	"dirsight/internal/store"
	"dirsight/internal/summarize"
)

var (
	flagStoreDir    string
	flagProvider    string
	flagModel       string
	flagConcurrency int
	flagJSON        bool
	flagQuiet       bool
	flagTrace       string
)

var rootCmd = &cobra.Command{
	Use:           "dirsight",
	Short:         "Summarize directory trees bottom-up with a language model",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagTrace != "" {
			cmd.SetContext(llm.WithHook(cmd.Context(), &llm.PromptSaver{Dir: flagTrace}))
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagStoreDir, "store-dir", "", "directory for the disk store (overrides STORE_DIR)")
	pf.StringVar(&flagProvider, "provider", "", "gemini, openai, groq or fake (overrides LLM_PROVIDER)")
	pf.StringVar(&flagModel, "model", "", "model id (overrides LLM_MODEL)")
	pf.IntVarP(&flagConcurrency, "concurrency", "c", 0, "max in-flight model calls (overrides DIRSIGHT_CONCURRENCY)")
	pf.BoolVar(&flagJSON, "json", false, "print JSON instead of text")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress progress logs")
	pf.StringVar(&flagTrace, "trace", "", "append every prompt and response to <dir>/<phase>.txt")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "dirsight:", err)
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	svc   *pipeline.Service
	close func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagStoreDir != "" {
		cfg.Store.Backend = "disk"
		cfg.Store.Dir = flagStoreDir
	}
	if flagProvider != "" {
		cfg.LLM.Client.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.LLM.Client.Model = flagModel
	}
	if flagConcurrency > 0 {
		cfg.Engine.Concurrency = flagConcurrency
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if flagQuiet {
		logger.SetOutput(io.Discard)
	}

	base, err := llmclient.New(ctx, cfg.LLM.Client)
	if err != nil {
		return nil, err
	}
	client := llm.Wrap(base,
		llm.WithLogging(logger),
		llm.WithHooks(),
		llm.Retry(cfg.LLM.Retries, 0),
		llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst),
	)

	st, closeStore, err := store.Open(cfg.Store)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	engine := summarize.New(client, extract.New(cfg.Engine.MaxFileChars), summarize.Options{
		Concurrency:      cfg.Engine.Concurrency,
		CallTimeout:      cfg.Engine.CallTimeout,
		MaxChildrenChars: cfg.Engine.MaxChildrenChars,
		Logger:           logger,
	})
	svc := pipeline.New(engine, st, pipeline.Options{
		Model:    client.Name(),
		MaxDepth: cfg.Engine.MaxDepth,
		Logger:   logger,
	})
	return &app{
		svc: svc,
		close: func() {
			_ = client.Close()
			if cs, ok := st.(*store.CachedStore); ok {
				m := cs.Metrics()
				logger.Printf("store: cache blob hits=%d misses=%d list hits=%d misses=%d origin reads=%d writes=%d",
					m.BlobHits, m.BlobMisses, m.ListHits, m.ListMisses, m.OriginReads, m.OriginWrites)
			}
			_ = closeStore()
		},
	}, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
