// aitrans is an AI-assisted document translation tool: extract segments from
// structured documents, translate them in token-bounded batches through
// an LLM backend, and write the results back into the original format.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	dbsqlite "github.com/Jjjmaes/AIT-sub004/internal/adapters/db/sqlite"
	extreg "github.com/Jjjmaes/AIT-sub004/internal/adapters/extractor/registry"
	xliffext "github.com/Jjjmaes/AIT-sub004/internal/adapters/extractor/xliff"
	llmfactory "github.com/Jjjmaes/AIT-sub004/internal/adapters/llm/factory"
	"github.com/Jjjmaes/AIT-sub004/internal/adapters/token"
	"github.com/Jjjmaes/AIT-sub004/internal/adapters/writer/plaintext"
	wreg "github.com/Jjjmaes/AIT-sub004/internal/adapters/writer/registry"
	xliffwr "github.com/Jjjmaes/AIT-sub004/internal/adapters/writer/xliff"
	"github.com/Jjjmaes/AIT-sub004/internal/config"
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
	"github.com/Jjjmaes/AIT-sub004/internal/pkg/logger"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
	"github.com/Jjjmaes/AIT-sub004/internal/usecase/exporter"
	"github.com/Jjjmaes/AIT-sub004/internal/usecase/importer"
	"github.com/Jjjmaes/AIT-sub004/internal/usecase/runner"
	"github.com/Jjjmaes/AIT-sub004/internal/usecase/translator"
)

var configPath string

// app bundles the wired services behind the CLI commands.
type app struct {
	cfg      *config.Config
	files    ports.FileRepository
	segments ports.SegmentRepository
	factory  *llmfactory.Factory
	importer *importer.Service
	exporter *exporter.Service
	trans    *translator.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := dbsqlite.Init(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	files := dbsqlite.NewFileRepo(db)
	segments := dbsqlite.NewSegmentRepo(db)

	extractors := extreg.New()
	extractors.Register(xliffext.New())

	writers := wreg.New()
	writers.Register(xliffwr.New())
	writers.Register(plaintext.New())

	factory := llmfactory.New()
	trans := translator.New(translator.Deps{
		Files:     files,
		Segments:  segments,
		Estimator: token.New(),
		Adapters:  factory,
	}, cfg.MaxInputTokens)

	return &app{
		cfg:      cfg,
		files:    files,
		segments: segments,
		factory:  factory,
		importer: importer.New(files, segments, extractors),
		exporter: exporter.New(files, segments, writers),
		trans:    trans,
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aitrans",
		Short:         "AI-assisted document translation pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	root.AddCommand(
		newImportCmd(),
		newTranslateCmd(),
		newTranslateSeqCmd(),
		newExportCmd(),
		newStatusCmd(),
		newModelsCmd(),
		newValidateCmd(),
	)
	return root
}

func newImportCmd() *cobra.Command {
	var format, srcLang, tgtLang string
	var memoq bool
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Extract segments from a document and persist them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			res, err := a.importer.Import(cmd.Context(), importer.ImportArgs{
				Path:       args[0],
				Format:     format,
				SourceLang: srcLang,
				TargetLang: tgtLang,
				MemoQ:      memoq,
			})
			if err != nil {
				return err
			}
			fmt.Printf("imported file %d: %d segments\n", res.FileID, res.Segments)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "xliff", "Document format")
	cmd.Flags().StringVar(&srcLang, "source-lang", "", "Source language (defaults to document metadata)")
	cmd.Flags().StringVar(&tgtLang, "target-lang", "", "Target language (defaults to document metadata)")
	cmd.Flags().BoolVar(&memoq, "memoq", false, "Treat the file as MemoQ-dialect XLIFF")
	return cmd
}

func newTranslateCmd() *cobra.Command {
	var provider, model, srcLang, tgtLang string
	var maxTokens int
	var temperature float64
	cmd := &cobra.Command{
		Use:   "translate <file-id>",
		Short: "Translate pending segments in concurrent token-bounded batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id %q", args[0])
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			if provider == "" {
				provider = a.cfg.DefaultProvider
			}
			res, err := a.trans.TranslateFileSegments(cmd.Context(), fileID, translator.Options{
				Provider:       provider,
				Model:          model,
				SourceLang:     srcLang,
				TargetLang:     tgtLang,
				Temperature:    temperature,
				MaxInputTokens: maxTokens,
			})
			if err != nil {
				return err
			}
			fmt.Printf("translated %d segments, %d failed\n", res.UpdatedCount, len(res.FailedSegments))
			for _, f := range res.FailedSegments {
				fmt.Printf("  segment %d: %s\n", f.Index, f.Reason)
			}
			if !res.Success {
				return fmt.Errorf("translation finished with %d failed segments", len(res.FailedSegments))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider (defaults to config)")
	cmd.Flags().StringVar(&model, "model", "", "Model override")
	cmd.Flags().StringVar(&srcLang, "source-lang", "", "Source language override")
	cmd.Flags().StringVar(&tgtLang, "target-lang", "", "Target language override")
	cmd.Flags().IntVar(&maxTokens, "max-input-tokens", 0, "Token budget per batch (defaults to config)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.3, "Sampling temperature")
	return cmd
}

func newTranslateSeqCmd() *cobra.Command {
	var provider, model, srcLang, tgtLang string
	var attempts int
	cmd := &cobra.Command{
		Use:   "translate-seq <file-id>",
		Short: "Translate pending segments one at a time with cancellation support",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id %q", args[0])
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			if provider == "" {
				provider = a.cfg.DefaultProvider
			}
			return a.runSequential(cmd.Context(), fileID, provider, model, srcLang, tgtLang, attempts)
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider (defaults to config)")
	cmd.Flags().StringVar(&model, "model", "", "Model override")
	cmd.Flags().StringVar(&srcLang, "source-lang", "", "Source language override")
	cmd.Flags().StringVar(&tgtLang, "target-lang", "", "Target language override")
	cmd.Flags().IntVar(&attempts, "attempts", 3, "Attempts per segment before accepting failure")
	return cmd
}

func (a *app) runSequential(ctx context.Context, fileID int64, provider, model, srcLang, tgtLang string, attempts int) error {
	adapter, err := a.factory.Adapter(provider, nil)
	if err != nil {
		return err
	}
	file, err := a.files.Get(ctx, fileID)
	if err != nil {
		return fmt.Errorf("load file %d: %w", fileID, err)
	}
	if srcLang == "" {
		srcLang = file.SourceLang
	}
	if tgtLang == "" {
		tgtLang = file.TargetLang
	}
	if tgtLang == "" {
		return fmt.Errorf("target language is required")
	}
	pending, err := a.segments.ListByFileStatus(ctx, fileID,
		[]domain.SegmentStatus{domain.SegmentPending, domain.SegmentTranslationFailed})
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("nothing to translate")
		return nil
	}
	texts := make([]string, len(pending))
	for i, s := range pending {
		texts[i] = s.SourceText
	}

	run := runner.New(func(ctx context.Context, text string) (ports.SingleResult, error) {
		return adapter.TranslateSingle(ctx, ports.SingleRequest{
			Text:       text,
			SourceLang: srcLang,
			TargetLang: tgtLang,
			Model:      model,
		})
	}, attempts)
	run.Initialize(texts)

	// SIGINT cancels cooperatively between segment calls.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		<-sig
		run.Cancel()
	}()

	runErr := run.Translate(ctx)

	// Persist whatever completed, even when the run halted on a failure.
	results := run.Results()
	tasks := run.Tasks()
	for i, seg := range pending {
		switch tasks[i].Status {
		case domain.TaskCompleted:
			seg.Translation = results[i]
			seg.TranslatedLength = len(results[i])
			seg.Status = domain.SegmentTranslated
			seg.Error = ""
			if err := a.segments.Update(ctx, seg); err != nil {
				fmt.Fprintf(os.Stderr, "persist segment %d: %v\n", seg.Index, err)
			}
		case domain.TaskFailed:
			_ = a.segments.UpdateStatus(ctx, seg.ID, domain.SegmentTranslationFailed, tasks[i].Error)
		}
	}

	p := run.Progress()
	fmt.Printf("completed=%d failed=%d status=%s tokens=%d\n",
		p.CompletedSegments, p.FailedSegments, p.Status, run.TotalTokens())
	return runErr
}

func newExportCmd() *cobra.Command {
	var memoq, updateState bool
	cmd := &cobra.Command{
		Use:   "export <file-id> <target-path>",
		Short: "Write translations back into the original document format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id %q", args[0])
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.exporter.Export(cmd.Context(), exporter.ExportArgs{
				FileID:      fileID,
				TargetPath:  args[1],
				MemoQ:       memoq,
				UpdateState: updateState,
			}); err != nil {
				return err
			}
			fmt.Printf("exported file %d to %s\n", fileID, args[1])
			return nil
		},
	}
	cmd.Flags().BoolVar(&memoq, "memoq", false, "Write MemoQ-dialect state attributes")
	cmd.Flags().BoolVar(&updateState, "update-state", true, "Map segment statuses back onto document state attributes")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <file-id>",
		Short: "Show a file's aggregate translation state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id %q", args[0])
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			counts, err := a.segments.CountByFileStatus(cmd.Context(), fileID)
			if err != nil {
				return err
			}
			fmt.Printf("file %d: %s\n", fileID, domain.DeriveFileStatus(counts))
			for st, n := range counts {
				fmt.Printf("  %s: %d\n", st, n)
			}
			return nil
		},
	}
}

func newModelsCmd() *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models available from a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if provider == "" {
				provider = a.cfg.DefaultProvider
			}
			adapter, err := a.factory.Adapter(provider, nil)
			if err != nil {
				return err
			}
			models, err := adapter.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range models {
				if m.Description != "" && m.Description != m.Name {
					fmt.Printf("%s\t%s\n", m.Name, m.Description)
					continue
				}
				fmt.Println(m.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider (defaults to config)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a provider's API key and connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if provider == "" {
				provider = a.cfg.DefaultProvider
			}
			adapter, err := a.factory.Adapter(provider, nil)
			if err != nil {
				return err
			}
			if err := adapter.ValidateAPIKey(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("%s: ok\n", provider)
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider (defaults to config)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
