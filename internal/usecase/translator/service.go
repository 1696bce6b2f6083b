// Package translator implements the batched translation path: plan
// token-bounded batches over a snapshot of pending segments, run them
// concurrently against an AI provider, and reconcile results segment by
// segment.
package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/prompt"
	"github.com/Jjjmaes/AIT-sub004/internal/config"
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

// AdapterSource resolves a provider adapter, building a fresh instance
// when an explicit configuration override is given.
type AdapterSource interface {
	Adapter(name string, override *config.AdapterConfig) (ports.Provider, error)
}

type Deps struct {
	Files     ports.FileRepository
	Segments  ports.SegmentRepository
	Estimator ports.TokenEstimator
	Adapters  AdapterSource
}

type Service struct {
	d                     Deps
	defaultMaxInputTokens int
}

func New(d Deps, defaultMaxInputTokens int) *Service {
	return &Service{d: d, defaultMaxInputTokens: defaultMaxInputTokens}
}

type Options struct {
	Provider       string
	Config         *config.AdapterConfig // explicit per-call config; nil uses cached/env adapter
	Model          string
	SourceLang     string // defaults to the file's source language
	TargetLang     string // defaults to the file's target language
	Temperature    float64
	MaxInputTokens int // defaults to the service-wide limit
}

type FailedSegment struct {
	ID     string `json:"id"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type Result struct {
	Success        bool
	UpdatedCount   int
	FailedSegments []FailedSegment
}

// TranslateFileSegments translates every pending or previously failed
// segment of a file. Configuration problems are fatal for the whole call;
// AI and persistence failures are absorbed per segment and recorded on
// the segment entity.
func (s *Service) TranslateFileSegments(ctx context.Context, fileID int64, opts Options) (Result, error) {
	if opts.Provider == "" {
		return Result{}, errors.New("translate: AI provider configuration is required")
	}
	adapter, err := s.d.Adapters.Adapter(opts.Provider, opts.Config)
	if err != nil {
		return Result{}, fmt.Errorf("translate: %w", err)
	}

	file, err := s.d.Files.Get(ctx, fileID)
	if err != nil {
		return Result{}, fmt.Errorf("translate: load file %d: %w", fileID, err)
	}
	srcLang := opts.SourceLang
	if srcLang == "" {
		srcLang = file.SourceLang
	}
	tgtLang := opts.TargetLang
	if tgtLang == "" {
		tgtLang = file.TargetLang
	}
	if tgtLang == "" {
		return Result{}, errors.New("translate: target language is required")
	}

	// Static snapshot: eligible segments are selected once and never
	// re-queried mid-run.
	snapshot, err := s.d.Segments.ListByFileStatus(ctx, fileID,
		[]domain.SegmentStatus{domain.SegmentPending, domain.SegmentTranslationFailed})
	if err != nil {
		return Result{}, fmt.Errorf("translate: load segments: %w", err)
	}
	if len(snapshot) == 0 {
		return Result{Success: true}, nil
	}

	system, err := prompt.BatchSystem(srcLang, tgtLang)
	if err != nil {
		return Result{}, fmt.Errorf("translate: build system prompt: %w", err)
	}

	maxTokens := opts.MaxInputTokens
	if maxTokens <= 0 {
		maxTokens = s.defaultMaxInputTokens
	}
	batches := PlanBatches(snapshot, system, maxTokens, s.d.Estimator, opts.Model)
	slog.Info("planned translation batches",
		"file", fileID, "segments", len(snapshot), "batches", len(batches))

	// Settle-all: every batch runs to completion; one batch's failure
	// never cancels or blocks the others.
	var (
		mu     sync.Mutex
		result Result
	)
	var wg sync.WaitGroup
	for _, b := range batches {
		wg.Add(1)
		go func(b Batch) {
			defer wg.Done()
			updated, failed := s.processBatch(ctx, adapter, system, b, opts)
			mu.Lock()
			result.UpdatedCount += updated
			result.FailedSegments = append(result.FailedSegments, failed...)
			mu.Unlock()
		}(b)
	}
	wg.Wait()

	result.Success = len(result.FailedSegments) == 0
	return result, nil
}

func (s *Service) processBatch(ctx context.Context, adapter ports.Provider, system string, b Batch, opts Options) (int, []FailedSegment) {
	res, err := adapter.ExecuteChatCompletion(ctx, ports.ChatRequest{
		Messages: []ports.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt.EncodeBatch(b.Segments)},
		},
		Model:       opts.Model,
		Temperature: opts.Temperature,
	})
	if err != nil {
		// Adapter-level failure: the whole batch fails, no partial credit.
		return 0, s.failBatch(ctx, b.Segments, err.Error())
	}

	decoded := prompt.DecodeResponse(res.Content)
	now := time.Now().UTC()

	var updated int
	var failed []FailedSegment
	for _, seg := range b.Segments {
		text, ok := decoded[seg.Index]
		if !ok {
			s.demote(ctx, seg, "missing in AI response")
			failed = append(failed, FailedSegment{ID: seg.ID, Index: seg.Index, Reason: "missing in AI response"})
			continue
		}
		seg.Translation = text
		seg.TranslatedLength = len(text)
		seg.Status = domain.SegmentTranslated
		seg.Error = ""
		seg.TransMeta = &domain.TranslationMeta{
			Provider:         adapter.Name(),
			Model:            res.Model,
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
			TotalTokens:      res.Usage.TotalTokens,
			TranslatedAt:     now,
		}
		if perr := s.d.Segments.Update(ctx, seg); perr != nil {
			// Persistence failure demotes only this segment, never the batch.
			reason := fmt.Sprintf("persist translation: %v", perr)
			s.demote(ctx, seg, reason)
			failed = append(failed, FailedSegment{ID: seg.ID, Index: seg.Index, Reason: reason})
			continue
		}
		updated++
	}
	return updated, failed
}

func (s *Service) failBatch(ctx context.Context, segs []*domain.Segment, reason string) []FailedSegment {
	failed := make([]FailedSegment, 0, len(segs))
	for _, seg := range segs {
		s.demote(ctx, seg, reason)
		failed = append(failed, FailedSegment{ID: seg.ID, Index: seg.Index, Reason: reason})
	}
	return failed
}

func (s *Service) demote(ctx context.Context, seg *domain.Segment, reason string) {
	if err := s.d.Segments.UpdateStatus(ctx, seg.ID, domain.SegmentTranslationFailed, reason); err != nil {
		slog.Error("failed to record segment failure",
			"segment", seg.ID, "index", seg.Index, "err", err)
	}
}
