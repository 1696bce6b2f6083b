// Package runner implements the sequential translation path: one
// in-memory task per text, processed strictly in order, one AI call in
// flight at a time.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jjjmaes/AIT-sub004/internal/domain"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

// TranslateFunc performs one single-segment translation call.
type TranslateFunc func(ctx context.Context, text string) (ports.SingleResult, error)

// Runner owns its task list exclusively; the mutex exists only because
// Cancel and the progress accessors may be called from another goroutine.
type Runner struct {
	mu        sync.Mutex
	translate TranslateFunc
	attempts  int
	texts     []string
	tasks     []*domain.TranslationTask
	progress  domain.TranslationProgress
	results   []string
	tokens    int
	cancelled bool
}

// New creates a runner that retries each failing call up to attempts
// times before accepting the failure.
func New(translate TranslateFunc, attempts int) *Runner {
	if attempts < 1 {
		attempts = 1
	}
	return &Runner{translate: translate, attempts: attempts}
}

// Initialize creates one pending task per text, in order. It resets any
// previous run state.
func (r *Runner) Initialize(texts []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	r.texts = append([]string(nil), texts...)
	r.tasks = make([]*domain.TranslationTask, len(texts))
	r.results = make([]string, len(texts))
	for i := range texts {
		r.tasks[i] = &domain.TranslationTask{
			ID:        uuid.NewString(),
			Status:    domain.TaskPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	r.tokens = 0
	r.cancelled = false
	r.progress = domain.TranslationProgress{
		TotalSegments: len(texts),
		Status:        domain.TaskPending,
		LastUpdated:   now,
	}
}

// Translate processes tasks strictly in order, skipping tasks that
// already reached a terminal state, so a later call resumes where a
// failed run stopped. The first task failure is recorded on the task,
// counted in the progress, and then returned to the caller, which halts
// this invocation; cancellation is observed between iterations only.
func (r *Runner) Translate(ctx context.Context) error {
	r.mu.Lock()
	if r.progress.Status == domain.TaskPending {
		r.progress.Status = domain.TaskProcessing
	}
	total := len(r.tasks)
	r.mu.Unlock()

	for i := 0; i < total; i++ {
		r.mu.Lock()
		if r.cancelled {
			r.mu.Unlock()
			return nil
		}
		task := r.tasks[i]
		if task.Status.Terminal() {
			r.mu.Unlock()
			continue
		}
		text := r.texts[i]
		r.setTask(task, domain.TaskProcessing, 0, "")
		r.mu.Unlock()

		res, err := r.translateWithRetry(ctx, text)

		r.mu.Lock()
		if err != nil {
			r.setTask(task, domain.TaskFailed, task.Progress, err.Error())
			r.progress.ProcessedSegments++
			r.progress.FailedSegments++
			r.refreshProgress()
			r.mu.Unlock()
			return fmt.Errorf("translate segment %d: %w", i, err)
		}
		r.results[i] = res.TranslatedText
		r.tokens += res.TokenCount
		r.setTask(task, domain.TaskCompleted, 100, "")
		r.progress.ProcessedSegments++
		r.progress.CompletedSegments++
		r.refreshProgress()
		r.mu.Unlock()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.finalize()
	return nil
}

func (r *Runner) translateWithRetry(ctx context.Context, text string) (ports.SingleResult, error) {
	var res ports.SingleResult
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		res, err = r.translate(ctx, text)
		if err == nil {
			return res, nil
		}
		if attempt < r.attempts {
			time.Sleep(time.Duration(200*attempt) * time.Millisecond)
		}
	}
	return ports.SingleResult{}, err
}

// Cancel flips every not-yet-completed task and the overall progress to
// cancelled. It does not abort an in-flight call; the runner observes the
// flag between segment iterations.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
	now := time.Now().UTC()
	for _, t := range r.tasks {
		if t.Status != domain.TaskCompleted {
			t.Status = domain.TaskCancelled
			t.UpdatedAt = now
		}
	}
	r.progress.Status = domain.TaskCancelled
	r.progress.LastUpdated = now
}

// Tasks returns a snapshot of the current task states.
func (r *Runner) Tasks() []domain.TranslationTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.TranslationTask, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = *t
	}
	return out
}

// Results returns the translated texts collected so far, indexed like the
// input; untranslated positions are empty.
func (r *Runner) Results() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.results...)
}

func (r *Runner) Progress() domain.TranslationProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// TotalTokens is the usage accumulated across completed calls.
func (r *Runner) TotalTokens() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens
}

// setTask and the helpers below expect r.mu held.

func (r *Runner) setTask(t *domain.TranslationTask, status domain.TaskStatus, progress int, errMsg string) {
	t.Status = status
	t.Progress = progress
	t.Error = errMsg
	t.UpdatedAt = time.Now().UTC()
}

func (r *Runner) refreshProgress() {
	if r.progress.TotalSegments > 0 {
		r.progress.Progress = r.progress.ProcessedSegments * 100 / r.progress.TotalSegments
	}
	r.progress.LastUpdated = time.Now().UTC()
}

func (r *Runner) finalize() {
	if r.cancelled {
		return
	}
	if r.progress.FailedSegments > 0 {
		r.progress.Status = domain.TaskFailed
	} else {
		r.progress.Status = domain.TaskCompleted
		r.progress.Progress = 100
	}
	r.progress.LastUpdated = time.Now().UTC()
}
