package domain

import "time"

// TaskStatus tracks a single segment's task in the sequential translation
// path. Tasks live only for the duration of a runner invocation.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Terminal reports whether the task will not be picked up again.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskCancelled:
		return true
	}
	return false
}

type TranslationTask struct {
	ID        string     `json:"id"`
	Status    TaskStatus `json:"status"`
	Progress  int        `json:"progress"` // 0-100
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TranslationProgress is the aggregate view over one runner invocation.
type TranslationProgress struct {
	TotalSegments     int        `json:"total_segments"`
	ProcessedSegments int        `json:"processed_segments"`
	CompletedSegments int        `json:"completed_segments"`
	FailedSegments    int        `json:"failed_segments"`
	Progress          int        `json:"progress"` // 0-100
	Status            TaskStatus `json:"status"`
	LastUpdated       time.Time  `json:"last_updated"`
}
