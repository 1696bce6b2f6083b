package domain

import "time"

type File struct {
	ID           int64     `json:"id"`
	Path         string    `json:"path"`
	Format       string    `json:"format"`
	SourceLang   string    `json:"source_lang"`
	TargetLang   string    `json:"target_lang"`
	Hash         string    `json:"hash"`
	SegmentCount int       `json:"segment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// FileStatus is the aggregate translation state of a file, derived on read
// from its segment statuses rather than stored.
type FileStatus string

const (
	FileNotTranslated       FileStatus = "not_translated"
	FilePartiallyTranslated FileStatus = "partially_translated"
	FileFullyTranslated     FileStatus = "fully_translated"
)

// DeriveFileStatus folds per-status segment counts into an aggregate state.
func DeriveFileStatus(counts map[SegmentStatus]int) FileStatus {
	total := 0
	done := 0
	for st, n := range counts {
		total += n
		switch st {
		case SegmentTranslated, SegmentReviewCompleted, SegmentConfirmed:
			done += n
		}
	}
	switch {
	case total == 0 || done == 0:
		return FileNotTranslated
	case done == total:
		return FileFullyTranslated
	default:
		return FilePartiallyTranslated
	}
}
