package ports

import (
	"context"

	"github.com/Jjjmaes/AIT-sub004/internal/domain"
)

type FileRepository interface {
	Create(ctx context.Context, f *domain.File) error
	Get(ctx context.Context, id int64) (*domain.File, error)
	GetByPath(ctx context.Context, path string) (*domain.File, error)
	List(ctx context.Context) ([]*domain.File, error)
	Delete(ctx context.Context, id int64) error
}

type SegmentRepository interface {
	InsertBatch(ctx context.Context, segs []*domain.Segment) error
	// ListByFile returns all segments of a file ordered by idx.
	ListByFile(ctx context.Context, fileID int64) ([]*domain.Segment, error)
	// ListByFileStatus returns the file's segments in any of the given
	// statuses, ordered by idx. The batched path uses this once per run to
	// take a static snapshot of eligible segments.
	ListByFileStatus(ctx context.Context, fileID int64, statuses []domain.SegmentStatus) ([]*domain.Segment, error)
	Get(ctx context.Context, id string) (*domain.Segment, error)
	Update(ctx context.Context, s *domain.Segment) error
	UpdateStatus(ctx context.Context, id string, status domain.SegmentStatus, errMsg string) error
	DeleteByFile(ctx context.Context, fileID int64) error
	CountByFile(ctx context.Context, fileID int64) (int, error)
	CountByFileStatus(ctx context.Context, fileID int64) (map[domain.SegmentStatus]int, error)
}
