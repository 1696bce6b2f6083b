package ports

import (
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
)

type WriteOptions struct {
	MemoQ bool
	// UpdateState controls whether the writer maps internal segment
	// statuses back onto the document's state attributes.
	UpdateState bool
}

// Writer reconciles translated segments back into a document of the
// original format at targetPath, using originalPath as the skeleton.
type Writer interface {
	Format() string
	WriteTranslations(segs []*domain.Segment, originalPath, targetPath string, opts WriteOptions) error
}
