package ports

import (
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
)

type ExtractOptions struct {
	// MemoQ switches unit lookup and state reading to the MemoQ XLIFF
	// dialect (mq: namespaced attributes).
	MemoQ bool
}

// FileMetadata is what the extractor learned about the document itself.
type FileMetadata struct {
	SourceLang string
	TargetLang string
	Original   string
	Datatype   string
}

type ExtractResult struct {
	Segments     []*domain.Segment
	Metadata     FileMetadata
	SegmentCount int
}

// Extractor turns a document into ordered Segment records. Structural
// errors (unparseable document, missing required skeleton) are fatal;
// single unusable units are skipped with a warning.
type Extractor interface {
	Format() string
	Extract(path string, opts ExtractOptions) (ExtractResult, error)
}
