// Package importer turns documents into persisted segment records.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	extreg "github.com/Jjjmaes/AIT-sub004/internal/adapters/extractor/registry"
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

type Service struct {
	Files      ports.FileRepository
	Segments   ports.SegmentRepository
	Extractors *extreg.Registry
}

func New(files ports.FileRepository, segments ports.SegmentRepository, reg *extreg.Registry) *Service {
	return &Service{Files: files, Segments: segments, Extractors: reg}
}

type ImportArgs struct {
	Path       string
	Format     string
	SourceLang string
	TargetLang string
	MemoQ      bool
}

type ImportResult struct {
	FileID   int64
	Segments int
}

// Import extracts a document and persists its file record plus segments.
// Re-importing a path replaces the file's previous segments: segments are
// only ever destroyed when their file is re-extracted.
func (s *Service) Import(ctx context.Context, in ImportArgs) (ImportResult, error) {
	ext, ok := s.Extractors.Get(in.Format)
	if !ok {
		return ImportResult{}, fmt.Errorf("import: unsupported format %q", in.Format)
	}
	res, err := ext.Extract(in.Path, ports.ExtractOptions{MemoQ: in.MemoQ})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}

	content, err := os.ReadFile(in.Path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: read %s: %w", in.Path, err)
	}

	srcLang := in.SourceLang
	if srcLang == "" {
		srcLang = res.Metadata.SourceLang
	}
	tgtLang := in.TargetLang
	if tgtLang == "" {
		tgtLang = res.Metadata.TargetLang
	}

	file, err := s.Files.GetByPath(ctx, in.Path)
	if err == nil && file != nil {
		// Re-extraction: reset the file's segments.
		if err := s.Segments.DeleteByFile(ctx, file.ID); err != nil {
			return ImportResult{}, fmt.Errorf("import: reset segments: %w", err)
		}
	} else {
		file = &domain.File{
			Path:         in.Path,
			Format:       in.Format,
			SourceLang:   srcLang,
			TargetLang:   tgtLang,
			Hash:         hashBytes(content),
			SegmentCount: res.SegmentCount,
		}
		if err := s.Files.Create(ctx, file); err != nil {
			return ImportResult{}, fmt.Errorf("import: create file: %w", err)
		}
	}

	for _, seg := range res.Segments {
		seg.FileID = file.ID
	}
	if err := s.Segments.InsertBatch(ctx, res.Segments); err != nil {
		return ImportResult{}, fmt.Errorf("import: persist segments: %w", err)
	}
	return ImportResult{FileID: file.ID, Segments: res.SegmentCount}, nil
}

func hashBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
