// Package exporter reconciles a file's segments back into a document.
package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/writer/plaintext"
	wreg "github.com/Jjjmaes/AIT-sub004/internal/adapters/writer/registry"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

type Service struct {
	Files    ports.FileRepository
	Segments ports.SegmentRepository
	Writers  *wreg.Registry
}

func New(files ports.FileRepository, segments ports.SegmentRepository, reg *wreg.Registry) *Service {
	return &Service{Files: files, Segments: segments, Writers: reg}
}

type ExportArgs struct {
	FileID      int64
	TargetPath  string
	MemoQ       bool
	UpdateState bool
}

// Export writes the file's translations to TargetPath in the original
// format when a writer exists for it, falling back to a plain-text export
// (segments joined by blank lines) otherwise.
func (s *Service) Export(ctx context.Context, a ExportArgs) error {
	file, err := s.Files.Get(ctx, a.FileID)
	if err != nil {
		return fmt.Errorf("export: load file %d: %w", a.FileID, err)
	}
	segs, err := s.Segments.ListByFile(ctx, file.ID)
	if err != nil {
		return fmt.Errorf("export: load segments: %w", err)
	}

	w, ok := s.Writers.Get(file.Format)
	if !ok {
		slog.Info("no writer for format, falling back to plain text",
			"format", file.Format, "file", file.ID)
		w = plaintext.New()
	}
	opts := ports.WriteOptions{MemoQ: a.MemoQ, UpdateState: a.UpdateState}
	if err := w.WriteTranslations(segs, file.Path, a.TargetPath, opts); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
