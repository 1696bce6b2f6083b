// Package plaintext is the fallback export for formats without
// full-fidelity reconstruction support: segments joined by blank lines.
package plaintext

import (
	"fmt"
	"os"
	"strings"

	"github.com/Jjjmaes/AIT-sub004/internal/domain"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

const Format = "plaintext"

type Writer struct{}

func New() *Writer { return &Writer{} }

func (w *Writer) Format() string { return Format }

// WriteTranslations ignores originalPath: there is no skeleton to
// preserve. Untranslated segments fall back to their source text.
func (w *Writer) WriteTranslations(segs []*domain.Segment, _ string, targetPath string, _ ports.WriteOptions) error {
	blocks := make([]string, 0, len(segs))
	for _, s := range segs {
		text := s.EffectiveText()
		if text == "" {
			text = s.SourceText
		}
		blocks = append(blocks, text)
	}
	content := strings.Join(blocks, "\n\n") + "\n"
	if err := os.WriteFile(targetPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write plaintext export: %w", err)
	}
	return nil
}
