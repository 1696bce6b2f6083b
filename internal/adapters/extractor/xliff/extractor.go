// Package xliff extracts translation segments from XLIFF 1.2 documents,
// including the MemoQ vendor dialect.
package xliff

import (
	"fmt"
	"log/slog"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/xliffdom"
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

const Format = "xliff"

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Format() string { return Format }

// Extract parses the document and returns its segments in document order.
// A malformed document or a missing file/body skeleton aborts the whole
// extraction; a single unit missing an identifier or source text is
// skipped with a warning.
func (e *Extractor) Extract(path string, opts ports.ExtractOptions) (ports.ExtractResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return ports.ExtractResult{}, fmt.Errorf("parse xliff %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "xliff" {
		return ports.ExtractResult{}, fmt.Errorf("parse xliff %s: root element is not <xliff>", path)
	}
	fileEl := xliffdom.ChildByTag(root, "file")
	if fileEl == nil {
		return ports.ExtractResult{}, fmt.Errorf("parse xliff %s: missing <file> element", path)
	}
	body := xliffdom.ChildByTag(fileEl, "body")
	if body == nil {
		return ports.ExtractResult{}, fmt.Errorf("parse xliff %s: missing <body> element", path)
	}

	meta := ports.FileMetadata{
		SourceLang: fileEl.SelectAttrValue("source-language", ""),
		TargetLang: fileEl.SelectAttrValue("target-language", ""),
		Original:   fileEl.SelectAttrValue("original", ""),
		Datatype:   fileEl.SelectAttrValue("datatype", ""),
	}

	var segs []*domain.Segment
	idx := 0
	for _, unit := range xliffdom.TransUnits(body) {
		id := unit.SelectAttrValue("id", "")
		if id == "" {
			slog.Warn("skipping trans-unit without id", "file", path)
			continue
		}
		src := xliffdom.ChildByTag(unit, "source")
		if src == nil {
			slog.Warn("skipping trans-unit without source", "file", path, "unit", id)
			continue
		}
		srcText := xliffdom.InlineText(src)
		if srcText == "" {
			slog.Warn("skipping trans-unit with empty source", "file", path, "unit", id)
			continue
		}

		var tgtText string
		tgt := xliffdom.ChildByTag(unit, "target")
		if tgt != nil {
			tgtText = xliffdom.InlineText(tgt)
		}
		state := externalState(unit, tgt, opts.MemoQ)
		status := mapStatus(state, tgtText, opts.MemoQ, path, id)

		segs = append(segs, &domain.Segment{
			ID:               uuid.NewString(),
			Index:            idx,
			SourceText:       srcText,
			Translation:      tgtText,
			Status:           status,
			SourceLength:     len(srcText),
			TranslatedLength: len(tgtText),
			Meta:             domain.SegmentMeta{UnitID: id, ExternalState: state},
		})
		idx++
	}

	return ports.ExtractResult{Segments: segs, Metadata: meta, SegmentCount: len(segs)}, nil
}

func externalState(unit, tgt *etree.Element, memoq bool) string {
	if memoq {
		if st := unit.SelectAttrValue(xliffdom.MemoQStateAttr, ""); st != "" {
			return st
		}
	}
	if tgt != nil {
		return tgt.SelectAttrValue("state", "")
	}
	return ""
}

func mapStatus(state, tgtText string, memoq bool, path, id string) domain.SegmentStatus {
	if state == "" {
		if tgtText != "" {
			return domain.SegmentTranslated
		}
		return domain.SegmentPending
	}
	if memoq {
		if st, ok := xliffdom.StatusFromMemoQState(state); ok {
			return st
		}
	}
	if st, ok := xliffdom.StatusFromState(state); ok {
		return st
	}
	slog.Warn("unrecognized unit state, defaulting to pending",
		"file", path, "unit", id, "state", state)
	return domain.SegmentPending
}
