// Package xliff reconciles translated segments back into the original
// XLIFF document. Only the targeted nodes are mutated, so untouched
// content and formatting survive reserialization.
package xliff

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/xliffdom"
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

const Format = "xliff"

type Writer struct{}

func New() *Writer { return &Writer{} }

func (w *Writer) Format() string { return Format }

func (w *Writer) WriteTranslations(segs []*domain.Segment, originalPath, targetPath string, opts ports.WriteOptions) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(originalPath); err != nil {
		return fmt.Errorf("parse xliff %s: %w", originalPath, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "xliff" {
		return fmt.Errorf("parse xliff %s: root element is not <xliff>", originalPath)
	}
	fileEl := xliffdom.ChildByTag(root, "file")
	if fileEl == nil {
		return fmt.Errorf("parse xliff %s: missing <file> element", originalPath)
	}
	body := xliffdom.ChildByTag(fileEl, "body")
	if body == nil {
		return fmt.Errorf("parse xliff %s: missing <body> element", originalPath)
	}

	units := map[string]*etree.Element{}
	for _, u := range xliffdom.TransUnits(body) {
		if id := u.SelectAttrValue("id", ""); id != "" {
			units[id] = u
		}
	}

	for _, seg := range segs {
		anchor := seg.Meta.UnitID
		if anchor == "" || unsafeAnchor(anchor) {
			slog.Warn("skipping segment with missing or unsafe anchor",
				"segment", seg.ID, "index", seg.Index, "anchor", anchor)
			continue
		}
		unit, ok := units[anchor]
		if !ok {
			slog.Warn("skipping segment: anchor not found in document",
				"segment", seg.ID, "index", seg.Index, "anchor", anchor)
			continue
		}

		tgt := xliffdom.ChildByTag(unit, "target")
		if tgt == nil {
			tgt = createTarget(unit)
		}
		clearChildren(tgt)
		setContent(tgt, seg.EffectiveText())

		if opts.UpdateState {
			if st, ok := xliffdom.StateFromStatus(seg.Status); ok {
				tgt.CreateAttr("state", st)
			}
			if opts.MemoQ {
				if st, ok := xliffdom.MemoQStateFromStatus(seg.Status); ok {
					unit.CreateAttr(xliffdom.MemoQStateAttr, st)
				}
			}
		}
	}

	if err := doc.WriteToFile(targetPath); err != nil {
		return fmt.Errorf("write xliff %s: %w", targetPath, err)
	}
	return nil
}

// unsafeAnchor rejects identifiers that cannot be used safely for unit
// lookup or reserialization.
func unsafeAnchor(id string) bool {
	return strings.ContainsAny(id, `"'<>`)
}

// createTarget inserts a new target element immediately after the source
// node, replacing a placeholder comment in that position if one exists.
func createTarget(unit *etree.Element) *etree.Element {
	tgt := etree.NewElement("target")
	src := xliffdom.ChildByTag(unit, "source")
	if src == nil {
		unit.AddChild(tgt)
		return tgt
	}
	tgt.Space = src.Space

	// Drop a placeholder comment directly following the source, skipping
	// interleaving whitespace.
	srcIdx := tokenIndex(unit, src)
	for i := srcIdx + 1; i < len(unit.Child); i++ {
		switch t := unit.Child[i].(type) {
		case *etree.CharData:
			if strings.TrimSpace(t.Data) == "" {
				continue
			}
		case *etree.Comment:
			unit.RemoveChild(t)
		}
		break
	}

	unit.InsertChildAt(tokenIndex(unit, src)+1, tgt)
	return tgt
}

func tokenIndex(parent *etree.Element, tok etree.Token) int {
	for i, c := range parent.Child {
		if c == tok {
			return i
		}
	}
	return -1
}

func clearChildren(e *etree.Element) {
	for len(e.Child) > 0 {
		e.RemoveChildAt(0)
	}
}

// setContent parses text as a markup fragment and imports each child node
// so inline markup is preserved; when the fragment does not parse, the
// text is inserted as a plain text node instead.
func setContent(tgt *etree.Element, text string) {
	if text == "" {
		return
	}
	frag := etree.NewDocument()
	if err := frag.ReadFromString("<w>" + text + "</w>"); err != nil || frag.Root() == nil {
		slog.Debug("translation is not a well-formed fragment, writing as plain text", "err", err)
		tgt.SetText(text)
		return
	}
	for _, tok := range frag.Root().Child {
		switch t := tok.(type) {
		case *etree.Element:
			tgt.AddChild(t.Copy())
		case *etree.CharData:
			tgt.CreateText(t.Data)
		}
	}
}
