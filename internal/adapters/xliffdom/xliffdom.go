// Package xliffdom holds the DOM helpers and state-vocabulary tables
// shared by the XLIFF extractor and writer.
package xliffdom

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/Jjjmaes/AIT-sub004/internal/domain"
)

// ChildByTag returns the first child element with the given local tag,
// regardless of namespace prefix.
func ChildByTag(e *etree.Element, tag string) *etree.Element {
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// TransUnits walks the subtree and collects every trans-unit element in
// document order.
func TransUnits(e *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			if c.Tag == "trans-unit" {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// InlineText flattens an element's content to a string, serializing child
// elements back to markup fragments so inline formatting spans and
// placeholders survive the round trip.
func InlineText(e *etree.Element) string {
	var b strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			d := etree.NewDocument()
			d.SetRoot(t.Copy())
			s, err := d.WriteToString()
			if err != nil {
				continue
			}
			b.WriteString(strings.TrimSuffix(s, "\n"))
		}
	}
	return b.String()
}

// MemoQStateAttr is the vendor state attribute read and written in MemoQ
// dialect mode.
const MemoQStateAttr = "mq:status"

// StatusFromState maps an XLIFF target state onto the internal status
// vocabulary. The second return is false for unrecognized states.
func StatusFromState(state string) (domain.SegmentStatus, bool) {
	switch state {
	case "new", "needs-translation", "needs-adaptation", "needs-l10n":
		return domain.SegmentPending, true
	case "translated", "needs-review-translation", "needs-review-adaptation", "needs-review-l10n":
		return domain.SegmentTranslated, true
	case "reviewed":
		return domain.SegmentReviewCompleted, true
	case "signed-off", "final", "confirmed":
		return domain.SegmentConfirmed, true
	}
	return domain.SegmentPending, false
}

// StatusFromMemoQState is the vendor-dialect equivalent of StatusFromState.
func StatusFromMemoQState(state string) (domain.SegmentStatus, bool) {
	switch state {
	case "NotStarted", "PreTranslated", "Edited":
		return domain.SegmentPending, true
	case "Translated":
		return domain.SegmentTranslated, true
	case "Reviewed", "Proofread":
		return domain.SegmentReviewCompleted, true
	case "ApprovedSignOff", "Confirmed":
		return domain.SegmentConfirmed, true
	}
	return domain.SegmentPending, false
}

// StateFromStatus is the inverse mapping written onto the target node's
// state attribute. Statuses with no external representation return false.
func StateFromStatus(status domain.SegmentStatus) (string, bool) {
	switch status {
	case domain.SegmentPending, domain.SegmentProcessing, domain.SegmentTranslationFailed:
		return "needs-translation", true
	case domain.SegmentTranslated:
		return "translated", true
	case domain.SegmentReviewCompleted:
		return "reviewed", true
	case domain.SegmentConfirmed:
		return "signed-off", true
	}
	return "", false
}

// MemoQStateFromStatus is the inverse mapping for the vendor attribute on
// the unit itself.
func MemoQStateFromStatus(status domain.SegmentStatus) (string, bool) {
	switch status {
	case domain.SegmentPending, domain.SegmentProcessing, domain.SegmentTranslationFailed:
		return "NotStarted", true
	case domain.SegmentTranslated:
		return "Translated", true
	case domain.SegmentReviewCompleted:
		return "Reviewed", true
	case domain.SegmentConfirmed:
		return "ApprovedSignOff", true
	}
	return "", false
}
