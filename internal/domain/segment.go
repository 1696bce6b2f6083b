package domain

import "time"

// SegmentStatus is the lifecycle state of a single translatable segment.
type SegmentStatus string

const (
	SegmentPending           SegmentStatus = "pending"
	SegmentProcessing        SegmentStatus = "processing"
	SegmentTranslated        SegmentStatus = "translated"
	SegmentTranslationFailed SegmentStatus = "translation_failed"
	SegmentReviewCompleted   SegmentStatus = "review_completed"
	SegmentConfirmed         SegmentStatus = "confirmed"
	SegmentCancelled         SegmentStatus = "cancelled"
)

// Terminal reports whether a segment in this status is no longer eligible
// for machine translation.
func (s SegmentStatus) Terminal() bool {
	switch s {
	case SegmentReviewCompleted, SegmentConfirmed, SegmentCancelled:
		return true
	}
	return false
}

// SegmentMeta is the structural anchor back into the original document.
// UnitID is the document's own identifier for the unit; ExternalState is
// the state string the document carried at extraction time. Both are
// required for a lossless round trip.
type SegmentMeta struct {
	UnitID        string `json:"unit_id"`
	ExternalState string `json:"external_state,omitempty"`
}

// TranslationMeta records how the last successful translation was produced.
type TranslationMeta struct {
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	TranslatedAt     time.Time `json:"translated_at"`
}

// Segment is the unit of translation work. Index is the stable 0-based
// position within the file; it defines both document order and batching
// order and is never reassigned after extraction.
type Segment struct {
	ID               string           `json:"id"`
	FileID           int64            `json:"file_id"`
	Index            int              `json:"index"`
	SourceText       string           `json:"source_text"`
	Translation      string           `json:"translation,omitempty"`
	FinalText        string           `json:"final_text,omitempty"`
	Status           SegmentStatus    `json:"status"`
	SourceLength     int              `json:"source_length"`
	TranslatedLength int              `json:"translated_length"`
	Meta             SegmentMeta      `json:"metadata"`
	TransMeta        *TranslationMeta `json:"translation_meta,omitempty"`
	Error            string           `json:"error,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// EffectiveText is the text exported for this segment: the post-review
// override when present, otherwise the machine translation.
func (s *Segment) EffectiveText() string {
	if s.FinalText != "" {
		return s.FinalText
	}
	return s.Translation
}
