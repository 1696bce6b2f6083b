// Package prompt builds tagged multi-segment prompts and parses tagged
// responses. The [SEG{index}] markers let many segments share one AI call
// and be reconciled back individually.
package prompt

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/Jjjmaes/AIT-sub004/internal/domain"
)

const batchSystemTemplate = `You are a professional document translator. Translate every segment below from {{.SourceLang}} to {{.TargetLang}}.
Segments are delimited by [SEG{number}] markers. Reply with each marker on its own line followed by that segment's translation, in the same order.
Preserve inline markup tags exactly as they appear. Do not merge, split, or skip segments. Do not add commentary.`

type promptData struct {
	SourceLang string
	TargetLang string
}

// BatchSystem renders the system prompt shared by every batch of a run.
func BatchSystem(sourceLang, targetLang string) (string, error) {
	tpl, err := template.New("batch_system").Parse(batchSystemTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, promptData{SourceLang: sourceLang, TargetLang: targetLang}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SingleSystem is the system prompt for the one-segment-per-call path.
func SingleSystem(sourceLang, targetLang string) string {
	return fmt.Sprintf("You are a professional document translator. Translate the following text from %s to %s. Preserve inline markup tags exactly. Return only the translation.",
		sourceLang, targetLang)
}

// SegmentBlock renders one segment's tagged block.
func SegmentBlock(s *domain.Segment) string {
	return fmt.Sprintf("[SEG%d]\n%s", s.Index, s.SourceText)
}

// EncodeBatch concatenates the tagged blocks of a batch, separated by a
// blank line.
func EncodeBatch(segs []*domain.Segment) string {
	blocks := make([]string, 0, len(segs))
	for _, s := range segs {
		blocks = append(blocks, SegmentBlock(s))
	}
	return strings.Join(blocks, "\n\n")
}

var markerRE = regexp.MustCompile(`\[SEG(\d+)\]`)

// DecodeResponse extracts, for each [SEG{n}] marker present in the
// response, the trimmed trailing text up to the next marker or end of
// string. Segments whose marker is absent are absent from the map;
// callers must treat missing entries as failures, not empty translations.
func DecodeResponse(resp string) map[int]string {
	out := map[int]string{}
	locs := markerRE.FindAllStringSubmatchIndex(resp, -1)
	for i, loc := range locs {
		idx, err := strconv.Atoi(resp[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		end := len(resp)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out[idx] = strings.TrimSpace(resp[loc[1]:end])
	}
	return out
}
