package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Jjjmaes/AIT-sub004/internal/domain"
)

func seg(idx int, text string) *domain.Segment {
	return &domain.Segment{ID: fmt.Sprintf("s%d", idx), Index: idx, SourceText: text}
}

func TestEncodeBatch(t *testing.T) {
	got := EncodeBatch([]*domain.Segment{seg(0, "Hello"), seg(1, "World")})
	want := "[SEG0]\nHello\n\n[SEG1]\nWorld"
	if got != want {
		t.Fatalf("EncodeBatch = %q, want %q", got, want)
	}
}

// TestDecodeResponseAllMarkers verifies that N distinct markers each map
// to their own trimmed trailing text.
func TestDecodeResponseAllMarkers(t *testing.T) {
	const n = 5
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[SEG%d]\n  translation %d  \n\n", i, i)
	}
	got := DecodeResponse(b.String())
	if len(got) != n {
		t.Fatalf("decoded %d entries, want %d", len(got), n)
	}
	for i := 0; i < n; i++ {
		want := fmt.Sprintf("translation %d", i)
		if got[i] != want {
			t.Errorf("entry %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestDecodeResponseMissingMarker(t *testing.T) {
	resp := "[SEG0]\nfirst\n\n[SEG2]\nthird"
	got := DecodeResponse(resp)
	if len(got) != 2 {
		t.Fatalf("decoded %d entries, want 2", len(got))
	}
	if _, ok := got[1]; ok {
		t.Fatal("marker 1 must be absent from the decoded map, not empty")
	}
	if got[0] != "first" || got[2] != "third" {
		t.Fatalf("unexpected entries: %v", got)
	}
}

func TestDecodeResponseNonSequentialIndexes(t *testing.T) {
	got := DecodeResponse("[SEG12]\ntwelve\n[SEG3]\nthree")
	if got[12] != "twelve" || got[3] != "three" {
		t.Fatalf("unexpected entries: %v", got)
	}
}

func TestDecodeResponseEmpty(t *testing.T) {
	if got := DecodeResponse("no markers here"); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestBatchSystemMentionsLanguages(t *testing.T) {
	s, err := BatchSystem("en", "de")
	if err != nil {
		t.Fatalf("BatchSystem: %v", err)
	}
	if !strings.Contains(s, "en") || !strings.Contains(s, "de") {
		t.Fatalf("system prompt missing languages: %q", s)
	}
}
