package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/db/sqlite"
	extreg "github.com/Jjjmaes/AIT-sub004/internal/adapters/extractor/registry"
	xliffext "github.com/Jjjmaes/AIT-sub004/internal/adapters/extractor/xliff"
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
)

func newTestService(t *testing.T) (*Service, *sqlite.FileRepo, *sqlite.SegmentRepo) {
	t.Helper()
	db, err := sqlite.Init(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	files := sqlite.NewFileRepo(db)
	segs := sqlite.NewSegmentRepo(db)
	reg := extreg.New()
	reg.Register(xliffext.New())
	return New(files, segs, reg), files, segs
}

func writeDoc(t *testing.T, units string) string {
	t.Helper()
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<xliff version="1.2">
  <file original="m.docx" source-language="en" target-language="de" datatype="plaintext">
    <body>` + units + `</body>
  </file>
</xliff>`
	path := filepath.Join(t.TempDir(), "doc.xliff")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportPersistsFileAndSegments(t *testing.T) {
	svc, files, segs := newTestService(t)
	path := writeDoc(t, `
    <trans-unit id="u1"><source>One</source></trans-unit>
    <trans-unit id="u2"><source>Two</source></trans-unit>`)

	res, err := svc.Import(context.Background(), ImportArgs{Path: path, Format: "xliff"})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Segments != 2 || res.FileID == 0 {
		t.Fatalf("result = %+v", res)
	}

	file, err := files.Get(context.Background(), res.FileID)
	if err != nil {
		t.Fatalf("Get file: %v", err)
	}
	if file.SourceLang != "en" || file.TargetLang != "de" {
		t.Errorf("languages not taken from document metadata: %+v", file)
	}
	if file.Hash == "" {
		t.Error("file hash not recorded")
	}

	got, err := segs.ListByFile(context.Background(), res.FileID)
	if err != nil {
		t.Fatalf("ListByFile: %v", err)
	}
	if len(got) != 2 || got[0].SourceText != "One" || got[1].SourceText != "Two" {
		t.Fatalf("segments = %+v", got)
	}
}

func TestImportExplicitLanguagesWin(t *testing.T) {
	svc, files, _ := newTestService(t)
	path := writeDoc(t, `<trans-unit id="u1"><source>One</source></trans-unit>`)

	res, err := svc.Import(context.Background(), ImportArgs{
		Path: path, Format: "xliff", SourceLang: "en-US", TargetLang: "fr",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	file, err := files.Get(context.Background(), res.FileID)
	if err != nil {
		t.Fatalf("Get file: %v", err)
	}
	if file.SourceLang != "en-US" || file.TargetLang != "fr" {
		t.Errorf("explicit languages overridden: %+v", file)
	}
}

// Re-importing the same path keeps the file row but replaces its segments.
func TestImportReplacesSegmentsOnReimport(t *testing.T) {
	svc, _, segs := newTestService(t)
	path := writeDoc(t, `<trans-unit id="u1"><source>One</source></trans-unit>`)

	first, err := svc.Import(context.Background(), ImportArgs{Path: path, Format: "xliff"})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	second, err := svc.Import(context.Background(), ImportArgs{Path: path, Format: "xliff"})
	if err != nil {
		t.Fatalf("re-Import: %v", err)
	}
	if second.FileID != first.FileID {
		t.Errorf("re-import created a new file: %d then %d", first.FileID, second.FileID)
	}
	n, err := segs.CountByFile(context.Background(), first.FileID)
	if err != nil || n != 1 {
		t.Fatalf("segments after re-import = %d, %v", n, err)
	}
}

func TestImportUnsupportedFormat(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Import(context.Background(), ImportArgs{Path: "x", Format: "docx"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestImportExtractionFailureLeavesNothingBehind(t *testing.T) {
	svc, files, _ := newTestService(t)
	path := filepath.Join(t.TempDir(), "bad.xliff")
	if err := os.WriteFile(path, []byte("<xliff><file>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Import(context.Background(), ImportArgs{Path: path, Format: "xliff"}); err == nil {
		t.Fatal("expected extraction error")
	}
	all, err := files.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("failed import persisted a file record: %+v", all)
	}
}

func TestImportMemoQStates(t *testing.T) {
	svc, _, segs := newTestService(t)
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<xliff version="1.2" xmlns:mq="MQXliff">
  <file original="m.docx" source-language="en" target-language="de" datatype="plaintext">
    <body>
      <trans-unit id="u1" mq:status="Confirmed"><source>Done</source><target>Fertig</target></trans-unit>
    </body>
  </file>
</xliff>`
	path := filepath.Join(t.TempDir(), "doc.mqxliff")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Import(context.Background(), ImportArgs{Path: path, Format: "xliff", MemoQ: true})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	got, err := segs.ListByFile(context.Background(), res.FileID)
	if err != nil {
		t.Fatalf("ListByFile: %v", err)
	}
	if got[0].Status != domain.SegmentConfirmed {
		t.Errorf("status = %s, want confirmed from vendor state", got[0].Status)
	}
}
