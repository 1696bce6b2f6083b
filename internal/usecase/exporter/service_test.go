package exporter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/db/sqlite"
	wreg "github.com/Jjjmaes/AIT-sub004/internal/adapters/writer/registry"
	xliffw "github.com/Jjjmaes/AIT-sub004/internal/adapters/writer/xliff"
	"github.com/Jjjmaes/AIT-sub004/internal/domain"
	"github.com/google/uuid"
)

func setup(t *testing.T) (*Service, *sqlite.FileRepo, *sqlite.SegmentRepo) {
	t.Helper()
	db, err := sqlite.Init(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	files := sqlite.NewFileRepo(db)
	segs := sqlite.NewSegmentRepo(db)
	reg := wreg.New()
	reg.Register(xliffw.New())
	return New(files, segs, reg), files, segs
}

func seedFile(t *testing.T, files *sqlite.FileRepo, segs *sqlite.SegmentRepo, format, path string) *domain.File {
	t.Helper()
	ctx := context.Background()
	f := &domain.File{Path: path, Format: format, SourceLang: "en", TargetLang: "de"}
	if err := files.Create(ctx, f); err != nil {
		t.Fatalf("Create: %v", err)
	}
	batch := []*domain.Segment{
		{ID: uuid.NewString(), FileID: f.ID, Index: 0, SourceText: "Hello",
			Translation: "Hallo", Status: domain.SegmentTranslated,
			Meta: domain.SegmentMeta{UnitID: "u1"}},
		{ID: uuid.NewString(), FileID: f.ID, Index: 1, SourceText: "Untranslated",
			Status: domain.SegmentPending, Meta: domain.SegmentMeta{UnitID: "u2"}},
	}
	if err := segs.InsertBatch(ctx, batch); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	return f
}

func writeOriginal(t *testing.T) string {
	t.Helper()
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<xliff version="1.2">
  <file original="m.docx" source-language="en" target-language="de" datatype="plaintext">
    <body>
      <trans-unit id="u1"><source>Hello</source></trans-unit>
      <trans-unit id="u2"><source>Untranslated</source></trans-unit>
    </body>
  </file>
</xliff>`
	path := filepath.Join(t.TempDir(), "doc.xliff")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExportXLIFF(t *testing.T) {
	svc, files, segs := setup(t)
	original := writeOriginal(t)
	f := seedFile(t, files, segs, "xliff", original)

	out := filepath.Join(t.TempDir(), "out.xliff")
	if err := svc.Export(context.Background(), ExportArgs{FileID: f.ID, TargetPath: out}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<target>Hallo</target>") {
		t.Errorf("output missing translation:\n%s", data)
	}
}

// An unregistered format degrades to the plain-text writer.
func TestExportFallsBackToPlaintext(t *testing.T) {
	svc, files, segs := setup(t)
	f := seedFile(t, files, segs, "properties", "unused")

	out := filepath.Join(t.TempDir(), "out.txt")
	if err := svc.Export(context.Background(), ExportArgs{FileID: f.ID, TargetPath: out}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	// Translated segments export their translation, untranslated ones
	// keep the source.
	if string(data) != "Hallo\n\nUntranslated\n" {
		t.Errorf("plaintext output = %q", data)
	}
}

func TestExportUnknownFile(t *testing.T) {
	svc, _, _ := setup(t)
	if err := svc.Export(context.Background(), ExportArgs{FileID: 99, TargetPath: "x"}); err == nil {
		t.Fatal("expected error for unknown file")
	}
}
