package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gliffydb/pkg/entity"
	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/stage"
)

func sample(t *testing.T) *stage.Stage {
	t.Helper()
	box, err := entity.NewShape("rectangle", nil)
	if err != nil {
		t.Fatal(err)
	}
	label, err := entity.NewText(map[string]any{"text": "a & b"})
	if err != nil {
		t.Fatal(err)
	}
	if err := box.AddChild(label); err != nil {
		t.Fatal(err)
	}
	g := entity.NewGroup()
	if err := g.AddChild(box); err != nil {
		t.Fatal(err)
	}
	s := stage.New(stage.WithTitle("sample"))
	if err := s.Add(g); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	s := sample(t)
	var buf bytes.Buffer
	if err := WriteDocument(s, &buf, "  "); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<p style=") {
		t.Error("markup escaped in output")
	}

	doc, err := ReadDocument(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.Title != "sample" || doc.Version != "1.1" {
		t.Errorf("envelope = %+v", doc)
	}
	if doc.Stage.NodeIndex != s.NodeIndex() {
		t.Errorf("nodeIndex = %d, want %d", doc.Stage.NodeIndex, s.NodeIndex())
	}
	if doc.Count() != 3 {
		t.Errorf("Count() = %d, want 3", doc.Count())
	}

	var kinds, orders []string
	doc.Walk(func(o Object, depth int) {
		kinds = append(kinds, strings.Repeat(">", depth)+o.Kind())
		orders = append(orders, o.OrderString())
	})
	if got, want := strings.Join(kinds, ","), "Group,>Shape,>>Text"; got != want {
		t.Errorf("kinds = %s, want %s", got, want)
	}
	if got, want := strings.Join(orders, ","), "4,0,auto"; got != want {
		t.Errorf("orders = %s, want %s", got, want)
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportDocument(sample(t), filepath.Join(dir, "out", "schema"), "")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(path) != Extension {
		t.Errorf("path = %s, want %s extension", path, Extension)
	}
	doc, err := ImportDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Count() != 3 {
		t.Errorf("Count() = %d", doc.Count())
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ImportDocument(filepath.Join(dir, "missing.gliffy")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file: got %v, want NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad.gliffy")
	_ = os.WriteFile(bad, []byte(`{"contentType":"text/plain"}`), 0o644)
	if _, err := ImportDocument(bad); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("wrong content type: got %v, want INVALID_FORMAT", err)
	}

	if _, err := ReadDocument(strings.NewReader("{")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("truncated JSON: got %v, want INVALID_FORMAT", err)
	}
}

func TestExportRejectsEscapingPath(t *testing.T) {
	if _, err := ExportDocument(sample(t), "../../etc/doc.gliffy", ""); err == nil {
		t.Error("expected an error for an escaping path")
	}
}
