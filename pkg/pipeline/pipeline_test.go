package pipeline

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/gliffydb/pkg/blueprint"
	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/observability"
	"github.com/matzehuels/gliffydb/pkg/sink"
)

const checkout = `
title = "checkout"

[[objects]]
kind = "rectangle"
name = "cart"

  [[objects.children]]
  kind = "text"
  text = "Cart"

[[objects]]
kind = "circle"
name = "payment"
x = 200

[[objects]]
kind = "line"
from = "cart"
to = "payment"
`

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestExecuteBlueprint(t *testing.T) {
	dir := t.TempDir()
	out, err := sink.NewFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	c := newMemCache()
	r := NewRunner(c, nil, out, nil)
	opts := Options{Blueprint: []byte(checkout), Format: blueprint.FormatTOML, Name: "checkout"}

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.DocumentHit {
		t.Error("first run reported a cache hit")
	}
	if res.Stage == nil {
		t.Fatal("Stage is nil after a fresh build")
	}
	if got := res.Stats.NodeCount; got != 4 {
		t.Errorf("NodeCount = %d, want 4", got)
	}
	if want := filepath.Join(dir, "checkout.gliffy"); res.Location != want {
		t.Errorf("Location = %q, want %q", res.Location, want)
	}
	stored, err := os.ReadFile(res.Location)
	if err != nil {
		t.Fatal(err)
	}
	if string(stored) != string(res.Document) {
		t.Error("stored file differs from the result document")
	}
	if !strings.Contains(string(res.Document), `"title":"checkout"`) {
		t.Errorf("document lacks title: %s", res.Document)
	}

	again, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.DocumentHit {
		t.Error("second run missed the cache")
	}
	if again.Stage != nil {
		t.Error("cached run should not rebuild the stage")
	}
	if again.Stats.NodeCount != 4 || again.Hash != res.Hash {
		t.Errorf("cached run = %d nodes, hash %s; want 4, %s", again.Stats.NodeCount, again.Hash, res.Hash)
	}

	opts.Refresh = true
	fresh, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.DocumentHit {
		t.Error("refresh run reported a cache hit")
	}
}

func TestExecuteIndent(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Blueprint: []byte(checkout), Indent: "  "})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(res.Document), "{\n  \"contentType\"") {
		t.Errorf("document not indented: %.40s", res.Document)
	}
	if res.Location != "" {
		t.Errorf("Location = %q without a sink", res.Location)
	}
}

func TestExecuteSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.ExecContext(ctx, `
		CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT);
		CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id));`)
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	c := newMemCache()
	r := NewRunner(c, nil, nil, nil)
	res, err := r.Execute(ctx, Options{Dialect: "sqlite", DSN: path, Title: "shop"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// per table: group, container, header + text, 2 columns + texts; one line
	if got, want := res.Stats.NodeCount, 2*8+1; got != want {
		t.Errorf("NodeCount = %d, want %d", got, want)
	}
	if len(c.data) != 0 {
		t.Errorf("schema documents were cached: %d entries", len(c.data))
	}
	if !strings.Contains(string(res.Document), `"title":"shop"`) {
		t.Error("title option not applied")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidArgument},
		{"two inputs", Options{Blueprint: []byte("x"), DSN: "x.db"}, errors.ErrCodeInvalidArgument},
		{"bad format", Options{Blueprint: []byte("x"), Format: "xml"}, errors.ErrCodeInvalidFormat},
		{"bad dialect", Options{DSN: "x", Dialect: "oracle"}, errors.ErrCodeUnsupported},
		{"bad table", Options{DSN: "x", Dialect: "sqlite", Tables: []string{"a;b"}}, errors.ErrCodeInvalidInput},
		{"bad name", Options{Blueprint: []byte(checkout), Name: "../x"}, errors.ErrCodeInvalidPath},
		{"bad blueprint", Options{Blueprint: []byte("objects = 3")}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.opts)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopDocumentHooks
	started  []string
	finished []int
}

func (h *recordingHooks) OnBuildStart(_ context.Context, source string) {
	h.started = append(h.started, source)
}

func (h *recordingHooks) OnBuildComplete(_ context.Context, _ string, nodes int, _ time.Duration, _ error) {
	h.finished = append(h.finished, nodes)
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetDocumentHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Blueprint: []byte(checkout)}); err != nil {
		t.Fatal(err)
	}
	if len(hooks.started) != 1 || hooks.started[0] != SourceBlueprint {
		t.Errorf("started = %v", hooks.started)
	}
	if len(hooks.finished) != 1 || hooks.finished[0] != 4 {
		t.Errorf("finished = %v, want [4]", hooks.finished)
	}
}
