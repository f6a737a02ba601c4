package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/observability"
	"github.com/matzehuels/gliffydb/pkg/pipeline"
	"github.com/matzehuels/gliffydb/pkg/sink"
)

const blueprintJSON = `{
  "title": "api",
  "objects": [
    {"kind": "rectangle", "name": "a", "children": [{"kind": "text", "text": "A"}]},
    {"kind": "circle", "name": "b", "x": 200},
    {"kind": "line", "from": "a", "to": "b"}
  ]
}`

const blueprintYAML = `
title: api
objects:
  - kind: square
    name: a
`

func newServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	out, err := sink.NewFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, out, nil)).Handler())
	t.Cleanup(srv.Close)
	return srv, dir
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Version == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestCreateDocument(t *testing.T) {
	srv, dir := newServer(t)

	resp, err := http.Post(srv.URL+"/v1/documents?title=override", "application/json", strings.NewReader(blueprintJSON))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != ContentTypeGliffy {
		t.Errorf("Content-Type = %q", got)
	}
	if got := resp.Header.Get(HeaderNodes); got != "4" {
		t.Errorf("%s = %q, want 4", HeaderNodes, got)
	}
	if got := resp.Header.Get(HeaderLocation); got != "" {
		t.Errorf("document stored without store=true: %q", got)
	}
	var doc struct {
		ContentType string `json:"contentType"`
		Metadata    struct {
			Title string `json:"title"`
		} `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.ContentType != ContentTypeGliffy || doc.Metadata.Title != "override" {
		t.Errorf("doc = %+v", doc)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries, want 0", len(entries))
	}
}

func TestCreateDocumentStore(t *testing.T) {
	srv, dir := newServer(t)

	resp, err := http.Post(srv.URL+"/v1/documents?format=yaml&store=true&name=diagram", "text/plain", strings.NewReader(blueprintYAML))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	want := filepath.Join(dir, "diagram.gliffy")
	if got := resp.Header.Get(HeaderLocation); got != want {
		t.Errorf("%s = %q, want %q", HeaderLocation, got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("stored document missing: %v", err)
	}
}

func TestCreateDocumentErrors(t *testing.T) {
	srv, _ := newServer(t)

	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		status      int
		code        errors.Code
	}{
		{"empty body", "", "application/json", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed", "", "application/json", "{", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown content type", "", "application/xml", "<x/>", http.StatusUnsupportedMediaType, errors.ErrCodeUnsupported},
		{"unknown format", "?format=xml", "", "x", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad line target", "", "application/json", `{"objects":[{"kind":"line","from":"a","to":"b"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"group with properties", "", "application/json", `{"objects":[{"kind":"group","properties":{"x":1}}]}`, http.StatusUnprocessableEntity, errors.ErrCodeTypeConstraint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/documents"+tt.query, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code || body.Message == "" {
				t.Errorf("body = %+v, want code %s", body, tt.code)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[errors.Code]int{
		errors.ErrCodeInvalidPath:    http.StatusBadRequest,
		errors.ErrCodeValueCoercion:  http.StatusUnprocessableEntity,
		errors.ErrCodeNotFound:       http.StatusNotFound,
		errors.ErrCodeInternal:       http.StatusInternalServerError,
		errors.Code(""):              http.StatusInternalServerError,
		errors.ErrCodeInvalidFormat:  http.StatusBadRequest,
		errors.ErrCodeTypeConstraint: http.StatusUnprocessableEntity,
	}
	for code, want := range tests {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%q) = %d, want %d", code, got, want)
		}
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.statuses = append(h.statuses, status)
}

func TestObserveHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	h := New(pipeline.NewRunner(nil, nil, nil, nil)).Handler()
	for _, path := range []string{"/healthz", "/missing"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 404 {
		t.Errorf("statuses = %v, want [200 404]", hooks.statuses)
	}
}
