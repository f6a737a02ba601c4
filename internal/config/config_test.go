package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sink.Kind != "file" || cfg.Server.Addr != DefaultAddr {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[document]
title = "Warehouse"
indent = "  "

[tables]
width = 240
show_types = true
bold_keys = false
line = { strokeColor = "#333333" }

[tables.column.text.css]
font-size = "10px"

[sink]
kind = "redis"
redis_addr = "localhost:6379"
redis_ttl = "2h"

[server]
addr = ":9000"
`)
	t.Setenv("GLIFFYDB_ADDR", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Document.Title != "Warehouse" || cfg.Document.Indent != "  " {
		t.Errorf("document = %+v", cfg.Document)
	}
	if cfg.Sink.Kind != "redis" || cfg.Sink.RedisTTL != 2*time.Hour {
		t.Errorf("sink = %+v", cfg.Sink)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	style := cfg.TableStyle()
	if style.Width != 240 || style.RowHeight != 24 {
		t.Errorf("style geometry = %dx%d", style.Width, style.RowHeight)
	}
	if style.ShowTypes == nil || !*style.ShowTypes {
		t.Error("show_types = true was not applied")
	}
	if style.BoldKeys == nil || *style.BoldKeys {
		t.Error("bold_keys = false did not override the default")
	}
	if style.Line["strokeColor"] != "#333333" || style.Line["endArrow"] != 1 {
		t.Errorf("line = %v, want merged over defaults", style.Line)
	}
	css := style.Column.Text["css"].(map[string]any)
	if css["font-size"] != "10px" || css["font-family"] != "Courier" {
		t.Errorf("column css = %v, want merged over defaults", css)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":      "[document\n",
		"unknown key": "[document]\ntitel = \"x\"\n",
		"bad style":   "[tables]\ngap = -1\n",
		"bad width":   "[tables]\nwidth = -5\n",
		"style typo":  "[tables.header.shapes]\nstrokeWidth = 2\n",
		"tables typo": "[tables]\nwidht = 10\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}

	_, err := Load(writeConfig(t, "[document\n"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("syntax error code = %q, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GLIFFYDB_SINK":       "afs",
		"GLIFFYDB_SINK_URL":   "mem://localhost/out",
		"GLIFFYDB_REDIS_ADDR": "redis:6379",
		"GLIFFYDB_ADDR":       ":1234",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Sink.Kind != "afs" || cfg.Sink.URL != "mem://localhost/out" {
		t.Errorf("sink = %+v", cfg.Sink)
	}
	if cfg.Cache.RedisAddr != "redis:6379" || cfg.Sink.RedisAddr != "redis:6379" {
		t.Errorf("redis addr not applied: %+v %+v", cfg.Cache, cfg.Sink)
	}
	if cfg.Server.Addr != ":1234" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Sink.Dir != "." {
		t.Errorf("unset variable changed dir to %q", cfg.Sink.Dir)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	if got, _ := Path(); got != "/tmp/cfg/gliffydb/config.toml" {
		t.Errorf("Path() = %q", got)
	}
	if got, _ := CacheDir(); got != "/tmp/cache/gliffydb" {
		t.Errorf("CacheDir() = %q", got)
	}
}

func TestWrite(t *testing.T) {
	cfg := Default()
	cfg.Document.Title = "Shop"
	var buf bytes.Buffer
	if err := cfg.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `title = "Shop"`) {
		t.Errorf("encoded config lacks title:\n%s", buf.String())
	}
}
