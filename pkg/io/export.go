package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/stage"
)

// Extension is the file extension of Gliffy documents.
const Extension = ".gliffy"

// WriteDocument writes the serialized stage to w. A non-empty indent
// pretty-prints the output.
func WriteDocument(s *stage.Stage, w io.Writer, indent string) error {
	data, err := s.JSON()
	if err != nil {
		return err
	}
	if indent != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", indent); err != nil {
			return fmt.Errorf("indent: %w", err)
		}
		data = buf.Bytes()
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportDocument writes the stage to path, creating parent directories.
// Paths without an extension get ".gliffy".
func ExportDocument(s *stage.Stage, path, indent string) (string, error) {
	var buf bytes.Buffer
	if err := WriteDocument(s, &buf, indent); err != nil {
		return "", err
	}
	return WriteFile(path, buf.Bytes())
}

// WriteFile writes serialized document bytes to path like ExportDocument
// and returns the final path.
func WriteFile(path string, data []byte) (string, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return "", err
	}
	if filepath.Ext(path) == "" {
		path += Extension
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
