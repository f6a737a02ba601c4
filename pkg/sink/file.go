package sink

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/gliffydb/pkg/errors"
	gio "github.com/matzehuels/gliffydb/pkg/io"
)

// FileSink writes documents as <dir>/<name>.gliffy.
type FileSink struct {
	dir string
}

// NewFileSink creates the sink, creating dir if needed. An empty dir is the
// current directory.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := errors.ValidateOutputPath(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}
	return &FileSink{dir: dir}, nil
}

// Dir returns the output directory.
func (s *FileSink) Dir() string { return s.dir }

// Write implements Sink and returns the file path.
func (s *FileSink) Write(_ context.Context, name string, data []byte) (string, error) {
	name, err := documentName(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, name+gio.Extension)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return path, nil
}

// Close implements Sink.
func (s *FileSink) Close() error { return nil }

var _ Sink = (*FileSink)(nil)
