package sink

import (
	"bytes"
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/matzehuels/gliffydb/pkg/errors"
	gio "github.com/matzehuels/gliffydb/pkg/io"
)

// AFSSink uploads documents below a base URL through viant/afs, so any
// registered scheme works ("file://", "mem://", "s3://", "gs://").
type AFSSink struct {
	fs   afs.Service
	base string
}

// NewAFSSink creates a sink rooted at baseURL.
func NewAFSSink(baseURL string) (*AFSSink, error) {
	if baseURL == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "afs sink needs a base URL")
	}
	return &AFSSink{fs: afs.New(), base: baseURL}, nil
}

// URL returns the location a document name is written to.
func (s *AFSSink) URL(name string) string {
	return url.Join(s.base, name+gio.Extension)
}

// Write implements Sink and returns the document URL.
func (s *AFSSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	name, err := documentName(name)
	if err != nil {
		return "", err
	}
	location := s.URL(name)
	err = RetryWithBackoff(ctx, func() error {
		return Retryable(s.fs.Upload(ctx, location, 0o644, bytes.NewReader(data)))
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "upload %s", location)
	}
	return location, nil
}

// Read downloads a previously written document.
func (s *AFSSink) Read(ctx context.Context, name string) ([]byte, error) {
	location := s.URL(name)
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "download %s", location)
	}
	return data, nil
}

// Close implements Sink.
func (s *AFSSink) Close() error { return nil }

var _ Sink = (*AFSSink)(nil)
