// Package cache stores built documents and previews keyed by their inputs.
//
// A [Cache] is a byte store with optional expiry. [FileCache] backs the CLI,
// [RedisCache] backs shared deployments and [NullCache] disables caching.
// Keys are derived by a [Keyer] from a hash of the input and every option that
// changes the output, so identical requests hit the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value byte store.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the underlying resources.
	Close() error
}

// DocumentKeyOpts holds the options that change a built document.
type DocumentKeyOpts struct {
	Title      string `json:"title,omitempty"`
	Background string `json:"background,omitempty"`
	Format     string `json:"format,omitempty"`
	Indent     string `json:"indent,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DocumentKey keys a serialized document built from input by source
	// ("blueprint", "schema").
	DocumentKey(source string, input []byte, opts DocumentKeyOpts) string
	// PreviewKey keys an SVG preview of a document with the given hash.
	PreviewKey(documentHash string) string
}

// DefaultKeyer produces keys of the form "<kind>:<source>:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(source string, input []byte, opts DocumentKeyOpts) string {
	return hashKey("doc:"+source, Hash(input), opts)
}

// PreviewKey implements Keyer.
func (DefaultKeyer) PreviewKey(documentHash string) string {
	return "preview:" + documentHash
}

var _ Keyer = DefaultKeyer{}
