// Package sink persists serialized Gliffy documents.
//
// A [Sink] stores a document under a name and reports where it went: a file
// path, an afs URL, a redis key or a mongo document id. Empty names are
// replaced with a random uuid so callers can write anonymous documents.
//
// [Open] picks an implementation from a [Config]. The returned sink reports
// every write to the observability sink hooks.
package sink

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/observability"
)

// Sink stores serialized documents.
type Sink interface {
	// Write stores data under name and returns the location written.
	Write(ctx context.Context, name string, data []byte) (string, error)
	Close() error
}

// Sink kinds accepted by Open.
const (
	KindFile  = "file"
	KindAFS   = "afs"
	KindRedis = "redis"
	KindMongo = "mongo"
	KindNull  = "null"
)

// Config selects and configures a sink.
type Config struct {
	Kind string `toml:"kind"`

	// Dir is the output directory of the file sink.
	Dir string `toml:"dir"`
	// URL is the base URL of the afs sink, e.g. "mem://localhost/out" or
	// "s3://bucket/diagrams".
	URL string `toml:"url"`

	RedisAddr   string        `toml:"redis_addr"`
	RedisPrefix string        `toml:"redis_prefix"`
	RedisTTL    time.Duration `toml:"redis_ttl"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Default connection settings.
const (
	DefaultRedisPrefix     = "gliffydb:doc:"
	DefaultMongoDatabase   = "gliffydb"
	DefaultMongoCollection = "documents"
)

// Open creates the sink named by cfg.Kind. An empty kind is the file sink
// in the current directory.
func Open(ctx context.Context, cfg Config) (Sink, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	var (
		s   Sink
		err error
	)
	switch kind {
	case "", KindFile:
		kind = KindFile
		s, err = NewFileSink(cfg.Dir)
	case KindAFS:
		s, err = NewAFSSink(cfg.URL)
	case KindRedis:
		s, err = DialRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix, cfg.RedisTTL)
	case KindMongo:
		s, err = DialMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case KindNull, "none":
		kind = KindNull
		s = NullSink{}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown sink %q (want file, afs, redis, mongo or null)", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}
	return Observe(s, kind), nil
}

// documentName validates name, generating a uuid for the empty name.
func documentName(name string) (string, error) {
	if name == "" {
		return uuid.NewString(), nil
	}
	if err := errors.ValidateDocumentName(name); err != nil {
		return "", err
	}
	return name, nil
}

// NullSink discards documents.
type NullSink struct{}

// Write implements Sink. The location is always empty.
func (NullSink) Write(_ context.Context, name string, _ []byte) (string, error) {
	_, err := documentName(name)
	return "", err
}

// Close implements Sink.
func (NullSink) Close() error { return nil }

type observed struct {
	Sink
	kind string
}

// Observe wraps s so every write is reported to the sink hooks under kind.
func Observe(s Sink, kind string) Sink {
	return &observed{Sink: s, kind: kind}
}

func (o *observed) Write(ctx context.Context, name string, data []byte) (string, error) {
	start := time.Now()
	location, err := o.Sink.Write(ctx, name, data)
	observability.Sink().OnWrite(ctx, o.kind, location, len(data), time.Since(start), err)
	return location, err
}

var (
	_ Sink = NullSink{}
	_ Sink = (*observed)(nil)
)
