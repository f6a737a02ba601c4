package sink

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

// RedisSink stores documents as redis strings under prefix+name.
type RedisSink struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisSink wraps client. A zero ttl keeps documents forever.
func NewRedisSink(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisSink {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisSink{client: client, prefix: prefix, ttl: ttl}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr, prefix string, ttl time.Duration) (*RedisSink, error) {
	if addr == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "redis sink needs an address")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to redis at %s", addr)
	}
	return NewRedisSink(client, prefix, ttl), nil
}

// Key returns the redis key of a document name.
func (s *RedisSink) Key(name string) string { return s.prefix + name }

// Write implements Sink and returns the redis key.
func (s *RedisSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	name, err := documentName(name)
	if err != nil {
		return "", err
	}
	key := s.Key(name)
	err = RetryWithBackoff(ctx, func() error {
		return Retryable(s.client.Set(ctx, key, data, s.ttl).Err())
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "redis set %s", key)
	}
	return key, nil
}

// Close closes the client.
func (s *RedisSink) Close() error { return s.client.Close() }

var _ Sink = (*RedisSink)(nil)
