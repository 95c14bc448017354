// Package middleware contains http middlewares shared by routes.
package middleware

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("layer", "http").WithField("package", "middleware")

// Storage keeps cached responses.
type Storage interface {
	Get(ctx context.Context, key string) []byte
	Set(ctx context.Context, key string, content []byte, duration time.Duration)
}

// RedisStorage is a Storage over redis.
type RedisStorage struct {
	rdb    redis.Cmdable
	prefix string
}

// NewRedisStorage creates new instance of RedisStorage.
func NewRedisStorage(rdb redis.Cmdable, prefix string) *RedisStorage {
	return &RedisStorage{
		rdb:    rdb,
		prefix: prefix,
	}
}

// Get implements Storage.
func (s *RedisStorage) Get(ctx context.Context, key string) []byte {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("failed to get cached response")
		}
		return nil
	}
	return b
}

// Set implements Storage.
func (s *RedisStorage) Set(ctx context.Context, key string, content []byte, duration time.Duration) {
	if err := s.rdb.Set(ctx, s.prefix+key, content, duration).Err(); err != nil {
		log.WithError(err).Warn("failed to cache response")
	}
}

// Cached serves GET requests from storage keyed by request uri.
// Only 200 responses are stored.
func Cached(storage Storage, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			if content := storage.Get(r.Context(), r.RequestURI); content != nil {
				if status, header, body, ok := decodePayload(content); ok {
					for k, v := range header {
						w.Header()[k] = v
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(status)
					_, _ = w.Write(body)
					return
				}
			}

			c := httptest.NewRecorder()
			next.ServeHTTP(c, r)

			for k, v := range c.Header() {
				w.Header()[k] = v
			}
			w.Header().Set("X-Cache", "MISS")
			w.WriteHeader(c.Code)

			body := c.Body.Bytes()
			if c.Code == http.StatusOK {
				if payload, err := encodePayload(c.Code, c.Header(), body); err == nil {
					storage.Set(context.Background(), r.RequestURI, payload, ttl)
				}
			}

			_, _ = w.Write(body)
		})
	}
}

// encodePayload packs [4 bytes status][4 bytes header length][header json][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	h := make(http.Header, len(header))
	for k, v := range header {
		if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") {
			continue
		}
		h[k] = v
	}

	hdr, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], body)

	return out, nil
}

func decodePayload(b []byte) (int, http.Header, []byte, bool) {
	if len(b) < 8 {
		return 0, nil, nil, false
	}

	status := int(binary.BigEndian.Uint32(b[0:4]))
	n := int(binary.BigEndian.Uint32(b[4:8]))
	if n < 0 || 8+n > len(b) {
		return 0, nil, nil, false
	}

	header := make(http.Header)
	if n > 0 {
		if err := json.Unmarshal(b[8:8+n], &header); err != nil {
			return 0, nil, nil, false
		}
	}

	return status, header, b[8+n:], true
}
