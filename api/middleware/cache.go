package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/industrialpartner/storefront-backend/pkg/logger"
)

// responseCache is the slice of the redis client the TTL cache needs.
type responseCache interface {
	GetCached(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(scope, id string) string
}

type cachingRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *cachingRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *cachingRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// ResponseCache caches whole successful responses under scope + request URI
// for the given TTL. A cache backend failure falls through to the handler.
func ResponseCache(cache responseCache, scope string, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || cache == nil || ttl <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := cache.CacheKey(scope, r.URL.RequestURI())

			cached, hit, err := cache.GetCached(ctx, key)
			if err != nil && logg != nil {
				logg.Warn(logg.WithField(ctx, "cache_key", key), "response cache read failed")
			}
			if hit {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "hit")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(cached))
				return
			}

			rec := &cachingRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			if rec.status != http.StatusOK {
				return
			}
			if err := cache.Set(ctx, key, rec.body.String(), ttl); err != nil && logg != nil {
				logg.Warn(logg.WithField(ctx, "cache_key", key), "response cache write failed")
			}
		})
	}
}
