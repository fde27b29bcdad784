package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/heritagecrafts/platform/backend/internal/domain/providers"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware caches whole GET responses in the shared cache.
// Search responses are cached briefly; suggestions even shorter since
// popular queries shift during the day. Personalized requests carry
// user_id in the query string and therefore get per-user entries.
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a cache middleware with the default route
// configuration
func NewCacheMiddleware(cache providers.CacheProvider) *CacheMiddleware {
	return &CacheMiddleware{
		cache: cache,
		routeConfigs: map[string]CacheConfig{
			"/api/search":           {TTLSeconds: 120, Enabled: true},
			"/api/suggestions":      {TTLSeconds: 60, Enabled: true},
			"/api/trending/":        {TTLSeconds: 300, Enabled: true},
			"/api/analytics/search": {TTLSeconds: 600, Enabled: true},
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.routeConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := m.cacheKey(r)
		logger := observability.LoggerFromContext(r.Context())

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache response")
			}
		}
	})
}

// routeConfig resolves the cache configuration for a path, trying an
// exact match before prefix patterns
func (m *CacheMiddleware) routeConfig(path string) CacheConfig {
	if config, exists := m.routeConfigs[path]; exists {
		return config
	}
	for pattern, config := range m.routeConfigs {
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) {
			return config
		}
	}
	return CacheConfig{Enabled: false}
}

// cacheKey hashes method, path and query string
func (m *CacheMiddleware) cacheKey(r *http.Request) string {
	key := fmt.Sprintf("%s:%s", r.Method, r.URL.Path)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	hash := sha256.Sum256([]byte(key))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
