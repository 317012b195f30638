package mw

import (
	"bytes"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache caches GET responses in memory and drops them on writes.
// Every write bumps a generation counter before and after it runs; a GET only
// stores its response if no write started or finished while it was being served.
type ResponseCache struct {
	store      *cache.Cache
	ttl        time.Duration
	generation atomic.Uint64
}

// NewResponseCache creates a cache whose entries live for ttl.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResponseCache{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Cache is a middleware for in-memory caching of GET requests, keyed by the request URI.
func (rc *ResponseCache) Cache() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if resp, found := rc.store.Get(key); found {
			cached := resp.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(cached.status)
			_, _ = c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		generation := rc.generation.Load()
		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only cache successful responses
		if blw.Status() < 200 || blw.Status() >= 300 {
			return
		}
		// A write overlapped this request, so the body may predate it.
		if rc.generation.Load() != generation {
			return
		}
		rc.store.Set(key, cachedResponse{
			status:  blw.Status(),
			headers: blw.Header().Clone(),
			body:    append([]byte(nil), blw.body.Bytes()...),
		}, rc.ttl)
	}
}

// Invalidate flushes the cache around every successful write request.
func (rc *ResponseCache) Invalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		rc.generation.Add(1)
		c.Next()
		rc.generation.Add(1)

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			rc.store.Flush()
		}
	}
}
