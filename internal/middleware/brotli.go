package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

type BrotliConfig struct {
	Quality   int
	Skipper   func(c *gin.Context) bool
	MinLength int
}

var DefaultBrotliConfig = BrotliConfig{
	Quality:   brotli.DefaultCompression,
	MinLength: 1024,
}

// compressibleTypes are the Content-Type prefixes worth compressing.
// Uploaded images are already compressed.
var compressibleTypes = []string{
	"application/json",
	"application/javascript",
	"text/",
	"image/svg+xml",
}

// brotliWriter buffers the body until MinLength bytes are seen, then
// decides once whether to compress the rest of the response.
type brotliWriter struct {
	gin.ResponseWriter
	pool      *sync.Pool
	bw        *brotli.Writer
	buf       []byte
	minLength int
	decided   bool
	compress  bool
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	if w.decided {
		if w.compress {
			return w.bw.Write(data)
		}
		return w.ResponseWriter.Write(data)
	}

	w.buf = append(w.buf, data...)
	if len(w.buf) < w.minLength {
		return len(data), nil
	}
	if err := w.start(true); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush is called by streaming endpoints. An undecided body goes out
// uncompressed.
func (w *brotliWriter) Flush() {
	if !w.decided {
		_ = w.start(false)
	} else if w.compress {
		_ = w.bw.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *brotliWriter) start(compress bool) error {
	w.decided = true
	w.compress = compress && w.compressible()

	buf := w.buf
	w.buf = nil

	if !w.compress {
		if len(buf) == 0 {
			return nil
		}
		_, err := w.ResponseWriter.Write(buf)
		return err
	}

	h := w.ResponseWriter.Header()
	h.Set("Content-Encoding", "br")
	h.Del("Content-Length")
	w.bw = w.pool.Get().(*brotli.Writer)
	w.bw.Reset(w.ResponseWriter)
	_, err := w.bw.Write(buf)
	return err
}

func (w *brotliWriter) finish() error {
	if !w.decided {
		return w.start(false)
	}
	if !w.compress {
		return nil
	}
	err := w.bw.Close()
	w.bw.Reset(io.Discard)
	w.pool.Put(w.bw)
	w.bw = nil
	return err
}

func (w *brotliWriter) compressible() bool {
	status := w.ResponseWriter.Status()
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified {
		return false
	}
	h := w.ResponseWriter.Header()
	if h.Get("Content-Encoding") != "" {
		return false
	}
	ct := h.Get("Content-Type")
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(DefaultBrotliConfig)
}

func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < brotli.BestSpeed || cfg.Quality > brotli.BestCompression {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}

	pool := &sync.Pool{
		New: func() any {
			return brotli.NewWriterLevel(io.Discard, cfg.Quality)
		},
	}

	return func(c *gin.Context) {
		if shouldSkip(c) || (cfg.Skipper != nil && cfg.Skipper(c)) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		w := &brotliWriter{
			ResponseWriter: c.Writer,
			pool:           pool,
			minLength:      cfg.MinLength,
		}
		c.Writer = w
		defer func() {
			if err := w.finish(); err != nil {
				_ = c.Error(err)
			}
			c.Writer = w.ResponseWriter
		}()

		c.Next()
	}
}

// shouldSkip returns true for protocols that are incompatible with
// buffered compression and must be passed through untouched.
func shouldSkip(c *gin.Context) bool {
	if c.Request.Method == http.MethodHead {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		return true
	}
	// The Upgrade handshake fails if the response is wrapped.
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return true
	}
	return false
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		// Strip any quality value such as "br;q=0.8".
		name, q, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if !strings.EqualFold(strings.TrimSpace(name), "br") {
			continue
		}
		return strings.TrimSpace(q) != "q=0"
	}
	return false
}
