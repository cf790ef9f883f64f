package http

import (
	"bufio"
	"bytes"
	"errors"
	"log/slog"
	"mime"
	"net"
	"net/http"

	"github.com/aretw0/peek/internal/logging"
	"github.com/aretw0/peek/pkg/gate"
	"github.com/aretw0/peek/pkg/transport"
)

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	style  string
	logger *slog.Logger
}

// WithStyle sets the CSS applied to console labels.
func WithStyle(style string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.style = style
	}
}

// WithMiddlewareLogger sets the logger used to report dropped scripts and write failures.
func WithMiddlewareLogger(logger *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Middleware attaches the request and a script Collector to every request
// context. Once the handler returns, scripts collected for an HTML response
// are inserted before the closing </body> tag, or appended when there is none.
// Other responses are streamed through untouched.
func Middleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{style: transport.DefaultLabelStyle, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			collector := transport.NewCollector(cfg.style)
			ctx := gate.WithRequest(r.Context(), r)
			ctx = transport.WithCollector(ctx, collector)

			rb := &responseBuffer{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rb, r.WithContext(ctx))

			scripts := collector.Drain()
			if scripts != "" && !rb.inject {
				cfg.logger.Debug("debug scripts dropped for non-html response",
					"path", r.URL.Path, "content_type", w.Header().Get("Content-Type"))
			}
			if err := rb.finish(scripts); err != nil {
				cfg.logger.Warn("failed to write response", "path", r.URL.Path, "error", err)
			}
		})
	}
}

// responseBuffer holds back HTML bodies so scripts can be injected, and passes
// everything else straight to the client.
type responseBuffer struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	decided     bool
	inject      bool
	buf         bytes.Buffer
}

func (b *responseBuffer) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.wroteHeader = true
	b.status = code
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	if !b.decided {
		b.decide(p)
	}
	if b.inject {
		return b.buf.Write(p)
	}
	return b.ResponseWriter.Write(p)
}

func (b *responseBuffer) decide(p []byte) {
	b.decided = true
	h := b.Header()
	ct := h.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(p)
		h.Set("Content-Type", ct)
	}
	b.inject = isHTML(ct) && h.Get("Content-Encoding") == ""
	if !b.inject {
		b.ResponseWriter.WriteHeader(b.status)
	}
}

// Flush forwards to the client unless the body is being held back.
func (b *responseBuffer) Flush() {
	if b.inject {
		return
	}
	if !b.decided {
		b.decided = true
		b.ResponseWriter.WriteHeader(b.status)
	}
	if f, ok := b.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack supports websocket upgrades behind the middleware.
func (b *responseBuffer) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := b.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking not supported")
	}
	b.decided = true
	return h.Hijack()
}

func (b *responseBuffer) Unwrap() http.ResponseWriter {
	return b.ResponseWriter
}

func (b *responseBuffer) finish(scripts string) error {
	if !b.decided {
		// Handler wrote no body.
		b.decided = true
		if b.wroteHeader {
			b.ResponseWriter.WriteHeader(b.status)
		}
		return nil
	}
	if !b.inject {
		return nil
	}

	body := b.buf.Bytes()
	if scripts != "" {
		body = injectScripts(body, scripts)
		b.Header().Del("Content-Length")
	}
	b.ResponseWriter.WriteHeader(b.status)
	_, err := b.ResponseWriter.Write(body)
	return err
}

func injectScripts(body []byte, scripts string) []byte {
	i := max(bytes.LastIndex(body, []byte("</body>")), bytes.LastIndex(body, []byte("</BODY>")))
	if i < 0 {
		return append(body, scripts...)
	}
	out := make([]byte, 0, len(body)+len(scripts))
	out = append(out, body[:i]...)
	out = append(out, scripts...)
	return append(out, body[i:]...)
}

func isHTML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "text/html"
}
