package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"nirvachan/pkg/requestcontext"
)

// ClientMeta captures the client IP and a parsed user-agent summary so audit
// events can record where a sensitive action came from.
func ClientMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), clientIP(r), SummarizeUserAgent(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SummarizeUserAgent reduces a raw user-agent string to "Browser x.y on OS".
// Raw UA strings are high-entropy and not worth persisting verbatim.
func SummarizeUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "unknown"
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		return "unknown"
	}
	summary := name
	if version != "" {
		summary += " " + version
	}
	if os := ua.OS(); os != "" {
		summary += " on " + os
	}
	return summary
}

func clientIP(r *http.Request) string {
	// Trust the first hop of X-Forwarded-For when present; the service runs
	// behind a terminating proxy in deployment.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
