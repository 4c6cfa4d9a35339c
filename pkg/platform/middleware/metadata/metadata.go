package metadata

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"credex/pkg/requestcontext"
)

// MaxForwardedHeaderLength bounds X-Forwarded-For and X-Real-IP before they are parsed.
const MaxForwardedHeaderLength = 500

// Config holds configuration for the metadata middleware.
type Config struct {
	// TrustedProxies are the networks allowed to set X-Forwarded-For / X-Real-IP.
	// If empty, forwarding headers are never trusted.
	TrustedProxies []netip.Prefix
}

// Middleware resolves the client IP and User-Agent once per request.
type Middleware struct {
	trusted []netip.Prefix
}

func NewMiddleware(cfg Config) *Middleware {
	return &Middleware{trusted: cfg.TrustedProxies}
}

// Handler stores the resolved client metadata in the request context.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientIP(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) clientIP(r *http.Request) string {
	remote, ok := remoteAddr(r.RemoteAddr)
	if !ok {
		return "unknown"
	}
	if !m.isTrusted(remote) {
		return remote.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if forwarded, ok := firstForwarded(xff); ok {
			return forwarded.String()
		}
		return remote.String()
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if forwarded, ok := firstForwarded(xri); ok {
			return forwarded.String()
		}
	}
	return remote.String()
}

func (m *Middleware) isTrusted(addr netip.Addr) bool {
	for _, prefix := range m.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// firstForwarded returns the original client from a forwarding header chain.
func firstForwarded(header string) (netip.Addr, bool) {
	if len(header) > MaxForwardedHeaderLength {
		return netip.Addr{}, false
	}
	first, _, _ := strings.Cut(header, ",")
	addr, err := netip.ParseAddr(strings.TrimSpace(first))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func remoteAddr(hostport string) (netip.Addr, bool) {
	if hostport == "" {
		return netip.Addr{}, false
	}
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		host = strings.Trim(hostport, "[]")
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// ParseTrustedProxies parses a comma separated list of CIDRs or bare addresses.
func ParseTrustedProxies(list string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !strings.Contains(item, "/") {
			addr, err := netip.ParseAddr(item)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(item)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}
