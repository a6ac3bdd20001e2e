package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"net/netip"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterPprof mounts /debug/pprof/* behind an IP allowlist.
func RegisterPprof(r chi.Router, allowed []string, logger *slog.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(IPAllowlist(allowed, logger))
		r.HandleFunc("/debug/pprof/*", pprof.Index)
		r.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		r.HandleFunc("/debug/pprof/profile", pprof.Profile)
		r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		r.HandleFunc("/debug/pprof/trace", pprof.Trace)
	})
}

// ParseAllowlist turns CIDRs or bare addresses into prefixes. Entries that
// parse as neither are returned separately.
func ParseAllowlist(entries []string) (prefixes []netip.Prefix, invalid []string) {
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		invalid = append(invalid, e)
	}
	return prefixes, invalid
}

// IPAllowlist rejects requests whose remote address is outside every allowed
// prefix with 403. Invalid entries are logged and skipped.
func IPAllowlist(allowed []string, logger *slog.Logger) func(http.Handler) http.Handler {
	prefixes, invalid := ParseAllowlist(allowed)
	for _, e := range invalid {
		logger.Warn("invalid allowlist entry, skipping", slog.String("entry", e))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !addrAllowed(prefixes, host) {
				logger.Warn("access denied by IP allowlist",
					slog.String("ip", host),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "FORBIDDEN",
						"message": "access restricted by IP allowlist",
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func addrAllowed(prefixes []netip.Prefix, host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
