// Package clientip derives the originating client address of a request.
package clientip

import (
	"fmt"
	"net/netip"
	"strings"

	"reverseip/internal/reqview"
)

// ForwardedForHeader is the proxy chain header consulted by Resolve.
const ForwardedForHeader = "X-Forwarded-For"

// Resolve returns the first entry of X-Forwarded-For, trimmed, when the
// header is present and non-empty, and the transport peer address otherwise.
// The forwarded value is returned verbatim, without address validation.
func Resolve(v reqview.View) string {
	if first, ok := firstForwarded(v); ok {
		return first
	}
	return v.RemoteAddr()
}

// Resolver is Resolve restricted to forwarding headers set by known proxies.
// A zero Resolver trusts every peer.
type Resolver struct {
	trusted []netip.Prefix
}

// NewResolver builds a Resolver from IP or CIDR strings.
func NewResolver(proxies []string) (*Resolver, error) {
	r := &Resolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", p, err)
			}
			r.trusted = append(r.trusted, prefix.Masked())
			continue
		}
		ip, err := netip.ParseAddr(p)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", p, err)
		}
		ip = ip.Unmap()
		r.trusted = append(r.trusted, netip.PrefixFrom(ip, ip.BitLen()))
	}
	return r, nil
}

// Resolve behaves like the package-level Resolve, except that the forwarding
// header is ignored unless the peer is a trusted proxy.
func (r *Resolver) Resolve(v reqview.View) string {
	if r == nil || len(r.trusted) == 0 || r.isTrusted(v.RemoteAddr()) {
		return Resolve(v)
	}
	return v.RemoteAddr()
}

func (r *Resolver) isTrusted(remote string) bool {
	ip, err := netip.ParseAddr(remote)
	if err != nil {
		return false
	}
	ip = ip.WithZone("").Unmap()
	for _, p := range r.trusted {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

func firstForwarded(v reqview.View) (string, bool) {
	forwarded, ok := v.Header(ForwardedForHeader)
	if !ok || forwarded == "" {
		return "", false
	}
	first, _, _ := strings.Cut(forwarded, ",")
	return strings.TrimSpace(first), true
}
