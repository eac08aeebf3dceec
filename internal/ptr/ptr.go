// Package ptr builds reverse-DNS pointer names (in-addr.arpa / ip6.arpa)
// from classified addresses. Names are constructed syntactically; no
// resolver is ever queried.
package ptr

import (
	"strings"

	"github.com/miekg/dns"

	"reverseip/internal/addr"
)

// Status tags the outcome of Build.
type Status int

const (
	OK Status = iota
	// Invalid means the input was neither an IPv4 nor an IPv6 address.
	Invalid
	// Unresolvable means the input parsed but no pointer name could be
	// derived from it (scoped IPv6, rejected by the name builder).
	Unresolvable
)

const (
	InvalidText      = "Invalid IP"
	UnresolvableText = "Unable to generate reverse pointer"
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Invalid:
		return "invalid"
	default:
		return "unresolvable"
	}
}

// Pointer is a reverse pointer name or the reason there is none.
type Pointer struct {
	Name   string
	Status Status
}

// String returns the pointer name, or the display sentinel for a failure.
func (p Pointer) String() string {
	switch p.Status {
	case OK:
		return p.Name
	case Invalid:
		return InvalidText
	default:
		return UnresolvableText
	}
}

// Build returns the reverse pointer for a. The root label's trailing dot is
// omitted: 1.2.3.4 yields "4.3.2.1.in-addr.arpa".
func Build(a addr.Address) Pointer {
	var labels int
	switch a.Kind {
	case addr.V4:
		labels = 4 + 2
	case addr.V6:
		if a.Zone != "" {
			return Pointer{Status: Unresolvable}
		}
		labels = 32 + 2
	default:
		return Pointer{Status: Invalid}
	}

	name, err := dns.ReverseAddr(a.IP.String())
	if err != nil {
		return Pointer{Status: Unresolvable}
	}
	if n, ok := dns.IsDomainName(name); !ok || n != labels {
		return Pointer{Status: Unresolvable}
	}
	return Pointer{Name: strings.TrimSuffix(name, "."), Status: OK}
}

// FromString classifies s and builds its pointer.
func FromString(s string) Pointer {
	return Build(addr.Classify(s))
}
