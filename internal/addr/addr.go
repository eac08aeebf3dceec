// Package addr classifies textual IP addresses as IPv4, IPv6 or invalid.
package addr

import (
	"net/netip"
	"strings"
)

// Kind is the address family detected by Classify.
type Kind int

const (
	Invalid Kind = iota
	V4
	V6
)

func (k Kind) String() string {
	switch k {
	case V4:
		return "ipv4"
	case V6:
		return "ipv6"
	default:
		return "invalid"
	}
}

const hexDigit = "0123456789abcdef"

// Address is the result of classifying a string.
type Address struct {
	Kind Kind
	IP   netip.Addr // zero for Invalid, never zoned
	Zone string     // IPv6 scope suffix, if any
}

// Classify parses s as a dotted-quad IPv4 address or an RFC 4291 IPv6
// address. IPv4-mapped IPv6 addresses are reported as V4.
func Classify(s string) Address {
	if s == "" || strings.TrimSpace(s) != s {
		return Address{Kind: Invalid}
	}

	ip, err := netip.ParseAddr(s)
	if err != nil {
		return Address{Kind: Invalid}
	}

	zone := ip.Zone()
	ip = ip.WithZone("")

	if ip.Is4() || ip.Is4In6() {
		if zone != "" {
			// ::ffff:1.2.3.4%eth0 has no IPv4 meaning
			return Address{Kind: Invalid}
		}
		return Address{Kind: V4, IP: ip.Unmap()}
	}
	return Address{Kind: V6, IP: ip, Zone: zone}
}

// Valid reports whether the address parsed as either family.
func (a Address) Valid() bool {
	return a.Kind != Invalid
}

// Octets returns the four octets of a V4 address.
func (a Address) Octets() ([4]byte, bool) {
	if a.Kind != V4 {
		return [4]byte{}, false
	}
	return a.IP.As4(), true
}

// Nibbles returns the 32 lowercase hex digits of a V6 address, most
// significant first and zero padded.
func (a Address) Nibbles() (string, bool) {
	if a.Kind != V6 {
		return "", false
	}
	b := a.IP.As16()
	buf := make([]byte, 0, 32)
	for _, v := range b {
		buf = append(buf, hexDigit[v>>4], hexDigit[v&0xF])
	}
	return string(buf), true
}

// String returns the normalized text form, or "" for Invalid.
func (a Address) String() string {
	if !a.Valid() {
		return ""
	}
	if a.Zone != "" {
		return a.IP.WithZone(a.Zone).String()
	}
	return a.IP.String()
}
