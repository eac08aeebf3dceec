// Package diag assembles the per-request diagnostic record shared by the
// text and JSON renderings.
package diag

import (
	"strconv"
	"time"

	"reverseip/internal/clientip"
	"reverseip/internal/ptr"
	"reverseip/internal/reqview"
)

// Section names, also used as JSON keys.
const (
	SectionIP         = "ip"
	SectionConnection = "connection"
	SectionHeaders    = "headers"
)

// Line is one labelled value. Key is the machine name, Label the display text.
type Line struct {
	Key   string
	Label string
	Value string
}

// Section is an ordered group of lines.
type Section struct {
	Name  string
	Title string
	Lines []Line
}

// Value returns the value stored under key.
func (s Section) Value(key string) (string, bool) {
	for _, l := range s.Lines {
		if l.Key == key {
			return l.Value, true
		}
	}
	return "", false
}

// Record is the full diagnostic for one request.
type Record struct {
	ClientIP   string
	Pointer    ptr.Pointer
	IP         Section
	Connection Section
	Headers    Section
	Timestamp  time.Time
}

// Sections returns the three sections in display order.
func (r Record) Sections() []Section {
	return []Section{r.IP, r.Connection, r.Headers}
}

// Assemble builds a Record from v. The view is only read.
func Assemble(v reqview.View, clientIP string, p ptr.Pointer, now time.Time) Record {
	rec := Record{
		ClientIP:  clientIP,
		Pointer:   p,
		Timestamp: now.UTC(),
	}

	rec.IP = Section{Name: SectionIP, Title: "IP INFORMATION"}
	rec.IP.add("detected", "Detected IP", clientIP)
	rec.IP.add("reversePointer", "Reverse Pointer", p.String())
	if fwd, ok := v.Header(clientip.ForwardedForHeader); ok && fwd != "" {
		rec.IP.add("forwardedFor", "X-Forwarded-For", fwd)
	}
	rec.IP.add("remoteAddress", "Remote Address", v.RemoteAddr())
	rec.IP.add("remoteHost", "Remote Host", v.RemoteHost())
	rec.IP.add("remotePort", "Remote Port", strconv.Itoa(v.RemotePort()))

	rec.Connection = Section{Name: SectionConnection, Title: "CONNECTION DETAILS"}
	rec.Connection.add("protocol", "Protocol", v.Protocol())
	rec.Connection.add("method", "Method", v.Method())
	rec.Connection.add("scheme", "Scheme", v.Scheme())
	rec.Connection.add("serverName", "Server Name", v.ServerName())
	rec.Connection.add("serverPort", "Server Port", strconv.Itoa(v.ServerPort()))
	rec.Connection.add("requestURI", "Request URI", v.RequestURI())
	if q, ok := v.QueryString(); ok {
		rec.Connection.add("queryString", "Query String", q)
	}

	headers := v.Headers()
	rec.Headers = Section{Name: SectionHeaders, Title: "HTTP HEADERS", Lines: make([]Line, 0, len(headers))}
	for _, h := range headers {
		rec.Headers.add(h.Name, h.Name, h.Value)
	}

	return rec
}

func (s *Section) add(key, label, value string) {
	s.Lines = append(s.Lines, Line{Key: key, Label: label, Value: value})
}

// Inspector runs the full pipeline for one request view.
type Inspector struct {
	// Resolver picks the client address; nil trusts every forwarding header.
	Resolver *clientip.Resolver
	// Now defaults to time.Now.
	Now func() time.Time
}

// Inspect resolves the client address, builds its reverse pointer and
// assembles the record.
func (in *Inspector) Inspect(v reqview.View) Record {
	now := time.Now
	if in.Now != nil {
		now = in.Now
	}
	ip := in.Resolver.Resolve(v)
	return Assemble(v, ip, ptr.FromString(ip), now())
}
