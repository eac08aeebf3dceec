// Package reqview exposes the read-only facts about one inbound request
// that the diagnostic code consumes.
package reqview

import (
	"net"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
)

// Header is one request header. Repeated fields are folded into Value.
type Header struct {
	Name  string
	Value string
}

// View is an immutable snapshot of a request.
type View interface {
	// Header looks up a header case-insensitively.
	Header(name string) (string, bool)
	// Headers returns every header in a stable order.
	Headers() []Header

	RemoteAddr() string
	RemoteHost() string
	RemotePort() int

	Protocol() string
	Method() string
	Scheme() string
	ServerName() string
	ServerPort() int
	RequestURI() string
	QueryString() (string, bool)
}

// Static is a View backed by plain fields.
type Static struct {
	HeaderList    []Header
	Remote        string
	RemoteName    string // remote host name; Remote is used when empty
	Port          int
	Proto         string
	Verb          string
	URLScheme     string
	ServerHost    string
	ServerPortNum int
	URI           string
	Query         string
	HasQuery      bool
}

func (s *Static) Header(name string) (string, bool) {
	for _, h := range s.HeaderList {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

func (s *Static) Headers() []Header {
	out := make([]Header, len(s.HeaderList))
	copy(out, s.HeaderList)
	return out
}

func (s *Static) RemoteAddr() string { return s.Remote }

func (s *Static) RemoteHost() string {
	if s.RemoteName != "" {
		return s.RemoteName
	}
	return s.Remote
}

func (s *Static) RemotePort() int             { return s.Port }
func (s *Static) Protocol() string            { return s.Proto }
func (s *Static) Method() string              { return s.Verb }
func (s *Static) Scheme() string              { return s.URLScheme }
func (s *Static) ServerName() string          { return s.ServerHost }
func (s *Static) ServerPort() int             { return s.ServerPortNum }
func (s *Static) RequestURI() string          { return s.URI }
func (s *Static) QueryString() (string, bool) { return s.Query, s.HasQuery }

// FromHTTP snapshots r. The returned View does not retain r.
func FromHTTP(r *http.Request) View {
	s := &Static{
		Proto: r.Proto,
		Verb:  r.Method,
		URI:   r.URL.EscapedPath(),
	}

	s.Remote, s.Port = splitHostPort(r.RemoteAddr, 0)
	s.RemoteName = s.Remote

	s.URLScheme = "http"
	defaultPort := 80
	if r.TLS != nil {
		s.URLScheme = "https"
		defaultPort = 443
	}
	s.ServerHost, s.ServerPortNum = splitHostPort(r.Host, defaultPort)

	if r.URL.RawQuery != "" || r.URL.ForceQuery {
		s.Query = r.URL.RawQuery
		s.HasQuery = true
	}

	s.HeaderList = collectHeaders(r)
	return s
}

// collectHeaders flattens r's headers: Host first, then the rest sorted by
// canonical name.
func collectHeaders(r *http.Request) []Header {
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Header, 0, len(names)+1)
	if r.Host != "" {
		out = append(out, Header{Name: "Host", Value: r.Host})
	}
	for _, name := range names {
		if textproto.CanonicalMIMEHeaderKey(name) == "Host" {
			continue
		}
		out = append(out, Header{Name: name, Value: strings.Join(r.Header[name], ", ")})
	}
	return out
}

// splitHostPort splits "host:port", tolerating a missing or non-numeric
// port. Brackets around IPv6 hosts are removed.
func splitHostPort(hostport string, defaultPort int) (string, int) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return strings.Trim(hostport, "[]"), defaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, defaultPort
	}
	return host, port
}
