package reqview

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
)

func TestFromHTTP_ConnectionFields(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com:8080/path/x?a=1&b=2", nil)
	r.RemoteAddr = "203.0.113.7:52100"

	v := FromHTTP(r)

	if v.RemoteAddr() != "203.0.113.7" {
		t.Errorf("expected remote addr 203.0.113.7, got %q", v.RemoteAddr())
	}
	if v.RemoteHost() != "203.0.113.7" {
		t.Errorf("expected remote host to equal address, got %q", v.RemoteHost())
	}
	if v.RemotePort() != 52100 {
		t.Errorf("expected remote port 52100, got %d", v.RemotePort())
	}
	if v.Protocol() != "HTTP/1.1" {
		t.Errorf("expected HTTP/1.1, got %q", v.Protocol())
	}
	if v.Method() != "GET" {
		t.Errorf("expected GET, got %q", v.Method())
	}
	if v.Scheme() != "http" {
		t.Errorf("expected http, got %q", v.Scheme())
	}
	if v.ServerName() != "example.com" || v.ServerPort() != 8080 {
		t.Errorf("unexpected server %s:%d", v.ServerName(), v.ServerPort())
	}
	if v.RequestURI() != "/path/x" {
		t.Errorf("expected /path/x, got %q", v.RequestURI())
	}
	q, ok := v.QueryString()
	if !ok || q != "a=1&b=2" {
		t.Errorf("expected query a=1&b=2, got %q (%v)", q, ok)
	}
}

func TestFromHTTP_NoQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	if _, ok := FromHTTP(r).QueryString(); ok {
		t.Error("expected no query string")
	}
}

func TestFromHTTP_DefaultPortsByScheme(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	if p := FromHTTP(r).ServerPort(); p != 80 {
		t.Errorf("expected 80, got %d", p)
	}

	r = httptest.NewRequest("GET", "https://example.com/", nil)
	r.TLS = &tls.ConnectionState{}
	v := FromHTTP(r)
	if v.Scheme() != "https" || v.ServerPort() != 443 {
		t.Errorf("expected https:443, got %s:%d", v.Scheme(), v.ServerPort())
	}
}

func TestFromHTTP_IPv6Remote(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "[2001:db8::1]:443"

	v := FromHTTP(r)

	if v.RemoteAddr() != "2001:db8::1" || v.RemotePort() != 443 {
		t.Errorf("unexpected remote %s port %d", v.RemoteAddr(), v.RemotePort())
	}
}

func TestFromHTTP_RemoteWithoutPort(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "198.51.100.1"

	v := FromHTTP(r)

	if v.RemoteAddr() != "198.51.100.1" || v.RemotePort() != 0 {
		t.Errorf("unexpected remote %s port %d", v.RemoteAddr(), v.RemotePort())
	}
}

func TestFromHTTP_HeadersOrderedHostFirst(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	r.Header.Set("User-Agent", "curl/8.0")
	r.Header.Set("Accept", "*/*")
	r.Header.Add("X-Multi", "a")
	r.Header.Add("X-Multi", "b")

	headers := FromHTTP(r).Headers()

	expected := []Header{
		{"Host", "example.com"},
		{"Accept", "*/*"},
		{"User-Agent", "curl/8.0"},
		{"X-Multi", "a, b"},
	}
	if len(headers) != len(expected) {
		t.Fatalf("expected %d headers, got %d: %v", len(expected), len(headers), headers)
	}
	for i := range expected {
		if headers[i] != expected[i] {
			t.Errorf("header %d: expected %v, got %v", i, expected[i], headers[i])
		}
	}
}

func TestFromHTTP_HeaderLookupIsCaseInsensitive(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "198.51.100.9")

	v := FromHTTP(r)

	for _, name := range []string{"X-Forwarded-For", "x-forwarded-for", "X-FORWARDED-FOR"} {
		if got, ok := v.Header(name); !ok || got != "198.51.100.9" {
			t.Errorf("%s: expected header value, got %q (%v)", name, got, ok)
		}
	}
	if _, ok := v.Header("X-Missing"); ok {
		t.Error("expected missing header")
	}
}

func TestStatic_HeadersReturnsCopy(t *testing.T) {
	s := &Static{HeaderList: []Header{{"A", "1"}}}

	h := s.Headers()
	h[0].Value = "changed"

	if s.HeaderList[0].Value != "1" {
		t.Error("Headers should not expose internal slice")
	}
}

func TestStatic_RemoteHostFallsBackToAddress(t *testing.T) {
	s := &Static{Remote: "10.0.0.1"}
	if s.RemoteHost() != "10.0.0.1" {
		t.Errorf("unexpected remote host %q", s.RemoteHost())
	}

	s.RemoteName = "gateway.local"
	if s.RemoteHost() != "gateway.local" {
		t.Errorf("unexpected remote host %q", s.RemoteHost())
	}
}
