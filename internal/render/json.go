package render

import (
	"encoding/json"
	"strconv"

	"reverseip/internal/diag"
)

// Document is the JSON bootstrap consumed by the interactive terminal view.
type Document struct {
	IP         IPInfo            `json:"ip"`
	Connection ConnectionInfo    `json:"connection"`
	Headers    map[string]string `json:"headers"`
	Formatted  Formatted         `json:"formatted"`
	Metadata   Metadata          `json:"metadata"`
}

type IPInfo struct {
	Detected       string `json:"detected"`
	ReversePointer string `json:"reversePointer"`
	ForwardedFor   string `json:"forwardedFor,omitempty"`
	RemoteAddress  string `json:"remoteAddress"`
	RemoteHost     string `json:"remoteHost"`
	RemotePort     int    `json:"remotePort"`
}

type ConnectionInfo struct {
	Protocol    string  `json:"protocol"`
	Method      string  `json:"method"`
	Scheme      string  `json:"scheme"`
	ServerName  string  `json:"serverName"`
	ServerPort  int     `json:"serverPort"`
	RequestURI  string  `json:"requestURI"`
	QueryString *string `json:"queryString,omitempty"`
}

// Formatted carries the pre-rendered text blocks.
type Formatted struct {
	IP         string `json:"ip"`
	Connection string `json:"connection"`
	Headers    string `json:"headers"`
	All        string `json:"all"`
}

type Metadata struct {
	Timestamp     string `json:"timestamp"`
	PointerStatus string `json:"pointerStatus"`
}

// NewDocument converts rec into its JSON shape.
func NewDocument(rec diag.Record) Document {
	value := func(s diag.Section, key string) string {
		v, _ := s.Value(key)
		return v
	}
	number := func(s diag.Section, key string) int {
		n, _ := strconv.Atoi(value(s, key))
		return n
	}

	doc := Document{
		IP: IPInfo{
			Detected:       value(rec.IP, "detected"),
			ReversePointer: value(rec.IP, "reversePointer"),
			ForwardedFor:   value(rec.IP, "forwardedFor"),
			RemoteAddress:  value(rec.IP, "remoteAddress"),
			RemoteHost:     value(rec.IP, "remoteHost"),
			RemotePort:     number(rec.IP, "remotePort"),
		},
		Connection: ConnectionInfo{
			Protocol:   value(rec.Connection, "protocol"),
			Method:     value(rec.Connection, "method"),
			Scheme:     value(rec.Connection, "scheme"),
			ServerName: value(rec.Connection, "serverName"),
			ServerPort: number(rec.Connection, "serverPort"),
			RequestURI: value(rec.Connection, "requestURI"),
		},
		Headers: make(map[string]string, len(rec.Headers.Lines)),
		Formatted: Formatted{
			IP:         SectionText(rec.IP),
			Connection: SectionText(rec.Connection),
			Headers:    SectionText(rec.Headers),
			All:        Text(rec),
		},
		Metadata: Metadata{
			Timestamp:     rec.Timestamp.Format(TimestampLayout),
			PointerStatus: rec.Pointer.Status.String(),
		},
	}

	if q, ok := rec.Connection.Value("queryString"); ok {
		doc.Connection.QueryString = &q
	}
	for _, l := range rec.Headers.Lines {
		doc.Headers[l.Label] = l.Value
	}
	return doc
}

// JSON encodes rec. Quotes, backslashes, control characters and <, >, &
// are escaped, so the result can be placed inside a script element.
func JSON(rec diag.Record) ([]byte, error) {
	return json.Marshal(NewDocument(rec))
}
