package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"reverseip/internal/diag"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// DefaultTitle is shown in the page title and terminal prompt.
const DefaultTitle = "PublicIP.org"

type pageData struct {
	Title string
	Text  string
	Data  template.JS
}

// Page writes the HTML view of rec to w. The text block is HTML-escaped;
// the JSON document is embedded as-is since JSON escapes <, > and &.
func Page(w io.Writer, title string, rec diag.Record) error {
	doc, err := JSON(rec)
	if err != nil {
		return fmt.Errorf("encode diagnostic document: %w", err)
	}
	if title == "" {
		title = DefaultTitle
	}
	return pageTemplate.Execute(w, pageData{
		Title: title,
		Text:  Text(rec),
		Data:  template.JS(doc),
	})
}
