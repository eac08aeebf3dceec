// Package render encodes a diagnostic record as block text, as a JSON
// document and as the HTML page that embeds both.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"reverseip/internal/diag"
)

const (
	banner = "╔════════════════════════════════════════════════════════════════╗\n" +
		"║               IP ADDRESS DIAGNOSTIC TOOL                       ║\n" +
		"╚════════════════════════════════════════════════════════════════╝\n"

	// sectionWidth is the rune width of a section's top and bottom border.
	sectionWidth = 63
)

// TimestampLayout formats Record.Timestamp in both renderings.
const TimestampLayout = time.RFC3339Nano

// Text renders the full diagnostic block. Values are written verbatim.
func Text(rec diag.Record) string {
	var b strings.Builder
	b.WriteString(banner)
	b.WriteString("\n")
	for _, s := range rec.Sections() {
		writeSection(&b, s)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "╭─ Timestamp: %s ─╮\n", rec.Timestamp.Format(TimestampLayout))
	return b.String()
}

// SectionText renders one bordered section.
func SectionText(s diag.Section) string {
	var b strings.Builder
	writeSection(&b, s)
	return b.String()
}

func writeSection(b *strings.Builder, s diag.Section) {
	// ┌─ TITLE ───┐ padded to sectionWidth runes
	fill := sectionWidth - 5 - utf8.RuneCountInString(s.Title)
	if fill < 1 {
		fill = 1
	}
	b.WriteString("┌─ " + s.Title + " " + strings.Repeat("─", fill) + "┐\n")

	for _, l := range s.Lines {
		if s.Name == diag.SectionHeaders {
			fmt.Fprintf(b, "│ %-18s: %s\n", l.Label, l.Value)
		} else {
			fmt.Fprintf(b, "│ %-20s%s\n", l.Label+":", l.Value)
		}
	}

	b.WriteString("└" + strings.Repeat("─", sectionWidth-2) + "┘\n")
}
