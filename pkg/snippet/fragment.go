package snippet

import (
	"strings"

	"github.com/beevik/etree"
)

// Fragment is one synthesized correction.
type Fragment struct {
	// Path is the affected library path or registry key, used to
	// order the report.
	Path string
	// Summary is the one-line explanation above the XML block.
	Summary string
	// Notes are additional plain-text lines: the duplicate-source
	// note, or the missing-feature-wiring warning.
	Notes []string
	// XML is the indented manifest fragment.
	XML string
}

// Message renders the fragment for the report: summary, notes, then
// the XML inside a comment block ready to paste next to the manifest.
func (f Fragment) Message() string {
	var b strings.Builder
	b.WriteString(f.Summary)
	for _, note := range f.Notes {
		b.WriteString("\nnote: ")
		b.WriteString(note)
	}
	b.WriteString("\n<!--\n")
	b.WriteString(f.XML)
	b.WriteString("-->")
	return b.String()
}

// render serializes a fragment document with 2-space indentation and
// exactly one trailing newline.
func render(doc *etree.Document) string {
	doc.Indent(2)
	out, _ := doc.WriteToString()
	return strings.TrimRight(out, "\n") + "\n"
}
