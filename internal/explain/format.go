// Package explain turns scorer explanation strings into display markup.
package explain

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AnalysisMarker separates the short summary from the detailed analysis
const AnalysisMarker = "Full analysis:"

// clauseLabels start a new clause of the detailed analysis
var clauseLabels = []string{"Review", "Feedback", "Image"}

// Format renders raw as a summary paragraph followed, when a detailed
// analysis is present, by a list with one item per labeled clause.
// Text content is escaped. An empty raw yields an empty string.
func Format(raw string) string {
	if raw == "" {
		return ""
	}

	summary, detail, _ := strings.Cut(raw, AnalysisMarker)

	var b strings.Builder
	render(&b, element(atom.P, collapse(summary)))

	if detail != "" {
		list := element(atom.Ul, "")
		for _, clause := range SplitClauses(detail) {
			if text := collapse(clause); text != "" {
				list.AppendChild(element(atom.Li, text))
			}
		}
		render(&b, list)
	}

	return b.String()
}

// SplitClauses splits detail at semicolons that are followed, after optional
// whitespace, by a clause label. Other semicolons stay inside their segment.
func SplitClauses(detail string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(detail); i++ {
		if detail[i] != ';' {
			continue
		}
		if startsWithLabel(strings.TrimLeftFunc(detail[i+1:], unicode.IsSpace)) {
			segments = append(segments, detail[start:i])
			start = i + 1
		}
	}
	return append(segments, detail[start:])
}

func startsWithLabel(s string) bool {
	for _, label := range clauseLabels {
		if strings.HasPrefix(s, label) {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func element(a atom.Atom, text string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}

// render writes n to b. Rendering to a strings.Builder cannot fail.
func render(b *strings.Builder, n *html.Node) {
	_ = html.Render(b, n)
}
