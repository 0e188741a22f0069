// Package htmltext turns evaluation feedback HTML into console text and
// pulls single sections out of it.
package htmltext

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Table: true, atom.Section: true,
}

// parseFragment parses s as body content. ParseFragment detaches the
// top-level nodes, so they are re-attached to keep sibling links.
func parseFragment(s string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return nodes, nil
}

// PlainText renders HTML as text with one line per block element. Input
// that does not parse is returned unchanged.
func PlainText(s string) string {
	nodes, err := parseFragment(s)
	if err != nil {
		return s
	}

	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
	}
	return tidy(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(strings.Join(strings.Fields(n.Data), " "))
		if strings.HasSuffix(n.Data, " ") {
			b.WriteByte(' ')
		}
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	if n.DataAtom == atom.Li {
		b.WriteString("- ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// tidy trims every line and collapses runs of blank lines
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// SectionByHeading finds the first heading of the given tag whose text
// contains one of keywords (case-insensitive) and returns its HTML together
// with every following sibling up to the next heading of the same tag.
func SectionByHeading(s string, tag atom.Atom, keywords ...string) (string, bool) {
	nodes, err := parseFragment(s)
	if err != nil {
		return "", false
	}

	heading := findHeading(nodes, tag, keywords)
	if heading == nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, heading); err != nil {
		return "", false
	}
	for sib := heading.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type == html.ElementNode && sib.DataAtom == tag {
			break
		}
		if sib.Type != html.ElementNode {
			continue
		}
		if err := html.Render(&buf, sib); err != nil {
			return "", false
		}
	}
	return buf.String(), true
}

func findHeading(nodes []*html.Node, tag atom.Atom, keywords []string) *html.Node {
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.DataAtom == tag && matches(textOf(n), keywords) {
			return n
		}
		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		if found := findHeading(children, tag, keywords); found != nil {
			return found
		}
	}
	return nil
}

func matches(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}

// VocabularySection is the feedback section saved as a flashcard
func VocabularySection(feedback string) (string, bool) {
	return SectionByHeading(feedback, atom.H4, "vocabulary", "language")
}
