// CLAUDE:SUMMARY Builds a dom.Document from raw HTML via x/net/html — structure only, no geometry.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML builds a Document from an HTML snapshot. The result carries
// structure, attributes and text but no geometry or JS properties, so it
// supports path re-resolution and report rendering, not hit testing.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse html: %w", err)
	}

	doc := &Document{}

	body := findByAtom(root, atom.Body)
	if body == nil {
		return nil, fmt.Errorf("dom: no body element")
	}
	doc.Body = convertElement(body)
	doc.ScriptSrcs = collectScriptSrcs(root)
	return doc, nil
}

// ParseHTMLString is a convenience wrapper around ParseHTML.
func ParseHTMLString(s string) (*Document, error) {
	return ParseHTML(strings.NewReader(s))
}

func convertElement(n *html.Node) *Element {
	el := &Element{
		Tag:   strings.ToLower(n.Data),
		Attrs: make(map[string]string, len(n.Attr)),
	}
	for _, a := range n.Attr {
		el.Attrs[a.Key] = a.Val
	}
	el.ID = el.Attrs["id"]
	if cls := el.Attrs["class"]; cls != "" {
		el.Classes = strings.Fields(cls)
	}

	var text []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				text = append(text, t)
			}
		case html.ElementNode:
			el.AppendChild(convertElement(c))
		}
	}
	el.Text = strings.Join(text, " ")

	var buf bytes.Buffer
	if err := html.Render(&buf, n); err == nil {
		el.OuterHTML = buf.String()
	}
	return el
}

func findByAtom(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func collectScriptSrcs(root *html.Node) []string {
	var srcs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			for _, a := range n.Attr {
				if a.Key == "src" && a.Val != "" {
					srcs = append(srcs, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return srcs
}
