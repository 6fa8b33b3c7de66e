package registry

import (
	"fmt"
	"os"

	"github.com/antchfx/xmlquery"
)

// xmlDoc wraps the parsed document, giving the rest of the package
// XPath-style random access (Find/FindOne) instead of a hand-rolled path
// walker. It holds only the parsed tree: readXML owns the single *os.File
// opened for the duration of parsing and closes it before returning, win or
// lose.
type xmlDoc struct {
	root *xmlquery.Node
}

// readXML opens path and parses it into an xmlDoc. A missing or unreadable
// file yields ErrIO; malformed XML yields ErrParse.
func readXML(path string) (*xmlDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}
	defer f.Close()

	root, err := xmlquery.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return &xmlDoc{root: root}, nil
}

// find returns every node matching the XPath expression, rooted at the
// document.
func (d *xmlDoc) find(expr string) []*xmlquery.Node {
	return xmlquery.Find(d.root, expr)
}

// findOne returns the first node matching expr, or nil.
func (d *xmlDoc) findOne(expr string) *xmlquery.Node {
	return xmlquery.FindOne(d.root, expr)
}

// attr returns the named attribute of n, or def if absent.
func attr(n *xmlquery.Node, name, def string) string {
	if n == nil {
		return def
	}
	v := n.SelectAttr(name)
	if v == "" {
		return def
	}
	return v
}

// hasAttr reports whether n declares the named attribute at all
// (distinguishing "absent" from "present but empty").
func hasAttr(n *xmlquery.Node, name string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}

// childElement returns the first direct child element named tag, or nil.
func childElement(n *xmlquery.Node, tag string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// childElements returns every direct child element named tag, in document
// order.
func childElements(n *xmlquery.Node, tag string) []*xmlquery.Node {
	var out []*xmlquery.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

// text returns the immediate text content of n — the concatenation of its
// direct TextNode children, not the InnerText of nested elements.
func text(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	s := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.TextNode {
			s += c.Data
		}
	}
	return s
}
