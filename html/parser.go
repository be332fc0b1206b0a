// Package html bridges markup and the dom package, using golang.org/x/net/html
// as the underlying parser, and provides a helper for building HTML forms
// from key/value data.
package html

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/domlife/domlife/dom"
	"github.com/domlife/domlife/loop"
)

// ParseFragment parses markup in body context and returns a detached
// DocumentFragment owned by doc. Nothing in the fragment is connected, so no
// lifecycle hooks run until the fragment is inserted into the document.
func ParseFragment(doc *dom.Document, markup string) (*dom.DocumentFragment, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}

	frag := doc.CreateDocumentFragment()
	for _, src := range parsed {
		convertTree(src, frag.AsNode(), doc)
	}
	return frag, nil
}

// ParseDocument parses a complete HTML document. The returned document drives
// deferred work through lp (nil means a private loop), like dom.NewDocument.
// Lifecycle hooks run during the conversion: an iframe in the markup has a
// live browsing context by the time ParseDocument returns.
func ParseDocument(lp *loop.Loop, markup string) (*dom.Document, error) {
	parsed, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	doc := dom.NewDocument(lp)
	for src := parsed.FirstChild; src != nil; src = src.NextSibling {
		convertTree(src, doc.AsNode(), doc)
	}
	return doc, nil
}

// SetInner replaces el's children with the parse result of markup, as one
// batch mutation.
func SetInner(el *dom.Element, markup string) error {
	doc := el.AsNode().OwnerDocument()
	if doc == nil {
		return dom.ErrNotSupported("The element has no owner document.")
	}
	frag, err := ParseFragment(doc, markup)
	if err != nil {
		return err
	}
	return el.AsNode().ReplaceChildrenWithError(frag.AsNode())
}

// convertTree converts an html.Node subtree into dom nodes under parent.
func convertTree(src *html.Node, parent *dom.Node, doc *dom.Document) {
	switch src.Type {
	case html.TextNode:
		parent.AppendChild(doc.CreateTextNode(src.Data))

	case html.ElementNode:
		el := doc.CreateElement(src.Data)
		for _, attr := range src.Attr {
			el.SetAttribute(attr.Key, attr.Val)
		}
		node := el.AsNode()
		for child := src.FirstChild; child != nil; child = child.NextSibling {
			convertTree(child, node, doc)
		}
		parent.AppendChild(node)

	case html.CommentNode:
		parent.AppendChild(doc.CreateComment(src.Data))

	case html.DoctypeNode:
		parent.AppendChild(doc.CreateDocumentType(src.Data))

	case html.DocumentNode:
		for child := src.FirstChild; child != nil; child = child.NextSibling {
			convertTree(child, parent, doc)
		}
	}
}

// voidElements are elements serialized without an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Serialize renders a node and its descendants as HTML markup. Documents and
// fragments render their children.
func Serialize(n *dom.Node) string {
	var sb strings.Builder
	serializeNode(&sb, n)
	return sb.String()
}

// SerializeChildren renders only the node's children, i.e. its inner HTML.
func SerializeChildren(n *dom.Node) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		serializeNode(&sb, child)
	}
	return sb.String()
}

func serializeNode(sb *strings.Builder, n *dom.Node) {
	switch n.NodeType() {
	case dom.TextNode:
		sb.WriteString(html.EscapeString(n.NodeValue()))

	case dom.CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.NodeValue())
		sb.WriteString("-->")

	case dom.DocumentTypeNode:
		sb.WriteString("<!DOCTYPE ")
		sb.WriteString(n.NodeName())
		sb.WriteString(">")

	case dom.ElementNode:
		el := n.AsElement()
		name := el.LocalName()
		sb.WriteString("<")
		sb.WriteString(name)
		for _, attr := range el.Attributes() {
			sb.WriteString(" ")
			sb.WriteString(attr.Name)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(attr.Value))
			sb.WriteString(`"`)
		}
		sb.WriteString(">")
		if voidElements[name] {
			return
		}
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			serializeNode(sb, child)
		}
		sb.WriteString("</")
		sb.WriteString(name)
		sb.WriteString(">")

	case dom.DocumentNode, dom.DocumentFragmentNode:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			serializeNode(sb, child)
		}
	}
}
