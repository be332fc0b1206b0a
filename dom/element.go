package dom

import "strings"

// Element represents an element node.
type Element Node

// Attribute is a single name/value pair on an element. Attributes keep their
// set order, matching serialized output to insertion order.
type Attribute struct {
	Name  string
	Value string
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName  string
	tagName    string
	attributes []Attribute

	// Live embedded browsing context, non-nil only while the element is
	// connected (or while its deferred teardown is still pending).
	frame *BrowsingContext
}

// AsNode returns the underlying Node.
func (el *Element) AsNode() *Node {
	return (*Node)(el)
}

// AsElement returns the Element view of this node, or nil for non-elements.
func (n *Node) AsElement() *Element {
	if n == nil || n.nodeType != ElementNode {
		return nil
	}
	return (*Element)(n)
}

// NodeType returns ElementNode (1).
func (el *Element) NodeType() NodeType {
	return ElementNode
}

// TagName returns the tag name in uppercase, e.g. "IFRAME".
func (el *Element) TagName() string {
	return el.AsNode().elementData.tagName
}

// LocalName returns the lowercase tag name, e.g. "iframe".
func (el *Element) LocalName() string {
	return el.AsNode().elementData.localName
}

// Id returns the value of the id attribute.
func (el *Element) Id() string {
	return el.GetAttribute("id")
}

// SetId sets the id attribute.
func (el *Element) SetId(id string) {
	el.SetAttribute("id", id)
}

// GetAttribute returns the value of the named attribute, or "" if absent.
func (el *Element) GetAttribute(name string) string {
	name = strings.ToLower(name)
	for _, attr := range el.AsNode().elementData.attributes {
		if attr.Name == name {
			return attr.Value
		}
	}
	return ""
}

// HasAttribute returns true if the named attribute is present.
func (el *Element) HasAttribute(name string) bool {
	name = strings.ToLower(name)
	for _, attr := range el.AsNode().elementData.attributes {
		if attr.Name == name {
			return true
		}
	}
	return false
}

// SetAttribute sets the named attribute, queueing an attribute mutation record.
func (el *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	n := el.AsNode()
	for i, attr := range n.elementData.attributes {
		if attr.Name == name {
			oldValue := attr.Value
			n.elementData.attributes[i].Value = value
			if n.ownerDoc != nil {
				n.ownerDoc.notifyAttribute(n, name, oldValue)
			}
			return
		}
	}
	n.elementData.attributes = append(n.elementData.attributes, Attribute{Name: name, Value: value})
	if n.ownerDoc != nil {
		n.ownerDoc.notifyAttribute(n, name, "")
	}
}

// RemoveAttribute removes the named attribute if present.
func (el *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	n := el.AsNode()
	for i, attr := range n.elementData.attributes {
		if attr.Name == name {
			oldValue := attr.Value
			n.elementData.attributes = append(n.elementData.attributes[:i], n.elementData.attributes[i+1:]...)
			if n.ownerDoc != nil {
				n.ownerDoc.notifyAttribute(n, name, oldValue)
			}
			return
		}
	}
}

// Attributes returns a copy of the element's attributes in set order.
func (el *Element) Attributes() []Attribute {
	attrs := el.AsNode().elementData.attributes
	out := make([]Attribute, len(attrs))
	copy(out, attrs)
	return out
}

// Remove detaches the element from its parent. A no-op for detached elements.
func (el *Element) Remove() {
	n := el.AsNode()
	if n.parentNode != nil {
		n.parentNode.RemoveChild(n)
	}
}

// Append appends nodes or strings to this element.
func (el *Element) Append(nodes ...interface{}) {
	n := el.AsNode()
	for _, item := range nodes {
		switch v := item.(type) {
		case *Node:
			n.AppendChild(v)
		case *Element:
			n.AppendChild(v.AsNode())
		case string:
			if n.ownerDoc != nil {
				n.AppendChild(n.ownerDoc.CreateTextNode(v))
			}
		}
	}
}

// ChildElementCount returns the number of child elements.
func (el *Element) ChildElementCount() int {
	count := 0
	for child := el.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			count++
		}
	}
	return count
}

// FirstElementChild returns the first child element, or nil.
func (el *Element) FirstElementChild() *Element {
	for child := el.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// LastElementChild returns the last child element, or nil.
func (el *Element) LastElementChild() *Element {
	for child := el.AsNode().lastChild; child != nil; child = child.prevSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// GetElementsByTagName returns a static NodeList of descendant elements with
// the given tag name (case-insensitive; "*" matches every element).
func (el *Element) GetElementsByTagName(name string) *NodeList {
	return collectByTagName(el.AsNode(), name)
}

func collectByTagName(root *Node, name string) *NodeList {
	name = strings.ToLower(name)
	var results []*Node
	var traverse func(*Node)
	traverse = func(node *Node) {
		for child := node.firstChild; child != nil; child = child.nextSibling {
			if child.nodeType == ElementNode {
				if name == "*" || child.elementData.localName == name {
					results = append(results, child)
				}
				traverse(child)
			}
		}
	}
	traverse(root)
	return NewStaticNodeList(results)
}

// AddEventListener registers a handler on the element and returns its id.
func (el *Element) AddEventListener(eventType string, handler EventHandler) int {
	return el.AsNode().Events().AddEventListener(eventType, handler)
}

// RemoveEventListener removes the handler registered under id.
func (el *Element) RemoveEventListener(eventType string, id int) {
	el.AsNode().Events().RemoveEventListener(eventType, id)
}
