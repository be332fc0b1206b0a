package dom

// DocumentFragment represents a minimal document object that has no parent.
// Inserting a fragment moves all of its children into the target parent as
// one batch: one mutation record, insertion steps in tree order afterwards.
type DocumentFragment Node

// AsNode returns the underlying Node.
func (df *DocumentFragment) AsNode() *Node {
	return (*Node)(df)
}

// NodeType returns DocumentFragmentNode (11).
func (df *DocumentFragment) NodeType() NodeType {
	return DocumentFragmentNode
}

// NodeName returns "#document-fragment".
func (df *DocumentFragment) NodeName() string {
	return "#document-fragment"
}

// ChildElementCount returns the number of child elements.
func (df *DocumentFragment) ChildElementCount() int {
	count := 0
	for child := df.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			count++
		}
	}
	return count
}

// FirstElementChild returns the first child element, or nil.
func (df *DocumentFragment) FirstElementChild() *Element {
	for child := df.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// Append appends nodes or strings to this fragment.
func (df *DocumentFragment) Append(nodes ...interface{}) {
	n := df.AsNode()
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

// GetElementsByTagName returns a static NodeList of descendant elements with
// the given tag name.
func (df *DocumentFragment) GetElementsByTagName(name string) *NodeList {
	return collectByTagName(df.AsNode(), name)
}
