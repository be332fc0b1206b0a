package dom

import (
	"strings"
)

// Node represents a node in the document tree. It is the base structure from
// which Document, Element, and DocumentFragment views are derived.
type Node struct {
	nodeType   NodeType
	nodeName   string
	nodeValue  *string // nil for Element, Document, DocumentFragment
	ownerDoc   *Document
	parentNode *Node
	childNodes *NodeList

	// First/last child and sibling pointers for efficient traversal
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Type-specific data (only one will be non-nil based on nodeType)
	elementData  *elementData
	documentData *documentData

	// Lazily created event target for load/unload and similar signals.
	events *EventTarget
}

// newNode creates a new node with the given type and name.
func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	n := &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
	n.childNodes = newNodeList(n)
	return n
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
// For elements, this is the tag name in uppercase.
// For text nodes, this is "#text"; for comments, "#comment";
// for documents, "#document"; for fragments, "#document-fragment".
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the value of the node.
// For text and comment nodes, this is the text content; otherwise empty.
func (n *Node) NodeValue() string {
	if n.nodeValue != nil {
		return *n.nodeValue
	}
	return ""
}

// SetNodeValue sets the value of the node.
// This only has an effect on text and comment nodes.
func (n *Node) SetNodeValue(value string) {
	switch n.nodeType {
	case TextNode, CommentNode:
		var oldValue string
		if n.nodeValue != nil {
			oldValue = *n.nodeValue
		}
		n.nodeValue = &value
		if n.ownerDoc != nil {
			n.ownerDoc.notifyCharacterData(n, oldValue)
		}
	}
	// For other node types, this is a no-op per the DOM spec
}

// OwnerDocument returns the Document that owns this node.
// For Document nodes, this returns nil.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent Element, or nil if the parent is not an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// ChildNodes returns a live NodeList of child nodes.
func (n *Node) ChildNodes() *NodeList {
	return n.childNodes
}

// FirstChild returns the first child node, or nil if there are no children.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node, or nil if there are no children.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node, or nil if this is the first child.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node, or nil if this is the last child.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// IsConnected returns true if the node is connected to a document.
// A node is connected if its root is a document.
func (n *Node) IsConnected() bool {
	root := n.GetRootNode()
	return root != nil && root.nodeType == DocumentNode
}

// GetRootNode returns the root of the tree containing this node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// Contains returns true if the given node is this node or a descendant of it.
func (n *Node) Contains(other *Node) bool {
	for node := other; node != nil; node = node.parentNode {
		if node == n {
			return true
		}
	}
	return false
}

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return ""
	case TextNode, CommentNode:
		return n.NodeValue()
	default:
		var sb strings.Builder
		n.collectTextContent(&sb)
		return sb.String()
	}
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		switch child.nodeType {
		case TextNode:
			sb.WriteString(child.NodeValue())
		case ElementNode, DocumentFragmentNode:
			child.collectTextContent(sb)
		}
	}
}

// SetTextContent sets the text content of the node.
// For elements and document fragments, this replaces all children with a
// single text node.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return
	case TextNode, CommentNode:
		n.SetNodeValue(value)
	default:
		if value == "" {
			n.ReplaceChildren()
		} else {
			n.ReplaceChildren(value)
		}
	}
}

// AppendChild adds a node to the end of the list of children of this node.
// For the error-returning version, use AppendChildWithError.
func (n *Node) AppendChild(child *Node) *Node {
	result, _ := n.AppendChildWithError(child)
	return result
}

// AppendChildWithError adds a node to the end of the list of children of this
// node. Returns an error if the operation violates DOM hierarchy constraints.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
// For the error-returning version, use InsertBeforeWithError.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	result, _ := n.InsertBeforeWithError(newChild, refChild)
	return result
}

// InsertBeforeWithError inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end.
// Returns an error if the operation violates DOM hierarchy constraints.
//
// The structural change happens first; then, if the parent is connected,
// insertion steps run synchronously for every newly connected element in
// tree order. An insertion step may itself mutate the tree and observes the
// tree as updated by the structural change and all earlier steps of the same
// batch.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if err := n.validatePreInsertion(newChild, refChild); err != nil {
		return nil, err
	}
	return n.insert(newChild, refChild), nil
}

// validatePreInsertion implements the pre-insertion validation steps from the
// DOM spec, reduced to the node types this tree carries.
// https://dom.spec.whatwg.org/#concept-node-pre-insert
func (n *Node) validatePreInsertion(node, child *Node) error {
	return n.validatePreInsertionOrReplace(node, child, nil)
}

// validatePreReplace validates replacing oldChild with node; oldChild is
// excluded from the document element/doctype counts.
func (n *Node) validatePreReplace(node, oldChild *Node) error {
	return n.validatePreInsertionOrReplace(node, oldChild, oldChild)
}

func (n *Node) validatePreInsertionOrReplace(node, child, exclude *Node) error {
	if !n.canHaveChildren() {
		return ErrHierarchyRequest("The operation would yield an incorrect node tree.")
	}
	if n.isInclusiveAncestor(node) {
		return ErrHierarchyRequest("The new child element contains the parent.")
	}
	if child != nil && child.parentNode != n {
		return ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	if !isValidChildType(node) {
		return ErrHierarchyRequest("The operation would yield an incorrect node tree.")
	}
	if node.nodeType == TextNode && n.nodeType == DocumentNode {
		return ErrHierarchyRequest("Cannot insert Text node as a direct child of Document.")
	}
	if node.nodeType == DocumentTypeNode && n.nodeType != DocumentNode {
		return ErrHierarchyRequest("DocumentType nodes can only be children of Document.")
	}
	if n.nodeType == DocumentNode {
		return n.validateDocumentInsertion(node, child, exclude)
	}
	return nil
}

// canHaveChildren returns true if this node can have child nodes.
func (n *Node) canHaveChildren() bool {
	switch n.nodeType {
	case DocumentNode, DocumentFragmentNode, ElementNode:
		return true
	default:
		return false
	}
}

// isInclusiveAncestor returns true if node is this node or an ancestor of this node.
func (n *Node) isInclusiveAncestor(node *Node) bool {
	if node == nil {
		return false
	}
	for current := n; current != nil; current = current.parentNode {
		if current == node {
			return true
		}
	}
	return false
}

// isValidChildType returns true if node is a valid type for children.
func isValidChildType(node *Node) bool {
	if node == nil {
		return false
	}
	switch node.nodeType {
	case DocumentFragmentNode, DocumentTypeNode, ElementNode, TextNode, CommentNode:
		return true
	default:
		return false
	}
}

// validateDocumentInsertion performs additional validation for inserting into
// a Document node: at most one element child, at most one doctype, no text,
// and no element before the doctype. exclude (the child being replaced, if
// any) is left out of the counts.
func (n *Node) validateDocumentInsertion(node, child, exclude *Node) error {
	elementCount := 0
	hasText := false
	switch node.nodeType {
	case DocumentFragmentNode:
		for c := node.firstChild; c != nil; c = c.nextSibling {
			if c.nodeType == ElementNode {
				elementCount++
			}
			if c.nodeType == TextNode {
				hasText = true
			}
		}
	case ElementNode:
		elementCount = 1
	}

	if hasText {
		return ErrHierarchyRequest("Cannot insert Text node as a direct child of Document.")
	}
	if elementCount > 1 {
		return ErrHierarchyRequest("Document can have only one element child.")
	}
	if elementCount == 1 {
		if n.hasChildOfType(ElementNode, exclude) {
			return ErrHierarchyRequest("Document already has a document element.")
		}
		if child != nil && child != exclude && (child.nodeType == DocumentTypeNode || doctypeFollows(child)) {
			return ErrHierarchyRequest("Cannot insert element before doctype.")
		}
	}
	if node.nodeType == DocumentTypeNode {
		if n.hasChildOfType(DocumentTypeNode, exclude) {
			return ErrHierarchyRequest("Document already has a doctype.")
		}
		if n.hasChildOfType(ElementNode, exclude) && (child == nil || elementPrecedes(n, child)) {
			return ErrHierarchyRequest("Cannot insert doctype after document element.")
		}
	}
	return nil
}

func (n *Node) hasChildOfType(t NodeType, exclude *Node) bool {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c != exclude && c.nodeType == t {
			return true
		}
	}
	return false
}

func doctypeFollows(child *Node) bool {
	for c := child.nextSibling; c != nil; c = c.nextSibling {
		if c.nodeType == DocumentTypeNode {
			return true
		}
	}
	return false
}

func elementPrecedes(parent, child *Node) bool {
	for c := parent.firstChild; c != nil && c != child; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return true
		}
	}
	return false
}

// insert performs the validated insertion: structural change, one mutation
// record for the whole batch, then synchronous insertion steps in tree order.
func (n *Node) insert(newChild, refChild *Node) *Node {
	if newChild == nil {
		return nil
	}

	// Inserting a node before itself is a no-op.
	if newChild == refChild {
		return newChild
	}

	roots := detachInsertionRoots(newChild)
	if len(roots) == 0 {
		return newChild
	}

	// Sibling info for the mutation record, after the detach phase so a
	// same-parent move reports the node's true new neighbors.
	var prevSib *Node
	if refChild != nil {
		prevSib = refChild.prevSibling
	} else {
		prevSib = n.lastChild
	}

	for _, root := range roots {
		n.spliceBefore(root, refChild)
	}

	if n.ownerDoc != nil {
		n.ownerDoc.notifyChildList(n, roots, nil, prevSib, refChild)
	}

	// Lifecycle phase: insertion steps run only for subtrees that ended up
	// connected, in tree order across the whole batch.
	if n.IsConnected() {
		for _, root := range roots {
			runInsertionSteps(root)
		}
	}

	return newChild
}

// detachInsertionRoots frees newChild for insertion and returns the subtree
// roots that will move. A fragment drains in one pass with a single removal
// record on the fragment; anything else leaves its old parent the usual way.
func detachInsertionRoots(newChild *Node) []*Node {
	if newChild.nodeType != DocumentFragmentNode {
		newChild.detachFromParent()
		return []*Node{newChild}
	}

	var roots []*Node
	for child := newChild.firstChild; child != nil; child = child.nextSibling {
		roots = append(roots, child)
	}
	if len(roots) == 0 {
		return nil
	}
	for _, root := range roots {
		newChild.removeChildInternal(root)
	}
	if newChild.ownerDoc != nil {
		newChild.ownerDoc.notifyChildList(newChild, nil, roots, nil, nil)
	}
	return roots
}

// detachFromParent removes the node from its current parent, emitting a
// mutation record and running removal steps if the node was connected.
func (n *Node) detachFromParent() {
	parent := n.parentNode
	if parent == nil {
		return
	}
	wasConnected := n.IsConnected()
	prevSib := n.prevSibling
	nextSib := n.nextSibling

	parent.removeChildInternal(n)

	if parent.ownerDoc != nil {
		parent.ownerDoc.notifyChildList(parent, nil, []*Node{n}, prevSib, nextSib)
	}
	if wasConnected {
		runRemovalSteps(n)
	}
}

// spliceBefore links newChild into this node's child list before refChild
// (or at the end when refChild is nil). Pointer surgery only; the caller is
// responsible for records and lifecycle steps.
func (n *Node) spliceBefore(newChild, refChild *Node) {
	newChild.parentNode = n

	if n.ownerDoc != nil && newChild.ownerDoc != n.ownerDoc {
		adoptSubtree(newChild, n.ownerDoc)
	}

	if refChild == nil {
		newChild.prevSibling = n.lastChild
		newChild.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		n.lastChild = newChild
	} else {
		newChild.prevSibling = refChild.prevSibling
		newChild.nextSibling = refChild
		if refChild.prevSibling != nil {
			refChild.prevSibling.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		refChild.prevSibling = newChild
	}
}

// adoptSubtree recursively sets the owner document for a node and its descendants.
func adoptSubtree(node *Node, doc *Document) {
	node.ownerDoc = doc
	for child := node.firstChild; child != nil; child = child.nextSibling {
		adoptSubtree(child, doc)
	}
}

// RemoveChild removes a child node from this node.
// For the error-returning version, use RemoveChildWithError.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node from this node.
// Returns an error if the child is not a child of this node.
//
// The structural change and the mutation record are synchronous; removal
// steps for navigable-owning elements in the removed subtree defer their
// teardown to the next microtask checkpoint, so no unload signal is
// observable inline with the removal.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil {
		return nil, ErrNotFound("The node to be removed is null.")
	}
	if child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	child.detachFromParent()
	return child, nil
}

// ReplaceChild replaces a child node with a new node.
// For the error-returning version, use ReplaceChildWithError.
func (n *Node) ReplaceChild(newChild, oldChild *Node) *Node {
	result, _ := n.ReplaceChildWithError(newChild, oldChild)
	return result
}

// ReplaceChildWithError replaces oldChild with newChild and returns oldChild.
// The removal and insertion are one batch: a single mutation record carries
// both the added and the removed nodes, lifecycle steps run after the whole
// structural change.
func (n *Node) ReplaceChildWithError(newChild, oldChild *Node) (*Node, error) {
	if oldChild == nil {
		return nil, ErrNotFound("The node to be replaced is null.")
	}
	if oldChild.parentNode != n {
		return nil, ErrNotFound("The node to be replaced is not a child of this node.")
	}
	if err := n.validatePreReplace(newChild, oldChild); err != nil {
		return nil, err
	}
	if newChild == oldChild {
		return oldChild, nil
	}

	ref := oldChild.nextSibling
	if ref == newChild {
		ref = newChild.nextSibling
	}
	wasConnected := oldChild.IsConnected()
	n.removeChildInternal(oldChild)

	roots := detachInsertionRoots(newChild)

	var prevSib *Node
	if ref != nil {
		prevSib = ref.prevSibling
	} else {
		prevSib = n.lastChild
	}

	for _, root := range roots {
		n.spliceBefore(root, ref)
	}

	if n.ownerDoc != nil {
		n.ownerDoc.notifyChildList(n, roots, []*Node{oldChild}, prevSib, ref)
	}

	if wasConnected {
		runRemovalSteps(oldChild)
	}
	if n.IsConnected() {
		for _, root := range roots {
			runInsertionSteps(root)
		}
	}
	return oldChild, nil
}

// ReplaceChildren replaces all children with the given nodes, which may be
// *Node, *Element, or string (converted to a text node).
// For the error-returning version, use ReplaceChildrenWithError.
func (n *Node) ReplaceChildren(nodes ...interface{}) {
	_ = n.ReplaceChildrenWithError(nodes...)
}

// ReplaceChildrenWithError replaces all children with the given nodes.
// Implements the ParentNode.replaceChildren() algorithm: validation happens
// before any child is removed, all removals and insertions form one batch
// with a single mutation record, and lifecycle steps run after the whole
// structural change (removals deferred, insertions synchronous in tree order).
func (n *Node) ReplaceChildrenWithError(nodes ...interface{}) error {
	node := n.convertNodesToNode(nodes)
	if node != nil {
		if err := n.validatePreInsertion(node, nil); err != nil {
			return err
		}
	}

	wasConnected := n.IsConnected()

	// Snapshot and unlink the current children in one pass.
	var removed []*Node
	for child := n.firstChild; child != nil; child = child.nextSibling {
		removed = append(removed, child)
	}
	for _, child := range removed {
		n.removeChildInternal(child)
	}

	// Splice in the replacement set.
	var added []*Node
	if node != nil {
		added = detachInsertionRoots(node)
		for _, root := range added {
			n.spliceBefore(root, nil)
		}
	}

	if (len(removed) > 0 || len(added) > 0) && n.ownerDoc != nil {
		n.ownerDoc.notifyChildList(n, added, removed, nil, nil)
	}

	if wasConnected {
		for _, child := range removed {
			runRemovalSteps(child)
		}
		for _, root := range added {
			runInsertionSteps(root)
		}
	}
	return nil
}

// removeChildInternal unlinks a child from this node's children list.
// Pointer surgery only; no records, no lifecycle steps.
func (n *Node) removeChildInternal(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// convertNodesToNode converts a list of nodes and strings into a single node,
// implementing the "converting nodes into a node" algorithm from the DOM spec.
func (n *Node) convertNodesToNode(items []interface{}) *Node {
	doc := n.ownerDoc
	if doc == nil && n.nodeType == DocumentNode {
		doc = (*Document)(n)
	}

	nodes := make([]*Node, 0, len(items))
	for _, item := range items {
		var node *Node
		switch v := item.(type) {
		case *Node:
			node = v
		case *Element:
			node = v.AsNode()
		case string:
			if doc == nil {
				continue
			}
			node = doc.CreateTextNode(v)
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	if len(nodes) == 0 {
		return nil
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	if doc == nil {
		return nil
	}
	frag := doc.CreateDocumentFragment()
	fragNode := frag.AsNode()
	for _, node := range nodes {
		node.detachFromParent()
		fragNode.spliceBefore(node, nil)
	}
	return fragNode
}
