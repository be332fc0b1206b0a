package dom

import (
	"strings"

	"github.com/domlife/domlife/loop"
)

// Document represents a document tree root. Each document explicitly owns the
// loop that runs its deferred work (observer delivery, navigable teardown);
// there is no process-wide document or scheduler state.
type Document Node

// documentData holds data specific to Document nodes.
type documentData struct {
	url        string
	scheduler  *loop.Loop
	lifecycles map[string]Lifecycle
	observers  []*MutationObserver
	frames     []*BrowsingContext
}

// NewDocument creates a new empty document driving deferred work through lp.
// If lp is nil the document creates its own loop. The iframe lifecycle (the
// navigable controller) is registered by default.
func NewDocument(lp *loop.Loop) *Document {
	if lp == nil {
		lp = loop.New()
	}
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{
		scheduler:  lp,
		lifecycles: map[string]Lifecycle{"iframe": navigableLifecycle{}},
	}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// NewHTMLDocument creates a document with an html/body element skeleton.
func NewHTMLDocument(lp *loop.Loop) *Document {
	doc := NewDocument(lp)
	root := doc.CreateElement("html")
	doc.AsNode().AppendChild(root.AsNode())
	head := doc.CreateElement("head")
	root.AsNode().AppendChild(head.AsNode())
	body := doc.CreateElement("body")
	root.AsNode().AppendChild(body.AsNode())
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// NodeType returns DocumentNode (9).
func (d *Document) NodeType() NodeType {
	return DocumentNode
}

// NodeName returns "#document".
func (d *Document) NodeName() string {
	return "#document"
}

// URL returns the document's URL. Defaults to "about:blank".
func (d *Document) URL() string {
	if d.AsNode().documentData.url == "" {
		return "about:blank"
	}
	return d.AsNode().documentData.url
}

// SetURL sets the document's URL.
func (d *Document) SetURL(url string) {
	d.AsNode().documentData.url = url
}

// Loop returns the loop that runs this document's deferred work.
func (d *Document) Loop() *loop.Loop {
	return d.AsNode().documentData.scheduler
}

// CreateElement creates a new detached element with the given tag name.
func (d *Document) CreateElement(tagName string) *Element {
	localName := strings.ToLower(tagName)
	node := newNode(ElementNode, strings.ToUpper(tagName), d)
	node.elementData = &elementData{
		localName: localName,
		tagName:   strings.ToUpper(tagName),
	}
	return (*Element)(node)
}

// CreateTextNode creates a new detached text node.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.nodeValue = &data
	return node
}

// CreateComment creates a new detached comment node.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.nodeValue = &data
	return node
}

// CreateDocumentFragment creates a new empty document fragment.
func (d *Document) CreateDocumentFragment() *DocumentFragment {
	node := newNode(DocumentFragmentNode, "#document-fragment", d)
	return (*DocumentFragment)(node)
}

// CreateDocumentType creates a doctype node with the given name.
func (d *Document) CreateDocumentType(name string) *Node {
	return newNode(DocumentTypeNode, name, d)
}

// DocumentElement returns the root element of the document, or nil.
func (d *Document) DocumentElement() *Element {
	for child := d.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Element {
	return d.rootChildByName("body")
}

// Head returns the <head> element, or nil.
func (d *Document) Head() *Element {
	return d.rootChildByName("head")
}

func (d *Document) rootChildByName(localName string) *Element {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	for child := root.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode && child.elementData.localName == localName {
			return (*Element)(child)
		}
	}
	return nil
}

// GetElementById returns the connected element with the given id, or nil.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	var find func(*Node) *Element
	find = func(node *Node) *Element {
		for child := node.firstChild; child != nil; child = child.nextSibling {
			if child.nodeType == ElementNode {
				el := (*Element)(child)
				if el.GetAttribute("id") == id {
					return el
				}
				if found := find(child); found != nil {
					return found
				}
			}
		}
		return nil
	}
	return find(d.AsNode())
}

// GetElementsByTagName returns a static NodeList of elements with the given
// tag name, in tree order.
func (d *Document) GetElementsByTagName(name string) *NodeList {
	return collectByTagName(d.AsNode(), name)
}

// RegisterLifecycle registers lifecycle hooks for elements with the given
// local name. Registering nil removes the entry. Hooks only fire for
// elements connected to (or disconnected from) this document after the call.
func (d *Document) RegisterLifecycle(localName string, lc Lifecycle) {
	localName = strings.ToLower(localName)
	if lc == nil {
		delete(d.AsNode().documentData.lifecycles, localName)
		return
	}
	d.AsNode().documentData.lifecycles[localName] = lc
}

func (d *Document) lifecycleFor(localName string) Lifecycle {
	return d.AsNode().documentData.lifecycles[localName]
}

// Frames returns the live embedded browsing contexts owned by elements
// connected to this document, in the order they became active.
func (d *Document) Frames() []*BrowsingContext {
	frames := d.AsNode().documentData.frames
	out := make([]*BrowsingContext, len(frames))
	copy(out, frames)
	return out
}

// FrameCount returns the number of live embedded browsing contexts.
func (d *Document) FrameCount() int {
	return len(d.AsNode().documentData.frames)
}

func (d *Document) addFrame(bc *BrowsingContext) {
	dd := d.AsNode().documentData
	dd.frames = append(dd.frames, bc)
}

func (d *Document) removeFrame(bc *BrowsingContext) {
	dd := d.AsNode().documentData
	for i, f := range dd.frames {
		if f == bc {
			dd.frames = append(dd.frames[:i], dd.frames[i+1:]...)
			return
		}
	}
}

// registerObserver adds an observer to this document's notification list.
func (d *Document) registerObserver(mo *MutationObserver) {
	dd := d.AsNode().documentData
	for _, existing := range dd.observers {
		if existing == mo {
			return
		}
	}
	dd.observers = append(dd.observers, mo)
}

// unregisterObserver removes an observer from this document.
func (d *Document) unregisterObserver(mo *MutationObserver) {
	dd := d.AsNode().documentData
	for i, existing := range dd.observers {
		if existing == mo {
			dd.observers = append(dd.observers[:i], dd.observers[i+1:]...)
			return
		}
	}
}

// notifyChildList routes a childList mutation to interested observers.
func (d *Document) notifyChildList(target *Node, added, removed []*Node, prevSibling, nextSibling *Node) {
	for _, mo := range d.AsNode().documentData.observers {
		mo.onChildList(d, target, added, removed, prevSibling, nextSibling)
	}
}

// notifyAttribute routes an attribute mutation to interested observers.
func (d *Document) notifyAttribute(target *Node, name, oldValue string) {
	for _, mo := range d.AsNode().documentData.observers {
		mo.onAttribute(d, target, name, oldValue)
	}
}

// notifyCharacterData routes a character data mutation to interested observers.
func (d *Document) notifyCharacterData(target *Node, oldValue string) {
	for _, mo := range d.AsNode().documentData.observers {
		mo.onCharacterData(d, target, oldValue)
	}
}
