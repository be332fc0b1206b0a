package dom

// Lifecycle is a pair of hooks run when an element with a registered local
// name connects to or disconnects from a document tree.
//
// Connected runs synchronously during the insertion call, after the
// structural change, in tree order across the batch. It may run arbitrary
// code, including further tree mutation.
//
// Disconnected runs synchronously during the removal call but must defer any
// externally observable teardown (the navigable controller queues its
// teardown as a microtask), so that removing several elements in one
// synchronous span never exposes an intermediate state.
type Lifecycle interface {
	Connected(el *Element)
	Disconnected(el *Element)
}

// runInsertionSteps runs the Connected hooks for the inserted subtree rooted
// at root, in tree order. The hook targets are snapshotted before any hook
// runs: a hook observes mutations made by earlier hooks of the batch, but
// targets it removes from the tree are skipped.
func runInsertionSteps(root *Node) {
	for _, el := range collectLifecycleTargets(root) {
		n := el.AsNode()
		if !n.IsConnected() {
			continue
		}
		if lc := n.ownerDoc.lifecycleFor(el.LocalName()); lc != nil {
			lc.Connected(el)
		}
	}
}

// runRemovalSteps runs the Disconnected hooks for the removed subtree rooted
// at root, in tree order. The subtree is already detached when these run.
func runRemovalSteps(root *Node) {
	for _, el := range collectLifecycleTargets(root) {
		n := el.AsNode()
		if n.IsConnected() {
			continue
		}
		if n.ownerDoc == nil {
			continue
		}
		if lc := n.ownerDoc.lifecycleFor(el.LocalName()); lc != nil {
			lc.Disconnected(el)
		}
	}
}

// collectLifecycleTargets returns the elements of the inclusive subtree that
// have a registered lifecycle, in tree order.
func collectLifecycleTargets(root *Node) []*Element {
	var targets []*Element
	var walk func(*Node)
	walk = func(node *Node) {
		if node.nodeType == ElementNode {
			el := (*Element)(node)
			if node.ownerDoc != nil && node.ownerDoc.lifecycleFor(el.LocalName()) != nil {
				targets = append(targets, el)
			}
		}
		for child := node.firstChild; child != nil; child = child.nextSibling {
			walk(child)
		}
	}
	walk(root)
	return targets
}

// ContextState is the lifecycle state of an embedded browsing context.
type ContextState int

const (
	// ContextDetached means no live context exists for the container.
	ContextDetached ContextState = iota
	// ContextActive means the context is live and counted in Document.Frames.
	ContextActive
	// ContextClosing means the container was disconnected and the context's
	// teardown (including the unload signal) is queued but has not run yet.
	ContextClosing
)

func (cs ContextState) String() string {
	switch cs {
	case ContextDetached:
		return "detached"
	case ContextActive:
		return "active"
	case ContextClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// BrowsingContext is an embedded browsing context exclusively owned by one
// container element. It is created exactly once per connection and destroyed
// exactly once per disconnection.
type BrowsingContext struct {
	container *Element
	document  *Document
	state     ContextState
}

// Container returns the element that owns this context.
func (bc *BrowsingContext) Container() *Element {
	return bc.container
}

// Document returns the context's nested document, or nil after teardown.
func (bc *BrowsingContext) Document() *Document {
	return bc.document
}

// State returns the context's lifecycle state.
func (bc *BrowsingContext) State() ContextState {
	return bc.state
}

// ContentDocument returns the nested document of the element's live browsing
// context, or nil if the element is not a connected navigable container.
func (el *Element) ContentDocument() *Document {
	bc := el.AsNode().elementData.frame
	if bc == nil || bc.state != ContextActive {
		return nil
	}
	return bc.document
}

// Frame returns the element's browsing context, including one whose teardown
// is still pending, or nil.
func (el *Element) Frame() *BrowsingContext {
	return el.AsNode().elementData.frame
}

// navigableLifecycle is the default lifecycle for iframe elements: connect
// creates the embedded context and fires load inline; disconnect unlists the
// context immediately but defers teardown to the next microtask checkpoint.
type navigableLifecycle struct{}

func (navigableLifecycle) Connected(el *Element) {
	n := el.AsNode()
	if bc := n.elementData.frame; bc != nil && bc.state == ContextActive {
		return
	}
	owner := n.ownerDoc

	nested := NewDocument(owner.Loop())
	if src := el.GetAttribute("src"); src != "" {
		nested.SetURL(src)
	}

	bc := &BrowsingContext{
		container: el,
		document:  nested,
		state:     ContextActive,
	}
	n.elementData.frame = bc
	owner.addFrame(bc)

	// The initial about:blank load completes inline: the load signal is
	// observable before the insertion call returns, and its handler sees
	// every context created so far in this batch but none created later.
	n.DispatchEvent(&Event{Type: "load"})
}

func (navigableLifecycle) Disconnected(el *Element) {
	n := el.AsNode()
	bc := n.elementData.frame
	if bc == nil || bc.state != ContextActive {
		return
	}
	owner := n.ownerDoc

	// The context stops counting as live immediately (live iff connected),
	// but nothing observable happens until the teardown microtask runs.
	bc.state = ContextClosing
	owner.removeFrame(bc)

	owner.Loop().QueueMicrotask(func() {
		n.DispatchEvent(&Event{Type: "unload"})
		bc.state = ContextDetached
		bc.document = nil
		if n.elementData.frame == bc {
			n.elementData.frame = nil
		}
	})
}
