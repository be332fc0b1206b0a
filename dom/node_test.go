package dom

import "testing"

func TestAppendChild(t *testing.T) {
	doc := NewDocument(nil)
	root := doc.CreateElement("html")
	doc.AsNode().AppendChild(root.AsNode())

	div := doc.CreateElement("div")
	result := root.AsNode().AppendChild(div.AsNode())

	if result != div.AsNode() {
		t.Error("AppendChild should return the inserted node")
	}
	if div.AsNode().ParentNode() != root.AsNode() {
		t.Error("parent pointer not set")
	}
	if root.AsNode().FirstChild() != div.AsNode() || root.AsNode().LastChild() != div.AsNode() {
		t.Error("child pointers not set")
	}
	if !div.AsNode().IsConnected() {
		t.Error("appended child should be connected")
	}
}

func TestInsertBeforeOrdering(t *testing.T) {
	doc := NewDocument(nil)
	parent := doc.CreateElement("div").AsNode()

	a := doc.CreateElement("a").AsNode()
	c := doc.CreateElement("c").AsNode()
	parent.AppendChild(a)
	parent.AppendChild(c)

	b := doc.CreateElement("b").AsNode()
	parent.InsertBefore(b, c)

	if a.NextSibling() != b || b.NextSibling() != c {
		t.Error("insertion order wrong")
	}
	if b.PreviousSibling() != a || c.PreviousSibling() != b {
		t.Error("previous sibling pointers wrong")
	}
	if parent.ChildNodes().Length() != 3 {
		t.Errorf("expected 3 children, got %d", parent.ChildNodes().Length())
	}
}

func TestInsertBeforeMissingReference(t *testing.T) {
	doc := NewDocument(nil)
	parent := doc.CreateElement("div").AsNode()
	stranger := doc.CreateElement("span").AsNode()

	_, err := parent.InsertBeforeWithError(doc.CreateElement("a").AsNode(), stranger)
	if err == nil {
		t.Fatal("expected error for reference node that is not a child")
	}
	domErr, ok := err.(*DOMError)
	if !ok || domErr.Name != "NotFoundError" {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestInsertAncestorFails(t *testing.T) {
	doc := NewDocument(nil)
	outer := doc.CreateElement("div").AsNode()
	inner := doc.CreateElement("div").AsNode()
	outer.AppendChild(inner)

	_, err := inner.AppendChildWithError(outer)
	if err == nil {
		t.Fatal("expected error when inserting an ancestor")
	}
	domErr, ok := err.(*DOMError)
	if !ok || domErr.Name != "HierarchyRequestError" {
		t.Errorf("expected HierarchyRequestError, got %v", err)
	}
}

func TestTextChildOfDocumentFails(t *testing.T) {
	doc := NewDocument(nil)
	_, err := doc.AsNode().AppendChildWithError(doc.CreateTextNode("nope"))
	if err == nil {
		t.Fatal("expected error inserting text into a document")
	}
}

func TestSecondDocumentElementFails(t *testing.T) {
	doc := NewDocument(nil)
	doc.AsNode().AppendChild(doc.CreateElement("html").AsNode())

	_, err := doc.AsNode().AppendChildWithError(doc.CreateElement("html").AsNode())
	if err == nil {
		t.Fatal("expected error inserting a second document element")
	}
}

func TestInsertMovesNodeFromOldParent(t *testing.T) {
	doc := NewDocument(nil)
	first := doc.CreateElement("div").AsNode()
	second := doc.CreateElement("div").AsNode()
	child := doc.CreateElement("span").AsNode()

	first.AppendChild(child)
	second.AppendChild(child)

	if child.ParentNode() != second {
		t.Error("child should have moved to the new parent")
	}
	if first.HasChildNodes() {
		t.Error("old parent should have no children")
	}
}

func TestFragmentInsertionEmptiesFragment(t *testing.T) {
	doc := NewDocument(nil)
	parent := doc.CreateElement("div").AsNode()
	frag := doc.CreateDocumentFragment().AsNode()

	a := doc.CreateElement("a").AsNode()
	b := doc.CreateElement("b").AsNode()
	frag.AppendChild(a)
	frag.AppendChild(b)

	parent.AppendChild(frag)

	if frag.HasChildNodes() {
		t.Error("fragment should be empty after insertion")
	}
	if parent.FirstChild() != a || parent.LastChild() != b {
		t.Error("fragment children should be inserted in order")
	}
	if a.ParentNode() != parent || b.ParentNode() != parent {
		t.Error("fragment children should be reparented")
	}
}

func TestRemoveChild(t *testing.T) {
	doc := NewDocument(nil)
	parent := doc.CreateElement("div").AsNode()
	child := doc.CreateElement("span").AsNode()
	parent.AppendChild(child)

	removed, err := parent.RemoveChildWithError(child)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != child {
		t.Error("RemoveChild should return the removed node")
	}
	if child.ParentNode() != nil || parent.HasChildNodes() {
		t.Error("child should be detached")
	}
}

func TestRemoveChildNotAChild(t *testing.T) {
	doc := NewDocument(nil)
	parent := doc.CreateElement("div").AsNode()
	stranger := doc.CreateElement("span").AsNode()

	_, err := parent.RemoveChildWithError(stranger)
	if err == nil {
		t.Fatal("expected error removing a non-child")
	}
	domErr, ok := err.(*DOMError)
	if !ok || domErr.Name != "NotFoundError" {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestReplaceChild(t *testing.T) {
	doc := NewDocument(nil)
	parent := doc.CreateElement("div").AsNode()
	a := doc.CreateElement("a").AsNode()
	b := doc.CreateElement("b").AsNode()
	c := doc.CreateElement("c").AsNode()
	parent.AppendChild(a)
	parent.AppendChild(b)
	parent.AppendChild(c)

	x := doc.CreateElement("x").AsNode()
	old, err := parent.ReplaceChildWithError(x, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if old != b {
		t.Error("ReplaceChild should return the replaced node")
	}
	if a.NextSibling() != x || x.NextSibling() != c {
		t.Error("replacement should preserve position")
	}
	if b.ParentNode() != nil {
		t.Error("old child should be detached")
	}
}

func TestReplaceDocumentElement(t *testing.T) {
	doc := NewDocument(nil)
	oldRoot := doc.CreateElement("html").AsNode()
	doc.AsNode().AppendChild(oldRoot)

	newRoot := doc.CreateElement("html").AsNode()
	_, err := doc.AsNode().ReplaceChildWithError(newRoot, oldRoot)
	if err != nil {
		t.Fatalf("replacing the document element should be allowed: %v", err)
	}
	if doc.DocumentElement().AsNode() != newRoot {
		t.Error("document element should be the replacement")
	}
}

func TestReplaceChildren(t *testing.T) {
	doc := NewDocument(nil)
	parent := doc.CreateElement("div").AsNode()
	old1 := doc.CreateElement("a").AsNode()
	old2 := doc.CreateElement("b").AsNode()
	parent.AppendChild(old1)
	parent.AppendChild(old2)

	fresh := doc.CreateElement("c").AsNode()
	parent.ReplaceChildren(fresh, "tail")

	if old1.ParentNode() != nil || old2.ParentNode() != nil {
		t.Error("old children should be detached")
	}
	if parent.FirstChild() != fresh {
		t.Error("first replacement child wrong")
	}
	last := parent.LastChild()
	if last == nil || last.NodeType() != TextNode || last.NodeValue() != "tail" {
		t.Error("string argument should become a text node")
	}
}

func TestReplaceChildrenEmpty(t *testing.T) {
	doc := NewDocument(nil)
	parent := doc.CreateElement("div").AsNode()
	parent.AppendChild(doc.CreateElement("a").AsNode())
	parent.AppendChild(doc.CreateElement("b").AsNode())

	parent.ReplaceChildren()
	if parent.HasChildNodes() {
		t.Error("ReplaceChildren() with no arguments should empty the node")
	}
}

func TestContains(t *testing.T) {
	doc := NewDocument(nil)
	outer := doc.CreateElement("div").AsNode()
	inner := doc.CreateElement("span").AsNode()
	outer.AppendChild(inner)

	if !outer.Contains(inner) {
		t.Error("parent should contain child")
	}
	if !outer.Contains(outer) {
		t.Error("a node should contain itself")
	}
	if inner.Contains(outer) {
		t.Error("child should not contain parent")
	}
}

func TestTextContent(t *testing.T) {
	doc := NewDocument(nil)
	div := doc.CreateElement("div").AsNode()
	div.AppendChild(doc.CreateTextNode("hello "))
	span := doc.CreateElement("span").AsNode()
	span.AppendChild(doc.CreateTextNode("world"))
	div.AppendChild(span)
	div.AppendChild(doc.CreateComment("ignored"))

	if got := div.TextContent(); got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}

	div.SetTextContent("flat")
	if div.ChildNodes().Length() != 1 || div.TextContent() != "flat" {
		t.Error("SetTextContent should replace all children with one text node")
	}
}

func TestDetachedSubtreeIsNotConnected(t *testing.T) {
	doc := NewDocument(nil)
	div := doc.CreateElement("div").AsNode()
	span := doc.CreateElement("span").AsNode()
	div.AppendChild(span)

	if div.IsConnected() || span.IsConnected() {
		t.Error("detached subtree must not be connected")
	}
	if span.GetRootNode() != div {
		t.Error("root of detached subtree should be the subtree root")
	}
}
