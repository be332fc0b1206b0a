package js

import (
	"testing"

	"github.com/domlife/domlife/dom"
	"github.com/domlife/domlife/loop"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	return NewRuntime(dom.NewHTMLDocument(loop.New()))
}

// run executes the script and fails the test on a script error.
func run(t *testing.T, r *Runtime, code string) {
	t.Helper()
	if _, err := r.Execute(code); err != nil {
		t.Fatalf("script error: %v", err)
	}
}

// evalBool executes an expression and returns its boolean value.
func evalBool(t *testing.T, r *Runtime, expr string) bool {
	t.Helper()
	v, err := r.Execute(expr)
	if err != nil {
		t.Fatalf("script error: %v", err)
	}
	return v.ToBoolean()
}

func TestExecuteBasics(t *testing.T) {
	r := newTestRuntime(t)
	v, err := r.Execute("1 + 2")
	if err != nil {
		t.Fatalf("script error: %v", err)
	}
	if v.ToInteger() != 3 {
		t.Errorf("expected 3, got %v", v)
	}
}

func TestExecuteReportsErrors(t *testing.T) {
	r := newTestRuntime(t)
	if _, err := r.Execute("throw new Error('boom')"); err == nil {
		t.Error("expected a script error")
	}
	if _, err := r.Execute("syntax error here"); err == nil {
		t.Error("expected a syntax error")
	}
}

func TestDocumentGlobal(t *testing.T) {
	r := newTestRuntime(t)
	if !evalBool(t, r, "document === window.document") {
		t.Error("document and window.document should be the same object")
	}
	if !evalBool(t, r, "document.body.tagName === 'BODY'") {
		t.Error("document.body should be bound")
	}
	if !evalBool(t, r, "document.documentElement.localName === 'html'") {
		t.Error("documentElement should be bound")
	}
}

func TestCreateAndAppend(t *testing.T) {
	r := newTestRuntime(t)
	run(t, r, `
		var div = document.createElement('div');
		div.id = 'made';
		div.textContent = 'hi';
		document.body.appendChild(div);
	`)

	el := r.Document().GetElementById("made")
	if el == nil {
		t.Fatal("element created by script not found")
	}
	if el.AsNode().TextContent() != "hi" {
		t.Errorf("unexpected text content %q", el.AsNode().TextContent())
	}
	if !evalBool(t, r, "document.getElementById('made') === div") {
		t.Error("lookups must return the same wrapper object")
	}
}

func TestWrapperIdentityIsStable(t *testing.T) {
	r := newTestRuntime(t)
	run(t, r, `
		var div = document.createElement('div');
		document.body.appendChild(div);
	`)
	if !evalBool(t, r, "document.body.firstChild === div") {
		t.Error("one node must have exactly one wrapper")
	}
	if !evalBool(t, r, "div.parentNode === document.body") {
		t.Error("parentNode should return the body wrapper")
	}
}

func TestTreeErrorsBecomeExceptions(t *testing.T) {
	r := newTestRuntime(t)
	if !evalBool(t, r, `
		(function() {
			var outer = document.createElement('div');
			var inner = document.createElement('div');
			outer.appendChild(inner);
			try {
				inner.appendChild(outer);
				return false;
			} catch (e) {
				return String(e).indexOf('HierarchyRequestError') !== -1;
			}
		})()
	`) {
		t.Error("inserting an ancestor should throw a HierarchyRequestError")
	}
}

func TestInnerHTML(t *testing.T) {
	r := newTestRuntime(t)
	run(t, r, `
		var div = document.createElement('div');
		div.innerHTML = '<span id="s">x</span>';
		document.body.appendChild(div);
	`)
	if !evalBool(t, r, "div.innerHTML === '<span id=\"s\">x</span>'") {
		t.Error("innerHTML round trip failed")
	}
	if r.Document().GetElementById("s") == nil {
		t.Error("parsed children should be real nodes")
	}
}

func TestFramesLengthIsLive(t *testing.T) {
	r := newTestRuntime(t)
	run(t, r, `
		var before = frames.length;
		var iframe = document.createElement('iframe');
		document.body.appendChild(iframe);
		var after = frames.length;
	`)
	if !evalBool(t, r, "before === 0 && after === 1") {
		t.Error("frames.length should reflect the live navigable count")
	}
	if !evalBool(t, r, "window.frames.length === 1") {
		t.Error("window.frames and frames are the same object")
	}
}

func TestLoadFiresInlineInScript(t *testing.T) {
	r := newTestRuntime(t)
	run(t, r, `
		var order = [];
		var a = document.createElement('iframe');
		var b = document.createElement('iframe');
		a.addEventListener('load', function() { order.push('a:' + frames.length); });
		b.addEventListener('load', function() { order.push('b:' + frames.length); });
		var frag = document.createDocumentFragment();
		frag.appendChild(a);
		frag.appendChild(b);
		document.body.appendChild(frag);
	`)
	if !evalBool(t, r, "order.join(',') === 'a:1,b:2'") {
		t.Error("load events should fire inline in tree order")
	}
}

func TestUnloadDeferredInScript(t *testing.T) {
	r := newTestRuntime(t)
	run(t, r, `
		var unloads = 0;
		var iframe = document.createElement('iframe');
		iframe.addEventListener('unload', function() { unloads++; });
		document.body.appendChild(iframe);
		document.body.removeChild(iframe);
		var inline = unloads;
	`)
	if !evalBool(t, r, "inline === 0") {
		t.Error("unload must not fire inline")
	}
	r.RunEventLoop()
	if !evalBool(t, r, "unloads === 1") {
		t.Error("unload should fire at the next checkpoint")
	}
}

func TestQueueMicrotask(t *testing.T) {
	r := newTestRuntime(t)
	run(t, r, `
		var ran = false;
		queueMicrotask(function() { ran = true; });
		var inline = ran;
	`)
	if !evalBool(t, r, "inline === false") {
		t.Error("queueMicrotask must not run its callback inline")
	}
	if !r.HasPendingWork() {
		t.Error("the callback should be queued")
	}
	r.Checkpoint()
	if !evalBool(t, r, "ran === true") {
		t.Error("the callback should run at the checkpoint")
	}
}

func TestContentDocument(t *testing.T) {
	r := newTestRuntime(t)
	run(t, r, `
		var iframe = document.createElement('iframe');
		var detached = iframe.contentDocument;
		document.body.appendChild(iframe);
		var connected = iframe.contentDocument;
	`)
	if !evalBool(t, r, "detached === null") {
		t.Error("a detached iframe has no contentDocument")
	}
	if !evalBool(t, r, "connected !== null && connected.URL === 'about:blank'") {
		t.Error("a connected iframe exposes its nested document")
	}
}

func TestRemoveEventListenerByFunction(t *testing.T) {
	r := newTestRuntime(t)
	run(t, r, `
		var calls = 0;
		var handler = function() { calls++; };
		var iframe = document.createElement('iframe');
		iframe.addEventListener('load', handler);
		iframe.removeEventListener('load', handler);
		document.body.appendChild(iframe);
	`)
	if !evalBool(t, r, "calls === 0") {
		t.Error("a removed listener must not fire")
	}
}
