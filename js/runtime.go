// Package js exposes the document tree to scripts through goja. Scripts
// observe the same ordering guarantees as Go callers: lifecycle events fire
// inline with mutation calls, observer callbacks and navigable teardown run
// at microtask checkpoints driven through RunEventLoop.
package js

import (
	"fmt"
	"os"
	"strings"

	"github.com/dop251/goja"

	"github.com/domlife/domlife/dom"
	"github.com/domlife/domlife/loop"
)

// Runtime wraps a goja VM bound to one document and its loop.
type Runtime struct {
	vm     *goja.Runtime
	doc    *dom.Document
	lp     *loop.Loop
	binder *DOMBinder
}

// NewRuntime creates a runtime bound to doc. The global scope carries
// document, window (with live frames.length), queueMicrotask, console, and
// the MutationObserver constructor.
func NewRuntime(doc *dom.Document) *Runtime {
	r := &Runtime{
		vm:  goja.New(),
		doc: doc,
		lp:  doc.Loop(),
	}
	r.binder = newDOMBinder(r)
	r.setupConsole()
	r.setupWindow()
	setupMutationObserver(r)
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Document returns the bound document.
func (r *Runtime) Document() *dom.Document {
	return r.doc
}

// Binder returns the DOM binder for this runtime.
func (r *Runtime) Binder() *DOMBinder {
	return r.binder
}

// Execute runs a script synchronously. Deferred work queued by the script
// (observer deliveries, navigable teardown, queueMicrotask callbacks) stays
// queued until RunEventLoop or Checkpoint is called.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	defer func() {
		if caught := recover(); caught != nil {
			err = fmt.Errorf("script panic: %v", caught)
		}
	}()
	return r.vm.RunString(code)
}

// Checkpoint drains the document loop's microtask queue.
func (r *Runtime) Checkpoint() {
	r.lp.Checkpoint()
}

// RunEventLoop turns the document loop until it is idle.
func (r *Runtime) RunEventLoop() {
	r.lp.Run()
}

// HasPendingWork reports whether deferred work is queued.
func (r *Runtime) HasPendingWork() bool {
	return r.lp.HasPending()
}

func (r *Runtime) setupConsole() {
	vm := r.vm
	console := vm.NewObject()

	logTo := func(w *os.File) func(call goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			fmt.Fprintln(w, formatArgs(call.Arguments))
			return goja.Undefined()
		}
	}
	console.Set("log", logTo(os.Stdout))
	console.Set("info", logTo(os.Stdout))
	console.Set("warn", logTo(os.Stderr))
	console.Set("error", logTo(os.Stderr))
	vm.Set("console", console)
}

func (r *Runtime) setupWindow() {
	vm := r.vm

	docObj := r.binder.BindNode(r.doc.AsNode())
	vm.Set("document", docObj)

	window := vm.NewObject()
	window.Set("document", docObj)

	// frames.length reflects the live navigable count at read time.
	frames := vm.NewObject()
	frames.DefineAccessorProperty("length",
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(r.doc.FrameCount())
		}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.Set("frames", frames)
	vm.Set("frames", frames)

	window.Set("queueMicrotask", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to execute 'queueMicrotask': 1 argument required"))
		}
		fn, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			panic(vm.NewTypeError("Failed to execute 'queueMicrotask': parameter 1 is not a function"))
		}
		r.lp.QueueMicrotask(func() {
			_, _ = fn(goja.Undefined())
		})
		return goja.Undefined()
	})
	vm.Set("queueMicrotask", window.Get("queueMicrotask"))

	vm.Set("window", window)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, formatValue(arg))
	}
	return strings.Join(parts, " ")
}

func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
