package js

import (
	"github.com/dop251/goja"

	"github.com/domlife/domlife/dom"
	"github.com/domlife/domlife/html"
)

// DOMBinder maps dom nodes to their JavaScript wrapper objects. Each node has
// exactly one wrapper, so identity comparisons hold across lookups.
type DOMBinder struct {
	runtime   *Runtime
	vm        *goja.Runtime
	wrappers  map[*dom.Node]*goja.Object
	unwrap    map[*goja.Object]*dom.Node
	listeners []jsListener
}

// jsListener tracks a script-registered event listener so it can be removed
// by function identity, the way removeEventListener works.
type jsListener struct {
	node  *dom.Node
	typ   string
	value goja.Value
	id    int
}

func newDOMBinder(r *Runtime) *DOMBinder {
	return &DOMBinder{
		runtime:  r,
		vm:       r.vm,
		wrappers: make(map[*dom.Node]*goja.Object),
		unwrap:   make(map[*goja.Object]*dom.Node),
	}
}

// BindNode returns the JavaScript wrapper for a node, creating it on first use.
func (b *DOMBinder) BindNode(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if obj, ok := b.wrappers[n]; ok {
		return obj
	}
	obj := b.vm.NewObject()
	b.wrappers[n] = obj
	b.unwrap[obj] = n

	b.bindNodeCommon(obj, n)
	switch n.NodeType() {
	case dom.ElementNode:
		b.bindElement(obj, n.AsElement())
	case dom.DocumentNode:
		b.bindDocument(obj, (*dom.Document)(n))
	}
	return obj
}

// NodeOf returns the dom node behind a wrapper value, or nil.
func (b *DOMBinder) NodeOf(v goja.Value) *dom.Node {
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	return b.unwrap[obj]
}

func (b *DOMBinder) getter(fn func() goja.Value) goja.Value {
	return b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return fn()
	})
}

func (b *DOMBinder) defineGetter(obj *goja.Object, name string, fn func() goja.Value) {
	obj.DefineAccessorProperty(name, b.getter(fn), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

func (b *DOMBinder) nodesToArray(nodes []*dom.Node) goja.Value {
	values := make([]interface{}, len(nodes))
	for i, n := range nodes {
		values[i] = b.BindNode(n)
	}
	return b.vm.ToValue(values)
}

func (b *DOMBinder) bindNodeCommon(obj *goja.Object, n *dom.Node) {
	vm := b.vm

	b.defineGetter(obj, "nodeType", func() goja.Value { return vm.ToValue(int(n.NodeType())) })
	b.defineGetter(obj, "nodeName", func() goja.Value { return vm.ToValue(n.NodeName()) })
	b.defineGetter(obj, "nodeValue", func() goja.Value { return vm.ToValue(n.NodeValue()) })
	b.defineGetter(obj, "parentNode", func() goja.Value { return b.BindNode(n.ParentNode()) })
	b.defineGetter(obj, "firstChild", func() goja.Value { return b.BindNode(n.FirstChild()) })
	b.defineGetter(obj, "lastChild", func() goja.Value { return b.BindNode(n.LastChild()) })
	b.defineGetter(obj, "previousSibling", func() goja.Value { return b.BindNode(n.PreviousSibling()) })
	b.defineGetter(obj, "nextSibling", func() goja.Value { return b.BindNode(n.NextSibling()) })
	b.defineGetter(obj, "isConnected", func() goja.Value { return vm.ToValue(n.IsConnected()) })
	b.defineGetter(obj, "childNodes", func() goja.Value { return b.nodesToArray(n.ChildNodes().ToSlice()) })

	obj.DefineAccessorProperty("textContent",
		b.getter(func() goja.Value { return vm.ToValue(n.TextContent()) }),
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				n.SetTextContent(call.Arguments[0].String())
			}
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := b.argNode(call, 0, "appendChild")
		result, err := n.AppendChildWithError(child)
		if err != nil {
			panic(b.domException(err))
		}
		return b.BindNode(result)
	})

	obj.Set("insertBefore", func(call goja.FunctionCall) goja.Value {
		child := b.argNode(call, 0, "insertBefore")
		var ref *dom.Node
		if len(call.Arguments) > 1 {
			ref = b.NodeOf(call.Arguments[1])
		}
		result, err := n.InsertBeforeWithError(child, ref)
		if err != nil {
			panic(b.domException(err))
		}
		return b.BindNode(result)
	})

	obj.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		child := b.argNode(call, 0, "removeChild")
		result, err := n.RemoveChildWithError(child)
		if err != nil {
			panic(b.domException(err))
		}
		return b.BindNode(result)
	})

	obj.Set("replaceChild", func(call goja.FunctionCall) goja.Value {
		newChild := b.argNode(call, 0, "replaceChild")
		oldChild := b.argNode(call, 1, "replaceChild")
		result, err := n.ReplaceChildWithError(newChild, oldChild)
		if err != nil {
			panic(b.domException(err))
		}
		return b.BindNode(result)
	})

	obj.Set("replaceChildren", func(call goja.FunctionCall) goja.Value {
		items := make([]interface{}, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			if node := b.NodeOf(arg); node != nil {
				items = append(items, node)
			} else {
				items = append(items, arg.String())
			}
		}
		if err := n.ReplaceChildrenWithError(items...); err != nil {
			panic(b.domException(err))
		}
		return goja.Undefined()
	})

	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue(false)
		}
		return vm.ToValue(n.Contains(b.NodeOf(call.Arguments[0])))
	})

	obj.Set("getRootNode", func(call goja.FunctionCall) goja.Value {
		return b.BindNode(n.GetRootNode())
	})

	obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		eventType := call.Arguments[0].String()
		fn, ok := goja.AssertFunction(call.Arguments[1])
		if !ok {
			return goja.Undefined()
		}
		value := call.Arguments[1]
		for _, l := range b.listeners {
			if l.node == n && l.typ == eventType && l.value.SameAs(value) {
				return goja.Undefined()
			}
		}
		id := n.Events().AddEventListener(eventType, func(ev *dom.Event) {
			eventObj := vm.NewObject()
			eventObj.Set("type", ev.Type)
			eventObj.Set("target", b.BindNode(ev.Target))
			_, _ = fn(goja.Undefined(), eventObj)
		})
		b.listeners = append(b.listeners, jsListener{node: n, typ: eventType, value: value, id: id})
		return goja.Undefined()
	})

	obj.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		eventType := call.Arguments[0].String()
		value := call.Arguments[1]
		for i, l := range b.listeners {
			if l.node == n && l.typ == eventType && l.value.SameAs(value) {
				n.Events().RemoveEventListener(eventType, l.id)
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				return goja.Undefined()
			}
		}
		return goja.Undefined()
	})
}

func (b *DOMBinder) bindElement(obj *goja.Object, el *dom.Element) {
	vm := b.vm
	n := el.AsNode()

	b.defineGetter(obj, "tagName", func() goja.Value { return vm.ToValue(el.TagName()) })
	b.defineGetter(obj, "localName", func() goja.Value { return vm.ToValue(el.LocalName()) })
	b.defineGetter(obj, "childElementCount", func() goja.Value { return vm.ToValue(el.ChildElementCount()) })
	b.defineGetter(obj, "contentDocument", func() goja.Value {
		nested := el.ContentDocument()
		if nested == nil {
			return goja.Null()
		}
		return b.BindNode(nested.AsNode())
	})

	obj.DefineAccessorProperty("id",
		b.getter(func() goja.Value { return vm.ToValue(el.Id()) }),
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				el.SetId(call.Arguments[0].String())
			}
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.DefineAccessorProperty("innerHTML",
		b.getter(func() goja.Value { return vm.ToValue(html.SerializeChildren(n)) }),
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 {
				if err := html.SetInner(el, call.Arguments[0].String()); err != nil {
					panic(b.domException(err))
				}
			}
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		name := call.Arguments[0].String()
		if !el.HasAttribute(name) {
			return goja.Null()
		}
		return vm.ToValue(el.GetAttribute(name))
	})

	obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'setAttribute': 2 arguments required"))
		}
		el.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
		return goja.Undefined()
	})

	obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue(false)
		}
		return vm.ToValue(el.HasAttribute(call.Arguments[0].String()))
	})

	obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.RemoveAttribute(call.Arguments[0].String())
		}
		return goja.Undefined()
	})

	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		el.Remove()
		return goja.Undefined()
	})

	obj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		name := "*"
		if len(call.Arguments) > 0 {
			name = call.Arguments[0].String()
		}
		return b.nodesToArray(el.GetElementsByTagName(name).ToSlice())
	})
}

func (b *DOMBinder) bindDocument(obj *goja.Object, doc *dom.Document) {
	vm := b.vm

	b.defineGetter(obj, "URL", func() goja.Value { return vm.ToValue(doc.URL()) })
	b.defineGetter(obj, "documentElement", func() goja.Value { return b.elementOrNull(doc.DocumentElement()) })
	b.defineGetter(obj, "body", func() goja.Value { return b.elementOrNull(doc.Body()) })
	b.defineGetter(obj, "head", func() goja.Value { return b.elementOrNull(doc.Head()) })

	obj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to execute 'createElement': 1 argument required"))
		}
		el := doc.CreateElement(call.Arguments[0].String())
		return b.BindNode(el.AsNode())
	})

	obj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		data := ""
		if len(call.Arguments) > 0 {
			data = call.Arguments[0].String()
		}
		return b.BindNode(doc.CreateTextNode(data))
	})

	obj.Set("createComment", func(call goja.FunctionCall) goja.Value {
		data := ""
		if len(call.Arguments) > 0 {
			data = call.Arguments[0].String()
		}
		return b.BindNode(doc.CreateComment(data))
	})

	obj.Set("createDocumentFragment", func(call goja.FunctionCall) goja.Value {
		return b.BindNode(doc.CreateDocumentFragment().AsNode())
	})

	obj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return b.elementOrNull(doc.GetElementById(call.Arguments[0].String()))
	})

	obj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		name := "*"
		if len(call.Arguments) > 0 {
			name = call.Arguments[0].String()
		}
		return b.nodesToArray(doc.GetElementsByTagName(name).ToSlice())
	})
}

func (b *DOMBinder) elementOrNull(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return b.BindNode(el.AsNode())
}

func (b *DOMBinder) argNode(call goja.FunctionCall, index int, op string) *dom.Node {
	if index >= len(call.Arguments) {
		panic(b.vm.NewTypeError("Failed to execute '%s': not enough arguments", op))
	}
	node := b.NodeOf(call.Arguments[index])
	if node == nil {
		panic(b.vm.NewTypeError("Failed to execute '%s': parameter %d is not of type 'Node'", op, index+1))
	}
	return node
}

// domException surfaces a dom error to script as an Error whose name matches
// the DOMError name.
func (b *DOMBinder) domException(err error) *goja.Object {
	exc := b.vm.NewGoError(err)
	if domErr, ok := err.(*dom.DOMError); ok {
		exc.Set("name", domErr.Name)
		exc.Set("message", domErr.Message)
	}
	return exc
}
