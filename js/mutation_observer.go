package js

import (
	"github.com/dop251/goja"

	"github.com/domlife/domlife/dom"
)

// setupMutationObserver installs the MutationObserver constructor. The
// JavaScript object is a thin shell over dom.MutationObserver, so scripts get
// the same batching guarantees as Go callers: one callback invocation per
// batch window, never inline with the mutation.
func setupMutationObserver(r *Runtime) {
	vm := r.vm
	binder := r.binder

	vm.Set("MutationObserver", func(call goja.ConstructorCall) *goja.Object {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to construct 'MutationObserver': 1 argument required"))
		}
		callback, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			panic(vm.NewTypeError("Failed to construct 'MutationObserver': parameter 1 is not a function"))
		}

		jsObserver := call.This
		observer := dom.NewMutationObserver(func(records []dom.MutationRecord, _ *dom.MutationObserver) {
			_, _ = callback(jsObserver, recordsToJS(vm, binder, records), jsObserver)
		})

		jsObserver.Set("observe", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 1 {
				panic(vm.NewTypeError("Failed to execute 'observe' on 'MutationObserver': 1 argument required"))
			}
			target := binder.NodeOf(call.Arguments[0])
			if target == nil {
				panic(vm.NewTypeError("Failed to execute 'observe' on 'MutationObserver': parameter 1 is not of type 'Node'"))
			}
			options := parseObserverOptions(vm, call)
			if err := observer.Observe(target, options); err != nil {
				panic(vm.NewTypeError(err.Error()))
			}
			return goja.Undefined()
		})

		jsObserver.Set("disconnect", func(call goja.FunctionCall) goja.Value {
			observer.Disconnect()
			return goja.Undefined()
		})

		jsObserver.Set("takeRecords", func(call goja.FunctionCall) goja.Value {
			return recordsToJS(vm, binder, observer.TakeRecords())
		})

		return jsObserver
	})
}

func parseObserverOptions(vm *goja.Runtime, call goja.FunctionCall) dom.MutationObserverOptions {
	options := dom.MutationObserverOptions{}
	if len(call.Arguments) < 2 {
		return options
	}
	arg := call.Arguments[1]
	if goja.IsNull(arg) || goja.IsUndefined(arg) {
		return options
	}
	obj := arg.ToObject(vm)
	if obj == nil {
		return options
	}

	boolOpt := func(name string, dst *bool) {
		if v := obj.Get(name); v != nil && !goja.IsUndefined(v) {
			*dst = v.ToBoolean()
		}
	}
	boolOpt("childList", &options.ChildList)
	boolOpt("attributes", &options.Attributes)
	boolOpt("characterData", &options.CharacterData)
	boolOpt("subtree", &options.Subtree)
	boolOpt("attributeOldValue", &options.AttributeOldValue)
	boolOpt("characterDataOldValue", &options.CharacterDataOldValue)

	if v := obj.Get("attributeFilter"); v != nil && !goja.IsUndefined(v) {
		var filter []string
		if err := vm.ExportTo(v, &filter); err == nil {
			options.AttributeFilter = filter
		}
	}
	return options
}

func recordsToJS(vm *goja.Runtime, binder *DOMBinder, records []dom.MutationRecord) goja.Value {
	values := make([]interface{}, len(records))
	for i, record := range records {
		values[i] = recordToJS(vm, binder, record)
	}
	return vm.ToValue(values)
}

func recordToJS(vm *goja.Runtime, binder *DOMBinder, record dom.MutationRecord) *goja.Object {
	obj := vm.NewObject()
	obj.Set("type", record.Type)
	obj.Set("target", binder.BindNode(record.Target))
	obj.Set("addedNodes", binder.nodesToArray(record.AddedNodes))
	obj.Set("removedNodes", binder.nodesToArray(record.RemovedNodes))
	obj.Set("previousSibling", binder.BindNode(record.PreviousSibling))
	obj.Set("nextSibling", binder.BindNode(record.NextSibling))
	if record.AttributeName != "" {
		obj.Set("attributeName", record.AttributeName)
	} else {
		obj.Set("attributeName", goja.Null())
	}
	if record.OldValue != "" {
		obj.Set("oldValue", record.OldValue)
	} else {
		obj.Set("oldValue", goja.Null())
	}
	return obj
}
