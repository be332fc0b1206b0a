// Package conformance runs JavaScript conformance scripts against the
// document model, asserting the ordering and atomicity guarantees of
// insertion, removal, and mutation notification.
package conformance

import (
	"github.com/dop251/goja"

	"github.com/domlife/domlife/js"
)

// Status is the outcome of a single harness test.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// Result is the outcome of one test() call in a conformance script.
type Result struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Harness wires the assertion prelude into a runtime and collects results.
// test() may be called at any point while the loop is driven, so scripts can
// assert from microtask callbacks as well as from the initial script run.
type Harness struct {
	runtime *js.Runtime
	results []Result
}

// NewHarness creates a harness for the runtime.
func NewHarness(runtime *js.Runtime) *Harness {
	return &Harness{runtime: runtime}
}

// Setup installs the result collector and the assertion prelude. It must run
// before the conformance script.
func (h *Harness) Setup() error {
	vm := h.runtime.VM()

	vm.Set("__report", func(call goja.FunctionCall) goja.Value {
		result := Result{Status: StatusFail}
		if len(call.Arguments) > 0 {
			result.Name = call.Arguments[0].String()
		}
		if len(call.Arguments) > 1 && call.Arguments[1].String() == string(StatusPass) {
			result.Status = StatusPass
		}
		if len(call.Arguments) > 2 {
			result.Message = call.Arguments[2].String()
		}
		h.results = append(h.results, result)
		return goja.Undefined()
	})

	_, err := h.runtime.Execute(preludeJS)
	return err
}

// Results returns the collected results in completion order.
func (h *Harness) Results() []Result {
	return h.results
}

// Summary returns the pass and fail counts.
func (h *Harness) Summary() (passed, failed int) {
	for _, result := range h.results {
		if result.Status == StatusPass {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// preludeJS defines the testharness-flavored assertion surface used by the
// scripts under testdata/.
const preludeJS = `
function AssertionError(message) {
	this.name = 'AssertionError';
	this.message = message;
}

function assert_true(actual, message) {
	if (actual !== true) {
		throw new AssertionError((message || 'assert_true') + ': expected true, got ' + actual);
	}
}

function assert_false(actual, message) {
	if (actual !== false) {
		throw new AssertionError((message || 'assert_false') + ': expected false, got ' + actual);
	}
}

function assert_equals(actual, expected, message) {
	if (actual !== expected) {
		throw new AssertionError((message || 'assert_equals') + ': expected ' + expected + ', got ' + actual);
	}
}

function assert_array_equals(actual, expected, message) {
	if (actual.length !== expected.length) {
		throw new AssertionError((message || 'assert_array_equals') +
			': lengths differ, expected ' + expected.length + ', got ' + actual.length);
	}
	for (var i = 0; i < expected.length; i++) {
		if (actual[i] !== expected[i]) {
			throw new AssertionError((message || 'assert_array_equals') +
				': index ' + i + ': expected ' + expected[i] + ', got ' + actual[i]);
		}
	}
}

function assert_unreached(message) {
	throw new AssertionError(message || 'reached unreachable code');
}

function test(fn, name) {
	try {
		fn();
		__report(name, 'PASS', '');
	} catch (e) {
		__report(name, 'FAIL', e && e.message ? e.message : String(e));
	}
}
`
