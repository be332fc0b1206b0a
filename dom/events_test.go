package dom

import "testing"

func TestDispatchInRegistrationOrder(t *testing.T) {
	doc := NewDocument(nil)
	n := doc.CreateElement("div").AsNode()

	var order []int
	n.Events().AddEventListener("ping", func(e *Event) { order = append(order, 1) })
	n.Events().AddEventListener("ping", func(e *Event) { order = append(order, 2) })

	n.DispatchEvent(&Event{Type: "ping"})
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected [1 2], got %v", order)
	}
}

func TestDispatchSetsTarget(t *testing.T) {
	doc := NewDocument(nil)
	n := doc.CreateElement("div").AsNode()

	var target *Node
	n.Events().AddEventListener("ping", func(e *Event) { target = e.Target })
	n.DispatchEvent(&Event{Type: "ping"})
	if target != n {
		t.Error("event target should be the dispatching node")
	}
}

func TestRemoveEventListener(t *testing.T) {
	doc := NewDocument(nil)
	n := doc.CreateElement("div").AsNode()

	calls := 0
	id := n.Events().AddEventListener("ping", func(e *Event) { calls++ })
	n.Events().RemoveEventListener("ping", id)

	n.DispatchEvent(&Event{Type: "ping"})
	if calls != 0 {
		t.Error("removed listener must not fire")
	}
	if n.Events().HasEventListeners("ping") {
		t.Error("no listeners should remain")
	}
}

func TestOnceListener(t *testing.T) {
	doc := NewDocument(nil)
	n := doc.CreateElement("div").AsNode()

	calls := 0
	n.Events().AddEventListenerOnce("ping", func(e *Event) { calls++ })

	n.DispatchEvent(&Event{Type: "ping"})
	n.DispatchEvent(&Event{Type: "ping"})
	if calls != 1 {
		t.Errorf("once listener should fire exactly once, fired %d times", calls)
	}
}

func TestListenerAddedDuringDispatchDoesNotFire(t *testing.T) {
	doc := NewDocument(nil)
	n := doc.CreateElement("div").AsNode()

	lateFired := false
	n.Events().AddEventListener("ping", func(e *Event) {
		n.Events().AddEventListener("ping", func(e *Event) { lateFired = true })
	})

	n.DispatchEvent(&Event{Type: "ping"})
	if lateFired {
		t.Error("a listener added during dispatch fires only on later dispatches")
	}

	n.DispatchEvent(&Event{Type: "ping"})
	if !lateFired {
		t.Error("the added listener should fire on the next dispatch")
	}
}
