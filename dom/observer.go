package dom

// MutationRecord is an immutable snapshot of one mutation.
type MutationRecord struct {
	Type            string  // "childList", "attributes", or "characterData"
	Target          *Node   // The node that was mutated
	AddedNodes      []*Node // Nodes added (childList mutations)
	RemovedNodes    []*Node // Nodes removed (childList mutations)
	PreviousSibling *Node   // Previous sibling of added/removed nodes
	NextSibling     *Node   // Next sibling of added/removed nodes
	AttributeName   string  // Name of changed attribute (attributes mutations)
	OldValue        string  // Previous value (if old-value capture was requested)
}

// MutationObserverOptions holds the options for observing mutations.
type MutationObserverOptions struct {
	ChildList             bool     // Observe child list changes
	Attributes            bool     // Observe attribute changes
	CharacterData         bool     // Observe character data changes
	Subtree               bool     // Observe descendants too
	AttributeOldValue     bool     // Record old attribute values
	CharacterDataOldValue bool     // Record old character data values
	AttributeFilter       []string // Only observe specific attributes
}

// MutationCallback receives the records of one batch window in a single
// invocation.
type MutationCallback func(records []MutationRecord, observer *MutationObserver)

// MutationObserver batches mutation records and delivers them at the next
// microtask checkpoint of the mutated document's loop: zero deliveries happen
// inline with a mutation, and exactly one delivery happens per batch window.
type MutationObserver struct {
	callback  MutationCallback
	targets   map[*Node]*MutationObserverOptions
	documents map[*Document]struct{}
	pending   []MutationRecord
	scheduled bool

	// epoch invalidates deliveries scheduled before a Disconnect, so a stale
	// microtask on one document's loop cannot consume a batch queued later on
	// another's.
	epoch int
}

// NewMutationObserver creates an observer that invokes callback with each
// batch of records.
func NewMutationObserver(callback MutationCallback) *MutationObserver {
	return &MutationObserver{
		callback:  callback,
		targets:   make(map[*Node]*MutationObserverOptions),
		documents: make(map[*Document]struct{}),
	}
}

// Observe starts observing mutations of target according to options.
// Observing an already observed target replaces its options.
func (mo *MutationObserver) Observe(target *Node, options MutationObserverOptions) error {
	if target == nil {
		return ErrNotFound("The node to be observed is null.")
	}
	if options.AttributeOldValue && !options.Attributes {
		options.Attributes = true
	}
	if options.CharacterDataOldValue && !options.CharacterData {
		options.CharacterData = true
	}
	if len(options.AttributeFilter) > 0 && !options.Attributes {
		options.Attributes = true
	}
	if !options.ChildList && !options.Attributes && !options.CharacterData {
		return ErrInvalidState("The options must enable at least one of childList, attributes, or characterData.")
	}

	doc := target.ownerDoc
	if doc == nil {
		return ErrNotSupported("The node to be observed has no owner document.")
	}
	mo.targets[target] = &options
	if _, ok := mo.documents[doc]; !ok {
		mo.documents[doc] = struct{}{}
		doc.registerObserver(mo)
	}
	return nil
}

// Disconnect stops all observation and drops any undelivered records.
// A delivery already scheduled for the dropped batch becomes a no-op, and a
// later Observe opens a fresh batch window.
func (mo *MutationObserver) Disconnect() {
	mo.targets = make(map[*Node]*MutationObserverOptions)
	mo.pending = nil
	mo.scheduled = false
	mo.epoch++
	for doc := range mo.documents {
		doc.unregisterObserver(mo)
	}
	mo.documents = make(map[*Document]struct{})
}

// TakeRecords returns and clears the pending records without waiting for the
// scheduled delivery.
func (mo *MutationObserver) TakeRecords() []MutationRecord {
	records := mo.pending
	mo.pending = nil
	return records
}

// optionsFor returns the effective options for a mutation at target: the
// target's own registration, or the nearest ancestor registration with
// Subtree enabled.
func (mo *MutationObserver) optionsFor(target *Node) *MutationObserverOptions {
	if opts, ok := mo.targets[target]; ok {
		return opts
	}
	for node := target.parentNode; node != nil; node = node.parentNode {
		if opts, ok := mo.targets[node]; ok && opts.Subtree {
			return opts
		}
	}
	return nil
}

func (mo *MutationObserver) onChildList(doc *Document, target *Node, added, removed []*Node, prevSibling, nextSibling *Node) {
	opts := mo.optionsFor(target)
	if opts == nil || !opts.ChildList {
		return
	}
	mo.queueRecord(doc, MutationRecord{
		Type:            "childList",
		Target:          target,
		AddedNodes:      added,
		RemovedNodes:    removed,
		PreviousSibling: prevSibling,
		NextSibling:     nextSibling,
	})
}

func (mo *MutationObserver) onAttribute(doc *Document, target *Node, name, oldValue string) {
	opts := mo.optionsFor(target)
	if opts == nil || !opts.Attributes {
		return
	}
	if len(opts.AttributeFilter) > 0 {
		found := false
		for _, want := range opts.AttributeFilter {
			if want == name {
				found = true
				break
			}
		}
		if !found {
			return
		}
	}
	record := MutationRecord{
		Type:          "attributes",
		Target:        target,
		AttributeName: name,
	}
	if opts.AttributeOldValue {
		record.OldValue = oldValue
	}
	mo.queueRecord(doc, record)
}

func (mo *MutationObserver) onCharacterData(doc *Document, target *Node, oldValue string) {
	opts := mo.optionsFor(target)
	if opts == nil || !opts.CharacterData {
		return
	}
	record := MutationRecord{
		Type:   "characterData",
		Target: target,
	}
	if opts.CharacterDataOldValue {
		record.OldValue = oldValue
	}
	mo.queueRecord(doc, record)
}

// queueRecord appends one record to the pending batch. The first record of a
// batch window schedules a single delivery microtask; later records of the
// same window ride along.
func (mo *MutationObserver) queueRecord(doc *Document, record MutationRecord) {
	mo.pending = append(mo.pending, record)
	if mo.scheduled {
		return
	}
	mo.scheduled = true
	epoch := mo.epoch
	doc.Loop().QueueMicrotask(func() {
		mo.deliver(epoch)
	})
}

// deliver hands the whole pending batch to the callback in one invocation
// and closes the batch window. Deliveries scheduled before a Disconnect
// carry a stale epoch and do nothing.
func (mo *MutationObserver) deliver(epoch int) {
	if epoch != mo.epoch {
		return
	}
	records := mo.pending
	mo.pending = nil
	mo.scheduled = false
	if len(records) == 0 {
		return
	}
	mo.callback(records, mo)
}
