package treeconstruct

import "github.com/htmlforge/forge/dom"

// HostHooks is the abstract script-execution and task-queue surface the
// tree constructor calls into for script elements and end-of-stream
// finalization. A headless caller (the common case) supplies no
// implementation and gets noopHostHooks, under which scripts are parsed
// into the tree but never executed.
type HostHooks interface {
	// PrepareScript is called once a <script> element has been fully
	// inserted and its end tag processed, before it becomes a candidate
	// for execution.
	PrepareScript(script *dom.Element)

	// ExecuteScript runs a previously prepared script. Called during
	// end-of-stream finalization for the document's pending
	// parser-blocking script, if any.
	ExecuteScript(script *dom.Element)

	// QueueTask schedules fn to run on the host's event loop. A
	// synchronous host may just invoke fn immediately.
	QueueTask(fn func())

	// RaiseDOMContentLoaded fires once, after the stack of open elements
	// is empty and all parser-blocking scripts have executed.
	RaiseDOMContentLoaded(doc *dom.Document)

	// RaiseLoadEvent fires once, after DOMContentLoaded and any
	// remaining deferred work has drained.
	RaiseLoadEvent(doc *dom.Document)
}

// ScriptHost is an alias for HostHooks; script.GojaHost asserts its
// implementation against this name.
type ScriptHost = HostHooks

// noopHostHooks is the default HostHooks: scripts are parsed but never
// executed, and lifecycle events are dropped.
type noopHostHooks struct{}

func (noopHostHooks) PrepareScript(*dom.Element)          {}
func (noopHostHooks) ExecuteScript(*dom.Element)          {}
func (noopHostHooks) QueueTask(fn func())                 { fn() }
func (noopHostHooks) RaiseDOMContentLoaded(*dom.Document) {}
func (noopHostHooks) RaiseLoadEvent(*dom.Document)        {}
