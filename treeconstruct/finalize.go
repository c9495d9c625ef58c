package treeconstruct

import (
	"github.com/htmlforge/forge/dom"
	"github.com/htmlforge/forge/errors"
)

// Finalize runs end-of-stream finalization once the tokenizer has emitted
// EOF and ProcessToken has returned: it drains any elements left open,
// advances the document's ReadyState, executes the pending
// parser-blocking script (if any) through HostHooks, and fires the
// DOMContentLoaded/load lifecycle hooks.
//
// Finalize is idempotent; calling it twice on the same Constructor is a
// no-op the second time.
func (tb *Constructor) Finalize() {
	if tb.document.ReadyState == dom.ReadyStateComplete {
		return
	}

	if len(tb.openElements) > 1 {
		tb.reportError(errors.CurrentNodeIsNotRoot)
	}
	tb.openElements = nil

	tb.document.ReadyState = dom.ReadyStateInteractive

	if tb.pendingParserBlockingScript != nil {
		tb.hostHooks.ExecuteScript(tb.pendingParserBlockingScript)
		tb.pendingParserBlockingScript = nil
	}

	tb.hostHooks.QueueTask(func() {
		tb.hostHooks.RaiseDOMContentLoaded(tb.document)
	})

	tb.document.ReadyState = dom.ReadyStateComplete
	tb.hostHooks.QueueTask(func() {
		tb.hostHooks.RaiseLoadEvent(tb.document)
	})
}
