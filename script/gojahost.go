// Package script provides a concrete, optional treeconstruct.HostHooks
// implementation backed by an in-process ECMAScript runtime.
package script

import (
	"sync"

	"github.com/dop251/goja"

	"github.com/htmlforge/forge/dom"
	"github.com/htmlforge/forge/internal/obslog"
	"github.com/htmlforge/forge/treeconstruct"
)

// GojaHost runs parsed <script> elements through a github.com/dop251/goja
// runtime. It implements treeconstruct.HostHooks, so a caller opts in with
// forge.WithScriptHost(script.NewGojaHost()).
//
// GojaHost is not safe for concurrent use by multiple parses; each Parse
// call should get its own instance.
type GojaHost struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	log     *obslog.Logger
	tasks   []func()
	onError func(script *dom.Element, err error)
}

// NewGojaHost returns a GojaHost with a fresh goja.Runtime. The document's
// DOM is not exposed to scripts; bindings are opt-in via Set.
func NewGojaHost() *GojaHost {
	return &GojaHost{
		vm: goja.New(),
	}
}

// SetLogger attaches a logger that receives a Debugf line per executed
// script and an Errorf line per script that throws.
func (h *GojaHost) SetLogger(l *obslog.Logger) {
	h.log = l
}

// OnError registers a callback invoked when a script throws. Without one,
// errors are swallowed after being logged (if a logger is set), mirroring
// how a browser reports script errors to the console rather than aborting
// the parse.
func (h *GojaHost) OnError(fn func(script *dom.Element, err error)) {
	h.onError = fn
}

// Set exposes a Go value to the script runtime's global scope, e.g.
// host.Set("console", consoleObject).
func (h *GojaHost) Set(name string, value any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.vm.Set(name, value)
}

// Runtime returns the underlying goja.Runtime, for callers that need to
// register more bindings than Set's single-value form allows.
func (h *GojaHost) Runtime() *goja.Runtime {
	return h.vm
}

// PrepareScript implements treeconstruct.HostHooks. goja has no concept of
// script compilation separate from execution, so this is a no-op; the
// source is read lazily in ExecuteScript.
func (h *GojaHost) PrepareScript(*dom.Element) {}

// ExecuteScript implements treeconstruct.HostHooks, running the script
// element's text content as a classic (non-module) script.
func (h *GojaHost) ExecuteScript(script *dom.Element) {
	if script.Attributes.Has("src") {
		// External scripts require network fetch, which is outside
		// treeconstruct's scope; only inline script bodies execute.
		return
	}

	source := script.Text()
	if source == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.log != nil {
		h.log.Debugf("executing inline script (%d bytes)", len(source))
	}

	_, err := h.vm.RunString(source)
	if err != nil {
		if h.log != nil {
			h.log.Errorf("script error: %v", err)
		}
		if h.onError != nil {
			h.onError(script, err)
		}
	}
}

// QueueTask implements treeconstruct.HostHooks. GojaHost has no event loop
// of its own, so tasks are recorded and must be drained with RunQueuedTasks
// (for example, after Parse returns) rather than run inline.
func (h *GojaHost) QueueTask(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tasks = append(h.tasks, fn)
}

// RunQueuedTasks runs and clears every task queued by QueueTask, in order.
func (h *GojaHost) RunQueuedTasks() {
	h.mu.Lock()
	tasks := h.tasks
	h.tasks = nil
	h.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
}

// RaiseDOMContentLoaded implements treeconstruct.HostHooks by invoking a
// global "ondomcontentloaded" function, if the script defined one.
func (h *GojaHost) RaiseDOMContentLoaded(doc *dom.Document) {
	h.callGlobalHandler("ondomcontentloaded", doc)
}

// RaiseLoadEvent implements treeconstruct.HostHooks by invoking a global
// "onload" function, if the script defined one.
func (h *GojaHost) RaiseLoadEvent(doc *dom.Document) {
	h.callGlobalHandler("onload", doc)
}

func (h *GojaHost) callGlobalHandler(name string, doc *dom.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn, ok := goja.AssertFunction(h.vm.Get(name))
	if !ok {
		return
	}
	if _, err := fn(goja.Undefined(), h.vm.ToValue(doc.Title())); err != nil {
		if h.log != nil {
			h.log.Errorf("%s handler error: %v", name, err)
		}
	}
}

var _ treeconstruct.ScriptHost = (*GojaHost)(nil)
