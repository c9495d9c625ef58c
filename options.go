package forge

import (
	"github.com/htmlforge/forge/errors"
	"github.com/htmlforge/forge/liveerr"
	"github.com/htmlforge/forge/treeconstruct"
)

// config holds parser configuration.
type config struct {
	encoding           string
	fragmentContext    *treeconstruct.FragmentContext
	iframeSrcdoc       bool
	strict             bool
	collectErrors      bool
	scriptHost         treeconstruct.HostHooks
	errorSubscriber    errors.Subscriber
	isEmbedded         bool
	isScriptingEnabled bool
	xmlCoercion        bool
}

// newConfig creates a new config with defaults and applies options.
func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures the parser behavior.
type Option func(*config)

// WithEncoding sets the character encoding to use for parsing.
// This overrides automatic encoding detection.
//
// Common values: "utf-8", "windows-1252", "iso-8859-1"
func WithEncoding(enc string) Option {
	return func(c *config) {
		c.encoding = enc
	}
}

// WithFragment sets the parsing context for fragment parsing.
// This is typically used internally by ParseFragment.
func WithFragment(tagName string) Option {
	return func(c *config) {
		c.fragmentContext = &treeconstruct.FragmentContext{
			TagName:   tagName,
			Namespace: "html",
		}
	}
}

// WithFragmentNS sets the parsing context with a specific namespace.
// Use this for parsing SVG or MathML fragments.
func WithFragmentNS(tagName, namespace string) Option {
	return func(c *config) {
		c.fragmentContext = &treeconstruct.FragmentContext{
			TagName:   tagName,
			Namespace: namespace,
		}
	}
}

// WithIframeSrcdoc enables iframe srcdoc parsing mode.
// In this mode, the parser treats the input as the srcdoc attribute value.
func WithIframeSrcdoc() Option {
	return func(c *config) {
		c.iframeSrcdoc = true
	}
}

// WithStrictMode enables strict parsing mode.
// In this mode, the first parse error causes Parse to return an error.
// By default, parse errors are handled according to the HTML5 spec
// and parsing continues.
func WithStrictMode() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithCollectErrors enables error collection mode.
// Parse errors are collected and returned as a ParseErrors error
// (which can be unwrapped to get individual errors).
// Without this option, parse errors are silently recovered from.
func WithCollectErrors() Option {
	return func(c *config) {
		c.collectErrors = true
	}
}

// WithScriptHost installs the script-execution and task-queue host invoked
// for <script> elements and end-of-stream finalization. Without this
// option, scripts are parsed into the tree but never executed.
func WithScriptHost(host treeconstruct.HostHooks) Option {
	return func(c *config) {
		c.scriptHost = host
	}
}

// WithErrorSubscriber registers a callback invoked synchronously for each
// tree-construction parse error as it is encountered, in addition to any
// error collection requested via WithCollectErrors. Useful for streaming
// errors to an external sink (see liveerr.WebSocketSink) as parsing
// happens rather than after it completes.
func WithErrorSubscriber(sub errors.Subscriber) Option {
	return func(c *config) {
		c.errorSubscriber = sub
	}
}

// WithLiveErrorStream registers a liveerr.WebSocketSink as the parser's
// error subscriber, so each tree-construction parse error is pushed to the
// sink's connected client as it happens, in addition to whatever
// WithCollectErrors gathers. Shorthand for
// WithErrorSubscriber(sink.Subscriber()).
func WithLiveErrorStream(sink *liveerr.WebSocketSink) Option {
	return WithErrorSubscriber(sink.Subscriber())
}

// WithEmbedded marks the document as a nested browsing context (for
// example, an iframe's srcdoc document), which suppresses the
// missing-doctype parse error.
func WithEmbedded() Option {
	return func(c *config) {
		c.isEmbedded = true
	}
}

// WithXMLCoercion enables the XML-coercion text/comment output rules some
// conformance test suites expect (see tokenizer.SetXMLCoercion). Most
// callers should leave this off; it exists for html5lib-style test runners.
func WithXMLCoercion() Option {
	return func(c *config) {
		c.xmlCoercion = true
	}
}

// WithScriptingEnabled controls whether <noscript> is parsed as raw text
// (scripting enabled, the default for a browsing host) or as ordinary
// child content (scripting disabled, the default here since forge has no
// script host unless WithScriptHost is used).
func WithScriptingEnabled(enabled bool) Option {
	return func(c *config) {
		c.isScriptingEnabled = enabled
	}
}
