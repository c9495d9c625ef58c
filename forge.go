// Package forge provides a pure Go HTML5 tree constructor implementing the
// WHATWG HTML5 Living Standard's tree construction stage (§13.2).
//
// # Basic Usage
//
//	doc, err := forge.Parse("<html><body><p>Hello!</p></body></html>")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Query with CSS selectors
//	ps, err := doc.Query("p")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, p := range ps {
//		fmt.Println(p.Text())
//	}
//
// # Features
//
//   - Full insertion-mode state machine, adoption agency, active
//     formatting list, foreign content and foster parenting
//   - CSS selector support (selector package)
//   - Streaming API for memory-efficient processing
//   - Encoding detection per HTML5 spec
//   - Fragment parsing for innerHTML-style use cases
//   - Optional script execution host and live parse-error streaming
//
// For more information, see https://github.com/htmlforge/forge
package forge

import (
	"sort"

	"github.com/htmlforge/forge/dom"
	"github.com/htmlforge/forge/encoding"
	htmlerrors "github.com/htmlforge/forge/errors"
	"github.com/htmlforge/forge/tokenizer"
	"github.com/htmlforge/forge/treeconstruct"
)

// Version is the current version of forge.
const Version = "0.1.0-dev"

// Parse parses an HTML string and returns a Document.
//
// The parser handles malformed HTML according to the WHATWG HTML5 specification,
// ensuring the same behavior as web browsers.
//
// Example:
//
//	doc, err := forge.Parse("<html><body><p>Hello!</p></body></html>")
//	if err != nil {
//		// err contains parse errors if WithCollectErrors() was used
//	}
func Parse(html string, opts ...Option) (*dom.Document, error) {
	cfg := newConfig(opts...)
	return parse(html, cfg)
}

// ParseBytes parses HTML from a byte slice with automatic encoding detection.
//
// The encoding is chosen in this order:
//  1. Encoding label provided via WithEncoding (a leading BOM is stripped)
//  2. BOM (Byte Order Mark)
//  3. <meta charset> or <meta http-equiv="Content-Type">
//  4. Fallback to windows-1252
//
// Example:
//
//	data, _ := os.ReadFile("page.html")
//	doc, err := forge.ParseBytes(data)
func ParseBytes(html []byte, opts ...Option) (*dom.Document, error) {
	cfg := newConfig(opts...)

	// Detect and decode encoding
	decoded, enc, err := encoding.Decode(html, cfg.encoding)
	if err != nil {
		return nil, err
	}
	_ = enc // TODO: store detected encoding in document

	return parse(decoded, cfg)
}

// ParseFragment parses an HTML fragment in a specific context element.
//
// This is equivalent to setting element.innerHTML in browsers. The context
// determines how the fragment is parsed (e.g., parsing "<td>" in a "tr" context
// vs. in a "div" context produces different results).
//
// Example:
//
//	nodes, err := forge.ParseFragment("<td>Cell</td>", "tr")
func ParseFragment(html string, context string, opts ...Option) ([]*dom.Element, error) {
	cfg := newConfig(opts...)
	cfg.fragmentContext = &treeconstruct.FragmentContext{
		TagName:   context,
		Namespace: "html",
	}
	return parseFragment(html, cfg)
}

// parse is the internal parsing implementation.
func parse(html string, cfg *config) (*dom.Document, error) {
	tok := tokenizer.New(html)
	if cfg.xmlCoercion {
		tok.SetXMLCoercion(true)
	}
	tb := treeconstruct.New(tok)
	collector := applyRuntimeOptions(tb, cfg)

	for {
		tok.SetAllowCDATA(tb.AllowCDATA())
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}
	tb.Finalize()

	if parseErrs, ok := collectParseErrors(tok, collector, cfg); ok {
		return nil, parseErrs[0]
	} else if parseErrs != nil {
		return tb.Document(), htmlerrors.ParseErrors(parseErrs)
	}

	return tb.Document(), nil
}

// applyRuntimeOptions wires the options that affect tree-construction
// behavior directly onto the Constructor and its Document, shared by both
// full-document and fragment parsing. When cfg.collectErrors or cfg.strict
// is set, it
// installs an internal subscriber that records tree-construction errors
// (in addition to any caller-supplied cfg.errorSubscriber, which still
// fires) and returns it so the caller can merge its output with the
// tokenizer-level errors.
func applyRuntimeOptions(tb *treeconstruct.Constructor, cfg *config) *errorCollector {
	if cfg.iframeSrcdoc {
		tb.SetIframeSrcdoc(true)
	}
	if cfg.scriptHost != nil {
		tb.SetHostHooks(cfg.scriptHost)
	}

	var collector *errorCollector
	if cfg.strict || cfg.collectErrors {
		collector = &errorCollector{}
	}
	switch {
	case collector != nil && cfg.errorSubscriber != nil:
		external := cfg.errorSubscriber
		tb.SetReporter(func(e *htmlerrors.ParseError) {
			collector.collect(e)
			external(e)
		})
	case collector != nil:
		tb.SetReporter(collector.collect)
	case cfg.errorSubscriber != nil:
		tb.SetReporter(cfg.errorSubscriber)
	}

	doc := tb.Document()
	doc.IsEmbedded = cfg.isEmbedded
	doc.IsScriptingEnabled = cfg.isScriptingEnabled
	return collector
}

// parseFragment is the internal fragment parsing implementation.
func parseFragment(html string, cfg *config) ([]*dom.Element, error) {
	tok := tokenizer.New(html)
	if cfg.xmlCoercion {
		tok.SetXMLCoercion(true)
	}
	tb := treeconstruct.NewFragment(tok, cfg.fragmentContext)
	collector := applyRuntimeOptions(tb, cfg)

	for {
		tok.SetAllowCDATA(tb.AllowCDATA())
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}
	tb.Finalize()

	if parseErrs, ok := collectParseErrors(tok, collector, cfg); ok {
		return nil, parseErrs[0]
	} else if parseErrs != nil {
		return tb.FragmentNodes(), htmlerrors.ParseErrors(parseErrs)
	}

	return tb.FragmentNodes(), nil
}

// errorCollector accumulates tree-construction parse errors reported
// through Constructor.SetReporter, for merging with tokenizer-level errors.
type errorCollector struct {
	errs []*htmlerrors.ParseError
}

func (c *errorCollector) collect(e *htmlerrors.ParseError) {
	c.errs = append(c.errs, e)
}

// collectParseErrors merges tokenizer-level errors with any tree-
// construction errors gathered by collector, ordered by position. The
// second return value reports whether cfg.strict should short-circuit on
// the first error; when it is true, the caller must treat parseErrs[0] as
// the returned error rather than as part of a ParseErrors collection.
func collectParseErrors(tok *tokenizer.Tokenizer, collector *errorCollector, cfg *config) ([]*htmlerrors.ParseError, bool) {
	if !cfg.strict && !cfg.collectErrors {
		return nil, false
	}

	parseErrs := convertTokenizerErrors(tok.Errors())
	if collector != nil {
		parseErrs = append(parseErrs, collector.errs...)
		sort.SliceStable(parseErrs, func(i, j int) bool {
			if parseErrs[i].Line != parseErrs[j].Line {
				return parseErrs[i].Line < parseErrs[j].Line
			}
			return parseErrs[i].Column < parseErrs[j].Column
		})
	}

	if len(parseErrs) == 0 {
		return nil, false
	}
	if cfg.strict {
		return parseErrs, true
	}
	if cfg.collectErrors {
		return parseErrs, false
	}
	return nil, false
}

func convertTokenizerErrors(errs []tokenizer.ParseError) []*htmlerrors.ParseError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]*htmlerrors.ParseError, 0, len(errs))
	for _, e := range errs {
		out = append(out, &htmlerrors.ParseError{
			Code:    e.Code,
			Message: htmlerrors.Message(e.Code),
			Line:    e.Line,
			Column:  e.Column,
		})
	}
	return out
}
