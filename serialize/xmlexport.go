package serialize

import (
	"github.com/beevik/etree"

	"github.com/htmlforge/forge/dom"
)

// ExportXML walks a constructed DOM and builds an etree.Document from it, for
// callers that want an XML-tooling view of the parsed tree (XPath queries,
// XML serialization, diffing against a reference tree) rather than a second
// hand-rolled tree walk.
//
// Only element, text and comment nodes carry across; doctypes have no XML
// equivalent and are dropped. Non-HTML namespaces (SVG, MathML) are emitted
// as plain tag names, since etree has no namespace-URI model of its own.
func ExportXML(doc *dom.Document) *etree.Document {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	for _, child := range doc.Children() {
		appendXMLNode(&out.Element, child)
	}
	return out
}

// ExportElementXML builds a standalone etree.Document rooted at elem, for
// exporting a single subtree (a fragment parse result, say) rather than a
// whole document.
func ExportElementXML(elem *dom.Element) *etree.Document {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	appendXMLNode(&out.Element, elem)
	return out
}

func appendXMLNode(parent *etree.Element, node dom.Node) {
	switch n := node.(type) {
	case *dom.Element:
		child := parent.CreateElement(n.TagName)
		for _, attr := range n.Attributes.All() {
			if attr.Namespace != "" {
				child.CreateAttr(attr.Namespace+":"+attr.Name, attr.Value)
				continue
			}
			child.CreateAttr(attr.Name, attr.Value)
		}
		for _, grandchild := range n.Children() {
			appendXMLNode(child, grandchild)
		}
	case *dom.Text:
		parent.CreateText(n.Data)
	case *dom.Comment:
		parent.CreateComment(n.Data)
	}
}
