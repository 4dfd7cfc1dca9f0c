package head

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TagKey identifies one head element: the name/property value of a meta tag,
// "canonical" for the canonical link, or the id of a script element.
type TagKey string

// Kind selects the element shape a TagKey maps to.
type Kind string

const (
	KindTitle         Kind = "title"
	KindMetaName      Kind = "meta-name"
	KindMetaProperty  Kind = "meta-property"
	KindLinkCanonical Kind = "link-canonical"
	KindScriptLDJSON  Kind = "script-ld-json"
)

// CanonicalKey is the only key used with KindLinkCanonical.
const CanonicalKey TagKey = "canonical"

// LDJSONType is the script type used for structured data.
const LDJSONType = "application/ld+json"

// TagSpec is one desired head element.
type TagSpec struct {
	Key     TagKey
	Kind    Kind
	Content string
}

// shape describes how a Kind is rendered. keyAttr is matched against the
// TagKey; an empty contentAttr means the content is the element text.
type shape struct {
	tag         atom.Atom
	keyAttr     string
	contentAttr string
	fixed       []html.Attribute
}

var shapes = map[Kind]shape{
	KindTitle:         {tag: atom.Title},
	KindMetaName:      {tag: atom.Meta, keyAttr: "name", contentAttr: "content"},
	KindMetaProperty:  {tag: atom.Meta, keyAttr: "property", contentAttr: "content"},
	KindLinkCanonical: {tag: atom.Link, keyAttr: "rel", contentAttr: "href"},
	KindScriptLDJSON: {
		tag:     atom.Script,
		keyAttr: "id",
		fixed:   []html.Attribute{{Key: "type", Val: LDJSONType}},
	},
}

// Document is a <head> element that metadata bindings reconcile against.
// It is not safe for concurrent use; each request builds its own.
type Document struct {
	root *html.Node
}

// New returns an empty head.
func New() *Document {
	return &Document{root: &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}}
}

// Parse builds a Document from an HTML fragment such as a layout's static
// head (charset, viewport, stylesheets). Existing elements are kept as-is
// and participate in lookups.
func Parse(r io.Reader) (*Document, error) {
	d := New()
	nodes, err := html.ParseFragment(r, d.root)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		d.root.AppendChild(n)
	}
	return d, nil
}

// Upsert finds the element for (key, kind) and sets its content, creating
// and appending it when absent. Unknown kinds are ignored.
func (d *Document) Upsert(key TagKey, kind Kind, content string) {
	sh, ok := shapes[kind]
	if !ok {
		return
	}
	n := d.find(sh, key)
	if n == nil {
		n = &html.Node{Type: html.ElementNode, Data: sh.tag.String(), DataAtom: sh.tag}
		for _, a := range sh.fixed {
			n.Attr = append(n.Attr, a)
		}
		if sh.keyAttr != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: sh.keyAttr, Val: string(key)})
		}
		d.root.AppendChild(n)
	}
	if sh.contentAttr != "" {
		setAttr(n, sh.contentAttr, content)
		return
	}
	setText(n, content)
}

// Apply upserts specs in order.
func (d *Document) Apply(specs ...TagSpec) {
	for _, s := range specs {
		d.Upsert(s.Key, s.Kind, s.Content)
	}
}

// Remove deletes the element for (key, kind). Removing a missing element is a no-op.
func (d *Document) Remove(key TagKey, kind Kind) {
	sh, ok := shapes[kind]
	if !ok {
		return
	}
	if n := d.find(sh, key); n != nil {
		d.root.RemoveChild(n)
	}
}

// Lookup returns the element for (key, kind).
func (d *Document) Lookup(key TagKey, kind Kind) (*html.Node, bool) {
	sh, ok := shapes[kind]
	if !ok {
		return nil, false
	}
	n := d.find(sh, key)
	return n, n != nil
}

// Content returns the content of the element for (key, kind).
func (d *Document) Content(key TagKey, kind Kind) (string, bool) {
	n, ok := d.Lookup(key, kind)
	if !ok {
		return "", false
	}
	if sh := shapes[kind]; sh.contentAttr != "" {
		return attr(n, sh.contentAttr), true
	}
	return text(n), true
}

// Count reports how many elements match (key, kind). It is at most one for
// documents only mutated through Upsert.
func (d *Document) Count(key TagKey, kind Kind) int {
	sh, ok := shapes[kind]
	if !ok {
		return 0
	}
	count := 0
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if matches(c, sh, key) {
			count++
		}
	}
	return count
}

// Len returns the number of element children.
func (d *Document) Len() int {
	n := 0
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			n++
		}
	}
	return n
}

// Render writes the head children, one element per line.
func (d *Document) Render(w io.Writer) error {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if err := html.Render(w, c); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// HTML renders the head children to a string.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (d *Document) find(sh shape, key TagKey) *html.Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if matches(c, sh, key) {
			return c
		}
	}
	return nil
}

func matches(n *html.Node, sh shape, key TagKey) bool {
	if n.Type != html.ElementNode || n.DataAtom != sh.tag {
		return false
	}
	if sh.keyAttr == "" {
		return true
	}
	if attr(n, sh.keyAttr) != string(key) {
		return false
	}
	for _, a := range sh.fixed {
		if attr(n, a.Key) != a.Val {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func text(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func setText(n *html.Node, s string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}
