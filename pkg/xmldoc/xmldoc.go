// Package xmldoc provides a small ordered element-tree layer over
// encoding/xml. The document format used by doccore relies on attribute
// order, CDATA sections and deterministic indentation, none of which the
// struct-tag marshaller can express, so parsing and generation go through
// an explicit Element tree instead.
package xmldoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Attr is a single element attribute. Attribute order is preserved.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of an XML document tree.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string
	// CDATA wraps Text in a CDATA section when generating output.
	CDATA bool
}

// NewElement returns an empty element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// SetAttr sets or replaces an attribute, keeping first-set order.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Attr returns the value of the named attribute and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrDefault returns the named attribute or def when absent.
func (e *Element) AttrDefault(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// AddChild appends child and returns it.
func (e *Element) AddChild(child *Element) *Element {
	e.Children = append(e.Children, child)
	return child
}

// SubElement creates, appends and returns a new child element.
func (e *Element) SubElement(tag string) *Element {
	return e.AddChild(NewElement(tag))
}

// Find returns the first direct child with the given tag, or nil.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children with the given tag.
func (e *Element) FindAll(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Parse reads an XML document from r and returns its root element.
// Comments, directives and processing instructions are discarded. Text of
// elements that contain child elements is trimmed, as it is indentation
// noise; leaf text and CDATA content are kept verbatim.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(t.Name.Local)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.SetAttr(a.Name.Local, a.Value)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parse xml: multiple root elements")
				}
				root = el
			} else {
				stack[len(stack)-1].AddChild(el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse xml: unbalanced end element </%s>", t.Name.Local)
			}
			top := stack[len(stack)-1]
			if len(top.Children) > 0 {
				top.Text = strings.TrimSpace(top.Text)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("parse xml: empty document")
	}
	return root, nil
}

// ParseFile parses the XML document at path.
func ParseFile(path string) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	el, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return el, nil
}

const declaration = "<?xml version='1.0' encoding='utf-8'?>\n"

// WriteTo writes the element as a complete document with an XML declaration
// and two-space indentation. Output is deterministic for a given tree.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(declaration)
	e.encode(&buf, 0)
	buf.WriteByte('\n')
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// String renders the element (without declaration) for tests and logging.
func (e *Element) String() string {
	var buf bytes.Buffer
	e.encode(&buf, 0)
	return buf.String()
}

func (e *Element) encode(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	if len(e.Children) == 0 && e.Text == "" {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	if len(e.Children) == 0 {
		e.encodeText(buf)
		buf.WriteString("</")
		buf.WriteString(e.Tag)
		buf.WriteByte('>')
		return
	}
	if e.Text != "" {
		e.encodeText(buf)
	}
	for _, c := range e.Children {
		buf.WriteByte('\n')
		c.encode(buf, depth+1)
	}
	buf.WriteByte('\n')
	buf.WriteString(indent)
	buf.WriteString("</")
	buf.WriteString(e.Tag)
	buf.WriteByte('>')
}

func (e *Element) encodeText(buf *bytes.Buffer) {
	if e.CDATA {
		buf.WriteString("<![CDATA[")
		// A literal "]]>" would terminate the section early; split it.
		buf.WriteString(strings.ReplaceAll(e.Text, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]>")
		return
	}
	_ = xml.EscapeText(buf, []byte(e.Text))
}

// WriteFile writes the document to path with 0644 permissions.
func (e *Element) WriteFile(path string) error {
	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
