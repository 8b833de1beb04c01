// Package dom models the generated documentation page: its elements, their
// visibility, runtime content and click bindings.
package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AnimationKind identifies how an element last changed visibility.
type AnimationKind int

const (
	AnimationNone AnimationKind = iota
	AnimationSlideDown
	AnimationSlideUp
)

func (k AnimationKind) String() string {
	switch k {
	case AnimationSlideDown:
		return "slide-down"
	case AnimationSlideUp:
		return "slide-up"
	default:
		return "none"
	}
}

// Animation records the last visibility animation of an element.
type Animation struct {
	Kind     AnimationKind
	Duration time.Duration
}

// Content is runtime content placed into an element, such as a test result.
type Content struct {
	ControlID    string
	ControlLabel string
	Title        string
	Body         string
}

// Field is a named form value.
type Field struct {
	Name  string
	Value string
}

// Element is a parsed page element. Its parsed attributes are immutable;
// runtime state lives in the owning Document.
type Element struct {
	tag     string
	id      string
	classes []string
	attrs   map[string]string
	text    string
	parent  *Element
	index   int
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the id attribute.
func (e *Element) ID() string { return e.id }

// Name returns the name attribute.
func (e *Element) Name() string { return e.attrs["name"] }

// Text returns the element's own text content, whitespace-trimmed.
func (e *Element) Text() string { return e.text }

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// HasClass reports whether the element carries class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

// Within reports whether e is a descendant of ancestor.
func (e *Element) Within(ancestor *Element) bool {
	for p := e.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func (e *Element) isControl() bool {
	switch e.tag {
	case "input", "textarea", "select", "button":
		return true
	}
	return false
}

type elementState struct {
	visible   bool
	value     string
	hasValue  bool
	animation Animation
	content   *Content
}

// Document is a parsed page plus its runtime state.
type Document struct {
	mu       sync.RWMutex
	elements []*Element
	byID     map[string]*Element
	state    map[*Element]*elementState
	bindings map[string]func()
}

// Parse reads an HTML page into a Document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	doc := &Document{
		byID:     make(map[string]*Element),
		state:    make(map[*Element]*elementState),
		bindings: make(map[string]func()),
	}
	doc.walk(root, nil)
	return doc, nil
}

// ParseString parses an HTML string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) walk(n *html.Node, parent *Element) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		el := &Element{
			tag:    c.Data,
			attrs:  make(map[string]string, len(c.Attr)),
			parent: parent,
			index:  len(d.elements),
		}
		for _, a := range c.Attr {
			el.attrs[a.Key] = a.Val
		}
		el.id = el.attrs["id"]
		el.classes = strings.Fields(el.attrs["class"])
		el.text = ownText(c)

		st := &elementState{visible: !hiddenByMarkup(el)}
		if v, ok := el.attrs["value"]; ok {
			st.value, st.hasValue = v, true
		} else if c.DataAtom == atom.Textarea {
			st.value = el.text
		}

		d.elements = append(d.elements, el)
		d.state[el] = st
		if el.id != "" {
			if _, dup := d.byID[el.id]; !dup {
				d.byID[el.id] = el
			}
		}
		d.walk(c, el)
	}
}

func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

func hiddenByMarkup(el *Element) bool {
	if el.HasClass("hidden") {
		return true
	}
	if _, ok := el.attrs["hidden"]; ok {
		return true
	}
	style := strings.ReplaceAll(strings.ToLower(el.attrs["style"]), " ", "")
	return strings.Contains(style, "display:none")
}

func trimSelector(id string) string {
	return strings.TrimPrefix(id, "#")
}

// Elements returns every element in document order.
func (d *Document) Elements() []*Element {
	out := make([]*Element, len(d.elements))
	copy(out, d.elements)
	return out
}

// ByID returns the first element with id, or nil. A leading '#' is ignored.
func (d *Document) ByID(id string) *Element {
	return d.byID[trimSelector(id)]
}

// ByClass returns the elements carrying class, in document order.
func (d *Document) ByClass(class string) []*Element {
	var out []*Element
	for _, el := range d.elements {
		if el.HasClass(class) {
			out = append(out, el)
		}
	}
	return out
}

// FormFields returns the named controls inside form formID that carry a
// non-empty value, in document order. Disabled controls and unchecked
// checkboxes or radios are skipped. A missing form yields nil.
func (d *Document) FormFields(formID string) []Field {
	form := d.ByID(formID)
	if form == nil {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var fields []Field
	for _, el := range d.elements[form.index+1:] {
		if !el.Within(form) {
			break
		}
		if !el.isControl() {
			continue
		}
		if _, disabled := el.attrs["disabled"]; disabled {
			continue
		}
		typ := strings.ToLower(el.attrs["type"])
		if typ == "checkbox" || typ == "radio" {
			if _, checked := el.attrs["checked"]; !checked {
				continue
			}
		}
		st := d.state[el]
		if !st.hasValue || st.value == "" {
			continue
		}
		fields = append(fields, Field{Name: el.Name(), Value: st.value})
	}
	return fields
}

// Value returns the current value of element id.
func (d *Document) Value(id string) string {
	el := d.ByID(id)
	if el == nil {
		return ""
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state[el].value
}

// SetValue replaces the value of element id.
func (d *Document) SetValue(id, value string) bool {
	el := d.ByID(id)
	if el == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state[el]
	st.value, st.hasValue = value, true
	return true
}

// Visible reports whether element id is currently shown.
func (d *Document) Visible(id string) bool {
	el := d.ByID(id)
	if el == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state[el].visible
}

func (d *Document) setVisible(id string, visible bool, anim Animation) bool {
	el := d.ByID(id)
	if el == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state[el]
	st.visible = visible
	st.animation = anim
	return true
}

// Show makes element id visible. Unknown ids are ignored.
func (d *Document) Show(id string) bool {
	return d.setVisible(id, true, Animation{})
}

// Hide hides element id. Unknown ids are ignored.
func (d *Document) Hide(id string) bool {
	return d.setVisible(id, false, Animation{})
}

// Toggle flips the visibility of element id.
func (d *Document) Toggle(id string) bool {
	el := d.ByID(id)
	if el == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state[el]
	st.visible = !st.visible
	st.animation = Animation{}
	return true
}

// SlideDown reveals element id with a slide animation.
func (d *Document) SlideDown(id string, duration time.Duration) bool {
	return d.setVisible(id, true, Animation{Kind: AnimationSlideDown, Duration: duration})
}

// SlideUp collapses element id with a slide animation.
func (d *Document) SlideUp(id string, duration time.Duration) bool {
	return d.setVisible(id, false, Animation{Kind: AnimationSlideUp, Duration: duration})
}

// AnimationOf returns the last animation applied to element id.
func (d *Document) AnimationOf(id string) Animation {
	el := d.ByID(id)
	if el == nil {
		return Animation{}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state[el].animation
}

// SetContent replaces the runtime content of element id.
func (d *Document) SetContent(id string, c Content) bool {
	el := d.ByID(id)
	if el == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state[el].content = &c
	return true
}

// Content returns the runtime content of element id, if any was set.
func (d *Document) Content(id string) (Content, bool) {
	el := d.ByID(id)
	if el == nil {
		return Content{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	c := d.state[el].content
	if c == nil {
		return Content{}, false
	}
	return *c, true
}

// Bind registers fn as the click handler of control id, replacing any
// previous handler.
func (d *Document) Bind(id string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings[trimSelector(id)] = fn
}

// Click runs the handler bound to control id and reports whether one existed.
func (d *Document) Click(id string) bool {
	d.mu.RLock()
	fn, ok := d.bindings[trimSelector(id)]
	d.mu.RUnlock()
	if !ok {
		return false
	}
	fn()
	return true
}
