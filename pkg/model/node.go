package model

import "doccore/pkg/xmldoc"

// node holds what Project and Object have in common: the ordered property
// map, the lifecycle state and the backing file path. Property insertion
// order is preserved so regenerated XML keeps a stable layout.
type node struct {
	props map[string]Property
	order []string
	state State
	path  string
}

func newNode(path string) node {
	return node{props: make(map[string]Property), state: StateClean, path: path}
}

// Path returns the node's backing file location.
func (n *node) Path() string { return n.path }

// State returns the node's lifecycle state.
func (n *node) State() State { return n.state }

// MarkDead schedules the node for removal on the next save.
func (n *node) MarkDead() { n.state = StateDead }

// markChanged applies the shared dirty rule: a fresh node stays fresh
// until its first save, a dead node stays dead, anything else becomes
// dirty.
func (n *node) markChanged() {
	if n.state == StateClean || n.state == StateDirty {
		n.state = StateDirty
	}
}

// GetProperty returns the property with the given name.
func (n *node) GetProperty(name string) (Property, bool) {
	p, ok := n.props[name]
	return p, ok
}

// SetProperty replaces (or adds) a property under its name and marks the
// node changed. Properties are immutable, so edits arrive here as fresh
// instances produced by CloneWith.
func (n *node) SetProperty(p Property) {
	if _, ok := n.props[p.Name()]; !ok {
		n.order = append(n.order, p.Name())
	}
	n.props[p.Name()] = p
	n.markChanged()
}

// Properties returns the node's properties in insertion order.
func (n *node) Properties() []Property {
	out := make([]Property, 0, len(n.order))
	for _, name := range n.order {
		out = append(out, n.props[name])
	}
	return out
}

// Name returns the display name: the name property value when present,
// empty otherwise. Callers fall back to the node ID.
func (n *node) Name() string {
	if p, ok := n.props[NamePropertyKey]; ok {
		return p.Value()
	}
	return ""
}

// loadProperties fills the property map from the node's <properties>
// container. A missing container is a structural error; unknown property
// tags inside it are skipped with a warning.
func (n *node) loadProperties(root *xmldoc.Element) error {
	container := root.Find(PropertiesTag)
	if container == nil {
		return CorruptProjectError{Path: n.path, Detail: "missing <" + PropertiesTag + "> element"}
	}
	for _, el := range container.Children {
		p, err := CreateProperty(el)
		if err != nil {
			return CorruptProjectError{Path: n.path, Detail: err.Error()}
		}
		if p == nil {
			continue
		}
		if _, ok := n.props[p.Name()]; !ok {
			n.order = append(n.order, p.Name())
		}
		n.props[p.Name()] = p
	}
	return nil
}

// generateXMLProperties appends the <properties> container to parent.
func (n *node) generateXMLProperties(parent *xmldoc.Element) {
	container := parent.SubElement(PropertiesTag)
	for _, name := range n.order {
		container.AddChild(n.props[name].GenerateXML())
	}
}

// cloneProps returns independent copies of the property map and order.
func (n *node) cloneProps() (map[string]Property, []string) {
	props := make(map[string]Property, len(n.props))
	for name, p := range n.props {
		props[name] = p.Clone()
	}
	return props, append([]string(nil), n.order...)
}
