package model

import "doccore/pkg/xmldoc"

// Defaults applied when a property element omits its name or category.
const (
	DefaultPropertyName     = "unnamed"
	DefaultPropertyCategory = "general"
)

// Property XML attribute names.
const (
	nameAttribute      = "name"
	categoryAttribute  = "category"
	tooltipAttribute   = "tooltip"
	requiredAttribute  = "required"
	inmutableAttribute = "inmutable"
	choicesAttribute   = "choices"
)

// Property is an immutable typed value attached to a node by name. Editing
// a property never mutates it: Clone/CloneWith return a fresh instance and
// the owning node replaces the old one in its property map.
type Property interface {
	// Name is the unique key of the property within its owner.
	Name() string
	// Category is a grouping label used for presentation.
	Category() string
	// Tooltip is an optional help text.
	Tooltip() string
	// Required reports whether the property must carry a value.
	Required() bool
	// Inmutable reports whether the property is read-only in editors.
	Inmutable() bool
	// Value is the canonical string representation of the value.
	Value() string
	// TagName is the XML element tag identifying the concrete type.
	TagName() string
	// Clone returns an identical independent copy.
	Clone() Property
	// CloneWith returns a copy carrying the new raw value. All construction
	// validation applies to the new value again.
	CloneWith(value string) Property
	// GenerateXML produces the property's XML element.
	GenerateXML() *xmldoc.Element
}

// trait holds the attributes shared by every property type. Zero or empty
// name/category are replaced by documented defaults at construction.
type trait struct {
	name      string
	category  string
	tooltip   string
	required  bool
	inmutable bool
}

func newTrait(name, category, tooltip string, required, inmutable bool) trait {
	if name == "" {
		log.Warn().Msgf("property without %q attribute, assigning %q", nameAttribute, DefaultPropertyName)
		name = DefaultPropertyName
	}
	if category == "" {
		category = DefaultPropertyCategory
	}
	return trait{name: name, category: category, tooltip: tooltip, required: required, inmutable: inmutable}
}

func (t trait) Name() string     { return t.name }
func (t trait) Category() string { return t.category }
func (t trait) Tooltip() string  { return t.tooltip }
func (t trait) Required() bool   { return t.required }
func (t trait) Inmutable() bool  { return t.inmutable }

// element builds the common XML shell: tag plus the shared attributes.
// Attributes at their defaults are omitted so regenerated files stay
// close to hand-written ones. Value serialization is per-type.
func (t trait) element(tag string) *xmldoc.Element {
	el := xmldoc.NewElement(tag)
	el.SetAttr(nameAttribute, t.name)
	el.SetAttr(categoryAttribute, t.category)
	if t.tooltip != "" {
		el.SetAttr(tooltipAttribute, t.tooltip)
	}
	if t.required {
		el.SetAttr(requiredAttribute, "true")
	}
	if t.inmutable {
		el.SetAttr(inmutableAttribute, "true")
	}
	return el
}
