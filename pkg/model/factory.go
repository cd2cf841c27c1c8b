package model

import (
	"fmt"
	"strings"

	"doccore/pkg/xmldoc"
)

// constructor builds a concrete property from a parsed element and the
// already-extracted common attributes.
type constructor func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error)

// propertyConstructors is the tag → type registry used by CreateProperty.
var propertyConstructors = map[string]constructor{
	BooleanPropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		return NewBooleanProperty(name, category, el.Text, tooltip, required, inmutable), nil
	},
	StringPropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		return NewStringProperty(name, category, el.Text, tooltip, required, inmutable), nil
	},
	DatePropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		return NewDateProperty(name, category, el.Text, tooltip, required, inmutable), nil
	},
	TimePropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		return NewTimeProperty(name, category, el.Text, tooltip, required, inmutable), nil
	},
	MarkdownPropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		return NewMarkdownProperty(name, category, el.Text, tooltip, required, inmutable), nil
	},
	IntegerPropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		return NewIntegerProperty(name, category, el.Text, tooltip, required, inmutable), nil
	},
	FloatPropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		return NewFloatProperty(name, category, el.Text, tooltip, required, inmutable), nil
	},
	EnumPropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		choices := el.AttrDefault(choicesAttribute, "")
		return NewEnumProperty(name, category, el.Text, tooltip, required, inmutable, choices), nil
	},
	FilePropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		return NewFileProperty(name, category, el.Text, tooltip, required, inmutable), nil
	},
	URLPropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		return NewURLProperty(name, category, el.Text, tooltip, required, inmutable), nil
	},
	ClassListPropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		var classes []string
		for _, c := range el.FindAll(classTag) {
			classes = append(classes, strings.TrimSpace(c.Text))
		}
		return NewClassListProperty(name, category, strings.Join(classes, " "), tooltip, required, inmutable), nil
	},
	CodePropertyTag: func(el *xmldoc.Element, name, category, tooltip string, required, inmutable bool) (Property, error) {
		// Unlike value-format errors, missing structural sub-elements are
		// malformed input and must surface to the caller.
		var code Code
		for _, part := range []struct {
			tag  string
			dest *string
		}{
			{prefixTag, &code.Prefix},
			{numberTag, &code.Number},
			{suffixTag, &code.Suffix},
		} {
			child := el.Find(part.tag)
			if child == nil {
				return nil, fmt.Errorf("code property %q: missing <%s> element", name, part.tag)
			}
			*part.dest = child.Text
		}
		return NewCodeProperty(name, category, code, tooltip, required, inmutable), nil
	},
}

// CreateProperty parses an XML property element into its typed Property.
// An unknown tag is not an error: it logs a warning and returns nil so the
// caller can skip it and keep loading. A nil error with a nil property
// means exactly that.
func CreateProperty(el *xmldoc.Element) (Property, error) {
	build, ok := propertyConstructors[el.Tag]
	if !ok {
		log.Warn().Msgf("<%s> is not a valid property type, ignoring", el.Tag)
		return nil, nil
	}

	name := el.AttrDefault(nameAttribute, "")
	category := el.AttrDefault(categoryAttribute, DefaultPropertyCategory)
	tooltip := el.AttrDefault(tooltipAttribute, "")
	required := strings.EqualFold(el.AttrDefault(requiredAttribute, "false"), "true")
	inmutable := strings.EqualFold(el.AttrDefault(inmutableAttribute, "false"), "true")

	return build(el, name, category, tooltip, required, inmutable)
}
