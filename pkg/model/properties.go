package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"doccore/pkg/xmldoc"
)

// XML tag names of the concrete property types.
const (
	BooleanPropertyTag   = "booleanProperty"
	StringPropertyTag    = "stringProperty"
	DatePropertyTag      = "dateProperty"
	TimePropertyTag      = "timeProperty"
	MarkdownPropertyTag  = "markdownProperty"
	IntegerPropertyTag   = "integerProperty"
	FloatPropertyTag     = "floatProperty"
	EnumPropertyTag      = "enumProperty"
	FilePropertyTag      = "fileProperty"
	URLPropertyTag       = "urlProperty"
	ClassListPropertyTag = "classListProperty"
	CodePropertyTag      = "codeProperty"
)

// Nested tags used by class-list and code properties.
const (
	classTag  = "class"
	prefixTag = "prefix"
	numberTag = "number"
	suffixTag = "suffix"
)

// Value date and time layouts.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04:05"
)

// DefaultURL replaces URL values that fail validation.
const DefaultURL = "https://example.com/placeholder.png"

// BooleanProperty holds a true/false value. Unparseable input degrades to
// false with a warning.
type BooleanProperty struct {
	trait
	value bool
}

// NewBooleanProperty constructs a boolean property from a raw value.
func NewBooleanProperty(name, category, value, tooltip string, required, inmutable bool) BooleanProperty {
	p := BooleanProperty{trait: newTrait(name, category, tooltip, required, inmutable)}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		p.value = true
	case "false", "":
		p.value = false
	default:
		log.Warn().Msgf("boolean property %q: wrong value %q, assigning false", p.name, value)
	}
	return p
}

// Bool returns the typed value.
func (p BooleanProperty) Bool() bool { return p.value }

func (p BooleanProperty) Value() string   { return strconv.FormatBool(p.value) }
func (p BooleanProperty) TagName() string { return BooleanPropertyTag }
func (p BooleanProperty) Clone() Property { return p }
func (p BooleanProperty) CloneWith(value string) Property {
	return NewBooleanProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p BooleanProperty) GenerateXML() *xmldoc.Element {
	el := p.element(BooleanPropertyTag)
	el.Text = p.Value()
	return el
}

// StringProperty holds a single-line text value.
type StringProperty struct {
	trait
	value string
}

// NewStringProperty constructs a string property.
func NewStringProperty(name, category, value, tooltip string, required, inmutable bool) StringProperty {
	return StringProperty{trait: newTrait(name, category, tooltip, required, inmutable), value: value}
}

func (p StringProperty) Value() string   { return p.value }
func (p StringProperty) TagName() string { return StringPropertyTag }
func (p StringProperty) Clone() Property { return p }
func (p StringProperty) CloneWith(value string) Property {
	return NewStringProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p StringProperty) GenerateXML() *xmldoc.Element {
	el := p.element(StringPropertyTag)
	el.Text = p.value
	el.CDATA = true
	return el
}

// DateProperty holds a calendar date. Unparseable input degrades to the
// current date with a warning.
type DateProperty struct {
	trait
	value time.Time
}

// NewDateProperty constructs a date property from an ISO date string.
func NewDateProperty(name, category, value, tooltip string, required, inmutable bool) DateProperty {
	p := DateProperty{trait: newTrait(name, category, tooltip, required, inmutable)}
	d, err := time.Parse(DateFormat, strings.TrimSpace(value))
	if err != nil {
		log.Warn().Msgf("date property %q: wrong format (%q), assigning today", p.name, value)
		d = time.Now()
	}
	p.value = d
	return p
}

// Date returns the typed value.
func (p DateProperty) Date() time.Time { return p.value }

func (p DateProperty) Value() string   { return p.value.Format(DateFormat) }
func (p DateProperty) TagName() string { return DatePropertyTag }
func (p DateProperty) Clone() Property { return p }
func (p DateProperty) CloneWith(value string) Property {
	return NewDateProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p DateProperty) GenerateXML() *xmldoc.Element {
	el := p.element(DatePropertyTag)
	el.Text = p.Value()
	return el
}

// TimeProperty holds a time of day. Unparseable input degrades to the
// current time with a warning.
type TimeProperty struct {
	trait
	value time.Time
}

// NewTimeProperty constructs a time property from an HH:MM:SS string.
func NewTimeProperty(name, category, value, tooltip string, required, inmutable bool) TimeProperty {
	p := TimeProperty{trait: newTrait(name, category, tooltip, required, inmutable)}
	tm, err := time.Parse(TimeFormat, strings.TrimSpace(value))
	if err != nil {
		log.Warn().Msgf("time property %q: wrong format (%q), assigning now", p.name, value)
		tm = time.Now()
	}
	p.value = tm
	return p
}

// Time returns the typed value.
func (p TimeProperty) Time() time.Time { return p.value }

func (p TimeProperty) Value() string   { return p.value.Format(TimeFormat) }
func (p TimeProperty) TagName() string { return TimePropertyTag }
func (p TimeProperty) Clone() Property { return p }
func (p TimeProperty) CloneWith(value string) Property {
	return NewTimeProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p TimeProperty) GenerateXML() *xmldoc.Element {
	el := p.element(TimePropertyTag)
	el.Text = p.Value()
	return el
}

// MarkdownProperty holds a block of markdown text.
type MarkdownProperty struct {
	trait
	value string
}

// NewMarkdownProperty constructs a markdown property.
func NewMarkdownProperty(name, category, value, tooltip string, required, inmutable bool) MarkdownProperty {
	return MarkdownProperty{trait: newTrait(name, category, tooltip, required, inmutable), value: value}
}

func (p MarkdownProperty) Value() string   { return p.value }
func (p MarkdownProperty) TagName() string { return MarkdownPropertyTag }
func (p MarkdownProperty) Clone() Property { return p }
func (p MarkdownProperty) CloneWith(value string) Property {
	return NewMarkdownProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p MarkdownProperty) GenerateXML() *xmldoc.Element {
	el := p.element(MarkdownPropertyTag)
	el.Text = p.value
	el.CDATA = true
	return el
}

// IntegerProperty holds an integer. Unparseable input degrades to zero
// with a warning.
type IntegerProperty struct {
	trait
	value int64
}

// NewIntegerProperty constructs an integer property from a raw value.
func NewIntegerProperty(name, category, value, tooltip string, required, inmutable bool) IntegerProperty {
	p := IntegerProperty{trait: newTrait(name, category, tooltip, required, inmutable)}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		log.Warn().Msgf("integer property %q: wrong value %q, assigning 0", p.name, value)
		n = 0
	}
	p.value = n
	return p
}

// Int returns the typed value.
func (p IntegerProperty) Int() int64 { return p.value }

func (p IntegerProperty) Value() string   { return strconv.FormatInt(p.value, 10) }
func (p IntegerProperty) TagName() string { return IntegerPropertyTag }
func (p IntegerProperty) Clone() Property { return p }
func (p IntegerProperty) CloneWith(value string) Property {
	return NewIntegerProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p IntegerProperty) GenerateXML() *xmldoc.Element {
	el := p.element(IntegerPropertyTag)
	el.Text = p.Value()
	return el
}

// FloatProperty holds a floating point number. Unparseable input degrades
// to zero with a warning.
type FloatProperty struct {
	trait
	value float64
}

// NewFloatProperty constructs a float property from a raw value.
func NewFloatProperty(name, category, value, tooltip string, required, inmutable bool) FloatProperty {
	p := FloatProperty{trait: newTrait(name, category, tooltip, required, inmutable)}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		log.Warn().Msgf("float property %q: wrong value %q, assigning 0.0", p.name, value)
		f = 0
	}
	p.value = f
	return p
}

// Float returns the typed value.
func (p FloatProperty) Float() float64 { return p.value }

func (p FloatProperty) Value() string   { return strconv.FormatFloat(p.value, 'g', -1, 64) }
func (p FloatProperty) TagName() string { return FloatPropertyTag }
func (p FloatProperty) Clone() Property { return p }
func (p FloatProperty) CloneWith(value string) Property {
	return NewFloatProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p FloatProperty) GenerateXML() *xmldoc.Element {
	el := p.element(FloatPropertyTag)
	el.Text = p.Value()
	return el
}

// EnumProperty holds a value constrained to a fixed space-separated choice
// set. A value outside the choices degrades to the first choice with a
// warning; it never fails.
type EnumProperty struct {
	trait
	value   string
	choices []string
}

// NewEnumProperty constructs an enum property from a raw value and a
// space-separated choices list.
func NewEnumProperty(name, category, value, tooltip string, required, inmutable bool, choices string) EnumProperty {
	p := EnumProperty{trait: newTrait(name, category, tooltip, required, inmutable)}
	p.choices = strings.Fields(choices)
	value = strings.TrimSpace(value)
	switch {
	case len(p.choices) == 0 && value != "":
		// Degenerate archetypes declare no choices; the value becomes the
		// only choice.
		log.Warn().Msgf("enum property %q: no choices declared, using value %q as single choice", p.name, value)
		p.choices = []string{value}
		p.value = value
	case len(p.choices) == 0:
		log.Warn().Msgf("enum property %q: no choices and no value", p.name)
	case value == "":
		log.Warn().Msgf("enum property %q: empty value, assigning first choice %q", p.name, p.choices[0])
		p.value = p.choices[0]
	case !contains(p.choices, value):
		log.Warn().Msgf("enum property %q: value %q not in choices %v, assigning first choice", p.name, value, p.choices)
		p.value = p.choices[0]
	default:
		p.value = value
	}
	return p
}

// Choices returns the valid choice set.
func (p EnumProperty) Choices() []string { return append([]string(nil), p.choices...) }

func (p EnumProperty) Value() string   { return p.value }
func (p EnumProperty) TagName() string { return EnumPropertyTag }
func (p EnumProperty) Clone() Property { return p.CloneWith(p.value) }
func (p EnumProperty) CloneWith(value string) Property {
	return NewEnumProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable, strings.Join(p.choices, " "))
}
func (p EnumProperty) GenerateXML() *xmldoc.Element {
	el := p.element(EnumPropertyTag)
	el.SetAttr(choicesAttribute, strings.Join(p.choices, " "))
	el.Text = p.value
	return el
}

// FileProperty references an asset file by name inside the project's
// assets directory.
type FileProperty struct {
	trait
	value string
}

// NewFileProperty constructs a file property.
func NewFileProperty(name, category, value, tooltip string, required, inmutable bool) FileProperty {
	return FileProperty{trait: newTrait(name, category, tooltip, required, inmutable), value: strings.TrimSpace(value)}
}

func (p FileProperty) Value() string   { return p.value }
func (p FileProperty) TagName() string { return FilePropertyTag }
func (p FileProperty) Clone() Property { return p }
func (p FileProperty) CloneWith(value string) Property {
	return NewFileProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p FileProperty) GenerateXML() *xmldoc.Element {
	el := p.element(FilePropertyTag)
	el.Text = p.value
	el.CDATA = true
	return el
}

// URLProperty holds a URL. Invalid input degrades to DefaultURL with a
// warning; IsValid exposes the validation outcome separately so editors
// can flag the field without losing a displayable value.
type URLProperty struct {
	trait
	value string
	valid bool
}

// NewURLProperty constructs a URL property from a raw value.
func NewURLProperty(name, category, value, tooltip string, required, inmutable bool) URLProperty {
	p := URLProperty{trait: newTrait(name, category, tooltip, required, inmutable)}
	value = strings.TrimSpace(value)
	if validURL(value) {
		p.value = value
		p.valid = true
	} else {
		log.Warn().Msgf("url property %q: wrong format (%q), assigning placeholder", p.name, value)
		p.value = DefaultURL
	}
	return p
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// IsValid reports whether the original input passed URL validation.
func (p URLProperty) IsValid() bool { return p.valid }

func (p URLProperty) Value() string   { return p.value }
func (p URLProperty) TagName() string { return URLPropertyTag }
func (p URLProperty) Clone() Property { return p }
func (p URLProperty) CloneWith(value string) Property {
	return NewURLProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p URLProperty) GenerateXML() *xmldoc.Element {
	el := p.element(URLPropertyTag)
	el.Text = p.value
	el.CDATA = true
	return el
}

// ClassListProperty holds an ordered list of class tags.
type ClassListProperty struct {
	trait
	classes []string
}

// NewClassListProperty constructs a class-list property. The raw value is
// a space-separated tag list.
func NewClassListProperty(name, category, value, tooltip string, required, inmutable bool) ClassListProperty {
	return ClassListProperty{
		trait:   newTrait(name, category, tooltip, required, inmutable),
		classes: strings.Fields(value),
	}
}

// Classes returns the ordered tag list.
func (p ClassListProperty) Classes() []string { return append([]string(nil), p.classes...) }

func (p ClassListProperty) Value() string   { return strings.Join(p.classes, " ") }
func (p ClassListProperty) TagName() string { return ClassListPropertyTag }
func (p ClassListProperty) Clone() Property { return p.CloneWith(p.Value()) }
func (p ClassListProperty) CloneWith(value string) Property {
	return NewClassListProperty(p.name, p.category, value, p.tooltip, p.required, p.inmutable)
}
func (p ClassListProperty) GenerateXML() *xmldoc.Element {
	el := p.element(ClassListPropertyTag)
	for _, c := range p.classes {
		cl := el.SubElement(classTag)
		cl.Text = c
	}
	return el
}

// Code is the tri-part structured value of a CodeProperty.
type Code struct {
	Prefix string
	Number string
	Suffix string
}

// String concatenates the three parts for display.
func (c Code) String() string { return c.Prefix + c.Number + c.Suffix }

// CodeProperty holds a structured requirement code (prefix, number,
// suffix).
type CodeProperty struct {
	trait
	code Code
}

// NewCodeProperty constructs a code property from its structured value.
func NewCodeProperty(name, category string, code Code, tooltip string, required, inmutable bool) CodeProperty {
	return CodeProperty{trait: newTrait(name, category, tooltip, required, inmutable), code: code}
}

// Code returns the structured value.
func (p CodeProperty) Code() Code { return p.code }

func (p CodeProperty) Value() string   { return p.code.String() }
func (p CodeProperty) TagName() string { return CodePropertyTag }
func (p CodeProperty) Clone() Property { return p }

// CloneWith reinterprets value as a new number, keeping prefix and suffix.
// Structured edits go through CloneWithCode.
func (p CodeProperty) CloneWith(value string) Property {
	return p.CloneWithCode(Code{Prefix: p.code.Prefix, Number: value, Suffix: p.code.Suffix})
}

// CloneWithCode returns a copy carrying the new structured value.
func (p CodeProperty) CloneWithCode(code Code) Property {
	return NewCodeProperty(p.name, p.category, code, p.tooltip, p.required, p.inmutable)
}

func (p CodeProperty) GenerateXML() *xmldoc.Element {
	el := p.element(CodePropertyTag)
	el.SubElement(prefixTag).Text = p.code.Prefix
	el.SubElement(numberTag).Text = p.code.Number
	el.SubElement(suffixTag).Text = p.code.Suffix
	return el
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
