package model

import (
	"testing"

	"doccore/pkg/xmldoc"
)

func TestCreatePropertyUnknownTagSkipped(t *testing.T) {
	el := xmldoc.NewElement("hologramProperty")
	el.SetAttr("name", "x")
	p, err := CreateProperty(el)
	if err != nil {
		t.Fatalf("unknown tag must not fail: %v", err)
	}
	if p != nil {
		t.Fatalf("unknown tag must yield no property, got %T", p)
	}
}

func TestCreatePropertyDefaults(t *testing.T) {
	el := xmldoc.NewElement(StringPropertyTag)
	el.Text = "plain"
	p, err := CreateProperty(el)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name() != DefaultPropertyName {
		t.Fatalf("name: got %q, want %q", p.Name(), DefaultPropertyName)
	}
	if p.Category() != DefaultPropertyCategory {
		t.Fatalf("category: got %q, want %q", p.Category(), DefaultPropertyCategory)
	}
	if p.Required() || p.Inmutable() {
		t.Fatalf("flags must default to false")
	}
}

func TestCreatePropertySharedAttributes(t *testing.T) {
	el := xmldoc.NewElement(IntegerPropertyTag)
	el.SetAttr("name", "count")
	el.SetAttr("category", "detail")
	el.SetAttr("tooltip", "How many")
	el.SetAttr("required", "True")
	el.SetAttr("inmutable", "true")
	el.Text = "3"
	p, err := CreateProperty(el)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name() != "count" || p.Category() != "detail" || p.Tooltip() != "How many" {
		t.Fatalf("attributes lost: %q/%q/%q", p.Name(), p.Category(), p.Tooltip())
	}
	if !p.Required() || !p.Inmutable() {
		t.Fatalf("flags not parsed: required=%v inmutable=%v", p.Required(), p.Inmutable())
	}
}

func TestCreatePropertyEnumChoices(t *testing.T) {
	el := xmldoc.NewElement(EnumPropertyTag)
	el.SetAttr("name", "kind")
	el.SetAttr("choices", "low medium high")
	el.Text = "high"
	p, err := CreateProperty(el)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	enum, ok := p.(EnumProperty)
	if !ok {
		t.Fatalf("got %T, want EnumProperty", p)
	}
	if enum.Value() != "high" || len(enum.Choices()) != 3 {
		t.Fatalf("enum: value %q choices %v", enum.Value(), enum.Choices())
	}
}

func TestCreatePropertyClassList(t *testing.T) {
	el := xmldoc.NewElement(ClassListPropertyTag)
	el.SetAttr("name", "selectedCategories")
	el.SubElement("class").Text = "paragraph"
	el.SubElement("class").Text = "figure"
	p, err := CreateProperty(el)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	cl, ok := p.(ClassListProperty)
	if !ok {
		t.Fatalf("got %T, want ClassListProperty", p)
	}
	if got := cl.Classes(); len(got) != 2 || got[0] != "paragraph" || got[1] != "figure" {
		t.Fatalf("classes: got %v", got)
	}
}

func TestCreatePropertyCodeMissingPart(t *testing.T) {
	el := xmldoc.NewElement(CodePropertyTag)
	el.SetAttr("name", "code")
	el.SubElement("prefix").Text = "REQ-"
	el.SubElement("number").Text = "001"
	// suffix element missing on purpose
	if _, err := CreateProperty(el); err == nil {
		t.Fatalf("expected error for code property without suffix")
	}
}
