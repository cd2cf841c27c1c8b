package model

import (
	"bytes"
	"testing"
	"time"

	"doccore/pkg/xmldoc"
)

func TestBooleanPropertyParsing(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"false", false},
		{"", false},
		{"maybe", false},
	}
	for _, tc := range cases {
		p := NewBooleanProperty("active", "", tc.raw, "", false, false)
		if p.Bool() != tc.want {
			t.Fatalf("boolean %q: got %v, want %v", tc.raw, p.Bool(), tc.want)
		}
	}
}

func TestPropertyDefaultsApplied(t *testing.T) {
	p := NewStringProperty("", "", "hello", "", false, false)
	if p.Name() != DefaultPropertyName {
		t.Fatalf("name: got %q, want %q", p.Name(), DefaultPropertyName)
	}
	if p.Category() != DefaultPropertyCategory {
		t.Fatalf("category: got %q, want %q", p.Category(), DefaultPropertyCategory)
	}
}

func TestDatePropertyFallback(t *testing.T) {
	p := NewDateProperty("created", "general", "2024-03-01", "", false, false)
	if p.Value() != "2024-03-01" {
		t.Fatalf("valid date: got %q", p.Value())
	}
	bad := NewDateProperty("created", "general", "not-a-date", "", false, false)
	if _, err := time.Parse(DateFormat, bad.Value()); err != nil {
		t.Fatalf("fallback date %q does not match layout: %v", bad.Value(), err)
	}
}

func TestTimePropertyFallback(t *testing.T) {
	p := NewTimeProperty("at", "general", "13:45:30", "", false, false)
	if p.Value() != "13:45:30" {
		t.Fatalf("valid time: got %q", p.Value())
	}
	bad := NewTimeProperty("at", "general", "25:99", "", false, false)
	if _, err := time.Parse(TimeFormat, bad.Value()); err != nil {
		t.Fatalf("fallback time %q does not match layout: %v", bad.Value(), err)
	}
}

func TestNumericPropertyFallback(t *testing.T) {
	if got := NewIntegerProperty("n", "general", "42", "", false, false).Int(); got != 42 {
		t.Fatalf("integer: got %d", got)
	}
	if got := NewIntegerProperty("n", "general", "forty", "", false, false).Int(); got != 0 {
		t.Fatalf("integer fallback: got %d, want 0", got)
	}
	if got := NewFloatProperty("x", "general", "2.5", "", false, false).Float(); got != 2.5 {
		t.Fatalf("float: got %v", got)
	}
	if got := NewFloatProperty("x", "general", "two", "", false, false).Float(); got != 0 {
		t.Fatalf("float fallback: got %v, want 0", got)
	}
}

func TestEnumPropertyChoices(t *testing.T) {
	p := NewEnumProperty("kind", "general", "medium", "", false, false, "low medium high")
	if p.Value() != "medium" {
		t.Fatalf("valid choice: got %q", p.Value())
	}

	// Value outside the declared choices degrades to the first choice.
	p = NewEnumProperty("kind", "general", "extreme", "", false, false, "low medium high")
	if p.Value() != "low" {
		t.Fatalf("out-of-set value: got %q, want %q", p.Value(), "low")
	}

	// Empty value picks the first choice.
	p = NewEnumProperty("kind", "general", "", "", false, false, "low medium high")
	if p.Value() != "low" {
		t.Fatalf("empty value: got %q, want %q", p.Value(), "low")
	}

	// No choices declared: the value becomes the only choice.
	p = NewEnumProperty("kind", "general", "solo", "", false, false, "")
	if p.Value() != "solo" || len(p.Choices()) != 1 {
		t.Fatalf("no choices: got value %q choices %v", p.Value(), p.Choices())
	}
}

func TestURLPropertyValidation(t *testing.T) {
	p := NewURLProperty("link", "general", "https://example.org/spec", "", false, false)
	if !p.IsValid() || p.Value() != "https://example.org/spec" {
		t.Fatalf("valid url: got %q valid=%v", p.Value(), p.IsValid())
	}
	bad := NewURLProperty("link", "general", "not a url", "", false, false)
	if bad.IsValid() || bad.Value() != DefaultURL {
		t.Fatalf("invalid url: got %q valid=%v", bad.Value(), bad.IsValid())
	}
}

func TestClassListProperty(t *testing.T) {
	p := NewClassListProperty("selectedCategories", "general", "paragraph  figure", "", false, false)
	got := p.Classes()
	if len(got) != 2 || got[0] != "paragraph" || got[1] != "figure" {
		t.Fatalf("classes: got %v", got)
	}
	if p.Value() != "paragraph figure" {
		t.Fatalf("value: got %q", p.Value())
	}
}

func TestCodePropertyCloneWith(t *testing.T) {
	p := NewCodeProperty("code", "general", Code{Prefix: "REQ-", Number: "001"}, "", false, false)
	if p.Value() != "REQ-001" {
		t.Fatalf("value: got %q", p.Value())
	}
	next := p.CloneWith("002")
	if next.Value() != "REQ-002" {
		t.Fatalf("clone with number: got %q", next.Value())
	}
	if p.Value() != "REQ-001" {
		t.Fatalf("original mutated: got %q", p.Value())
	}
}

func TestCloneWithLeavesOriginalUntouched(t *testing.T) {
	orig := NewStringProperty("name", "general", "before", "", false, false)
	edited := orig.CloneWith("after")
	if orig.Value() != "before" {
		t.Fatalf("original mutated: got %q", orig.Value())
	}
	if edited.Value() != "after" {
		t.Fatalf("edit lost: got %q", edited.Value())
	}
	if edited.Name() != orig.Name() || edited.Category() != orig.Category() {
		t.Fatalf("trait not carried over: %q/%q", edited.Name(), edited.Category())
	}
}

func TestPropertyXMLRoundTrip(t *testing.T) {
	props := []Property{
		NewBooleanProperty("active", "detail", "true", "", false, false),
		NewStringProperty("name", "general", "A <name> & more", "", false, false),
		NewDateProperty("created", "general", "2024-03-01", "", false, false),
		NewTimeProperty("at", "general", "09:15:00", "", false, false),
		NewMarkdownProperty("text", "general", "line one\nline two", "", false, false),
		NewIntegerProperty("count", "detail", "7", "", false, false),
		NewFloatProperty("ratio", "detail", "0.25", "", false, false),
		NewEnumProperty("kind", "general", "medium", "", false, false, "low medium high"),
		NewFileProperty("file", "general", "logo.png", "", false, false),
		NewURLProperty("link", "general", "https://example.org/x", "", false, false),
		NewClassListProperty("selectedCategories", "general", "paragraph figure", "", false, false),
		NewCodeProperty("code", "general", Code{Prefix: "REQ-", Number: "007", Suffix: "b"}, "", false, false),
	}
	for _, p := range props {
		back, err := CreateProperty(p.GenerateXML())
		if err != nil {
			t.Fatalf("%s: round trip: %v", p.TagName(), err)
		}
		if back == nil {
			t.Fatalf("%s: round trip produced no property", p.TagName())
		}
		if back.TagName() != p.TagName() {
			t.Fatalf("tag: got %q, want %q", back.TagName(), p.TagName())
		}
		if back.Name() != p.Name() || back.Category() != p.Category() {
			t.Fatalf("%s: trait: got %q/%q, want %q/%q", p.TagName(), back.Name(), back.Category(), p.Name(), p.Category())
		}
		if back.Value() != p.Value() {
			t.Fatalf("%s: value: got %q, want %q", p.TagName(), back.Value(), p.Value())
		}
	}
}

func TestPropertyRoundTripKeepsWhitespace(t *testing.T) {
	// Serialize through the full codec: surrounding whitespace in text
	// values must survive a write and reload, not just an in-memory copy.
	values := []string{
		"Intro paragraph.\n\n- item\n",
		"  padded on both sides  ",
		"\n",
	}
	for _, v := range values {
		p := NewMarkdownProperty("text", "general", v, "", false, false)
		var buf bytes.Buffer
		if _, err := p.GenerateXML().WriteTo(&buf); err != nil {
			t.Fatalf("write: %v", err)
		}
		el, err := xmldoc.Parse(&buf)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		back, err := CreateProperty(el)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if back.Value() != v {
			t.Fatalf("round trip lost whitespace: got %q, want %q", back.Value(), v)
		}
	}
}
