package glossary

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"doccore/pkg/model"
)

func writeItem(t *testing.T, dir, id, name, description string) *model.Object {
	t.Helper()
	content := fmt.Sprintf(`<?xml version='1.0' encoding='utf-8'?>
<object id="%s" classes="glossary-item" acceptedChildren="">
  <properties>
    <stringProperty name="name"><![CDATA[%s]]></stringProperty>
    <markdownProperty name="description"><![CDATA[%s]]></markdownProperty>
  </properties>
  <children/>
</object>
`, id, name, description)
	path := filepath.Join(dir, id+".xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	o, err := model.LoadArchetypeObject(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return o
}

func writePlain(t *testing.T, dir, id string) *model.Object {
	t.Helper()
	content := fmt.Sprintf(`<?xml version='1.0' encoding='utf-8'?>
<object id="%s" classes="paragraph" acceptedChildren="">
  <properties>
    <markdownProperty name="text"><![CDATA[Body]]></markdownProperty>
  </properties>
  <children/>
</object>
`, id)
	path := filepath.Join(dir, id+".xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	o, err := model.LoadArchetypeObject(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return o
}

func TestPutFiltersByClass(t *testing.T) {
	dir := t.TempDir()
	x := NewIndex()
	if !x.Put(writeItem(t, dir, "GLS00000001", "stakeholder", "A party with interest")) {
		t.Fatalf("glossary item must be indexed")
	}
	if x.Put(writePlain(t, dir, "PAR00000001")) {
		t.Fatalf("plain object must not be indexed")
	}
	items := x.Items()
	if len(items) != 1 || items[0].Name != "stakeholder" {
		t.Fatalf("items: %+v", items)
	}
	if items[0].Description != "A party with interest" {
		t.Fatalf("description: %q", items[0].Description)
	}
}

func TestHighlight(t *testing.T) {
	dir := t.TempDir()
	x := NewIndex()
	x.Put(writeItem(t, dir, "GLS00000001", "actor", "An external agent"))
	x.Put(writeItem(t, dir, "GLS00000002", "actor model", "A composition"))

	got := x.Highlight("The actor model extends each actor.")
	want := `The <a href="#GLS00000002">actor model</a> extends each <a href="#GLS00000001">actor</a>.`
	if got != want {
		t.Fatalf("highlight:\n got %s\nwant %s", got, want)
	}

	// Matching is case-insensitive and bounded: "actors" is another word.
	got = x.Highlight("Actor here, actors there.")
	want = `<a href="#GLS00000001">Actor</a> here, actors there.`
	if got != want {
		t.Fatalf("highlight:\n got %s\nwant %s", got, want)
	}
}

func TestHighlightAfterRemove(t *testing.T) {
	dir := t.TempDir()
	x := NewIndex()
	x.Put(writeItem(t, dir, "GLS00000001", "actor", ""))
	if !x.Remove("GLS00000001") {
		t.Fatalf("remove must report existing entry")
	}
	if x.Remove("GLS00000001") {
		t.Fatalf("second remove must report missing entry")
	}
	if got := x.Highlight("An actor walks in."); got != "An actor walks in." {
		t.Fatalf("highlight after remove: %s", got)
	}
}

func TestHighlightEmptyIndex(t *testing.T) {
	x := NewIndex()
	if got := x.Highlight("untouched"); got != "untouched" {
		t.Fatalf("empty index must return input: %s", got)
	}
}
