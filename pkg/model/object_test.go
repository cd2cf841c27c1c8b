package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"doccore/pkg/xmldoc"
)

// countParses swaps the package file parser for a counting wrapper so
// tests can observe lazy-load behavior.
func countParses(t *testing.T) *int {
	t.Helper()
	orig := parseFile
	n := new(int)
	parseFile = func(path string) (*xmldoc.Element, error) {
		*n++
		return orig(path)
	}
	t.Cleanup(func() { parseFile = orig })
	return n
}

func TestLoadObject(t *testing.T) {
	dir := writeSampleProject(t)
	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	o, err := LoadObject("SEC00000001", project)
	if err != nil {
		t.Fatalf("load object: %v", err)
	}
	if o.ID() != "SEC00000001" {
		t.Fatalf("id: got %q", o.ID())
	}
	if o.Name() != "Introduction" {
		t.Fatalf("name: got %q", o.Name())
	}
	if o.EffectiveClass() != "section" {
		t.Fatalf("effective class: got %q", o.EffectiveClass())
	}
	if o.State() != StateClean {
		t.Fatalf("state: got %v, want %v", o.State(), StateClean)
	}
}

func TestNameReadsReservedPropertyKey(t *testing.T) {
	o := &Object{node: newNode(""), id: "OBJ00000001"}
	if o.Name() != "" {
		t.Fatalf("name without property: %q", o.Name())
	}
	o.SetProperty(NewStringProperty(NamePropertyKey, "general", "Section 1", "", false, false))
	if o.Name() != "Section 1" {
		t.Fatalf("name: got %q", o.Name())
	}
}

func TestLoadObjectNotFound(t *testing.T) {
	dir := writeSampleProject(t)
	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	_, err = LoadObject("NOPE00000001", project)
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
	if nf.ID != "NOPE00000001" {
		t.Fatalf("error id: got %q", nf.ID)
	}
}

func TestChildrenLazyAndCached(t *testing.T) {
	dir := writeSampleProject(t)
	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	o, err := LoadObject("SEC00000001", project)
	if err != nil {
		t.Fatalf("load object: %v", err)
	}

	parses := countParses(t)
	children, err := o.Children()
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 1 || children[0].ID() != "PAR00000001" {
		t.Fatalf("children: got %v", children)
	}
	if children[0].Parent() != Container(o) {
		t.Fatalf("child parent not wired")
	}
	first := *parses
	if first == 0 {
		t.Fatalf("first access must hit the parser")
	}

	if _, err := o.Children(); err != nil {
		t.Fatalf("children: %v", err)
	}
	if *parses != first {
		t.Fatalf("second access reparsed: %d -> %d", first, *parses)
	}
}

func TestAcceptDescendant(t *testing.T) {
	dir := writeSampleProject(t)
	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	docs, err := project.Documents()
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	doc := docs[0]
	section, err := LoadObject("SEC00000001", project)
	if err != nil {
		t.Fatalf("load section: %v", err)
	}
	paragraph, err := LoadObject("PAR00000001", project)
	if err != nil {
		t.Fatalf("load paragraph: %v", err)
	}
	appendix, err := LoadObject("APP00000001", project)
	if err != nil {
		t.Fatalf("load appendix: %v", err)
	}

	if !doc.AcceptDescendant(section) {
		t.Fatalf("explicitly listed class must be accepted")
	}
	if !doc.AcceptDescendant(paragraph) {
		t.Fatalf("wildcard must accept a non-strict child")
	}
	// The appendix is strict-parent: the wildcard does not cover it.
	if doc.AcceptDescendant(appendix) {
		t.Fatalf("wildcard must not accept a strict-parent child")
	}

	host := &Object{
		node:             newNode(""),
		id:               "HOST00000001",
		acceptedChildren: []string{"appendix"},
		children:         []*Object{},
		childrenLoaded:   true,
	}
	if !host.AcceptDescendant(appendix) {
		t.Fatalf("explicit listing must accept a strict-parent child")
	}
}

func TestAddDescendantRejectedDoesNotMutate(t *testing.T) {
	dir := writeSampleProject(t)
	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	docs, err := project.Documents()
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	doc := docs[0]
	appendix, err := LoadObject("APP00000001", project)
	if err != nil {
		t.Fatalf("load appendix: %v", err)
	}

	before, _ := doc.Children()
	n := len(before)
	err = doc.AddDescendant(appendix)
	var rejected RejectedChildError
	if !errors.As(err, &rejected) {
		t.Fatalf("got %v, want RejectedChildError", err)
	}
	if !rejected.StrictParent {
		t.Fatalf("error must record the strict-parent cause")
	}
	after, _ := doc.Children()
	if len(after) != n {
		t.Fatalf("rejected add mutated children: %d -> %d", n, len(after))
	}
	if appendix.Parent() != nil {
		t.Fatalf("rejected child must keep no parent")
	}
	if doc.State() != StateClean {
		t.Fatalf("rejected add must not dirty the parent")
	}
}

func TestAddDescendantAtPosition(t *testing.T) {
	dir := writeSampleProject(t)
	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	section, err := LoadObject("SEC00000001", project)
	if err != nil {
		t.Fatalf("load section: %v", err)
	}
	extra := &Object{
		node:           newNode(filepath.Join(dir, ObjectsRepository, "NEW00000001.xml")),
		id:             "NEW00000001",
		classes:        []string{"paragraph"},
		project:        project,
		children:       []*Object{},
		childrenLoaded: true,
	}
	extra.state = StateFresh

	if err := section.AddDescendantAt(extra, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	children, _ := section.Children()
	if children[0].ID() != "NEW00000001" {
		t.Fatalf("insert at head failed: %v", children[0].ID())
	}
	if section.State() != StateDirty {
		t.Fatalf("structural change must dirty the parent: %v", section.State())
	}
}

func TestObjectStateMachine(t *testing.T) {
	dir := writeSampleProject(t)
	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	o, err := LoadObject("PAR00000001", project)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if o.State() != StateClean {
		t.Fatalf("loaded state: got %v", o.State())
	}

	text, ok := o.GetProperty("text")
	if !ok {
		t.Fatalf("missing text property")
	}
	o.SetProperty(text.CloneWith("updated body"))
	if o.State() != StateDirty {
		t.Fatalf("edited state: got %v", o.State())
	}

	if err := o.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if o.State() != StateClean {
		t.Fatalf("saved state: got %v", o.State())
	}

	reloaded, err := LoadObject("PAR00000001", project)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, _ := reloaded.GetProperty("text")
	if got.Value() != "updated body" {
		t.Fatalf("persisted value: got %q", got.Value())
	}
}

func TestDeadObjectRemovedOnSave(t *testing.T) {
	dir := writeSampleProject(t)
	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	section, err := LoadObject("SEC00000001", project)
	if err != nil {
		t.Fatalf("load section: %v", err)
	}
	children, err := section.Children()
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	paragraph := children[0]
	paragraph.MarkDead()

	if err := section.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(paragraph.Path()); !os.IsNotExist(err) {
		t.Fatalf("dead object file still present: %v", err)
	}
	remaining, _ := section.Children()
	if len(remaining) != 0 {
		t.Fatalf("dead object still attached: %v", remaining)
	}
	if section.State() != StateClean {
		t.Fatalf("parent must end clean after save: %v", section.State())
	}

	// The removal must have reached the parent's file too.
	root, err := xmldoc.ParseFile(section.Path())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if refs := root.Find(ChildrenTag); refs == nil || len(refs.Children) != 0 {
		t.Fatalf("saved file still references the dead child")
	}
}

func TestObjectGenerateXML(t *testing.T) {
	dir := writeSampleProject(t)
	project, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	doc, err := LoadObject("DOC00000001", project)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	el, err := doc.GenerateXML()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if el.Tag != ObjectTag {
		t.Fatalf("tag: got %q", el.Tag)
	}
	if got := el.AttrDefault("id", ""); got != "DOC00000001" {
		t.Fatalf("id attr: got %q", got)
	}
	if got := el.AttrDefault("classes", ""); got != ClassDocument {
		t.Fatalf("classes attr: got %q", got)
	}
	if _, ok := el.Attr("strictParent"); ok {
		t.Fatalf("strictParent attr must be omitted when false")
	}
	refs := el.Find(ChildrenTag)
	if refs == nil || len(refs.Children) != 1 {
		t.Fatalf("children container: %+v", refs)
	}
	if got := refs.Children[0].AttrDefault("id", ""); got != "SEC00000001" {
		t.Fatalf("child ref: got %q", got)
	}

	appendix, err := LoadObject("APP00000001", project)
	if err != nil {
		t.Fatalf("load appendix: %v", err)
	}
	el, err = appendix.GenerateXML()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := el.AttrDefault("strictParent", ""); got != "true" {
		t.Fatalf("strictParent attr: got %q", got)
	}
}
