package service

import (
	"os"
	"path/filepath"
	"testing"

	"doccore/internal/archetype"
	"doccore/pkg/model"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeProject lays out a project with one document, one section and one
// paragraph.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write(t, filepath.Join(dir, model.ProjectFileName), `<?xml version='1.0' encoding='utf-8'?>
<project id="PRJ00000001">
  <properties>
    <stringProperty name="name"><![CDATA[Workspace]]></stringProperty>
    <stringProperty name="version" inmutable="true"><![CDATA[1.0]]></stringProperty>
  </properties>
  <documents>
    <document id="DOC00000001"/>
  </documents>
</project>
`)
	write(t, filepath.Join(dir, model.ObjectsRepository, "DOC00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="DOC00000001" classes=":Proteus-document" acceptedChildren=":Proteus-any">
  <properties>
    <stringProperty name="name"><![CDATA[Main]]></stringProperty>
  </properties>
  <children>
    <child id="SEC00000001"/>
  </children>
</object>
`)
	write(t, filepath.Join(dir, model.ObjectsRepository, "SEC00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="SEC00000001" classes="section" acceptedChildren=":Proteus-any">
  <properties>
    <stringProperty name="name"><![CDATA[Intro]]></stringProperty>
  </properties>
  <children>
    <child id="PAR00000001"/>
  </children>
</object>
`)
	write(t, filepath.Join(dir, model.ObjectsRepository, "PAR00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="PAR00000001" classes="paragraph" acceptedChildren="">
  <properties>
    <markdownProperty name="text"><![CDATA[Hello]]></markdownProperty>
  </properties>
  <children/>
</object>
`)
	return dir
}

// writeLibrary lays out an archetype library with one project archetype,
// one document archetype and one object class with a paragraph archetype.
func writeLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write(t, filepath.Join(dir, archetype.ProjectsDirectory, "empty", model.ArchetypeProjectFileName), `<?xml version='1.0' encoding='utf-8'?>
<project id="APR00000001">
  <properties>
    <stringProperty name="name"><![CDATA[Empty]]></stringProperty>
  </properties>
  <documents>
    <document id="ADO00000001"/>
  </documents>
</project>
`)
	write(t, filepath.Join(dir, archetype.ProjectsDirectory, "empty", "objects", "ADO00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="ADO00000001" classes=":Proteus-document" acceptedChildren=":Proteus-any">
  <properties>
    <stringProperty name="name"><![CDATA[Blank]]></stringProperty>
  </properties>
  <children/>
</object>
`)

	write(t, filepath.Join(dir, archetype.DocumentsDirectory, "report", archetype.DocumentPointerFile), `<?xml version='1.0' encoding='utf-8'?>
<document id="ADD00000001"/>
`)
	write(t, filepath.Join(dir, archetype.DocumentsDirectory, "report", "objects", "ADD00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="ADD00000001" classes=":Proteus-document" acceptedChildren=":Proteus-any">
  <properties>
    <stringProperty name="name"><![CDATA[Report]]></stringProperty>
  </properties>
  <children/>
</object>
`)

	write(t, filepath.Join(dir, archetype.ObjectsDirectory, "general", archetype.ObjectsPointerFile), `<?xml version='1.0' encoding='utf-8'?>
<objects>
  <object id="AOB00000001"/>
</objects>
`)
	write(t, filepath.Join(dir, archetype.ObjectsDirectory, "general", "objects", "AOB00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="AOB00000001" classes="paragraph" acceptedChildren="">
  <properties>
    <markdownProperty name="text"><![CDATA[Template body]]></markdownProperty>
  </properties>
  <children/>
</object>
`)
	return dir
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc, err := New(Config{ArchetypesDir: writeLibrary(t)}, opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
