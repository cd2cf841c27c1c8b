package model

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixtureFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeSampleProject lays out a three-level project tree:
//
//	proteus.xml
//	objects/DOC00000001.xml   document, accepts section and any
//	objects/SEC00000001.xml   section, accepts any
//	objects/PAR00000001.xml   paragraph leaf
//	objects/APP00000001.xml   appendix, strict parent
func writeSampleProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixtureFile(t, filepath.Join(dir, ProjectFileName), `<?xml version='1.0' encoding='utf-8'?>
<project id="PRJ00000001">
  <properties>
    <stringProperty name="name"><![CDATA[Sample project]]></stringProperty>
    <dateProperty name="created">2024-03-01</dateProperty>
  </properties>
  <documents>
    <document id="DOC00000001"/>
  </documents>
</project>
`)
	writeFixtureFile(t, filepath.Join(dir, ObjectsRepository, "DOC00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="DOC00000001" classes=":Proteus-document" acceptedChildren="section :Proteus-any">
  <properties>
    <stringProperty name="name"><![CDATA[Main document]]></stringProperty>
  </properties>
  <children>
    <child id="SEC00000001"/>
  </children>
</object>
`)
	writeFixtureFile(t, filepath.Join(dir, ObjectsRepository, "SEC00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="SEC00000001" classes="section" acceptedChildren=":Proteus-any">
  <properties>
    <stringProperty name="name"><![CDATA[Introduction]]></stringProperty>
  </properties>
  <children>
    <child id="PAR00000001"/>
  </children>
</object>
`)
	writeFixtureFile(t, filepath.Join(dir, ObjectsRepository, "PAR00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="PAR00000001" classes="paragraph" acceptedChildren="">
  <properties>
    <markdownProperty name="text"><![CDATA[Hello *world*]]></markdownProperty>
  </properties>
  <children/>
</object>
`)
	writeFixtureFile(t, filepath.Join(dir, ObjectsRepository, "APP00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="APP00000001" classes="appendix" acceptedChildren="" strictParent="true">
  <properties>
    <stringProperty name="name"><![CDATA[Appendix A]]></stringProperty>
  </properties>
  <children/>
</object>
`)
	return dir
}

// writeSampleArchetype lays out an archetype object library:
//
//	objects/ARC00000001.xml   section archetype with an image child
//	objects/ARC00000002.xml   figure referencing assets/logo.png
//	assets/logo.png
func writeSampleArchetype(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixtureFile(t, filepath.Join(dir, ObjectsRepository, "ARC00000001.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="ARC00000001" classes="section" acceptedChildren=":Proteus-any">
  <properties>
    <stringProperty name="name"><![CDATA[Empty section]]></stringProperty>
  </properties>
  <children>
    <child id="ARC00000002"/>
  </children>
</object>
`)
	writeFixtureFile(t, filepath.Join(dir, ObjectsRepository, "ARC00000002.xml"), `<?xml version='1.0' encoding='utf-8'?>
<object id="ARC00000002" classes="figure" acceptedChildren="">
  <properties>
    <stringProperty name="name"><![CDATA[Figure]]></stringProperty>
    <fileProperty name="file"><![CDATA[logo.png]]></fileProperty>
  </properties>
  <children/>
</object>
`)
	writeFixtureFile(t, filepath.Join(dir, AssetsRepository, "logo.png"), "PNGDATA")
	return dir
}
