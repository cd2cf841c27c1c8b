package model

import (
	"fmt"
	"os"
	"path/filepath"

	"doccore/pkg/xmldoc"
)

// Project is the root container of a document tree: a proteus.xml file in
// a directory with objects and assets subdirectories. Projects are
// created by cloning an archetype project and loaded from disk by path.
// The project root path is threaded through every path resolution; the
// process working directory is never consulted or changed.
type Project struct {
	node
	id ID

	documents       []*Object
	documentsLoaded bool
}

// LoadProject loads a project from its directory.
func LoadProject(dir string) (*Project, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, NotFoundError{Kind: "project", Path: dir}
	}
	path := filepath.Join(dir, ProjectFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, NotFoundError{Kind: "project", Path: path}
	}
	return newProjectFromFile(path)
}

// LoadArchetypeProject loads a project archetype from its directory,
// where the root file is project.xml instead of proteus.xml.
func LoadArchetypeProject(dir string) (*Project, error) {
	path := filepath.Join(dir, ArchetypeProjectFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, NotFoundError{Kind: "project", Path: path}
	}
	return newProjectFromFile(path)
}

func newProjectFromFile(path string) (*Project, error) {
	root, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if root.Tag != ProjectTag {
		return nil, CorruptProjectError{Path: path, Detail: fmt.Sprintf("root element is <%s>, want <%s>", root.Tag, ProjectTag)}
	}
	id, ok := root.Attr(idAttribute)
	if !ok || id == "" {
		return nil, CorruptProjectError{Path: path, Detail: "project without id attribute"}
	}
	p := &Project{node: newNode(path), id: ID(id)}
	if err := p.loadProperties(root); err != nil {
		return nil, err
	}
	return p, nil
}

// ID returns the project identifier.
func (p *Project) ID() ID { return p.id }

// ContainerID implements Container.
func (p *Project) ContainerID() ID { return p.id }

// Dir returns the project root directory.
func (p *Project) Dir() string { return filepath.Dir(p.path) }

// Documents returns the ordered top-level document list, loading it from
// the project file on first access and caching it afterwards.
func (p *Project) Documents() ([]*Object, error) {
	if !p.documentsLoaded {
		p.documents = []*Object{}
		p.documentsLoaded = true
		if err := p.loadDocuments(); err != nil {
			p.documentsLoaded = false
			return nil, err
		}
	}
	return p.documents, nil
}

// Descendants implements Container.
func (p *Project) Descendants() ([]*Object, error) { return p.Documents() }

func (p *Project) loadDocuments() error {
	root, err := parseFile(p.path)
	if err != nil {
		return err
	}
	container := root.Find(DocumentsTag)
	if container == nil {
		return CorruptProjectError{Path: p.path, Detail: "missing <" + DocumentsTag + "> element"}
	}
	for _, ref := range container.Children {
		docID, ok := ref.Attr(idAttribute)
		if !ok || docID == "" {
			return CorruptProjectError{Path: p.path, Detail: "document reference without id attribute"}
		}
		doc, err := LoadObject(ID(docID), p)
		if err != nil {
			return err
		}
		doc.parent = p
		p.documents = append(p.documents, doc)
	}
	return nil
}

// AddDescendant appends a document to the project.
func (p *Project) AddDescendant(document *Object) error {
	docs, err := p.Documents()
	if err != nil {
		return err
	}
	return p.AddDescendantAt(document, len(docs))
}

// AddDescendantAt inserts a document at position. The object must carry
// the reserved document class tag and its ID must not already be present.
func (p *Project) AddDescendantAt(document *Object, position int) error {
	docs, err := p.Documents()
	if err != nil {
		return err
	}
	if !document.HasClass(ClassDocument) {
		return RejectedChildError{
			ParentID:         p.id,
			ChildID:          document.id,
			ChildClass:       document.EffectiveClass(),
			AcceptedChildren: []string{ClassDocument},
		}
	}
	for _, d := range docs {
		if d.id == document.id {
			return DuplicateDocumentError{ProjectID: p.id, DocumentID: document.id}
		}
	}
	if position < 0 || position > len(docs) {
		position = len(docs)
	}
	p.documents = append(docs[:position:position], append([]*Object{document}, docs[position:]...)...)
	document.parent = p
	p.markChanged()
	return nil
}

func (p *Project) removeDescendant(document *Object) {
	for i, d := range p.documents {
		if d == document {
			p.documents = append(p.documents[:i], p.documents[i+1:]...)
			p.markChanged()
			return
		}
	}
}

// IDs returns every object ID reachable from the project's documents,
// forcing the full tree to load. Used by clone to allocate collision-free
// identifiers.
func (p *Project) IDs() (map[ID]struct{}, error) {
	ids := make(map[ID]struct{})
	docs, err := p.Documents()
	if err != nil {
		return nil, err
	}
	var walk func(o *Object) error
	walk = func(o *Object) error {
		ids[o.id] = struct{}{}
		children, err := o.Children()
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, d := range docs {
		if err := walk(d); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// GenerateXML builds the project's XML element with its properties and a
// documents container listing the IDs of every non-dead document.
func (p *Project) GenerateXML() (*xmldoc.Element, error) {
	docs, err := p.Documents()
	if err != nil {
		return nil, err
	}
	el := xmldoc.NewElement(ProjectTag)
	el.SetAttr(idAttribute, string(p.id))
	p.generateXMLProperties(el)
	container := el.SubElement(DocumentsTag)
	for _, doc := range docs {
		if doc.State() == StateDead {
			continue
		}
		ref := container.SubElement(DocumentTag)
		ref.SetAttr(idAttribute, string(doc.id))
	}
	return el, nil
}

// Save persists the whole project: every document subtree first, then the
// project file itself when dirty or fresh. Partial completion on error is
// not rolled back.
func (p *Project) Save() error {
	docs, err := p.Documents()
	if err != nil {
		return err
	}
	for _, doc := range append([]*Object(nil), docs...) {
		if err := doc.Save(); err != nil {
			return err
		}
	}
	if p.state == StateDirty || p.state == StateFresh {
		el, err := p.GenerateXML()
		if err != nil {
			return err
		}
		if err := el.WriteFile(p.path); err != nil {
			return fmt.Errorf("save project %s: %w", p.id, err)
		}
		p.state = StateClean
	}
	return nil
}

// CloneProject copies the whole project directory tree (objects and
// assets included) to targetDir/newName and loads the copy. When the
// source uses the archetype root filename, the copy is renamed to the
// standard project filename first.
func (p *Project) CloneProject(targetDir, newName string) (*Project, error) {
	info, err := os.Stat(targetDir)
	if err != nil || !info.IsDir() {
		return nil, NotFoundError{Kind: "project", Path: targetDir}
	}
	sourceDir := p.Dir()
	if info, err := os.Stat(filepath.Join(sourceDir, ObjectsRepository)); err != nil || !info.IsDir() {
		return nil, CorruptProjectError{Path: sourceDir, Detail: "missing objects repository"}
	}
	_, errLive := os.Stat(filepath.Join(sourceDir, ProjectFileName))
	_, errArch := os.Stat(filepath.Join(sourceDir, ArchetypeProjectFileName))
	if errLive != nil && errArch != nil {
		return nil, CorruptProjectError{Path: sourceDir, Detail: "missing project file"}
	}

	target := filepath.Join(targetDir, newName)
	if _, err := os.Stat(target); err == nil {
		return nil, fmt.Errorf("clone project: %s already exists", target)
	}
	if err := copyTree(sourceDir, target); err != nil {
		return nil, fmt.Errorf("clone project: %w", err)
	}
	archetypeFile := filepath.Join(target, ArchetypeProjectFileName)
	if _, err := os.Stat(archetypeFile); err == nil {
		if err := os.Rename(archetypeFile, filepath.Join(target, ProjectFileName)); err != nil {
			return nil, fmt.Errorf("clone project: %w", err)
		}
	}
	return LoadProject(target)
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
