// Package archetype loads the read-only archetype library: template
// projects, documents and objects that editing sessions clone from. The
// library is never written to; every use goes through a model clone into a
// target project.
package archetype

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"doccore/pkg/model"
	"doccore/pkg/xmldoc"
)

// Library layout under the repository root.
const (
	ProjectsDirectory  = "projects"
	DocumentsDirectory = "documents"
	ObjectsDirectory   = "objects"

	// DocumentPointerFile names the root object of a document archetype.
	DocumentPointerFile = "document.xml"
	// ObjectsPointerFile lists the top-level objects of an object class.
	ObjectsPointerFile = "objects.xml"
)

// Repository is a loaded handle on an archetype library directory.
type Repository struct {
	dir string
}

// NewRepository opens the library rooted at dir.
func NewRepository(dir string) (*Repository, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, model.NotFoundError{Kind: "archetype library", Path: dir}
	}
	return &Repository{dir: dir}, nil
}

// Dir returns the library root.
func (r *Repository) Dir() string { return r.dir }

// ProjectArchetypes loads every project archetype, sorted by directory
// name. Each entry is a live model.Project whose root file is the
// archetype form (project.xml); cloning it into a workspace produces a
// regular project.
func (r *Repository) ProjectArchetypes() ([]*model.Project, error) {
	names, err := subdirectories(filepath.Join(r.dir, ProjectsDirectory))
	if err != nil {
		return nil, err
	}
	projects := make([]*model.Project, 0, len(names))
	for _, name := range names {
		p, err := model.LoadArchetypeProject(filepath.Join(r.dir, ProjectsDirectory, name))
		if err != nil {
			return nil, fmt.Errorf("project archetype %s: %w", name, err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// ProjectArchetype loads one project archetype by directory name.
func (r *Repository) ProjectArchetype(name string) (*model.Project, error) {
	return model.LoadArchetypeProject(filepath.Join(r.dir, ProjectsDirectory, name))
}

// DocumentArchetypes loads the root object of every document archetype,
// sorted by directory name. The document.xml pointer names the root
// object, which lives with its subtree under the directory's objects/
// repository.
func (r *Repository) DocumentArchetypes() ([]*model.Object, error) {
	names, err := subdirectories(filepath.Join(r.dir, DocumentsDirectory))
	if err != nil {
		return nil, err
	}
	documents := make([]*model.Object, 0, len(names))
	for _, name := range names {
		doc, err := r.DocumentArchetype(name)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

// DocumentArchetype loads one document archetype by directory name.
func (r *Repository) DocumentArchetype(name string) (*model.Object, error) {
	base := filepath.Join(r.dir, DocumentsDirectory, name)
	id, err := pointerID(filepath.Join(base, DocumentPointerFile))
	if err != nil {
		return nil, fmt.Errorf("document archetype %s: %w", name, err)
	}
	doc, err := model.LoadArchetypeObject(filepath.Join(base, ObjectsDirectory, id+".xml"))
	if err != nil {
		return nil, fmt.Errorf("document archetype %s: %w", name, err)
	}
	return doc, nil
}

// ObjectArchetypes loads the object library grouped by class directory.
// Each class directory carries an objects.xml pointer listing its
// top-level object IDs; children are reachable through the objects
// themselves and are not listed.
func (r *Repository) ObjectArchetypes() (map[string][]*model.Object, error) {
	classes, err := subdirectories(filepath.Join(r.dir, ObjectsDirectory))
	if err != nil {
		return nil, err
	}
	out := make(map[string][]*model.Object, len(classes))
	for _, class := range classes {
		base := filepath.Join(r.dir, ObjectsDirectory, class)
		ids, err := pointerIDs(filepath.Join(base, ObjectsPointerFile))
		if err != nil {
			return nil, fmt.Errorf("object archetypes %s: %w", class, err)
		}
		objects := make([]*model.Object, 0, len(ids))
		for _, id := range ids {
			o, err := model.LoadArchetypeObject(filepath.Join(base, ObjectsDirectory, id+".xml"))
			if err != nil {
				return nil, fmt.Errorf("object archetype %s/%s: %w", class, id, err)
			}
			objects = append(objects, o)
		}
		out[class] = objects
	}
	return out, nil
}

// ObjectArchetypeByID searches every class for a top-level object
// archetype with the given ID.
func (r *Repository) ObjectArchetypeByID(id model.ID) (*model.Object, error) {
	byClass, err := r.ObjectArchetypes()
	if err != nil {
		return nil, err
	}
	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		for _, o := range byClass[class] {
			if o.ID() == id {
				return o, nil
			}
		}
	}
	return nil, model.NotFoundError{Kind: "object archetype", ID: id, Path: r.dir}
}

// pointerID reads a single-object pointer file and returns its id.
func pointerID(path string) (string, error) {
	ids, err := pointerIDs(path)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("pointer %s lists no objects", path)
	}
	return ids[0], nil
}

// pointerIDs reads a pointer file and returns the id attribute of the root
// (when present) or of each child element.
func pointerIDs(path string) ([]string, error) {
	root, err := xmldoc.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if id, ok := root.Attr("id"); ok && id != "" {
		return []string{id}, nil
	}
	var ids []string
	for _, child := range root.Children {
		id, ok := child.Attr("id")
		if !ok || id == "" {
			return nil, fmt.Errorf("pointer %s: entry without id attribute", path)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, model.NotFoundError{Kind: "archetype directory", Path: dir}
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
