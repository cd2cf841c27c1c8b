package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"doccore/pkg/xmldoc"
)

// Container is the parent side of the tree relation: an Object or a
// Project that owns an ordered list of child objects.
type Container interface {
	// Descendants returns the ordered child list, loading it on first use.
	Descendants() ([]*Object, error)
	// AddDescendantAt validates and inserts a child at position.
	AddDescendantAt(child *Object, position int) error
	// ContainerID identifies the container for error reporting.
	ContainerID() ID

	removeDescendant(child *Object)
}

// Object is a node of the hierarchical document tree: one XML file inside
// a project's objects directory. Objects are created by cloning an
// existing object (usually an archetype) or loaded from disk by ID.
type Object struct {
	node
	id      ID
	classes []string
	// acceptedChildren lists the class tags allowed as direct children.
	// ClassAny accepts anything except strict-parent objects.
	acceptedChildren []string
	// strictParent restricts this object to parents that list its class
	// explicitly, even when they accept ClassAny.
	strictParent bool

	// parent is a non-owning back-reference; the owning edge is the
	// parent's children list.
	parent  Container
	project *Project

	children       []*Object
	childrenLoaded bool
}

// LoadObject loads an object by ID from the project's objects directory.
func LoadObject(id ID, project *Project) (*Object, error) {
	if project == nil {
		return nil, fmt.Errorf("load object %s: nil project", id)
	}
	objectsDir := filepath.Join(project.Dir(), ObjectsRepository)
	info, err := os.Stat(objectsDir)
	if err != nil || !info.IsDir() {
		return nil, NotFoundError{Kind: "objects repository", Path: objectsDir}
	}
	path := filepath.Join(objectsDir, string(id)+".xml")
	if _, err := os.Stat(path); err != nil {
		return nil, NotFoundError{Kind: "object", ID: id, Path: path}
	}
	return newObjectFromFile(path, project)
}

// LoadArchetypeObject loads an object straight from an archetype library
// file. The object carries no project; asset and child paths resolve
// relative to its own location.
func LoadArchetypeObject(path string) (*Object, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, NotFoundError{Kind: "object", Path: path}
	}
	return newObjectFromFile(path, nil)
}

// newObjectFromFile parses an object file. Children are deferred until
// first access.
func newObjectFromFile(path string, project *Project) (*Object, error) {
	root, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if root.Tag != ObjectTag {
		return nil, CorruptProjectError{Path: path, Detail: fmt.Sprintf("root element is <%s>, want <%s>", root.Tag, ObjectTag)}
	}
	id, ok := root.Attr(idAttribute)
	if !ok || id == "" {
		return nil, CorruptProjectError{Path: path, Detail: "object without id attribute"}
	}

	o := &Object{
		node:             newNode(path),
		id:               ID(id),
		classes:          strings.Fields(root.AttrDefault(classesAttribute, "")),
		acceptedChildren: strings.Fields(root.AttrDefault(acceptedChildrenAttribute, "")),
		// The attribute is parsed strictly: only the literal "true"
		// (case-insensitive) enables the flag.
		strictParent: strings.EqualFold(root.AttrDefault(strictParentAttribute, "false"), "true"),
		project:      project,
	}
	if err := o.loadProperties(root); err != nil {
		return nil, err
	}
	return o, nil
}

// ID returns the object identifier.
func (o *Object) ID() ID { return o.id }

// ContainerID implements Container.
func (o *Object) ContainerID() ID { return o.id }

// Classes returns the ordered class tag list.
func (o *Object) Classes() []string { return append([]string(nil), o.classes...) }

// EffectiveClass is the last class tag, used for icon lookup and
// accepted-children checks.
func (o *Object) EffectiveClass() string {
	if len(o.classes) == 0 {
		return ""
	}
	return o.classes[len(o.classes)-1]
}

// HasClass reports whether tag appears anywhere in the class list.
func (o *Object) HasClass(tag string) bool { return contains(o.classes, tag) }

// AcceptedChildren returns the accepted child class tags.
func (o *Object) AcceptedChildren() []string { return append([]string(nil), o.acceptedChildren...) }

// StrictParent reports whether this object may only be placed under
// parents that list its class explicitly.
func (o *Object) StrictParent() bool { return o.strictParent }

// Parent returns the non-owning back-reference to the owning container.
func (o *Object) Parent() Container { return o.parent }

// Project returns the owning project, nil for archetype objects.
func (o *Object) Project() *Project { return o.project }

// Children returns the ordered child list, loading it from the backing
// file on first access and caching it afterwards.
func (o *Object) Children() ([]*Object, error) {
	if !o.childrenLoaded {
		o.children = []*Object{}
		o.childrenLoaded = true
		if err := o.loadChildren(); err != nil {
			o.childrenLoaded = false
			return nil, err
		}
	}
	return o.children, nil
}

// Descendants implements Container.
func (o *Object) Descendants() ([]*Object, error) { return o.Children() }

// loadChildren parses the <children> container and loads every referenced
// child as an independent unit.
func (o *Object) loadChildren() error {
	root, err := parseFile(o.path)
	if err != nil {
		return err
	}
	container := root.Find(ChildrenTag)
	if container == nil {
		return CorruptProjectError{Path: o.path, Detail: "missing <" + ChildrenTag + "> element"}
	}
	for _, ref := range container.Children {
		childID, ok := ref.Attr(idAttribute)
		if !ok || childID == "" {
			return CorruptProjectError{Path: o.path, Detail: "child reference without id attribute"}
		}
		var child *Object
		if o.project != nil {
			child, err = LoadObject(ID(childID), o.project)
		} else {
			// Archetype objects resolve children next to their own file.
			child, err = LoadArchetypeObject(filepath.Join(filepath.Dir(o.path), childID+".xml"))
		}
		if err != nil {
			return err
		}
		child.parent = o
		o.children = append(o.children, child)
	}
	return nil
}

// AcceptDescendant reports whether child is structurally valid under this
// object: its effective class is listed in acceptedChildren, or this
// object accepts ClassAny and the child is not strict-parent.
func (o *Object) AcceptDescendant(child *Object) bool {
	if contains(o.acceptedChildren, child.EffectiveClass()) {
		return true
	}
	return contains(o.acceptedChildren, ClassAny) && !child.strictParent
}

// AddDescendant appends child after validating acceptance.
func (o *Object) AddDescendant(child *Object) error {
	children, err := o.Children()
	if err != nil {
		return err
	}
	return o.AddDescendantAt(child, len(children))
}

// AddDescendantAt inserts child at position after validating acceptance.
// A rejected child never mutates the children list.
func (o *Object) AddDescendantAt(child *Object, position int) error {
	children, err := o.Children()
	if err != nil {
		return err
	}
	if !o.AcceptDescendant(child) {
		return RejectedChildError{
			ParentID:         o.id,
			ChildID:          child.id,
			ChildClass:       child.EffectiveClass(),
			AcceptedChildren: o.AcceptedChildren(),
			StrictParent:     child.strictParent,
		}
	}
	if position < 0 || position > len(children) {
		position = len(children)
	}
	o.children = append(children[:position:position], append([]*Object{child}, children[position:]...)...)
	child.parent = o
	o.markChanged()
	return nil
}

func (o *Object) removeDescendant(child *Object) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			o.markChanged()
			return
		}
	}
}

// GenerateXML builds the object's XML element: attributes, the properties
// container, and a children container holding ID references only (children
// live in their own files).
func (o *Object) GenerateXML() (*xmldoc.Element, error) {
	children, err := o.Children()
	if err != nil {
		return nil, err
	}
	el := xmldoc.NewElement(ObjectTag)
	el.SetAttr(idAttribute, string(o.id))
	el.SetAttr(classesAttribute, strings.Join(o.classes, " "))
	el.SetAttr(acceptedChildrenAttribute, strings.Join(o.acceptedChildren, " "))
	if o.strictParent {
		el.SetAttr(strictParentAttribute, "true")
	}
	o.generateXMLProperties(el)
	container := el.SubElement(ChildrenTag)
	for _, child := range children {
		ref := container.SubElement(ChildTag)
		ref.SetAttr(idAttribute, string(child.id))
	}
	return el, nil
}

// Save persists the subtree depth-first, children before self. A dirty or
// fresh object is rewritten and becomes clean; a dead object is detached
// from its parent and its file removed (tolerating a file that was never
// written). Partial completion on error is possible and is not rolled
// back; callers should reload on failure.
func (o *Object) Save() error {
	children, err := o.Children()
	if err != nil {
		return err
	}
	for _, child := range append([]*Object(nil), children...) {
		if err := child.Save(); err != nil {
			return err
		}
	}

	switch o.state {
	case StateDirty, StateFresh:
		el, err := o.GenerateXML()
		if err != nil {
			return err
		}
		if err := el.WriteFile(o.path); err != nil {
			return fmt.Errorf("save object %s: %w", o.id, err)
		}
		o.state = StateClean
	case StateDead:
		if o.parent != nil {
			o.parent.removeDescendant(o)
		}
		if err := os.Remove(o.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete object %s: %w", o.id, err)
		}
	}
	return nil
}

// Clone deep-copies this object and its whole subtree under parent inside
// project, appending at the end of the parent's children.
func (o *Object) Clone(parent Container, project *Project) (*Object, error) {
	return o.CloneAt(parent, project, -1)
}

// CloneAt deep-copies this object and its subtree under parent at the
// given position (negative appends). Every copy gets a fresh
// project-unique ID and state fresh; referenced assets are copied into
// the target project with a "(n)" rename on filename collision. The clone
// is not saved; it persists with the next project save.
func (o *Object) CloneAt(parent Container, project *Project, position int) (*Object, error) {
	if project == nil {
		return nil, fmt.Errorf("clone %s: nil target project", o.id)
	}
	if parent == nil {
		return nil, fmt.Errorf("clone %s: nil parent", o.id)
	}

	ids, err := project.IDs()
	if err != nil {
		return nil, err
	}
	return o.cloneSubtree(parent, project, position, ids)
}

// cloneSubtree is the single recursive clone step: copy scalar and
// property state, allocate a unique ID and path, register under parent,
// copy the referenced asset, then recurse over the original's children.
// The ids set accumulates allocations so sibling clones cannot collide
// before they are reachable from the project tree.
func (o *Object) cloneSubtree(parent Container, project *Project, position int, ids map[ID]struct{}) (*Object, error) {
	cp := &Object{
		node:             newNode(""),
		classes:          append([]string(nil), o.classes...),
		acceptedChildren: append([]string(nil), o.acceptedChildren...),
		strictParent:     o.strictParent,
		project:          project,
		children:         []*Object{},
		childrenLoaded:   true,
	}
	cp.props, cp.order = o.cloneProps()
	cp.state = StateFresh

	cp.id = NewID()
	for {
		if _, taken := ids[cp.id]; !taken {
			break
		}
		cp.id = NewID()
	}
	ids[cp.id] = struct{}{}
	cp.path = filepath.Join(project.Dir(), ObjectsRepository, string(cp.id)+".xml")

	if err := parent.AddDescendantAt(cp, position); err != nil {
		return nil, err
	}

	if asset, ok := cp.GetProperty(FilePropertyKey); ok {
		if fp, isFile := asset.(FileProperty); isFile && fp.Value() != "" {
			if err := o.cloneAsset(cp, fp, project); err != nil {
				return nil, err
			}
		}
	}

	children, err := o.Children()
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if _, err := child.cloneSubtree(cp, project, -1, ids); err != nil {
			return nil, err
		}
	}
	return cp, nil
}

// cloneAsset copies the file referenced by prop from the source assets
// directory (library-relative for archetypes, project-relative otherwise)
// into the target project's assets directory, renaming on collision and
// updating the copy's file property to the final name.
func (o *Object) cloneAsset(cp *Object, prop FileProperty, project *Project) error {
	var sourceDir string
	if o.project == nil {
		// Archetype convention: the assets directory is a sibling of the
		// objects directory holding this file.
		sourceDir = filepath.Join(filepath.Dir(filepath.Dir(o.path)), AssetsRepository)
	} else {
		sourceDir = filepath.Join(o.project.Dir(), AssetsRepository)
	}
	sourcePath := filepath.Join(sourceDir, prop.Value())
	if _, err := os.Stat(sourcePath); err != nil {
		return NotFoundError{Kind: "asset", Path: sourcePath}
	}

	targetDir := filepath.Join(project.Dir(), AssetsRepository)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("create assets directory: %w", err)
	}

	name := prop.Value()
	if _, err := os.Stat(filepath.Join(targetDir, name)); err == nil {
		name = freeAssetName(targetDir, name)
		cp.SetProperty(prop.CloneWith(name))
		log.Info().Msgf("asset %s renamed to %s on clone", prop.Value(), name)
	}
	return copyFile(sourcePath, filepath.Join(targetDir, name))
}

// freeAssetName scans name(1), name(2), ... until an unused filename is
// found, preserving the extension. The linear scan keeps rename decisions
// deterministic across repeated clones.
func freeAssetName(dir, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s(%d)%s", stem, n, ext)
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
