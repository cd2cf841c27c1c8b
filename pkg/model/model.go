// Package model implements the doccore document object model: projects
// composed of nested objects with typed, categorized properties, persisted
// as one XML file per object inside a project directory. It covers the
// load/save lifecycle, the dirty-state machine, archetype cloning with
// collision-safe asset copying, and XML generation for rendering.
package model

import (
	"crypto/rand"

	"doccore/pkg/xmldoc"

	"github.com/rs/zerolog"
)

// On-disk layout of a project directory.
const (
	// ProjectFileName is the root XML file of a live project.
	ProjectFileName = "proteus.xml"
	// ArchetypeProjectFileName is the root XML file of a project archetype.
	ArchetypeProjectFileName = "project.xml"
	// ObjectsRepository is the subdirectory holding one XML file per object.
	ObjectsRepository = "objects"
	// AssetsRepository is the subdirectory holding files referenced by file
	// properties.
	AssetsRepository = "assets"
)

// XML tag and attribute names of the project format.
const (
	ProjectTag    = "project"
	ObjectTag     = "object"
	PropertiesTag = "properties"
	DocumentsTag  = "documents"
	DocumentTag   = "document"
	ChildrenTag   = "children"
	ChildTag      = "child"

	idAttribute               = "id"
	classesAttribute          = "classes"
	acceptedChildrenAttribute = "acceptedChildren"
	strictParentAttribute     = "strictParent"
)

// Reserved property names the model itself interprets.
const (
	// NamePropertyKey supplies a node's display name.
	NamePropertyKey = "name"
	// DescriptionPropertyKey carries the long-form description consumers
	// such as the glossary index read.
	DescriptionPropertyKey = "description"
	// FilePropertyKey names the asset file a cloned object carries along.
	FilePropertyKey = "file"
)

// Reserved class tags.
const (
	// ClassAny on an acceptedChildren list accepts any child class, subject
	// to the child's strictParent flag.
	ClassAny = ":Proteus-any"
	// ClassDocument marks an object as a top-level project document.
	ClassDocument = ":Proteus-document"
)

// ID is an opaque short unique object identifier, unique within a project's
// object namespace. Immutable once assigned.
type ID string

// idAlphabet matches the shortuuid character set: ambiguous characters
// (0, O, 1, l, I) are excluded.
const idAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const idLength = 12

// NewID returns a random 12-character identifier.
func NewID() ID {
	var buf [idLength]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return ID(buf[:])
}

// State is the persistence lifecycle state of a node.
type State int

// Node lifecycle states.
const (
	// StateFresh marks a newly created node not yet persisted.
	StateFresh State = iota
	// StateClean marks a persisted node unmodified since the last save.
	StateClean
	// StateDirty marks a persisted node modified since the last save.
	StateDirty
	// StateDead marks a node scheduled for removal on the next save.
	StateDead
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// log is the package logger. Value-format warnings (bad booleans, unknown
// property tags, invalid URLs) are reported here instead of failing the
// operation. Disabled by default so library consumers stay quiet.
var log = zerolog.Nop()

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) { log = l }

// parseFile is swappable in tests to count or fake file accesses.
var parseFile = xmldoc.ParseFile
