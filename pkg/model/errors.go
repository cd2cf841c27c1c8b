package model

import "fmt"

// NotFoundError reports a missing project directory, objects repository,
// or object file.
type NotFoundError struct {
	Kind string // "project", "object", "objects repository", "asset"
	ID   ID     // object ID when applicable
	Path string
}

func (e NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s not found at %s", e.Kind, e.ID, e.Path)
	}
	return fmt.Sprintf("%s not found at %s", e.Kind, e.Path)
}

// CorruptProjectError reports a structural format error: wrong root tag or
// a missing required container element. Fatal to the enclosing load.
type CorruptProjectError struct {
	Path   string
	Detail string
}

func (e CorruptProjectError) Error() string {
	return fmt.Sprintf("corrupt project data in %s: %s", e.Path, e.Detail)
}

// RejectedChildError reports an attempt to add a child whose class the
// parent does not accept. This is a caller contract violation, not a
// recoverable runtime condition.
type RejectedChildError struct {
	ParentID         ID
	ChildID          ID
	ChildClass       string
	AcceptedChildren []string
	StrictParent     bool
}

func (e RejectedChildError) Error() string {
	return fmt.Sprintf("child %s (class %q, strictParent=%t) not accepted by %s (accepts %v)",
		e.ChildID, e.ChildClass, e.StrictParent, e.ParentID, e.AcceptedChildren)
}

// DuplicateDocumentError reports adding a document whose ID is already
// present in the project.
type DuplicateDocumentError struct {
	ProjectID  ID
	DocumentID ID
}

func (e DuplicateDocumentError) Error() string {
	return fmt.Sprintf("document %s is already in project %s", e.DocumentID, e.ProjectID)
}
