package service

import (
	"bytes"
	"context"

	"doccore/pkg/model"
	"doccore/pkg/xmldoc"
)

// GenerateDocumentXML renders one project document as a single well-formed
// XML tree with every descendant inlined. Object files on disk keep
// children as ID references; the render output is the expansion a
// downstream formatter consumes.
func (s *Service) GenerateDocumentXML(ctx context.Context, project *model.Project, documentID model.ID) ([]byte, error) {
	var out []byte
	err := s.instrument(ctx, "generate_document_xml", func(context.Context) error {
		docs, err := project.Documents()
		if err != nil {
			return err
		}
		var doc *model.Object
		for _, d := range docs {
			if d.ID() == documentID {
				doc = d
				break
			}
		}
		if doc == nil {
			return model.NotFoundError{Kind: "document", ID: documentID, Path: project.Dir()}
		}
		el, err := renderObject(doc)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if _, err := el.WriteTo(&buf); err != nil {
			return err
		}
		out = buf.Bytes()
		return nil
	})
	return out, err
}

// renderObject builds the inlined element for an object: the same
// attributes and properties as its file form, but with full child
// elements instead of ID references. Dead objects are omitted.
func renderObject(o *model.Object) (*xmldoc.Element, error) {
	el, err := o.GenerateXML()
	if err != nil {
		return nil, err
	}
	children, err := o.Children()
	if err != nil {
		return nil, err
	}
	container := el.Find(model.ChildrenTag)
	container.Children = container.Children[:0]
	for _, child := range children {
		if child.State() == model.StateDead {
			continue
		}
		sub, err := renderObject(child)
		if err != nil {
			return nil, err
		}
		container.AddChild(sub)
	}
	return el, nil
}
