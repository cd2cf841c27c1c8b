// Package service wraps the document model with the collaborators an
// editing session needs: the archetype library, the archive vault, the
// recent-projects registry, and operation instrumentation. The GUI layer
// (out of scope here) talks to this package only.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"doccore/internal/archetype"
	"doccore/internal/registry"
	"doccore/internal/vault"
	"doccore/pkg/model"
)

// Config carries explicit construction parameters. Collaborators that have
// environment-driven factories (vault, registry) are injected via options
// so tests can pass in-memory implementations directly.
type Config struct {
	// ArchetypesDir is the archetype library root. Empty disables the
	// archetype operations.
	ArchetypesDir string
}

// Service is the operation surface over the document model.
type Service struct {
	archetypes *archetype.Repository
	vault      vault.Store
	registry   registry.Registry
	metrics    MetricsRecorder
	tracer     Tracer
	log        zerolog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMetricsRecorder wires an operation metrics sink.
func WithMetricsRecorder(m MetricsRecorder) Option { return func(s *Service) { s.metrics = m } }

// WithTracer wires an operation tracer.
func WithTracer(t Tracer) Option { return func(s *Service) { s.tracer = t } }

// WithVault wires the archive vault used by ArchiveProject.
func WithVault(v vault.Store) Option { return func(s *Service) { s.vault = v } }

// WithRegistry wires the recent-projects registry updated on save.
func WithRegistry(r registry.Registry) Option { return func(s *Service) { s.registry = r } }

// WithLogger replaces the service logger (disabled by default).
func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock replaces the wall clock, used by tests to pin archive names
// and registry timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New constructs a Service. The archetype library is opened eagerly so a
// misconfigured path fails at startup, not on first clone.
func New(cfg Config, opts ...Option) (*Service, error) {
	s := &Service{log: zerolog.Nop(), now: time.Now}
	if cfg.ArchetypesDir != "" {
		repo, err := archetype.NewRepository(cfg.ArchetypesDir)
		if err != nil {
			return nil, err
		}
		s.archetypes = repo
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Archetypes returns the archetype repository, nil when not configured.
func (s *Service) Archetypes() *archetype.Repository { return s.archetypes }

// instrument runs fn under a trace span and records the outcome.
func (s *Service) instrument(ctx context.Context, operation string, fn func(context.Context) error) error {
	start := time.Now()
	spanCtx := ctx
	var span TraceSpan
	if s.tracer != nil {
		spanCtx, span = s.tracer.Start(ctx, operation)
	}
	err := fn(spanCtx)
	if span != nil {
		span.End(err)
	}
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, err == nil, time.Since(start))
	}
	if err != nil {
		s.log.Error().Err(err).Str("operation", operation).Msg("operation failed")
	} else {
		s.log.Debug().Str("operation", operation).Msg("operation completed")
	}
	return err
}

// OpenProject loads a project from its directory.
func (s *Service) OpenProject(ctx context.Context, dir string) (*model.Project, error) {
	var p *model.Project
	err := s.instrument(ctx, "open_project", func(context.Context) error {
		var err error
		p, err = model.LoadProject(dir)
		return err
	})
	return p, err
}

// SaveProject persists the whole project and, when a registry is wired,
// records it as a recent project.
func (s *Service) SaveProject(ctx context.Context, p *model.Project) error {
	return s.instrument(ctx, "save_project", func(ctx context.Context) error {
		if err := p.Save(); err != nil {
			return err
		}
		if s.registry == nil {
			return nil
		}
		docs, err := p.Documents()
		if err != nil {
			return err
		}
		entry := registry.Entry{
			ID:        string(p.ID()),
			Path:      p.Dir(),
			Name:      p.Name(),
			Documents: len(docs),
			SavedAt:   s.now().UTC(),
		}
		if err := s.registry.Record(ctx, entry); err != nil {
			return fmt.Errorf("record project %s: %w", p.ID(), err)
		}
		return nil
	})
}

// CloneProjectFromArchetype clones the named project archetype into
// targetDir/newName and returns the loaded copy.
func (s *Service) CloneProjectFromArchetype(ctx context.Context, archetypeName, targetDir, newName string) (*model.Project, error) {
	var p *model.Project
	err := s.instrument(ctx, "clone_project", func(context.Context) error {
		if s.archetypes == nil {
			return errNoArchetypes
		}
		source, err := s.archetypes.ProjectArchetype(archetypeName)
		if err != nil {
			return err
		}
		p, err = source.CloneProject(targetDir, newName)
		return err
	})
	return p, err
}

// CloneArchetypeDocument clones the named document archetype as a new
// top-level document of project. The clone persists with the next save.
func (s *Service) CloneArchetypeDocument(ctx context.Context, archetypeName string, project *model.Project) (*model.Object, error) {
	var doc *model.Object
	err := s.instrument(ctx, "clone_document", func(context.Context) error {
		if s.archetypes == nil {
			return errNoArchetypes
		}
		source, err := s.archetypes.DocumentArchetype(archetypeName)
		if err != nil {
			return err
		}
		doc, err = source.Clone(project, project)
		return err
	})
	return doc, err
}

// CloneArchetypeObject clones the object archetype with archetypeID under
// the project object parentID, appending to its children. The clone
// persists with the next save.
func (s *Service) CloneArchetypeObject(ctx context.Context, archetypeID model.ID, project *model.Project, parentID model.ID) (*model.Object, error) {
	var clone *model.Object
	err := s.instrument(ctx, "clone_object", func(context.Context) error {
		if s.archetypes == nil {
			return errNoArchetypes
		}
		source, err := s.archetypes.ObjectArchetypeByID(archetypeID)
		if err != nil {
			return err
		}
		parent, err := findObject(project, parentID)
		if err != nil {
			return err
		}
		clone, err = source.Clone(parent, project)
		return err
	})
	return clone, err
}

// DeleteObject marks the object and its whole subtree dead. The files are
// removed and the parent reference dropped on the next save.
func (s *Service) DeleteObject(ctx context.Context, project *model.Project, id model.ID) error {
	return s.instrument(ctx, "delete_object", func(context.Context) error {
		o, err := findObject(project, id)
		if err != nil {
			return err
		}
		return markDead(o)
	})
}

// UpdateProperty replaces the named property of an object (or of the
// project itself when id equals the project ID) with a re-validated copy
// carrying the new raw value. Properties flagged inmutable are rejected.
func (s *Service) UpdateProperty(ctx context.Context, project *model.Project, id model.ID, name, value string) (model.Property, error) {
	var updated model.Property
	err := s.instrument(ctx, "update_property", func(context.Context) error {
		var current model.Property
		var ok bool
		var set func(model.Property)
		if id == project.ID() {
			current, ok = project.GetProperty(name)
			set = project.SetProperty
		} else {
			o, err := findObject(project, id)
			if err != nil {
				return err
			}
			current, ok = o.GetProperty(name)
			set = o.SetProperty
		}
		if !ok {
			return model.NotFoundError{Kind: "property", ID: id, Path: name}
		}
		if current.Inmutable() {
			return fmt.Errorf("property %q of %s is inmutable", name, id)
		}
		updated = current.CloneWith(value)
		set(updated)
		return nil
	})
	return updated, err
}

// ProjectIDs returns every object ID reachable from the project.
func (s *Service) ProjectIDs(ctx context.Context, project *model.Project) (map[model.ID]struct{}, error) {
	var ids map[model.ID]struct{}
	err := s.instrument(ctx, "project_ids", func(context.Context) error {
		var err error
		ids, err = project.IDs()
		return err
	})
	return ids, err
}

var errNoArchetypes = fmt.Errorf("service: no archetype library configured")

// findObject walks the project's document trees looking for id.
func findObject(project *model.Project, id model.ID) (*model.Object, error) {
	docs, err := project.Documents()
	if err != nil {
		return nil, err
	}
	var walk func(o *model.Object) (*model.Object, error)
	walk = func(o *model.Object) (*model.Object, error) {
		if o.ID() == id {
			return o, nil
		}
		children, err := o.Children()
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if found, err := walk(c); err != nil || found != nil {
				return found, err
			}
		}
		return nil, nil
	}
	for _, d := range docs {
		if found, err := walk(d); err != nil || found != nil {
			return found, err
		}
	}
	return nil, model.NotFoundError{Kind: "object", ID: id, Path: project.Dir()}
}

// markDead marks the subtree bottom-up so a later save detaches and
// removes every file.
func markDead(o *model.Object) error {
	children, err := o.Children()
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := markDead(c); err != nil {
			return err
		}
	}
	o.MarkDead()
	return nil
}
