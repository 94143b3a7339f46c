package project

import (
	"context"
	"log/slog"
	"sync"
)

// Service owns the project lifecycle and serializes edits so a
// read-modify-write cycle against the repository is one atomic step. The
// editing model is single-actor per project; one service-level lock keeps
// the implementation simple without limiting that model.
type Service struct {
	mu     sync.Mutex
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Create makes a new project and persists it.
func (s *Service) Create(ctx context.Context, name string) (*Project, error) {
	p := New(name)

	s.logger.Info("creating project",
		slog.String("project_id", p.ID),
		slog.String("name", p.Name),
	)

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to save project",
			slog.String("project_id", p.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return p, nil
}

// Get retrieves a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all projects.
func (s *Service) List(ctx context.Context) ([]*Project, error) {
	return s.repo.List(ctx)
}

// Rename changes a project's display name.
func (s *Service) Rename(ctx context.Context, id, name string) (*Project, error) {
	return s.Update(ctx, id, func(p *Project) error {
		p.Rename(name)
		return nil
	})
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info("deleting project", slog.String("project_id", id))
	return s.repo.Delete(ctx, id)
}

// Update loads a project, applies fn to it, and saves the result. When fn
// fails nothing is persisted and its error is returned unchanged, so
// timeline refusals pass through to the caller. Edits are serialized; two
// concurrent updates never lose writes to each other.
func (s *Service) Update(ctx context.Context, id string, fn func(*Project) error) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.Touch()
	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to save project",
			slog.String("project_id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return p, nil
}
