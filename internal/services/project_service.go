package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/proyecthub/proyecthub-api/internal/repository"
	"github.com/proyecthub/proyecthub-api/pkg/logger"
)

// ProjectService applies project mutations and records an audit snapshot for each
type ProjectService struct {
	repo   repository.ProjectRepository
	audit  *AuditService
	images *ImageService
}

func NewProjectService(repo repository.ProjectRepository, audit *AuditService, images *ImageService) *ProjectService {
	return &ProjectService{repo: repo, audit: audit, images: images}
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find project %d: %w", id, err)
	}
	return project, nil
}

// Create stores a new project. Any client supplied id is discarded.
func (s *ProjectService) Create(ctx context.Context, actor models.Actor, project *models.Project) error {
	project.ID = 0
	project.Normalize()

	if err := s.repo.Create(ctx, project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	snapshot, err := project.Snapshot()
	if err != nil {
		reportSoftFailure(ctx, "audit snapshot failed", err, slog.Uint64("project_id", uint64(project.ID)))
		return nil
	}
	s.record(ctx, actor, models.AuditActionCreate, project.ID, snapshot)

	logger.Info("Project created", "project_id", project.ID, "user_id", actor.UserID)
	return nil
}

// Update merges patch into the stored project. Empty values leave fields
// untouched; only patch.Clear resets a field.
func (s *ProjectService) Update(ctx context.Context, actor models.Actor, id uint, patch models.ProjectPatch) (*models.Project, error) {
	if patch.ID != nil && *patch.ID != id {
		return nil, validationError("body id %d does not match path id %d", *patch.ID, id)
	}

	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous, err := existing.Snapshot()
	if err != nil {
		return nil, err
	}

	if err := existing.Apply(patch); err != nil {
		return nil, validationError("%s", err)
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("update project %d: %w", id, err)
		}
		// The row changed between read and write: tell a vanished record
		// apart from a genuine conflict.
		exists, existsErr := s.repo.Exists(ctx, id)
		if existsErr != nil {
			return nil, fmt.Errorf("update project %d: %w", id, existsErr)
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrProjectChanged
	}

	current, err := existing.Snapshot()
	if err != nil {
		reportSoftFailure(ctx, "audit snapshot failed", err, slog.Uint64("project_id", uint64(id)))
		return existing, nil
	}
	data, err := json.Marshal(models.UpdateSnapshot{Previous: previous, Current: current})
	if err != nil {
		reportSoftFailure(ctx, "audit snapshot failed", err, slog.Uint64("project_id", uint64(id)))
		return existing, nil
	}
	s.record(ctx, actor, models.AuditActionUpdate, id, string(data))

	logger.Info("Project updated", "project_id", id, "user_id", actor.UserID)
	return existing, nil
}

// Delete removes a project after a best-effort cleanup of its local images.
func (s *ProjectService) Delete(ctx context.Context, actor models.Actor, id uint) error {
	project, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.images.cleanupImages(ctx, id, project.AllImages())

	snapshot, snapErr := project.Snapshot()

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete project %d: %w", id, err)
	}

	if snapErr != nil {
		reportSoftFailure(ctx, "audit snapshot failed", snapErr, slog.Uint64("project_id", uint64(id)))
		return nil
	}
	s.record(ctx, actor, models.AuditActionDelete, id, snapshot)

	logger.Info("Project deleted", "project_id", id, "user_id", actor.UserID)
	return nil
}

// record writes the audit entry for a mutation that already succeeded.
// A failure here must not turn the mutation into an error.
func (s *ProjectService) record(ctx context.Context, actor models.Actor, action string, projectID uint, data string) {
	entityID := projectID
	if _, err := s.audit.Record(ctx, actor, action, models.EntityProject, &entityID, data); err != nil {
		reportSoftFailure(ctx, "audit write failed", err,
			slog.String("action", action),
			slog.Uint64("project_id", uint64(projectID)),
		)
	}
}
