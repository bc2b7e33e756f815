package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/proyecthub/proyecthub-api/internal/repository"
	"github.com/proyecthub/proyecthub-api/internal/statemachine"
	"github.com/proyecthub/proyecthub-api/pkg/logger"
)

// AuditService records mutation snapshots and replays them on restore
type AuditService struct {
	repo     repository.AuditRepository
	projects repository.ProjectRepository
	images   *ImageService
	now      func() time.Time
}

func NewAuditService(repo repository.AuditRepository, projects repository.ProjectRepository, images *ImageService) *AuditService {
	return &AuditService{
		repo:     repo,
		projects: projects,
		images:   images,
		now:      time.Now,
	}
}

// Record writes an audit entry attributed to actor
func (s *AuditService) Record(ctx context.Context, actor models.Actor, action, entity string, entityID *uint, data string) (*models.AuditLog, error) {
	entry := &models.AuditLog{
		UserID:           actor.UserID,
		PerformedByEmail: actor.Email,
		Entity:           entity,
		Action:           action,
		EntityID:         entityID,
		Timestamp:        s.now().UTC(),
		Data:             data,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("record audit entry: %w", err)
	}
	return entry, nil
}

// Register stores a client supplied entry. Server owned fields are reset.
func (s *AuditService) Register(ctx context.Context, actor models.Actor, entry *models.AuditLog) error {
	if entry.Entity == "" || entry.Action == "" {
		return validationError("entity and action are required")
	}

	entry.ID = 0
	entry.Timestamp = s.now().UTC()
	entry.RestoredAt = nil
	entry.RevokedBy = nil
	if entry.UserID == 0 {
		entry.UserID = actor.UserID
	}
	if entry.PerformedByEmail == "" {
		entry.PerformedByEmail = actor.Email
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("register audit entry: %w", err)
	}
	return nil
}

// List returns every entry, newest first
func (s *AuditService) List(ctx context.Context) ([]models.AuditLog, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

func (s *AuditService) FindByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find audit entry %d: %w", id, err)
	}
	return entry, nil
}

// Restore undoes the mutation behind an audit entry, exactly once.
//
// A delete entry re-inserts its snapshot under a new id; a create entry
// removes the project if it still exists. Other entries only get marked.
// Store errors during the undo abort before the entry is marked, so it stays
// restorable. A corrupt snapshot is reported and the entry is still consumed.
func (s *AuditService) Restore(ctx context.Context, actor models.Actor, id uint) (*models.AuditLog, error) {
	entry, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewAuditFSM(entry)
	if !machine.CanRestore() {
		return nil, ErrAlreadyRestored
	}

	switch {
	case entry.Targets(models.EntityProject, models.AuditActionDelete) && entry.Data != "":
		if err := s.restoreDeleted(ctx, entry); err != nil {
			return nil, err
		}
	case entry.Targets(models.EntityProject, models.AuditActionCreate):
		if err := s.revokeCreated(ctx, entry); err != nil {
			return nil, err
		}
	}

	if err := machine.Restore(ctx, s.now(), actor.RevokerID()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyRestored, err)
	}
	if err := s.repo.MarkRestored(ctx, entry.ID, *entry.RestoredAt, entry.RevokedBy); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyRestored
		}
		return nil, fmt.Errorf("mark audit entry %d restored: %w", entry.ID, err)
	}

	logger.Info("Audit entry restored",
		"audit_id", entry.ID,
		"action", entry.Action,
		"entity", entry.Entity,
		"state", machine.Current(),
		"user_id", actor.UserID,
	)
	return entry, nil
}

func (s *AuditService) restoreDeleted(ctx context.Context, entry *models.AuditLog) error {
	project, err := models.ParseProjectSnapshot(entry.Data)
	if err != nil {
		reportSoftFailure(ctx, "corrupt project snapshot", err, slog.Uint64("audit_id", uint64(entry.ID)))
		return nil
	}

	// The restored project gets a fresh identity.
	project.ID = 0
	if err := s.projects.Create(ctx, project); err != nil {
		return fmt.Errorf("restore project from audit entry %d: %w", entry.ID, err)
	}

	logger.Info("Project re-created from snapshot",
		"audit_id", entry.ID,
		"original_id", *entry.EntityID,
		"project_id", project.ID,
	)
	return nil
}

func (s *AuditService) revokeCreated(ctx context.Context, entry *models.AuditLog) error {
	project, err := s.projects.FindByID(ctx, *entry.EntityID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load project %d for audit entry %d: %w", *entry.EntityID, entry.ID, err)
	}

	s.images.cleanupImages(ctx, project.ID, project.AllImages())

	if err := s.projects.Delete(ctx, project.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("revoke project %d for audit entry %d: %w", project.ID, entry.ID, err)
	}

	logger.Info("Project creation revoked", "audit_id", entry.ID, "project_id", project.ID)
	return nil
}
