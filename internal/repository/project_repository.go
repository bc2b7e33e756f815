package repository

import (
	"context"

	"github.com/proyecthub/proyecthub-api/internal/models"
	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *projectRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *projectRepository) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Order("id ASC").Find(&projects).Error
	return projects, err
}

// Create inserts the project. A zero ID lets the database assign one.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Create(project).Error)
}

// Update writes every mutable column of an existing row. It returns
// ErrConflict when no row matched, i.e. the project vanished after it was read.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", project.ID).
		Updates(project.UpdateColumns())
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
