package services

import (
	"github.com/proyecthub/proyecthub-api/internal/config"
	"github.com/proyecthub/proyecthub-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth    *AuthService
	User    *UserService
	Project *ProjectService
	Audit   *AuditService
	Image   *ImageService
	Export  *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, images ImageStore, cfg *config.Config) *Services {
	imageSvc := NewImageService(images, cfg.ImagesMount, cfg.MaxUploadBytes())
	auditSvc := NewAuditService(repos.Audit, repos.Project, imageSvc)

	return &Services{
		Auth:    NewAuthService(repos.User, cfg),
		User:    NewUserService(repos.User),
		Project: NewProjectService(repos.Project, auditSvc, imageSvc),
		Audit:   auditSvc,
		Image:   imageSvc,
		Export:  NewExportService(auditSvc),
	}
}
