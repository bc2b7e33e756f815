package handlers

import (
	"github.com/proyecthub/proyecthub-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	User    *UserHandler
	Project *ProjectHandler
	Image   *ImageHandler
	Audit   *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(),
		Auth:    NewAuthHandler(svcs.Auth),
		User:    NewUserHandler(svcs.User),
		Project: NewProjectHandler(svcs.Project),
		Image:   NewImageHandler(svcs.Image),
		Audit:   NewAuditHandler(svcs.Audit, svcs.Export),
	}
}
