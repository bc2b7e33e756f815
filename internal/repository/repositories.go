package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User    UserRepository
	Project ProjectRepository
	Audit   AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Project: NewProjectRepository(db),
		Audit:   NewAuditRepository(db),
	}
}
