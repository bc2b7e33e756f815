package models

import (
	"time"
)

// Audit actions
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// Audited entity names
const (
	EntityProject = "Project"
)

// AuditLog is a point-in-time record of a mutation. Data holds a JSON
// snapshot whose shape depends on Action.
type AuditLog struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null" json:"userId"`
	PerformedByEmail string     `gorm:"column:performed_by_email" json:"performedByEmail"`
	Entity           string     `gorm:"size:50;not null" json:"entity"`
	Action           string     `gorm:"size:50;not null" json:"action"`
	EntityID         *uint      `json:"entityId"`
	Timestamp        time.Time  `gorm:"not null;index" json:"timestamp"`
	Data             string     `gorm:"type:text" json:"data"`
	RestoredAt       *time.Time `json:"restoredAt"`
	RevokedBy        *uint      `json:"revokedBy"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// IsRestored returns true once the entry has been consumed by a restore
func (a *AuditLog) IsRestored() bool {
	return a.RestoredAt != nil
}

// Targets reports whether the entry is about the given entity and action
// and carries an entity id.
func (a *AuditLog) Targets(entity, action string) bool {
	return a.Entity == entity && a.Action == action && a.EntityID != nil
}

// UpdateSnapshot is the Data payload of an update entry. Both fields hold
// complete project snapshots encoded as JSON strings.
type UpdateSnapshot struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}
