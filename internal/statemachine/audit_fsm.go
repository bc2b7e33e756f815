package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/proyecthub/proyecthub-api/internal/models"
)

// Audit entry states
const (
	AuditStateActive   = "active"
	AuditStateRestored = "restored"
)

const auditEventRestore = "restore"

// AuditFSM wraps an audit entry with its state machine.
// active → restored is the only transition and it is terminal.
type AuditFSM struct {
	entry *models.AuditLog
	fsm   *fsm.FSM
}

// NewAuditFSM creates a state machine positioned at the entry's current state
func NewAuditFSM(entry *models.AuditLog) *AuditFSM {
	afsm := &AuditFSM{
		entry: entry,
	}

	initial := AuditStateActive
	if entry.IsRestored() {
		initial = AuditStateRestored
	}

	afsm.fsm = fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: auditEventRestore, Src: []string{AuditStateActive}, Dst: AuditStateRestored},
		},
		fsm.Callbacks{},
	)

	return afsm
}

// Restore moves the entry to the restored state and stamps it
func (a *AuditFSM) Restore(ctx context.Context, at time.Time, by *uint) error {
	if err := a.fsm.Event(ctx, auditEventRestore); err != nil {
		return fmt.Errorf("audit entry %d cannot be restored: %w", a.entry.ID, err)
	}

	restoredAt := at.UTC()
	a.entry.RestoredAt = &restoredAt
	a.entry.RevokedBy = by
	return nil
}

// Current returns the current state
func (a *AuditFSM) Current() string {
	return a.fsm.Current()
}

// CanRestore reports whether a restore is still allowed
func (a *AuditFSM) CanRestore() bool {
	return a.fsm.Can(auditEventRestore)
}
