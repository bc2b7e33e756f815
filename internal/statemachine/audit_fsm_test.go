package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditFSM_RestoreOnce(t *testing.T) {
	entry := &models.AuditLog{ID: 1, Action: models.AuditActionDelete}
	machine := NewAuditFSM(entry)

	assert.Equal(t, AuditStateActive, machine.Current())
	assert.True(t, machine.CanRestore())

	by := uint(9)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, machine.Restore(context.Background(), at, &by))

	assert.Equal(t, AuditStateRestored, machine.Current())
	assert.False(t, machine.CanRestore())
	require.NotNil(t, entry.RestoredAt)
	assert.True(t, at.Equal(*entry.RestoredAt))
	assert.Equal(t, &by, entry.RevokedBy)

	err := machine.Restore(context.Background(), at.Add(time.Hour), nil)
	assert.Error(t, err)
	assert.True(t, at.Equal(*entry.RestoredAt))
	assert.Equal(t, &by, entry.RevokedBy)
}

func TestAuditFSM_StartsRestored(t *testing.T) {
	at := time.Now()
	entry := &models.AuditLog{ID: 2, RestoredAt: &at}
	machine := NewAuditFSM(entry)

	assert.Equal(t, AuditStateRestored, machine.Current())
	assert.False(t, machine.CanRestore())
	assert.Error(t, machine.Restore(context.Background(), time.Now(), nil))
}
