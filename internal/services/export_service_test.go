package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_ExportAuditXLSX(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	project := sampleProject()
	require.NoError(t, env.project.Create(ctx, testActor, project))
	require.NoError(t, env.project.Delete(ctx, testActor, project.ID))
	_, err := env.audit.Restore(ctx, testActor, env.audits.last().ID)
	require.NoError(t, err)

	svc := NewExportService(env.audit)
	svc.now = func() time.Time { return fixedNow }

	data, filename, err := svc.ExportAuditXLSX(ctx)
	require.NoError(t, err)
	assert.Equal(t, "auditoria_2026-03-14.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Auditoria")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, auditHeaders, rows[0])

	// Newest first: the delete entry, already restored.
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "delete", rows[1][5])
	assert.NotEmpty(t, rows[1][7])
	assert.Equal(t, "7", rows[1][8])
	assert.Equal(t, "create", rows[2][5])
}

func TestExportService_EmptyLog(t *testing.T) {
	env := newTestEnv(t)

	data, _, err := NewExportService(env.audit).ExportAuditXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Auditoria")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportService_ExportAuditPDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.project.Create(ctx, testActor, sampleProject()))

	svc := NewExportService(env.audit)
	svc.now = func() time.Time { return fixedNow }

	data, filename, err := svc.ExportAuditPDF(ctx)
	require.NoError(t, err)
	assert.Equal(t, "auditoria_2026-03-14.pdf", filename)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportService_ExportAuditPDF_ManyPages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		require.NoError(t, env.project.Create(ctx, testActor, sampleProject()))
	}

	data, _, err := NewExportService(env.audit).ExportAuditPDF(ctx)
	require.NoError(t, err)
	assert.Greater(t, bytes.Count(data, []byte("/Type /Page\n")), 1)
}
