package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/xuri/excelize/v2"
)

type ExportService struct {
	auditSvc *AuditService
	now      func() time.Time
}

func NewExportService(auditSvc *AuditService) *ExportService {
	return &ExportService{auditSvc: auditSvc, now: time.Now}
}

var auditHeaders = []string{"ID", "Fecha", "Usuario", "Email", "Entidad", "Acción", "ID Entidad", "Restaurado", "Restaurado por"}

// ExportAuditXLSX renders the whole audit log as a spreadsheet
func (s *ExportService) ExportAuditXLSX(ctx context.Context) ([]byte, string, error) {
	entries, err := s.auditSvc.List(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Auditoria"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, h := range auditHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(auditHeaders), 1)
	_ = f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for i, e := range entries {
		row := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), auditRow(e)); err != nil {
			return nil, "", fmt.Errorf("write audit row %d: %w", e.ID, err)
		}
	}

	_ = f.SetColWidth(sheet, "B", "B", 22)
	_ = f.SetColWidth(sheet, "D", "D", 28)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("auditoria_%s.xlsx", s.now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

var auditPDFWidths = []float64{14, 42, 18, 52, 24, 22, 22, 42, 28}

// ExportAuditPDF renders the audit log as an A4 landscape table
func (s *ExportService) ExportAuditPDF(ctx context.Context) ([]byte, string, error) {
	entries, err := s.auditSvc.List(ctx)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr("Registro de Auditoría"))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 10, fmt.Sprintf("Generado: %s  Entradas: %d", s.now().Format("2006-01-02 15:04"), len(entries)))
	pdf.Ln(12)

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(224, 224, 224)
		for i, h := range auditHeaders {
			pdf.CellFormat(auditPDFWidths[i], 7, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, e := range entries {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i, v := range *auditRow(e) {
			pdf.CellFormat(auditPDFWidths[i], 6, tr(fmt.Sprint(v)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", fmt.Errorf("write pdf: %w", err)
	}

	filename := fmt.Sprintf("auditoria_%s.pdf", s.now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func auditRow(e models.AuditLog) *[]interface{} {
	entityID := ""
	if e.EntityID != nil {
		entityID = fmt.Sprintf("%d", *e.EntityID)
	}
	restoredAt := ""
	if e.RestoredAt != nil {
		restoredAt = e.RestoredAt.Format(time.RFC3339)
	}
	revokedBy := ""
	if e.RevokedBy != nil {
		revokedBy = fmt.Sprintf("%d", *e.RevokedBy)
	}
	return &[]interface{}{
		e.ID,
		e.Timestamp.Format(time.RFC3339),
		e.UserID,
		e.PerformedByEmail,
		e.Entity,
		e.Action,
		entityID,
		restoredAt,
		revokedBy,
	}
}
