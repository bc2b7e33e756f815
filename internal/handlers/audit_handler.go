package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proyecthub/proyecthub-api/internal/middleware"
	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/proyecthub/proyecthub-api/internal/services"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

type AuditHandler struct {
	auditService  *services.AuditService
	exportService *services.ExportService
}

func NewAuditHandler(auditService *services.AuditService, exportService *services.ExportService) *AuditHandler {
	return &AuditHandler{
		auditService:  auditService,
		exportService: exportService,
	}
}

// @Summary List Audit Log
// @Description Lists every audit entry, newest first
// @Tags Audit
// @Produce json
// @Success 200 {array} models.AuditLog
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) Index(c *gin.Context) {
	entries, err := h.auditService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary Get Audit Entry
// @Tags Audit
// @Produce json
// @Param id path int true "Audit entry ID"
// @Success 200 {object} models.AuditLog
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /audit/{id} [get]
func (h *AuditHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.auditService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// @Summary Register Audit Entry
// @Description Stores a client supplied entry. Timestamp and restore fields are set by the server.
// @Tags Audit
// @Accept json
// @Produce json
// @Param request body models.AuditLog true "Entry"
// @Success 201 {object} models.AuditLog
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /audit [post]
func (h *AuditHandler) Register(c *gin.Context) {
	var entry models.AuditLog
	if err := BindNestedOrFlat(c, "audit", &entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit payload"})
		return
	}

	if err := h.auditService.Register(c.Request.Context(), middleware.GetActor(c), &entry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// @Summary Restore Audit Entry
// @Description Undoes the create or delete behind an entry. Each entry can be restored once.
// @Tags Audit
// @Produce json
// @Param id path int true "Audit entry ID"
// @Success 200 {object} models.AuditLog
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /audit/{id}/restore [post]
func (h *AuditHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.auditService.Restore(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// @Summary Export Audit Log
// @Description Downloads the audit log as an Excel workbook, or as a PDF with format=pdf
// @Tags Audit
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param format query string false "xlsx (default) or pdf"
// @Success 200 {file} file "auditoria.xlsx"
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /audit/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)

	switch c.DefaultQuery("format", "xlsx") {
	case "xlsx":
		contentType = xlsxContentType
		data, filename, err = h.exportService.ExportAuditXLSX(c.Request.Context())
	case "pdf":
		contentType = pdfContentType
		data, filename, err = h.exportService.ExportAuditPDF(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or pdf"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
