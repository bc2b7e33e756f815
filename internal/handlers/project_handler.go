package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proyecthub/proyecthub-api/internal/middleware"
	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/proyecthub/proyecthub-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// @Summary List Projects
// @Description Lists every project ordered by id
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project
// @Router /projects [get]
func (h *ProjectHandler) Index(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// @Summary Get Project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} map[string]string
// @Router /projects/{id} [get]
func (h *ProjectHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// @Summary Create Project
// @Description Creates a project. Accepts the fields flat or nested under "project".
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body models.Project true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var project models.Project
	if err := BindNestedOrFlat(c, "project", &project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project payload"})
		return
	}

	if err := h.projectService.Create(c.Request.Context(), middleware.GetActor(c), &project); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// @Summary Update Project
// @Description Merges the supplied fields. Empty values leave a field unchanged; list field names in "clear" to reset them.
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body models.ProjectPatch true "Changes"
// @Success 200 {object} models.Project
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var patch models.ProjectPatch
	if err := BindNestedOrFlat(c, "project", &patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project payload"})
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.GetActor(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// @Summary Delete Project
// @Description Deletes a project and its locally stored images
// @Tags Projects
// @Param id path int true "Project ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
