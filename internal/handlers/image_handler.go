package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/proyecthub/proyecthub-api/internal/services"
)

type ImageHandler struct {
	imageService *services.ImageService
}

func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

type UploadResponse struct {
	URL string `json:"url"`
}

// @Summary Upload Project Image
// @Description Stores an image and returns the URL it is served under
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} map[string]string
// @Router /projects/upload-image [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file received"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	url, err := h.imageService.Upload(file, header.Filename, requestBaseURL(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: url})
}

// requestBaseURL returns scheme://host as seen by the client
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}
