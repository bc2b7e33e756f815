package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proyecthub/proyecthub-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary List Users
// @Description Lists administrators without credentials
// @Tags Users
// @Produce json
// @Success 200 {array} models.UserResponse
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) Index(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
