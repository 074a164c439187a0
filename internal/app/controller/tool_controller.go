package controller

import (
	"mime/multipart"
	"net/http"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/app/service"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/ctoapp/cto-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ToolController struct {
	service service.ToolService
}

func NewToolController(svc service.ToolService) *ToolController {
	return &ToolController{service: svc}
}

// List returns a filtered page of tools.
// GET /api/tools
func (ctrl *ToolController) List(c *gin.Context) {
	tools, page, err := ctrl.service.List(parseListFilter(c))
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, listResponse(tools, page))
}

// Get returns one tool.
// GET /api/tools/:id
func (ctrl *ToolController) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	tool, err := ctrl.service.Get(id)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, tool)
}

// Create adds a tool from a multipart form with an optional photo.
// POST /api/tools
func (ctrl *ToolController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	input, file, err := ctrl.bindInput(c)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		log.Warn("Invalid tool payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, err)
		return
	}
	if input.Name == "" {
		apperrors.RespondError(c, apperrors.Validation("Name is required"))
		return
	}

	tool, err := ctrl.service.Create(c.Request.Context(), input, userID)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, tool)
}

// Update modifies a tool.
// PUT /api/tools/:id
func (ctrl *ToolController) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := parsePathID(c)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	input, file, err := ctrl.bindInput(c)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	tool, err := ctrl.service.Update(c.Request.Context(), id, input, userID)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, tool)
}

// Delete soft deletes a tool.
// DELETE /api/tools/:id
func (ctrl *ToolController) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := parsePathID(c)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	if err := ctrl.service.Delete(id, userID); err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (ctrl *ToolController) bindInput(c *gin.Context) (service.ToolInput, multipart.File, error) {
	input := service.ToolInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}

	var links []model.InformationLink
	if err := parseJSONField(c, "informationLinks", &links); err != nil {
		return input, nil, err
	}
	input.InformationLinks = links

	upload, file, err := formUpload(c, "photo")
	if err != nil {
		return input, file, err
	}
	input.Photo = upload
	return input, file, nil
}
