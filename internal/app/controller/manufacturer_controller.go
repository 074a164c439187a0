package controller

import (
	"mime/multipart"
	"net/http"

	"github.com/ctoapp/cto-backend/internal/app/repository"
	"github.com/ctoapp/cto-backend/internal/app/service"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/ctoapp/cto-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ManufacturerController struct {
	service service.ManufacturerService
}

func NewManufacturerController(svc service.ManufacturerService) *ManufacturerController {
	return &ManufacturerController{service: svc}
}

// List returns a filtered page of manufacturers.
// GET /api/manufacturers
func (ctrl *ManufacturerController) List(c *gin.Context) {
	filter := repository.ManufacturerFilter{
		ListFilter: parseListFilter(c),
		ToolIDs:    parseIDList(c, "tools"),
	}

	manufacturers, page, err := ctrl.service.List(filter)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, listResponse(manufacturers, page))
}

// Get returns one manufacturer.
// GET /api/manufacturers/:id
func (ctrl *ManufacturerController) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	manufacturer, err := ctrl.service.Get(id)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, manufacturer)
}

// Create adds a manufacturer from a multipart form with an optional logo.
// POST /api/manufacturers
func (ctrl *ManufacturerController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	input, file, err := ctrl.bindInput(c)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		log.Warn("Invalid manufacturer payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, err)
		return
	}
	if input.Name == "" {
		apperrors.RespondError(c, apperrors.Validation("Name is required"))
		return
	}

	manufacturer, err := ctrl.service.Create(c.Request.Context(), input, userID)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, manufacturer)
}

// Update modifies a manufacturer.
// PUT /api/manufacturers/:id
func (ctrl *ManufacturerController) Update(c *gin.Context) {
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

	manufacturer, err := ctrl.service.Update(c.Request.Context(), id, input, userID)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, manufacturer)
}

// Delete soft deletes a manufacturer.
// DELETE /api/manufacturers/:id
func (ctrl *ManufacturerController) Delete(c *gin.Context) {
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

func (ctrl *ManufacturerController) bindInput(c *gin.Context) (service.ManufacturerInput, multipart.File, error) {
	input := service.ManufacturerInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}

	var toolIDs []uint
	if err := parseJSONField(c, "tools", &toolIDs); err != nil {
		return input, nil, err
	}
	input.ToolIDs = toolIDs

	upload, file, err := formUpload(c, "logo")
	if err != nil {
		return input, file, err
	}
	input.Logo = upload
	return input, file, nil
}
