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

type TechniqueController struct {
	service service.TechniqueService
}

func NewTechniqueController(svc service.TechniqueService) *TechniqueController {
	return &TechniqueController{service: svc}
}

// List returns a filtered page of techniques.
// GET /api/techniques
func (ctrl *TechniqueController) List(c *gin.Context) {
	techniques, page, err := ctrl.service.List(parseListFilter(c))
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, listResponse(techniques, page))
}

// Get returns one technique.
// GET /api/techniques/:id
func (ctrl *TechniqueController) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	technique, err := ctrl.service.Get(id)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, technique)
}

// Create adds a technique from a multipart form with an optional photo.
// POST /api/techniques
func (ctrl *TechniqueController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	input, file, err := ctrl.bindInput(c)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		log.Warn("Invalid technique payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, err)
		return
	}
	if input.Name == "" {
		apperrors.RespondError(c, apperrors.Validation("Name is required"))
		return
	}

	technique, err := ctrl.service.Create(c.Request.Context(), input, userID)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, technique)
}

// Update modifies a technique.
// PUT /api/techniques/:id
func (ctrl *TechniqueController) Update(c *gin.Context) {
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

	technique, err := ctrl.service.Update(c.Request.Context(), id, input, userID)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, technique)
}

// Delete soft deletes a technique.
// DELETE /api/techniques/:id
func (ctrl *TechniqueController) Delete(c *gin.Context) {
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

func (ctrl *TechniqueController) bindInput(c *gin.Context) (service.TechniqueInput, multipart.File, error) {
	input := service.TechniqueInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Acronym:     c.PostForm("acronym"),
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
