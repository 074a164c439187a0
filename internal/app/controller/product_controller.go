package controller

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/app/repository"
	"github.com/ctoapp/cto-backend/internal/app/service"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/ctoapp/cto-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	service service.ProductService
}

func NewProductController(svc service.ProductService) *ProductController {
	return &ProductController{service: svc}
}

// List returns a filtered page of products.
// GET /api/products
func (ctrl *ProductController) List(c *gin.Context) {
	filter := repository.ProductFilter{
		ListFilter:      parseListFilter(c),
		ManufacturerIDs: parseIDList(c, "manufacturer"),
		ToolIDs:         parseIDList(c, "type"),
	}

	products, page, err := ctrl.service.List(filter)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, listResponse(products, page))
}

// Get returns one product.
// GET /api/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	product, err := ctrl.service.Get(id)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, product)
}

// Create adds a product from a multipart form with optional photo and video.
// POST /api/products
func (ctrl *ProductController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	input, closers, err := ctrl.bindInput(c)
	defer closeAll(closers)
	if err != nil {
		log.Warn("Invalid product payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, err)
		return
	}
	if input.Name == "" {
		apperrors.RespondError(c, apperrors.Validation("Name is required"))
		return
	}
	if input.ManufacturerID == 0 || input.ToolID == 0 {
		apperrors.RespondError(c, apperrors.Validation("Manufacturer and type are required"))
		return
	}

	product, err := ctrl.service.Create(c.Request.Context(), input, userID)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, product)
}

// Update modifies a product.
// PUT /api/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := parsePathID(c)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	input, closers, err := ctrl.bindInput(c)
	defer closeAll(closers)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	product, err := ctrl.service.Update(c.Request.Context(), id, input, userID)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, product)
}

// Delete soft deletes a product.
// DELETE /api/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
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

func (ctrl *ProductController) bindInput(c *gin.Context) (service.ProductInput, []multipart.File, error) {
	input := service.ProductInput{
		Name:             c.PostForm("name"),
		ShortDescription: c.PostForm("shortDescription"),
		LongDescription:  c.PostForm("longDescription"),
		ManufacturerID:   parseFormID(c, "manufacturerId"),
		ToolID:           parseFormID(c, "typeId"),
	}

	var details []model.Detail
	if err := parseJSONField(c, "details", &details); err != nil {
		return input, nil, err
	}
	input.Details = details

	var links []model.InformationLink
	if err := parseJSONField(c, "informationLinks", &links); err != nil {
		return input, nil, err
	}
	input.InformationLinks = links

	var closers []multipart.File

	photo, photoFile, err := formUpload(c, "photo")
	if photoFile != nil {
		closers = append(closers, photoFile)
	}
	if err != nil {
		return input, closers, err
	}
	input.Photo = photo

	video, videoFile, err := formUpload(c, "video")
	if videoFile != nil {
		closers = append(closers, videoFile)
	}
	if err != nil {
		return input, closers, err
	}
	input.Video = video

	return input, closers, nil
}

func parseFormID(c *gin.Context, key string) uint {
	n, err := strconv.ParseUint(c.PostForm(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}
