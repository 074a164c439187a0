package service

import (
	"context"
	"errors"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/app/repository"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/ctoapp/cto-backend/internal/storage"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"gorm.io/gorm"
)

const productFolder = "products"

type ProductInput struct {
	Name             string
	ShortDescription string
	LongDescription  string
	ManufacturerID   uint
	ToolID           uint
	Details          []model.Detail
	InformationLinks []model.InformationLink
	Photo            *Upload
	Video            *Upload
}

type ProductService interface {
	Create(ctx context.Context, input ProductInput, creatorID uint) (*model.Product, error)
	List(filter repository.ProductFilter) ([]model.Product, repository.PageInfo, error)
	Get(id uint) (*model.Product, error)
	Update(ctx context.Context, id uint, input ProductInput, editorID uint) (*model.Product, error)
	Delete(id, editorID uint) error
}

type productService struct {
	repo             repository.ProductRepository
	manufacturerRepo repository.ManufacturerRepository
	toolRepo         repository.ToolRepository
	store            storage.BinaryStore
}

func NewProductService(
	repo repository.ProductRepository,
	manufacturerRepo repository.ManufacturerRepository,
	toolRepo repository.ToolRepository,
	store storage.BinaryStore,
) ProductService {
	return &productService{
		repo:             repo,
		manufacturerRepo: manufacturerRepo,
		toolRepo:         toolRepo,
		store:            store,
	}
}

func (s *productService) Create(ctx context.Context, input ProductInput, creatorID uint) (*model.Product, error) {
	exists, err := s.repo.ExistsByName(input.Name, 0)
	if err != nil {
		return nil, apperrors.Internal("failed to check product name", err)
	}
	if exists {
		return nil, apperrors.Validation("A product with this name already exists")
	}

	if err := s.checkReferences(input.ManufacturerID, input.ToolID); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:             input.Name,
		ShortDescription: input.ShortDescription,
		LongDescription:  input.LongDescription,
		ManufacturerID:   input.ManufacturerID,
		ToolID:           input.ToolID,
		Details:          input.Details,
		InformationLinks: input.InformationLinks,
	}
	product.CreatedBy = &creatorID

	if err := s.applyUploads(ctx, product, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(product); err != nil {
		return nil, apperrors.FromDB(err, "product")
	}

	logger.Info("Product created", map[string]interface{}{
		"id":   product.ID,
		"name": product.Name,
	})
	return product, nil
}

func (s *productService) List(filter repository.ProductFilter) ([]model.Product, repository.PageInfo, error) {
	products, page, err := s.repo.FindWithFilter(filter)
	if err != nil {
		return nil, repository.PageInfo{}, apperrors.Internal("failed to list products", err)
	}
	return products, page, nil
}

func (s *productService) Get(id uint) (*model.Product, error) {
	product, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, apperrors.Internal("failed to load product", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uint, input ProductInput, editorID uint) (*model.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != product.Name {
		exists, err := s.repo.ExistsByName(input.Name, id)
		if err != nil {
			return nil, apperrors.Internal("failed to check product name", err)
		}
		if exists {
			return nil, apperrors.Validation("A product with this name already exists")
		}
		product.Name = input.Name
	}
	if input.ShortDescription != "" {
		product.ShortDescription = input.ShortDescription
	}
	if input.LongDescription != "" {
		product.LongDescription = input.LongDescription
	}
	if input.ManufacturerID != 0 && input.ManufacturerID != product.ManufacturerID {
		if err := s.checkManufacturer(input.ManufacturerID); err != nil {
			return nil, err
		}
		product.ManufacturerID = input.ManufacturerID
	}
	if input.ToolID != 0 && input.ToolID != product.ToolID {
		if err := s.checkTool(input.ToolID); err != nil {
			return nil, err
		}
		product.ToolID = input.ToolID
	}
	if input.Details != nil {
		product.Details = input.Details
	}
	if input.InformationLinks != nil {
		product.InformationLinks = input.InformationLinks
	}

	if err := s.applyUploads(ctx, product, input); err != nil {
		return nil, err
	}

	product.Touch(editorID)
	if err := s.repo.Update(product); err != nil {
		return nil, apperrors.FromDB(err, "product")
	}

	logger.Info("Product updated", map[string]interface{}{
		"id": product.ID,
	})
	return product, nil
}

func (s *productService) Delete(id, editorID uint) error {
	if err := s.repo.SoftDelete(id, editorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Product not found")
		}
		return apperrors.Internal("failed to delete product", err)
	}
	return nil
}

func (s *productService) applyUploads(ctx context.Context, product *model.Product, input ProductInput) error {
	if input.Photo != nil {
		photo, err := saveImage(ctx, s.store, productFolder, input.Photo)
		if err != nil {
			return err
		}
		product.Photo = photo
	}
	if input.Video != nil {
		video, err := saveVideo(ctx, s.store, productFolder, input.Video)
		if err != nil {
			return err
		}
		product.Video = video
	}
	return nil
}

func (s *productService) checkReferences(manufacturerID, toolID uint) error {
	if err := s.checkManufacturer(manufacturerID); err != nil {
		return err
	}
	return s.checkTool(toolID)
}

func (s *productService) checkManufacturer(id uint) error {
	if _, err := s.manufacturerRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Validation("Manufacturer does not exist")
		}
		return apperrors.Internal("failed to load manufacturer", err)
	}
	return nil
}

func (s *productService) checkTool(id uint) error {
	if _, err := s.toolRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Validation("Tool does not exist")
		}
		return apperrors.Internal("failed to load tool", err)
	}
	return nil
}
