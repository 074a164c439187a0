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

// manufacturerFolder is the upload folder for manufacturer logos.
const manufacturerFolder = "manufacturers"

type ManufacturerInput struct {
	Name        string
	Description string
	ToolIDs     []uint
	Logo        *Upload
}

type ManufacturerService interface {
	Create(ctx context.Context, input ManufacturerInput, creatorID uint) (*model.Manufacturer, error)
	List(filter repository.ManufacturerFilter) ([]model.Manufacturer, repository.PageInfo, error)
	Get(id uint) (*model.Manufacturer, error)
	Update(ctx context.Context, id uint, input ManufacturerInput, editorID uint) (*model.Manufacturer, error)
	Delete(id, editorID uint) error
}

type manufacturerService struct {
	repo     repository.ManufacturerRepository
	toolRepo repository.ToolRepository
	store    storage.BinaryStore
}

func NewManufacturerService(
	repo repository.ManufacturerRepository,
	toolRepo repository.ToolRepository,
	store storage.BinaryStore,
) ManufacturerService {
	return &manufacturerService{repo: repo, toolRepo: toolRepo, store: store}
}

func (s *manufacturerService) Create(ctx context.Context, input ManufacturerInput, creatorID uint) (*model.Manufacturer, error) {
	exists, err := s.repo.ExistsByName(input.Name, 0)
	if err != nil {
		return nil, apperrors.Internal("failed to check manufacturer name", err)
	}
	if exists {
		return nil, apperrors.Validation("A manufacturer with this name already exists")
	}

	tools, err := s.resolveTools(input.ToolIDs)
	if err != nil {
		return nil, err
	}

	manufacturer := &model.Manufacturer{
		Name:        input.Name,
		Description: input.Description,
	}
	manufacturer.CreatedBy = &creatorID

	if input.Logo != nil {
		logo, err := saveImage(ctx, s.store, manufacturerFolder, input.Logo)
		if err != nil {
			return nil, err
		}
		manufacturer.Logo = logo
	}

	if err := s.repo.Create(manufacturer); err != nil {
		return nil, apperrors.FromDB(err, "manufacturer")
	}
	if len(tools) > 0 {
		if err := s.repo.ReplaceTools(manufacturer, tools); err != nil {
			return nil, apperrors.Internal("failed to attach tools", err)
		}
	}

	logger.Info("Manufacturer created", map[string]interface{}{
		"id":   manufacturer.ID,
		"name": manufacturer.Name,
	})
	return manufacturer, nil
}

func (s *manufacturerService) List(filter repository.ManufacturerFilter) ([]model.Manufacturer, repository.PageInfo, error) {
	manufacturers, page, err := s.repo.FindWithFilter(filter)
	if err != nil {
		return nil, repository.PageInfo{}, apperrors.Internal("failed to list manufacturers", err)
	}
	return manufacturers, page, nil
}

func (s *manufacturerService) Get(id uint) (*model.Manufacturer, error) {
	manufacturer, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Manufacturer not found")
		}
		return nil, apperrors.Internal("failed to load manufacturer", err)
	}
	return manufacturer, nil
}

func (s *manufacturerService) Update(ctx context.Context, id uint, input ManufacturerInput, editorID uint) (*model.Manufacturer, error) {
	manufacturer, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != manufacturer.Name {
		exists, err := s.repo.ExistsByName(input.Name, id)
		if err != nil {
			return nil, apperrors.Internal("failed to check manufacturer name", err)
		}
		if exists {
			return nil, apperrors.Validation("A manufacturer with this name already exists")
		}
		manufacturer.Name = input.Name
	}
	if input.Description != "" {
		manufacturer.Description = input.Description
	}

	if input.Logo != nil {
		logo, err := saveImage(ctx, s.store, manufacturerFolder, input.Logo)
		if err != nil {
			return nil, err
		}
		manufacturer.Logo = logo
	}

	manufacturer.Touch(editorID)
	if err := s.repo.Update(manufacturer); err != nil {
		return nil, apperrors.FromDB(err, "manufacturer")
	}

	if input.ToolIDs != nil {
		tools, err := s.resolveTools(input.ToolIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceTools(manufacturer, tools); err != nil {
			return nil, apperrors.Internal("failed to attach tools", err)
		}
	}

	logger.Info("Manufacturer updated", map[string]interface{}{
		"id": manufacturer.ID,
	})
	return manufacturer, nil
}

func (s *manufacturerService) Delete(id, editorID uint) error {
	if err := s.repo.SoftDelete(id, editorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Manufacturer not found")
		}
		return apperrors.Internal("failed to delete manufacturer", err)
	}
	return nil
}

// resolveTools loads the referenced tools and rejects ids that do not
// resolve to a live row.
func (s *manufacturerService) resolveTools(ids []uint) ([]model.Tool, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tools, err := s.toolRepo.FindByIDs(ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load tools", err)
	}
	if len(tools) != len(ids) {
		return nil, apperrors.Validation("One or more tools do not exist")
	}
	return tools, nil
}
