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

const toolFolder = "tools"

type ToolInput struct {
	Name             string
	Description      string
	InformationLinks []model.InformationLink
	Photo            *Upload
}

type ToolService interface {
	Create(ctx context.Context, input ToolInput, creatorID uint) (*model.Tool, error)
	List(filter repository.ListFilter) ([]model.Tool, repository.PageInfo, error)
	Get(id uint) (*model.Tool, error)
	Update(ctx context.Context, id uint, input ToolInput, editorID uint) (*model.Tool, error)
	Delete(id, editorID uint) error
}

type toolService struct {
	repo  repository.ToolRepository
	store storage.BinaryStore
}

func NewToolService(repo repository.ToolRepository, store storage.BinaryStore) ToolService {
	return &toolService{repo: repo, store: store}
}

func (s *toolService) Create(ctx context.Context, input ToolInput, creatorID uint) (*model.Tool, error) {
	exists, err := s.repo.ExistsByName(input.Name, 0)
	if err != nil {
		return nil, apperrors.Internal("failed to check tool name", err)
	}
	if exists {
		return nil, apperrors.Validation("A tool with this name already exists")
	}

	tool := &model.Tool{
		Name:             input.Name,
		Description:      input.Description,
		InformationLinks: input.InformationLinks,
	}
	tool.CreatedBy = &creatorID

	if input.Photo != nil {
		photo, err := saveImage(ctx, s.store, toolFolder, input.Photo)
		if err != nil {
			return nil, err
		}
		tool.Photo = photo
	}

	if err := s.repo.Create(tool); err != nil {
		return nil, apperrors.FromDB(err, "tool")
	}

	logger.Info("Tool created", map[string]interface{}{
		"id":   tool.ID,
		"name": tool.Name,
	})
	return tool, nil
}

func (s *toolService) List(filter repository.ListFilter) ([]model.Tool, repository.PageInfo, error) {
	tools, page, err := s.repo.FindWithFilter(filter)
	if err != nil {
		return nil, repository.PageInfo{}, apperrors.Internal("failed to list tools", err)
	}
	return tools, page, nil
}

func (s *toolService) Get(id uint) (*model.Tool, error) {
	tool, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Tool not found")
		}
		return nil, apperrors.Internal("failed to load tool", err)
	}
	return tool, nil
}

func (s *toolService) Update(ctx context.Context, id uint, input ToolInput, editorID uint) (*model.Tool, error) {
	tool, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != tool.Name {
		exists, err := s.repo.ExistsByName(input.Name, id)
		if err != nil {
			return nil, apperrors.Internal("failed to check tool name", err)
		}
		if exists {
			return nil, apperrors.Validation("A tool with this name already exists")
		}
		tool.Name = input.Name
	}
	if input.Description != "" {
		tool.Description = input.Description
	}
	if input.InformationLinks != nil {
		tool.InformationLinks = input.InformationLinks
	}

	if input.Photo != nil {
		photo, err := saveImage(ctx, s.store, toolFolder, input.Photo)
		if err != nil {
			return nil, err
		}
		tool.Photo = photo
	}

	tool.Touch(editorID)
	if err := s.repo.Update(tool); err != nil {
		return nil, apperrors.FromDB(err, "tool")
	}

	logger.Info("Tool updated", map[string]interface{}{
		"id": tool.ID,
	})
	return tool, nil
}

func (s *toolService) Delete(id, editorID uint) error {
	if err := s.repo.SoftDelete(id, editorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Tool not found")
		}
		return apperrors.Internal("failed to delete tool", err)
	}
	return nil
}
