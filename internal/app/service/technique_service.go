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

const techniqueFolder = "techniques"

type TechniqueInput struct {
	Name             string
	Description      string
	Acronym          string
	InformationLinks []model.InformationLink
	Photo            *Upload
}

type TechniqueService interface {
	Create(ctx context.Context, input TechniqueInput, creatorID uint) (*model.Technique, error)
	List(filter repository.ListFilter) ([]model.Technique, repository.PageInfo, error)
	Get(id uint) (*model.Technique, error)
	Update(ctx context.Context, id uint, input TechniqueInput, editorID uint) (*model.Technique, error)
	Delete(id, editorID uint) error
}

type techniqueService struct {
	repo  repository.TechniqueRepository
	store storage.BinaryStore
}

func NewTechniqueService(repo repository.TechniqueRepository, store storage.BinaryStore) TechniqueService {
	return &techniqueService{repo: repo, store: store}
}

func (s *techniqueService) Create(ctx context.Context, input TechniqueInput, creatorID uint) (*model.Technique, error) {
	exists, err := s.repo.ExistsByName(input.Name, 0)
	if err != nil {
		return nil, apperrors.Internal("failed to check technique name", err)
	}
	if exists {
		return nil, apperrors.Validation("A technique with this name already exists")
	}

	technique := &model.Technique{
		Name:             input.Name,
		Description:      input.Description,
		Acronym:          input.Acronym,
		InformationLinks: input.InformationLinks,
	}
	technique.CreatedBy = &creatorID

	if input.Photo != nil {
		photo, err := saveImage(ctx, s.store, techniqueFolder, input.Photo)
		if err != nil {
			return nil, err
		}
		technique.Photo = photo
	}

	if err := s.repo.Create(technique); err != nil {
		return nil, apperrors.FromDB(err, "technique")
	}

	logger.Info("Technique created", map[string]interface{}{
		"id":   technique.ID,
		"name": technique.Name,
	})
	return technique, nil
}

func (s *techniqueService) List(filter repository.ListFilter) ([]model.Technique, repository.PageInfo, error) {
	techniques, page, err := s.repo.FindWithFilter(filter)
	if err != nil {
		return nil, repository.PageInfo{}, apperrors.Internal("failed to list techniques", err)
	}
	return techniques, page, nil
}

func (s *techniqueService) Get(id uint) (*model.Technique, error) {
	technique, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Technique not found")
		}
		return nil, apperrors.Internal("failed to load technique", err)
	}
	return technique, nil
}

func (s *techniqueService) Update(ctx context.Context, id uint, input TechniqueInput, editorID uint) (*model.Technique, error) {
	technique, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != technique.Name {
		exists, err := s.repo.ExistsByName(input.Name, id)
		if err != nil {
			return nil, apperrors.Internal("failed to check technique name", err)
		}
		if exists {
			return nil, apperrors.Validation("A technique with this name already exists")
		}
		technique.Name = input.Name
	}
	if input.Description != "" {
		technique.Description = input.Description
	}
	if input.Acronym != "" {
		technique.Acronym = input.Acronym
	}
	if input.InformationLinks != nil {
		technique.InformationLinks = input.InformationLinks
	}

	if input.Photo != nil {
		photo, err := saveImage(ctx, s.store, techniqueFolder, input.Photo)
		if err != nil {
			return nil, err
		}
		technique.Photo = photo
	}

	technique.Touch(editorID)
	if err := s.repo.Update(technique); err != nil {
		return nil, apperrors.FromDB(err, "technique")
	}

	logger.Info("Technique updated", map[string]interface{}{
		"id": technique.ID,
	})
	return technique, nil
}

func (s *techniqueService) Delete(id, editorID uint) error {
	if err := s.repo.SoftDelete(id, editorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Technique not found")
		}
		return apperrors.Internal("failed to delete technique", err)
	}
	return nil
}
