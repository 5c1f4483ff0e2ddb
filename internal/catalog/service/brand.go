package service

import (
	"context"
	"errors"

	"staymi/internal/catalog/repository"
	"staymi/internal/catalog/validator"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/model"
	"staymi/pkg/sanitizer"
)

type BrandService interface {
	List(ctx context.Context, limit int, offset int64) ([]*model.Brand, int64, error)
	GetByID(ctx context.Context, id string) (*model.Brand, error)
	GetMine(ctx context.Context, principal *auth.Principal) (*model.Brand, error)
	UpdateMine(ctx context.Context, principal *auth.Principal, updates *model.BrandUpdate) (*model.Brand, error)
}

type brandService struct {
	repo      repository.BrandRepository
	validator *validator.CatalogValidator
	cfg       *config.Config
}

func NewBrandService(repo repository.BrandRepository, validator *validator.CatalogValidator, cfg *config.Config) BrandService {
	return &brandService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *brandService) List(ctx context.Context, limit int, offset int64) ([]*model.Brand, int64, error) {
	brands, total, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "Brand", "")
	}
	return brands, total, nil
}

func (s *brandService) GetByID(ctx context.Context, id string) (*model.Brand, error) {
	brand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, "Brand", id)
	}
	return brand, nil
}

func (s *brandService) GetMine(ctx context.Context, principal *auth.Principal) (*model.Brand, error) {
	if principal.BrandID == "" {
		return nil, apperrors.NotFound("Brand")
	}
	return s.GetByID(ctx, principal.BrandID)
}

func (s *brandService) UpdateMine(ctx context.Context, principal *auth.Principal, updates *model.BrandUpdate) (*model.Brand, error) {
	brand, err := s.GetMine(ctx, principal)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		brand.Name = sanitizer.NormalizeName(*updates.Name)
	}
	if updates.Description != nil {
		brand.Description = sanitizer.TrimAndNormalize(*updates.Description)
	}
	if updates.LogoURL != nil {
		brand.LogoURL = sanitizer.NormalizeURL(*updates.LogoURL)
	}

	if err := s.validator.ValidateBrand(brand); err != nil {
		return nil, invalid(ctx, s.cfg.Log, "brand", err)
	}

	if err := s.repo.Save(ctx, brand); err != nil {
		if errors.Is(err, mongodb.ErrDuplicate) {
			return nil, apperrors.Conflict("Brand name is already taken")
		}
		return nil, repoError(ctx, s.cfg.Log, err, "Brand", brand.ID)
	}

	s.cfg.Log.Ctx(ctx).Info("Brand updated", "id", brand.ID, "name", brand.Name)
	return brand, nil
}
