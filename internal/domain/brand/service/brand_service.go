package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/uploader"
	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
)

// BrandInput 后台创建/修改品牌的参数
type BrandInput struct {
	Name        string
	LogoURL     string
	Description string
}

type BrandService interface {
	CreateBrand(ctx context.Context, input BrandInput) (*model.Brand, error)
	UpdateBrand(ctx context.Context, id string, input BrandInput) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
	GetBrand(ctx context.Context, id string) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]model.BrandSummary, error)
	UploadLogo(ctx context.Context, id string, file *multipart.FileHeader) (string, error)
	// BrandName 商品归属品牌时取品牌名
	BrandName(ctx context.Context, id string) (string, error)
}

type brandService struct {
	repo     repository.BrandRepository
	uploader uploader.Uploader
}

// NewBrandService uploader 可以为 nil，此时 logo 上传不可用
func NewBrandService(repo repository.BrandRepository, up uploader.Uploader) BrandService {
	return &brandService{repo: repo, uploader: up}
}

func mapRepoErr(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrBrandNotFound):
		return apperror.Newf(apperror.KindNotFound, "brand %s not found", id)
	case errors.Is(err, repository.ErrDuplicateBrand):
		return apperror.New(apperror.KindInvalidRequest, "brand name already exists")
	}
	return apperror.Wrap(apperror.KindStorageFailure, err, "brand storage")
}

func (s *brandService) CreateBrand(ctx context.Context, input BrandInput) (*model.Brand, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.New(apperror.KindInvalidRequest, "brand name is required")
	}

	brand := &model.Brand{Name: name, LogoURL: input.LogoURL, Description: input.Description}
	if err := s.repo.Create(ctx, brand); err != nil {
		return nil, mapRepoErr(err, "")
	}
	return brand, nil
}

func (s *brandService) UpdateBrand(ctx context.Context, id string, input BrandInput) (*model.Brand, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.New(apperror.KindInvalidRequest, "brand name is required")
	}

	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, id)
	}
	brand.Name = name
	brand.Description = input.Description
	if input.LogoURL != "" {
		brand.LogoURL = input.LogoURL
	}

	if err := s.repo.Update(ctx, brand); err != nil {
		return nil, mapRepoErr(err, id)
	}
	return brand, nil
}

func (s *brandService) DeleteBrand(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoErr(err, id)
	}
	return nil
}

func (s *brandService) GetBrand(ctx context.Context, id string) (*model.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, id)
	}
	return brand, nil
}

func (s *brandService) ListBrands(ctx context.Context) ([]model.BrandSummary, error) {
	rows, err := s.repo.Summaries(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "list brands")
	}
	return rows, nil
}

func (s *brandService) UploadLogo(ctx context.Context, id string, file *multipart.FileHeader) (string, error) {
	if s.uploader == nil {
		return "", apperror.New(apperror.KindStorageFailure, "image storage is not configured")
	}

	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", mapRepoErr(err, id)
	}

	url, err := s.uploader.UploadFile("brands/"+id, file)
	if err != nil {
		return "", apperror.Wrap(apperror.KindStorageFailure, err, "upload logo")
	}

	brand.LogoURL = url
	if err := s.repo.Update(ctx, brand); err != nil {
		return "", mapRepoErr(err, id)
	}
	return url, nil
}

func (s *brandService) BrandName(ctx context.Context, id string) (string, error) {
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return "", err
	}
	return brand.Name, nil
}
