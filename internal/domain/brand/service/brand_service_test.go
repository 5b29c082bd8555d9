package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand/repository"
	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
	baseModel "github.com/luxestudio-live/coupon-bazaar/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBrandRepository struct {
	mock.Mock
}

func (m *MockBrandRepository) Create(ctx context.Context, brand *model.Brand) error {
	return m.Called(ctx, brand).Error(0)
}

func (m *MockBrandRepository) GetByID(ctx context.Context, id string) (*model.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Brand), args.Error(1)
}

func (m *MockBrandRepository) Update(ctx context.Context, brand *model.Brand) error {
	return m.Called(ctx, brand).Error(0)
}

func (m *MockBrandRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBrandRepository) Summaries(ctx context.Context) ([]model.BrandSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.BrandSummary), args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadFile(prefix string, file *multipart.FileHeader) (string, error) {
	args := m.Called(prefix, file)
	return args.String(0), args.Error(1)
}

func testBrand(id, name string) *model.Brand {
	return &model.Brand{BaseModel: baseModel.BaseModel{ID: id}, Name: name, LogoURL: "https://cdn/old.png"}
}

func TestCreateBrand(t *testing.T) {
	ctx := context.Background()

	t.Run("name is trimmed", func(t *testing.T) {
		repo := new(MockBrandRepository)
		service := NewBrandService(repo, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(b *model.Brand) bool { return b.Name == "Myntra" })).Return(nil)

		brand, err := service.CreateBrand(ctx, BrandInput{Name: "  Myntra "})

		require.NoError(t, err)
		assert.Equal(t, "Myntra", brand.Name)
	})

	t.Run("blank name", func(t *testing.T) {
		service := NewBrandService(new(MockBrandRepository), nil)

		_, err := service.CreateBrand(ctx, BrandInput{Name: "   "})

		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := new(MockBrandRepository)
		service := NewBrandService(repo, nil)
		repo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateBrand)

		_, err := service.CreateBrand(ctx, BrandInput{Name: "Myntra"})

		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
	})
}

func TestUpdateBrand(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps logo when none given", func(t *testing.T) {
		repo := new(MockBrandRepository)
		service := NewBrandService(repo, nil)
		repo.On("GetByID", ctx, "b-1").Return(testBrand("b-1", "Myntra"), nil)
		repo.On("Update", ctx, mock.MatchedBy(func(b *model.Brand) bool {
			return b.Name == "Myntra Fashion" && b.LogoURL == "https://cdn/old.png"
		})).Return(nil)

		brand, err := service.UpdateBrand(ctx, "b-1", BrandInput{Name: "Myntra Fashion"})

		require.NoError(t, err)
		assert.Equal(t, "Myntra Fashion", brand.Name)
		repo.AssertExpectations(t)
	})

	t.Run("missing brand", func(t *testing.T) {
		repo := new(MockBrandRepository)
		service := NewBrandService(repo, nil)
		repo.On("GetByID", ctx, "nope").Return(nil, repository.ErrBrandNotFound)

		_, err := service.UpdateBrand(ctx, "nope", BrandInput{Name: "X"})

		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestBrandName(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBrandRepository)
	service := NewBrandService(repo, nil)
	repo.On("GetByID", ctx, "b-1").Return(testBrand("b-1", "Myntra"), nil)
	repo.On("GetByID", ctx, "b-2").Return(nil, errors.New("conn reset"))

	name, err := service.BrandName(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "Myntra", name)

	_, err = service.BrandName(ctx, "b-2")
	assert.Equal(t, apperror.KindStorageFailure, apperror.KindOf(err))
}

func TestListBrands(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBrandRepository)
	service := NewBrandService(repo, nil)
	repo.On("Summaries", ctx).Return([]model.BrandSummary{{ID: "b-1", Name: "Myntra", OfferCount: 3, AvailableCodes: 40}}, nil)

	brands, err := service.ListBrands(ctx)

	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, int64(3), brands[0].OfferCount)
}

func TestUploadLogo(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		service := NewBrandService(new(MockBrandRepository), nil)
		_, err := service.UploadLogo(ctx, "b-1", &multipart.FileHeader{Filename: "logo.png"})
		assert.Equal(t, apperror.KindStorageFailure, apperror.KindOf(err))
	})

	t.Run("stores url on brand", func(t *testing.T) {
		repo := new(MockBrandRepository)
		up := new(MockUploader)
		service := NewBrandService(repo, up)
		file := &multipart.FileHeader{Filename: "logo.png"}

		repo.On("GetByID", ctx, "b-1").Return(testBrand("b-1", "Myntra"), nil)
		up.On("UploadFile", "brands/b-1", file).Return("https://cdn/logo.png", nil)
		repo.On("Update", ctx, mock.MatchedBy(func(b *model.Brand) bool {
			return b.LogoURL == "https://cdn/logo.png"
		})).Return(nil)

		url, err := service.UploadLogo(ctx, "b-1", file)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn/logo.png", url)
		repo.AssertExpectations(t)
		up.AssertExpectations(t)
	})
}
