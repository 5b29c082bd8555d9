package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/repository"
	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
	baseModel "github.com/luxestudio-live/coupon-bazaar/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOfferRepository is a mock of OfferRepository
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) Create(ctx context.Context, offer *model.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Offer, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepository) List(ctx context.Context, includeHidden bool) ([]model.Offer, error) {
	args := m.Called(ctx, includeHidden)
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepository) ListByBrand(ctx context.Context, brandID string, includeHidden bool) ([]model.Offer, error) {
	args := m.Called(ctx, brandID, includeHidden)
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepository) Update(ctx context.Context, offer *model.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	args := m.Called(ctx, id, hidden)
	return args.Error(0)
}

func (m *MockOfferRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOfferRepository) AvailableCounts(ctx context.Context, offerIDs []string) (map[string]int64, error) {
	args := m.Called(ctx, offerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

// brandCatalog 品牌 id -> 名称
type brandCatalog map[string]string

func (b brandCatalog) BrandName(ctx context.Context, id string) (string, error) {
	name, ok := b[id]
	if !ok {
		return "", apperror.Newf(apperror.KindNotFound, "brand %s not found", id)
	}
	return name, nil
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadFile(prefix string, file *multipart.FileHeader) (string, error) {
	args := m.Called(prefix, file)
	return args.String(0), args.Error(1)
}

func createTestOffer(id, brand, price string) model.Offer {
	return model.Offer{
		BaseModel:   baseModel.BaseModel{ID: id},
		Brand:       brand,
		Discount:    "20% off",
		Price:       decimal.RequireFromString(price),
		Description: brand + " voucher",
	}
}

func TestComputeExpectedTotal(t *testing.T) {
	ctx := context.Background()

	t.Run("sums catalog price times quantity", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, nil)

		mockRepo.On("GetByIDs", ctx, []string{"A", "B"}).Return([]model.Offer{
			createTestOffer("A", "Brand-A", "499.00"),
			createTestOffer("B", "Brand-B", "120.50"),
		}, nil)

		total, err := service.ComputeExpectedTotal(ctx, []model.LineRequest{
			{OfferID: "A", Quantity: 2},
			{OfferID: "B", Quantity: 1},
		})

		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1118.50").Equal(total))
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown offer fails the whole computation", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, nil)

		mockRepo.On("GetByIDs", ctx, []string{"A", "missing"}).Return([]model.Offer{
			createTestOffer("A", "Brand-A", "499.00"),
		}, nil)

		_, err := service.ComputeExpectedTotal(ctx, []model.LineRequest{
			{OfferID: "A", Quantity: 1},
			{OfferID: "missing", Quantity: 1},
		})

		assert.Equal(t, apperror.KindOfferNotFound, apperror.KindOf(err))
	})

	t.Run("quantity below one is rejected", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, nil)

		_, err := service.ComputeExpectedTotal(ctx, []model.LineRequest{{OfferID: "A", Quantity: 0}})

		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
		mockRepo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		service := NewOfferService(new(MockOfferRepository), nil, nil)
		_, err := service.ComputeExpectedTotal(ctx, nil)
		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
	})

	t.Run("malformed offer id is an unknown offer", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, nil)
		mockRepo.On("GetByIDs", ctx, []string{"A", "X"}).Return([]model.Offer(nil), repository.ErrOfferNotFound)

		_, err := service.ComputeExpectedTotal(ctx, []model.LineRequest{
			{OfferID: "A", Quantity: 1},
			{OfferID: "X", Quantity: 1},
		})

		assert.Equal(t, apperror.KindOfferNotFound, apperror.KindOf(err))
	})

	t.Run("storage error surfaces as storage failure", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, nil)
		mockRepo.On("GetByIDs", ctx, []string{"A"}).Return([]model.Offer(nil), errors.New("conn reset"))

		_, err := service.ComputeExpectedTotal(ctx, []model.LineRequest{{OfferID: "A", Quantity: 1}})

		assert.Equal(t, apperror.KindStorageFailure, apperror.KindOf(err))
	})
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOfferRepository)
	service := NewOfferService(mockRepo, nil, nil)

	mockRepo.On("GetByIDs", ctx, []string{"A"}).Return([]model.Offer{
		createTestOffer("A", "Brand-A", "100.00"),
	}, nil)

	t.Run("repeated offer keeps separate lines", func(t *testing.T) {
		lines, total, err := service.Snapshot(ctx, []model.LineRequest{
			{OfferID: "A", Quantity: 1},
			{OfferID: "A", Quantity: 2},
		})

		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "Brand-A", lines[0].Brand)
		assert.Equal(t, 2, lines[1].Quantity)
		assert.True(t, decimal.NewFromInt(300).Equal(total))
	})
}

func TestListVisible(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOfferRepository)
	service := NewOfferService(mockRepo, nil, nil)

	mockRepo.On("List", ctx, false).Return([]model.Offer{
		createTestOffer("A", "Brand-A", "10"),
		createTestOffer("B", "Brand-B", "20"),
	}, nil)
	mockRepo.On("AvailableCounts", ctx, []string{"A", "B"}).Return(map[string]int64{"A": 4}, nil)

	t.Run("offers carry live stock", func(t *testing.T) {
		offers, err := service.ListVisible(ctx)

		require.NoError(t, err)
		require.Len(t, offers, 2)
		assert.Equal(t, int64(4), offers[0].Stock)
		assert.Equal(t, int64(0), offers[1].Stock)
		mockRepo.AssertExpectations(t)
	})
}

func TestCreateOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non positive price", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, nil)

		_, err := service.CreateOffer(ctx, OfferInput{Brand: "X", Discount: "10%", Price: decimal.Zero})

		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
	})

	t.Run("rounds price to cents", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Offer")).Return(nil)

		offer, err := service.CreateOffer(ctx, OfferInput{Brand: "X", Discount: "10%", Price: decimal.RequireFromString("9.999")})

		require.NoError(t, err)
		assert.Equal(t, "10", offer.Price.String())
	})
}

func TestOfferBrand(t *testing.T) {
	ctx := context.Background()
	brands := brandCatalog{"b-1": "Myntra"}

	t.Run("brand name comes from the catalog", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, brands)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Offer")).Return(nil)

		offer, err := service.CreateOffer(ctx, OfferInput{BrandID: "b-1", Brand: "typo", Discount: "10%", Price: decimal.NewFromInt(99)})

		require.NoError(t, err)
		assert.Equal(t, "Myntra", offer.Brand)
		require.NotNil(t, offer.BrandID)
		assert.Equal(t, "b-1", *offer.BrandID)
	})

	t.Run("unknown brand", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, brands)

		_, err := service.CreateOffer(ctx, OfferInput{BrandID: "b-404", Discount: "10%", Price: decimal.NewFromInt(99)})

		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("free text brand detaches on update", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, brands)
		linked := createTestOffer("A", "Myntra", "10")
		brandID := "b-1"
		linked.BrandID = &brandID
		mockRepo.On("GetByID", ctx, "A").Return(&linked, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(o *model.Offer) bool {
			return o.BrandID == nil && o.Brand == "Legacy"
		})).Return(nil)

		_, err := service.UpdateOffer(ctx, "A", OfferInput{Brand: "Legacy", Discount: "10%", Price: decimal.NewFromInt(10)})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no catalog wired", func(t *testing.T) {
		service := NewOfferService(new(MockOfferRepository), nil, nil)

		_, err := service.CreateOffer(ctx, OfferInput{BrandID: "b-1", Discount: "10%", Price: decimal.NewFromInt(99)})

		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
	})

	t.Run("list by brand carries stock", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		service := NewOfferService(mockRepo, nil, brands)
		mockRepo.On("ListByBrand", ctx, "b-1", false).Return([]model.Offer{createTestOffer("A", "Myntra", "10")}, nil)
		mockRepo.On("AvailableCounts", ctx, []string{"A"}).Return(map[string]int64{"A": 2}, nil)

		offers, err := service.ListByBrand(ctx, "b-1")

		require.NoError(t, err)
		require.Len(t, offers, 1)
		assert.Equal(t, int64(2), offers[0].Stock)
	})
}

func TestDeleteOffer(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOfferRepository)
	service := NewOfferService(mockRepo, nil, nil)
	mockRepo.On("Delete", ctx, "gone").Return(repository.ErrOfferNotFound)

	err := service.DeleteOffer(ctx, "gone")

	assert.Equal(t, apperror.KindOfferNotFound, apperror.KindOf(err))
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		service := NewOfferService(new(MockOfferRepository), nil, nil)
		_, err := service.UploadImage(ctx, "A", &multipart.FileHeader{Filename: "a.png"})
		assert.Equal(t, apperror.KindStorageFailure, apperror.KindOf(err))
	})

	t.Run("stores url on offer", func(t *testing.T) {
		mockRepo := new(MockOfferRepository)
		up := new(MockUploader)
		service := NewOfferService(mockRepo, up, nil)
		offer := createTestOffer("A", "Brand-A", "10")
		file := &multipart.FileHeader{Filename: "a.png"}

		mockRepo.On("GetByID", ctx, "A").Return(&offer, nil)
		up.On("UploadFile", "offers/A", file).Return("https://cdn/a.png", nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(o *model.Offer) bool {
			return o.ImageURL == "https://cdn/a.png"
		})).Return(nil)

		url, err := service.UploadImage(ctx, "A", file)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn/a.png", url)
		mockRepo.AssertExpectations(t)
		up.AssertExpectations(t)
	})
}
