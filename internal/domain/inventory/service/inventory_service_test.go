package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/repository"
	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
	"github.com/luxestudio-live/coupon-bazaar/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCodeRepository is a mock of CodeRepository
type MockCodeRepository struct {
	mock.Mock
}

func (m *MockCodeRepository) BulkCreate(ctx context.Context, offerID string, codes []string) (int64, error) {
	args := m.Called(ctx, offerID, codes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCodeRepository) Claim(ctx context.Context, offerID string, n int, claimant string) ([]model.Code, error) {
	args := m.Called(ctx, offerID, n, claimant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Code), args.Error(1)
}

func (m *MockCodeRepository) ClaimedBy(ctx context.Context, offerID, claimant string) ([]model.Code, error) {
	args := m.Called(ctx, offerID, claimant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Code), args.Error(1)
}

func (m *MockCodeRepository) MarkConsumed(ctx context.Context, codeID, by string) (*model.Code, error) {
	args := m.Called(ctx, codeID, by)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Code), args.Error(1)
}

func (m *MockCodeRepository) ListByOffer(ctx context.Context, offerID string) ([]model.Code, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).([]model.Code), args.Error(1)
}

func (m *MockCodeRepository) Breakdown(ctx context.Context, offerID string) (model.OfferStock, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).(model.OfferStock), args.Error(1)
}

func (m *MockCodeRepository) InventoryReport(ctx context.Context) ([]model.OfferStock, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.OfferStock), args.Error(1)
}

func (m *MockCodeRepository) UsageHistory(ctx context.Context, limit, offset int) ([]model.UsageEntry, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]model.UsageEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockCodeRepository) NormalizeLegacy(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func codes(values ...string) []model.Code {
	out := make([]model.Code, 0, len(values))
	for _, v := range values {
		out = append(out, model.Code{OfferID: "A", Code: v, Used: true})
	}
	return out
}

func TestAllocate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns claimed code strings", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)

		mockRepo.On("Claim", ctx, "A", 2, "pay_1").Return(codes("X1", "X2"), nil)

		got, err := service.Allocate(ctx, "A", 2, "pay_1")

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"X1", "X2"}, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("short stock is not an error", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)

		mockRepo.On("Claim", ctx, "A", 2, "pay_2").Return(codes("X3"), nil)

		got, err := service.Allocate(ctx, "A", 2, "pay_2")

		require.NoError(t, err)
		assert.Equal(t, []string{"X3"}, got)
	})

	t.Run("quantity below one", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)

		_, err := service.Allocate(ctx, "A", 0, "pay_3")

		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
		mockRepo.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty claimant becomes guest id", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)

		mockRepo.On("Claim", ctx, "A", 1, mock.MatchedBy(func(c string) bool {
			return strings.HasPrefix(c, "guest_") && len(c) > len("guest_")
		})).Return(codes("G1"), nil)

		_, err := service.Allocate(ctx, "A", 1, "")

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("storage failure is surfaced", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)

		mockRepo.On("Claim", ctx, "A", 1, "pay_4").Return(nil, errors.New("deadlock detected"))

		_, err := service.Allocate(ctx, "A", 1, "pay_4")

		assert.Equal(t, apperror.KindStorageFailure, apperror.KindOf(err))
	})
}

func TestClaimed(t *testing.T) {
	ctx := context.Background()

	t.Run("returns codes held by the claimant", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)
		mockRepo.On("ClaimedBy", ctx, "A", "pay_1").Return(codes("X1", "X2"), nil)

		got, err := service.Claimed(ctx, "A", "pay_1")

		require.NoError(t, err)
		assert.Equal(t, []string{"X1", "X2"}, got)
	})

	t.Run("anonymous claimant holds nothing", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)

		got, err := service.Claimed(ctx, "A", "")

		require.NoError(t, err)
		assert.Empty(t, got)
		mockRepo.AssertNotCalled(t, "ClaimedBy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)
		mockRepo.On("ClaimedBy", ctx, "A", "pay_2").Return(nil, errors.New("conn reset"))

		_, err := service.Claimed(ctx, "A", "pay_2")

		assert.Equal(t, apperror.KindStorageFailure, apperror.KindOf(err))
	})
}

func TestNormalizeCodes(t *testing.T) {
	got := NormalizeCodes([]string{"  ABC ", "", "DEF", "ABC", "\t", "ghi\n"})
	assert.Equal(t, []string{"ABC", "DEF", "ghi"}, got)
}

func TestAddCodes(t *testing.T) {
	ctx := context.Background()

	t.Run("reports duplicates skipped by storage", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)

		mockRepo.On("BulkCreate", ctx, "A", []string{"C1", "C2", "C3"}).Return(int64(2), nil)

		res, err := service.AddCodes(ctx, "A", []string{"C1", " C2", "C1", "", "C3"})

		require.NoError(t, err)
		assert.Equal(t, 5, res.Submitted)
		assert.Equal(t, 3, res.Accepted)
		assert.Equal(t, int64(2), res.Inserted)
		assert.Equal(t, int64(1), res.Duplicates)
	})

	t.Run("only blanks", func(t *testing.T) {
		service := NewInventoryService(new(MockCodeRepository), nil)
		_, err := service.AddCodes(ctx, "A", []string{" ", ""})
		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
	})

	t.Run("unknown offer", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)
		mockRepo.On("BulkCreate", ctx, "Z", []string{"C1"}).Return(int64(0), repository.ErrOfferMissing)

		_, err := service.AddCodes(ctx, "Z", []string{"C1"})

		assert.Equal(t, apperror.KindOfferNotFound, apperror.KindOf(err))
	})
}

func TestMarkConsumed(t *testing.T) {
	ctx := context.Background()

	t.Run("marks as admin", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)
		by := AdminClaimant
		mockRepo.On("MarkConsumed", ctx, "c1", AdminClaimant).Return(&model.Code{Code: "X", Used: true, UsedBy: &by}, nil)

		code, err := service.MarkConsumed(ctx, "c1")

		require.NoError(t, err)
		assert.Equal(t, "admin", *code.UsedBy)
	})

	t.Run("already used", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)
		mockRepo.On("MarkConsumed", ctx, "c2", AdminClaimant).Return(nil, repository.ErrCodeAlreadyUsed)

		_, err := service.MarkConsumed(ctx, "c2")

		assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
	})

	t.Run("missing", func(t *testing.T) {
		mockRepo := new(MockCodeRepository)
		service := NewInventoryService(mockRepo, nil)
		mockRepo.On("MarkConsumed", ctx, "c3", AdminClaimant).Return(nil, repository.ErrCodeNotFound)

		_, err := service.MarkConsumed(ctx, "c3")

		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestListCodes(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCodeRepository)
	service := NewInventoryService(mockRepo, nil)

	mockRepo.On("ListByOffer", ctx, "A").Return(codes("U1"), nil)
	mockRepo.On("Breakdown", ctx, "A").Return(model.OfferStock{OfferID: "A", Total: 3, Used: 1, Unused: 2}, nil)

	listing, err := service.ListCodes(ctx, "A")

	require.NoError(t, err)
	assert.Len(t, listing.Codes, 1)
	assert.Equal(t, int64(2), listing.Stock.Unused)
}

func TestListCodesMalformedOffer(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCodeRepository)
	service := NewInventoryService(mockRepo, nil)

	mockRepo.On("ListByOffer", ctx, "X").Return([]model.Code(nil), repository.ErrOfferMissing)

	_, err := service.ListCodes(ctx, "X")

	assert.Equal(t, apperror.KindOfferNotFound, apperror.KindOf(err))
	mockRepo.AssertNotCalled(t, "Breakdown", mock.Anything, mock.Anything)
}

func TestUsageHistory(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCodeRepository)
	service := NewInventoryService(mockRepo, nil)

	mockRepo.On("UsageHistory", ctx, 20, 20).Return([]model.UsageEntry{{Code: "X"}}, int64(21), nil)

	page, err := service.UsageHistory(ctx, utils.Pagination{Page: 2, Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 2, page.Page)
}
