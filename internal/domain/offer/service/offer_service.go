package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/uploader"
	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"

	"github.com/shopspring/decimal"
)

// OfferInput 后台创建/修改商品的参数。给出 BrandID 时品牌名取自品牌目录，Brand 被忽略
type OfferInput struct {
	BrandID     string
	Brand       string
	Discount    string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

type OfferService interface {
	CreateOffer(ctx context.Context, input OfferInput) (*model.Offer, error)
	UpdateOffer(ctx context.Context, id string, input OfferInput) (*model.Offer, error)
	DeleteOffer(ctx context.Context, id string) error
	SetHidden(ctx context.Context, id string, hidden bool) error
	GetOffer(ctx context.Context, id string) (*model.OfferWithStock, error)
	ListVisible(ctx context.Context) ([]model.OfferWithStock, error)
	ListAll(ctx context.Context) ([]model.OfferWithStock, error)
	ListByBrand(ctx context.Context, brandID string) ([]model.OfferWithStock, error)
	UploadImage(ctx context.Context, id string, file *multipart.FileHeader) (string, error)

	// ComputeExpectedTotal 按目录价计算应付总额，忽略客户端传来的任何价格
	ComputeExpectedTotal(ctx context.Context, lines []model.LineRequest) (decimal.Decimal, error)
	// Snapshot 返回按目录价定价的行和总额
	Snapshot(ctx context.Context, lines []model.LineRequest) ([]model.PricedLine, decimal.Decimal, error)
}

// BrandResolver 品牌目录
type BrandResolver interface {
	BrandName(ctx context.Context, id string) (string, error)
}

type offerService struct {
	repo     repository.OfferRepository
	uploader uploader.Uploader
	brands   BrandResolver
}

// NewOfferService uploader 为 nil 时图片上传不可用，brands 为 nil 时只接受自由填写的品牌名
func NewOfferService(repo repository.OfferRepository, up uploader.Uploader, brands BrandResolver) OfferService {
	return &offerService{repo: repo, uploader: up, brands: brands}
}

func validateInput(input OfferInput) error {
	if (input.Brand == "" && input.BrandID == "") || input.Discount == "" {
		return apperror.New(apperror.KindInvalidRequest, "brand and discount are required")
	}
	if !input.Price.IsPositive() {
		return apperror.New(apperror.KindInvalidRequest, "price must be positive")
	}
	return nil
}

func mapRepoErr(err error, id string) error {
	if errors.Is(err, repository.ErrOfferNotFound) {
		return apperror.Newf(apperror.KindOfferNotFound, "offer %s not found", id)
	}
	return apperror.Wrap(apperror.KindStorageFailure, err, "offer storage")
}

// applyBrand 按 BrandID 归属品牌；未给出时使用自由填写的品牌名并解除归属
func (s *offerService) applyBrand(ctx context.Context, offer *model.Offer, input OfferInput) error {
	if input.BrandID == "" {
		offer.BrandID = nil
		offer.Brand = input.Brand
		return nil
	}
	if s.brands == nil {
		return apperror.New(apperror.KindInvalidRequest, "brand catalog is not available")
	}

	name, err := s.brands.BrandName(ctx, input.BrandID)
	if err != nil {
		return err
	}
	id := input.BrandID
	offer.BrandID = &id
	offer.Brand = name
	return nil
}

func (s *offerService) CreateOffer(ctx context.Context, input OfferInput) (*model.Offer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	offer := &model.Offer{
		Discount:    input.Discount,
		Price:       input.Price.Round(2),
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := s.applyBrand(ctx, offer, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "create offer")
	}
	return offer, nil
}

func (s *offerService) UpdateOffer(ctx context.Context, id string, input OfferInput) (*model.Offer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, id)
	}

	if err := s.applyBrand(ctx, offer, input); err != nil {
		return nil, err
	}
	offer.Discount = input.Discount
	offer.Price = input.Price.Round(2)
	offer.Description = input.Description
	if input.ImageURL != "" {
		offer.ImageURL = input.ImageURL
	}

	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, mapRepoErr(err, id)
	}
	return offer, nil
}

func (s *offerService) DeleteOffer(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoErr(err, id)
	}
	return nil
}

func (s *offerService) SetHidden(ctx context.Context, id string, hidden bool) error {
	if err := s.repo.SetHidden(ctx, id, hidden); err != nil {
		return mapRepoErr(err, id)
	}
	return nil
}

func (s *offerService) GetOffer(ctx context.Context, id string) (*model.OfferWithStock, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, id)
	}
	counts, err := s.repo.AvailableCounts(ctx, []string{id})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "count stock")
	}
	return &model.OfferWithStock{Offer: *offer, Stock: counts[id]}, nil
}

func (s *offerService) ListVisible(ctx context.Context) ([]model.OfferWithStock, error) {
	return s.list(ctx, false)
}

func (s *offerService) ListAll(ctx context.Context) ([]model.OfferWithStock, error) {
	return s.list(ctx, true)
}

// ListByBrand 某品牌下的可见商品
func (s *offerService) ListByBrand(ctx context.Context, brandID string) ([]model.OfferWithStock, error) {
	offers, err := s.repo.ListByBrand(ctx, brandID, false)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "list offers by brand")
	}
	return s.withStock(ctx, offers)
}

func (s *offerService) list(ctx context.Context, includeHidden bool) ([]model.OfferWithStock, error) {
	offers, err := s.repo.List(ctx, includeHidden)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "list offers")
	}
	return s.withStock(ctx, offers)
}

func (s *offerService) withStock(ctx context.Context, offers []model.Offer) ([]model.OfferWithStock, error) {
	ids := make([]string, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	counts, err := s.repo.AvailableCounts(ctx, ids)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "count stock")
	}

	result := make([]model.OfferWithStock, 0, len(offers))
	for _, o := range offers {
		result = append(result, model.OfferWithStock{Offer: o, Stock: counts[o.ID]})
	}
	return result, nil
}

func (s *offerService) UploadImage(ctx context.Context, id string, file *multipart.FileHeader) (string, error) {
	if s.uploader == nil {
		return "", apperror.New(apperror.KindStorageFailure, "image storage is not configured")
	}

	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", mapRepoErr(err, id)
	}

	url, err := s.uploader.UploadFile("offers/"+id, file)
	if err != nil {
		return "", apperror.Wrap(apperror.KindStorageFailure, err, "upload image")
	}

	offer.ImageURL = url
	if err := s.repo.Update(ctx, offer); err != nil {
		return "", mapRepoErr(err, id)
	}
	return url, nil
}

func (s *offerService) ComputeExpectedTotal(ctx context.Context, lines []model.LineRequest) (decimal.Decimal, error) {
	_, total, err := s.Snapshot(ctx, lines)
	return total, err
}

func (s *offerService) Snapshot(ctx context.Context, lines []model.LineRequest) ([]model.PricedLine, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, apperror.New(apperror.KindInvalidRequest, "at least one line item is required")
	}

	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, decimal.Zero, apperror.Newf(apperror.KindInvalidRequest, "quantity for offer %s must be at least 1", l.OfferID)
		}
		if !seen[l.OfferID] {
			seen[l.OfferID] = true
			ids = append(ids, l.OfferID)
		}
	}

	offers, err := s.repo.GetByIDs(ctx, ids)
	if errors.Is(err, repository.ErrOfferNotFound) {
		return nil, decimal.Zero, apperror.Newf(apperror.KindOfferNotFound, "offer not found among %v", ids)
	}
	if err != nil {
		return nil, decimal.Zero, apperror.Wrap(apperror.KindStorageFailure, err, "load offers")
	}
	byID := make(map[string]model.Offer, len(offers))
	for _, o := range offers {
		byID[o.ID] = o
	}

	priced := make([]model.PricedLine, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		o, ok := byID[l.OfferID]
		if !ok {
			return nil, decimal.Zero, apperror.Newf(apperror.KindOfferNotFound, "offer %s not found", l.OfferID)
		}
		line := model.PricedLine{
			OfferID:     o.ID,
			Brand:       o.Brand,
			Discount:    o.Discount,
			Description: o.Description,
			UnitPrice:   o.Price,
			Quantity:    l.Quantity,
		}
		priced = append(priced, line)
		total = total.Add(line.Subtotal())
	}
	return priced, total, nil
}
