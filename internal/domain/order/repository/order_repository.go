package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/order/model"
	"github.com/luxestudio-live/coupon-bazaar/pkg/database"

	"gorm.io/gorm"
)

var (
	// ErrDuplicatePayment 同一支付号已有订单 (唯一约束冲突)
	ErrDuplicatePayment = errors.New("order for payment already exists")
	ErrOrderNotFound    = errors.New("order not found")
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, offset, limit int) ([]model.Order, int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create 唯一约束充当 CAS：并发写同一支付号时只有一个成功
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	if database.PgCode(err) == database.PgUniqueViolation {
		return ErrDuplicatePayment
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	return r.first(ctx, "payment_id = ?", paymentID)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *orderRepository) first(ctx context.Context, query string, arg string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where(query, arg).Take(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || database.IsMalformedID(err) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}
