package mysql

import (
	"context"
	"errors"

	paymentDomain "emipay-backend/internal/domain/payment"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, rec *paymentDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PaymentRepository) Save(ctx context.Context, rec *paymentDomain.Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *PaymentRepository) GetActiveByBorrowerID(ctx context.Context, borrowerID string) (*paymentDomain.Record, error) {
	var out paymentDomain.Record
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND is_active = ?", borrowerID, true).
		Order("id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, paymentDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *PaymentRepository) GetByAgreementID(ctx context.Context, agreementID uint64) (*paymentDomain.Record, error) {
	var out paymentDomain.Record
	res := r.db.WithContext(ctx).Where("agreement_id = ?", agreementID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, paymentDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *PaymentRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]*paymentDomain.Record, error) {
	var out []*paymentDomain.Record
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) ListByLenderID(ctx context.Context, lenderID string) ([]*paymentDomain.Record, error) {
	var out []*paymentDomain.Record
	res := r.db.WithContext(ctx).
		Where("lender_id = ?", lenderID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) ListActive(ctx context.Context) ([]*paymentDomain.Record, error) {
	var out []*paymentDomain.Record
	res := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&out)
	return out, res.Error
}
