package mysql

import (
	"context"
	"errors"

	requestDomain "emipay-backend/internal/domain/request"

	"gorm.io/gorm"
)

type RequestRepository struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) *RequestRepository { return &RequestRepository{db: db} }

func (r *RequestRepository) Create(ctx context.Context, req *requestDomain.PendingRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepository) Save(ctx context.Context, req *requestDomain.PendingRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *RequestRepository) GetByRequestID(ctx context.Context, requestID string) (*requestDomain.PendingRequest, error) {
	var out requestDomain.PendingRequest
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, requestDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *RequestRepository) GetUnclaimedByBorrowerID(ctx context.Context, borrowerID string) (*requestDomain.PendingRequest, error) {
	var out requestDomain.PendingRequest
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND is_claimed = ?", borrowerID, false).
		Order("id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, requestDomain.ErrNotFound
	}
	return &out, res.Error
}

// List returns requests newest-first, optionally filtered by claimed state.
func (r *RequestRepository) List(ctx context.Context, claimed *bool) ([]*requestDomain.PendingRequest, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if claimed != nil {
		q = q.Where("is_claimed = ?", *claimed)
	}
	var out []*requestDomain.PendingRequest
	res := q.Find(&out)
	return out, res.Error
}
