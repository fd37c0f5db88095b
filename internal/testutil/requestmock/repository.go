// Package requestmock is a function-backed test double for
// request.Repository.
package requestmock

import (
	"context"

	requestDomain "emipay-backend/internal/domain/request"
)

type Repo struct {
	CreateFn                   func(ctx context.Context, r *requestDomain.PendingRequest) error
	SaveFn                     func(ctx context.Context, r *requestDomain.PendingRequest) error
	GetByRequestIDFn           func(ctx context.Context, requestID string) (*requestDomain.PendingRequest, error)
	GetUnclaimedByBorrowerIDFn func(ctx context.Context, borrowerID string) (*requestDomain.PendingRequest, error)
	ListFn                     func(ctx context.Context, claimed *bool) ([]*requestDomain.PendingRequest, error)
}

func (m *Repo) Create(ctx context.Context, r *requestDomain.PendingRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, r *requestDomain.PendingRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*requestDomain.PendingRequest, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, requestDomain.ErrNotFound
}

func (m *Repo) GetUnclaimedByBorrowerID(ctx context.Context, borrowerID string) (*requestDomain.PendingRequest, error) {
	if m.GetUnclaimedByBorrowerIDFn != nil {
		return m.GetUnclaimedByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, requestDomain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, claimed *bool) ([]*requestDomain.PendingRequest, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, claimed)
	}
	return nil, nil
}
