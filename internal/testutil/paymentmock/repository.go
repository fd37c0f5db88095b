// Package paymentmock is a function-backed test double for
// payment.Repository.
package paymentmock

import (
	"context"

	paymentDomain "emipay-backend/internal/domain/payment"
)

type Repo struct {
	CreateFn                func(ctx context.Context, r *paymentDomain.Record) error
	SaveFn                  func(ctx context.Context, r *paymentDomain.Record) error
	GetActiveByBorrowerIDFn func(ctx context.Context, borrowerID string) (*paymentDomain.Record, error)
	GetByAgreementIDFn      func(ctx context.Context, agreementID uint64) (*paymentDomain.Record, error)
	ListByBorrowerIDFn      func(ctx context.Context, borrowerID string) ([]*paymentDomain.Record, error)
	ListByLenderIDFn        func(ctx context.Context, lenderID string) ([]*paymentDomain.Record, error)
	ListActiveFn            func(ctx context.Context) ([]*paymentDomain.Record, error)
}

func (m *Repo) Create(ctx context.Context, r *paymentDomain.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, r *paymentDomain.Record) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetActiveByBorrowerID(ctx context.Context, borrowerID string) (*paymentDomain.Record, error) {
	if m.GetActiveByBorrowerIDFn != nil {
		return m.GetActiveByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, paymentDomain.ErrNotFound
}

func (m *Repo) GetByAgreementID(ctx context.Context, agreementID uint64) (*paymentDomain.Record, error) {
	if m.GetByAgreementIDFn != nil {
		return m.GetByAgreementIDFn(ctx, agreementID)
	}
	return nil, paymentDomain.ErrNotFound
}

func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]*paymentDomain.Record, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, nil
}

func (m *Repo) ListByLenderID(ctx context.Context, lenderID string) ([]*paymentDomain.Record, error) {
	if m.ListByLenderIDFn != nil {
		return m.ListByLenderIDFn(ctx, lenderID)
	}
	return nil, nil
}

func (m *Repo) ListActive(ctx context.Context) ([]*paymentDomain.Record, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, nil
}
