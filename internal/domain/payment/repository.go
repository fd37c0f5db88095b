package payment

import "context"

type Repository interface {
	Create(ctx context.Context, r *Record) error
	Save(ctx context.Context, r *Record) error
	// GetActiveByBorrowerID returns the borrower's currently active record,
	// newest first if state ever drifts into more than one.
	GetActiveByBorrowerID(ctx context.Context, borrowerID string) (*Record, error)
	GetByAgreementID(ctx context.Context, agreementID uint64) (*Record, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]*Record, error)
	ListByLenderID(ctx context.Context, lenderID string) ([]*Record, error)
	ListActive(ctx context.Context) ([]*Record, error)
}
