package request

import "context"

type Repository interface {
	Create(ctx context.Context, r *PendingRequest) error
	Save(ctx context.Context, r *PendingRequest) error
	GetByRequestID(ctx context.Context, requestID string) (*PendingRequest, error)
	// GetUnclaimedByBorrowerID enforces the one-open-request rule.
	GetUnclaimedByBorrowerID(ctx context.Context, borrowerID string) (*PendingRequest, error)
	List(ctx context.Context, claimed *bool) ([]*PendingRequest, error)
}
