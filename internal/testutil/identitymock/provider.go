// Package identitymock is a function-backed test double for
// identity.Provider.
package identitymock

import (
	"context"

	"emipay-backend/internal/domain/identity"
)

type Provider struct {
	ResolveFn func(ctx context.Context, partyID string) (*identity.Wallet, error)
}

func (m *Provider) Resolve(ctx context.Context, partyID string) (*identity.Wallet, error) {
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, partyID)
	}
	return nil, identity.ErrNotFound
}
