package identity

import (
	"context"
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var ErrNotFound = errors.New("identity: wallet not found")

// Wallet is a resolved transacting identity. Key is nil for parties we only
// ever pay to or read about; submitting a transaction requires it.
type Wallet struct {
	Address common.Address
	Key     *ecdsa.PrivateKey
}

// CanSign reports whether this wallet can author transactions.
func (w *Wallet) CanSign() bool { return w != nil && w.Key != nil }

// Provider resolves an off-chain party id (32-char hex) to its wallet.
// Returns ErrNotFound when the party is unknown or has no wallet on file.
type Provider interface {
	Resolve(ctx context.Context, partyID string) (*Wallet, error)
}
