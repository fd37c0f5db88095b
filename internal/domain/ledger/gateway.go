package ledger

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"emipay-backend/internal/domain/identity"
)

// TxResult references a finalized ledger mutation.
type TxResult struct {
	Hash string
}

// TokenLedger exposes the fungible-token primitives of the external chain.
// Mutations block until finality; a return without error means committed.
type TokenLedger interface {
	BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Transfer(ctx context.Context, from *identity.Wallet, to common.Address, amount *big.Int) (TxResult, error)
	Approve(ctx context.Context, owner *identity.Wallet, spender common.Address, amount *big.Int) (TxResult, error)
}

// AgreementLedger exposes the installment-loan contract. Reads fail with
// ErrAgreementNotFound for unknown ids. RecordPayment advances state by
// exactly one installment; it does not re-verify timing — due-ness is the
// caller's responsibility — and fails with ErrNoActiveAgreement once the
// final installment is recorded.
type AgreementLedger interface {
	// SpenderAddress is the authority allowances must be granted to.
	SpenderAddress() common.Address

	CreateAgreement(ctx context.Context, from *identity.Wallet, p CreateParams) (uint64, TxResult, error)
	RecordPayment(ctx context.Context, from *identity.Wallet, id uint64) (TxResult, error)

	GetAgreementDetails(ctx context.Context, id uint64) (*Agreement, error)
	GetRemainingEMIs(ctx context.Context, id uint64) (uint64, error)
	GetNextDueDate(ctx context.Context, id uint64) (time.Time, error)
	GetCurrentEMIAmount(ctx context.Context, id uint64) (*big.Int, error)
	GetTotalAmountPaid(ctx context.Context, id uint64) (*big.Int, error)
	GetTotalAmountRemaining(ctx context.Context, id uint64) (*big.Int, error)
	GetLenderTotalAmountPaid(ctx context.Context, id uint64) (*big.Int, error)
	GetLenderTotalAmountRemaining(ctx context.Context, id uint64) (*big.Int, error)
	GetLenderRemainingMonths(ctx context.Context, id uint64) (uint64, error)
}

// Gateway is the full external-ledger surface the services orchestrate.
type Gateway interface {
	TokenLedger
	AgreementLedger
}
