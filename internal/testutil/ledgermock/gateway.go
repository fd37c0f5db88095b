// Package ledgermock is a function-backed test double for ledger.Gateway.
// Unset methods fail loudly so tests only exercise what they wire.
package ledgermock

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"emipay-backend/internal/domain/identity"
	"emipay-backend/internal/domain/ledger"
)

var errUnset = errors.New("ledgermock: method not wired")

type Gateway struct {
	SpenderAddressFn func() common.Address

	BalanceOfFn func(ctx context.Context, addr common.Address) (*big.Int, error)
	AllowanceFn func(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	TransferFn  func(ctx context.Context, from *identity.Wallet, to common.Address, amount *big.Int) (ledger.TxResult, error)
	ApproveFn   func(ctx context.Context, owner *identity.Wallet, spender common.Address, amount *big.Int) (ledger.TxResult, error)

	CreateAgreementFn func(ctx context.Context, from *identity.Wallet, p ledger.CreateParams) (uint64, ledger.TxResult, error)
	RecordPaymentFn   func(ctx context.Context, from *identity.Wallet, id uint64) (ledger.TxResult, error)

	GetAgreementDetailsFn           func(ctx context.Context, id uint64) (*ledger.Agreement, error)
	GetRemainingEMIsFn              func(ctx context.Context, id uint64) (uint64, error)
	GetNextDueDateFn                func(ctx context.Context, id uint64) (time.Time, error)
	GetCurrentEMIAmountFn           func(ctx context.Context, id uint64) (*big.Int, error)
	GetTotalAmountPaidFn            func(ctx context.Context, id uint64) (*big.Int, error)
	GetTotalAmountRemainingFn       func(ctx context.Context, id uint64) (*big.Int, error)
	GetLenderTotalAmountPaidFn      func(ctx context.Context, id uint64) (*big.Int, error)
	GetLenderTotalAmountRemainingFn func(ctx context.Context, id uint64) (*big.Int, error)
	GetLenderRemainingMonthsFn      func(ctx context.Context, id uint64) (uint64, error)
}

func (m *Gateway) SpenderAddress() common.Address {
	if m.SpenderAddressFn != nil {
		return m.SpenderAddressFn()
	}
	return common.Address{}
}

func (m *Gateway) BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	if m.BalanceOfFn != nil {
		return m.BalanceOfFn(ctx, addr)
	}
	return nil, errUnset
}

func (m *Gateway) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	if m.AllowanceFn != nil {
		return m.AllowanceFn(ctx, owner, spender)
	}
	return nil, errUnset
}

func (m *Gateway) Transfer(ctx context.Context, from *identity.Wallet, to common.Address, amount *big.Int) (ledger.TxResult, error) {
	if m.TransferFn != nil {
		return m.TransferFn(ctx, from, to, amount)
	}
	return ledger.TxResult{}, errUnset
}

func (m *Gateway) Approve(ctx context.Context, owner *identity.Wallet, spender common.Address, amount *big.Int) (ledger.TxResult, error) {
	if m.ApproveFn != nil {
		return m.ApproveFn(ctx, owner, spender, amount)
	}
	return ledger.TxResult{}, errUnset
}

func (m *Gateway) CreateAgreement(ctx context.Context, from *identity.Wallet, p ledger.CreateParams) (uint64, ledger.TxResult, error) {
	if m.CreateAgreementFn != nil {
		return m.CreateAgreementFn(ctx, from, p)
	}
	return 0, ledger.TxResult{}, errUnset
}

func (m *Gateway) RecordPayment(ctx context.Context, from *identity.Wallet, id uint64) (ledger.TxResult, error) {
	if m.RecordPaymentFn != nil {
		return m.RecordPaymentFn(ctx, from, id)
	}
	return ledger.TxResult{}, errUnset
}

func (m *Gateway) GetAgreementDetails(ctx context.Context, id uint64) (*ledger.Agreement, error) {
	if m.GetAgreementDetailsFn != nil {
		return m.GetAgreementDetailsFn(ctx, id)
	}
	return nil, errUnset
}

func (m *Gateway) GetRemainingEMIs(ctx context.Context, id uint64) (uint64, error) {
	if m.GetRemainingEMIsFn != nil {
		return m.GetRemainingEMIsFn(ctx, id)
	}
	return 0, errUnset
}

func (m *Gateway) GetNextDueDate(ctx context.Context, id uint64) (time.Time, error) {
	if m.GetNextDueDateFn != nil {
		return m.GetNextDueDateFn(ctx, id)
	}
	return time.Time{}, errUnset
}

func (m *Gateway) GetCurrentEMIAmount(ctx context.Context, id uint64) (*big.Int, error) {
	if m.GetCurrentEMIAmountFn != nil {
		return m.GetCurrentEMIAmountFn(ctx, id)
	}
	return nil, errUnset
}

func (m *Gateway) GetTotalAmountPaid(ctx context.Context, id uint64) (*big.Int, error) {
	if m.GetTotalAmountPaidFn != nil {
		return m.GetTotalAmountPaidFn(ctx, id)
	}
	return nil, errUnset
}

func (m *Gateway) GetTotalAmountRemaining(ctx context.Context, id uint64) (*big.Int, error) {
	if m.GetTotalAmountRemainingFn != nil {
		return m.GetTotalAmountRemainingFn(ctx, id)
	}
	return nil, errUnset
}

func (m *Gateway) GetLenderTotalAmountPaid(ctx context.Context, id uint64) (*big.Int, error) {
	if m.GetLenderTotalAmountPaidFn != nil {
		return m.GetLenderTotalAmountPaidFn(ctx, id)
	}
	return nil, errUnset
}

func (m *Gateway) GetLenderTotalAmountRemaining(ctx context.Context, id uint64) (*big.Int, error) {
	if m.GetLenderTotalAmountRemainingFn != nil {
		return m.GetLenderTotalAmountRemainingFn(ctx, id)
	}
	return nil, errUnset
}

func (m *Gateway) GetLenderRemainingMonths(ctx context.Context, id uint64) (uint64, error) {
	if m.GetLenderRemainingMonthsFn != nil {
		return m.GetLenderRemainingMonthsFn(ctx, id)
	}
	return 0, errUnset
}
