// Package memory implements the ledger gateway as an in-process token book
// plus agreement state machine. It carries the reference semantics of the
// on-chain contract and backs local development and tests.
package memory

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"emipay-backend/internal/domain/identity"
	"emipay-backend/internal/domain/ledger"
	"emipay-backend/pkg/emi"
	"emipay-backend/pkg/id"
)

type allowanceKey struct {
	owner   common.Address
	spender common.Address
}

type Ledger struct {
	mu         sync.RWMutex
	spender    common.Address
	balances   map[common.Address]*big.Int
	allowances map[allowanceKey]*big.Int
	agreements []*ledger.Agreement
}

var _ ledger.Gateway = (*Ledger)(nil)

// New returns an empty ledger. spender plays the agreement contract's role
// as allowance target.
func New(spender common.Address) *Ledger {
	return &Ledger{
		spender:    spender,
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[allowanceKey]*big.Int),
	}
}

// Mint credits addr out of thin air. Seeding helper for dev and tests.
func (l *Ledger) Mint(addr common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(addr, amount)
}

func (l *Ledger) credit(addr common.Address, amount *big.Int) {
	cur, ok := l.balances[addr]
	if !ok {
		cur = new(big.Int)
		l.balances[addr] = cur
	}
	cur.Add(cur, amount)
}

func (l *Ledger) SpenderAddress() common.Address { return l.spender }

func (l *Ledger) BalanceOf(_ context.Context, addr common.Address) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.balances[addr]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (l *Ledger) Allowance(_ context.Context, owner, spender common.Address) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if a, ok := l.allowances[allowanceKey{owner, spender}]; ok {
		return new(big.Int).Set(a), nil
	}
	return new(big.Int), nil
}

func (l *Ledger) Transfer(_ context.Context, from *identity.Wallet, to common.Address, amount *big.Int) (ledger.TxResult, error) {
	if !from.CanSign() {
		return ledger.TxResult{}, &ledger.RevertError{Op: "transfer", Reason: "sender cannot sign"}
	}
	if amount == nil || amount.Sign() <= 0 {
		return ledger.TxResult{}, &ledger.RevertError{Op: "transfer", Reason: "non-positive amount"}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal, ok := l.balances[from.Address]
	if !ok || bal.Cmp(amount) < 0 {
		return ledger.TxResult{}, &ledger.RevertError{Op: "transfer", Reason: "insufficient balance"}
	}
	bal.Sub(bal, amount)
	l.credit(to, amount)
	return txResult(), nil
}

func (l *Ledger) Approve(_ context.Context, owner *identity.Wallet, spender common.Address, amount *big.Int) (ledger.TxResult, error) {
	if !owner.CanSign() {
		return ledger.TxResult{}, &ledger.RevertError{Op: "approve", Reason: "owner cannot sign"}
	}
	if amount == nil || amount.Sign() < 0 {
		return ledger.TxResult{}, &ledger.RevertError{Op: "approve", Reason: "negative amount"}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[allowanceKey{owner.Address, spender}] = new(big.Int).Set(amount)
	return txResult(), nil
}

func (l *Ledger) CreateAgreement(_ context.Context, from *identity.Wallet, p ledger.CreateParams) (uint64, ledger.TxResult, error) {
	if !from.CanSign() {
		return 0, ledger.TxResult{}, &ledger.RevertError{Op: "createAgreement", Reason: "caller cannot sign"}
	}
	if p.TotalAmount == nil || p.TotalAmount.Sign() <= 0 {
		return 0, ledger.TxResult{}, &ledger.RevertError{Op: "createAgreement", Reason: "principal must be positive"}
	}
	if p.Months < 1 {
		return 0, ledger.TxResult{}, &ledger.RevertError{Op: "createAgreement", Reason: "months must be at least 1"}
	}
	if p.InterestRate < 0 {
		return 0, ledger.TxResult{}, &ledger.RevertError{Op: "createAgreement", Reason: "negative interest rate"}
	}

	installment, err := emi.Calculate(p.TotalAmount, p.InterestRate, int64(p.Months))
	if err != nil {
		return 0, ledger.TxResult{}, &ledger.RevertError{Op: "createAgreement", Reason: err.Error()}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	a := &ledger.Agreement{
		ID:             uint64(len(l.agreements)),
		Lender:         p.Lender,
		Borrower:       p.Borrower,
		Token:          p.Token,
		TotalAmount:    new(big.Int).Set(p.TotalAmount),
		EMIAmount:      installment,
		InterestRate:   p.InterestRate,
		Months:         p.Months,
		StartTime:      p.StartTime,
		NextPaymentDue: p.StartTime,
		PaymentsMade:   0,
		IsActive:       true,
	}
	l.agreements = append(l.agreements, a)
	return a.ID, txResult(), nil
}

// RecordPayment advances the agreement by exactly one installment. It is
// atomic under the ledger mutex: either all three fields move or none do.
// Timing is not re-verified here; the caller enforces due-ness.
func (l *Ledger) RecordPayment(_ context.Context, from *identity.Wallet, agreementID uint64) (ledger.TxResult, error) {
	if !from.CanSign() {
		return ledger.TxResult{}, &ledger.RevertError{Op: "recordPayment", Reason: "caller cannot sign"}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	a, err := l.get(agreementID)
	if err != nil {
		return ledger.TxResult{}, err
	}
	if !a.IsActive {
		return ledger.TxResult{}, ledger.ErrNoActiveAgreement
	}
	a.PaymentsMade++
	a.NextPaymentDue = a.NextPaymentDue.Add(ledger.Period)
	if a.PaymentsMade == a.Months {
		a.IsActive = false
	}
	return txResult(), nil
}

func (l *Ledger) GetAgreementDetails(_ context.Context, agreementID uint64) (*ledger.Agreement, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, err := l.get(agreementID)
	if err != nil {
		return nil, err
	}
	return snapshot(a), nil
}

func (l *Ledger) GetRemainingEMIs(_ context.Context, agreementID uint64) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, err := l.get(agreementID)
	if err != nil {
		return 0, err
	}
	return a.RemainingEMIs(), nil
}

func (l *Ledger) GetNextDueDate(_ context.Context, agreementID uint64) (time.Time, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, err := l.get(agreementID)
	if err != nil {
		return time.Time{}, err
	}
	return a.NextPaymentDue, nil
}

func (l *Ledger) GetCurrentEMIAmount(_ context.Context, agreementID uint64) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, err := l.get(agreementID)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(a.EMIAmount), nil
}

func (l *Ledger) GetTotalAmountPaid(_ context.Context, agreementID uint64) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, err := l.get(agreementID)
	if err != nil {
		return nil, err
	}
	return a.TotalPaid(), nil
}

func (l *Ledger) GetTotalAmountRemaining(_ context.Context, agreementID uint64) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, err := l.get(agreementID)
	if err != nil {
		return nil, err
	}
	return a.TotalRemaining(), nil
}

// The lender-facing figures mirror the borrower-facing ones: every settled
// installment flows to the lender in full.

func (l *Ledger) GetLenderTotalAmountPaid(ctx context.Context, agreementID uint64) (*big.Int, error) {
	return l.GetTotalAmountPaid(ctx, agreementID)
}

func (l *Ledger) GetLenderTotalAmountRemaining(ctx context.Context, agreementID uint64) (*big.Int, error) {
	return l.GetTotalAmountRemaining(ctx, agreementID)
}

func (l *Ledger) GetLenderRemainingMonths(ctx context.Context, agreementID uint64) (uint64, error) {
	return l.GetRemainingEMIs(ctx, agreementID)
}

func (l *Ledger) get(agreementID uint64) (*ledger.Agreement, error) {
	if agreementID >= uint64(len(l.agreements)) {
		return nil, ledger.ErrAgreementNotFound
	}
	return l.agreements[agreementID], nil
}

func snapshot(a *ledger.Agreement) *ledger.Agreement {
	cp := *a
	cp.TotalAmount = new(big.Int).Set(a.TotalAmount)
	cp.EMIAmount = new(big.Int).Set(a.EMIAmount)
	return &cp
}

func txResult() ledger.TxResult {
	return ledger.TxResult{Hash: "0x" + id.NewID32()}
}
