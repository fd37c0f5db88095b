package ledger

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// Period separates consecutive installments.
	Period = 30 * 24 * time.Hour
	// StartGrace pushes a new agreement's first due date past submission so
	// the creation transaction can be mined before anything falls due.
	StartGrace = 120 * time.Second
	// DueGrace lets a payment land slightly before the exact due instant to
	// absorb clock and mining skew.
	DueGrace = 60 * time.Second
)

// Agreement is the authoritative on-chain loan record. Everything except
// NextPaymentDue, PaymentsMade and IsActive is frozen at creation.
type Agreement struct {
	ID             uint64
	Lender         common.Address
	Borrower       common.Address
	Token          common.Address
	TotalAmount    *big.Int // principal, token base units
	EMIAmount      *big.Int // fixed installment, token base units
	InterestRate   int64    // annual, percent x 100 (1200 = 12.00%)
	Months         uint64
	StartTime      time.Time
	NextPaymentDue time.Time
	PaymentsMade   uint64
	IsActive       bool
}

// RemainingEMIs is months minus payments made; RemainingEMIs + PaymentsMade
// always equals Months.
func (a *Agreement) RemainingEMIs() uint64 { return a.Months - a.PaymentsMade }

// TotalPaid is the amount already settled: EMIAmount * PaymentsMade.
func (a *Agreement) TotalPaid() *big.Int {
	return new(big.Int).Mul(a.EMIAmount, new(big.Int).SetUint64(a.PaymentsMade))
}

// TotalRemaining is the amount still owed: EMIAmount * RemainingEMIs.
func (a *Agreement) TotalRemaining() *big.Int {
	return new(big.Int).Mul(a.EMIAmount, new(big.Int).SetUint64(a.RemainingEMIs()))
}

// CreateParams carries everything an agreement is created from. Amounts are
// token base units and InterestRate is already x100-normalized.
type CreateParams struct {
	Lender       common.Address
	Borrower     common.Address
	Token        common.Address
	TotalAmount  *big.Int
	InterestRate int64
	Months       uint64
	StartTime    time.Time
}
