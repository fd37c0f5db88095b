// Package emi computes equated monthly installments with the same
// fixed-point arithmetic the on-chain agreement ledger uses, so amounts
// previewed off-chain match the amount frozen on an agreement exactly.
package emi

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// Internal scale for rate math ("ray", 27 decimals). Token amounts stay in
// their own base units (18 decimals for the reference token) end to end.
var ray = new(big.Int).Exp(big.NewInt(10), big.NewInt(27), nil)

// Annual rates arrive as percent x 100 (1200 = 12.00%); monthly rate divides
// by 12 months x 10000.
const rateDivisor = 12 * 10000

var (
	ErrNonPositivePrincipal = errors.New("emi: principal must be positive")
	ErrNegativeRate         = errors.New("emi: rate must not be negative")
	ErrInvalidMonths        = errors.New("emi: months must be at least 1")
)

// Calculate returns the fixed installment E for an amortized loan:
//
//	r = annualRateBps10000 / (12 * 10000)
//	E = principal * r * (1+r)^months / ((1+r)^months - 1)
//
// principal is in token base units. The final division truncates toward
// zero. A zero rate degenerates the closed form (division by zero), so it
// branches to plain linear division; any remainder is left on the last
// installment's side (E*months may undershoot principal by < months units).
func Calculate(principal *big.Int, annualRateBps10000 int64, months int64) (*big.Int, error) {
	if principal == nil || principal.Sign() <= 0 {
		return nil, ErrNonPositivePrincipal
	}
	if annualRateBps10000 < 0 {
		return nil, ErrNegativeRate
	}
	if months < 1 {
		return nil, ErrInvalidMonths
	}
	if annualRateBps10000 == 0 {
		return new(big.Int).Quo(principal, big.NewInt(months)), nil
	}

	// monthly rate in ray
	r := new(big.Int).Mul(big.NewInt(annualRateBps10000), ray)
	r.Quo(r, big.NewInt(rateDivisor))

	pow := rayPow(new(big.Int).Add(ray, r), months)

	// E = principal * rayMul(r, pow) / (pow - ray)
	num := new(big.Int).Mul(principal, rayMul(r, pow))
	den := new(big.Int).Sub(pow, ray)
	return num.Quo(num, den), nil
}

// rayMul multiplies two ray-scaled values, truncating.
func rayMul(a, b *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Quo(out, ray)
}

// rayPow raises a ray-scaled base to an integer exponent by repeated
// squaring, truncating at each step like the contract's loop does.
func rayPow(base *big.Int, n int64) *big.Int {
	out := new(big.Int).Set(ray)
	b := new(big.Int).Set(base)
	for n > 0 {
		if n&1 == 1 {
			out = rayMul(out, b)
		}
		b = rayMul(b, b)
		n >>= 1
	}
	return out
}

// Estimate is the checkout preview: amounts in whole token units with the
// caller-facing percent rate (12.5 means 12.5% a year). It runs the same
// base-unit math as Calculate and converts for display only.
type Estimate struct {
	EMIAmount     decimal.Decimal `json:"emi_amount"`
	TotalPayable  decimal.Decimal `json:"total_payable"`
	TotalInterest decimal.Decimal `json:"total_interest"`
}

// TokenDecimals is the reference token's decimal count.
const TokenDecimals = 18

// EstimateMonthly previews the installment for a principal given in whole
// tokens. ratePercent is scaled x100 into the stored representation, the
// same normalization agreement creation applies.
func EstimateMonthly(amount decimal.Decimal, ratePercent decimal.Decimal, months int64) (*Estimate, error) {
	principal := amount.Shift(TokenDecimals).BigInt()
	rateBps := ratePercent.Mul(decimal.NewFromInt(100)).IntPart()

	e, err := Calculate(principal, rateBps, months)
	if err != nil {
		return nil, err
	}

	installment := decimal.NewFromBigInt(e, -TokenDecimals)
	total := installment.Mul(decimal.NewFromInt(months))
	return &Estimate{
		EMIAmount:     installment,
		TotalPayable:  total,
		TotalInterest: total.Sub(amount),
	}, nil
}
