package report

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"emipay-backend/internal/domain/ledger"
	"emipay-backend/internal/domain/payment"
	"emipay-backend/pkg/emi"
)

var ErrNoAgreements = errors.New("report: no agreements for party")

type Usecase struct {
	gw       ledger.Gateway
	payments payment.Repository
}

func NewUsecase(gw ledger.Gateway, payments payment.Repository) *Usecase {
	return &Usecase{gw: gw, payments: payments}
}

// BorrowerAgreement is one agreement as the borrower sees it: the mirror
// record joined with the current on-chain figures.
type BorrowerAgreement struct {
	AgreementID    uint64          `json:"agreement_id"`
	LenderID       string          `json:"lender_id"`
	IsActive       bool            `json:"is_active"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	EMIAmount      decimal.Decimal `json:"emi_amount"`
	InterestRate   float64         `json:"interest_rate"`
	Months         uint64          `json:"months"`
	RemainingEMIs  uint64          `json:"remaining_emis"`
	NextDueDate    *time.Time      `json:"next_due_date,omitempty"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
	TxHashes       []string        `json:"transaction_hashes"`
	// Error is set when the on-chain read for this one agreement failed;
	// the rest of the report is still served.
	Error string `json:"error,omitempty"`
}

type BorrowerReport struct {
	BorrowerID string              `json:"borrower_id"`
	Agreements []BorrowerAgreement `json:"agreements"`
}

// LenderAgreement is the lender-side view: amounts received so far and
// still owed across the agreement's schedule.
type LenderAgreement struct {
	AgreementID     uint64          `json:"agreement_id"`
	BorrowerID      string          `json:"borrower_id"`
	IsActive        bool            `json:"is_active"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	EMIAmount       decimal.Decimal `json:"emi_amount"`
	InterestRate    float64         `json:"interest_rate"`
	Months          uint64          `json:"months"`
	RemainingMonths uint64          `json:"remaining_months"`
	AmountReceived  decimal.Decimal `json:"amount_received"`
	AmountOwed      decimal.Decimal `json:"amount_owed"`
	TxHashes        []string        `json:"transaction_hashes"`
	Error           string          `json:"error,omitempty"`
}

type LenderReport struct {
	LenderID   string            `json:"lender_id"`
	Agreements []LenderAgreement `json:"agreements"`
}

// BorrowerDetails reports every agreement the borrower has ever entered,
// settled ones included. Reads only; safe to repeat.
func (u *Usecase) BorrowerDetails(ctx context.Context, borrowerID string) (*BorrowerReport, error) {
	records, err := u.payments.ListByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoAgreements
	}

	out := &BorrowerReport{BorrowerID: borrowerID}
	for _, rec := range records {
		out.Agreements = append(out.Agreements, u.borrowerAgreement(ctx, rec))
	}
	return out, nil
}

// LenderDetails reports every agreement the lender has funded.
func (u *Usecase) LenderDetails(ctx context.Context, lenderID string) (*LenderReport, error) {
	records, err := u.payments.ListByLenderID(ctx, lenderID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoAgreements
	}

	out := &LenderReport{LenderID: lenderID}
	for _, rec := range records {
		out.Agreements = append(out.Agreements, u.lenderAgreement(ctx, rec))
	}
	return out, nil
}

func (u *Usecase) borrowerAgreement(ctx context.Context, rec *payment.Record) BorrowerAgreement {
	item := BorrowerAgreement{
		AgreementID: rec.AgreementID,
		LenderID:    rec.LenderID,
		IsActive:    rec.IsActive,
		TxHashes:    rec.TransactionHashes(),
	}

	details, err := u.gw.GetAgreementDetails(ctx, rec.AgreementID)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.IsActive = details.IsActive
	item.TotalAmount = tokens(details.TotalAmount)
	item.EMIAmount = tokens(details.EMIAmount)
	item.InterestRate = float64(details.InterestRate) / 100
	item.Months = details.Months
	item.RemainingEMIs = details.RemainingEMIs()
	if details.IsActive {
		due := details.NextPaymentDue
		item.NextDueDate = &due
	}

	paid, err := u.gw.GetTotalAmountPaid(ctx, rec.AgreementID)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	remaining, err := u.gw.GetTotalAmountRemaining(ctx, rec.AgreementID)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.TotalPaid = tokens(paid)
	item.TotalRemaining = tokens(remaining)
	return item
}

func (u *Usecase) lenderAgreement(ctx context.Context, rec *payment.Record) LenderAgreement {
	item := LenderAgreement{
		AgreementID: rec.AgreementID,
		BorrowerID:  rec.BorrowerID,
		IsActive:    rec.IsActive,
		TxHashes:    rec.TransactionHashes(),
	}

	details, err := u.gw.GetAgreementDetails(ctx, rec.AgreementID)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.IsActive = details.IsActive
	item.TotalAmount = tokens(details.TotalAmount)
	item.EMIAmount = tokens(details.EMIAmount)
	item.InterestRate = float64(details.InterestRate) / 100
	item.Months = details.Months

	months, err := u.gw.GetLenderRemainingMonths(ctx, rec.AgreementID)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	received, err := u.gw.GetLenderTotalAmountPaid(ctx, rec.AgreementID)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	owed, err := u.gw.GetLenderTotalAmountRemaining(ctx, rec.AgreementID)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.RemainingMonths = months
	item.AmountReceived = tokens(received)
	item.AmountOwed = tokens(owed)
	return item
}

func tokens(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -emi.TokenDecimals)
}
