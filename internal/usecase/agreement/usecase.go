package agreement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"emipay-backend/internal/domain/identity"
	"emipay-backend/internal/domain/ledger"
	"emipay-backend/internal/domain/payment"
	"emipay-backend/internal/domain/request"
	"emipay-backend/pkg/emi"
	"emipay-backend/pkg/id"
)

var ErrInvalidInput = errors.New("agreement: all fields are required")

// CreationError marks a failure in the multi-step creation flow. Steps
// already committed on-chain (a completed principal transfer, say) are NOT
// rolled back; Step names how far we got.
type CreationError struct {
	Step string
	Err  error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("agreement creation failed at %s: %v", e.Step, e.Err)
}
func (e *CreationError) Unwrap() error { return e.Err }

type Usecase struct {
	gw       ledger.Gateway
	ids      identity.Provider
	payments payment.Repository
	requests request.Repository
	token    common.Address
	now      func() time.Time
}

func NewUsecase(gw ledger.Gateway, ids identity.Provider, payments payment.Repository, requests request.Repository, token common.Address) *Usecase {
	return &Usecase{
		gw:       gw,
		ids:      ids,
		payments: payments,
		requests: requests,
		token:    token,
		now:      time.Now,
	}
}

// WithNow overrides the clock. Test hook.
func (u *Usecase) WithNow(now func() time.Time) *Usecase {
	u.now = now
	return u
}

type InitiateInput struct {
	LenderID      string  `json:"lender_id"`
	BorrowerID    string  `json:"borrower_id"`
	SellerAddress string  `json:"seller_address"`
	TotalAmount   float64 `json:"total_amount"`   // whole tokens
	InterestRate  float64 `json:"interest_rate"`  // percent, e.g. 12 = 12% a year
	Months        uint64  `json:"months"`
	RequestID     string  `json:"request_id,omitempty"` // pending request to claim
}

type AgreementDTO struct {
	AgreementID    uint64          `json:"agreement_id"`
	Lender         string          `json:"lender"`
	Borrower       string          `json:"borrower"`
	Token          string          `json:"token"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	EMIAmount      decimal.Decimal `json:"emi_amount"`
	InterestRate   float64         `json:"interest_rate"`
	Months         uint64          `json:"months"`
	StartTime      time.Time       `json:"start_time"`
	TransferTxHash string          `json:"transfer_tx_hash"`
	CreateTxHash   string          `json:"create_tx_hash"`
}

// Initiate runs the creation flow: principal disbursement to the seller,
// on-chain agreement record, off-chain mirror, pending-request claim.
// Each mutation is final before the next begins.
func (u *Usecase) Initiate(ctx context.Context, in InitiateInput) (*AgreementDTO, error) {
	if in.LenderID == "" || in.BorrowerID == "" || in.SellerAddress == "" ||
		in.TotalAmount <= 0 || in.InterestRate <= 0 || in.Months < 1 {
		return nil, ErrInvalidInput
	}

	lender, err := u.ids.Resolve(ctx, in.LenderID)
	if err != nil {
		return nil, err
	}
	if !lender.CanSign() {
		return nil, identity.ErrNotFound
	}
	borrower, err := u.ids.Resolve(ctx, in.BorrowerID)
	if err != nil {
		return nil, err
	}

	principal := decimal.NewFromFloat(in.TotalAmount).Shift(emi.TokenDecimals).BigInt()
	rateBps := decimal.NewFromFloat(in.InterestRate).Mul(decimal.NewFromInt(100)).IntPart()
	seller := common.HexToAddress(in.SellerAddress)
	startTime := u.now().UTC().Add(ledger.StartGrace).Truncate(time.Second)

	// principal disbursement precondition
	balance, err := u.gw.BalanceOf(ctx, lender.Address)
	if err != nil {
		return nil, &CreationError{Step: "balance check", Err: err}
	}
	if balance.Cmp(principal) < 0 {
		return nil, &CreationError{Step: "balance check",
			Err: fmt.Errorf("lender balance %s below principal %s", balance, principal)}
	}

	transferRes, err := u.gw.Transfer(ctx, lender, seller, principal)
	if err != nil {
		return nil, &CreationError{Step: "principal transfer", Err: err}
	}

	agreementID, createRes, err := u.gw.CreateAgreement(ctx, lender, ledger.CreateParams{
		Lender:       lender.Address,
		Borrower:     borrower.Address,
		Token:        u.token,
		TotalAmount:  principal,
		InterestRate: rateBps,
		Months:       in.Months,
		StartTime:    startTime,
	})
	if err != nil {
		// principal already left the lender; surface, never hide
		log.Printf("agreement: principal transfer %s committed but creation failed: %v",
			transferRes.Hash, err)
		return nil, &CreationError{Step: "agreement record", Err: err}
	}

	rec := &payment.Record{
		RecordID:    id.NewID32(),
		BorrowerID:  in.BorrowerID,
		LenderID:    in.LenderID,
		AgreementID: agreementID,
		IsActive:    true,
	}
	if err := u.payments.Create(ctx, rec); err != nil {
		log.Printf("agreement %d: on-chain record exists but mirror create failed: %v", agreementID, err)
		return nil, &CreationError{Step: "mirror record", Err: err}
	}

	if in.RequestID != "" {
		if err := u.claimRequest(ctx, in.RequestID, in.LenderID, agreementID); err != nil {
			// agreement is live either way; the request just stays open
			log.Printf("agreement %d: claiming request %s failed: %v", agreementID, in.RequestID, err)
		}
	}

	installment := installmentFor(principal, rateBps, in.Months)
	return &AgreementDTO{
		AgreementID:    agreementID,
		Lender:         lender.Address.Hex(),
		Borrower:       borrower.Address.Hex(),
		Token:          u.token.Hex(),
		TotalAmount:    decimal.NewFromBigInt(principal, -emi.TokenDecimals),
		EMIAmount:      installment,
		InterestRate:   in.InterestRate,
		Months:         in.Months,
		StartTime:      startTime,
		TransferTxHash: transferRes.Hash,
		CreateTxHash:   createRes.Hash,
	}, nil
}

func (u *Usecase) claimRequest(ctx context.Context, requestID, lenderID string, agreementID uint64) error {
	req, err := u.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.IsClaimed {
		return request.ErrAlreadyClaimed
	}
	req.IsClaimed = true
	req.LenderID = lenderID
	req.AgreementID = &agreementID
	return u.requests.Save(ctx, req)
}

// installmentFor previews the same EMI the ledger freezes on the agreement.
func installmentFor(principal *big.Int, rateBps int64, months uint64) decimal.Decimal {
	e, err := emi.Calculate(principal, rateBps, int64(months))
	if err != nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(e, -emi.TokenDecimals)
}
