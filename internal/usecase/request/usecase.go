package request

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"emipay-backend/internal/domain/request"
	"emipay-backend/pkg/emi"
	"emipay-backend/pkg/id"
)

var ErrInvalidInput = errors.New("request: item, amount, rate and months are required")

type Usecase struct {
	requests request.Repository
}

func NewUsecase(requests request.Repository) *Usecase {
	return &Usecase{requests: requests}
}

type CreateInput struct {
	BorrowerID   string  `json:"borrower_id"`
	Item         string  `json:"item"`
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	Months       uint64  `json:"months"`
	BuyerWallet  string  `json:"buyer_wallet_address,omitempty"`
}

type RequestDTO struct {
	*request.PendingRequest
	EstimatedEMI decimal.Decimal `json:"estimated_emi"`
}

// Create registers a borrower's purchase request for lenders to browse.
// A borrower keeps at most one unclaimed request open at a time.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*RequestDTO, error) {
	if in.BorrowerID == "" || in.Item == "" || in.Amount <= 0 || in.InterestRate <= 0 || in.Months < 1 {
		return nil, ErrInvalidInput
	}

	if _, err := u.requests.GetUnclaimedByBorrowerID(ctx, in.BorrowerID); err == nil {
		return nil, request.ErrAlreadyPending
	} else if !errors.Is(err, request.ErrNotFound) {
		return nil, err
	}

	req := &request.PendingRequest{
		RequestID:    id.NewID32(),
		BorrowerID:   in.BorrowerID,
		Item:         in.Item,
		Amount:       in.Amount,
		InterestRate: in.InterestRate,
		Months:       in.Months,
		BuyerWallet:  in.BuyerWallet,
	}
	if err := u.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return u.decorate(req), nil
}

func (u *Usecase) Get(ctx context.Context, requestID string) (*RequestDTO, error) {
	req, err := u.requests.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return u.decorate(req), nil
}

// List returns requests for the lender marketplace view; claimed filters
// by claim state when non-nil.
func (u *Usecase) List(ctx context.Context, claimed *bool) ([]*RequestDTO, error) {
	reqs, err := u.requests.List(ctx, claimed)
	if err != nil {
		return nil, err
	}
	out := make([]*RequestDTO, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, u.decorate(req))
	}
	return out, nil
}

// decorate attaches the monthly-installment preview lenders compare
// requests by.
func (u *Usecase) decorate(req *request.PendingRequest) *RequestDTO {
	dto := &RequestDTO{PendingRequest: req}
	est, err := emi.EstimateMonthly(
		decimal.NewFromFloat(req.Amount),
		decimal.NewFromFloat(req.InterestRate),
		int64(req.Months),
	)
	if err == nil {
		dto.EstimatedEMI = est.EMIAmount
	}
	return dto
}
