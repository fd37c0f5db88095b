package report

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"emipay-backend/internal/domain/ledger"
	paymentDomain "emipay-backend/internal/domain/payment"
	"emipay-backend/internal/testutil/ledgermock"
	"emipay-backend/internal/testutil/paymentmock"
)

func tokensOf(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func agreementOnChain(id uint64, active bool, paymentsMade uint64) *ledger.Agreement {
	return &ledger.Agreement{
		ID:             id,
		Lender:         common.HexToAddress("0xaa"),
		Borrower:       common.HexToAddress("0xbb"),
		TotalAmount:    tokensOf(1000),
		EMIAmount:      big.NewInt(88_849_624_064_405_833),
		InterestRate:   1200,
		Months:         12,
		NextPaymentDue: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
		PaymentsMade:   paymentsMade,
		IsActive:       active,
	}
}

func TestBorrowerDetails(t *testing.T) {
	repo := &paymentmock.Repo{
		ListByBorrowerIDFn: func(ctx context.Context, borrowerID string) ([]*paymentDomain.Record, error) {
			return []*paymentDomain.Record{
				{RecordID: "r1", BorrowerID: borrowerID, LenderID: "lender-1", AgreementID: 1, IsActive: true, TxHashes: "0xa,0xb"},
				{RecordID: "r2", BorrowerID: borrowerID, LenderID: "lender-2", AgreementID: 2, IsActive: false},
			}, nil
		},
	}
	gw := &ledgermock.Gateway{
		GetAgreementDetailsFn: func(ctx context.Context, id uint64) (*ledger.Agreement, error) {
			if id == 1 {
				return agreementOnChain(1, true, 3), nil
			}
			return agreementOnChain(2, false, 12), nil
		},
		GetTotalAmountPaidFn: func(ctx context.Context, id uint64) (*big.Int, error) {
			return tokensOf(266), nil
		},
		GetTotalAmountRemainingFn: func(ctx context.Context, id uint64) (*big.Int, error) {
			return tokensOf(800), nil
		},
	}

	rep, err := NewUsecase(gw, repo).BorrowerDetails(context.Background(), "borrower-1")
	if err != nil {
		t.Fatalf("BorrowerDetails: %v", err)
	}
	if len(rep.Agreements) != 2 {
		t.Fatalf("agreements = %d, want 2", len(rep.Agreements))
	}

	active := rep.Agreements[0]
	if active.Error != "" {
		t.Fatalf("unexpected item error %q", active.Error)
	}
	if active.RemainingEMIs != 9 {
		t.Errorf("remaining = %d, want 9", active.RemainingEMIs)
	}
	if active.NextDueDate == nil {
		t.Error("active agreement missing next due date")
	}
	if active.InterestRate != 12 {
		t.Errorf("rate = %v, want 12", active.InterestRate)
	}
	if got := active.TotalPaid.String(); got != "266" {
		t.Errorf("paid = %s", got)
	}
	if len(active.TxHashes) != 2 {
		t.Errorf("hashes = %v", active.TxHashes)
	}

	settled := rep.Agreements[1]
	if settled.IsActive {
		t.Error("settled agreement reported active")
	}
	if settled.NextDueDate != nil {
		t.Error("settled agreement has a next due date")
	}
}

func TestBorrowerDetailsPartialFailure(t *testing.T) {
	repo := &paymentmock.Repo{
		ListByBorrowerIDFn: func(ctx context.Context, borrowerID string) ([]*paymentDomain.Record, error) {
			return []*paymentDomain.Record{
				{RecordID: "r1", BorrowerID: borrowerID, AgreementID: 1, IsActive: true},
				{RecordID: "r2", BorrowerID: borrowerID, AgreementID: 2, IsActive: true},
			}, nil
		},
	}
	gw := &ledgermock.Gateway{
		GetAgreementDetailsFn: func(ctx context.Context, id uint64) (*ledger.Agreement, error) {
			if id == 2 {
				return nil, &ledger.NetworkError{Op: "getAgreementDetails", Err: errors.New("connection refused")}
			}
			return agreementOnChain(1, true, 0), nil
		},
		GetTotalAmountPaidFn: func(ctx context.Context, id uint64) (*big.Int, error) {
			return big.NewInt(0), nil
		},
		GetTotalAmountRemainingFn: func(ctx context.Context, id uint64) (*big.Int, error) {
			return tokensOf(1066), nil
		},
	}

	rep, err := NewUsecase(gw, repo).BorrowerDetails(context.Background(), "borrower-1")
	if err != nil {
		t.Fatalf("BorrowerDetails with one bad item: %v", err)
	}
	if rep.Agreements[0].Error != "" {
		t.Errorf("healthy item carries error %q", rep.Agreements[0].Error)
	}
	if rep.Agreements[1].Error == "" {
		t.Error("failed item carries no error")
	}
	if rep.Agreements[1].AgreementID != 2 {
		t.Errorf("failed item id = %d", rep.Agreements[1].AgreementID)
	}
}

func TestLenderDetails(t *testing.T) {
	repo := &paymentmock.Repo{
		ListByLenderIDFn: func(ctx context.Context, lenderID string) ([]*paymentDomain.Record, error) {
			return []*paymentDomain.Record{
				{RecordID: "r1", BorrowerID: "borrower-1", LenderID: lenderID, AgreementID: 1, IsActive: true},
			}, nil
		},
	}
	gw := &ledgermock.Gateway{
		GetAgreementDetailsFn: func(ctx context.Context, id uint64) (*ledger.Agreement, error) {
			return agreementOnChain(1, true, 4), nil
		},
		GetLenderRemainingMonthsFn: func(ctx context.Context, id uint64) (uint64, error) {
			return 8, nil
		},
		GetLenderTotalAmountPaidFn: func(ctx context.Context, id uint64) (*big.Int, error) {
			return tokensOf(355), nil
		},
		GetLenderTotalAmountRemainingFn: func(ctx context.Context, id uint64) (*big.Int, error) {
			return tokensOf(711), nil
		},
	}

	rep, err := NewUsecase(gw, repo).LenderDetails(context.Background(), "lender-1")
	if err != nil {
		t.Fatalf("LenderDetails: %v", err)
	}
	if len(rep.Agreements) != 1 {
		t.Fatalf("agreements = %d", len(rep.Agreements))
	}
	item := rep.Agreements[0]
	if item.BorrowerID != "borrower-1" || item.RemainingMonths != 8 {
		t.Errorf("item = %+v", item)
	}
	if got := item.AmountReceived.String(); got != "355" {
		t.Errorf("received = %s", got)
	}
	if got := item.AmountOwed.String(); got != "711" {
		t.Errorf("owed = %s", got)
	}
}

func TestDetailsNoAgreements(t *testing.T) {
	repo := &paymentmock.Repo{}
	uc := NewUsecase(&ledgermock.Gateway{}, repo)

	if _, err := uc.BorrowerDetails(context.Background(), "nobody"); !errors.Is(err, ErrNoAgreements) {
		t.Errorf("borrower err = %v, want ErrNoAgreements", err)
	}
	if _, err := uc.LenderDetails(context.Background(), "nobody"); !errors.Is(err, ErrNoAgreements) {
		t.Errorf("lender err = %v, want ErrNoAgreements", err)
	}
}
