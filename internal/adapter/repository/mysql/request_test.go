package mysql

import (
	"context"
	"testing"

	requestDomain "emipay-backend/internal/domain/request"
	"emipay-backend/pkg/id"
)

func makeRequest(borrowerID string) *requestDomain.PendingRequest {
	return &requestDomain.PendingRequest{
		RequestID:    id.NewID32(),
		BorrowerID:   borrowerID,
		Item:         "laptop",
		Amount:       1000,
		InterestRate: 12,
		Months:       12,
		BuyerWallet:  "0x1111111111111111111111111111111111111111",
	}
}

func TestRequestRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	req := makeRequest(id.NewID32())
	if err := repo.Create(ctx, req); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByRequestID(ctx, req.RequestID)
	if err != nil {
		t.Fatalf("GetByRequestID: %v", err)
	}
	if got.Item != "laptop" || got.IsClaimed {
		t.Errorf("unexpected request: %+v", got)
	}

	if _, err := repo.GetByRequestID(ctx, id.NewID32()); err != requestDomain.ErrNotFound {
		t.Errorf("unknown id: err = %v", err)
	}
}

func TestRequestRepository_UnclaimedLookup(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	borrower := id.NewID32()
	if _, err := repo.GetUnclaimedByBorrowerID(ctx, borrower); err != requestDomain.ErrNotFound {
		t.Fatalf("empty table: err = %v", err)
	}

	req := makeRequest(borrower)
	if err := repo.Create(ctx, req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetUnclaimedByBorrowerID(ctx, borrower)
	if err != nil {
		t.Fatalf("GetUnclaimedByBorrowerID: %v", err)
	}
	if got.RequestID != req.RequestID {
		t.Errorf("got %s", got.RequestID)
	}

	aid := uint64(4)
	got.IsClaimed = true
	got.LenderID = id.NewID32()
	got.AgreementID = &aid
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := repo.GetUnclaimedByBorrowerID(ctx, borrower); err != requestDomain.ErrNotFound {
		t.Errorf("claimed request still returned: err = %v", err)
	}
}

func TestRequestRepository_ListFilter(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	open := makeRequest(id.NewID32())
	if err := repo.Create(ctx, open); err != nil {
		t.Fatalf("Create: %v", err)
	}
	claimed := makeRequest(id.NewID32())
	claimed.IsClaimed = true
	if err := repo.Create(ctx, claimed); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}

	f := false
	unclaimed, err := repo.List(ctx, &f)
	if err != nil {
		t.Fatalf("List unclaimed: %v", err)
	}
	if len(unclaimed) != 1 || unclaimed[0].RequestID != open.RequestID {
		t.Errorf("unclaimed = %+v", unclaimed)
	}
}
