package mysql

import (
	"context"
	"testing"

	paymentDomain "emipay-backend/internal/domain/payment"
	requestDomain "emipay-backend/internal/domain/request"
	"emipay-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&paymentDomain.Record{}, &requestDomain.PendingRequest{}, &WalletRow{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeRecord(borrowerID, lenderID string, agreementID uint64) *paymentDomain.Record {
	return &paymentDomain.Record{
		RecordID:    id.NewID32(),
		BorrowerID:  borrowerID,
		LenderID:    lenderID,
		AgreementID: agreementID,
		IsActive:    true,
	}
}

func TestPaymentRepository_CreateAndLookup(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	borrower, lender := id.NewID32(), id.NewID32()
	rec := makeRecord(borrower, lender, 7)
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetActiveByBorrowerID(ctx, borrower)
	if err != nil {
		t.Fatalf("GetActiveByBorrowerID: %v", err)
	}
	if got.AgreementID != 7 || got.LenderID != lender {
		t.Errorf("unexpected record: %+v", got)
	}

	byAgreement, err := repo.GetByAgreementID(ctx, 7)
	if err != nil {
		t.Fatalf("GetByAgreementID: %v", err)
	}
	if byAgreement.RecordID != rec.RecordID {
		t.Errorf("got %s, want %s", byAgreement.RecordID, rec.RecordID)
	}
}

func TestPaymentRepository_ActiveLookupSkipsClosed(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	borrower := id.NewID32()
	closed := makeRecord(borrower, id.NewID32(), 1)
	closed.IsActive = false
	if err := repo.Create(ctx, closed); err != nil {
		t.Fatalf("Create closed: %v", err)
	}

	if _, err := repo.GetActiveByBorrowerID(ctx, borrower); err != paymentDomain.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	open := makeRecord(borrower, id.NewID32(), 2)
	if err := repo.Create(ctx, open); err != nil {
		t.Fatalf("Create open: %v", err)
	}
	got, err := repo.GetActiveByBorrowerID(ctx, borrower)
	if err != nil {
		t.Fatalf("GetActiveByBorrowerID: %v", err)
	}
	if got.AgreementID != 2 {
		t.Errorf("agreement = %d, want 2", got.AgreementID)
	}
}

func TestPaymentRepository_HashHistoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	rec := makeRecord(id.NewID32(), id.NewID32(), 3)
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec.AppendHashes("0xaaa", "0xbbb")
	rec.IsActive = false
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByAgreementID(ctx, 3)
	if err != nil {
		t.Fatalf("GetByAgreementID: %v", err)
	}
	hashes := got.TransactionHashes()
	if len(hashes) != 2 || hashes[0] != "0xaaa" || hashes[1] != "0xbbb" {
		t.Errorf("hashes = %v", hashes)
	}
	if got.IsActive {
		t.Error("record still active after Save")
	}
}

func TestPaymentRepository_ListByParty(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	borrower, lender := id.NewID32(), id.NewID32()
	for i := uint64(0); i < 3; i++ {
		if err := repo.Create(ctx, makeRecord(borrower, lender, i)); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if err := repo.Create(ctx, makeRecord(id.NewID32(), id.NewID32(), 99)); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	byBorrower, err := repo.ListByBorrowerID(ctx, borrower)
	if err != nil {
		t.Fatalf("ListByBorrowerID: %v", err)
	}
	if len(byBorrower) != 3 {
		t.Errorf("borrower records = %d, want 3", len(byBorrower))
	}

	byLender, err := repo.ListByLenderID(ctx, lender)
	if err != nil {
		t.Fatalf("ListByLenderID: %v", err)
	}
	if len(byLender) != 3 {
		t.Errorf("lender records = %d, want 3", len(byLender))
	}

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 4 {
		t.Errorf("active records = %d, want 4", len(active))
	}
}
