package memory

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"emipay-backend/internal/domain/identity"
	"emipay-backend/internal/domain/ledger"
)

var spender = common.HexToAddress("0x00000000000000000000000000000000000000ee")

func newWallet(t *testing.T) *identity.Wallet {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return &identity.Wallet{Address: crypto.PubkeyToAddress(key.PublicKey), Key: key}
}

func tokens(n int64) *big.Int {
	out := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return out.Mul(out, big.NewInt(n))
}

func createTestAgreement(t *testing.T, l *Ledger, lender, borrower *identity.Wallet, months uint64) uint64 {
	t.Helper()
	aid, _, err := l.CreateAgreement(context.Background(), lender, ledger.CreateParams{
		Lender:       lender.Address,
		Borrower:     borrower.Address,
		Token:        common.HexToAddress("0x01"),
		TotalAmount:  tokens(1000),
		InterestRate: 1200,
		Months:       months,
		StartTime:    time.Now().UTC().Add(ledger.StartGrace),
	})
	if err != nil {
		t.Fatalf("CreateAgreement: %v", err)
	}
	return aid
}

func TestCreateAgreement_InitialState(t *testing.T) {
	l := New(spender)
	lender, borrower := newWallet(t), newWallet(t)
	start := time.Now().UTC().Add(ledger.StartGrace)

	aid, _, err := l.CreateAgreement(context.Background(), lender, ledger.CreateParams{
		Lender: lender.Address, Borrower: borrower.Address,
		Token:       common.HexToAddress("0x01"),
		TotalAmount: tokens(1000), InterestRate: 1200, Months: 12, StartTime: start,
	})
	if err != nil {
		t.Fatalf("CreateAgreement: %v", err)
	}
	if aid != 0 {
		t.Errorf("first agreement id = %d, want 0", aid)
	}

	a, err := l.GetAgreementDetails(context.Background(), aid)
	if err != nil {
		t.Fatalf("GetAgreementDetails: %v", err)
	}
	if !a.IsActive || a.PaymentsMade != 0 {
		t.Errorf("fresh agreement: active=%v paymentsMade=%d", a.IsActive, a.PaymentsMade)
	}
	if !a.NextPaymentDue.Equal(start) {
		t.Errorf("nextPaymentDue = %v, want startTime %v", a.NextPaymentDue, start)
	}
	if a.EMIAmount.Sign() <= 0 {
		t.Errorf("EMIAmount = %s", a.EMIAmount)
	}
}

func TestCreateAgreement_RejectsBadInputs(t *testing.T) {
	l := New(spender)
	lender, borrower := newWallet(t), newWallet(t)
	base := ledger.CreateParams{
		Lender: lender.Address, Borrower: borrower.Address,
		Token:       common.HexToAddress("0x01"),
		TotalAmount: tokens(1000), InterestRate: 1200, Months: 12,
		StartTime: time.Now().UTC(),
	}

	p := base
	p.TotalAmount = big.NewInt(0)
	if _, _, err := l.CreateAgreement(context.Background(), lender, p); !ledger.IsRevert(err) {
		t.Errorf("zero principal: err = %v, want revert", err)
	}

	p = base
	p.Months = 0
	if _, _, err := l.CreateAgreement(context.Background(), lender, p); !ledger.IsRevert(err) {
		t.Errorf("zero months: err = %v, want revert", err)
	}
}

func TestRecordPayment_FullLifecycle(t *testing.T) {
	l := New(spender)
	lender, borrower := newWallet(t), newWallet(t)
	aid := createTestAgreement(t, l, lender, borrower, 3)
	ctx := context.Background()

	first, _ := l.GetNextDueDate(ctx, aid)
	for i := uint64(1); i <= 3; i++ {
		if _, err := l.RecordPayment(ctx, borrower, aid); err != nil {
			t.Fatalf("RecordPayment %d: %v", i, err)
		}
		rem, _ := l.GetRemainingEMIs(ctx, aid)
		if rem != 3-i {
			t.Errorf("after payment %d: remaining = %d, want %d", i, rem, 3-i)
		}
		due, _ := l.GetNextDueDate(ctx, aid)
		if want := first.Add(time.Duration(i) * ledger.Period); !due.Equal(want) {
			t.Errorf("after payment %d: due = %v, want %v", i, due, want)
		}
		a, _ := l.GetAgreementDetails(ctx, aid)
		if a.RemainingEMIs()+a.PaymentsMade != a.Months {
			t.Errorf("invariant broken: remaining %d + made %d != months %d",
				a.RemainingEMIs(), a.PaymentsMade, a.Months)
		}
		if a.IsActive != (i < 3) {
			t.Errorf("after payment %d: isActive = %v", i, a.IsActive)
		}
	}

	remaining, _ := l.GetTotalAmountRemaining(ctx, aid)
	if remaining.Sign() != 0 {
		t.Errorf("total remaining after completion = %s, want 0", remaining)
	}

	// terminal: a fourth payment must fail, not silently advance
	if _, err := l.RecordPayment(ctx, borrower, aid); err != ledger.ErrNoActiveAgreement {
		t.Fatalf("payment past completion: err = %v, want ErrNoActiveAgreement", err)
	}
	a, _ := l.GetAgreementDetails(ctx, aid)
	if a.PaymentsMade != 3 {
		t.Errorf("paymentsMade advanced past months: %d", a.PaymentsMade)
	}
}

func TestPaidAndRemainingTotals(t *testing.T) {
	l := New(spender)
	lender, borrower := newWallet(t), newWallet(t)
	aid := createTestAgreement(t, l, lender, borrower, 12)
	ctx := context.Background()

	a, _ := l.GetAgreementDetails(ctx, aid)
	if _, err := l.RecordPayment(ctx, borrower, aid); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	paid, _ := l.GetTotalAmountPaid(ctx, aid)
	if paid.Cmp(a.EMIAmount) != 0 {
		t.Errorf("paid = %s, want one installment %s", paid, a.EMIAmount)
	}
	rem, _ := l.GetTotalAmountRemaining(ctx, aid)
	want := new(big.Int).Mul(a.EMIAmount, big.NewInt(11))
	if rem.Cmp(want) != 0 {
		t.Errorf("remaining = %s, want %s", rem, want)
	}

	// lender views mirror borrower figures
	lp, _ := l.GetLenderTotalAmountPaid(ctx, aid)
	if lp.Cmp(paid) != 0 {
		t.Errorf("lender paid = %s, want %s", lp, paid)
	}
	lm, _ := l.GetLenderRemainingMonths(ctx, aid)
	if lm != 11 {
		t.Errorf("lender remaining months = %d, want 11", lm)
	}
}

func TestReads_UnknownAgreement(t *testing.T) {
	l := New(spender)
	if _, err := l.GetAgreementDetails(context.Background(), 7); err != ledger.ErrAgreementNotFound {
		t.Errorf("details: err = %v", err)
	}
	if _, err := l.GetRemainingEMIs(context.Background(), 7); err != ledger.ErrAgreementNotFound {
		t.Errorf("remaining: err = %v", err)
	}
	w := newWallet(t)
	if _, err := l.RecordPayment(context.Background(), w, 7); err != ledger.ErrAgreementNotFound {
		t.Errorf("recordPayment: err = %v", err)
	}
}

func TestTransferAndAllowance(t *testing.T) {
	l := New(spender)
	a, b := newWallet(t), newWallet(t)
	ctx := context.Background()
	l.Mint(a.Address, tokens(100))

	if _, err := l.Transfer(ctx, a, b.Address, tokens(40)); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	ba, _ := l.BalanceOf(ctx, a.Address)
	bb, _ := l.BalanceOf(ctx, b.Address)
	if ba.Cmp(tokens(60)) != 0 || bb.Cmp(tokens(40)) != 0 {
		t.Errorf("balances = %s / %s", ba, bb)
	}

	if _, err := l.Transfer(ctx, b, a.Address, tokens(41)); !ledger.IsRevert(err) {
		t.Errorf("overdraw: err = %v, want revert", err)
	}

	if _, err := l.Approve(ctx, a, spender, tokens(5)); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	al, _ := l.Allowance(ctx, a.Address, spender)
	if al.Cmp(tokens(5)) != 0 {
		t.Errorf("allowance = %s", al)
	}

	// wallet without a key cannot author mutations
	readOnly := &identity.Wallet{Address: b.Address}
	if _, err := l.Transfer(ctx, readOnly, a.Address, tokens(1)); !ledger.IsRevert(err) {
		t.Errorf("keyless transfer: err = %v, want revert", err)
	}
}
