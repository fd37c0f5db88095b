package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"emipay-backend/internal/domain/identity"
	"emipay-backend/internal/domain/ledger"
	"emipay-backend/internal/domain/payment"
	"emipay-backend/pkg/emi"
	"emipay-backend/pkg/lock"
)

var (
	ErrNoActiveAgreement = errors.New("payment: no active agreement for borrower")
	// ErrAttemptInFlight rejects a second concurrent attempt on the same
	// agreement instead of queueing it behind a mutation.
	ErrAttemptInFlight = errors.New("payment: another attempt is in progress for this agreement")
)

// NotDueError rejects a payment submitted before nextDueDate - DueGrace.
type NotDueError struct {
	NextDue time.Time
}

func (e *NotDueError) Error() string {
	return fmt.Sprintf("payment not due until %s", e.NextDue.Format(time.RFC3339))
}

type Usecase struct {
	gw       ledger.Gateway
	ids      identity.Provider
	payments payment.Repository
	locks    *lock.Keyed
	now      func() time.Time
}

func NewUsecase(gw ledger.Gateway, ids identity.Provider, payments payment.Repository) *Usecase {
	return &Usecase{
		gw:       gw,
		ids:      ids,
		payments: payments,
		locks:    lock.NewKeyed(),
		now:      time.Now,
	}
}

// WithNow overrides the clock. Test hook.
func (u *Usecase) WithNow(now func() time.Time) *Usecase {
	u.now = now
	return u
}

type Receipt struct {
	AgreementID    uint64          `json:"agreement_id"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	RemainingEMIs  uint64          `json:"remaining_emis"`
	NextDueDate    time.Time       `json:"next_due_date"`
	TransferTxHash string          `json:"transfer_tx_hash"`
	PaymentTxHash  string          `json:"payment_tx_hash"`
	Completed      bool            `json:"completed"`
}

// PayEMI settles the borrower's next installment: due-check, allowance
// top-up, peer transfer to the lender, on-chain payment record, mirror
// update. At most one attempt per agreement runs at a time; the whole
// mutation sequence happens under that agreement's lease.
func (u *Usecase) PayEMI(ctx context.Context, borrowerID string) (*Receipt, error) {
	rec, err := u.payments.GetActiveByBorrowerID(ctx, borrowerID)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			return nil, ErrNoActiveAgreement
		}
		return nil, err
	}
	return u.pay(ctx, rec)
}

// PayAgreement settles one installment on a specific agreement. The keeper
// goes through here so a borrower holding several active agreements has
// each one swept, not just the newest.
func (u *Usecase) PayAgreement(ctx context.Context, agreementID uint64) (*Receipt, error) {
	rec, err := u.payments.GetByAgreementID(ctx, agreementID)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			return nil, ErrNoActiveAgreement
		}
		return nil, err
	}
	if !rec.IsActive {
		return nil, ErrNoActiveAgreement
	}
	return u.pay(ctx, rec)
}

func (u *Usecase) pay(ctx context.Context, rec *payment.Record) (*Receipt, error) {
	borrower, err := u.ids.Resolve(ctx, rec.BorrowerID)
	if err != nil {
		return nil, err
	}
	if !borrower.CanSign() {
		return nil, identity.ErrNotFound
	}

	release, ok := u.locks.TryAcquire(lockKey(rec.AgreementID))
	if !ok {
		return nil, ErrAttemptInFlight
	}
	defer release()

	nextDue, installment, agreement, remaining, err := u.readAgreement(ctx, rec.AgreementID)
	if err != nil {
		return nil, err
	}
	if !agreement.IsActive {
		return nil, ErrNoActiveAgreement
	}

	// a touch early is fine (clock/mining skew), arbitrarily early is not
	if !u.now().After(nextDue.Add(-ledger.DueGrace)) {
		return nil, &NotDueError{NextDue: nextDue}
	}

	if err := u.ensureAllowance(ctx, borrower, installment, remaining); err != nil {
		return nil, err
	}

	transferRes, err := u.gw.Transfer(ctx, borrower, agreement.Lender, installment)
	if err != nil {
		return nil, err
	}

	paymentRes, err := u.gw.RecordPayment(ctx, borrower, rec.AgreementID)
	if err != nil {
		// installment already reached the lender; do not mask that
		log.Printf("payment: transfer %s committed but recordPayment failed for agreement %d: %v",
			transferRes.Hash, rec.AgreementID, err)
		return nil, err
	}

	remainingAfter, err := u.gw.GetRemainingEMIs(ctx, rec.AgreementID)
	if err != nil {
		// payment is recorded on-chain; fall back to the local count
		log.Printf("payment: consistency: re-read failed for agreement %d, deriving locally: %v",
			rec.AgreementID, err)
		remainingAfter = remaining - 1
	}

	rec.AppendHashes(transferRes.Hash, paymentRes.Hash)
	rec.IsActive = remainingAfter > 0
	if err := u.payments.Save(ctx, rec); err != nil {
		// on-chain is authoritative; the mirror reconciles on next read
		log.Printf("payment: consistency: mirror update failed for agreement %d: %v",
			rec.AgreementID, err)
	}

	return &Receipt{
		AgreementID:    rec.AgreementID,
		AmountPaid:     decimal.NewFromBigInt(installment, -emi.TokenDecimals),
		RemainingEMIs:  remainingAfter,
		NextDueDate:    nextDue.Add(ledger.Period),
		TransferTxHash: transferRes.Hash,
		PaymentTxHash:  paymentRes.Hash,
		Completed:      remainingAfter == 0,
	}, nil
}

// readAgreement issues the four ledger reads concurrently; they have no
// ordering dependency.
func (u *Usecase) readAgreement(ctx context.Context, agreementID uint64) (time.Time, *big.Int, *ledger.Agreement, uint64, error) {
	var (
		wg          sync.WaitGroup
		nextDue     time.Time
		installment *big.Int
		agreement   *ledger.Agreement
		remaining   uint64

		dueErr, emiErr, detErr, remErr error
	)
	wg.Add(4)
	go func() { defer wg.Done(); nextDue, dueErr = u.gw.GetNextDueDate(ctx, agreementID) }()
	go func() { defer wg.Done(); installment, emiErr = u.gw.GetCurrentEMIAmount(ctx, agreementID) }()
	go func() { defer wg.Done(); agreement, detErr = u.gw.GetAgreementDetails(ctx, agreementID) }()
	go func() { defer wg.Done(); remaining, remErr = u.gw.GetRemainingEMIs(ctx, agreementID) }()
	wg.Wait()

	for _, err := range []error{dueErr, emiErr, detErr, remErr} {
		if err != nil {
			return time.Time{}, nil, nil, 0, err
		}
	}
	return nextDue, installment, agreement, remaining, nil
}

// ensureAllowance tops the borrower's allowance up to cover every remaining
// installment plus one base unit of rounding headroom.
func (u *Usecase) ensureAllowance(ctx context.Context, borrower *identity.Wallet, installment *big.Int, remaining uint64) error {
	spender := u.gw.SpenderAddress()
	required := new(big.Int).Mul(installment, new(big.Int).SetUint64(remaining))
	required.Add(required, big.NewInt(1))

	current, err := u.gw.Allowance(ctx, borrower.Address, spender)
	if err != nil {
		return err
	}
	if current.Cmp(required) >= 0 {
		return nil
	}
	_, err = u.gw.Approve(ctx, borrower, spender, required)
	return err
}

func lockKey(agreementID uint64) string {
	return fmt.Sprintf("agreement:%d", agreementID)
}
