package keeper

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	paymentDomain "emipay-backend/internal/domain/payment"
	paymentUC "emipay-backend/internal/usecase/payment"
)

// Payer is the slice of the payment usecase the keeper drives. Sweeping is
// keyed by agreement id: a borrower with several active agreements gets
// each of them attempted.
type Payer interface {
	PayAgreement(ctx context.Context, agreementID uint64) (*paymentUC.Receipt, error)
}

// Keeper sweeps active agreements on a schedule and settles any installment
// that has come due. Borrowers can still pay by hand; the keeper just makes
// sure nobody falls behind by forgetting.
type Keeper struct {
	payer    Payer
	payments paymentDomain.Repository
	cron     *cron.Cron
	timeout  time.Duration
}

func New(payer Payer, payments paymentDomain.Repository) *Keeper {
	return &Keeper{
		payer:    payer,
		payments: payments,
		cron:     cron.New(),
		timeout:  5 * time.Minute,
	}
}

// Start registers the sweep on the given cron schedule and launches the
// scheduler. Stop with Stop.
func (k *Keeper) Start(schedule string) error {
	if _, err := k.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
		defer cancel()
		k.Sweep(ctx)
	}); err != nil {
		return err
	}
	k.cron.Start()
	log.Printf("keeper: sweeping on schedule %q", schedule)
	return nil
}

func (k *Keeper) Stop() {
	<-k.cron.Stop().Done()
}

// Sweep attempts one installment per active agreement. Not-due and
// in-flight answers are the common case and not worth more than a debug
// line; real failures are logged and the sweep moves on.
func (k *Keeper) Sweep(ctx context.Context) (settled int) {
	records, err := k.payments.ListActive(ctx)
	if err != nil {
		log.Printf("keeper: listing active agreements: %v", err)
		return 0
	}

	for _, rec := range records {
		if ctx.Err() != nil {
			log.Printf("keeper: sweep cut short: %v", ctx.Err())
			return settled
		}
		receipt, err := k.payer.PayAgreement(ctx, rec.AgreementID)
		switch {
		case err == nil:
			settled++
			log.Printf("keeper: settled installment for agreement %d (remaining %d)",
				receipt.AgreementID, receipt.RemainingEMIs)
		case isSkip(err):
			// nothing due on this one right now
		default:
			log.Printf("keeper: agreement %d: %v", rec.AgreementID, err)
		}
	}
	return settled
}

func isSkip(err error) bool {
	var notDue *paymentUC.NotDueError
	return errors.As(err, &notDue) ||
		errors.Is(err, paymentUC.ErrAttemptInFlight) ||
		errors.Is(err, paymentUC.ErrNoActiveAgreement)
}
