package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/jobdesk-billing/internal/model"
)

// Ledger is the data-access contract the billing engines run against.
// Implementations must guarantee that InTransaction rolls back on any exit
// path that does not return nil, and that IncrementBalance evaluates its
// guard at execution time, not against an earlier read.
type Ledger interface {
	FindProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)

	// FindJobForPayment applies the whole payment eligibility predicate
	// server-side: the job exists and is unpaid, its contract is not
	// terminated, clientID is the contract's client and the client's
	// balance covers the price. Returns gorm.ErrRecordNotFound on any miss.
	FindJobForPayment(ctx context.Context, jobID, clientID uuid.UUID) (*model.Job, error)

	// FindJob loads a job with its contract and parties without any
	// eligibility filtering.
	FindJob(ctx context.Context, jobID uuid.UUID) (*model.Job, error)

	// SumUnpaidJobPrices totals the prices of unpaid jobs belonging to the
	// client's contracts with the given status.
	SumUnpaidJobPrices(ctx context.Context, clientID uuid.UUID, status model.ContractStatus) (decimal.Decimal, error)

	// IncrementBalance atomically adds delta to the profile's balance. When
	// minBalance is non-nil the update only applies while the current
	// balance is at least minBalance; the returned count is the number of
	// rows that matched the guard.
	IncrementBalance(ctx context.Context, profileID uuid.UUID, delta decimal.Decimal, minBalance *decimal.Decimal) (int64, error)

	// MarkJobPaid flips the paid flag and stamps the payment date. The
	// update is guarded by the job still being unpaid; zero rows affected
	// means another payment won the race.
	MarkJobPaid(ctx context.Context, jobID uuid.UUID, paidAt time.Time) (int64, error)

	ListPayments(ctx context.Context, mode model.RegisterMode, profileID uuid.UUID, from, to time.Time) ([]model.PaymentRecord, error)

	// InTransaction runs fn against a transaction-bound ledger. The
	// transaction commits when fn returns nil and rolls back otherwise,
	// including on panic.
	InTransaction(ctx context.Context, fn func(tx Ledger) error) error
}
