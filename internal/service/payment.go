package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/jobdesk-billing/internal/model"
	"github.com/nurpe/jobdesk-billing/internal/repository"
)

// PayForJob transfers the job's price from the paying client to the
// contractor, exactly once. The eligibility read and the transfer are
// separate: the read filters out ineligible jobs cheaply, while the
// transaction re-validates the balance through a conditional decrement so a
// concurrent payment draining the account between read and transfer is
// still caught.
func (s *BillingService) PayForJob(ctx context.Context, callerID, jobID uuid.UUID) error {
	job, err := s.ledger.FindJobForPayment(ctx, jobID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logPaymentRejection(ctx, callerID, jobID)
			return ErrPaymentRejected
		}
		return err
	}

	err = s.ledger.InTransaction(ctx, func(tx repository.Ledger) error {
		minBalance := job.Price
		affected, err := tx.IncrementBalance(ctx, job.Contract.ClientID, job.Price.Neg(), &minBalance)
		if err != nil {
			return err
		}
		if affected != 1 {
			// balance changed since the eligibility read
			return ErrPaymentRejected
		}

		affected, err = tx.IncrementBalance(ctx, job.Contract.ContractorID, job.Price, nil)
		if err != nil {
			return err
		}
		if affected != 1 {
			return ErrPaymentRejected
		}

		affected, err = tx.MarkJobPaid(ctx, job.ID, time.Now().UTC())
		if err != nil {
			return err
		}
		if affected != 1 {
			// a concurrent payment marked the job first
			return ErrPaymentRejected
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPaymentRejected) {
			s.log.Info().
				Str("job_id", jobID.String()).
				Str("caller_id", callerID.String()).
				Msg("payment rejected at transfer time")
			return ErrPaymentRejected
		}
		return err
	}

	s.log.Info().
		Str("job_id", job.ID.String()).
		Str("client_id", job.Contract.ClientID.String()).
		Str("contractor_id", job.Contract.ContractorID.String()).
		Str("price", job.Price.String()).
		Msg("job paid")
	return nil
}

// logPaymentRejection re-reads the job without eligibility filters to name
// the reason in the log. Callers always see the same rejection outcome.
func (s *BillingService) logPaymentRejection(ctx context.Context, callerID, jobID uuid.UUID) {
	reason := "job not found"
	job, err := s.ledger.FindJob(ctx, jobID)
	switch {
	case err != nil:
	case job.Paid:
		reason = "job already paid"
	case job.Contract.Status == model.ContractStatusTerminated:
		reason = "contract terminated"
	case job.Contract.ClientID != callerID:
		reason = "caller is not the contract client"
	case job.Contract.Client.Balance.LessThan(job.Price):
		reason = "insufficient funds"
	}

	s.log.Info().
		Str("job_id", jobID.String()).
		Str("caller_id", callerID.String()).
		Str("reason", reason).
		Msg("payment rejected")
}
