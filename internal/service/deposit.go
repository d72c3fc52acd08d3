package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/jobdesk-billing/internal/model"
)

// Deposit tops up the caller's own balance. The deposit is capped by a
// fraction of the caller's outstanding unpaid job total under in-progress
// contracts, so a client with no open obligations cannot deposit at all.
func (s *BillingService) Deposit(ctx context.Context, callerID uuid.UUID, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	profile, err := s.ledger.FindProfile(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if profile.Type != model.ProfileTypeClient {
		return ErrPermissionDenied
	}

	outstanding, err := s.ledger.SumUnpaidJobPrices(ctx, callerID, model.ContractStatusInProgress)
	if err != nil {
		return err
	}

	limit := outstanding.Mul(s.depositCapRatio)
	if amount.GreaterThan(limit) {
		s.log.Info().
			Str("caller_id", callerID.String()).
			Str("amount", amount.String()).
			Str("limit", limit.String()).
			Msg("deposit rejected: over cap")
		return ErrDepositTooLarge
	}

	// No balance precondition here: concurrent deposits accumulate
	// through the atomic increment.
	affected, err := s.ledger.IncrementBalance(ctx, callerID, amount, nil)
	if err != nil {
		return err
	}
	if affected != 1 {
		return ErrNotFound
	}

	s.log.Info().
		Str("caller_id", callerID.String()).
		Str("amount", amount.String()).
		Msg("deposit accepted")
	return nil
}
