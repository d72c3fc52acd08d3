package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/jobdesk-billing/internal/model"
)

type ExportPaymentsInput struct {
	Mode        model.RegisterMode
	TargetID    uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	CallerID    uuid.UUID
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportPayments builds an XLSX register of payments for one party over a
// period. A party may only export its own register.
func (s *BillingService) ExportPayments(ctx context.Context, input ExportPaymentsInput) (*ExportResult, error) {
	if input.TargetID == uuid.Nil {
		return nil, fmt.Errorf("%w: target_id is required", ErrInvalidInput)
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}

	periodStart := dateOnly(input.PeriodStart)
	periodEnd := dateOnly(input.PeriodEnd)
	if periodStart.After(periodEnd) {
		return nil, fmt.Errorf("%w: period_start must be before or equal to period_end", ErrInvalidInput)
	}
	if input.CallerID != input.TargetID {
		return nil, ErrPermissionDenied
	}

	owner, err := s.ledger.FindProfile(ctx, input.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch input.Mode {
	case model.RegisterModeClient:
		if owner.Type != model.ProfileTypeClient {
			return nil, fmt.Errorf("%w: profile is not a client", ErrInvalidInput)
		}
	case model.RegisterModeContractor:
		if owner.Type != model.ProfileTypeContractor {
			return nil, fmt.Errorf("%w: profile is not a contractor", ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: invalid register mode", ErrInvalidInput)
	}

	endExclusive := periodEnd.Add(24 * time.Hour)
	records, err := s.ledger.ListPayments(ctx, input.Mode, input.TargetID, periodStart, endExclusive)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, record := range records {
		total = total.Add(record.Price)
	}

	register := model.PaymentRegister{
		Mode:        input.Mode,
		Owner:       *owner,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Total:       total,
		Payments:    records,
	}

	content, err := s.excel.Generate(register)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: buildRegisterFileName(register),
		Content:  content,
	}, nil
}

// PaymentReceipt renders a PDF receipt for a paid job. Only the contract's
// client or contractor may fetch it.
func (s *BillingService) PaymentReceipt(ctx context.Context, callerID, jobID uuid.UUID) (*ExportResult, error) {
	job, err := s.ledger.FindJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if callerID != job.Contract.ClientID && callerID != job.Contract.ContractorID {
		return nil, ErrPermissionDenied
	}
	if !job.Paid {
		return nil, fmt.Errorf("%w: job is not paid", ErrInvalidInput)
	}

	content, err := s.pdf.Generate(model.ReceiptDocument{
		Job:        *job,
		Contract:   job.Contract,
		Client:     job.Contract.Client,
		Contractor: job.Contract.Contractor,
	})
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: fmt.Sprintf("receipt-%s.pdf", job.ID),
		Content:  content,
	}, nil
}

func buildRegisterFileName(register model.PaymentRegister) string {
	mode := strings.ToLower(string(register.Mode))
	owner := sanitizeFileName(register.Owner.FullName())
	if owner == "" {
		owner = register.Owner.ID.String()
	}
	period := fmt.Sprintf("%s-%s", register.PeriodStart.Format("20060102"), register.PeriodEnd.Format("20060102"))
	return fmt.Sprintf("payments-%s-%s-%s.xlsx", mode, owner, period)
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
