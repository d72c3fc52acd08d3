package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/jobdesk-billing/internal/model"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) FindProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var row struct {
		ID         uuid.UUID
		FirstName  string
		LastName   string
		Profession string
		Balance    decimal.Decimal
		Type       string
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT id, first_name, last_name, COALESCE(profession, '') AS profession, balance, type
		FROM profiles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.Profile{
		ID:         row.ID,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Profession: row.Profession,
		Balance:    row.Balance,
		Type:       model.ProfileType(row.Type),
	}, nil
}

type jobRow struct {
	ID                   uuid.UUID
	ContractID           uuid.UUID
	Description          string
	Price                decimal.Decimal
	Paid                 bool
	PaymentDate          *time.Time
	ContractStatus       string
	ContractTerms        string
	ClientID             uuid.UUID
	ClientFirstName      string
	ClientLastName       string
	ClientBalance        decimal.Decimal
	ContractorID         uuid.UUID
	ContractorFirstName  string
	ContractorLastName   string
	ContractorProfession string
	ContractorBalance    decimal.Decimal
}

const jobSelect = `
	SELECT
		j.id,
		j.contract_id,
		j.description,
		j.price,
		COALESCE(j.paid, FALSE) AS paid,
		j.payment_date,
		c.status AS contract_status,
		c.terms AS contract_terms,
		c.client_id,
		client.first_name AS client_first_name,
		client.last_name AS client_last_name,
		client.balance AS client_balance,
		c.contractor_id,
		contractor.first_name AS contractor_first_name,
		contractor.last_name AS contractor_last_name,
		COALESCE(contractor.profession, '') AS contractor_profession,
		contractor.balance AS contractor_balance
	FROM jobs j
	JOIN contracts c ON c.id = j.contract_id
	JOIN profiles client ON client.id = c.client_id
	JOIN profiles contractor ON contractor.id = c.contractor_id
`

func (r *LedgerRepository) FindJobForPayment(ctx context.Context, jobID, clientID uuid.UUID) (*model.Job, error) {
	var row jobRow
	err := r.db.WithContext(ctx).Raw(jobSelect+`
		WHERE j.id = ?
			AND j.paid IS NOT TRUE
			AND c.status <> 'terminated'
			AND c.client_id = ?
			AND client.balance >= j.price
		LIMIT 1
	`, jobID, clientID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return buildJob(row), nil
}

func (r *LedgerRepository) FindJob(ctx context.Context, jobID uuid.UUID) (*model.Job, error) {
	var row jobRow
	err := r.db.WithContext(ctx).Raw(jobSelect+`
		WHERE j.id = ?
		LIMIT 1
	`, jobID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return buildJob(row), nil
}

func (r *LedgerRepository) SumUnpaidJobPrices(ctx context.Context, clientID uuid.UUID, status model.ContractStatus) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(j.price), 0) AS total
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.client_id = ?
			AND c.status = ?
			AND j.paid IS NOT TRUE
	`, clientID, status).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *LedgerRepository) IncrementBalance(ctx context.Context, profileID uuid.UUID, delta decimal.Decimal, minBalance *decimal.Decimal) (int64, error) {
	query := `UPDATE profiles SET balance = balance + ? WHERE id = ?`
	args := []interface{}{delta, profileID}
	if minBalance != nil {
		query += ` AND balance >= ?`
		args = append(args, *minBalance)
	}

	result := r.db.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *LedgerRepository) MarkJobPaid(ctx context.Context, jobID uuid.UUID, paidAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE jobs
		SET paid = TRUE, payment_date = ?
		WHERE id = ? AND paid IS NOT TRUE
	`, paidAt, jobID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *LedgerRepository) ListPayments(ctx context.Context, mode model.RegisterMode, profileID uuid.UUID, from, to time.Time) ([]model.PaymentRecord, error) {
	ownerColumn := "c.client_id"
	counterpartyJoin := "c.contractor_id"
	if mode == model.RegisterModeContractor {
		ownerColumn = "c.contractor_id"
		counterpartyJoin = "c.client_id"
	}

	var records []model.PaymentRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id AS job_id,
			j.contract_id,
			j.description,
			j.price,
			j.payment_date,
			cp.id AS counterparty_id,
			cp.first_name || ' ' || cp.last_name AS counterparty_name
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles cp ON cp.id = `+counterpartyJoin+`
		WHERE `+ownerColumn+` = ?
			AND j.paid IS TRUE
			AND j.payment_date >= ?
			AND j.payment_date < ?
		ORDER BY j.payment_date ASC
	`, profileID, from, to).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *LedgerRepository) InTransaction(ctx context.Context, fn func(tx Ledger) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerRepository{db: tx})
	})
}

func buildJob(row jobRow) *model.Job {
	return &model.Job{
		ID:          row.ID,
		ContractID:  row.ContractID,
		Description: row.Description,
		Price:       row.Price,
		Paid:        row.Paid,
		PaymentDate: row.PaymentDate,
		Contract: model.Contract{
			ID:           row.ContractID,
			ClientID:     row.ClientID,
			ContractorID: row.ContractorID,
			Terms:        row.ContractTerms,
			Status:       model.ContractStatus(row.ContractStatus),
			Client: model.Profile{
				ID:        row.ClientID,
				FirstName: row.ClientFirstName,
				LastName:  row.ClientLastName,
				Balance:   row.ClientBalance,
				Type:      model.ProfileTypeClient,
			},
			Contractor: model.Profile{
				ID:         row.ContractorID,
				FirstName:  row.ContractorFirstName,
				LastName:   row.ContractorLastName,
				Profession: row.ContractorProfession,
				Balance:    row.ContractorBalance,
				Type:       model.ProfileTypeContractor,
			},
		},
	}
}
