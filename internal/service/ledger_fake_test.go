package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/jobdesk-billing/internal/model"
	"github.com/nurpe/jobdesk-billing/internal/repository"
)

// fakeLedger is an in-memory Ledger. A single mutex plays the role of
// transaction isolation: InTransaction holds it for the duration of fn and
// restores a snapshot when fn fails, so engine code observes the same
// commit-or-nothing behavior as the real store.
type fakeLedger struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*model.Profile
	jobs     map[uuid.UUID]*model.Job

	// beforeTx runs after the transaction lock is taken and before fn,
	// letting tests mutate state between the eligibility read and the
	// transfer.
	beforeTx func(*fakeLedger)
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		profiles: make(map[uuid.UUID]*model.Profile),
		jobs:     make(map[uuid.UUID]*model.Job),
	}
}

func (f *fakeLedger) addProfile(p model.Profile) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.profiles[p.ID] = &p
	return p.ID
}

func (f *fakeLedger) addJob(j model.Job) uuid.UUID {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.ContractID == uuid.Nil {
		j.ContractID = uuid.New()
	}
	j.Contract.ID = j.ContractID
	f.jobs[j.ID] = &j
	return j.ID
}

func (f *fakeLedger) FindProfile(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findProfile(id)
}

func (f *fakeLedger) FindJobForPayment(_ context.Context, jobID, clientID uuid.UUID) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[jobID]
	if !ok || job.Paid || job.Contract.Status == model.ContractStatusTerminated || job.Contract.ClientID != clientID {
		return nil, gorm.ErrRecordNotFound
	}
	client, ok := f.profiles[clientID]
	if !ok || client.Balance.LessThan(job.Price) {
		return nil, gorm.ErrRecordNotFound
	}
	return f.snapshotJob(job), nil
}

func (f *fakeLedger) FindJob(_ context.Context, jobID uuid.UUID) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[jobID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f.snapshotJob(job), nil
}

func (f *fakeLedger) SumUnpaidJobPrices(_ context.Context, clientID uuid.UUID, status model.ContractStatus) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := decimal.Zero
	for _, job := range f.jobs {
		if job.Paid || job.Contract.ClientID != clientID || job.Contract.Status != status {
			continue
		}
		total = total.Add(job.Price)
	}
	return total, nil
}

func (f *fakeLedger) IncrementBalance(_ context.Context, profileID uuid.UUID, delta decimal.Decimal, minBalance *decimal.Decimal) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.incrementBalance(profileID, delta, minBalance), nil
}

func (f *fakeLedger) MarkJobPaid(_ context.Context, jobID uuid.UUID, paidAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markJobPaid(jobID, paidAt), nil
}

func (f *fakeLedger) ListPayments(_ context.Context, mode model.RegisterMode, profileID uuid.UUID, from, to time.Time) ([]model.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var records []model.PaymentRecord
	for _, job := range f.jobs {
		if !job.Paid || job.PaymentDate == nil {
			continue
		}
		if job.PaymentDate.Before(from) || !job.PaymentDate.Before(to) {
			continue
		}

		var counterparty *model.Profile
		switch mode {
		case model.RegisterModeClient:
			if job.Contract.ClientID != profileID {
				continue
			}
			counterparty = f.profiles[job.Contract.ContractorID]
		case model.RegisterModeContractor:
			if job.Contract.ContractorID != profileID {
				continue
			}
			counterparty = f.profiles[job.Contract.ClientID]
		}
		if counterparty == nil {
			continue
		}

		records = append(records, model.PaymentRecord{
			JobID:            job.ID,
			ContractID:       job.ContractID,
			Description:      job.Description,
			Price:            job.Price,
			PaymentDate:      *job.PaymentDate,
			CounterpartyID:   counterparty.ID,
			CounterpartyName: counterparty.FullName(),
		})
	}
	return records, nil
}

func (f *fakeLedger) InTransaction(_ context.Context, fn func(tx repository.Ledger) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.beforeTx != nil {
		f.beforeTx(f)
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(f.profiles))
	for id, p := range f.profiles {
		balances[id] = p.Balance
	}
	type jobState struct {
		paid bool
		date *time.Time
	}
	jobStates := make(map[uuid.UUID]jobState, len(f.jobs))
	for id, j := range f.jobs {
		jobStates[id] = jobState{paid: j.Paid, date: j.PaymentDate}
	}

	if err := fn(&fakeTx{f: f}); err != nil {
		for id, balance := range balances {
			f.profiles[id].Balance = balance
		}
		for id, state := range jobStates {
			f.jobs[id].Paid = state.paid
			f.jobs[id].PaymentDate = state.date
		}
		return err
	}
	return nil
}

func (f *fakeLedger) findProfile(id uuid.UUID) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeLedger) incrementBalance(profileID uuid.UUID, delta decimal.Decimal, minBalance *decimal.Decimal) int64 {
	p, ok := f.profiles[profileID]
	if !ok {
		return 0
	}
	if minBalance != nil && p.Balance.LessThan(*minBalance) {
		return 0
	}
	p.Balance = p.Balance.Add(delta)
	return 1
}

func (f *fakeLedger) markJobPaid(jobID uuid.UUID, paidAt time.Time) int64 {
	job, ok := f.jobs[jobID]
	if !ok || job.Paid {
		return 0
	}
	job.Paid = true
	job.PaymentDate = &paidAt
	return 1
}

func (f *fakeLedger) snapshotJob(job *model.Job) *model.Job {
	copied := *job
	if client, ok := f.profiles[job.Contract.ClientID]; ok {
		copied.Contract.Client = *client
	}
	if contractor, ok := f.profiles[job.Contract.ContractorID]; ok {
		copied.Contract.Contractor = *contractor
	}
	return &copied
}

func (f *fakeLedger) balance(id uuid.UUID) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[id].Balance
}

// fakeTx exposes the already-locked ledger inside InTransaction.
type fakeTx struct {
	f *fakeLedger
}

func (t *fakeTx) FindProfile(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	return t.f.findProfile(id)
}

func (t *fakeTx) FindJobForPayment(context.Context, uuid.UUID, uuid.UUID) (*model.Job, error) {
	return nil, gorm.ErrRecordNotFound
}

func (t *fakeTx) FindJob(_ context.Context, jobID uuid.UUID) (*model.Job, error) {
	job, ok := t.f.jobs[jobID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t.f.snapshotJob(job), nil
}

func (t *fakeTx) SumUnpaidJobPrices(context.Context, uuid.UUID, model.ContractStatus) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (t *fakeTx) IncrementBalance(_ context.Context, profileID uuid.UUID, delta decimal.Decimal, minBalance *decimal.Decimal) (int64, error) {
	return t.f.incrementBalance(profileID, delta, minBalance), nil
}

func (t *fakeTx) MarkJobPaid(_ context.Context, jobID uuid.UUID, paidAt time.Time) (int64, error) {
	return t.f.markJobPaid(jobID, paidAt), nil
}

func (t *fakeTx) ListPayments(context.Context, model.RegisterMode, uuid.UUID, time.Time, time.Time) ([]model.PaymentRecord, error) {
	return nil, nil
}

func (t *fakeTx) InTransaction(_ context.Context, fn func(tx repository.Ledger) error) error {
	return fn(t)
}
