package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RegisterMode string

const (
	RegisterModeClient     RegisterMode = "CLIENT"
	RegisterModeContractor RegisterMode = "CONTRACTOR"
)

type PaymentRecord struct {
	JobID            uuid.UUID
	ContractID       uuid.UUID
	Description      string
	Price            decimal.Decimal
	PaymentDate      time.Time
	CounterpartyID   uuid.UUID
	CounterpartyName string
}

type PaymentRegister struct {
	Mode        RegisterMode
	Owner       Profile
	PeriodStart time.Time
	PeriodEnd   time.Time
	Total       decimal.Decimal
	Payments    []PaymentRecord
}

type ReceiptDocument struct {
	Job        Job
	Contract   Contract
	Client     Profile
	Contractor Profile
}
