package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Job is a billable unit of work under a contract. A job is paid at most
// once: Paid flips to true atomically with the balance transfer and
// PaymentDate is stamped in the same transaction.
type Job struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	Description string
	Price       decimal.Decimal
	Paid        bool
	PaymentDate *time.Time
	Contract    Contract `gorm:"-"`
}
