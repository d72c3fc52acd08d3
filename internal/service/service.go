package service

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/jobdesk-billing/internal/config"
	"github.com/nurpe/jobdesk-billing/internal/model"
	"github.com/nurpe/jobdesk-billing/internal/repository"
)

type ExcelGenerator interface {
	Generate(register model.PaymentRegister) ([]byte, error)
}

type ReceiptGenerator interface {
	Generate(doc model.ReceiptDocument) ([]byte, error)
}

type BillingService struct {
	ledger          repository.Ledger
	excel           ExcelGenerator
	pdf             ReceiptGenerator
	depositCapRatio decimal.Decimal
	log             zerolog.Logger
}

func NewBillingService(
	ledger repository.Ledger,
	excel ExcelGenerator,
	pdf ReceiptGenerator,
	cfg *config.Config,
	log zerolog.Logger,
) *BillingService {
	return &BillingService{
		ledger:          ledger,
		excel:           excel,
		pdf:             pdf,
		depositCapRatio: decimal.NewFromFloat(cfg.Billing.DepositCapRatio),
		log:             log,
	}
}
