package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/jobdesk-billing/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(register model.PaymentRegister) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Payments"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	modeLabel, counterpartyLabel := registerLabels(register.Mode)

	set("A1", "Register type")
	set("B1", modeLabel)
	set("A2", "Profile")
	set("B2", register.Owner.FullName())
	set("A3", "Period start")
	set("B3", formatDate(register.PeriodStart))
	set("A4", "Period end")
	set("B4", formatDate(register.PeriodEnd))
	set("A5", "Payments")
	set("B5", len(register.Payments))
	set("A6", "Total amount")
	set("B6", register.Total.StringFixed(2))

	tableRow := 8
	headers := []string{
		"Payment date",
		"Job",
		counterpartyLabel,
		"Contract",
		"Amount",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, payment := range register.Payments {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDateTime(payment.PaymentDate))
		set(fmt.Sprintf("B%d", row), payment.Description)
		set(fmt.Sprintf("C%d", row), payment.CounterpartyName)
		set(fmt.Sprintf("D%d", row), payment.ContractID.String())
		set(fmt.Sprintf("E%d", row), payment.Price.StringFixed(2))
	}

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "C", 32)
	_ = file.SetColWidth(sheet, "D", "D", 38)
	_ = file.SetColWidth(sheet, "E", "E", 14)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func registerLabels(mode model.RegisterMode) (string, string) {
	switch mode {
	case model.RegisterModeContractor:
		return "Contractor earnings", "Client"
	case model.RegisterModeClient:
		return "Client spending", "Contractor"
	default:
		return "Payments", "Counterparty"
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
