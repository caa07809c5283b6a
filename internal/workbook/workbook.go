// Package workbook renders a generated filing report into an XLSX review
// workbook for the accountant: a summary sheet with the statutory totals and
// a ledger sheet decoding the 81-byte TXT rows into columns.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"taxfiler/internal/core"
)

const (
	summarySheet = "Summary"
	ledgerSheet  = "Ledger"
)

// Build assembles the review workbook in memory. The caller saves it.
func Build(client core.Client, period core.FilingPeriod, totals *core.FilingTotals, txt string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := writeSummary(f, client, period, totals); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ledgerSheet); err != nil {
		return nil, err
	}
	if err := writeLedger(f, txt); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSummary(f *excelize.File, client core.Client, period core.FilingPeriod, totals *core.FilingTotals) error {
	out := totals.Output
	in := totals.Input

	rows := [][]any{
		{"Client", client.Name},
		{"Tax ID", client.TaxID},
		{"Period (ROC)", period.YearMonth},
		{},
		{"Output", "Sales", "Tax"},
		{"Triplicate", out.Triplicate.Sales, out.Triplicate.Tax},
		{"Cash register / electronic", out.CashRegisterElectronic.Sales, out.CashRegisterElectronic.Tax},
		{"Duplicate cash register", out.DuplicateCashRegister.Sales, out.DuplicateCashRegister.Tax},
		{"Exempt from issuance", out.ExemptFromIssuance.Sales, out.ExemptFromIssuance.Tax},
		{"Returns and allowances", out.ReturnsAndAllowances.Sales, out.ReturnsAndAllowances.Tax},
		{"Total", out.TotalSales, out.TotalTax},
		{},
		{"Zero-rate (no documents)", out.ZeroTax.WithoutDocuments},
		{"Zero-rate returns", out.ZeroTax.ReturnsAndAllowances},
		{"Zero-rate total", out.ZeroTax.Total},
		{"Land sales", out.LandSales},
		{"Fixed-asset sales", out.FixedAssetSales},
		{"Output invoice count", out.InvoiceCount},
		{},
		{"Input", "Purchases", "Tax"},
		{"Triplicate (expense)", in.Triplicate.Expense.Sales, in.Triplicate.Expense.Tax},
		{"Triplicate (fixed asset)", in.Triplicate.FixedAsset.Sales, in.Triplicate.FixedAsset.Tax},
		{"Cash register / electronic (expense)", in.CashRegisterElectronic.Expense.Sales, in.CashRegisterElectronic.Expense.Tax},
		{"Cash register / electronic (fixed asset)", in.CashRegisterElectronic.FixedAsset.Sales, in.CashRegisterElectronic.FixedAsset.Tax},
		{"Other certificates (expense)", in.OtherCertificates.Expense.Sales, in.OtherCertificates.Expense.Tax},
		{"Other certificates (fixed asset)", in.OtherCertificates.FixedAsset.Sales, in.OtherCertificates.FixedAsset.Tax},
		{"Returns (expense)", in.Returns.Expense.Sales, in.Returns.Expense.Tax},
		{"Returns (fixed asset)", in.Returns.FixedAsset.Sales, in.Returns.FixedAsset.Tax},
		{"Total deductible", in.TotalPurchases, in.TotalTax},
		{"All input amounts", in.AllInputAmounts},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// Ledger row fields, by their 1-based byte offsets in the 81-byte format.
var ledgerColumns = []struct {
	name  string
	start int
	end   int
}{
	{"Format code", 1, 2},
	{"Tax-payer ID", 3, 11},
	{"Seq", 12, 18},
	{"Period", 19, 23},
	{"Buyer", 24, 31},
	{"Seller", 32, 39},
	{"Serial", 40, 49},
	{"Sales", 50, 61},
	{"Tax type", 62, 62},
	{"Tax", 63, 72},
	{"Deduction", 73, 73},
	{"Aggregate", 80, 80},
}

func writeLedger(f *excelize.File, txt string) error {
	header := make([]any, len(ledgerColumns))
	for i, col := range ledgerColumns {
		header[i] = col.name
	}
	if err := f.SetSheetRow(ledgerSheet, "A1", &header); err != nil {
		return err
	}

	if txt == "" {
		return nil
	}
	for i, line := range strings.Split(txt, "\n") {
		if len(line) != 81 {
			return fmt.Errorf("ledger line %d is %d bytes, want 81", i+1, len(line))
		}
		row := make([]any, len(ledgerColumns))
		for j, col := range ledgerColumns {
			row[j] = strings.TrimSpace(line[col.start-1 : col.end])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
