package core

import (
	"strings"
	"time"

	"taxfiler/internal/fixedwidth"
)

// Statutory field widths of the TET_U record: sales amounts carry 12 digits,
// tax amounts 10.
const (
	tetuSalesWidth = 12
	tetuTaxWidth   = 10
)

// TaxCascade is the declaration's tax computation (TET_U fields 82-95):
// output tax against the input credit and the configured prior-period and
// mid-year-closure adjustments, clamped so payable and carried-forward credit
// are never negative.
type TaxCascade struct {
	OutputTax         int64
	InputCredit       int64
	PriorPeriodCredit int64
	CreditSubtotal    int64 // InputCredit + PriorPeriodCredit
	PayableSubtotal   int64 // max(0, OutputTax - CreditSubtotal)
	CreditCarried     int64 // max(0, CreditSubtotal - OutputTax)
	MidYearClosureTax int64
	TotalPayable      int64 // PayableSubtotal + MidYearClosureTax
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// ComputeTaxCascade derives the declaration's net-payable versus
// carried-forward-credit split from the aggregated totals and the configured
// adjustments.
func ComputeTaxCascade(totals *FilingTotals, cfg TetUConfig) TaxCascade {
	c := TaxCascade{
		OutputTax:         totals.Output.TotalTax,
		InputCredit:       totals.Input.TotalTax,
		PriorPeriodCredit: cfg.PriorPeriodCredit,
		MidYearClosureTax: cfg.MidYearClosureTax,
	}
	c.CreditSubtotal = c.InputCredit + c.PriorPeriodCredit
	c.PayableSubtotal = clampNonNegative(c.OutputTax - c.CreditSubtotal)
	c.CreditCarried = clampNonNegative(c.CreditSubtotal - c.OutputTax)
	c.TotalPayable = c.PayableSubtotal + c.MidYearClosureTax
	return c
}

// BuildTetUReport produces the 112-field pipe-delimited declaration summary.
// rowCount is the number of ledger rows in the accompanying TXT file;
// filedAt stamps the declaration date (ROC calendar).
func BuildTetUReport(client Client, period FilingPeriod, cfg TetUConfig, totals *FilingTotals, rowCount int, filedAt time.Time) string {
	out := &totals.Output
	in := &totals.Input
	cascade := ComputeTaxCascade(totals, cfg)

	countyCode, _ := CountyCode(client.County)

	fields := make([]string, 0, 112)
	push := func(s string) { fields = append(fields, s) }
	pushS9 := func(v int64, width int) { push(fixedwidth.FormatS9(v, width)) }
	pushZero9 := func(width int) { push(fixedwidth.Format9(0, width)) }

	// ── Header: filer identity (1-8) ──────────────────────────────────────────
	push(fixedwidth.FormatX(cfg.DeclarationType, 3)) // 1  declaration type
	push(fixedwidth.FormatX(client.TaxPayerID, 9))   // 2  tax-payer ID
	push(fixedwidth.FormatX(client.TaxID, 8))        // 3  business tax ID
	push(fixedwidth.FormatX(period.YearMonth, 5))    // 4  ROC filing period
	push(fixedwidth.FormatX(cfg.DeclarationCode, 1)) // 5  self-filed / agent
	push(fixedwidth.FormatX(countyCode, 2))          // 6  county/city code
	push(fixedwidth.Format9(int64(rowCount), 7))     // 7  ledger row count
	push(fixedwidth.Format9(int64(out.InvoiceCount), 10)) // 8 output invoice count

	// ── Output side (9-26) ────────────────────────────────────────────────────
	pushS9(out.Triplicate.Sales, tetuSalesWidth)             // 9
	pushS9(out.Triplicate.Tax, tetuTaxWidth)                 // 10
	pushS9(out.CashRegisterElectronic.Sales, tetuSalesWidth) // 11
	pushS9(out.CashRegisterElectronic.Tax, tetuTaxWidth)     // 12
	pushS9(out.DuplicateCashRegister.Sales, tetuSalesWidth)  // 13
	pushS9(out.TotalSales, tetuSalesWidth)                   // 14 total output sales
	pushS9(out.DuplicateCashRegister.Tax, tetuTaxWidth)      // 15
	pushS9(out.ExemptFromIssuance.Sales, tetuSalesWidth)     // 16
	pushS9(out.ExemptFromIssuance.Tax, tetuTaxWidth)         // 17
	pushS9(out.ReturnsAndAllowances.Sales, tetuSalesWidth)   // 18
	pushS9(out.ReturnsAndAllowances.Tax, tetuTaxWidth)       // 19
	pushS9(out.TotalTax, tetuTaxWidth)                       // 20 total output tax
	pushS9(out.ZeroTax.WithDocuments, tetuSalesWidth)        // 21
	pushS9(out.ZeroTax.WithoutDocuments, tetuSalesWidth)     // 22
	pushS9(out.ZeroTax.ReturnsAndAllowances, tetuSalesWidth) // 23
	pushS9(out.ZeroTax.Total, tetuSalesWidth)                // 24
	pushS9(out.LandSales, tetuSalesWidth)                    // 25
	pushS9(out.FixedAssetSales, tetuSalesWidth)              // 26

	// ── 403/404-only sections (27-56): statutorily zero for declaration type
	// 401, emitted as zero placeholders at their fixed widths ─────────────────
	for i := 0; i < 15; i++ {
		pushZero9(tetuSalesWidth) // 27,29,…,55
		pushZero9(tetuTaxWidth)   // 28,30,…,56
	}

	// ── Input side: amounts (57-67) ───────────────────────────────────────────
	pushS9(in.AllInputAmounts, tetuSalesWidth)                    // 57 informational grand total
	pushS9(in.TotalPurchases, tetuSalesWidth)                     // 58 total deductible purchases
	pushS9(in.Triplicate.Expense.Sales, tetuSalesWidth)           // 59
	pushS9(in.Triplicate.FixedAsset.Sales, tetuSalesWidth)        // 60
	pushS9(in.CashRegisterElectronic.Expense.Sales, tetuSalesWidth)    // 61
	pushS9(in.CashRegisterElectronic.FixedAsset.Sales, tetuSalesWidth) // 62
	pushS9(in.OtherCertificates.Expense.Sales, tetuSalesWidth)    // 63
	pushS9(in.OtherCertificates.FixedAsset.Sales, tetuSalesWidth) // 64
	pushS9(in.Returns.Expense.Sales, tetuSalesWidth)              // 65
	pushS9(in.Returns.FixedAsset.Sales, tetuSalesWidth)           // 66
	pushZero9(tetuSalesWidth)                                     // 67 reserved

	// ── Input side: taxes (68-81) ─────────────────────────────────────────────
	pushS9(in.TotalTax, tetuTaxWidth)                          // 68 total input tax
	pushS9(in.Triplicate.Expense.Tax, tetuTaxWidth)            // 69
	pushS9(in.Triplicate.FixedAsset.Tax, tetuTaxWidth)         // 70
	pushS9(in.CashRegisterElectronic.Expense.Tax, tetuTaxWidth)    // 71
	pushS9(in.CashRegisterElectronic.FixedAsset.Tax, tetuTaxWidth) // 72
	pushS9(in.OtherCertificates.Expense.Tax, tetuTaxWidth)     // 73
	pushS9(in.OtherCertificates.FixedAsset.Tax, tetuTaxWidth)  // 74
	pushS9(in.Returns.Expense.Tax, tetuTaxWidth)               // 75
	pushS9(in.Returns.FixedAsset.Tax, tetuTaxWidth)            // 76
	for i := 0; i < 5; i++ {
		pushZero9(tetuTaxWidth) // 77-81 reserved
	}

	// ── Tax computation cascade (82-95) ───────────────────────────────────────
	pushS9(cascade.OutputTax, tetuTaxWidth)         // 82
	pushS9(cascade.InputCredit, tetuTaxWidth)       // 83
	pushS9(cascade.PriorPeriodCredit, tetuTaxWidth) // 84
	pushS9(cascade.CreditSubtotal, tetuTaxWidth)    // 85
	pushS9(cascade.PayableSubtotal, tetuTaxWidth)   // 86
	pushS9(cascade.CreditCarried, tetuTaxWidth)     // 87
	pushS9(cascade.MidYearClosureTax, tetuTaxWidth) // 88
	pushS9(cascade.TotalPayable, tetuTaxWidth)      // 89
	pushS9(cascade.CreditCarried, tetuTaxWidth)     // 90 credit to next period
	for i := 0; i < 5; i++ {
		pushZero9(tetuTaxWidth) // 91-95 reserved
	}

	// ── Declarant / agent identity (96-99) ────────────────────────────────────
	push(fixedwidth.FormatC(cfg.DeclarantName, 30))     // 96
	push(fixedwidth.FormatX(cfg.DeclarantPhone, 20))    // 97
	push(fixedwidth.FormatC(cfg.AgentRegistration, 30)) // 98
	push(fixedwidth.FormatX(rocDate(filedAt), 7))       // 99 filing date (ROC)

	// ── Trailer (100-112) ─────────────────────────────────────────────────────
	for i := 0; i < 6; i++ {
		pushZero9(tetuTaxWidth) // 100-105 reserved amounts
	}
	for i := 0; i < 6; i++ {
		push(fixedwidth.FormatX("", 8)) // 106-111 reserved identity
	}
	push(fixedwidth.FormatX("", 2)) // 112 record terminator padding

	return strings.Join(fields, "|")
}

// rocDate renders a date as ROC-calendar YYYMMDD.
func rocDate(t time.Time) string {
	return fixedwidth.Format9(int64(t.Year()-1911), 3) +
		fixedwidth.Format9(int64(t.Month()), 2) +
		fixedwidth.Format9(int64(t.Day()), 2)
}
