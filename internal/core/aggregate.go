package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"taxfiler/internal/logger"
)

// ── Totals structures ─────────────────────────────────────────────────────────

// Bucket is one statutory sales/tax pair.
type Bucket struct {
	Sales int64
	Tax   int64
}

func (b *Bucket) add(sales, tax int64) {
	b.Sales += sales
	b.Tax += tax
}

// ZeroTaxTotals breaks down zero-rate sales. All zero-rate sales currently
// route to WithoutDocuments regardless of customs documentation; the
// WithDocuments bucket exists in the declaration layout but is only reduced,
// never fed, until the filing rules are clarified.
type ZeroTaxTotals struct {
	WithDocuments        int64
	WithoutDocuments     int64
	ReturnsAndAllowances int64
	Total                int64
}

// OutputTotals is the sales-side aggregation tree.
//
// ConsumerSales is the running tax-inclusive total of B2C retail sales (no
// buyer tax ID). It is accumulated during the fold and split into its sales
// and tax portions by exactly one post-pass, never mid-loop.
type OutputTotals struct {
	Triplicate             Bucket // 手開三聯式
	CashRegisterElectronic Bucket // 電子發票, 三聯式收銀機
	DuplicateCashRegister  Bucket // 二聯式 sub-types
	ExemptFromIssuance     Bucket
	ReturnsAndAllowances   Bucket
	ZeroTax                ZeroTaxTotals

	LandSales       int64
	FixedAssetSales int64
	ConsumerSales   int64

	TotalSales   int64
	TotalTax     int64
	InvoiceCount int // non-void output invoices
}

// InputCategory splits an input-side certificate category into ordinary
// expense purchases and fixed-asset acquisitions.
type InputCategory struct {
	Expense    Bucket
	FixedAsset Bucket
}

func (c InputCategory) sales() int64 { return c.Expense.Sales + c.FixedAsset.Sales }
func (c InputCategory) tax() int64   { return c.Expense.Tax + c.FixedAsset.Tax }

// InputTotals is the purchase-side aggregation tree. Only deductible invoices
// feed the category buckets; AllInputAmounts additionally counts
// non-deductible purchases for informational reporting.
type InputTotals struct {
	Triplicate             InputCategory // 手開三聯式
	CashRegisterElectronic InputCategory // 電子發票, 三聯式收銀機
	OtherCertificates      InputCategory // 二聯式 sub-types
	Returns                InputCategory

	AllInputAmounts int64

	TotalPurchases int64
	TotalTax       int64
}

// FilingTotals is the full nested totals structure for one filing period.
type FilingTotals struct {
	Output OutputTotals
	Input  InputTotals
}

// ── Aggregation ───────────────────────────────────────────────────────────────

const (
	landKeyword        = "土地"
	fixedAssetKeyword  = "固定資產"
	equipmentKeyword   = "設備"
	vatRate            = "0.05"
	taxInclusiveFactor = "1.05"
)

func summaryMentionsFixedAsset(summary string) bool {
	return strings.Contains(summary, fixedAssetKeyword) || strings.Contains(summary, equipmentKeyword)
}

// Aggregate folds the period's confirmed invoices and allowances into the
// statutory totals. Unknown invoice sub-types fail fast: silently skipping a
// record would produce an incorrect statutory filing.
func Aggregate(invoices []Invoice, allowances []Allowance) (*FilingTotals, error) {
	log := logger.WithComponent("aggregator")
	t := &FilingTotals{}

	for _, inv := range invoices {
		if inv.TaxType == TaxVoided {
			// Voided invoices contribute nothing but still appear in the
			// ledger row list.
			log.Debug().Str("serial", inv.SerialCode).Msg("voided invoice excluded from totals")
			continue
		}
		if inv.TaxType == TaxAggregate {
			continue
		}

		switch inv.Direction {
		case DirectionOutput:
			if err := t.Output.accumulate(inv); err != nil {
				return nil, err
			}
		case DirectionInput:
			if err := t.Input.accumulate(inv); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported direction %q on invoice %s", inv.Direction, inv.SerialCode)
		}
	}

	for _, alw := range allowances {
		amount, tax := alw.EffectiveAmounts()
		switch alw.Direction {
		case DirectionOutput:
			if alw.TaxType == TaxZeroRate {
				t.Output.ZeroTax.ReturnsAndAllowances += amount
			} else {
				t.Output.ReturnsAndAllowances.add(amount, tax)
			}
		case DirectionInput:
			if alw.DeductionCode == 2 {
				t.Input.Returns.FixedAsset.add(amount, tax)
			} else {
				t.Input.Returns.Expense.add(amount, tax)
			}
		default:
			return nil, fmt.Errorf("unsupported direction %q on allowance %s", alw.Direction, alw.OriginalSerialCode)
		}
	}

	t.Output.applyConsumerTaxSplit()
	t.Output.computeTotals()
	t.Input.computeTotals()
	return t, nil
}

func (o *OutputTotals) accumulate(inv Invoice) error {
	o.InvoiceCount++

	switch inv.TaxType {
	case TaxTaxable:
		switch inv.InvoiceType {
		case InvoiceManualTriplicate:
			o.Triplicate.add(inv.TotalSales, inv.Tax)
		case InvoiceElectronic, InvoiceCashRegisterTriplicate:
			o.CashRegisterElectronic.add(inv.TotalSales, inv.Tax)
		case InvoiceManualDuplicate, InvoiceCashRegisterDuplicate:
			o.DuplicateCashRegister.add(inv.TotalSales, inv.Tax)
		default:
			return fmt.Errorf("unsupported invoice type %q on output invoice %s", inv.InvoiceType, inv.SerialCode)
		}
		if inv.BuyerTaxID == "" {
			// Consumer sales are recorded tax-inclusive; the tax portion is
			// derived later, not taken at face value.
			o.ConsumerSales += inv.TotalSales
		}
	case TaxZeroRate:
		o.ZeroTax.WithoutDocuments += inv.TotalSales
	case TaxExempt:
		o.ExemptFromIssuance.add(inv.TotalSales, inv.Tax)
	default:
		return fmt.Errorf("unsupported tax type %q on output invoice %s", inv.TaxType, inv.SerialCode)
	}

	if strings.Contains(inv.Summary, landKeyword) {
		o.LandSales += inv.TotalSales
	}
	if summaryMentionsFixedAsset(inv.Summary) {
		o.FixedAssetSales += inv.TotalSales
	}
	return nil
}

func (i *InputTotals) accumulate(inv Invoice) error {
	i.AllInputAmounts += inv.TotalSales
	if !inv.Deductible {
		// Non-deductible purchases never enter the credit buckets.
		return nil
	}

	var category *InputCategory
	switch inv.InvoiceType {
	case InvoiceManualTriplicate:
		category = &i.Triplicate
	case InvoiceElectronic, InvoiceCashRegisterTriplicate:
		category = &i.CashRegisterElectronic
	case InvoiceManualDuplicate, InvoiceCashRegisterDuplicate:
		category = &i.OtherCertificates
	default:
		return fmt.Errorf("unsupported invoice type %q on input invoice %s", inv.InvoiceType, inv.SerialCode)
	}

	if summaryMentionsFixedAsset(inv.Summary) {
		category.FixedAsset.add(inv.TotalSales, inv.Tax)
	} else {
		category.Expense.add(inv.TotalSales, inv.Tax)
	}
	return nil
}

// applyConsumerTaxSplit converts the accumulated tax-inclusive consumer total
// into its sales/tax split: taxPortion = round(S / 1.05 * 0.05). The portion
// moves from the cash-register/electronic sales bucket into its tax bucket.
func (o *OutputTotals) applyConsumerTaxSplit() {
	if o.ConsumerSales == 0 {
		return
	}
	inclusive := decimal.NewFromInt(o.ConsumerSales)
	factor := decimal.RequireFromString(taxInclusiveFactor)
	rate := decimal.RequireFromString(vatRate)
	taxPortion := inclusive.Div(factor).Mul(rate).Round(0).IntPart()

	o.CashRegisterElectronic.Sales -= taxPortion
	o.CashRegisterElectronic.Tax += taxPortion
}

func (o *OutputTotals) computeTotals() {
	o.TotalSales = o.Triplicate.Sales + o.CashRegisterElectronic.Sales +
		o.DuplicateCashRegister.Sales + o.ExemptFromIssuance.Sales -
		o.ReturnsAndAllowances.Sales
	o.TotalTax = o.Triplicate.Tax + o.CashRegisterElectronic.Tax +
		o.DuplicateCashRegister.Tax + o.ExemptFromIssuance.Tax -
		o.ReturnsAndAllowances.Tax
	o.ZeroTax.Total = o.ZeroTax.WithDocuments + o.ZeroTax.WithoutDocuments -
		o.ZeroTax.ReturnsAndAllowances
}

func (i *InputTotals) computeTotals() {
	i.TotalPurchases = i.Triplicate.sales() + i.CashRegisterElectronic.sales() +
		i.OtherCertificates.sales() - i.Returns.sales()
	i.TotalTax = i.Triplicate.tax() + i.CashRegisterElectronic.tax() +
		i.OtherCertificates.tax() - i.Returns.tax()
}
