package core

import (
	"fmt"
	"time"
)

// TaxType classifies an invoice or allowance for VAT purposes.
type TaxType string

const (
	TaxTaxable   TaxType = "taxable"
	TaxZeroRate  TaxType = "zero_rate"
	TaxExempt    TaxType = "exempt"
	TaxVoided    TaxType = "voided"
	TaxAggregate TaxType = "aggregate" // synthetic filler for unused invoice numbers
)

// InvoiceType is the statutory unified-invoice sub-type.
type InvoiceType string

const (
	InvoiceManualDuplicate        InvoiceType = "manual_duplicate"
	InvoiceManualTriplicate       InvoiceType = "manual_triplicate"
	InvoiceElectronic             InvoiceType = "electronic"
	InvoiceCashRegisterDuplicate  InvoiceType = "cash_register_duplicate"
	InvoiceCashRegisterTriplicate InvoiceType = "cash_register_triplicate"
)

// Direction distinguishes purchase-side (input) from sales-side (output) records.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// The persistence layer stores these value spaces as the Chinese literals the
// upstream review workflow produces. Translation happens only at the scan
// boundary; everything past it operates on the typed constants above.
var (
	taxTypeLabels = map[string]TaxType{
		"應稅":  TaxTaxable,
		"零稅率": TaxZeroRate,
		"免稅":  TaxExempt,
		"作廢":  TaxVoided,
		"彙加":  TaxAggregate,
	}
	invoiceTypeLabels = map[string]InvoiceType{
		"手開二聯式":  InvoiceManualDuplicate,
		"手開三聯式":  InvoiceManualTriplicate,
		"電子發票":   InvoiceElectronic,
		"二聯式收銀機": InvoiceCashRegisterDuplicate,
		"三聯式收銀機": InvoiceCashRegisterTriplicate,
	}
	directionLabels = map[string]Direction{
		"進項": DirectionInput,
		"銷項": DirectionOutput,
	}
)

// ParseTaxType translates a stored Chinese tax-type label.
func ParseTaxType(label string) (TaxType, error) {
	t, ok := taxTypeLabels[label]
	if !ok {
		return "", fmt.Errorf("unsupported tax type %q", label)
	}
	return t, nil
}

// ParseInvoiceType translates a stored Chinese invoice-type label.
func ParseInvoiceType(label string) (InvoiceType, error) {
	t, ok := invoiceTypeLabels[label]
	if !ok {
		return "", fmt.Errorf("unsupported invoice type %q", label)
	}
	return t, nil
}

// ParseDirection translates a stored Chinese direction label.
func ParseDirection(label string) (Direction, error) {
	d, ok := directionLabels[label]
	if !ok {
		return "", fmt.Errorf("unsupported direction %q", label)
	}
	return d, nil
}

// Client is the filing firm. TaxID is the 8-digit 統一編號; TaxPayerID is the
// 9-character tax registration number written into every ledger row.
type Client struct {
	ID         int64
	TaxID      string
	TaxPayerID string
	Name       string
	County     string
}

// Invoice is one confirmed invoice record, already normalized by the upstream
// review workflow. SerialCode is the unified-invoice serial: 2 uppercase
// letters + 8 digits. Extra carries extraction metadata (confidence scores,
// passthrough keys) that the aggregation pipeline never reads.
type Invoice struct {
	ID          int64
	SerialCode  string
	Date        time.Time
	SellerTaxID string
	BuyerTaxID  string // empty for consumer (B2C) sales
	TotalSales  int64
	Tax         int64
	TotalAmount int64
	TaxType     TaxType
	InvoiceType InvoiceType
	Direction   Direction
	Deductible  bool
	Summary     string
	Extra       map[string]any
}

// AllowanceItem is one line of a multi-line allowance. When a record carries
// items, their sums supersede the record's scalar amount and tax.
type AllowanceItem struct {
	Amount    int64
	TaxAmount int64
}

// Allowance is a credit note reducing a previously issued invoice.
// DeductionCode is 1 for ordinary purchase/expense, 2 for fixed assets.
type Allowance struct {
	ID                 int64
	OriginalSerialCode string
	Date               time.Time
	Amount             int64
	TaxAmount          int64
	DeductionCode      int
	Direction          Direction
	TaxType            TaxType
	Items              []AllowanceItem
}

// EffectiveAmounts returns the allowance's amount and tax, preferring the sum
// of its line items when any are present.
func (a Allowance) EffectiveAmounts() (amount, tax int64) {
	if len(a.Items) == 0 {
		return a.Amount, a.TaxAmount
	}
	for _, it := range a.Items {
		amount += it.Amount
		tax += it.TaxAmount
	}
	return amount, tax
}

// InvoiceRange is a client-declared block of invoice numbers for one filing
// period, used to detect numbers within the block that were never issued.
type InvoiceRange struct {
	ID          int64
	InvoiceType InvoiceType
	StartNumber string
	EndNumber   string
}

// TetUConfig carries the filer/declarant metadata of the TET_U declaration.
// It is supplied per client, not derived from invoices.
type TetUConfig struct {
	DeclarationType   string // media-file declaration type, e.g. "401"
	DeclarationCode   string // 1 = self-filed, 2 = filed through an agent
	DeclarantName     string
	DeclarantPhone    string
	AgentRegistration string
	PriorPeriodCredit int64 // credit carried forward from the previous period
	MidYearClosureTax int64 // tax already settled by a mid-year closure filing
}

// DefaultTetUConfig is used when a client has no stored declaration config.
func DefaultTetUConfig() TetUConfig {
	return TetUConfig{
		DeclarationType: "401",
		DeclarationCode: "1",
	}
}
