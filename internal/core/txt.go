package core

import (
	"fmt"
	"sort"
	"strings"

	"taxfiler/internal/fixedwidth"
)

// ── Format and tax-type codes ─────────────────────────────────────────────────

// Ledger format codes, derived from (direction, invoice sub-type). Allowance
// rows carry the deduction-certificate codes 23/33.
var (
	inputFormatCodes = map[InvoiceType]string{
		InvoiceManualTriplicate:       "21",
		InvoiceElectronic:             "25",
		InvoiceCashRegisterTriplicate: "25",
		InvoiceManualDuplicate:        "22",
		InvoiceCashRegisterDuplicate:  "22",
	}
	outputFormatCodes = map[InvoiceType]string{
		InvoiceManualTriplicate:       "31",
		InvoiceElectronic:             "35",
		InvoiceCashRegisterTriplicate: "35",
		InvoiceManualDuplicate:        "32",
		InvoiceCashRegisterDuplicate:  "32",
	}
)

const (
	allowanceFormatCodeInput  = "23"
	allowanceFormatCodeOutput = "33"
)

func formatCodeFor(direction Direction, invoiceType InvoiceType) (string, error) {
	table := outputFormatCodes
	if direction == DirectionInput {
		table = inputFormatCodes
	}
	code, ok := table[invoiceType]
	if !ok {
		return "", fmt.Errorf("no ledger format code for %s %s", direction, invoiceType)
	}
	return code, nil
}

// taxTypeCode returns the single-character tax-type marker of byte 62.
func taxTypeCode(t TaxType) (string, error) {
	switch t {
	case TaxTaxable:
		return "1", nil
	case TaxZeroRate:
		return "2", nil
	case TaxExempt:
		return "3", nil
	case TaxVoided:
		return "F", nil
	case TaxAggregate:
		return "D", nil
	}
	return "", fmt.Errorf("no ledger tax-type code for %q", t)
}

// ── Row model ─────────────────────────────────────────────────────────────────

// ledgerRow is one logical 81-byte ledger row before sequencing.
type ledgerRow struct {
	formatCode    string
	serial        string
	buyerTaxID    string
	sellerTaxID   string
	sales         int64
	tax           int64
	taxCode       string
	deductionCode string // single char; blank for output rows
	aggregateMark string // "A" when a filler spans more than one number
	filler        bool
}

// render produces the 81-byte fixed-width line for the row at the given
// 1-based sequence position.
func (row ledgerRow) render(taxPayerID, yearMonth string, seq int) string {
	var b strings.Builder
	b.WriteString(fixedwidth.FormatX(row.formatCode, 2)) // 1-2   format code
	b.WriteString(fixedwidth.FormatX(taxPayerID, 9))     // 3-11  tax-payer ID
	b.WriteString(fixedwidth.Format9(int64(seq), 7))     // 12-18 sequence number
	b.WriteString(fixedwidth.FormatX(yearMonth, 5))      // 19-23 ROC year-month
	b.WriteString(fixedwidth.FormatX(row.buyerTaxID, 8)) // 24-31 buyer tax ID
	b.WriteString(fixedwidth.FormatX(row.sellerTaxID, 8)) // 32-39 seller tax ID
	b.WriteString(fixedwidth.FormatX(row.serial, 10))    // 40-49 invoice serial
	b.WriteString(fixedwidth.Format9(row.sales, 12))     // 50-61 sales amount
	b.WriteString(row.taxCode)                           // 62    tax-type code
	b.WriteString(fixedwidth.Format9(row.tax, 10))       // 63-72 tax amount
	b.WriteString(fixedwidth.FormatX(row.deductionCode, 1)) // 73 deduction code
	b.WriteString(strings.Repeat(" ", 5))                // 74-78 reserved
	b.WriteString(" ")                                   // 79    special tax-rate flag
	b.WriteString(fixedwidth.FormatX(row.aggregateMark, 1)) // 80 aggregate-block marker
	b.WriteString(" ")                                   // 81    customs marker
	return b.String()
}

// ── Row construction ──────────────────────────────────────────────────────────

func invoiceRow(inv Invoice) (ledgerRow, error) {
	formatCode, err := formatCodeFor(inv.Direction, inv.InvoiceType)
	if err != nil {
		return ledgerRow{}, err
	}
	taxCode, err := taxTypeCode(inv.TaxType)
	if err != nil {
		return ledgerRow{}, err
	}

	row := ledgerRow{
		formatCode:  formatCode,
		serial:      inv.SerialCode,
		buyerTaxID:  inv.BuyerTaxID,
		sellerTaxID: inv.SellerTaxID,
		sales:       inv.TotalSales,
		tax:         inv.Tax,
		taxCode:     taxCode,
		filler:      inv.TaxType == TaxAggregate,
	}

	switch inv.TaxType {
	case TaxVoided:
		// Voided rows are listed with zeroed amounts and a blank buyer.
		row.buyerTaxID = ""
		row.sales = 0
		row.tax = 0
	case TaxAggregate:
		row.sales = 0
		row.tax = 0
		if inv.BuyerTaxID != "" {
			// Buyer field holds the block-end tail: the filler spans a range.
			row.aggregateMark = "A"
		}
	}

	if inv.Direction == DirectionInput {
		if summaryMentionsFixedAsset(inv.Summary) {
			row.deductionCode = "2"
		} else {
			row.deductionCode = "1"
		}
	}
	return row, nil
}

func allowanceRow(client Client, alw Allowance) (ledgerRow, error) {
	taxCode, err := taxTypeCode(alw.TaxType)
	if err != nil {
		return ledgerRow{}, err
	}
	amount, tax := alw.EffectiveAmounts()

	row := ledgerRow{
		serial:  alw.OriginalSerialCode,
		sales:   amount,
		tax:     tax,
		taxCode: taxCode,
	}
	switch alw.Direction {
	case DirectionInput:
		row.formatCode = allowanceFormatCodeInput
		row.buyerTaxID = client.TaxID
		row.deductionCode = fmt.Sprintf("%d", alw.DeductionCode)
	case DirectionOutput:
		row.formatCode = allowanceFormatCodeOutput
		row.sellerTaxID = client.TaxID
	default:
		return ledgerRow{}, fmt.Errorf("unsupported direction %q on allowance %s", alw.Direction, alw.OriginalSerialCode)
	}
	return row, nil
}

// ── Assembly ──────────────────────────────────────────────────────────────────

// BuildTxtReport assembles the 81-byte-per-row ledger file. The invoices
// slice includes any synthesized filler rows (tax type 彙加). Input rows come
// first, sorted by (format code, serial); output rows follow, grouped by
// ascending format code with each group's real rows serial-sorted before its
// fillers. One sequence number runs across the whole file.
func BuildTxtReport(client Client, period FilingPeriod, invoices []Invoice, allowances []Allowance) (string, error) {
	var inputRows, outputReal, outputFillers []ledgerRow

	for _, inv := range invoices {
		switch inv.Direction {
		case DirectionInput:
			if !inv.Deductible {
				continue
			}
			row, err := invoiceRow(inv)
			if err != nil {
				return "", err
			}
			inputRows = append(inputRows, row)
		case DirectionOutput:
			row, err := invoiceRow(inv)
			if err != nil {
				return "", err
			}
			if row.filler {
				outputFillers = append(outputFillers, row)
			} else {
				outputReal = append(outputReal, row)
			}
		default:
			return "", fmt.Errorf("unsupported direction %q on invoice %s", inv.Direction, inv.SerialCode)
		}
	}

	for _, alw := range allowances {
		row, err := allowanceRow(client, alw)
		if err != nil {
			return "", err
		}
		if alw.Direction == DirectionInput {
			inputRows = append(inputRows, row)
		} else {
			outputReal = append(outputReal, row)
		}
	}

	sort.Slice(inputRows, func(i, j int) bool {
		if inputRows[i].formatCode != inputRows[j].formatCode {
			return inputRows[i].formatCode < inputRows[j].formatCode
		}
		return inputRows[i].serial < inputRows[j].serial
	})

	ordered := append(inputRows, orderOutputRows(outputReal, outputFillers)...)

	lines := make([]string, len(ordered))
	for i, row := range ordered {
		lines[i] = row.render(client.TaxPayerID, period.YearMonth, i+1)
	}
	return strings.Join(lines, "\n"), nil
}

// orderOutputRows groups output rows by format code (ascending) and appends
// each group's fillers after its serial-sorted real rows.
func orderOutputRows(real, fillers []ledgerRow) []ledgerRow {
	groups := map[string][]ledgerRow{}
	fillerGroups := map[string][]ledgerRow{}
	for _, row := range real {
		groups[row.formatCode] = append(groups[row.formatCode], row)
	}
	for _, row := range fillers {
		fillerGroups[row.formatCode] = append(fillerGroups[row.formatCode], row)
	}

	codes := map[string]bool{}
	for code := range groups {
		codes[code] = true
	}
	for code := range fillerGroups {
		codes[code] = true
	}
	ordered := make([]string, 0, len(codes))
	for code := range codes {
		ordered = append(ordered, code)
	}
	sort.Strings(ordered)

	var out []ledgerRow
	for _, code := range ordered {
		group := groups[code]
		sort.Slice(group, func(i, j int) bool { return group[i].serial < group[j].serial })
		out = append(out, group...)

		fg := fillerGroups[code]
		sort.Slice(fg, func(i, j int) bool { return fg[i].serial < fg[j].serial })
		out = append(out, fg...)
	}
	return out
}
