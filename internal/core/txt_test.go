package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	txtClient = Client{TaxID: "60707504", TaxPayerID: "351406082"}
	txtPeriod = FilingPeriod{YearMonth: "11409", Year: 2025, StartMonth: time.September, EndMonth: time.September}
)

func buildLines(t *testing.T, invoices []Invoice, allowances []Allowance) []string {
	t.Helper()
	txt, err := BuildTxtReport(txtClient, txtPeriod, invoices, allowances)
	require.NoError(t, err)
	if txt == "" {
		return nil
	}
	return strings.Split(txt, "\n")
}

func TestBuildTxtReportRowLayout(t *testing.T) {
	inv := outputInvoice("AB12345678", InvoiceManualTriplicate, 40000, 2000, "33333333")
	lines := buildLines(t, []Invoice{inv}, nil)
	require.Len(t, lines, 1)

	line := lines[0]
	require.Len(t, line, 81)

	assert.Equal(t, "31", line[0:2], "format code")
	assert.Equal(t, "351406082", line[2:11], "tax-payer ID")
	assert.Equal(t, "0000001", line[11:18], "sequence")
	assert.Equal(t, "11409", line[18:23], "period")
	assert.Equal(t, "33333333", line[23:31], "buyer")
	assert.Equal(t, "        ", line[31:39], "seller blank on own sales")
	assert.Equal(t, "AB12345678", line[39:49], "serial")
	assert.Equal(t, "000000040000", line[49:61], "sales")
	assert.Equal(t, "1", line[61:62], "tax-type code")
	assert.Equal(t, "0000002000", line[62:72], "tax")
	assert.Equal(t, " ", line[72:73], "deduction code blank on output")
	assert.Equal(t, strings.Repeat(" ", 8), line[73:81], "trailer")
}

func TestBuildTxtReportInputRow(t *testing.T) {
	inv := inputInvoice("CD00000001", InvoiceElectronic, 95, 5, true)
	inv.SellerTaxID = "22222222"
	inv.BuyerTaxID = txtClient.TaxID

	lines := buildLines(t, []Invoice{inv}, nil)
	require.Len(t, lines, 1)

	line := lines[0]
	require.Len(t, line, 81)
	assert.Equal(t, "25", line[0:2])
	assert.Equal(t, "60707504", line[23:31], "buyer is the filing client")
	assert.Equal(t, "22222222", line[31:39], "seller")
	assert.Equal(t, "1", line[72:73], "ordinary purchase deduction code")
}

func TestBuildTxtReportFixedAssetDeductionCode(t *testing.T) {
	inv := inputInvoice("CD00000001", InvoiceManualTriplicate, 50000, 2500, true)
	inv.Summary = "購入設備"

	lines := buildLines(t, []Invoice{inv}, nil)
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0][72:73])
}

func TestBuildTxtReportSkipsNonDeductibleInputs(t *testing.T) {
	lines := buildLines(t, []Invoice{
		inputInvoice("CD00000001", InvoiceManualTriplicate, 100, 5, false),
	}, nil)
	assert.Empty(t, lines)
}

func TestBuildTxtReportVoidedRow(t *testing.T) {
	inv := Invoice{
		SerialCode:  "AB00000009",
		TotalSales:  9999,
		Tax:         500,
		BuyerTaxID:  "33333333",
		TaxType:     TaxVoided,
		InvoiceType: InvoiceManualTriplicate,
		Direction:   DirectionOutput,
	}

	lines := buildLines(t, []Invoice{inv}, nil)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, strings.Repeat(" ", 8), line[23:31], "buyer blanked")
	assert.Equal(t, "000000000000", line[49:61], "sales zeroed")
	assert.Equal(t, "F", line[61:62])
	assert.Equal(t, "0000000000", line[62:72], "tax zeroed")
}

func TestBuildTxtReportFillerRow(t *testing.T) {
	filler := newFillerRow(txtClient, txtPeriod, InvoiceManualTriplicate, "AB", 5, 10)

	lines := buildLines(t, []Invoice{filler}, nil)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "31", line[0:2])
	assert.Equal(t, "00000010", line[23:31], "buyer overloaded with block end")
	assert.Equal(t, "AB00000005", line[39:49])
	assert.Equal(t, "D", line[61:62])
	assert.Equal(t, "A", line[79:80], "aggregate-block marker")

	// Single unused number: no block end, no marker.
	single := newFillerRow(txtClient, txtPeriod, InvoiceManualTriplicate, "AB", 10, 10)
	lines = buildLines(t, []Invoice{single}, nil)
	require.Len(t, lines, 1)
	assert.Equal(t, strings.Repeat(" ", 8), lines[0][23:31])
	assert.Equal(t, " ", lines[0][79:80])
}

func TestBuildTxtReportAllowanceRows(t *testing.T) {
	allowances := []Allowance{
		{OriginalSerialCode: "AB00000001", Amount: 1000, TaxAmount: 50, Direction: DirectionOutput, TaxType: TaxTaxable},
		{OriginalSerialCode: "CD00000001", Amount: 500, TaxAmount: 25, DeductionCode: 2, Direction: DirectionInput, TaxType: TaxTaxable},
	}

	lines := buildLines(t, nil, allowances)
	require.Len(t, lines, 2)

	// Input allowance (23) precedes the output allowance (33).
	in := lines[0]
	assert.Equal(t, "23", in[0:2])
	assert.Equal(t, "60707504", in[23:31], "buyer is the filing client")
	assert.Equal(t, "2", in[72:73])

	out := lines[1]
	assert.Equal(t, "33", out[0:2])
	assert.Equal(t, "60707504", out[31:39], "seller is the filing client")
	assert.Equal(t, "000000001000", out[49:61])
}

func TestBuildTxtReportOrderingAndSequence(t *testing.T) {
	invoices := []Invoice{
		outputInvoice("GH20000002", InvoiceElectronic, 200, 10, "22222222"),
		outputInvoice("AB00000002", InvoiceManualTriplicate, 100, 5, "11111111"),
		outputInvoice("AB00000001", InvoiceManualTriplicate, 100, 5, "11111111"),
		newFillerRow(txtClient, txtPeriod, InvoiceManualTriplicate, "AB", 3, 10),
		outputInvoice("GH20000001", InvoiceElectronic, 200, 10, "22222222"),
		inputInvoice("XY00000001", InvoiceElectronic, 95, 5, true),
		inputInvoice("CD00000001", InvoiceManualTriplicate, 107, 5, true),
	}

	lines := buildLines(t, invoices, nil)
	require.Len(t, lines, 7)

	var got []string
	for i, line := range lines {
		got = append(got, line[0:2]+" "+line[39:49])
		assert.Equal(t, string(rune('1'+i)), line[17:18], "sequence digit of row %d", i)
	}

	want := []string{
		"21 CD00000001", // inputs first, by format code then serial
		"25 XY00000001",
		"31 AB00000001", // output group 31: real rows by serial
		"31 AB00000002",
		"31 AB00000003", // then the group's filler
		"35 GH20000001", // next format-code group
		"35 GH20000002",
	}
	assert.Equal(t, want, got)
}
