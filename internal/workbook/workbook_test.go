package workbook

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxfiler/internal/core"
)

func TestBuild(t *testing.T) {
	client := core.Client{TaxID: "60707504", TaxPayerID: "351406082", Name: "示範商行"}
	period := core.FilingPeriod{YearMonth: "11409", Year: 2025, StartMonth: time.September, EndMonth: time.September}

	inv := core.Invoice{
		SerialCode:  "AB12345678",
		Date:        time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		SellerTaxID: "60707504",
		BuyerTaxID:  "33333333",
		TotalSales:  40000,
		Tax:         2000,
		TaxType:     core.TaxTaxable,
		InvoiceType: core.InvoiceManualTriplicate,
		Direction:   core.DirectionOutput,
	}
	totals, err := core.Aggregate([]core.Invoice{inv}, nil)
	require.NoError(t, err)
	txt, err := core.BuildTxtReport(client, period, []core.Invoice{inv}, nil)
	require.NoError(t, err)

	f, err := Build(client, period, totals, txt)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{summarySheet, ledgerSheet}, f.GetSheetList())

	name, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "示範商行", name)

	serial, err := f.GetCellValue(ledgerSheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "AB12345678", serial)

	sales, err := f.GetCellValue(ledgerSheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "40000", strings.TrimLeft(sales, "0"))
}

func TestBuildRejectsMalformedLedger(t *testing.T) {
	_, err := Build(core.Client{}, core.FilingPeriod{}, &core.FilingTotals{}, "short line")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "81")
}

func TestBuildEmptyLedger(t *testing.T) {
	f, err := Build(core.Client{}, core.FilingPeriod{}, &core.FilingTotals{}, "")
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(ledgerSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Format code", header)
}
