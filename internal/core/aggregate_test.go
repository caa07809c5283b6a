package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outputInvoice(serial string, invType InvoiceType, sales, tax int64, buyer string) Invoice {
	return Invoice{
		SerialCode:  serial,
		TotalSales:  sales,
		Tax:         tax,
		TaxType:     TaxTaxable,
		InvoiceType: invType,
		Direction:   DirectionOutput,
		BuyerTaxID:  buyer,
	}
}

func inputInvoice(serial string, invType InvoiceType, sales, tax int64, deductible bool) Invoice {
	return Invoice{
		SerialCode:  serial,
		TotalSales:  sales,
		Tax:         tax,
		TaxType:     TaxTaxable,
		InvoiceType: invType,
		Direction:   DirectionInput,
		Deductible:  deductible,
	}
}

func TestAggregateOutputBuckets(t *testing.T) {
	invoices := []Invoice{
		outputInvoice("AA00000001", InvoiceManualTriplicate, 1000, 50, "11111111"),
		outputInvoice("AA00000002", InvoiceElectronic, 2000, 100, "22222222"),
		outputInvoice("AA00000003", InvoiceCashRegisterTriplicate, 3000, 150, "33333333"),
		outputInvoice("AA00000004", InvoiceCashRegisterDuplicate, 4000, 200, "44444444"),
		outputInvoice("AA00000005", InvoiceManualDuplicate, 5000, 250, "55555555"),
	}

	totals, err := Aggregate(invoices, nil)
	require.NoError(t, err)

	out := totals.Output
	assert.Equal(t, Bucket{1000, 50}, out.Triplicate)
	assert.Equal(t, Bucket{5000, 250}, out.CashRegisterElectronic)
	assert.Equal(t, Bucket{9000, 450}, out.DuplicateCashRegister)
	assert.Equal(t, int64(15000), out.TotalSales)
	assert.Equal(t, int64(750), out.TotalTax)
	assert.Equal(t, 5, out.InvoiceCount)
}

func TestAggregateVoidedExcluded(t *testing.T) {
	invoices := []Invoice{
		outputInvoice("AA00000001", InvoiceManualTriplicate, 1000, 50, "11111111"),
		{
			SerialCode:  "AA00000002",
			TotalSales:  9999,
			Tax:         500,
			TaxType:     TaxVoided,
			InvoiceType: InvoiceManualTriplicate,
			Direction:   DirectionOutput,
		},
	}

	totals, err := Aggregate(invoices, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), totals.Output.TotalSales)
	assert.Equal(t, 1, totals.Output.InvoiceCount)
}

func TestAggregateConsumerTaxSplit(t *testing.T) {
	// Tax-inclusive B2C sale of 1050: tax portion = round(1050/1.05*0.05) = 50.
	invoices := []Invoice{
		outputInvoice("AA00000001", InvoiceElectronic, 1050, 0, ""),
	}

	totals, err := Aggregate(invoices, nil)
	require.NoError(t, err)

	out := totals.Output
	assert.Equal(t, int64(1000), out.CashRegisterElectronic.Sales)
	assert.Equal(t, int64(50), out.CashRegisterElectronic.Tax)
	assert.Equal(t, int64(1050), out.ConsumerSales)
	assert.Equal(t, int64(1000), out.TotalSales)
	assert.Equal(t, int64(50), out.TotalTax)
}

func TestAggregateConsumerTaxSplitRounding(t *testing.T) {
	// 100/1.05*0.05 = 4.7619 -> 5.
	invoices := []Invoice{
		outputInvoice("AA00000001", InvoiceCashRegisterTriplicate, 100, 0, ""),
	}

	totals, err := Aggregate(invoices, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), totals.Output.CashRegisterElectronic.Tax)
	assert.Equal(t, int64(95), totals.Output.CashRegisterElectronic.Sales)
}

func TestAggregateZeroRateAndExempt(t *testing.T) {
	invoices := []Invoice{
		{
			SerialCode:  "AA00000001",
			TotalSales:  8000,
			TaxType:     TaxZeroRate,
			InvoiceType: InvoiceElectronic,
			Direction:   DirectionOutput,
			BuyerTaxID:  "11111111",
		},
		{
			SerialCode:  "AA00000002",
			TotalSales:  3000,
			TaxType:     TaxExempt,
			InvoiceType: InvoiceManualTriplicate,
			Direction:   DirectionOutput,
			BuyerTaxID:  "22222222",
		},
	}

	totals, err := Aggregate(invoices, nil)
	require.NoError(t, err)

	out := totals.Output
	assert.Equal(t, int64(8000), out.ZeroTax.WithoutDocuments)
	assert.Equal(t, int64(8000), out.ZeroTax.Total)
	assert.Equal(t, Bucket{3000, 0}, out.ExemptFromIssuance)
	// Zero-rate sales are reported in their own section, not the taxable total.
	assert.Equal(t, int64(3000), out.TotalSales)
}

func TestAggregateLandAndFixedAssetSales(t *testing.T) {
	invoices := []Invoice{
		func() Invoice {
			inv := outputInvoice("AA00000001", InvoiceManualTriplicate, 500000, 25000, "11111111")
			inv.Summary = "出售土地"
			return inv
		}(),
		func() Invoice {
			inv := outputInvoice("AA00000002", InvoiceManualTriplicate, 80000, 4000, "22222222")
			inv.Summary = "出售生產設備"
			return inv
		}(),
	}

	totals, err := Aggregate(invoices, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), totals.Output.LandSales)
	assert.Equal(t, int64(80000), totals.Output.FixedAssetSales)
	assert.Equal(t, int64(580000), totals.Output.TotalSales)
}

func TestAggregateInputCategories(t *testing.T) {
	fa := inputInvoice("BB00000001", InvoiceManualTriplicate, 50000, 2500, true)
	fa.Summary = "購入固定資產"

	invoices := []Invoice{
		inputInvoice("BB00000002", InvoiceManualTriplicate, 1000, 50, true),
		fa,
		inputInvoice("BB00000003", InvoiceElectronic, 2000, 100, true),
		inputInvoice("BB00000004", InvoiceCashRegisterDuplicate, 3000, 150, true),
		inputInvoice("BB00000005", InvoiceManualDuplicate, 700, 35, false), // not deductible
	}

	totals, err := Aggregate(invoices, nil)
	require.NoError(t, err)

	in := totals.Input
	assert.Equal(t, Bucket{1000, 50}, in.Triplicate.Expense)
	assert.Equal(t, Bucket{50000, 2500}, in.Triplicate.FixedAsset)
	assert.Equal(t, Bucket{2000, 100}, in.CashRegisterElectronic.Expense)
	assert.Equal(t, Bucket{3000, 150}, in.OtherCertificates.Expense)
	assert.Equal(t, int64(56700), in.AllInputAmounts)
	assert.Equal(t, int64(56000), in.TotalPurchases)
	assert.Equal(t, int64(2800), in.TotalTax)
}

func TestAggregateAllowances(t *testing.T) {
	invoices := []Invoice{
		outputInvoice("AA00000001", InvoiceManualTriplicate, 10000, 500, "11111111"),
		inputInvoice("BB00000001", InvoiceManualTriplicate, 5000, 250, true),
	}
	allowances := []Allowance{
		{OriginalSerialCode: "AA00000001", Amount: 1000, TaxAmount: 50, Direction: DirectionOutput, TaxType: TaxTaxable},
		{OriginalSerialCode: "BB00000001", Amount: 500, TaxAmount: 25, DeductionCode: 1, Direction: DirectionInput, TaxType: TaxTaxable},
		{OriginalSerialCode: "BB00000002", Amount: 200, TaxAmount: 10, DeductionCode: 2, Direction: DirectionInput, TaxType: TaxTaxable},
	}

	totals, err := Aggregate(invoices, allowances)
	require.NoError(t, err)

	assert.Equal(t, Bucket{1000, 50}, totals.Output.ReturnsAndAllowances)
	assert.Equal(t, int64(9000), totals.Output.TotalSales)
	assert.Equal(t, int64(450), totals.Output.TotalTax)

	assert.Equal(t, Bucket{500, 25}, totals.Input.Returns.Expense)
	assert.Equal(t, Bucket{200, 10}, totals.Input.Returns.FixedAsset)
	assert.Equal(t, int64(4300), totals.Input.TotalPurchases)
	assert.Equal(t, int64(215), totals.Input.TotalTax)
}

func TestAggregateAllowanceItemsSupersede(t *testing.T) {
	allowances := []Allowance{
		{
			OriginalSerialCode: "AA00000001",
			Amount:             9999,
			TaxAmount:          999,
			Direction:          DirectionOutput,
			TaxType:            TaxTaxable,
			Items: []AllowanceItem{
				{Amount: 300, TaxAmount: 15},
				{Amount: 700, TaxAmount: 35},
			},
		},
	}

	totals, err := Aggregate(nil, allowances)
	require.NoError(t, err)
	assert.Equal(t, Bucket{1000, 50}, totals.Output.ReturnsAndAllowances)
}

func TestAggregateZeroRateAllowance(t *testing.T) {
	allowances := []Allowance{
		{OriginalSerialCode: "AA00000001", Amount: 400, Direction: DirectionOutput, TaxType: TaxZeroRate},
	}

	totals, err := Aggregate(nil, allowances)
	require.NoError(t, err)
	assert.Equal(t, int64(400), totals.Output.ZeroTax.ReturnsAndAllowances)
	assert.Equal(t, int64(-400), totals.Output.ZeroTax.Total)
	assert.Equal(t, Bucket{}, totals.Output.ReturnsAndAllowances)
}

func TestAggregateUnknownTypeFailsFast(t *testing.T) {
	_, err := Aggregate([]Invoice{{
		SerialCode:  "AA00000001",
		TaxType:     TaxTaxable,
		InvoiceType: InvoiceType("三聯式"),
		Direction:   DirectionOutput,
	}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AA00000001")

	_, err = Aggregate([]Invoice{{
		SerialCode: "AA00000002",
		TaxType:    TaxTaxable,
		Direction:  Direction("sideways"),
	}}, nil)
	require.Error(t, err)
}
