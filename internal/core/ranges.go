package core

import (
	"fmt"
	"regexp"
)

// electronicBlockSize is the allocation unit for electronic invoice numbers:
// blocks are handed out in runs of 50, aligned to multiples of 50.
const electronicBlockSize = 50

var serialPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{8}$`)

// SplitSerial parses a unified-invoice serial into its 2-letter prefix and
// 8-digit numeric tail.
func SplitSerial(serial string) (prefix string, tail int64, err error) {
	if !serialPattern.MatchString(serial) {
		return "", 0, fmt.Errorf("invalid invoice serial %q", serial)
	}
	for _, c := range serial[2:] {
		tail = tail*10 + int64(c-'0')
	}
	return serial[:2], tail, nil
}

func formatTail(tail int64) string {
	return fmt.Sprintf("%08d", tail)
}

// newFillerRow synthesizes the 彙加 ledger row covering the unused numbers
// [nextUnused, rangeEnd] of one declared block. When more than one number is
// unused the buyer-tax-ID field is overloaded with the block's end tail,
// signaling an aggregate block rather than a single unused number.
func newFillerRow(client Client, period FilingPeriod, invoiceType InvoiceType, prefix string, nextUnused, rangeEnd int64) Invoice {
	filler := Invoice{
		SerialCode:  prefix + formatTail(nextUnused),
		Date:        period.StartDate(),
		SellerTaxID: client.TaxID,
		TaxType:     TaxAggregate,
		InvoiceType: invoiceType,
		Direction:   DirectionOutput,
	}
	if nextUnused != rangeEnd {
		filler.BuyerTaxID = formatTail(rangeEnd)
	}
	return filler
}

// ReconcileRanges compares each declared invoice-number range against the
// serials actually consumed by the period's output invoices and synthesizes
// one filler row per partially consumed range. Electronic invoices issued
// without any declared range get a range inferred from their 50-number
// allocation block.
func ReconcileRanges(client Client, period FilingPeriod, ranges []InvoiceRange, invoices []Invoice) ([]Invoice, error) {
	var fillers []Invoice
	electronicDeclared := false

	for _, r := range ranges {
		if r.InvoiceType == InvoiceElectronic {
			electronicDeclared = true
		}

		prefix, start, err := SplitSerial(r.StartNumber)
		if err != nil {
			return nil, fmt.Errorf("range start: %w", err)
		}
		endPrefix, end, err := SplitSerial(r.EndNumber)
		if err != nil {
			return nil, fmt.Errorf("range end: %w", err)
		}
		if prefix != endPrefix {
			return nil, fmt.Errorf("range %s-%s spans letter prefixes", r.StartNumber, r.EndNumber)
		}
		if start > end {
			return nil, fmt.Errorf("range %s-%s is inverted", r.StartNumber, r.EndNumber)
		}

		nextUnused := start
		if maxTail, found := maxConsumedTail(invoices, r.InvoiceType, prefix, start, end); found {
			nextUnused = maxTail + 1
		}
		if nextUnused <= end {
			fillers = append(fillers, newFillerRow(client, period, r.InvoiceType, prefix, nextUnused, end))
		}
	}

	if !electronicDeclared {
		if filler, ok := inferElectronicFiller(client, period, invoices); ok {
			fillers = append(fillers, filler)
		}
	}
	return fillers, nil
}

// maxConsumedTail finds the highest serial tail among output invoices of the
// given type whose serial lies inside [start, end] under the range's prefix.
func maxConsumedTail(invoices []Invoice, invoiceType InvoiceType, prefix string, start, end int64) (int64, bool) {
	var maxTail int64
	found := false
	for _, inv := range invoices {
		if inv.Direction != DirectionOutput || inv.InvoiceType != invoiceType || inv.TaxType == TaxAggregate {
			continue
		}
		p, tail, err := SplitSerial(inv.SerialCode)
		if err != nil || p != prefix || tail < start || tail > end {
			continue
		}
		if !found || tail > maxTail {
			maxTail = tail
		}
		found = true
	}
	return maxTail, found
}

// inferElectronicFiller handles clients that issued electronic invoices but
// declared no range for them: the 50-number block containing the highest
// issued serial is taken as the implied allocation, and its remainder (if
// any) becomes the filler.
func inferElectronicFiller(client Client, period FilingPeriod, invoices []Invoice) (Invoice, bool) {
	var maxTail int64
	var prefix string
	found := false
	for _, inv := range invoices {
		if inv.Direction != DirectionOutput || inv.InvoiceType != InvoiceElectronic || inv.TaxType == TaxAggregate {
			continue
		}
		p, tail, err := SplitSerial(inv.SerialCode)
		if err != nil {
			continue
		}
		if !found || tail > maxTail {
			maxTail = tail
			prefix = p
		}
		found = true
	}
	if !found {
		return Invoice{}, false
	}

	blockEnd := maxTail - maxTail%electronicBlockSize + electronicBlockSize - 1
	if maxTail+1 > blockEnd {
		return Invoice{}, false
	}
	return newFillerRow(client, period, InvoiceElectronic, prefix, maxTail+1, blockEnd), true
}
