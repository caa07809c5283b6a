package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FilingPeriod is one VAT filing period of a client, identified by a
// Republic-of-China year-month string such as "11409" (ROC year 114 = 2025).
// A period covers one or two Gregorian months of the same year; the stored
// span is authoritative.
type FilingPeriod struct {
	ID         int64
	ClientID   int64
	YearMonth  string // ROC year-month, 5 characters
	Year       int    // Gregorian year
	StartMonth time.Month
	EndMonth   time.Month
}

// StartDate returns the first day of the period's first month. Filler rows
// synthesized for unused invoice numbers are dated here.
func (p FilingPeriod) StartDate() time.Time {
	return time.Date(p.Year, p.StartMonth, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether d falls inside the period's month span.
func (p FilingPeriod) Contains(d time.Time) bool {
	if d.Year() != p.Year {
		return false
	}
	return d.Month() >= p.StartMonth && d.Month() <= p.EndMonth
}

// ParseROCYearMonth splits a ROC year-month identifier ("11409") into its
// Gregorian year and month.
func ParseROCYearMonth(yearMonth string) (year int, month time.Month, err error) {
	if len(yearMonth) != 5 {
		return 0, 0, fmt.Errorf("invalid ROC year-month %q", yearMonth)
	}
	rocYear, err := strconv.Atoi(yearMonth[:3])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid ROC year-month %q", yearMonth)
	}
	m, err := strconv.Atoi(yearMonth[3:])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("invalid ROC year-month %q", yearMonth)
	}
	return rocYear + 1911, time.Month(m), nil
}

// ParseSlashDate parses a "YYYY/MM/DD" date, normalizing ROC years: a year
// below 1000 is read as ROC and shifted by 1911. Ingestion paths persist
// extracted dates in either calendar.
func ParseSlashDate(s string) (time.Time, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	if year < 1000 {
		year += 1911
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ValidateInvoiceDates checks that every non-filler invoice's derived date
// falls within the period's month span. Ingestion persists both the server
// computed period linkage and a date derived from extracted text; when the
// two disagree the linkage cannot be trusted and generation must abort.
func ValidateInvoiceDates(period FilingPeriod, invoices []Invoice) error {
	for _, inv := range invoices {
		if inv.TaxType == TaxAggregate {
			continue
		}
		if !period.Contains(inv.Date) {
			return fmt.Errorf("invoice %s dated %s falls outside filing period %s",
				inv.SerialCode, inv.Date.Format("2006/01/02"), period.YearMonth)
		}
	}
	return nil
}
