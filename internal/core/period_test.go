package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseROCYearMonth(t *testing.T) {
	year, month, err := ParseROCYearMonth("11409")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.September, month)

	year, month, err = ParseROCYearMonth("11312")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.December, month)

	for _, bad := range []string{"", "1149", "114091", "11413", "11400", "abcde"} {
		_, _, err := ParseROCYearMonth(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseSlashDate(t *testing.T) {
	d, err := ParseSlashDate("2025/09/03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), d)

	// ROC years are shifted into the Gregorian calendar.
	d, err = ParseSlashDate("114/09/03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "2025-09-03", "2025/13/01", "2025/00/01", "2025/09/32", "2025/09"} {
		_, err := ParseSlashDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestPeriodContains(t *testing.T) {
	p := FilingPeriod{YearMonth: "11409", Year: 2025, StartMonth: time.September, EndMonth: time.October}

	assert.True(t, p.Contains(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)))
}

func TestValidateInvoiceDates(t *testing.T) {
	p := FilingPeriod{YearMonth: "11409", Year: 2025, StartMonth: time.September, EndMonth: time.September}

	inside := Invoice{SerialCode: "AB00000001", Date: time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)}
	outside := Invoice{SerialCode: "AB00000002", Date: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}
	filler := Invoice{SerialCode: "AB00000003", Date: time.Time{}, TaxType: TaxAggregate}

	assert.NoError(t, ValidateInvoiceDates(p, []Invoice{inside, filler}))

	err := ValidateInvoiceDates(p, []Invoice{inside, outside})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AB00000002")
}
