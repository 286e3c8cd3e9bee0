package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRoundTrip(t *testing.T) {
	// dd/mm/yyyy -> ISO -> dd/mm/yyyy deve ser identidade para datas válidas
	dates := []string{"01/01/2000", "29/02/2024", "31/12/1999", "15/07/1985"}

	for _, br := range dates {
		iso, err := BRToISO(br)
		assert.NoError(t, err, "date %s", br)

		back, err := ISOToBR(iso)
		assert.NoError(t, err)
		assert.Equal(t, br, back)
	}
}

func TestBRToISORejectsInvalidCalendarDates(t *testing.T) {
	invalid := []string{"31/02/2024", "29/02/2023", "00/01/2020", "32/01/2020", "10/13/2020", "2024-01-01"}

	for _, br := range invalid {
		_, err := BRToISO(br)
		assert.Error(t, err, "date %s", br)
	}
}

func TestParseDateAcceptsBothFormats(t *testing.T) {
	fromISO, err := ParseDate("1985-07-15")
	assert.NoError(t, err)

	fromBR, err := ParseDate("15/07/1985")
	assert.NoError(t, err)

	assert.True(t, fromISO.Equal(fromBR))
	assert.Equal(t, time.July, fromISO.Month())
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("ontem")
	assert.Error(t, err)
}

func TestFormatters(t *testing.T) {
	d := time.Date(1985, time.July, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1985-07-15", FormatISODate(d))
	assert.Equal(t, "15/07/1985", FormatBRDate(d))
}
