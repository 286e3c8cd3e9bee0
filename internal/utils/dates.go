package utils

import (
	"fmt"
	"time"
)

const (
	isoDateLayout = "2006-01-02"
	brDateLayout  = "02/01/2006"
)

// ParseDate aceita datas em formato ISO (yyyy-mm-dd) ou brasileiro (dd/mm/yyyy)
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(brDateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date: %q (expected yyyy-mm-dd or dd/mm/yyyy)", s)
}

// FormatISODate formata uma data como yyyy-mm-dd
func FormatISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// FormatBRDate formata uma data como dd/mm/yyyy
func FormatBRDate(t time.Time) string {
	return t.Format(brDateLayout)
}

// BRToISO converte dd/mm/yyyy para yyyy-mm-dd, validando o calendário
func BRToISO(s string) (string, error) {
	t, err := time.Parse(brDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date: %q", s)
	}
	return t.Format(isoDateLayout), nil
}

// ISOToBR converte yyyy-mm-dd para dd/mm/yyyy
func ISOToBR(s string) (string, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date: %q", s)
	}
	return t.Format(brDateLayout), nil
}
