package screener

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// parseLocaleNumber parses a pt-BR formatted number: "." as thousands
// separator, "," as decimal separator ("1.234.567,89").
func parseLocaleNumber(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, errors.New("empty numeric field")
	}

	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}

	return value, nil
}

// parsePercent parses a locale-formatted percentage ("6,54%" or "6,54")
// into its percent value.
func parsePercent(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	return parseLocaleNumber(cleaned)
}
