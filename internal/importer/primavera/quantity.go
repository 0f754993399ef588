package primavera

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanQuantity parses a European-formatted quantity string into whole
// units. Format examples: "1.250,00" -> 1250, "-10,00" -> -10, "40" -> 40.
// Fractional parts are rounded to the nearest unit.
func parseEuropeanQuantity(s string) (int64, error) {
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Round(0).IntPart(), nil
}
