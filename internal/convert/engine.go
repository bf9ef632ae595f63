// Package convert implements unit conversion over a static category table.
// Linear categories convert through a base unit; temperature converts
// through a Celsius pivot.
package convert

import (
	"fmt"
	"strings"
)

// Convert converts value from one unit to another within a category. The
// second return value is false when the category is unknown or, for linear
// categories, when either unit code is not part of the category.
func Convert(category string, value float64, fromUnit, toUnit string) (float64, bool) {
	cat, ok := CategoryByCode(category)
	if !ok {
		return 0, false
	}

	if cat.Code == "temperature" {
		return convertTemperature(value, fromUnit, toUnit), true
	}

	fromFactor, ok := FactorOf(category, fromUnit)
	if !ok {
		return 0, false
	}
	toFactor, ok := FactorOf(category, toUnit)
	if !ok {
		return 0, false
	}

	base := value * fromFactor
	return base / toFactor, true
}

// convertTemperature pivots through Celsius. Unrecognized codes fall back to
// Celsius on both sides; that leniency is long-standing observed behavior
// and is preserved as-is.
func convertTemperature(value float64, fromUnit, toUnit string) float64 {
	celsius := value
	switch fromUnit {
	case "f":
		celsius = (value - 32) * 5 / 9
	case "k":
		celsius = value - 273.15
	}

	switch toUnit {
	case "f":
		return celsius*9/5 + 32
	case "k":
		return celsius + 273.15
	default:
		return celsius
	}
}

// Format renders a conversion result for display: four decimal places with
// trailing zeros and a trailing decimal point stripped, so 100.0000 becomes
// "100" and 33.3300 becomes "33.33".
func Format(value float64) string {
	s := fmt.Sprintf("%.4f", value)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
