package convert

// Unit describes one convertible unit within a category. Factor is the
// number of base units per 1 of this unit; temperature units carry no
// factor and are converted through the Celsius pivot instead.
type Unit struct {
	Code   string
	Name   string
	Factor float64
}

// Category groups the units of one conversion domain. Units keeps display
// order; the first entry is the default from-unit on the form.
type Category struct {
	Code  string
	Label string
	Units []Unit
}

// categories is the static conversion table. Factors are base units per 1
// of the unit (metres, kilograms, litres).
var categories = []Category{
	{
		Code:  "length",
		Label: "Length",
		Units: []Unit{
			{Code: "km", Name: "Kilometers", Factor: 1000.0},
			{Code: "m", Name: "Meters", Factor: 1.0},
			{Code: "cm", Name: "Centimeters", Factor: 0.01},
			{Code: "mm", Name: "Millimeters", Factor: 0.001},
			{Code: "miles", Name: "Miles", Factor: 1609.34},
			{Code: "yards", Name: "Yards", Factor: 0.9144},
			{Code: "feet", Name: "Feet", Factor: 0.3048},
			{Code: "inches", Name: "Inches", Factor: 0.0254},
		},
	},
	{
		Code:  "weight",
		Label: "Weight",
		Units: []Unit{
			{Code: "kg", Name: "Kilograms", Factor: 1.0},
			{Code: "g", Name: "Grams", Factor: 0.001},
			{Code: "mg", Name: "Milligrams", Factor: 0.000001},
			{Code: "pounds", Name: "Pounds", Factor: 0.453592},
			{Code: "ounces", Name: "Ounces", Factor: 0.0283495},
		},
	},
	{
		Code:  "temperature",
		Label: "Temperature",
		Units: []Unit{
			{Code: "c", Name: "Celsius"},
			{Code: "f", Name: "Fahrenheit"},
			{Code: "k", Name: "Kelvin"},
		},
	},
	{
		Code:  "volume",
		Label: "Volume",
		Units: []Unit{
			{Code: "liters", Name: "Liters", Factor: 1.0},
			{Code: "ml", Name: "Milliliters", Factor: 0.001},
			{Code: "gallons", Name: "Gallons", Factor: 3.78541},
		},
	},
}

// Categories returns the category table in display order.
func Categories() []Category {
	return categories
}

// CategoryByCode looks up a category by its code.
func CategoryByCode(code string) (Category, bool) {
	for _, cat := range categories {
		if cat.Code == code {
			return cat, true
		}
	}
	return Category{}, false
}

// UnitsOf returns the units of a category in display order, or nil for an
// unknown category.
func UnitsOf(category string) []Unit {
	cat, ok := CategoryByCode(category)
	if !ok {
		return nil
	}
	return cat.Units
}

// UnitByCode looks up a unit within a category.
func UnitByCode(category, code string) (Unit, bool) {
	for _, u := range UnitsOf(category) {
		if u.Code == code {
			return u, true
		}
	}
	return Unit{}, false
}

// FactorOf returns the base-unit factor for a unit of a category. Temperature
// units report no factor.
func FactorOf(category, unit string) (float64, bool) {
	u, ok := UnitByCode(category, unit)
	if !ok || u.Factor == 0 {
		return 0, false
	}
	return u.Factor, true
}
