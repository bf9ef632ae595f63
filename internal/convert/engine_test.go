// Package convert_test tests the conversion engine.
package convert_test

import (
	"math"
	"testing"

	"github.com/kvolkova/unitconv/internal/convert"
)

const tolerance = 1e-9

func TestConvert(t *testing.T) {
	t.Parallel()

	type convertTestCase struct {
		name     string
		category string
		value    float64
		from     string
		to       string
		expected float64
		wantOK   bool
	}

	testGroups := map[string][]convertTestCase{
		"Length": {
			{
				name:     "Kilometers to meters",
				category: "length",
				value:    1,
				from:     "km",
				to:       "m",
				expected: 1000,
				wantOK:   true,
			},
			{
				name:     "Meters to centimeters",
				category: "length",
				value:    2.5,
				from:     "m",
				to:       "cm",
				expected: 250,
				wantOK:   true,
			},
			{
				name:     "Feet to inches",
				category: "length",
				value:    1,
				from:     "feet",
				to:       "inches",
				expected: 12,
				wantOK:   true,
			},
		},
		"Weight": {
			{
				name:     "Kilograms to grams",
				category: "weight",
				value:    3,
				from:     "kg",
				to:       "g",
				expected: 3000,
				wantOK:   true,
			},
			{
				name:     "Pounds to kilograms",
				category: "weight",
				value:    1,
				from:     "pounds",
				to:       "kg",
				expected: 0.453592,
				wantOK:   true,
			},
		},
		"Volume": {
			{
				name:     "Liters to milliliters",
				category: "volume",
				value:    1.5,
				from:     "liters",
				to:       "ml",
				expected: 1500,
				wantOK:   true,
			},
			{
				name:     "Gallons to liters",
				category: "volume",
				value:    2,
				from:     "gallons",
				to:       "liters",
				expected: 7.57082,
				wantOK:   true,
			},
		},
		"Temperature": {
			{
				name:     "Freezing point Celsius to Fahrenheit",
				category: "temperature",
				value:    0,
				from:     "c",
				to:       "f",
				expected: 32,
				wantOK:   true,
			},
			{
				name:     "Freezing point Fahrenheit to Celsius",
				category: "temperature",
				value:    32,
				from:     "f",
				to:       "c",
				expected: 0,
				wantOK:   true,
			},
			{
				name:     "Celsius to Kelvin",
				category: "temperature",
				value:    0,
				from:     "c",
				to:       "k",
				expected: 273.15,
				wantOK:   true,
			},
			{
				name:     "Kelvin to Fahrenheit",
				category: "temperature",
				value:    273.15,
				from:     "k",
				to:       "f",
				expected: 32,
				wantOK:   true,
			},
			{
				name:     "Unknown from-unit treated as Celsius",
				category: "temperature",
				value:    100,
				from:     "rankine",
				to:       "c",
				expected: 100,
				wantOK:   true,
			},
			{
				name:     "Unknown to-unit returns Celsius",
				category: "temperature",
				value:    32,
				from:     "f",
				to:       "rankine",
				expected: 0,
				wantOK:   true,
			},
		},
		"NotFound": {
			{
				name:     "Unknown category",
				category: "pressure",
				value:    1,
				from:     "pa",
				to:       "bar",
				wantOK:   false,
			},
			{
				name:     "Unknown from-unit",
				category: "length",
				value:    1,
				from:     "furlongs",
				to:       "m",
				wantOK:   false,
			},
			{
				name:     "Unknown to-unit",
				category: "length",
				value:    1,
				from:     "m",
				to:       "furlongs",
				wantOK:   false,
			},
			{
				name:     "Cross-category unit",
				category: "weight",
				value:    1,
				from:     "feet",
				to:       "kg",
				wantOK:   false,
			},
		},
	}

	for groupName, cases := range testGroups {
		for _, tc := range cases {
			t.Run(groupName+"/"+tc.name, func(t *testing.T) {
				t.Parallel()
				got, ok := convert.Convert(tc.category, tc.value, tc.from, tc.to)
				if ok != tc.wantOK {
					t.Fatalf("Convert() ok = %v, want %v", ok, tc.wantOK)
				}
				if !tc.wantOK {
					return
				}
				if math.Abs(got-tc.expected) > tolerance {
					t.Errorf("Convert() = %v, want %v", got, tc.expected)
				}
			})
		}
	}
}

// TestConvertRoundTrip verifies that converting a value to another unit and
// back recovers the original within floating-point tolerance, across every
// valid unit pair of every linear category.
func TestConvertRoundTrip(t *testing.T) {
	t.Parallel()

	values := []float64{0.001, 1, 42.5, 1000}

	for _, cat := range convert.Categories() {
		if cat.Code == "temperature" {
			continue
		}
		for _, from := range cat.Units {
			for _, to := range cat.Units {
				for _, v := range values {
					mid, ok := convert.Convert(cat.Code, v, from.Code, to.Code)
					if !ok {
						t.Fatalf("Convert(%s, %v, %s, %s) unexpectedly not found", cat.Code, v, from.Code, to.Code)
					}
					back, ok := convert.Convert(cat.Code, mid, to.Code, from.Code)
					if !ok {
						t.Fatalf("Convert(%s, %v, %s, %s) unexpectedly not found", cat.Code, mid, to.Code, from.Code)
					}
					if math.Abs(back-v) > tolerance*math.Max(1, math.Abs(v)) {
						t.Errorf("round trip %s %s<->%s: %v -> %v -> %v", cat.Code, from.Code, to.Code, v, mid, back)
					}
				}
			}
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		value    float64
		expected string
	}{
		{"Whole number", 100.0, "100"},
		{"Trailing zeros stripped", 33.33, "33.33"},
		{"Four decimals kept", 0.4536, "0.4536"},
		{"Rounded to four decimals", 0.45359237, "0.4536"},
		{"Zero", 0, "0"},
		{"Negative", -40.0, "-40"},
		{"Small value", 0.001, "0.001"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := convert.Format(tc.value); got != tc.expected {
				t.Errorf("Format(%v) = %q, want %q", tc.value, got, tc.expected)
			}
		})
	}
}

func TestLookups(t *testing.T) {
	t.Parallel()

	t.Run("Categories are stable and complete", func(t *testing.T) {
		t.Parallel()
		want := []string{"length", "weight", "temperature", "volume"}
		cats := convert.Categories()
		if len(cats) != len(want) {
			t.Fatalf("Categories() returned %d entries, want %d", len(cats), len(want))
		}
		for i, code := range want {
			if cats[i].Code != code {
				t.Errorf("Categories()[%d].Code = %q, want %q", i, cats[i].Code, code)
			}
		}
	})

	t.Run("Unknown category has no units", func(t *testing.T) {
		t.Parallel()
		if units := convert.UnitsOf("pressure"); units != nil {
			t.Errorf("UnitsOf(pressure) = %v, want nil", units)
		}
	})

	t.Run("Linear factors are positive", func(t *testing.T) {
		t.Parallel()
		for _, cat := range convert.Categories() {
			if cat.Code == "temperature" {
				continue
			}
			for _, u := range cat.Units {
				f, ok := convert.FactorOf(cat.Code, u.Code)
				if !ok || f <= 0 {
					t.Errorf("FactorOf(%s, %s) = %v, %v; want positive factor", cat.Code, u.Code, f, ok)
				}
			}
		}
	})

	t.Run("Temperature units report no factor", func(t *testing.T) {
		t.Parallel()
		if _, ok := convert.FactorOf("temperature", "c"); ok {
			t.Error("FactorOf(temperature, c) reported a factor")
		}
	})
}
