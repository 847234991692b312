package currency

import (
	"golang.org/x/text/currency"
)

// ConstantRates accepts only conversions where both currencies are the same
// and returns an error for everything else. It is the Conversions
// implementation for hosts with no rate source configured.
type ConstantRates struct{}

// NewConstantRates creates a new ConstantRates object
func NewConstantRates() *ConstantRates {
	return &ConstantRates{}
}

// GetRate returns 1 if both currencies are the same valid ISO-4217 code.
// If not, it will return an error.
func (r *ConstantRates) GetRate(from string, to string) (float64, error) {
	fromUnit, err := currency.ParseISO(from)
	if err != nil {
		return 0, err
	}
	toUnit, err := currency.ParseISO(to)
	if err != nil {
		return 0, err
	}

	if fromUnit.String() != toUnit.String() {
		return 0, ConversionNotFoundError{FromCur: fromUnit.String(), ToCur: toUnit.String()}
	}

	return 1, nil
}

// GetRates returns current rates
func (r *ConstantRates) GetRates() *map[string]map[string]float64 {
	return nil
}
