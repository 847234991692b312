package currency

import "fmt"

// ConversionNotFoundError is returned by Conversions GetRate(from, to) when
// neither the conversion rate between the two currencies nor its reciprocal
// can be found.
type ConversionNotFoundError struct {
	FromCur, ToCur string
}

func (err ConversionNotFoundError) Error() string {
	return fmt.Sprintf("Currency conversion rate not found: '%s' => '%s'", err.FromCur, err.ToCur)
}
