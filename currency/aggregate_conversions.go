package currency

// AggregateConversions layers the request-defined currency rate map found in
// request.ext.currency over the host's own rate source. It implements the
// Conversions interface.
type AggregateConversions struct {
	customRates, serverRates Conversions
}

// NewAggregateConversions expects both customRates and serverRates to not be nil
func NewAggregateConversions(customRates, serverRates Conversions) *AggregateConversions {
	return &AggregateConversions{
		customRates: customRates,
		serverRates: serverRates,
	}
}

// GetRate returns the conversion rate between two currencies, prioritizing
// the request-level custom rate over the server rate source. It returns an
// error when both sources fail.
func (re *AggregateConversions) GetRate(from string, to string) (float64, error) {
	rate, err := re.customRates.GetRate(from, to)
	if err == nil {
		return rate, nil
	} else if _, isMissingRateErr := err.(ConversionNotFoundError); !isMissingRateErr {
		// malformed or unknown currency code, no point retrying
		return 0, err
	}

	// the custom rates only miss the conversion pair, so the server rates
	// may still know it
	return re.serverRates.GetRate(from, to)
}

// GetRates is not implemented for AggregateConversions. There is no need to
// call this function for this scenario.
func (r *AggregateConversions) GetRates() *map[string]map[string]float64 {
	return nil
}
