package currency

import (
	"github.com/openfloor/openfloor/openrtb_ext"
)

// GetAuctionCurrencyRates selects the Conversions view one resolution should
// use, given the host's rate source and the optional custom rates carried on
// request.ext.currency. Custom rates win whenever a pair is found in both.
func GetAuctionCurrencyRates(serverRates Conversions, requestRates *openrtb_ext.ExtRequestCurrency) Conversions {
	if serverRates == nil && requestRates == nil {
		return nil
	}

	if requestRates == nil {
		// no request.ext.currency field was found, use the host rates as usual
		return serverRates
	}

	if serverRates == nil {
		return NewRates(requestRates.ConversionRates)
	}

	// If request.ext.currency.usepbsrates is nil, we understand its value as
	// true. It will be false only if it's explicitly set to false.
	usePbsRates := requestRates.UsePBSRates == nil || *requestRates.UsePBSRates

	if !usePbsRates {
		return NewRates(requestRates.ConversionRates)
	}

	if len(requestRates.ConversionRates) == 0 {
		// custom rates map is empty, use the host rates only
		return serverRates
	}

	return NewAggregateConversions(NewRates(requestRates.ConversionRates), serverRates)
}
