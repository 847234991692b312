package openrtb_ext

// ExtRequest defines the contract for bidrequest.ext
type ExtRequest struct {
	Prebid ExtRequestPrebid `json:"prebid"`
}

// ExtRequestPrebid defines the contract for bidrequest.ext.prebid
type ExtRequestPrebid struct {
	Channel *ExtRequestPrebidChannel `json:"channel,omitempty"`
	Floors  *PriceFloorRules         `json:"floors,omitempty"`
}

// ExtRequestPrebidChannel defines the contract for bidrequest.ext.prebid.channel
type ExtRequestPrebidChannel struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// ExtRequestCurrency defines the contract for bidrequest.ext.currency
type ExtRequestCurrency struct {
	ConversionRates map[string]map[string]float64 `json:"rates,omitempty"`
	UsePBSRates     *bool                         `json:"usepbsrates,omitempty"`
}
