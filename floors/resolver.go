package floors

import (
	"encoding/json"

	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/shopspring/decimal"

	"github.com/openfloor/openfloor/currency"
	"github.com/openfloor/openfloor/openrtb_ext"
	"github.com/openfloor/openfloor/util/logutil"
)

const (
	defaultRulesCurrency = "USD"
	defaultDelimiter     = "|"
	catchAll             = "*"
	videoAlias           = "video-instream"

	devicePhone   = "phone"
	deviceTablet  = "tablet"
	deviceDesktop = "desktop"

	// price floors are resolved to at most four decimal places
	floorPriceScale = 4

	conversionLogSamplingRate = 0.01
)

// CountryCodeMapper resolves ISO-3166-1 alpha-2 country codes to alpha-3,
// returning "" for unknown codes.
type CountryCodeMapper interface {
	MapToAlpha3(alpha2 string) string
}

// PriceFloorResult is the outcome of one floor resolution: the matched rule
// key (empty when no rule matched), the raw floor attributed to that rule,
// and the final price after floor-minimum reconciliation and rounding.
type PriceFloorResult struct {
	FloorRule      string
	FloorRuleValue decimal.Decimal
	FloorValue     decimal.Decimal
	FloorCurrency  string
}

type price struct {
	currency string
	value    decimal.Decimal
}

// PriceFloorResolver determines the minimum acceptable bid price for one
// impression against one floor model group. It holds no mutable state, so a
// single resolver may serve any number of concurrent resolutions.
type PriceFloorResolver struct {
	countryCodeMapper CountryCodeMapper
	extractors        map[string]fieldExtractor
	conversionLogger  *logutil.ConditionalLogger
}

func NewPriceFloorResolver(countryCodeMapper CountryCodeMapper) *PriceFloorResolver {
	resolver := &PriceFloorResolver{
		countryCodeMapper: countryCodeMapper,
		conversionLogger:  logutil.NewConditionalLogger(conversionLogSamplingRate),
	}
	resolver.extractors = map[string]fieldExtractor{
		SiteDomain: siteDomainFromRequest,
		PubDomain:  pubDomainFromRequest,
		Domain:     domainFromRequest,
		Bundle:     bundleFromRequest,
		Channel:    channelFromRequest,
		MediaType:  mediaTypeToRuleKey,
		Size:       sizeFromImp,
		GptSlot:    gptSlotFromImp,
		PbAdSlot:   pbAdSlotFromImp,
		Country:    resolver.countryFromRequest,
		DeviceType: deviceTypeFromRequest,
	}
	return resolver
}

// Resolve returns the price floor for one impression of the given request in
// the desired settlement currency, or (nil, nil) when the model group places
// no floor constraint on it. mediaType and format, when set, pin down fields
// the caller has already disambiguated. The only error is the configuration
// defect of a schema field the resolver does not know.
func (r *PriceFloorResolver) Resolve(request *openrtb2.BidRequest,
	modelGroup *openrtb_ext.PriceFloorModelGroup,
	imp *openrtb2.Imp,
	mediaType openrtb_ext.ImpMediaType,
	format *openrtb2.Format,
	desiredCurrency string,
	conversions currency.Conversions) (*PriceFloorResult, error) {

	if modelGroup == nil || len(modelGroup.Schema.Fields) == 0 || len(modelGroup.Values) == 0 {
		return nil, nil
	}

	delimiter := modelGroup.Schema.Delimiter
	if delimiter == "" {
		delimiter = defaultDelimiter
	}

	desiredRuleKey, err := r.createRuleKey(modelGroup.Schema, request, imp, mediaType, format)
	if err != nil {
		return nil, err
	}

	rules := keysToLowerCase(modelGroup.Values)

	rule, matched := findRule(rules, delimiter, desiredRuleKey)

	var floorForRule, floor *decimal.Decimal
	if matched {
		matchedFloor := rules[rule]
		floorForRule = &matchedFloor
		floor = &matchedFloor
	} else {
		floor = modelGroup.Default
	}

	return r.resolveResult(request, floor, rule, floorForRule, modelGroup.Currency, desiredCurrency, conversions), nil
}

// resolveResult applies currency normalization and the floor vs
// floor-minimum policy. Both sides are converted into the desired currency
// when one is given; a side whose conversion fails is unavailable for the
// comparison. With both sides in the same currency the greater value wins,
// ties favoring the floor-minimum. Otherwise the floor wins when available,
// then the floor-minimum; with neither available the result is absent.
func (r *PriceFloorResolver) resolveResult(request *openrtb2.BidRequest,
	floor *decimal.Decimal,
	rule string,
	floorForRule *decimal.Decimal,
	rulesCurrency string,
	desiredCurrency string,
	conversions currency.Conversions) *PriceFloorResult {

	if floor == nil {
		return nil
	}

	floorMin, floorMinCur := floorMinFromRequest(request)

	effectiveRulesCurrency := rulesCurrency
	if effectiveRulesCurrency == "" {
		effectiveRulesCurrency = defaultRulesCurrency
	}
	effectiveFloorMinCurrency := floorMinCur
	if effectiveFloorMinCurrency == "" {
		effectiveFloorMinCurrency = defaultRulesCurrency
	}

	effectiveFloor := r.effectivePrice(*floor, effectiveRulesCurrency, desiredCurrency, conversions)

	var effectiveFloorMin *price
	if floorMin != nil {
		effectiveFloorMin = r.effectivePrice(*floorMin, effectiveFloorMinCurrency, desiredCurrency, conversions)
	}

	var resolved *price
	switch {
	case effectiveFloor != nil && effectiveFloorMin != nil && effectiveFloor.currency == effectiveFloorMin.currency:
		if effectiveFloor.value.GreaterThan(effectiveFloorMin.value) {
			resolved = effectiveFloor
		} else {
			resolved = effectiveFloorMin
		}
	case effectiveFloor != nil:
		resolved = effectiveFloor
	case effectiveFloorMin != nil:
		resolved = effectiveFloorMin
	default:
		return nil
	}

	result := &PriceFloorResult{
		FloorRule:     rule,
		FloorValue:    roundPrice(resolved.value),
		FloorCurrency: resolved.currency,
	}
	if floorForRule != nil {
		result.FloorRuleValue = *floorForRule
	}
	return result
}

// effectivePrice converts value into the desired currency, keeps it as-is
// when no settlement currency is requested, and reports it unavailable (nil)
// when a requested conversion fails.
func (r *PriceFloorResolver) effectivePrice(value decimal.Decimal,
	valueCurrency string,
	desiredCurrency string,
	conversions currency.Conversions) *price {

	if desiredCurrency == "" || desiredCurrency == valueCurrency {
		return &price{currency: valueCurrency, value: value}
	}

	converted, ok := r.convertCurrency(value, valueCurrency, desiredCurrency, conversions)
	if !ok {
		return nil
	}
	return &price{currency: desiredCurrency, value: converted}
}

func (r *PriceFloorResolver) convertCurrency(value decimal.Decimal,
	fromCurrency string,
	toCurrency string,
	conversions currency.Conversions) (decimal.Decimal, bool) {

	if conversions == nil {
		return decimal.Decimal{}, false
	}

	rate, err := conversions.GetRate(fromCurrency, toCurrency)
	if err != nil {
		r.conversionLogger.Errorf("Could not convert price floor currency %s to desired currency %s: %v",
			fromCurrency, toCurrency, err)
		return decimal.Decimal{}, false
	}

	return value.Mul(decimal.NewFromFloat(rate)), true
}

func floorMinFromRequest(request *openrtb2.BidRequest) (*decimal.Decimal, string) {
	if request == nil || len(request.Ext) == 0 {
		return nil, ""
	}

	var extRequest openrtb_ext.ExtRequest
	if err := json.Unmarshal(request.Ext, &extRequest); err != nil {
		return nil, ""
	}

	floorRules := extRequest.Prebid.Floors
	if floorRules == nil {
		return nil, ""
	}
	return floorRules.FloorMin, floorRules.FloorMinCur
}

// roundPrice scales to four decimal places with banker's rounding. The
// decimal representation never carries trailing fractional zeros, so whole
// numbers stay whole.
func roundPrice(value decimal.Decimal) decimal.Decimal {
	return value.RoundBank(floorPriceScale)
}
