// Command floorcheck resolves price floors for every impression of an
// OpenRTB bid request against a floor rules document and prints the outcome.
// It is a diagnostic tool for inspecting which rule a request would match
// and at what price.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/openfloor/openfloor/currency"
	"github.com/openfloor/openfloor/floors"
	"github.com/openfloor/openfloor/geolocation"
	"github.com/openfloor/openfloor/openrtb_ext"
)

var (
	rulesPath        = flag.String("rules", "", "path to a price floor rules JSON document")
	requestPath      = flag.String("request", "", "path to an OpenRTB 2.x bid request JSON document")
	settlementCur    = flag.String("cur", "", "settlement currency to resolve floors in (e.g. USD)")
	ratesPath        = flag.String("rates", "", "optional conversion rates JSON ({\"conversions\": {\"USD\": {\"EUR\": 0.9}}})")
	countryCodesPath = flag.String("countrycodes", "", "optional alpha2,alpha3 country code CSV file")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if *rulesPath == "" || *requestPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(); err != nil {
		glog.Exitf("floorcheck: %v", err)
	}
}

func run() error {
	rules, err := readRules(*rulesPath)
	if err != nil {
		return fmt.Errorf("reading rules: %w", err)
	}
	if rules.Data == nil || len(rules.Data.ModelGroups) == 0 {
		return fmt.Errorf("rules document carries no model groups")
	}
	modelGroup := rules.Data.ModelGroups[0]
	if modelGroup.Currency == "" {
		modelGroup.Currency = rules.Data.Currency
	}

	request, err := readRequest(*requestPath)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}

	mapper, err := readCountryCodes(*countryCodesPath)
	if err != nil {
		return fmt.Errorf("reading country codes: %w", err)
	}

	conversions, err := readConversions(*ratesPath)
	if err != nil {
		return fmt.Errorf("reading rates: %w", err)
	}

	resolver := floors.NewPriceFloorResolver(mapper)
	for i := range request.Imp {
		imp := &request.Imp[i]
		result, err := resolver.Resolve(request, &modelGroup, imp, "", nil, *settlementCur, conversions)
		if err != nil {
			return err
		}

		if result == nil {
			fmt.Printf("imp %s: no floor\n", imp.ID)
			continue
		}

		rule := result.FloorRule
		if rule == "" {
			rule = "(default floor)"
		}
		fmt.Printf("imp %s: rule %s floor %s %s\n", imp.ID, rule, result.FloorValue, result.FloorCurrency)
	}
	return nil
}

func readRules(path string) (*openrtb_ext.PriceFloorRules, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rules openrtb_ext.PriceFloorRules
	if err := json.Unmarshal(content, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

func readRequest(path string) (*openrtb2.BidRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var request openrtb2.BidRequest
	if err := json.Unmarshal(content, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func readCountryCodes(path string) (*geolocation.CountryCodeMapper, error) {
	if path == "" {
		return geolocation.NewCountryCodeMapperFromCSV("")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return geolocation.NewCountryCodeMapperFromCSV(string(content))
}

func readConversions(path string) (currency.Conversions, error) {
	if path == "" {
		return currency.NewConstantRates(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rates currency.Rates
	if err := json.Unmarshal(content, &rates); err != nil {
		return nil, err
	}
	return &rates, nil
}
