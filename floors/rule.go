package floors

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/prebid/openrtb/v20/adcom1"
	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/shopspring/decimal"

	"github.com/openfloor/openfloor/openrtb_ext"
)

// Schema field identifiers understood by the resolver.
const (
	SiteDomain string = "siteDomain"
	PubDomain  string = "pubDomain"
	Domain     string = "domain"
	Bundle     string = "bundle"
	Channel    string = "channel"
	MediaType  string = "mediaType"
	Size       string = "size"
	GptSlot    string = "gptSlot"
	PbAdSlot   string = "pbAdSlot"
	Country    string = "country"
	DeviceType string = "devicetype"
)

// extractionContext carries the read-only request state one rule key build
// works from. mediaTypes is resolved once up front since several fields
// depend on it.
type extractionContext struct {
	request    *openrtb2.BidRequest
	imp        *openrtb2.Imp
	mediaTypes []openrtb_ext.ImpMediaType
	format     *openrtb2.Format
}

// fieldExtractor derives the candidate values one schema field contributes
// to the rule key. Extractors are total: absence of data yields nil (or the
// wildcard), never an error.
type fieldExtractor func(ctx *extractionContext) []string

// createRuleKey walks the schema fields in declared order and collects the
// normalized candidate values for each. A field the resolver has no
// extractor for is a configuration defect and fails the whole resolution.
func (r *PriceFloorResolver) createRuleKey(schema openrtb_ext.PriceFloorSchema,
	request *openrtb2.BidRequest,
	imp *openrtb2.Imp,
	mediaType openrtb_ext.ImpMediaType,
	format *openrtb2.Format) ([][]string, error) {

	ctx := &extractionContext{
		request:    request,
		imp:        imp,
		mediaTypes: resolveMediaTypes(imp, mediaType),
		format:     format,
	}

	desiredRuleKey := make([][]string, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		extract, ok := r.extractors[field]
		if !ok {
			return nil, fmt.Errorf("unknown price floor schema field: %q", field)
		}
		desiredRuleKey = append(desiredRuleKey, prepareFieldValues(extract(ctx)))
	}
	return desiredRuleKey, nil
}

func resolveMediaTypes(imp *openrtb2.Imp, mediaType openrtb_ext.ImpMediaType) []openrtb_ext.ImpMediaType {
	if mediaType != "" {
		return []openrtb_ext.ImpMediaType{mediaType}
	}
	return mediaTypesFromImp(imp)
}

func mediaTypesFromImp(imp *openrtb2.Imp) []openrtb_ext.ImpMediaType {
	var mediaTypes []openrtb_ext.ImpMediaType
	if imp.Banner != nil {
		mediaTypes = append(mediaTypes, openrtb_ext.ImpMediaTypeBanner)
	}
	if imp.Video != nil {
		if imp.Video.Placement == adcom1.VideoPlacementInStream {
			mediaTypes = append(mediaTypes, openrtb_ext.ImpMediaTypeVideo)
		} else {
			mediaTypes = append(mediaTypes, openrtb_ext.ImpMediaTypeVideoOutstream)
		}
	}
	if imp.Native != nil {
		mediaTypes = append(mediaTypes, openrtb_ext.ImpMediaTypeNative)
	}
	if imp.Audio != nil {
		mediaTypes = append(mediaTypes, openrtb_ext.ImpMediaTypeAudio)
	}
	return mediaTypes
}

func siteDomainFromRequest(ctx *extractionContext) []string {
	if site := ctx.request.Site; site != nil && site.Domain != "" {
		return []string{site.Domain}
	}
	if app := ctx.request.App; app != nil {
		return []string{app.Domain}
	}
	return nil
}

func pubDomainFromRequest(ctx *extractionContext) []string {
	if site := ctx.request.Site; site != nil && site.Publisher != nil && site.Publisher.Domain != "" {
		return []string{site.Publisher.Domain}
	}
	if app := ctx.request.App; app != nil && app.Publisher != nil {
		return []string{app.Publisher.Domain}
	}
	return nil
}

// domainFromRequest is the order-preserving union of the site/app domain and
// the publisher domain, duplicates removed.
func domainFromRequest(ctx *extractionContext) []string {
	var domains []string
	seen := make(map[string]struct{})
	for _, domain := range append(siteDomainFromRequest(ctx), pubDomainFromRequest(ctx)...) {
		if _, ok := seen[domain]; ok {
			continue
		}
		seen[domain] = struct{}{}
		domains = append(domains, domain)
	}
	return domains
}

func bundleFromRequest(ctx *extractionContext) []string {
	if app := ctx.request.App; app != nil {
		return []string{app.Bundle}
	}
	return nil
}

func channelFromRequest(ctx *extractionContext) []string {
	if len(ctx.request.Ext) == 0 {
		return nil
	}

	var extRequest openrtb_ext.ExtRequest
	if err := json.Unmarshal(ctx.request.Ext, &extRequest); err != nil {
		return nil
	}

	if channel := extRequest.Prebid.Channel; channel != nil {
		return []string{channel.Name}
	}
	return nil
}

// mediaTypeToRuleKey collapses to the wildcard unless exactly one media type
// applies. A single instream video additionally yields the alias value so
// either "video" or "video-instream" rule entries match.
func mediaTypeToRuleKey(ctx *extractionContext) []string {
	if len(ctx.mediaTypes) != 1 {
		return []string{catchAll}
	}

	mediaType := ctx.mediaTypes[0]
	if mediaType == openrtb_ext.ImpMediaTypeVideo {
		return []string{string(mediaType), videoAlias}
	}
	return []string{string(mediaType)}
}

func sizeFromImp(ctx *extractionContext) []string {
	format := ctx.format
	if format == nil {
		format = formatFromImp(ctx.imp, ctx.mediaTypes)
	}
	if format == nil {
		return []string{catchAll}
	}
	return []string{fmt.Sprintf("%dx%d", format.W, format.H)}
}

// formatFromImp resolves a size only when the media type is unambiguous and
// that type is banner or instream video. For banner the size comes from a
// single declared format, else from explicit w/h when no format list exists.
func formatFromImp(imp *openrtb2.Imp, mediaTypes []openrtb_ext.ImpMediaType) *openrtb2.Format {
	if len(mediaTypes) != 1 {
		return nil
	}

	switch mediaTypes[0] {
	case openrtb_ext.ImpMediaTypeBanner:
		banner := imp.Banner
		if banner == nil {
			return nil
		}
		if len(banner.Format) == 1 {
			return &banner.Format[0]
		}
		if len(banner.Format) > 1 {
			return nil
		}
		if banner.W != nil && banner.H != nil {
			return &openrtb2.Format{W: *banner.W, H: *banner.H}
		}
	case openrtb_ext.ImpMediaTypeVideo:
		video := imp.Video
		if video != nil && video.W != nil && video.H != nil {
			return &openrtb2.Format{W: *video.W, H: *video.H}
		}
	}
	return nil
}

// gptSlotFromImp reads the third-party ad slot path: the GAM-declared slot
// when imp.ext.data.adserver.name is "gam", the pbadslot value otherwise.
func gptSlotFromImp(ctx *extractionContext) []string {
	if len(ctx.imp.Ext) == 0 {
		return nil
	}

	adServerName, err := jsonparser.GetString(ctx.imp.Ext, "data", "adserver", "name")
	if err == nil && adServerName == "gam" {
		adSlot, _ := jsonparser.GetString(ctx.imp.Ext, "data", "adserver", "adslot")
		return []string{adSlot}
	}

	return pbAdSlotFromImp(ctx)
}

func pbAdSlotFromImp(ctx *extractionContext) []string {
	if len(ctx.imp.Ext) == 0 {
		return nil
	}

	adSlot, _ := jsonparser.GetString(ctx.imp.Ext, "data", "pbadslot")
	return []string{adSlot}
}

// countryFromRequest maps the device geo country to alpha-3, keeping the
// original code when the mapping is unknown.
func (r *PriceFloorResolver) countryFromRequest(ctx *extractionContext) []string {
	device := ctx.request.Device
	if device == nil || device.Geo == nil || device.Geo.Country == "" {
		return nil
	}

	country := device.Geo.Country
	if r.countryCodeMapper != nil {
		if alpha3 := r.countryCodeMapper.MapToAlpha3(country); alpha3 != "" {
			return []string{alpha3}
		}
	}
	return []string{country}
}

// prepareFieldValues drops empty strings and lower-cases the rest; a field
// with nothing left becomes a single implicit wildcard.
func prepareFieldValues(fieldValues []string) []string {
	prepared := make([]string, 0, len(fieldValues))
	for _, value := range fieldValues {
		if value == "" {
			continue
		}
		prepared = append(prepared, strings.ToLower(value))
	}

	if len(prepared) == 0 {
		return []string{catchAll}
	}
	return prepared
}

// findRule streams rule key candidates from most to least specific and stops
// at the first one present in the table.
func findRule(rules map[string]decimal.Decimal, delimiter string, desiredRuleKey [][]string) (string, bool) {
	it := newRuleKeyCandidateIterator(desiredRuleKey, delimiter)
	for candidate, ok := it.next(); ok; candidate, ok = it.next() {
		if _, present := rules[candidate]; present {
			return candidate, true
		}
	}
	return "", false
}

func keysToLowerCase(values map[string]decimal.Decimal) map[string]decimal.Decimal {
	rules := make(map[string]decimal.Decimal, len(values))
	for key, value := range values {
		rules[strings.ToLower(key)] = value
	}
	return rules
}
