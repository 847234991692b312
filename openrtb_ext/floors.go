package openrtb_ext

import "github.com/shopspring/decimal"

// PriceFloorSchema defines the dimensions of a floor rule table. Field order
// is significant: it fixes both the layout of every rule key and the priority
// of the fields during wildcard fallback.
type PriceFloorSchema struct {
	Fields    []string `json:"fields,omitempty"`
	Delimiter string   `json:"delimiter,omitempty"`
}

// PriceFloorModelGroup is one rule table plus its schema, currency and
// selection metadata. Values map delimiter-joined rule keys to floor prices;
// key casing is not significant.
type PriceFloorModelGroup struct {
	Currency     string                     `json:"currency,omitempty"`
	ModelWeight  int                        `json:"modelweight,omitempty"`
	ModelVersion string                     `json:"modelversion,omitempty"`
	SkipRate     int                        `json:"skiprate,omitempty"`
	Schema       PriceFloorSchema           `json:"schema,omitempty"`
	Values       map[string]decimal.Decimal `json:"values,omitempty"`
	Default      *decimal.Decimal           `json:"default,omitempty"`
}

// Copy returns a deep copy of the model group.
func (mg PriceFloorModelGroup) Copy() PriceFloorModelGroup {
	newMg := mg
	newMg.Schema.Fields = make([]string, len(mg.Schema.Fields))
	copy(newMg.Schema.Fields, mg.Schema.Fields)

	if mg.Values != nil {
		newMg.Values = make(map[string]decimal.Decimal, len(mg.Values))
		for key, val := range mg.Values {
			newMg.Values[key] = val
		}
	}
	if mg.Default != nil {
		def := *mg.Default
		newMg.Default = &def
	}
	return newMg
}

// PriceFloorData holds the model groups of one floor rules document.
type PriceFloorData struct {
	Currency       string                 `json:"currency,omitempty"`
	SkipRate       int                    `json:"skiprate,omitempty"`
	ModelTimestamp int64                  `json:"modeltimestamp,omitempty"`
	ModelGroups    []PriceFloorModelGroup `json:"modelgroups,omitempty"`
}

// PriceFloorRules defines the contract for bidrequest.ext.prebid.floors.
type PriceFloorRules struct {
	FloorMin    *decimal.Decimal `json:"floormin,omitempty"`
	FloorMinCur string           `json:"floormincur,omitempty"`
	SkipRate    int              `json:"skiprate,omitempty"`
	Data        *PriceFloorData  `json:"data,omitempty"`
	Enabled     *bool            `json:"enabled,omitempty"`
	Skipped     *bool            `json:"skipped,omitempty"`
}

// GetEnabled reads the enabled flag, defaulting to true when unset.
func (f *PriceFloorRules) GetEnabled() bool {
	if f != nil && f.Enabled != nil {
		return *f.Enabled
	}
	return true
}
