package currency

// Conversions is the boundary the floor resolver calls to normalize prices
// into a settlement currency. A conversion request for which no rate path
// exists fails with ConversionNotFoundError; callers are expected to treat
// that as "conversion unavailable" rather than fatal.
type Conversions interface {
	GetRate(from string, to string) (float64, error)
	GetRates() *map[string]map[string]float64
}
