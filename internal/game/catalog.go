package game

// Instrument is one entry of the fixed tradable catalog. The catalog is
// immutable; per-day prices live on the Market.
type Instrument struct {
	ID         int    `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	BasePrice  int    `json:"base_price"`
	PriceRange int    `json:"price_range"`
}

var catalog = []Instrument{
	{ID: 0, Symbol: "SNCI", Name: "Super Nicron", BasePrice: 100, PriceRange: 350},
	{ID: 1, Symbol: "PITCOIN", Name: "Pitcoin", BasePrice: 15000, PriceRange: 15000},
	{ID: 2, Symbol: "CATO", Name: "Cato Coin", BasePrice: 5, PriceRange: 50},
	{ID: 3, Symbol: "NWDA", Name: "nWidia", BasePrice: 1000, PriceRange: 2500},
	{ID: 4, Symbol: "SBY", Name: "SBY500", BasePrice: 5000, PriceRange: 9000},
	{ID: 5, Symbol: "TZLA", Name: "Tezla", BasePrice: 250, PriceRange: 600},
	{ID: 6, Symbol: "PTT", Name: "PinTuoTuo", BasePrice: 750, PriceRange: 750},
	{ID: 7, Symbol: "PLTI", Name: "Plantir", BasePrice: 65, PriceRange: 180},
}

// Instruments returns a copy of the full catalog in ascending id order.
func Instruments() []Instrument {
	out := make([]Instrument, len(catalog))
	copy(out, catalog)
	return out
}

// InstrumentByID looks up one catalog entry.
func InstrumentByID(id int) (Instrument, error) {
	if id < 0 || id >= len(catalog) {
		return Instrument{}, ErrInstrumentNotFound
	}
	return catalog[id], nil
}
