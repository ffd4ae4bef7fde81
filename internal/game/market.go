package game

// Quote is one instrument as offered on a given day.
type Quote struct {
	ID     int    `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  int    `json:"price"`
}

// Market holds the per-session daily price and availability state for
// every catalog instrument.
type Market struct {
	prices    []int
	available []bool
}

// NewMarket rolls opening prices for every instrument. Day one offers
// the full catalog; exclusions only start with the first daily refresh.
func NewMarket(rng dice) *Market {
	m := &Market{
		prices:    make([]int, len(catalog)),
		available: make([]bool, len(catalog)),
	}
	m.Refresh(rng, 0)
	return m
}

// Refresh rerolls every price in id order and marks the whole catalog
// available, then performs leaveOut exclusion draws with replacement.
// Repeated draws can hit the same instrument, so fewer than leaveOut
// distinct instruments may end up excluded.
func (m *Market) Refresh(rng dice, leaveOut int) {
	for i, inst := range catalog {
		m.prices[i] = inst.BasePrice + rng.Intn(inst.PriceRange+1)
		m.available[i] = true
	}
	for i := 0; i < leaveOut; i++ {
		m.available[rng.Intn(len(catalog))] = false
	}
}

// Price returns today's price for an instrument, available or not.
func (m *Market) Price(id int) (int, error) {
	if id < 0 || id >= len(m.prices) {
		return 0, ErrInstrumentNotFound
	}
	return m.prices[id], nil
}

// Available reports whether an instrument is tradable today.
func (m *Market) Available(id int) bool {
	if id < 0 || id >= len(m.available) {
		return false
	}
	return m.available[id]
}

// MultiplyPrice applies a bull-event multiplier to today's price.
func (m *Market) MultiplyPrice(id, factor int) error {
	if id < 0 || id >= len(m.prices) {
		return ErrInstrumentNotFound
	}
	if factor <= 0 {
		return ErrInvalidEffect
	}
	m.prices[id] *= factor
	return nil
}

// DividePrice applies a crash-event divisor to today's price, flooring
// the result.
func (m *Market) DividePrice(id, factor int) error {
	if id < 0 || id >= len(m.prices) {
		return ErrInstrumentNotFound
	}
	if factor <= 0 {
		return ErrInvalidEffect
	}
	m.prices[id] /= factor
	return nil
}

// Quotes returns the instruments tradable today in ascending id order.
func (m *Market) Quotes() []Quote {
	out := make([]Quote, 0, len(catalog))
	for _, inst := range catalog {
		if !m.available[inst.ID] {
			continue
		}
		out = append(out, Quote{
			ID:     inst.ID,
			Symbol: inst.Symbol,
			Name:   inst.Name,
			Price:  m.prices[inst.ID],
		})
	}
	return out
}
