package game

import "sort"

// Position is a held quantity plus its weighted-average cost basis.
type Position struct {
	InstrumentID int    `json:"id"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	AvgCost      int    `json:"avg_cost"`
}

// Portfolio is the capacity-bounded trade book. The used counter always
// equals the sum of position quantities; zero-quantity positions are
// removed immediately.
type Portfolio struct {
	positions map[int]*Position
	capacity  int
	used      int
}

func NewPortfolio() *Portfolio {
	return &Portfolio{
		positions: make(map[int]*Position),
		capacity:  StartingCapacity,
	}
}

func (p *Portfolio) Capacity() int { return p.capacity }
func (p *Portfolio) Used() int     { return p.used }
func (p *Portfolio) Free() int     { return p.capacity - p.used }

// Grow raises the capacity by slots, never past the hard cap.
func (p *Portfolio) Grow(slots int) error {
	if p.capacity >= MaxCapacity {
		return ErrCapacityMaxed
	}
	p.capacity += slots
	if p.capacity > MaxCapacity {
		p.capacity = MaxCapacity
	}
	return nil
}

// Add merges quantity shares bought at unitPrice into the book. The new
// average cost is the integer-floored weighted mean of the old basis and
// the new purchase. Zero-cost grants dilute the basis the same way.
func (p *Portfolio) Add(id int, symbol, name string, quantity, unitPrice int) error {
	if quantity <= 0 {
		return ErrInvalidAmount
	}
	if p.used+quantity > p.capacity {
		return ErrCapacityExceeded
	}
	if pos, ok := p.positions[id]; ok {
		pos.AvgCost = (pos.AvgCost*pos.Quantity + unitPrice*quantity) / (pos.Quantity + quantity)
		pos.Quantity += quantity
	} else {
		p.positions[id] = &Position{
			InstrumentID: id,
			Symbol:       symbol,
			Name:         name,
			Quantity:     quantity,
			AvgCost:      unitPrice,
		}
	}
	p.used += quantity
	return nil
}

// Remove takes quantity shares out of a position, deleting it when the
// quantity reaches zero. The average cost never changes on removal.
func (p *Portfolio) Remove(id, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidAmount
	}
	pos, ok := p.positions[id]
	if !ok {
		return ErrNotHeld
	}
	if quantity > pos.Quantity {
		return ErrInsufficientQuantity
	}
	pos.Quantity -= quantity
	p.used -= quantity
	if pos.Quantity == 0 {
		delete(p.positions, id)
	}
	return nil
}

// Get returns a copy of one position.
func (p *Portfolio) Get(id int) (Position, bool) {
	pos, ok := p.positions[id]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns copies of all positions in ascending instrument id
// order.
func (p *Portfolio) Positions() []Position {
	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, *pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstrumentID < out[j].InstrumentID })
	return out
}

// LiquidateAll empties the book in ascending instrument id order and
// returns the total proceeds. Each position is valued by the supplied
// function, which sees the book as it was before any removal.
func (p *Portfolio) LiquidateAll(valuation func(instrumentID int) int) int {
	total := 0
	for _, pos := range p.Positions() {
		total += valuation(pos.InstrumentID) * pos.Quantity
		p.used -= pos.Quantity
		delete(p.positions, pos.InstrumentID)
	}
	return total
}
