package game

// PositionView is a position annotated with today's market price. A zero
// MarketPrice means the instrument is excluded today.
type PositionView struct {
	InstrumentID int    `json:"id"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	AvgCost      int    `json:"avg_cost"`
	MarketPrice  int    `json:"market_price"`
}

// PlayerView is the wallet-and-vitals slice of a snapshot.
type PlayerView struct {
	Name              string `json:"name"`
	DaysLeft          int    `json:"days_left"`
	Cash              int    `json:"cash"`
	BankSavings       int    `json:"bank_savings"`
	Debt              int    `json:"debt"`
	Health            int    `json:"health"`
	Reputation        int    `json:"reputation"`
	PortfolioCapacity int    `json:"portfolio_capacity"`
	PortfolioUsed     int    `json:"portfolio_used"`
	HackingEnabled    bool   `json:"hacking_enabled"`
}

// Snapshot is the full read-only view of a session, shaped for clients.
type Snapshot struct {
	Player         PlayerView     `json:"player"`
	CurrentDay     string         `json:"current_day"`
	Quotes         []Quote        `json:"available_stocks"`
	Positions      []PositionView `json:"portfolio"`
	NetWorth       int            `json:"net_worth"`
	PortfolioValue int            `json:"portfolio_value"`
	Headline       string         `json:"headline"`
	HeadlineAgency string         `json:"headline_agency"`
	Ended          bool           `json:"ended"`
	Reason         EndReason      `json:"reason,omitempty"`
}

// Snapshot assembles the client view of the session as it stands.
func (s *Session) Snapshot() Snapshot {
	p := s.player
	positions := make([]PositionView, 0, len(p.Portfolio.Positions()))
	for _, pos := range p.Portfolio.Positions() {
		view := PositionView{
			InstrumentID: pos.InstrumentID,
			Symbol:       pos.Symbol,
			Name:         pos.Name,
			Quantity:     pos.Quantity,
			AvgCost:      pos.AvgCost,
		}
		if s.market.Available(pos.InstrumentID) {
			view.MarketPrice, _ = s.market.Price(pos.InstrumentID)
		}
		positions = append(positions, view)
	}
	headline, agency := s.Headline()
	return Snapshot{
		Player: PlayerView{
			Name:              p.Name,
			DaysLeft:          p.DaysLeft,
			Cash:              p.Cash,
			BankSavings:       p.BankSavings,
			Debt:              p.Debt,
			Health:            p.Health,
			Reputation:        p.Reputation,
			PortfolioCapacity: p.Portfolio.Capacity(),
			PortfolioUsed:     p.Portfolio.Used(),
			HackingEnabled:    p.HackingEnabled,
		},
		CurrentDay:     p.DayDescription(),
		Quotes:         s.market.Quotes(),
		Positions:      positions,
		NetWorth:       p.NetWorth(),
		PortfolioValue: s.PortfolioValue(),
		Headline:       headline,
		HeadlineAgency: agency,
		Ended:          s.ended,
		Reason:         s.reason,
	}
}
