package game

// EndReason says how a run finished.
type EndReason string

const (
	EndDaysExhausted  EndReason = "DAYS_OVER"
	EndHealthDepleted EndReason = "HEALTH_ZERO"
)

// Session is one complete run: player, market, event engine and the
// day-advance state machine. It is not safe for concurrent use; owners
// serialize access (see internal/session).
type Session struct {
	player  *Player
	market  *Market
	engine  *Engine
	rng     dice
	history []DayStat
	ended   bool
	reason  EndReason
}

// DayStat is one row of the per-day stats history behind the chart.
type DayStat struct {
	Day            int `json:"day"`
	Cash           int `json:"cash"`
	BankSavings    int `json:"bank_savings"`
	Debt           int `json:"debt"`
	Health         int `json:"health"`
	Reputation     int `json:"reputation"`
	NetWorth       int `json:"net_worth"`
	PortfolioValue int `json:"portfolio_value"`
	TotalAssets    int `json:"total_assets"`
}

// AdvanceResult reports everything that happened during one day advance.
type AdvanceResult struct {
	Day            int       `json:"day"`
	Messages       []string  `json:"messages"`
	NetWorth       int       `json:"net_worth"`
	PortfolioValue int       `json:"portfolio_value"`
	TotalAssets    int       `json:"total_assets"`
	Ended          bool      `json:"ended"`
	Reason         EndReason `json:"reason,omitempty"`
	FinalScore     int       `json:"final_score,omitempty"`
	Profit         int       `json:"profit,omitempty"`
	Tax            int       `json:"tax,omitempty"`
	DebtRemaining  int       `json:"debt_remaining,omitempty"`
	HoursOwed      int       `json:"hours_owed,omitempty"`
}

// TradeResult reports an executed buy or sell.
type TradeResult struct {
	InstrumentID int    `json:"id"`
	Symbol       string `json:"symbol"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int    `json:"unit_price"`
	Total        int    `json:"total"`
}

func NewSession(name string) *Session {
	return NewSessionWithDice(name, newDice())
}

// NewSessionWithDice lets tests script every draw.
func NewSessionWithDice(name string, rng dice) *Session {
	s := &Session{
		player: NewPlayer(name),
		market: NewMarket(rng),
		engine: NewEngine(),
		rng:    rng,
	}
	s.recordDayStat()
	return s
}

func (s *Session) Player() *Player { return s.player }

func (s *Session) Market() *Market { return s.market }

func (s *Session) Ended() bool { return s.ended }

func (s *Session) Reason() EndReason { return s.reason }

// History returns a copy of the per-day stats rows in day order.
func (s *Session) History() []DayStat { return append([]DayStat(nil), s.history...) }

// PortfolioValue marks held positions to market. Unavailable holdings
// contribute nothing; they cannot be sold today.
func (s *Session) PortfolioValue() int {
	total := 0
	for _, pos := range s.player.Portfolio.Positions() {
		if !s.market.Available(pos.InstrumentID) {
			continue
		}
		price, _ := s.market.Price(pos.InstrumentID)
		total += price * pos.Quantity
	}
	return total
}

// AdvanceDay runs the full end-of-day pipeline: decrement the day
// counter, reset daily facility counters, refresh the market, run the
// event tables, apply the debt collector, accrue interest, then check
// the terminal conditions. Exhausted days force-liquidate the book;
// death does not.
func (s *Session) AdvanceDay() (AdvanceResult, error) {
	if s.ended {
		return AdvanceResult{}, ErrGameOver
	}
	p := s.player
	p.DaysLeft--
	p.DarkwebVisits = 0

	s.market.Refresh(s.rng, MarketLeaveOut)
	messages := s.engine.Run(s.rng, p, s.market)

	if p.DaysLeft <= DebtCollectorDays && p.Debt > 0 {
		messages = append(messages, "A debt collector visits you, demanding payment. The stress affects your mental health. (-10 health)")
		p.Health -= DebtCollectorDamage
		if p.Health < 0 {
			p.Health = 0
		}
	}

	// Both accruals read the pre-interest balances.
	savingsInterest := p.BankSavings * SavingsInterestPct / 100
	debtInterest := p.Debt * DebtInterestPct / 100
	p.BankSavings += savingsInterest
	p.Debt += debtInterest

	res := AdvanceResult{Day: p.Day(), Messages: messages}

	switch {
	case p.DaysLeft <= 0:
		proceeds := p.Portfolio.LiquidateAll(s.liquidationPrice)
		p.Cash += proceeds
		s.ended = true
		s.reason = EndDaysExhausted
	case p.Health <= 0:
		s.ended = true
		s.reason = EndHealthDepleted
	}

	res.PortfolioValue = s.PortfolioValue()
	res.NetWorth = p.NetWorth()
	res.TotalAssets = res.NetWorth + res.PortfolioValue

	if s.ended {
		res.Ended = true
		res.Reason = s.reason
		res.FinalScore = p.NetWorth()
		res.Profit = res.TotalAssets - StartingCash + StartingDebt
		if res.Profit > 0 {
			res.Tax = roundHalfEven(res.Profit*ProfitTaxPct, 100)
		} else if p.Debt > p.Cash+p.BankSavings {
			res.DebtRemaining = p.Debt - (p.Cash + p.BankSavings)
			res.HoursOwed = roundHalfEven(res.DebtRemaining, MandyHourlyPay)
		}
	}

	s.recordDayStat()
	return res, nil
}

// roundHalfEven divides n by d rounding to nearest, ties to even. Both
// arguments are positive wherever this is called.
func roundHalfEven(n, d int) int {
	q, r := n/d, n%d
	switch {
	case 2*r > d:
		return q + 1
	case 2*r == d && q%2 != 0:
		return q + 1
	default:
		return q
	}
}

// liquidationPrice values one position during forced liquidation: the
// market price when tradable, the average cost otherwise.
func (s *Session) liquidationPrice(id int) int {
	if s.market.Available(id) {
		price, _ := s.market.Price(id)
		return price
	}
	pos, _ := s.player.Portfolio.Get(id)
	return pos.AvgCost
}

// Buy purchases quantity shares at today's price. Capacity and cash are
// both checked before either side of the state mutates.
func (s *Session) Buy(instrumentID, quantity int) (TradeResult, error) {
	if s.ended {
		return TradeResult{}, ErrGameOver
	}
	if quantity <= 0 {
		return TradeResult{}, ErrInvalidAmount
	}
	inst, err := InstrumentByID(instrumentID)
	if err != nil {
		return TradeResult{}, err
	}
	if !s.market.Available(instrumentID) {
		return TradeResult{}, ErrNotTradable
	}
	price, _ := s.market.Price(instrumentID)
	if quantity > s.player.Portfolio.Free() {
		return TradeResult{}, ErrCapacityExceeded
	}
	total := price * quantity
	if total > s.player.Cash {
		return TradeResult{}, ErrInsufficientFunds
	}
	s.player.Cash -= total
	if err := s.player.Portfolio.Add(inst.ID, inst.Symbol, inst.Name, quantity, price); err != nil {
		return TradeResult{}, err
	}
	return TradeResult{InstrumentID: inst.ID, Symbol: inst.Symbol, Quantity: quantity, UnitPrice: price, Total: total}, nil
}

// Sell disposes quantity shares at today's price. Holdings whose
// instrument is excluded today cannot be sold.
func (s *Session) Sell(instrumentID, quantity int) (TradeResult, error) {
	if s.ended {
		return TradeResult{}, ErrGameOver
	}
	if quantity <= 0 {
		return TradeResult{}, ErrInvalidAmount
	}
	pos, ok := s.player.Portfolio.Get(instrumentID)
	if !ok {
		return TradeResult{}, ErrNotHeld
	}
	if quantity > pos.Quantity {
		return TradeResult{}, ErrInsufficientQuantity
	}
	if !s.market.Available(instrumentID) {
		return TradeResult{}, ErrNotTradable
	}
	price, _ := s.market.Price(instrumentID)
	total := price * quantity
	if err := s.player.Portfolio.Remove(instrumentID, quantity); err != nil {
		return TradeResult{}, err
	}
	s.player.Cash += total
	return TradeResult{InstrumentID: instrumentID, Symbol: pos.Symbol, Quantity: quantity, UnitPrice: price, Total: total}, nil
}

// Deposit moves cash into savings.
func (s *Session) Deposit(amount int) error {
	if s.ended {
		return ErrGameOver
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > s.player.Cash {
		return ErrInsufficientFunds
	}
	s.player.Cash -= amount
	s.player.BankSavings += amount
	return nil
}

// Withdraw moves savings back into cash.
func (s *Session) Withdraw(amount int) error {
	if s.ended {
		return ErrGameOver
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > s.player.BankSavings {
		return ErrInsufficientSavings
	}
	s.player.BankSavings -= amount
	s.player.Cash += amount
	return nil
}

// Repay pays down debt from cash. Amounts beyond the outstanding debt
// are clipped; the actual amount repaid is returned.
func (s *Session) Repay(amount int) (int, error) {
	if s.ended {
		return 0, ErrGameOver
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if amount > s.player.Cash {
		return 0, ErrInsufficientFunds
	}
	if amount > s.player.Debt {
		amount = s.player.Debt
	}
	s.player.Cash -= amount
	s.player.Debt -= amount
	return amount, nil
}

// HospitalVisit restores health to full for a copay plus a per-point
// treatment cost, all paid in cash up front.
func (s *Session) HospitalVisit() (int, error) {
	if s.ended {
		return 0, ErrGameOver
	}
	if s.player.Health >= 100 {
		return 0, ErrFullHealth
	}
	cost := HospitalCopay + (100-s.player.Health)*HospitalCostPerPoint
	if cost > s.player.Cash {
		return 0, ErrInsufficientFunds
	}
	s.player.Cash -= cost
	s.player.Health = 100
	return cost, nil
}

// UpgradeCapacity buys CapacityPerUpgrade extra trade book slots. Rich
// players pay half their cash instead of the sticker price.
func (s *Session) UpgradeCapacity() (int, error) {
	if s.ended {
		return 0, ErrGameOver
	}
	if s.player.Portfolio.Capacity() >= MaxCapacity {
		return 0, ErrCapacityMaxed
	}
	cost := CapacityUpgradeCost
	if s.player.Cash > 2*CapacityUpgradeCost {
		cost = s.player.Cash / 2
	}
	if cost > s.player.Cash {
		return 0, ErrInsufficientFunds
	}
	if err := s.player.Portfolio.Grow(CapacityPerUpgrade); err != nil {
		return 0, err
	}
	s.player.Cash -= cost
	return cost, nil
}

// DarkwebVisit scrounges a small cash reward at a health cost, at most
// DarkwebDailyVisits times per day.
func (s *Session) DarkwebVisit() (reward, penalty int, err error) {
	if s.ended {
		return 0, 0, ErrGameOver
	}
	if s.player.DarkwebVisits >= DarkwebDailyVisits {
		return 0, 0, ErrVisitsExhausted
	}
	s.player.DarkwebVisits++
	reward = 50 + s.rng.Intn(151)
	s.player.Cash += reward
	penalty = 5 + s.rng.Intn(11)
	s.player.Health -= penalty
	if s.player.Health < 0 {
		s.player.Health = 0
	}
	return reward, penalty, nil
}

// EnableHacking opts the player into the hacker event table. The latch
// is one-way; it reports whether the call flipped it.
func (s *Session) EnableHacking() (bool, error) {
	if s.ended {
		return false, ErrGameOver
	}
	if s.player.HackingEnabled {
		return false, nil
	}
	s.player.HackingEnabled = true
	return true, nil
}

// RandomTips picks n distinct insider tips.
func (s *Session) RandomTips(n int) []string {
	return pickDistinct(s.rng, darkwebTips, n)
}

// RandomNews picks n distinct underground news items.
func (s *Session) RandomNews(n int) []string {
	return pickDistinct(s.rng, darkwebNews, n)
}

// Headline picks a random ticker headline with its agency.
func (s *Session) Headline() (string, string) {
	return headlines[s.rng.Intn(len(headlines))], newsAgencies[s.rng.Intn(len(newsAgencies))]
}

func (s *Session) recordDayStat() {
	stat := DayStat{
		Day:            s.player.Day(),
		Cash:           s.player.Cash,
		BankSavings:    s.player.BankSavings,
		Debt:           s.player.Debt,
		Health:         s.player.Health,
		Reputation:     s.player.Reputation,
		NetWorth:       s.player.NetWorth(),
		PortfolioValue: s.PortfolioValue(),
	}
	stat.TotalAssets = stat.NetWorth + stat.PortfolioValue
	// Hospital stays can skip days; one row per day, last write wins.
	for i := range s.history {
		if s.history[i].Day == stat.Day {
			s.history[i] = stat
			return
		}
	}
	s.history = append(s.history, stat)
}
