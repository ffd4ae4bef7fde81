package game

import "fmt"

// Player holds the per-session wallet, vitals and trade book. Fields are
// exported for the orchestrator and the event engine; nothing outside
// this package mutates them directly.
type Player struct {
	Name           string
	DaysLeft       int
	Cash           int
	BankSavings    int
	Debt           int
	Health         int
	Reputation     int
	DarkwebVisits  int
	HackingEnabled bool
	Portfolio      *Portfolio
}

func NewPlayer(name string) *Player {
	return &Player{
		Name:       name,
		DaysLeft:   StartingDays,
		Cash:       StartingCash,
		Debt:       StartingDebt,
		Health:     StartingHealth,
		Reputation: StartingReputation,
		Portfolio:  NewPortfolio(),
	}
}

// Day is the 1-based current day number.
func (p *Player) Day() int {
	return StartingDays + 1 - p.DaysLeft
}

// NetWorth is cash plus savings minus debt. Holdings are not included;
// see Session.PortfolioValue for the mark-to-market figure.
func (p *Player) NetWorth() int {
	return p.Cash + p.BankSavings - p.Debt
}

// DayDescription labels the current day with its phase of the run.
func (p *Player) DayDescription() string {
	day := p.Day()
	switch {
	case day == 1:
		return "Day 1 - Your trading journey begins"
	case day < 10:
		return fmt.Sprintf("Day %d - Early days of trading", day)
	case day < 20:
		return fmt.Sprintf("Day %d - Building your portfolio", day)
	case day < 30:
		return fmt.Sprintf("Day %d - Advancing your strategy", day)
	case day < 40:
		return fmt.Sprintf("Day %d - Final stretch", day)
	default:
		return fmt.Sprintf("Day %d - Last day of trading", day)
	}
}
