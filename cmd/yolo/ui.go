package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"yoloterm/internal/game"
	"yoloterm/internal/scores"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type gameStatePayload struct {
	GameID string        `json:"game_id"`
	Token  string        `json:"token"`
	State  game.Snapshot `json:"state"`
}

type advancePayload struct {
	Report game.AdvanceResult `json:"report"`
	State  game.Snapshot      `json:"state"`
}

type tradePayload struct {
	Trade game.TradeResult `json:"trade"`
	State game.Snapshot    `json:"state"`
}

type bankPayload struct {
	Repaid int           `json:"repaid"`
	State  game.Snapshot `json:"state"`
}

type costPayload struct {
	Cost  int           `json:"cost"`
	State game.Snapshot `json:"state"`
}

type darkwebPayload struct {
	Reward  int           `json:"reward"`
	Penalty int           `json:"penalty"`
	Tips    []string      `json:"tips"`
	News    []string      `json:"news"`
	State   game.Snapshot `json:"state"`
}

type hackPayload struct {
	Enabled bool `json:"enabled"`
}

type chartPayload struct {
	PlayerName    string         `json:"player_name"`
	History       []game.DayStat `json:"history"`
	GameCompleted bool           `json:"game_completed"`
	Reason        game.EndReason `json:"reason"`
	NetWorth      int            `json:"net_worth"`
	TotalAssets   int            `json:"total_assets"`
}

type scoresPayload struct {
	Scores []scores.Entry `json:"scores"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func renderState(s game.Snapshot) {
	p := s.Player
	accent.Printf("\n== %s | DAY %d ==\n", strings.ToUpper(p.Name), game.StartingDays+1-p.DaysLeft)
	printInfo(s.CurrentDay)
	if s.Headline != "" {
		fmt.Printf("%s %s\n", accent.Sprintf("[%s]", s.HeadlineAgency), s.Headline)
	}

	fmt.Printf("Cash:       $%d\n", p.Cash)
	fmt.Printf("Savings:    $%d\n", p.BankSavings)
	fmt.Printf("Debt:       %s\n", colorizeOwed(p.Debt))
	fmt.Printf("Health:     %s\n", colorizeHealth(p.Health))
	fmt.Printf("Days left:  %d\n", p.DaysLeft)
	fmt.Printf("Book:       %d/%d slots\n", p.PortfolioUsed, p.PortfolioCapacity)
	fmt.Printf("Net worth:  %s\n", colorizeMoney(s.NetWorth))

	fmt.Println()
	accent.Println("Market")
	fmt.Printf("%-4s %-8s %-16s %10s\n", "ID", "SYMBOL", "NAME", "PRICE")
	for _, q := range s.Quotes {
		fmt.Printf("%-4d %-8s %-16s %10d\n", q.ID, q.Symbol, q.Name, q.Price)
	}

	fmt.Println()
	accent.Println("Portfolio")
	if len(s.Positions) == 0 {
		printInfo("No holdings yet.")
	} else {
		fmt.Printf("%-4s %-8s %6s %10s %10s\n", "ID", "SYMBOL", "QTY", "AVG", "NOW")
		for _, pos := range s.Positions {
			now := "halted"
			if pos.MarketPrice > 0 {
				now = fmt.Sprintf("%d", pos.MarketPrice)
			}
			fmt.Printf("%-4d %-8s %6d %10d %10s\n", pos.InstrumentID, pos.Symbol, pos.Quantity, pos.AvgCost, now)
		}
		fmt.Printf("Portfolio value: $%d\n", s.PortfolioValue)
	}
	fmt.Println()
}

func renderReport(r game.AdvanceResult) {
	accent.Printf("\n== DAY %d REPORT ==\n", r.Day)
	if len(r.Messages) == 0 {
		printInfo("A quiet day. Nothing happened.")
	}
	for _, msg := range r.Messages {
		fmt.Println(msg)
	}
	fmt.Printf("Net worth: %s | Total assets: %s\n", colorizeMoney(r.NetWorth), colorizeMoney(r.TotalAssets))
	if !r.Ended {
		return
	}

	fmt.Println()
	switch r.Reason {
	case game.EndDaysExhausted:
		accent.Println("== 40 DAYS ARE UP ==")
	case game.EndHealthDepleted:
		danger.Println("== YOU COLLAPSED ==")
	}
	fmt.Printf("Final score: %s\n", colorizeMoney(r.FinalScore))
	if r.Profit > 0 {
		fmt.Printf("Profit: $%d | Tax due: $%d\n", r.Profit, r.Tax)
	} else if r.DebtRemaining > 0 {
		danger.Printf("Unpaid debt: $%d\n", r.DebtRemaining)
		danger.Printf("Mandy's hot dog stand awaits: %d hours at $%d/hour.\n", r.HoursOwed, game.MandyHourlyPay)
	}
}

func renderChart(c chartPayload) {
	accent.Printf("\n== %s: RUN HISTORY ==\n", strings.ToUpper(c.PlayerName))
	fmt.Printf("%-5s %10s %10s %10s %8s %12s %12s\n", "DAY", "CASH", "SAVINGS", "DEBT", "HEALTH", "NET", "ASSETS")
	for _, row := range c.History {
		fmt.Printf("%-5d %10d %10d %10d %8d %12s %12s\n",
			row.Day,
			row.Cash,
			row.BankSavings,
			row.Debt,
			row.Health,
			colorizeMoney(row.NetWorth),
			colorizeMoney(row.TotalAssets),
		)
	}
	if c.GameCompleted {
		fmt.Printf("Run over (%s). Final net worth: %s\n", c.Reason, colorizeMoney(c.NetWorth))
	}
	fmt.Println()
}

func renderScores(entries []scores.Entry) {
	accent.Println("\n== HALL OF FAME ==")
	if len(entries) == 0 {
		printInfo("No finished runs yet.")
		return
	}
	fmt.Printf("%-4s %-12s %12s %8s %6s\n", "#", "NAME", "SCORE", "HEALTH", "FAME")
	for i, e := range entries {
		fmt.Printf("%-4d %-12s %12s %8d %6d\n", i+1, e.Name, colorizeMoney(e.Score), e.Health, e.Reputation)
	}
	fmt.Println()
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func colorizeMoney(v int) string {
	text := fmt.Sprintf("$%d", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func colorizeOwed(v int) string {
	text := fmt.Sprintf("$%d", v)
	if v > 0 {
		return danger.Sprint(text)
	}
	return success.Sprint(text)
}

func colorizeHealth(v int) string {
	text := fmt.Sprintf("%d/100", v)
	switch {
	case v >= 85:
		return success.Sprint(text)
	case v >= 50:
		return warn.Sprint(text)
	default:
		return danger.Sprint(text)
	}
}
