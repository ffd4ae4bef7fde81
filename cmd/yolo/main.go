package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "yoloterm/internal/cli"
	"yoloterm/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "yolo",
		Short:        "Terminal trading game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newNewCmd(&apiBase),
		newStatusCmd(&apiBase),
		newNextCmd(&apiBase),
		newBuyCmd(&apiBase),
		newSellCmd(&apiBase),
		newBankCmd(&apiBase),
		newHospitalCmd(&apiBase),
		newUpgradeCmd(&apiBase),
		newDarkwebCmd(&apiBase),
		newChartCmd(&apiBase),
		newScoresCmd(&apiBase),
		newQuitCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newNewCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a fresh 40-day run",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := promptRequired("Player name (max 10 chars)")
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).NewGame(ctx, name)
			if err != nil {
				return err
			}
			payload, err := decodeInto[gameStatePayload](raw)
			if err != nil {
				return err
			}
			if err := cl.SaveGame(cl.SavedGame{
				GameID:     payload.GameID,
				Token:      payload.Token,
				PlayerName: payload.State.Player.Name,
			}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Game %s started. Good luck, %s.", payload.GameID, payload.State.Player.Name))
			renderState(payload.State)
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's market and your vitals",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := cl.LoadGame()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).Snapshot(ctx, saved.Token)
			if err != nil {
				return err
			}
			payload, err := decodeInto[gameStatePayload](raw)
			if err != nil {
				return err
			}
			renderState(payload.State)
			return nil
		},
	}
}

func newNextCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Sleep and advance to the next day",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := cl.LoadGame()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).Advance(ctx, saved.Token)
			if err != nil {
				return err
			}
			payload, err := decodeInto[advancePayload](raw)
			if err != nil {
				return err
			}
			renderReport(payload.Report)
			if !payload.Report.Ended {
				renderState(payload.State)
			}
			return nil
		},
	}
}

func newBuyCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <id> <amount>",
		Short: "Buy shares of an instrument",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(cmd, apiBase, args, "buy")
		},
	}
}

func newSellCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <id> <amount>",
		Short: "Sell shares you hold",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(cmd, apiBase, args, "sell")
		},
	}
}

func runTrade(cmd *cobra.Command, apiBase *string, args []string, side string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("instrument id must be a number")
	}
	amount, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("amount must be a number")
	}
	saved, err := cl.LoadGame()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd)
	defer cancel()
	client := newClient(apiBase)
	var raw map[string]any
	if side == "buy" {
		raw, err = client.Buy(ctx, saved.Token, id, amount)
	} else {
		raw, err = client.Sell(ctx, saved.Token, id, amount)
	}
	if err != nil {
		return err
	}
	payload, err := decodeInto[tradePayload](raw)
	if err != nil {
		return err
	}
	t := payload.Trade
	if side == "buy" {
		printSuccess(fmt.Sprintf("Bought %d %s at $%d each ($%d total).", t.Quantity, t.Symbol, t.UnitPrice, t.Total))
	} else {
		printSuccess(fmt.Sprintf("Sold %d %s at $%d each ($%d total).", t.Quantity, t.Symbol, t.UnitPrice, t.Total))
	}
	renderState(payload.State)
	return nil
}

func newBankCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bank <deposit|withdraw|repay> <amount>",
		Short: "Move money between cash, savings and debt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := strings.ToLower(args[0])
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("amount must be a number")
			}
			saved, err := cl.LoadGame()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).Bank(ctx, saved.Token, action, amount)
			if err != nil {
				return err
			}
			payload, err := decodeInto[bankPayload](raw)
			if err != nil {
				return err
			}
			if action == "repay" {
				printSuccess(fmt.Sprintf("Repaid $%d of debt.", payload.Repaid))
			} else {
				printSuccess("Done.")
			}
			renderState(payload.State)
			return nil
		},
	}
}

func newHospitalCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "hospital",
		Short: "Pay for treatment and restore full health",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := cl.LoadGame()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).Hospital(ctx, saved.Token)
			if err != nil {
				return err
			}
			payload, err := decodeInto[costPayload](raw)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Treated for $%d. Back to full health.", payload.Cost))
			renderState(payload.State)
			return nil
		},
	}
}

func newUpgradeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Buy extra trade book capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := cl.LoadGame()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).UpgradeTradingApp(ctx, saved.Token)
			if err != nil {
				return err
			}
			payload, err := decodeInto[costPayload](raw)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Trading app upgraded for $%d. Capacity is now %d slots.",
				payload.Cost, payload.State.Player.PortfolioCapacity))
			renderState(payload.State)
			return nil
		},
	}
}

func newDarkwebCmd(apiBase *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "darkweb",
		Short: "Scrounge the dark web for cash and gossip",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := cl.LoadGame()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).Darkweb(ctx, saved.Token)
			if err != nil {
				return err
			}
			payload, err := decodeInto[darkwebPayload](raw)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Scrounged $%d. The grind cost you %d health.", payload.Reward, payload.Penalty))
			accent.Println("\nInsider tips")
			for _, tip := range payload.Tips {
				fmt.Println("  " + tip)
			}
			accent.Println("\nUnderground news")
			for _, item := range payload.News {
				fmt.Println("  " + item)
			}
			fmt.Println()
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "hack",
		Short: "Hire the hacker crew (irreversible)",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := cl.LoadGame()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).EnableHacking(ctx, saved.Token)
			if err != nil {
				return err
			}
			payload, err := decodeInto[hackPayload](raw)
			if err != nil {
				return err
			}
			if payload.Enabled {
				printWarn("The crew is in. Bank accounts across town are fair game, including yours.")
			} else {
				printInfo("The crew already works for you.")
			}
			return nil
		},
	})
	return cmd
}

func newChartCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Show the run's day-by-day history",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := cl.LoadGame()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).Chart(ctx, saved.Token)
			if err != nil {
				return err
			}
			payload, err := decodeInto[chartPayload](raw)
			if err != nil {
				return err
			}
			renderChart(payload)
			return nil
		},
	}
}

func newScoresCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Show the high-score board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			raw, err := newClient(apiBase).HighScores(ctx)
			if err != nil {
				return err
			}
			payload, err := decodeInto[scoresPayload](raw)
			if err != nil {
				return err
			}
			renderScores(payload.Scores)
			return nil
		},
	}
}

func newQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Forget the saved game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearGame(); err != nil {
				return err
			}
			printInfo("Saved game cleared.")
			return nil
		},
	}
}
