package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/storymath/internal/llm"
	"github.com/abhisek/storymath/internal/store"
)

var errNoJournal = errors.New("call journal is disabled or unavailable")

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect recorded backend and LLM calls",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		since, _ := cmd.Flags().GetDuration("since")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		if e.store == nil {
			return errNoJournal
		}

		opts := store.QueryOpts{Limit: limit, Kind: kind}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		calls, err := e.journal().QueryCalls(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query calls: %w", err)
		}
		printCalls(cmd.OutOrStdout(), calls)
		return nil
	},
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call counts, failures and estimated LLM cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		if e.store == nil {
			return errNoJournal
		}

		usage, err := e.journal().UsageByTarget(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		printUsage(cmd.OutOrStdout(), usage)
		return nil
	},
}

func printCalls(w io.Writer, calls []store.CallRecord) {
	if len(calls) == 0 {
		fmt.Fprintln(w, "No calls recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-7s  %-28s  %-14s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Kind", "Target", "Method", "Status", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, c := range calls {
		ok := "✓"
		if !c.Success {
			ok = "✗"
		}
		status := "-"
		if c.Status != 0 {
			status = fmt.Sprintf("%d", c.Status)
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-7s  %-28s  %-14s  %-6s  %-7d  %s\n",
			c.ID,
			c.Timestamp.Local().Format("2006-01-02 15:04:05"),
			c.Kind,
			truncate(c.Target, 28),
			truncate(c.Method, 14),
			status,
			c.LatencyMs,
			ok,
		)
		if c.ErrorMessage != "" {
			fmt.Fprintf(w, "       %s\n", truncate(c.ErrorMessage, 90))
		}
	}
}

func printUsage(w io.Writer, usage []store.TargetUsage) {
	if len(usage) == 0 {
		fmt.Fprintln(w, "No calls recorded yet.")
		return
	}

	var gw, models []store.TargetUsage
	for _, u := range usage {
		if u.Kind == store.KindLLM {
			models = append(models, u)
		} else {
			gw = append(gw, u)
		}
	}

	if len(gw) > 0 {
		fmt.Fprintln(w, "Backend Calls")
		fmt.Fprintln(w, strings.Repeat("─", 72))
		fmt.Fprintf(w, "%-32s  %6s  %8s  %8s\n", "Endpoint", "Calls", "Failed", "Avg Ms")
		fmt.Fprintln(w, strings.Repeat("─", 72))
		for _, u := range gw {
			fmt.Fprintf(w, "%-32s  %6d  %8d  %8d\n", truncate(u.Target, 32), u.Calls, u.Failures, u.AvgLatencyMs)
		}
	}

	if len(models) == 0 {
		return
	}
	if len(gw) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "LLM Usage and Estimated Cost (USD)")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	var totalCost float64
	var unknown []string
	for _, u := range models {
		cost := llm.LookupCost(u.Target)
		if cost == nil {
			unknown = append(unknown, u.Target)
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(u.Target, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		totalCost += c
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(u.Target, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
	}

	fmt.Fprintln(w, strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	journalListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	journalListCmd.Flags().StringP("kind", "k", "", "Filter by kind (gateway, llm)")
	journalListCmd.Flags().Duration("since", 0, "Only show calls newer than this (e.g. 24h)")

	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalStatsCmd)
}
