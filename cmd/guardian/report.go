package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/chain-guardian/pkg/format"
	"github.com/chain-guardian/pkg/monitor"
	"github.com/chain-guardian/pkg/tui"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	amber = color.New(color.FgYellow).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

// runOnce performs a single refresh cycle and prints it. Exit code is 1 when
// every part of the fetch failed.
func runOnce(mon *monitor.Monitor, w io.Writer) int {
	snap, err := mon.Refresh(context.Background())
	if err != nil || snap == nil {
		log.Error().Err(err).Msg("refresh failed")
		return 1
	}
	printReport(w, snap)
	if len(snap.Errors) == 3 {
		return 1
	}
	return 0
}

func printReport(w io.Writer, s *monitor.Snapshot) {
	rule := strings.Repeat("─", 60)
	fmt.Fprintln(w, bold("ChainGuardian AI report"), "cycle", s.CycleID)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total transactions: %d\n", s.Stats.TotalTx)
	fmt.Fprintf(w, "Fraud detected:     %s\n", red(s.Stats.FraudDetected))
	fmt.Fprintf(w, "Detection rate:     %s\n", green(fmt.Sprintf("%g%%", s.Stats.Accuracy)))
	fmt.Fprintf(w, "Active alerts:      %s\n", amber(s.Stats.ActiveAlerts))
	fmt.Fprintf(w, "Listed volume:      %s ETH\n", s.Volume.StringFixed(4))
	for part, msg := range s.Errors {
		fmt.Fprintf(w, "%s %s: %s\n", red("failed"), part, msg)
	}

	fmt.Fprintln(w, "\n"+bold("Fraud trend (normal/fraud)"))
	for _, p := range s.Trend {
		fmt.Fprintf(w, "  %-8s %s %s\n", p.Name, green(strings.Repeat("■", p.Normal)), red(strings.Repeat("■", p.Fraud)))
	}

	fmt.Fprintln(w, "\n"+bold("Risk distribution"))
	for _, r := range s.Risk {
		fmt.Fprintf(w, "  %-12s %3d%%\n", r.Name, r.Value)
	}

	fmt.Fprintln(w, "\n"+bold("Recent transactions"))
	if len(s.Transactions) == 0 {
		fmt.Fprintln(w, "  No transactions yet")
	} else {
		tui.WriteTransactions(w, s.Transactions)
	}

	fmt.Fprintln(w, "\n"+bold("Alerts"))
	if len(s.Alerts) == 0 {
		fmt.Fprintln(w, "  No alerts. System is secure.")
	} else {
		for _, a := range s.Alerts {
			sev, lvl := format.Severity(a.Severity)
			fmt.Fprintf(w, "  ⚠ %s %s %s %s\n",
				format.Address(a.FlaggedAddress), levelColor(lvl)(sev),
				format.Percent(a.RiskScore.Float()), format.Timestamp(a.Timestamp))
		}
	}
	fmt.Fprintln(w, rule)
}

func levelColor(l format.Level) func(a ...interface{}) string {
	switch l {
	case format.LevelHigh:
		return red
	case format.LevelMedium:
		return amber
	default:
		return green
	}
}
