package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chain-guardian/pkg/format"
	"github.com/chain-guardian/pkg/models"
	"github.com/chain-guardian/pkg/monitor"
)

const (
	colorAccent = lipgloss.Color("#6366f1")
	colorGreen  = lipgloss.Color("#10b981")
	colorOrange = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorMuted  = lipgloss.Color("#6b7280")

	barWidth     = 30
	recentAlerts = 5
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
	tabStyle    = lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted)
	activeTab   = tabStyle.Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(colorAccent)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1).Width(22)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

var levelColors = map[format.Level]lipgloss.Color{
	format.LevelLow:    colorGreen,
	format.LevelMedium: colorOrange,
	format.LevelHigh:   colorRed,
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	snap := m.snap
	if snap == nil {
		b.WriteString(mutedStyle.Render("Waiting for first refresh..."))
	} else {
		switch m.tab {
		case TabDashboard:
			b.WriteString(overview(snap))
		case TabTransactions:
			b.WriteString(transactions(snap.Transactions))
		case TabAlerts:
			b.WriteString(alerts(snap.Alerts, true))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.footer())
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func (m Model) header() string {
	title := titleStyle.Render("🛡  ChainGuardian AI") + "  " + mutedStyle.Render("Blockchain Fraud Detection System")
	var acct string
	switch {
	case m.account.Connected():
		acct = lipgloss.NewStyle().Foreground(colorGreen).Render("👛 " + format.Address(m.account.Account))
	case m.connecting:
		acct = warnStyle.Render("Connecting...")
	default:
		acct = mutedStyle.Render("[c] Connect Wallet")
	}
	return title + "    " + acct
}

func (m Model) tabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == m.tab {
			parts[i] = activeTab.Render(label)
		} else {
			parts[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) footer() string {
	var line string
	if m.snap != nil && !m.snap.UpdatedAt.IsZero() {
		line = "updated " + m.snap.UpdatedAt.Local().Format("15:04:05")
		if m.snap.Stale {
			line += warnStyle.Render("  showing last good data")
		}
		line += "  "
	}
	if m.status != "" {
		line += warnStyle.Render(m.status) + "  "
	}
	return mutedStyle.Render(line + "1/2/3 tab  r refresh  c connect  q quit")
}

func card(label, value string, color lipgloss.Color) string {
	return cardStyle.Render(mutedStyle.Render(label) + "\n" +
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(value))
}

func overview(s *monitor.Snapshot) string {
	row1 := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Transactions", fmt.Sprint(s.Stats.TotalTx), lipgloss.Color("#e5e7eb")),
		card("Fraud Detected", fmt.Sprint(s.Stats.FraudDetected), colorRed),
		card("Detection Rate", fmt.Sprintf("%g%%", s.Stats.Accuracy), colorGreen),
	)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Active Alerts", fmt.Sprint(s.Stats.ActiveAlerts), colorOrange),
		card("Volume (ETH)", s.Volume.StringFixed(4), lipgloss.Color("#e5e7eb")),
		card("Flagged Addresses", fmt.Sprint(s.FlaggedAddresses), colorRed),
	)
	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(headerStyle.Render("Fraud Detection Trends")+"\n"+trendBars(s.Trend)),
		panelStyle.Render(headerStyle.Render("Risk Distribution")+"\n"+riskBars(s.Risk)),
	)
	recent := s.Alerts
	if len(recent) > recentAlerts {
		recent = recent[:recentAlerts]
	}
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2, charts, alerts(recent, false))
}

// trendBars draws one stacked normal/fraud bar per bucket, scaled to the
// largest bucket.
func trendBars(points []models.TrendPoint) string {
	peak := 1
	for _, p := range points {
		if n := p.Normal + p.Fraud; n > peak {
			peak = n
		}
	}
	green := lipgloss.NewStyle().Foreground(colorGreen)
	red := lipgloss.NewStyle().Foreground(colorRed)
	lines := make([]string, 0, len(points))
	for _, p := range points {
		normal := p.Normal * barWidth / peak
		fraud := p.Fraud * barWidth / peak
		bar := green.Render(strings.Repeat("█", normal)) + red.Render(strings.Repeat("█", fraud)) +
			mutedStyle.Render(strings.Repeat("░", barWidth-normal-fraud))
		lines = append(lines, fmt.Sprintf("%-8s %s %d/%d", p.Name, bar, p.Normal, p.Fraud))
	}
	return strings.Join(lines, "\n")
}

func riskBars(slices []models.RiskSlice) string {
	lines := make([]string, 0, len(slices))
	for _, r := range slices {
		filled := r.Value * barWidth / 100
		if filled > barWidth {
			filled = barWidth
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render(strings.Repeat("█", filled)) +
			mutedStyle.Render(strings.Repeat("░", barWidth-filled))
		lines = append(lines, fmt.Sprintf("%-12s %s %3d%%", r.Name, bar, r.Value))
	}
	return strings.Join(lines, "\n")
}

func transactions(txs []models.TransactionRecord) string {
	title := headerStyle.Render("Recent Transactions")
	if len(txs) == 0 {
		return title + "\n" + mutedStyle.Render("No transactions yet")
	}
	var b strings.Builder
	WriteTransactions(&b, txs)
	return title + "\n" + b.String()
}

func alerts(list []models.AlertRecord, full bool) string {
	title := "Recent Alerts"
	empty := "No alerts yet. System monitoring..."
	if full {
		title, empty = "All Alerts", "No alerts. System is secure."
	}
	out := headerStyle.Render(title)
	if len(list) == 0 {
		return out + "\n" + mutedStyle.Render(empty)
	}
	if full {
		var b strings.Builder
		WriteAlerts(&b, list)
		return out + "\n" + b.String()
	}
	lines := []string{out}
	for _, a := range list {
		sev, lvl := format.Severity(a.Severity)
		lines = append(lines, fmt.Sprintf("⚠ %s  %s  %s  %s",
			format.Address(a.FlaggedAddress),
			lipgloss.NewStyle().Foreground(levelColors[lvl]).Render(sev),
			lipgloss.NewStyle().Bold(true).Foreground(colorRed).Render(format.Percent(a.RiskScore.Float())),
			mutedStyle.Render(format.Timestamp(a.Timestamp)),
		))
	}
	return strings.Join(lines, "\n")
}
