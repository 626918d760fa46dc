package format

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chain-guardian/pkg/models"
)

const na = "N/A"

// Badge thresholds for a single transaction's risk. These are display cut-offs
// and differ on purpose from the 0.4 tier boundary used by the pie chart.
const (
	badgeMedium = 0.3
	badgeHigh   = 0.7
)

type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

// Address abbreviates an address or hash to 0x1234...abcd. Hex addresses are
// shown in EIP-55 checksum form.
func Address(a string) string {
	if a == "" {
		return na
	}
	a = Checksum(a)
	if len(a) <= 10 {
		return a
	}
	return a[:6] + "..." + a[len(a)-4:]
}

// Checksum returns a hex address in full EIP-55 form; anything else is
// returned unchanged.
func Checksum(a string) string {
	if common.IsHexAddress(a) {
		return common.HexToAddress(a).Hex()
	}
	return a
}

// Timestamp renders ts in local time; unparseable values are returned as is.
func Timestamp(ts models.Timestamp) string {
	if ts == "" {
		return na
	}
	t, ok := ts.Time()
	if !ok {
		return string(ts)
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// RiskBadge returns the badge label and level for a transaction risk score.
func RiskBadge(score float64) (string, Level) {
	switch {
	case score < badgeMedium:
		return "Low Risk", LevelLow
	case score < badgeHigh:
		return "Medium Risk", LevelMedium
	default:
		return "High Risk", LevelHigh
	}
}

// Severity maps the alert severity code: 2 High, 1 Medium, anything else Low.
func Severity(code int) (string, Level) {
	switch code {
	case 2:
		return "High", LevelHigh
	case 1:
		return "Medium", LevelMedium
	default:
		return "Low", LevelLow
	}
}

// Percent renders a 0..1 score as a whole percentage.
func Percent(score float64) string {
	return fmt.Sprintf("%.0f%%", math.Round(score*100))
}

// Status is the transactions table status column: only an explicit
// "normal" label is shown as ok.
func Status(label models.Label) (string, bool) {
	if label == models.LabelNormal {
		return "✓", true
	}
	return "✗", false
}
