package tui

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/chain-guardian/pkg/format"
	"github.com/chain-guardian/pkg/models"
)

// WriteTransactions renders the transactions table used by the terminal
// dashboard and the one-shot report.
func WriteTransactions(w io.Writer, txs []models.TransactionRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tx Hash", "From", "To", "Amount", "Risk", "Status"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, tx := range txs {
		badge, _ := format.RiskBadge(tx.RiskScore.Float())
		status, _ := format.Status(tx.Label)
		table.Append([]string{
			format.Address(tx.TxHash),
			format.Address(tx.From),
			format.Address(tx.To),
			tx.Amount.String() + " ETH",
			badge,
			status,
		})
	}
	table.Render()
}

func WriteAlerts(w io.Writer, alerts []models.AlertRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Time", "Transaction", "Flagged Address", "Severity", "Risk"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, a := range alerts {
		sev, _ := format.Severity(a.Severity)
		table.Append([]string{
			format.Timestamp(a.Timestamp),
			format.Address(a.TxHash),
			format.Address(a.FlaggedAddress),
			sev,
			format.Percent(a.RiskScore.Float()),
		})
	}
	table.Render()
}
