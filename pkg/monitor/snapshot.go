package monitor

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chain-guardian/pkg/aggregator"
	"github.com/chain-guardian/pkg/models"
	"github.com/chain-guardian/pkg/upstream"
)

// Parts of a refresh cycle, used as keys of Snapshot.Errors.
const (
	PartTransactions = "transactions"
	PartAlerts       = "alerts"
	PartStats        = "stats"
)

// Snapshot is the complete view state after one refresh cycle. A snapshot is
// never modified once published; the next cycle builds a new one.
type Snapshot struct {
	CycleID   string    `json:"cycle_id"`
	UpdatedAt time.Time `json:"updated_at"`

	Transactions []models.TransactionRecord `json:"transactions"`
	Alerts       []models.AlertRecord       `json:"alerts"`
	Stats        models.Stats               `json:"stats"`

	Trend   []models.TrendPoint `json:"trend"`
	Risk    []models.RiskSlice  `json:"risk"`
	Summary aggregator.Summary  `json:"summary"`

	// Volume is the summed amount of the listed transactions, in ETH.
	Volume decimal.Decimal `json:"volume"`
	// FlaggedAddresses estimates distinct flagged addresses seen since start.
	FlaggedAddresses uint64 `json:"flagged_addresses"`

	// Errors of this cycle by part. A failed part keeps the previous value.
	Errors map[string]string `json:"errors,omitempty"`
	Stale  bool              `json:"stale"`
}

// emptySnapshot is the state before any data arrived.
func emptySnapshot() *Snapshot {
	return &Snapshot{
		Transactions: []models.TransactionRecord{},
		Alerts:       []models.AlertRecord{},
	}
}

// nextSnapshot merges one fetch round into prev. Parts that failed carry over
// from prev; chart series are recomputed from the resulting transactions.
func nextSnapshot(prev *Snapshot, res upstream.Result, flagged uint64, at time.Time, cycleID string) *Snapshot {
	if prev == nil {
		prev = emptySnapshot()
	}
	next := &Snapshot{
		CycleID:          cycleID,
		UpdatedAt:        at,
		Transactions:     prev.Transactions,
		Alerts:           prev.Alerts,
		Stats:            prev.Stats,
		FlaggedAddresses: flagged,
	}

	errs := map[string]string{}
	if res.TransactionsErr != nil {
		errs[PartTransactions] = res.TransactionsErr.Error()
	} else if res.Transactions != nil {
		next.Transactions = res.Transactions
	}
	if res.AlertsErr != nil {
		errs[PartAlerts] = res.AlertsErr.Error()
	} else if res.Alerts != nil {
		next.Alerts = res.Alerts
	}
	if res.StatsErr != nil {
		errs[PartStats] = res.StatsErr.Error()
	} else if res.Stats != nil {
		next.Stats = *res.Stats
	}
	if len(errs) > 0 {
		next.Errors = errs
		next.Stale = true
	}

	next.Trend = aggregator.ComputeTrend(next.Transactions)
	next.Risk = aggregator.ComputeRiskDistribution(next.Transactions)
	next.Summary = aggregator.Summarize(next.Transactions)
	next.Volume = decimal.Zero
	for _, tx := range next.Transactions {
		next.Volume = next.Volume.Add(tx.Amount)
	}
	return next
}
