package aggregator_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chain-guardian/pkg/aggregator"
	"github.com/chain-guardian/pkg/models"
)

func normalTx(id string) models.TransactionRecord {
	return models.TransactionRecord{ID: id, Label: models.LabelNormal}
}

func fraudTx(id string) models.TransactionRecord {
	return models.TransactionRecord{ID: id, Label: models.LabelFraud}
}

func scored(scores ...float64) []models.TransactionRecord {
	txs := make([]models.TransactionRecord, len(scores))
	for i, s := range scores {
		txs[i] = models.TransactionRecord{RiskScore: models.Score(s)}
	}
	return txs
}

func names(points []models.TrendPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Name
	}
	return out
}

func TestComputeTrend_Empty(t *testing.T) {
	assert.Equal(t, []models.TrendPoint{{Name: "No Data"}}, aggregator.ComputeTrend(nil))
	assert.Equal(t, []models.TrendPoint{{Name: "No Data"}}, aggregator.ComputeTrend([]models.TransactionRecord{}))
}

func TestComputeTrend_FewerThanSix(t *testing.T) {
	// newest first: t3 (fraud), t2 (normal), t1 (suspicious flag)
	txs := []models.TransactionRecord{
		fraudTx("t3"),
		normalTx("t2"),
		{ID: "t1", IsSuspicious: true},
	}

	got := aggregator.ComputeTrend(txs)

	want := []models.TrendPoint{
		{Name: "Tx 1", Fraud: 1},
		{Name: "Tx 2", Normal: 1},
		{Name: "Tx 3", Fraud: 1},
	}
	assert.Equal(t, want, got)
}

func TestComputeTrend_OnePointPerRecord(t *testing.T) {
	for n := 1; n < aggregator.TrendBuckets; n++ {
		txs := make([]models.TransactionRecord, n)
		for i := range txs {
			if i%2 == 0 {
				txs[i] = fraudTx("")
			}
		}
		got := aggregator.ComputeTrend(txs)
		require.Len(t, got, n)
		for _, p := range got {
			assert.Equal(t, 1, p.Normal+p.Fraud, "n=%d point %s", n, p.Name)
		}
	}
}

func TestComputeTrend_SixBuckets(t *testing.T) {
	txs := []models.TransactionRecord{
		fraudTx("newest"),
		normalTx("b"),
		normalTx("c"),
		fraudTx("d"),
		normalTx("e"),
		normalTx("oldest"),
	}

	got := aggregator.ComputeTrend(txs)

	assert.Equal(t, []string{"Oldest", "Grp 5", "Grp 4", "Grp 3", "Grp 2", "Latest"}, names(got))
	assert.Equal(t, models.TrendPoint{Name: "Latest", Fraud: 1}, got[5])
	assert.Equal(t, models.TrendPoint{Name: "Grp 4", Fraud: 1}, got[2])
	assert.Equal(t, models.TrendPoint{Name: "Oldest", Normal: 1}, got[0])
}

func TestComputeTrend_UnevenBuckets(t *testing.T) {
	txs := make([]models.TransactionRecord, 13)
	for i := range txs {
		txs[i] = normalTx("")
	}
	txs[12] = fraudTx("oldest")

	got := aggregator.ComputeTrend(txs)
	require.Len(t, got, aggregator.TrendBuckets)

	// ceil(13/6) = 3: [0,3) [3,6) [6,9) [9,12) [12,13) and an empty sixth bucket
	want := []models.TrendPoint{
		{Name: "Oldest"},
		{Name: "Grp 5", Fraud: 1},
		{Name: "Grp 4", Normal: 3},
		{Name: "Grp 3", Normal: 3},
		{Name: "Grp 2", Normal: 3},
		{Name: "Latest", Normal: 3},
	}
	assert.Equal(t, want, got)

	total := 0
	for _, p := range got {
		total += p.Normal + p.Fraud
	}
	assert.Equal(t, 13, total)
}

func TestComputeTrend_NeverDropsRecords(t *testing.T) {
	for n := aggregator.TrendBuckets; n <= 100; n++ {
		txs := make([]models.TransactionRecord, n)
		got := aggregator.ComputeTrend(txs)
		require.Len(t, got, aggregator.TrendBuckets)
		total := 0
		for _, p := range got {
			total += p.Normal + p.Fraud
		}
		assert.Equal(t, n, total, "n=%d", n)
	}
}

func TestComputeTrend_DoesNotMutateInput(t *testing.T) {
	txs := []models.TransactionRecord{fraudTx("a"), normalTx("b"), normalTx("c")}
	before := append([]models.TransactionRecord(nil), txs...)

	aggregator.ComputeTrend(txs)

	assert.Equal(t, before, txs)
}

func TestComputeRiskDistribution(t *testing.T) {
	tests := []struct {
		name string
		txs  []models.TransactionRecord
		want []int
	}{
		{
			name: "empty assumes safe",
			txs:  nil,
			want: []int{100, 0, 0},
		},
		{
			name: "mixed tiers",
			txs:  scored(0.1, 0.5, 0.9, 0.2),
			want: []int{50, 25, 25},
		},
		{
			name: "boundaries are half open",
			txs:  scored(0.39999, 0.4, 0.69999, 0.7),
			want: []int{25, 50, 25},
		},
		{
			name: "thirds round independently",
			txs:  scored(0.1, 0.5, 0.9),
			want: []int{33, 33, 33},
		},
		{
			name: "halves round up",
			txs:  scored(0.1, 0.1, 0.1, 0.5, 0.5, 0.5, 0.9, 0.9),
			want: []int{38, 38, 25},
		},
		{
			name: "all high",
			txs:  scored(0.95, 1),
			want: []int{0, 0, 100},
		},
		{
			name: "NaN is low",
			txs:  []models.TransactionRecord{{RiskScore: models.Score(math.NaN())}},
			want: []int{100, 0, 0},
		},
		{
			name: "infinite scores are low",
			txs:  []models.TransactionRecord{{RiskScore: models.Score(math.Inf(1))}, {RiskScore: models.Score(math.Inf(-1))}},
			want: []int{100, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := aggregator.ComputeRiskDistribution(tt.txs)
			require.Len(t, got, 3)
			assert.Equal(t, "Low Risk", got[0].Name)
			assert.Equal(t, "Medium Risk", got[1].Name)
			assert.Equal(t, "High Risk", got[2].Name)
			assert.Equal(t, tt.want, []int{got[0].Value, got[1].Value, got[2].Value})
		})
	}
}

func TestComputeRiskDistribution_Colors(t *testing.T) {
	got := aggregator.ComputeRiskDistribution(nil)
	assert.Equal(t, []models.RiskSlice{
		{Name: "Low Risk", Value: 100, Color: "#10b981"},
		{Name: "Medium Risk", Value: 0, Color: "#f59e0b"},
		{Name: "High Risk", Value: 0, Color: "#ef4444"},
	}, got)
}

func TestComputeRiskDistribution_MalformedScoresAreLow(t *testing.T) {
	var txs []models.TransactionRecord
	err := json.Unmarshal([]byte(`[
		{"riskScore": "abc"},
		{"riskScore": null},
		{},
		{"riskScore": true},
		{"riskScore": "0.8"},
		42
	]`), &txs)
	require.NoError(t, err)
	require.Len(t, txs, 6)

	got := aggregator.ComputeRiskDistribution(txs)
	assert.Equal(t, []int{83, 0, 17}, []int{got[0].Value, got[1].Value, got[2].Value})
}

func TestClassificationsAreIndependent(t *testing.T) {
	txs := []models.TransactionRecord{{ID: "x", RiskScore: 0.9, Label: models.LabelNormal}}

	trend := aggregator.ComputeTrend(txs)
	risk := aggregator.ComputeRiskDistribution(txs)

	assert.Equal(t, []models.TrendPoint{{Name: "Tx 1", Normal: 1}}, trend)
	assert.Equal(t, 100, risk[2].Value)
}

func TestIdempotent(t *testing.T) {
	txs := scored(0.1, 0.2, 0.5, 0.8, 0.9, 0.3, 0.75)
	txs[1].Label = models.LabelSuspicious

	trend1, _ := json.Marshal(aggregator.ComputeTrend(txs))
	trend2, _ := json.Marshal(aggregator.ComputeTrend(txs))
	risk1, _ := json.Marshal(aggregator.ComputeRiskDistribution(txs))
	risk2, _ := json.Marshal(aggregator.ComputeRiskDistribution(txs))

	assert.Equal(t, trend1, trend2)
	assert.Equal(t, risk1, risk2)
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, aggregator.TierLow, aggregator.TierOf(-1))
	assert.Equal(t, aggregator.TierLow, aggregator.TierOf(0))
	assert.Equal(t, aggregator.TierMedium, aggregator.TierOf(0.4))
	assert.Equal(t, aggregator.TierHigh, aggregator.TierOf(0.7))
	assert.Equal(t, aggregator.TierHigh, aggregator.TierOf(5))
	assert.Equal(t, aggregator.TierLow, aggregator.TierOf(math.NaN()))
}

func TestTier_OutOfRange(t *testing.T) {
	assert.Equal(t, "Medium Risk", aggregator.TierMedium.String())
	assert.Equal(t, "Unknown", aggregator.Tier(7).String())
	assert.Equal(t, "Unknown", aggregator.Tier(-1).String())
	assert.Equal(t, "#6b7280", aggregator.Tier(3).Color())
}

func TestSummarize_NaNScoreIsLow(t *testing.T) {
	got := aggregator.Summarize([]models.TransactionRecord{{RiskScore: models.Score(math.NaN())}})
	assert.Equal(t, 1, got.Low)
	assert.Zero(t, got.High)
}

func TestSummarize(t *testing.T) {
	txs := []models.TransactionRecord{
		{RiskScore: 0.9, Label: models.LabelNormal},
		{RiskScore: 0.5, Label: models.LabelSuspicious},
		{RiskScore: 0.1, IsSuspicious: true},
		{RiskScore: 0.2},
	}

	got := aggregator.Summarize(txs)

	assert.Equal(t, aggregator.Summary{Total: 4, Fraud: 2, Normal: 2, Low: 2, Medium: 1, High: 1}, got)
}
