// Package aggregator turns the newest-first transaction list delivered by the
// API into chart series: a fraud trend for the line chart and a risk tier
// distribution for the pie chart. Everything here is pure; callers may run it
// on every refresh.
package aggregator

import (
	"fmt"
	"math"

	"github.com/chain-guardian/pkg/models"
)

// TrendBuckets is the number of points the trend chart shows once there are
// enough transactions to group.
const TrendBuckets = 6

// Risk tier cut-offs on riskScore. Intervals are half-open: [0, Medium) is low,
// [Medium, High) medium, [High, ∞) high.
const (
	MediumRiskThreshold = 0.4
	HighRiskThreshold   = 0.7
)

// Tier is a risk tier of a single transaction.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

var tierNames = [...]string{"Low Risk", "Medium Risk", "High Risk"}
var tierColors = [...]string{"#10b981", "#f59e0b", "#ef4444"}

func (t Tier) valid() bool { return t >= TierLow && t <= TierHigh }

// String is the chart label, "Unknown" for values outside the three tiers.
func (t Tier) String() string {
	if !t.valid() {
		return "Unknown"
	}
	return tierNames[t]
}

// Color is the chart color of the tier; grey when out of range.
func (t Tier) Color() string {
	if !t.valid() {
		return "#6b7280"
	}
	return tierColors[t]
}

// TierOf classifies a risk score. NaN counts as 0.
func TierOf(score float64) Tier {
	if math.IsNaN(score) {
		score = 0
	}
	switch {
	case score < MediumRiskThreshold:
		return TierLow
	case score < HighRiskThreshold:
		return TierMedium
	default:
		return TierHigh
	}
}

// ComputeTrend buckets txs (newest-first) into chart points ordered oldest to
// newest. With fewer than TrendBuckets records every record is its own point.
func ComputeTrend(txs []models.TransactionRecord) []models.TrendPoint {
	n := len(txs)
	if n == 0 {
		return []models.TrendPoint{{Name: "No Data"}}
	}

	if n < TrendBuckets {
		points := make([]models.TrendPoint, n)
		for i := range points {
			tx := txs[n-1-i] // oldest first
			p := models.TrendPoint{Name: fmt.Sprintf("Tx %d", i+1)}
			if tx.IsFraudulent() {
				p.Fraud = 1
			} else {
				p.Normal = 1
			}
			points[i] = p
		}
		return points
	}

	size := (n + TrendBuckets - 1) / TrendBuckets
	buckets := make([]models.TrendPoint, TrendBuckets)
	for i := range buckets {
		b := models.TrendPoint{Name: bucketName(i)}
		start := min(i*size, n)
		end := min(start+size, n)
		for _, tx := range txs[start:end] {
			if tx.IsFraudulent() {
				b.Fraud++
			} else {
				b.Normal++
			}
		}
		// index 0 holds the newest records; flip for left-to-right chart order
		buckets[TrendBuckets-1-i] = b
	}
	return buckets
}

func bucketName(i int) string {
	switch i {
	case 0:
		return "Latest"
	case TrendBuckets - 1:
		return "Oldest"
	default:
		return fmt.Sprintf("Grp %d", i+1)
	}
}

// ComputeRiskDistribution returns the Low, Medium and High shares of txs in
// percent. Each share is rounded half-up on its own, so the three values may
// add up to 99 or 101. An empty list reports everything as low risk.
func ComputeRiskDistribution(txs []models.TransactionRecord) []models.RiskSlice {
	var counts [3]int
	if len(txs) == 0 {
		counts[TierLow] = 1
	}
	for _, tx := range txs {
		counts[TierOf(tx.RiskScore.Float())]++
	}

	total := counts[TierLow] + counts[TierMedium] + counts[TierHigh]
	slices := make([]models.RiskSlice, 0, len(counts))
	for t, c := range counts {
		tier := Tier(t)
		slices = append(slices, models.RiskSlice{
			Name:  tier.String(),
			Value: percent(c, total),
			Color: tier.Color(),
		})
	}
	return slices
}

func percent(count, total int) int {
	return int(math.Floor(float64(count)/float64(total)*100 + 0.5))
}

// Summary counts records per fraud classification and per risk tier. Handy
// for cards and logs; the two classifications are independent.
type Summary struct {
	Total  int `json:"total"`
	Fraud  int `json:"fraud"`
	Normal int `json:"normal"`
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Summarize counts txs by fraud classification and by risk tier.
func Summarize(txs []models.TransactionRecord) Summary {
	s := Summary{Total: len(txs)}
	for _, tx := range txs {
		if tx.IsFraudulent() {
			s.Fraud++
		} else {
			s.Normal++
		}
		switch TierOf(tx.RiskScore.Float()) {
		case TierLow:
			s.Low++
		case TierMedium:
			s.Medium++
		default:
			s.High++
		}
	}
	return s
}
