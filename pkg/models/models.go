package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ---- Upstream records ----

type Label string

const (
	LabelNormal     Label = "normal"
	LabelSuspicious Label = "suspicious"
	LabelFraud      Label = "fraud"
)

// TransactionRecord is one entry of GET /api/txs. The list arrives newest-first.
type TransactionRecord struct {
	ID           string          `json:"_id,omitempty"`
	TxHash       string          `json:"txHash,omitempty"`
	From         string          `json:"from,omitempty"`
	To           string          `json:"to,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	RiskScore    Score           `json:"riskScore"`
	Label        Label           `json:"label,omitempty"`
	IsSuspicious bool            `json:"isSuspicious,omitempty"`
	Timestamp    Timestamp       `json:"timestamp,omitempty"`
}

// Key identifies the record in tables: _id, falling back to the tx hash.
func (t TransactionRecord) Key() string {
	if t.ID != "" {
		return t.ID
	}
	return t.TxHash
}

// IsFraudulent reports the label/flag based fraud signal. riskScore plays no part.
func (t TransactionRecord) IsFraudulent() bool {
	return t.Label == LabelSuspicious || t.Label == LabelFraud || t.IsSuspicious
}

// UnmarshalJSON never fails: malformed fields, and elements that are not
// objects at all, decode to zero values.
func (t *TransactionRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           json.RawMessage `json:"_id"`
		TxHash       json.RawMessage `json:"txHash"`
		From         json.RawMessage `json:"from"`
		To           json.RawMessage `json:"to"`
		Amount       json.RawMessage `json:"amount"`
		RiskScore    Score           `json:"riskScore"`
		Label        json.RawMessage `json:"label"`
		IsSuspicious json.RawMessage `json:"isSuspicious"`
		Timestamp    Timestamp       `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = TransactionRecord{}
		return nil
	}
	*t = TransactionRecord{
		ID:           rawString(raw.ID),
		TxHash:       rawString(raw.TxHash),
		From:         rawString(raw.From),
		To:           rawString(raw.To),
		Amount:       rawDecimal(raw.Amount),
		RiskScore:    raw.RiskScore,
		Label:        Label(rawString(raw.Label)),
		IsSuspicious: bytes.Equal(bytes.TrimSpace(raw.IsSuspicious), []byte("true")),
		Timestamp:    raw.Timestamp,
	}
	return nil
}

// AlertRecord is one entry of GET /api/alerts.
type AlertRecord struct {
	ID             string    `json:"_id,omitempty"`
	SigHash        string    `json:"sigHash,omitempty"`
	TxHash         string    `json:"txHash,omitempty"`
	FlaggedAddress string    `json:"flaggedAddress,omitempty"`
	RiskScore      Score     `json:"riskScore"`
	Severity       int       `json:"severity"`
	Timestamp      Timestamp `json:"timestamp,omitempty"`
}

func (a AlertRecord) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.SigHash
}

func (a *AlertRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             json.RawMessage `json:"_id"`
		SigHash        json.RawMessage `json:"sigHash"`
		TxHash         json.RawMessage `json:"txHash"`
		FlaggedAddress json.RawMessage `json:"flaggedAddress"`
		RiskScore      Score           `json:"riskScore"`
		Severity       Score           `json:"severity"`
		Timestamp      Timestamp       `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*a = AlertRecord{}
		return nil
	}
	*a = AlertRecord{
		ID:             rawString(raw.ID),
		SigHash:        rawString(raw.SigHash),
		TxHash:         rawString(raw.TxHash),
		FlaggedAddress: rawString(raw.FlaggedAddress),
		RiskScore:      raw.RiskScore,
		Severity:       int(raw.Severity),
		Timestamp:      raw.Timestamp,
	}
	return nil
}

// Stats mirrors GET /api/stats.
type Stats struct {
	TotalTx       int     `json:"totalTx"`
	FraudDetected int     `json:"fraudDetected"`
	Accuracy      float64 `json:"accuracy"`
	ActiveAlerts  int     `json:"activeAlerts"`
}

// ---- Chart records ----

type TrendPoint struct {
	Name   string `json:"name"`
	Normal int    `json:"normal"`
	Fraud  int    `json:"fraud"`
}

type RiskSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// ---- Lenient scalar types ----

// Score is a float decoded leniently: numbers and numeric strings are kept,
// anything else (null, bool, garbage, NaN, ±Inf) becomes 0.
type Score float64

func (s *Score) UnmarshalJSON(data []byte) error {
	*s = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
		text = strings.TrimSpace(text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*s = Score(f)
	return nil
}

// Float returns the score, with NaN and ±Inf reported as 0 so values set in
// code behave like decoded ones.
func (s Score) Float() float64 {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Float())
}

// Timestamp keeps the upstream value as text and parses it on demand.
// Accepted forms: RFC3339 (with or without fraction) and epoch milliseconds.
type Timestamp string

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*ts = Timestamp(s)
		}
		return nil
	}
	*ts = Timestamp(data)
	return nil
}

// Time parses the timestamp. ok is false when empty or unparseable.
func (ts Timestamp) Time() (time.Time, bool) {
	s := strings.TrimSpace(string(ts))
	if s == "" {
		return time.Time{}, false
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// helpers
func rawString(data json.RawMessage) string {
	var s string
	if len(data) == 0 || json.Unmarshal(data, &s) != nil {
		return ""
	}
	return s
}

func rawDecimal(data json.RawMessage) decimal.Decimal {
	var d decimal.Decimal
	if len(data) == 0 || d.UnmarshalJSON(data) != nil {
		return decimal.Zero
	}
	return d
}
