package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chain-guardian/pkg/models"
	"github.com/chain-guardian/pkg/monitor"
	"github.com/chain-guardian/pkg/upstream"
	"github.com/chain-guardian/pkg/wallet"
)

type stubSource struct {
	res upstream.Result
}

func (s stubSource) FetchAll(ctx context.Context) upstream.Result { return s.res }

func sampleResult() upstream.Result {
	return upstream.Result{
		Transactions: []models.TransactionRecord{
			{TxHash: "0x3", RiskScore: 0.8, Label: models.LabelFraud},
			{TxHash: "0x2", RiskScore: 0.5, Label: models.LabelNormal},
			{TxHash: "0x1", RiskScore: 0.1, Label: models.LabelNormal},
		},
		Alerts: []models.AlertRecord{{SigHash: "s1", FlaggedAddress: "0xdead", RiskScore: 0.8, Severity: 2}},
		Stats:  &models.Stats{TotalTx: 3, FraudDetected: 1, Accuracy: 97.5, ActiveAlerts: 1},
	}
}

func newTestDashboard(t *testing.T, refreshed bool) (*Dashboard, *monitor.Monitor) {
	t.Helper()
	mon := monitor.New(stubSource{res: sampleResult()}, time.Minute, time.Second)
	if refreshed {
		_, err := mon.Refresh(context.Background())
		require.NoError(t, err)
	}
	w, err := wallet.NewConnector("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", 80001, 0)
	require.NoError(t, err)
	return New(mon, w, 0), mon
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_NoDataYet(t *testing.T) {
	d, _ := newTestDashboard(t, false)
	h := d.Handler()

	for _, path := range []string{"/api/view", "/api/txs", "/api/alerts", "/api/stats", "/api/trend", "/api/risk"} {
		rec := do(t, h, http.MethodGet, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}

func TestHandleView(t *testing.T) {
	d, _ := newTestDashboard(t, true)

	rec := do(t, d.Handler(), http.MethodGet, "/api/view")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body struct {
		Transactions []models.TransactionRecord `json:"transactions"`
		Trend        []models.TrendPoint        `json:"trend"`
		Risk         []models.RiskSlice         `json:"risk"`
		Stats        models.Stats               `json:"stats"`
		Wallet       wallet.State               `json:"wallet"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Transactions, 3)
	assert.Equal(t, []models.TrendPoint{
		{Name: "Tx 1", Normal: 1},
		{Name: "Tx 2", Normal: 1},
		{Name: "Tx 3", Fraud: 1},
	}, body.Trend)
	assert.Equal(t, []int{33, 33, 33}, []int{body.Risk[0].Value, body.Risk[1].Value, body.Risk[2].Value})
	assert.Equal(t, 97.5, body.Stats.Accuracy)
	assert.Equal(t, wallet.StatusDisconnected, body.Wallet.Status)
}

func TestHandleTransactions_Limit(t *testing.T) {
	d, _ := newTestDashboard(t, true)
	h := d.Handler()

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?limit=2", 2},
		{"?limit=0", 0},
		{"?limit=50", 3},
		{"?limit=-1", 3},
		{"?limit=abc", 3},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodGet, "/api/txs"+tt.query)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Transactions []models.TransactionRecord `json:"transactions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Transactions, tt.want, tt.query)
	}
}

func TestHandleStatsTrendRisk(t *testing.T) {
	d, _ := newTestDashboard(t, true)
	h := d.Handler()

	rec := do(t, h, http.MethodGet, "/api/stats")
	assert.JSONEq(t, `{"totalTx":3,"fraudDetected":1,"accuracy":97.5,"activeAlerts":1}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/risk")
	assert.JSONEq(t, `[
		{"name":"Low Risk","value":33,"color":"#10b981"},
		{"name":"Medium Risk","value":33,"color":"#f59e0b"},
		{"name":"High Risk","value":33,"color":"#ef4444"}
	]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/alerts?limit=1")
	assert.Contains(t, rec.Body.String(), `"flaggedAddress":"0xdead"`)
}

func TestHandleRefresh(t *testing.T) {
	d, mon := newTestDashboard(t, false)
	h := d.Handler()

	rec := do(t, h, http.MethodGet, "/api/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, mon.Current())
	assert.Contains(t, rec.Body.String(), mon.Current().CycleID)
}

func TestHandleWallet(t *testing.T) {
	d, _ := newTestDashboard(t, true)
	h := d.Handler()

	rec := do(t, h, http.MethodGet, "/api/wallet/connect")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/wallet/connect")
	require.Equal(t, http.StatusOK, rec.Code)
	var st wallet.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.Connected())
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", st.Account)

	rec = do(t, h, http.MethodGet, "/api/wallet")
	assert.Contains(t, rec.Body.String(), `"status":"connected"`)

	rec = do(t, h, http.MethodPost, "/api/wallet/disconnect")
	assert.Contains(t, rec.Body.String(), `"status":"disconnected"`)
}

func TestCORSPreflight(t *testing.T) {
	d, _ := newTestDashboard(t, false)
	rec := do(t, d.Handler(), http.MethodOptions, "/api/refresh")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestFrontend(t *testing.T) {
	d, _ := newTestDashboard(t, false)
	h := d.Handler()

	rec := do(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "ChainGuardian AI")

	rec = do(t, h, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/healthz")
	assert.Equal(t, "ok", rec.Body.String())
}

func TestWebSocketPush(t *testing.T) {
	d, mon := newTestDashboard(t, true)
	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first monitor.Snapshot
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, mon.Current().CycleID, first.CycleID)

	next, err := mon.Refresh(context.Background())
	require.NoError(t, err)

	var second monitor.Snapshot
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, next.CycleID, second.CycleID)
}
