package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chain-guardian/pkg/monitor"
	"github.com/chain-guardian/pkg/wallet"
)

// Feed is the snapshot side of *monitor.Monitor.
type Feed interface {
	Current() *monitor.Snapshot
	Refresh(ctx context.Context) (*monitor.Snapshot, error)
	Subscribe() (<-chan *monitor.Snapshot, func())
}

// Wallet is the connection side of *wallet.Connector.
type Wallet interface {
	State() wallet.State
	Connect(ctx context.Context) (wallet.State, error)
	Disconnect() wallet.State
}

type Dashboard struct {
	feed   Feed
	wallet Wallet
	port   int
}

func New(feed Feed, w Wallet, port int) *Dashboard {
	return &Dashboard{feed: feed, wallet: w, port: port}
}

// Handler exposes the routes without starting a listener.
func (d *Dashboard) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/view", cors(d.handleView))
	mux.HandleFunc("/api/txs", cors(d.handleTransactions))
	mux.HandleFunc("/api/alerts", cors(d.handleAlerts))
	mux.HandleFunc("/api/stats", cors(d.handleStats))
	mux.HandleFunc("/api/trend", cors(d.handleTrend))
	mux.HandleFunc("/api/risk", cors(d.handleRisk))
	mux.HandleFunc("/api/refresh", cors(d.handleRefresh))
	mux.HandleFunc("/api/wallet", cors(d.handleWallet))
	mux.HandleFunc("/api/wallet/connect", cors(d.handleWalletConnect))
	mux.HandleFunc("/api/wallet/disconnect", cors(d.handleWalletDisconnect))
	mux.HandleFunc("/ws", d.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Serve frontend
	mux.HandleFunc("/", d.serveFrontend)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (d *Dashboard) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", d.port),
		Handler:           d.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("🌐 dashboard started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		http.Error(w, method+" only", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// snapshot writes 503 and returns nil while the first refresh is pending.
func (d *Dashboard) snapshot(w http.ResponseWriter, r *http.Request) *monitor.Snapshot {
	if !allow(w, r, http.MethodGet) {
		return nil
	}
	s := d.feed.Current()
	if s == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
	}
	return s
}

// limitParam reads ?limit=N; missing or invalid values mean no limit.
func limitParam(r *http.Request, n int) int {
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l >= 0 && l < n {
		return l
	}
	return n
}

type viewResponse struct {
	*monitor.Snapshot
	Wallet wallet.State `json:"wallet"`
}

func (d *Dashboard) handleView(w http.ResponseWriter, r *http.Request) {
	s := d.snapshot(w, r)
	if s == nil {
		return
	}
	writeJSON(w, viewResponse{Snapshot: s, Wallet: d.wallet.State()})
}

func (d *Dashboard) handleTransactions(w http.ResponseWriter, r *http.Request) {
	s := d.snapshot(w, r)
	if s == nil {
		return
	}
	txs := s.Transactions[:limitParam(r, len(s.Transactions))]
	writeJSON(w, map[string]interface{}{"transactions": txs})
}

func (d *Dashboard) handleAlerts(w http.ResponseWriter, r *http.Request) {
	s := d.snapshot(w, r)
	if s == nil {
		return
	}
	alerts := s.Alerts[:limitParam(r, len(s.Alerts))]
	writeJSON(w, map[string]interface{}{"alerts": alerts})
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	if s := d.snapshot(w, r); s != nil {
		writeJSON(w, s.Stats)
	}
}

func (d *Dashboard) handleTrend(w http.ResponseWriter, r *http.Request) {
	if s := d.snapshot(w, r); s != nil {
		writeJSON(w, s.Trend)
	}
}

func (d *Dashboard) handleRisk(w http.ResponseWriter, r *http.Request) {
	if s := d.snapshot(w, r); s != nil {
		writeJSON(w, s.Risk)
	}
}

func (d *Dashboard) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s, err := d.feed.Refresh(r.Context())
	if err != nil {
		log.Debug().Err(err).Msg("manual refresh abandoned")
	}
	if s == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, viewResponse{Snapshot: s, Wallet: d.wallet.State()})
}

func (d *Dashboard) handleWallet(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, d.wallet.State())
}

func (d *Dashboard) handleWalletConnect(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	st, err := d.wallet.Connect(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}
	writeJSON(w, st)
}

func (d *Dashboard) handleWalletDisconnect(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	st := d.wallet.Disconnect()
	log.Info().Msg("👛 wallet disconnected")
	writeJSON(w, st)
}
