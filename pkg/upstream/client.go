package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/chain-guardian/pkg/models"
)

// ── ChainGuardian REST client ───────────────────────────────
// GET /api/txs?limit=N    -> {transactions: [...]}
// GET /api/alerts?limit=N -> {alerts: [...]}
// GET /api/stats          -> {totalTx, fraudDetected, accuracy, activeAlerts}

const maxBody = 10 << 20

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Path, e.Code)
}

type Client struct {
	baseURL    string
	txLimit    int
	alertLimit int
	client     *http.Client
}

// New returns a client for baseURL. Timeouts come from the caller's context;
// hc may be nil.
func New(baseURL string, txLimit, alertLimit int, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: baseURL, txLimit: txLimit, alertLimit: alertLimit, client: hc}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return &StatusError{Path: path, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("GET %s: read body: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(body)).Dur("took", time.Since(start)).Msg("upstream fetch")
	return nil
}

func limitQuery(n int) url.Values {
	return url.Values{"limit": []string{strconv.Itoa(n)}}
}

// Transactions returns the most recent transactions, newest first.
func (c *Client) Transactions(ctx context.Context) ([]models.TransactionRecord, error) {
	var resp struct {
		Transactions []models.TransactionRecord `json:"transactions"`
	}
	if err := c.getJSON(ctx, "/api/txs", limitQuery(c.txLimit), &resp); err != nil {
		return nil, err
	}
	if resp.Transactions == nil {
		resp.Transactions = []models.TransactionRecord{}
	}
	return resp.Transactions, nil
}

func (c *Client) Alerts(ctx context.Context) ([]models.AlertRecord, error) {
	var resp struct {
		Alerts []models.AlertRecord `json:"alerts"`
	}
	if err := c.getJSON(ctx, "/api/alerts", limitQuery(c.alertLimit), &resp); err != nil {
		return nil, err
	}
	if resp.Alerts == nil {
		resp.Alerts = []models.AlertRecord{}
	}
	return resp.Alerts, nil
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := c.getJSON(ctx, "/api/stats", nil, &stats)
	return stats, err
}

// Result holds one round of the three fetches. Each part is independent:
// a failed part has a nil value and a non-nil error, the others are unaffected.
type Result struct {
	Transactions []models.TransactionRecord
	Alerts       []models.AlertRecord
	Stats        *models.Stats

	TransactionsErr error
	AlertsErr       error
	StatsErr        error
}

// Failed reports whether any part failed.
func (r Result) Failed() bool {
	return r.TransactionsErr != nil || r.AlertsErr != nil || r.StatsErr != nil
}

// FetchAll runs the three fetches concurrently and waits for all of them.
// One failing part does not cancel the others.
func (c *Client) FetchAll(ctx context.Context) Result {
	var (
		res Result
		g   errgroup.Group
	)
	g.Go(func() error {
		res.Transactions, res.TransactionsErr = c.Transactions(ctx)
		return nil
	})
	g.Go(func() error {
		res.Alerts, res.AlertsErr = c.Alerts(ctx)
		return nil
	})
	g.Go(func() error {
		stats, err := c.Stats(ctx)
		if err != nil {
			res.StatsErr = err
			return nil
		}
		res.Stats = &stats
		return nil
	})
	_ = g.Wait()
	return res
}
