package monitor

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/axiomhq/hyperloglog"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/chain-guardian/pkg/models"
)

// Monitor polls a Source on a fixed interval and publishes immutable
// snapshots. At most one refresh cycle is in flight: scheduled ticks that
// fire while a cycle runs are skipped, and manual refreshes join the running
// cycle instead of starting another one.
type Monitor struct {
	src      Source
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	flight  singleflight.Group
	current atomic.Pointer[Snapshot]

	baseMu sync.RWMutex
	base   context.Context // parent of every cycle; cancelled on shutdown

	sketchMu sync.Mutex
	sketch   *hyperloglog.Sketch

	subsMu     sync.Mutex
	subs       map[int]chan *Snapshot
	nextSub    int
	subsClosed bool // set once Run has shut down
}

// New returns a monitor. timeout bounds one whole cycle.
func New(src Source, interval, timeout time.Duration) *Monitor {
	return &Monitor{
		src:      src,
		interval: interval,
		timeout:  timeout,
		now:      func() time.Time { return time.Now().UTC() },
		base:     context.Background(),
		sketch:   hyperloglog.New14(),
		subs:     make(map[int]chan *Snapshot),
	}
}

// Current returns the latest snapshot, or nil before the first cycle ended.
func (m *Monitor) Current() *Snapshot {
	return m.current.Load()
}

// Run refreshes immediately and then on every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.baseMu.Lock()
	m.base = ctx
	m.baseMu.Unlock()

	log.Info().Dur("interval", m.interval).Dur("timeout", m.timeout).Msg("🔄 refresh monitor started")
	m.Refresh(ctx)

	logger := cronLogger{}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	c.Schedule(cron.Every(m.interval), cron.FuncJob(func() {
		m.Refresh(ctx)
	}))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	m.closeSubscribers()
	return ctx.Err()
}

// Refresh runs one cycle, or waits for the one already running. If ctx ends
// first the caller gets the current snapshot and ctx.Err(); the shared cycle
// keeps going.
func (m *Monitor) Refresh(ctx context.Context) (*Snapshot, error) {
	ch := m.flight.DoChan("refresh", func() (interface{}, error) {
		return m.cycle(), nil
	})
	select {
	case r := <-ch:
		return r.Val.(*Snapshot), nil
	case <-ctx.Done():
		return m.Current(), ctx.Err()
	}
}

func (m *Monitor) cycle() *Snapshot {
	m.baseMu.RLock()
	base := m.base
	m.baseMu.RUnlock()

	ctx, cancel := context.WithTimeout(base, m.timeout)
	defer cancel()

	id := uuid.NewString()
	start := time.Now()
	res := m.src.FetchAll(ctx)

	var flagged uint64
	if res.AlertsErr == nil {
		flagged = m.trackFlagged(res.Alerts)
	} else {
		flagged = m.flaggedEstimate()
	}

	snap := nextSnapshot(m.current.Load(), res, flagged, m.now(), id)
	m.current.Store(snap)

	for part, msg := range snap.Errors {
		log.Warn().Str("cycle", id).Str("part", part).Str("err", msg).Msg("⚠️ refresh failed, keeping previous data")
	}
	log.Debug().
		Str("cycle", id).
		Int("txs", len(snap.Transactions)).
		Int("alerts", len(snap.Alerts)).
		Int("fraud", snap.Summary.Fraud).
		Dur("took", time.Since(start)).
		Msg("refresh done")

	m.publish(snap)
	return snap
}

func (m *Monitor) trackFlagged(alerts []models.AlertRecord) uint64 {
	m.sketchMu.Lock()
	defer m.sketchMu.Unlock()
	for _, a := range alerts {
		if a.FlaggedAddress == "" {
			continue
		}
		m.sketch.Insert([]byte(strings.ToLower(a.FlaggedAddress)))
	}
	return m.sketch.Estimate()
}

func (m *Monitor) flaggedEstimate() uint64 {
	m.sketchMu.Lock()
	defer m.sketchMu.Unlock()
	return m.sketch.Estimate()
}

// Subscribe returns a channel receiving each new snapshot. Slow readers only
// ever see the newest one. The returned func unsubscribes. After Run has
// returned the channel comes back already closed.
func (m *Monitor) Subscribe() (<-chan *Snapshot, func()) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	if m.subsClosed {
		ch := make(chan *Snapshot)
		close(ch)
		return ch, func() {}
	}

	id := m.nextSub
	m.nextSub++
	ch := make(chan *Snapshot, 1)
	m.subs[id] = ch

	return ch, func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

func (m *Monitor) publish(s *Snapshot) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
			// drop the stale snapshot nobody read yet
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

func (m *Monitor) closeSubscribers() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.subsClosed = true
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}

// cronLogger routes cron's own logging to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
