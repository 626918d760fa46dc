// Package wallet is a stand-in for browser wallet connection. It never talks
// to a chain: Connect waits a fixed delay and reports a configured account.
package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// State is an immutable view of the connection.
type State struct {
	Status      Status    `json:"status"`
	Account     string    `json:"account,omitempty"` // EIP-55 checksummed
	ChainID     int64     `json:"chain_id"`
	SessionID   string    `json:"session_id,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

func (s State) Connected() bool { return s.Status == StatusConnected }

type Connector struct {
	account common.Address
	chainID int64
	delay   time.Duration

	mu      sync.Mutex
	state   State
	pending chan struct{} // closed when the current attempt settles
}

func NewConnector(account string, chainID int64, delay time.Duration) (*Connector, error) {
	if !common.IsHexAddress(account) {
		return nil, fmt.Errorf("wallet account %q is not a hex address", account)
	}
	return &Connector{
		account: common.HexToAddress(account),
		chainID: chainID,
		delay:   delay,
		state:   State{Status: StatusDisconnected, ChainID: chainID},
	}, nil
}

func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect returns once the stub connection is established. Concurrent calls
// share one attempt; calling it while connected returns the current state.
// A cancelled ctx only stops this caller's wait, the attempt still completes.
func (c *Connector) Connect(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.state.Status == StatusConnected {
		st := c.state
		c.mu.Unlock()
		return st, nil
	}
	wait := c.pending
	if wait == nil {
		wait = make(chan struct{})
		c.pending = wait
		c.state = State{Status: StatusConnecting, ChainID: c.chainID}
		go c.settle(wait)
	}
	c.mu.Unlock()

	select {
	case <-wait:
		return c.State(), nil
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

func (c *Connector) settle(done chan struct{}) {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-done:
		return // disconnected while pending
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != done {
		return
	}
	c.state = State{
		Status:      StatusConnected,
		Account:     c.account.Hex(),
		ChainID:     c.chainID,
		SessionID:   uuid.NewString(),
		ConnectedAt: time.Now().UTC(),
	}
	c.pending = nil
	close(done)
	log.Info().Str("account", c.account.Hex()).Int64("chain", c.chainID).Msg("👛 wallet connected")
}

// Disconnect drops the session and any attempt in progress.
func (c *Connector) Disconnect() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		close(c.pending)
		c.pending = nil
	}
	c.state = State{Status: StatusDisconnected, ChainID: c.chainID}
	return c.state
}
