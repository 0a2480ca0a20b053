package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/coopwatch/internal/domain"
	"github.com/bft-labs/coopwatch/internal/ports"
	"github.com/bft-labs/coopwatch/pkg/log"
	"github.com/bft-labs/coopwatch/pkg/status"
	"github.com/bft-labs/coopwatch/pkg/view"
)

// Probe is sent once on every freshly opened status channel.
const Probe = "ping"

// ClientConfig controls the connection manager.
type ClientConfig struct {
	URL            string
	Reconnect      bool
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// ConnEventEmitter receives connection and status events.
type ConnEventEmitter interface {
	OnConnectionChange(previous, current domain.ConnectionState, reason string)
	OnStatus(record status.Record, changed bool)
	OnFrameRejected(payload string)
}

// Client owns the status channel, the current record and the display.
// Every callback runs on the goroutine executing Run.
type Client struct {
	config     ClientConfig
	dialer     ports.Dialer
	reconciler *status.Reconciler
	renderer   *view.Renderer
	logger     log.Logger
	emitter    ConnEventEmitter

	mu    sync.RWMutex
	state domain.ConnectionState
	dials int
}

// NewClient returns a client in the connecting state. A nil surface renders
// nowhere; a nil emitter drops events.
func NewClient(config ClientConfig, dialer ports.Dialer, surface view.Surface, logger log.Logger, emitter ConnEventEmitter) *Client {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Client{
		config:     config,
		dialer:     dialer,
		reconciler: status.NewReconciler(),
		renderer:   view.NewRenderer(surface),
		logger:     logger,
		emitter:    emitter,
		state:      domain.ConnConnecting,
	}
}

// State returns the connection phase.
func (c *Client) State() domain.ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Current returns the last accepted status record.
func (c *Client) Current() status.Record {
	return c.reconciler.Current()
}

// Dials returns how many connection attempts have been made.
func (c *Client) Dials() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dials
}

// Run connects and processes messages until the channel closes. With
// reconnect enabled it dials again after a backoff until ctx is done.
// A dropped channel is not an error: Run returns nil, or ctx.Err() when
// cancelled.
func (c *Client) Run(ctx context.Context) error {
	b := newBackoff(c.config.BackoffInitial, c.config.BackoffMax)
	for {
		opened := c.session(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if !c.config.Reconnect {
			return nil
		}
		if opened {
			b.Reset()
		}
		c.logger.Info("reconnecting", log.Duration("backoff", b.Current()))
		if err := b.Wait(ctx); err != nil {
			return err
		}
		if err := c.transition(domain.ConnConnecting, "reconnect"); err != nil {
			return err
		}
	}
}

// session runs one connection attempt and reports whether it opened.
func (c *Client) session(ctx context.Context) bool {
	c.mu.Lock()
	c.dials++
	c.mu.Unlock()

	c.logger.Debug("dialing", log.String("url", c.config.URL))
	conn, err := c.dialer.Dial(ctx, c.config.URL)
	if err != nil {
		c.logger.Warn("status channel unavailable", log.String("url", c.config.URL), log.Err(err))
		c.onClose("dial failed")
		return false
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	c.onOpen()
	if err := conn.WriteText(Probe); err != nil {
		c.logger.Warn("probe failed", log.Err(err))
		c.onClose("probe failed")
		return true
	}

	for {
		payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				c.onClose("cancelled")
			} else {
				c.logger.Warn("status channel closed", log.Err(err))
				c.onClose(err.Error())
			}
			return true
		}
		c.onMessage(payload)
	}
}

func (c *Client) onOpen() {
	prev, err := c.setState(domain.ConnOpen)
	if err != nil {
		return
	}
	c.logger.Info("status channel open", log.String("url", c.config.URL))
	c.renderer.Awaiting()
	c.emitConnection(prev, domain.ConnOpen, "connected")
}

func (c *Client) onMessage(payload string) {
	if c.State() != domain.ConnOpen {
		return
	}
	rec, updated, changed := c.reconciler.ApplyPayload(payload)
	if !updated {
		c.logger.Debug("ignored frame", log.String("payload", payload))
		if c.emitter != nil {
			c.emitter.OnFrameRejected(payload)
		}
		return
	}
	c.renderer.Render(rec)
	if changed {
		c.logger.Info("status", log.String("record", rec.String()))
	}
	if c.emitter != nil {
		c.emitter.OnStatus(rec, changed)
	}
}

func (c *Client) onClose(reason string) {
	prev, err := c.setState(domain.ConnClosed)
	if err != nil {
		return
	}
	c.renderer.NoData()
	c.emitConnection(prev, domain.ConnClosed, reason)
}

func (c *Client) transition(next domain.ConnectionState, reason string) error {
	prev, err := c.setState(next)
	if err != nil {
		return err
	}
	c.emitConnection(prev, next, reason)
	return nil
}

func (c *Client) setState(next domain.ConnectionState) (domain.ConnectionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.state
	if !prev.CanTransition(next, c.config.Reconnect) {
		return prev, domain.ErrInvalidTransition
	}
	c.state = next
	return prev, nil
}

// emitConnection runs after the surface shows the new phase.
func (c *Client) emitConnection(prev, next domain.ConnectionState, reason string) {
	if c.emitter != nil {
		c.emitter.OnConnectionChange(prev, next, reason)
	}
}
