package coopwatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/coopwatch/internal/adapters/ws"
	"github.com/bft-labs/coopwatch/internal/app"
	"github.com/bft-labs/coopwatch/internal/domain"
	"github.com/bft-labs/coopwatch/pkg/command"
	"github.com/bft-labs/coopwatch/pkg/log"
	"github.com/bft-labs/coopwatch/pkg/status"
	"github.com/bft-labs/coopwatch/pkg/view"
)

// Watcher follows the door status and sends door commands.
// Use New to create one, then Start to connect.
type Watcher struct {
	config     Config
	statusURL  string
	opts       options
	lifecycle  *app.Lifecycle
	dispatcher *command.HTTPDispatcher
	emitter    *eventEmitterWrapper
	logger     log.Logger
	plugins    []Plugin

	mu     sync.RWMutex
	client *app.Client

	ctlMu    sync.RWMutex
	controls []command.Control
}

// New creates a Watcher in StateStopped. It returns an error wrapping
// ErrInvalidConfig if cfg is unusable.
func New(cfg Config, opts ...Option) (*Watcher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}
	statusURL, err := StatusURL(cfg.Origin, cfg.StatusPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}
	if o.dialer == nil {
		o.dialer = ws.NewDialer(cfg.HandshakeTimeout)
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	dispatcher := command.NewHTTPDispatcher(HTTPOrigin(cfg.Origin), o.httpClient, o.logger)
	dispatcher.SetTimeout(cfg.CommandTimeout)
	dispatcher.SetObserver(emitter.onCommand)

	return &Watcher{
		config:     cfg,
		statusURL:  statusURL,
		opts:       o,
		lifecycle:  app.NewLifecycle(o.logger, emitter),
		dispatcher: dispatcher,
		emitter:    emitter,
		logger:     o.logger,
		plugins:    o.plugins,
		controls:   append([]command.Control(nil), cfg.Controls...),
	}, nil
}

// Start connects to the status channel in the background. The record starts
// as unknown for every Start.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.lifecycle.CanStart() {
		return ErrAlreadyRunning
	}
	if err := w.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.lifecycle.SetCancel(cancel)

	pluginCfg := PluginConfig{
		Origin:      w.config.Origin,
		Logger:      w.logger,
		Controls:    w.Controls,
		SetControls: w.SetControls,
	}
	for i, p := range w.plugins {
		if err := initPlugin(runCtx, p, pluginCfg); err != nil {
			w.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			cancel()
			w.shutdownPlugins(w.plugins[:i])
			_ = w.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		w.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	client := app.NewClient(app.ClientConfig{
		URL:            w.statusURL,
		Reconnect:      w.config.Reconnect,
		BackoffInitial: w.config.ReconnectInitial,
		BackoffMax:     w.config.ReconnectMax,
	}, w.opts.dialer, w.opts.surface, w.logger, w.emitter)
	w.client = client

	if err := w.lifecycle.TransitionTo(app.StateRunning, "watcher started"); err != nil {
		cancel()
		return err
	}

	w.lifecycle.Go(func() {
		err := client.Run(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("watcher error", log.Err(err))
			_ = w.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	})
	return nil
}

// initPlugin converts a panicking plugin into an error.
func initPlugin(ctx context.Context, p Plugin, cfg PluginConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin %s panicked: %v", p.Name(), r)
		}
	}()
	return p.Initialize(ctx, cfg)
}

// Stop closes the status channel and shuts plugins down. Commands already
// dispatched are left to finish on their own.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.lifecycle.CanStop() {
		w.mu.Unlock()
		return ErrNotRunning
	}
	if err := w.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		w.mu.Unlock()
		return err
	}
	w.lifecycle.Cancel()
	w.mu.Unlock()

	err := w.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
	w.shutdownPlugins(w.plugins)

	if err != nil {
		_ = w.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = w.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// shutdownPlugins shuts plugins down in reverse order.
func (w *Watcher) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := shutdownPlugin(ctx, p); err != nil {
			w.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			continue
		}
		w.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
	}
}

func shutdownPlugin(ctx context.Context, p Plugin) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin %s panicked: %v", p.Name(), r)
		}
	}()
	return p.Shutdown(ctx)
}

// Status returns the lifecycle state. Safe for concurrent use.
func (w *Watcher) Status() State {
	return convertState(w.lifecycle.State())
}

// Connection returns the status channel phase. Before the first Start it
// reports ConnClosed.
func (w *Watcher) Connection() ConnectionState {
	w.mu.RLock()
	client := w.client
	w.mu.RUnlock()
	if client == nil {
		return ConnClosed
	}
	return client.State()
}

// Current returns the last accepted status record.
func (w *Watcher) Current() status.Record {
	w.mu.RLock()
	client := w.client
	w.mu.RUnlock()
	if client == nil {
		return status.Initial()
	}
	return client.Current()
}

// Display returns what the configured surface would show for the current
// record.
func (w *Watcher) Display() view.Display {
	return view.Compute(w.Current())
}

// Controls returns a copy of the control table.
func (w *Watcher) Controls() []command.Control {
	w.ctlMu.RLock()
	defer w.ctlMu.RUnlock()
	return append([]command.Control(nil), w.controls...)
}

// SetControls replaces the control table.
func (w *Watcher) SetControls(controls []command.Control) error {
	cfg := Config{Origin: w.config.Origin, StatusPath: w.config.StatusPath, Controls: controls}
	if err := cfg.Validate(); err != nil {
		return err
	}
	w.ctlMu.Lock()
	w.controls = append([]command.Control(nil), controls...)
	w.ctlMu.Unlock()
	w.logger.Info("controls updated", log.Int("count", len(controls)))
	return nil
}

// Dispatch sends the named control and returns without waiting for the
// controller. It works whether or not the watcher is running.
func (w *Watcher) Dispatch(name string) error {
	control, err := w.lookup(name)
	if err != nil {
		return err
	}
	w.dispatcher.Dispatch(context.Background(), control)
	return nil
}

// DispatchSync sends the named control and waits for the response status.
func (w *Watcher) DispatchSync(ctx context.Context, name string) (int, error) {
	control, err := w.lookup(name)
	if err != nil {
		return 0, err
	}
	return w.dispatcher.DispatchSync(ctx, control)
}

// WaitCommands blocks until every Dispatch has finished.
func (w *Watcher) WaitCommands() {
	w.dispatcher.Wait()
}

func (w *Watcher) lookup(name string) (command.Control, error) {
	w.ctlMu.RLock()
	control, ok := command.Find(w.controls, name)
	w.ctlMu.RUnlock()
	if !ok {
		return command.Control{}, fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	return control, nil
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnConnectionChange(previous, current domain.ConnectionState, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnConnectionChange(ConnectionEvent{Previous: previous, Current: current, Reason: reason})
}

func (e *eventEmitterWrapper) OnStatus(record status.Record, changed bool) {
	if e.handler == nil {
		return
	}
	e.handler.OnStatus(StatusEvent{Record: record, Changed: changed})
}

func (e *eventEmitterWrapper) OnFrameRejected(payload string) {
	if e.handler == nil {
		return
	}
	e.handler.OnFrameRejected(FrameRejectedEvent{Payload: payload})
}

func (e *eventEmitterWrapper) onCommand(r command.Result) {
	if e.handler == nil {
		return
	}
	e.handler.OnCommand(CommandEvent{
		Control:    r.Control.Name,
		StatusCode: r.Status,
		Err:        r.Err,
		Duration:   r.Duration,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
