package coopwatch

import (
	"github.com/bft-labs/coopwatch/internal/ports"
	"github.com/bft-labs/coopwatch/pkg/command"
	"github.com/bft-labs/coopwatch/pkg/log"
	"github.com/bft-labs/coopwatch/pkg/view"
)

// Dialer opens the status channel. The default uses gorilla/websocket.
type Dialer = ports.Dialer

// StatusConn is an open status channel.
type StatusConn = ports.StatusConn

// Option configures optional behaviour of a Watcher.
type Option func(*options)

type options struct {
	httpClient   command.HTTPClient
	dialer       Dialer
	surface      view.Surface
	logger       log.Logger
	eventHandler EventHandler
	plugins      []Plugin
}

// WithHTTPClient sets the client used for door commands. The default does
// not follow redirects.
func WithHTTPClient(client command.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithDialer replaces the status channel transport.
func WithDialer(dialer Dialer) Option {
	return func(o *options) {
		o.dialer = dialer
	}
}

// WithSurface sets where status is rendered. Without one the watcher
// still tracks the record but renders nothing.
func WithSurface(surface view.Surface) Option {
	return func(o *options) {
		o.surface = surface
	}
}

// WithLogger sets a structured logger. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for watcher events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin. Plugins are initialized in registration
// order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
