package coopwatch

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bft-labs/coopwatch/internal/domain"
	"github.com/bft-labs/coopwatch/pkg/command"
)

// DefaultStatusPath is the status endpoint path on the origin.
const DefaultStatusPath = "/status"

// Config configures a Watcher.
type Config struct {
	// Origin is the controller's web address, e.g. http://coop.local:5000.
	// ws:// and wss:// are accepted as well.
	Origin string

	// StatusPath is the WebSocket path on the origin. Default: /status.
	StatusPath string

	// Controls are the door actions available to Dispatch.
	// Default: open, close and stop.
	Controls []command.Control

	// Reconnect dials again after the channel closes, with exponential
	// backoff between ReconnectInitial and ReconnectMax.
	Reconnect        bool
	ReconnectInitial time.Duration
	ReconnectMax     time.Duration

	// HandshakeTimeout bounds the WebSocket handshake. Zero means none.
	HandshakeTimeout time.Duration

	// CommandTimeout bounds each command request. Zero means none.
	CommandTimeout time.Duration
}

// SetDefaults fills in unset fields.
func (c *Config) SetDefaults() {
	if c.StatusPath == "" {
		c.StatusPath = DefaultStatusPath
	}
	if c.Controls == nil {
		c.Controls = command.DefaultControls()
	}
	if c.ReconnectInitial == 0 {
		c.ReconnectInitial = 500 * time.Millisecond
	}
	if c.ReconnectMax == 0 {
		c.ReconnectMax = 10 * time.Second
	}
}

// Validate reports configuration errors wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Origin == "" {
		return fmt.Errorf("%w: origin is required", domain.ErrInvalidConfig)
	}
	if _, err := StatusURL(c.Origin, c.StatusPath); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if c.HandshakeTimeout < 0 || c.CommandTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", domain.ErrInvalidConfig)
	}
	if c.ReconnectInitial < 0 || c.ReconnectMax < 0 {
		return fmt.Errorf("%w: backoff must not be negative", domain.ErrInvalidConfig)
	}
	seen := map[string]bool{}
	for _, ctl := range c.Controls {
		if ctl.Name == "" || ctl.Target == "" {
			return fmt.Errorf("%w: control %q needs a name and a target", domain.ErrInvalidConfig, ctl.Name)
		}
		if seen[ctl.Name] {
			return fmt.Errorf("%w: duplicate control %q", domain.ErrInvalidConfig, ctl.Name)
		}
		seen[ctl.Name] = true
	}
	return nil
}

// StatusURL derives the status endpoint from origin: http maps to ws,
// https to wss, and ws/wss are kept. An empty path means DefaultStatusPath.
func StatusURL(origin, path string) (string, error) {
	u, err := url.Parse(strings.TrimRight(origin, "/"))
	if err != nil {
		return "", fmt.Errorf("parse origin: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("origin %q: scheme must be http, https, ws or wss", origin)
	}
	if u.Host == "" {
		return "", fmt.Errorf("origin %q has no host", origin)
	}
	if path == "" {
		path = DefaultStatusPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = path
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// HTTPOrigin maps a ws/wss origin back to http/https so command targets
// can be resolved against it.
func HTTPOrigin(origin string) string {
	origin = strings.TrimRight(origin, "/")
	switch {
	case strings.HasPrefix(origin, "wss://"):
		return "https://" + strings.TrimPrefix(origin, "wss://")
	case strings.HasPrefix(origin, "ws://"):
		return "http://" + strings.TrimPrefix(origin, "ws://")
	}
	return origin
}
