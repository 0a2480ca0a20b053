package configwatcher

import "github.com/bft-labs/coopwatch/pkg/coopwatch"

// WithConfigWatcher returns a coopwatch Option that reloads controls when the
// config file changes.
//
// Usage:
//
//	w, err := coopwatch.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        Path:          path,
//	        Load:          loadControls,
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) coopwatch.Option {
	return coopwatch.WithPlugin(New(cfg))
}
