// Package coopwatch is an embeddable watcher for a coop door controller.
//
// A Watcher keeps one status channel open to the controller, turns each
// status frame into a [status.Record], renders it onto a [view.Surface] and
// sends door commands on request.
//
// # Quick start
//
//	w, err := coopwatch.New(coopwatch.Config{Origin: "http://coop.local:5000"},
//	    coopwatch.WithSurface(view.NewLineSurface(os.Stdout)),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	_ = w.Dispatch("open")
//
// # Connection behaviour
//
// The watcher connects once. When the channel closes the surface shows the
// "no data" placeholder and the watcher stays idle until it is restarted,
// unless [Config.Reconnect] is set.
//
// # Plugins
//
// Plugins are initialized in registration order on Start and shut down in
// reverse order on Stop. See plugins/configwatcher for an example.
package coopwatch
