// Package command sends door actions to the controller's web front end.
//
// Each [Control] names an action ("open", "close", "stop") and the endpoint
// that performs it. Dispatching is fire-and-forget: the request is issued on
// its own goroutine with an empty POST body, the response body is discarded
// and failures are only logged. Whether the door actually moved becomes
// visible through the status stream, not through the dispatch result.
//
// # Usage
//
//	d := command.NewHTTPDispatcher(origin, &http.Client{}, logger)
//	d.Dispatch(ctx, command.Control{Name: "open", Target: "/open"})
//	...
//	d.Wait() // before process exit
//
// One-shot tools that want the HTTP result use [HTTPDispatcher.DispatchSync].
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package command
