// Package ports defines the interfaces that connect the application layer to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [Dialer]: Opens the status channel to the controller
//   - [StatusConn]: One open status channel
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// transports such as gorilla/websocket.
package ports
