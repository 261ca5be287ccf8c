// Package delivery holds the transports that drive the use cases.
package delivery

import "context"

// Delivery is a long-running server started by the fx entry points.
type Delivery interface {
	// Serve blocks until the server stops or fails
	Serve(ctx context.Context) error
}
