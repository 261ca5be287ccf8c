// Package lifecycle holds shared settings for fx start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds how long a start or stop hook may take.
const DefaultTimeout = 15 * time.Second
