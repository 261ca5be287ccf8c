package service

import "time"

// Clock supplies the current time to the use cases.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// NewSystemClock returns the wall clock as a Clock.
func NewSystemClock() Clock { return SystemClock{} }
