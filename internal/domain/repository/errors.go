// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import "github.com/pkg/errors"

// Domain-specific persistence errors shared by all repositories.
var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlotNotFound        = errors.New("plot not found")
	ErrBusinessNotFound    = errors.New("business not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrContractNotFound    = errors.New("contract not found")
	ErrDeviceNotFound      = errors.New("device not found")

	// ErrDuplicatePlayer is returned when the id or wallet address is already registered.
	ErrDuplicatePlayer = errors.New("player already exists")
	// ErrDuplicatePlot is returned when a plot at the same coordinates already exists.
	ErrDuplicatePlot = errors.New("plot already exists")
	// ErrDuplicateDevice is returned when trying to create a device that already exists.
	ErrDuplicateDevice = errors.New("device already exists")
	// ErrDuplicateExternalRef is returned when a ledger record with the same external reference exists.
	ErrDuplicateExternalRef = errors.New("external reference already recorded")

	// ErrInsufficientBalance is returned when a balance change would leave a negative balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrStaleWrite is returned when a conditional write finds the row changed since it was read.
	ErrStaleWrite = errors.New("stale write")
)
