package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for deposit QR code generation and parsing
type QRCodeService interface {
	// GenerateDepositQR renders a transfer link that credits the given player
	GenerateDepositQR(playerID uuid.UUID) ([]byte, error)

	// DepositURI returns the transfer link encoded in the deposit QR code
	DepositURI(playerID uuid.UUID) string

	// ParseDepositURI extracts the player id from a transfer link
	ParseDepositURI(uri string) (uuid.UUID, error)
}
