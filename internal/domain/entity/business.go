package entity

import (
	"bytes"
	"fmt"
	"slices"
	"time"

	"citysim/internal/domain/economy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessSchemaVersion is the current layout of persisted business records.
const BusinessSchemaVersion = 1

// Business is a building that accrues income for its owner.
type Business struct {
	ID                  uuid.UUID       `json:"id"`
	PlotID              uuid.UUID       `json:"plot_id"`
	OwnerID             uuid.UUID       `json:"owner_id"`
	Type                string          `json:"type"` // Key into the business catalog.
	X                   int             `json:"x"`
	Y                   int             `json:"y"`
	Zone                economy.Zone    `json:"zone"`
	Level               int             `json:"level"`
	XP                  int64           `json:"xp"`
	ConnectedBusinesses []uuid.UUID     `json:"connected_businesses"` // Kept sorted and free of duplicates.
	LastCollection      time.Time       `json:"last_collection"`
	BuildingProgress    int             `json:"building_progress"` // 0..100
	IsActive            bool            `json:"is_active"`
	Investment          decimal.Decimal `json:"investment"` // Total construction spending on this business.
	TotalIncome         decimal.Decimal `json:"total_income"`
	SchemaVersion       int             `json:"-"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// IsOperational reports whether construction is finished.
func (b *Business) IsOperational() bool {
	return b.BuildingProgress >= 100
}

// IsConnected reports whether other is linked to b.
func (b *Business) IsConnected(other uuid.UUID) bool {
	_, found := slices.BinarySearchFunc(b.ConnectedBusinesses, other, compareUUID)
	return found
}

// Connect adds other to the connection set. It returns false when the link
// already existed.
func (b *Business) Connect(other uuid.UUID) bool {
	if other == b.ID {
		return false
	}
	i, found := slices.BinarySearchFunc(b.ConnectedBusinesses, other, compareUUID)
	if found {
		return false
	}
	b.ConnectedBusinesses = slices.Insert(b.ConnectedBusinesses, i, other)

	return true
}

// Disconnect removes other from the connection set.
func (b *Business) Disconnect(other uuid.UUID) bool {
	i, found := slices.BinarySearchFunc(b.ConnectedBusinesses, other, compareUUID)
	if !found {
		return false
	}
	b.ConnectedBusinesses = slices.Delete(b.ConnectedBusinesses, i, i+1)

	return true
}

// Validate checks a record read back from storage.
func (b *Business) Validate() error {
	if b.SchemaVersion != BusinessSchemaVersion {
		return fmt.Errorf("business %s: unsupported schema version %d", b.ID, b.SchemaVersion)
	}
	if b.Level < 1 {
		return fmt.Errorf("business %s: invalid level %d", b.ID, b.Level)
	}
	if b.XP < 0 {
		return fmt.Errorf("business %s: negative xp", b.ID)
	}
	if b.BuildingProgress < 0 || b.BuildingProgress > 100 {
		return fmt.Errorf("business %s: building progress %d out of range", b.ID, b.BuildingProgress)
	}
	if b.Type == "" {
		return fmt.Errorf("business %s: missing type", b.ID)
	}

	return nil
}

// NormalizeConnections sorts and de-duplicates the connection set.
func (b *Business) NormalizeConnections() {
	slices.SortFunc(b.ConnectedBusinesses, compareUUID)
	b.ConnectedBusinesses = slices.Compact(b.ConnectedBusinesses)
}

func compareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
