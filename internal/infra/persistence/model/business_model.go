package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessModel is the GORM-specific struct for the 'businesses' table.
type BusinessModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PlotID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	OwnerID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_businesses_owner_type"`
	Type             string          `gorm:"type:varchar(64);not null;index:idx_businesses_owner_type;index"`
	X                int             `gorm:"not null;index:idx_businesses_xy"`
	Y                int             `gorm:"not null;index:idx_businesses_xy"`
	Zone             string          `gorm:"type:varchar(32);not null"`
	Level            int             `gorm:"not null;default:1"`
	XP               int64           `gorm:"not null;default:0"`
	LastCollection   time.Time       `gorm:"not null"`
	BuildingProgress int             `gorm:"not null;default:0"`
	IsActive         bool            `gorm:"not null;default:true;index"`
	Investment       decimal.Decimal `gorm:"type:numeric(30,9);not null;default:0"`
	TotalIncome      decimal.Decimal `gorm:"type:numeric(30,9);not null;default:0"`
	SchemaVersion    int             `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Connections []BusinessConnectionModel `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (BusinessModel) TableName() string {
	return "businesses"
}

// BusinessConnectionModel stores one direction of a supply link. Every link
// is written as two rows.
type BusinessConnectionModel struct {
	BusinessID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConnectedID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (BusinessConnectionModel) TableName() string {
	return "business_connections"
}
