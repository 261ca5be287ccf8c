package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayerDeviceModel is the GORM-specific struct for the 'player_devices' table.
// It represents a player's device registered for push notifications.
type PlayerDeviceModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	PlayerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_player_devices_device"`
	FCMToken  string    `gorm:"type:varchar(255);not null;index"`
	DeviceID  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_player_devices_device"`
	Platform  string    `gorm:"type:varchar(50);not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (PlayerDeviceModel) TableName() string {
	return "player_devices"
}
