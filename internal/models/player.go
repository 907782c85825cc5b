package models

import (
	"time"
)

// Player is the opaque game identity. Authentication concerns live in
// internal/security; the core only ever sees the ID.
type Player struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Player) TableName() string {
	return "players"
}
