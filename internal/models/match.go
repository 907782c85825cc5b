package models

import (
	"time"
)

// Match is a 1v1 trivia duel. Player2 stays unset while the match waits
// for an opponent.
type Match struct {
	ID           uint      `gorm:"primaryKey"`
	Player1ID    uint      `gorm:"not null;index"`
	Player1      Player    `gorm:"foreignKey:Player1ID;constraint:OnDelete:CASCADE"`
	Player2ID    *uint     `gorm:"index"`
	Player2      *Player   `gorm:"foreignKey:Player2ID;constraint:OnDelete:CASCADE"`
	Status       string    `gorm:"type:varchar(10);default:'WAITING';index"`
	CurrentRound int       `gorm:"default:1"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
	StartedAt    *time.Time
}

func (Match) TableName() string {
	return "matches"
}

// Match status constants
const (
	MatchStatusWaiting   = "WAITING"
	MatchStatusInRound   = "IN_ROUND"
	MatchStatusCompleted = "COMPLETED"
)

// HasPlayer reports whether playerID occupies either slot.
func (m *Match) HasPlayer(playerID uint) bool {
	if m.Player1ID == playerID {
		return true
	}
	return m.Player2ID != nil && *m.Player2ID == playerID
}

// OpponentOf returns the other player's ID. Zero when the match is still
// waiting or playerID is not a participant.
func (m *Match) OpponentOf(playerID uint) uint {
	if m.Player2ID == nil {
		return 0
	}
	switch playerID {
	case m.Player1ID:
		return *m.Player2ID
	case *m.Player2ID:
		return m.Player1ID
	}
	return 0
}

// ChooserForRound returns the player who picks the topic for the given
// round number: player1 on odd rounds, player2 on even ones.
func (m *Match) ChooserForRound(roundNumber int) uint {
	if roundNumber%2 == 1 {
		return m.Player1ID
	}
	if m.Player2ID == nil {
		return 0
	}
	return *m.Player2ID
}
