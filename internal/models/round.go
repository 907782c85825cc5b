package models

import (
	"strconv"
	"strings"
	"time"
)

// Round is one numbered round within a match. Unique per
// (match_id, round_number); the constraint backs idempotent creation.
type Round struct {
	ID          uint      `gorm:"primaryKey"`
	MatchID     uint      `gorm:"not null;uniqueIndex:idx_match_round"`
	Match       Match     `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
	RoundNumber int       `gorm:"not null;uniqueIndex:idx_match_round"`
	ChooserID   uint      `gorm:"not null"`
	TopicID     uint      `gorm:"not null"`
	Topic       Topic     `gorm:"foreignKey:TopicID"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Round) TableName() string {
	return "rounds"
}

// Phase constants: the chooser plays "self" first, then the other player
// plays "opponent".
const (
	PhaseSelf     = "self"
	PhaseOpponent = "opponent"
)

// TopicOffer records the topic subset presented to a round's chooser, so
// that re-polls observe the same offer and submissions can be validated
// against it.
type TopicOffer struct {
	ID          uint      `gorm:"primaryKey"`
	MatchID     uint      `gorm:"not null;uniqueIndex:idx_offer_match_round"`
	RoundNumber int       `gorm:"not null;uniqueIndex:idx_offer_match_round"`
	TopicIDs    string    `gorm:"type:text;not null"` // Comma separated list of topic IDs
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (TopicOffer) TableName() string {
	return "topic_offers"
}

// OfferedIDs parses the stored CSV into topic IDs, preserving order.
func (o *TopicOffer) OfferedIDs() []uint {
	var ids []uint
	for _, part := range strings.Split(o.TopicIDs, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// Contains reports whether topicID was part of the offer.
func (o *TopicOffer) Contains(topicID uint) bool {
	for _, id := range o.OfferedIDs() {
		if id == topicID {
			return true
		}
	}
	return false
}

// JoinTopicIDs encodes topic IDs as the CSV form stored on TopicOffer.
func JoinTopicIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// RoundSession is one player's attempt at one round's quiz. Unique per
// (round_id, player_id).
type RoundSession struct {
	ID          uint      `gorm:"primaryKey"`
	RoundID     uint      `gorm:"not null;uniqueIndex:idx_round_player"`
	Round       Round     `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
	PlayerID    uint      `gorm:"not null;uniqueIndex:idx_round_player"`
	Score       int       `gorm:"default:0"`
	Cursor      int       `gorm:"default:0"` // count of answered items, index of the next one
	StartedAt   time.Time `gorm:"autoCreateTime"`
	CompletedAt *time.Time
}

func (RoundSession) TableName() string {
	return "round_sessions"
}

// AnswerLog is one assigned question within a session. SelectedChoiceID
// stays NULL until the player answers; the NULL check is what makes
// answer recording race-safe.
type AnswerLog struct {
	ID               uint         `gorm:"primaryKey"`
	SessionID        uint         `gorm:"not null;uniqueIndex:idx_session_position"`
	Session          RoundSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	QuestionID       uint         `gorm:"not null"`
	Question         Question     `gorm:"foreignKey:QuestionID"`
	Position         int          `gorm:"not null;uniqueIndex:idx_session_position"` // 1-based seed order
	SelectedChoiceID *uint
	IsCorrect        bool `gorm:"default:false"`
}

func (AnswerLog) TableName() string {
	return "answer_logs"
}
