package models

import (
	"time"
)

// Topic groups questions for round selection.
type Topic struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (Topic) TableName() string {
	return "topics"
}

// Question belongs to exactly one topic. Only approved questions are
// eligible for play.
type Question struct {
	ID        uint      `gorm:"primaryKey"`
	TopicID   uint      `gorm:"not null;index"`
	Topic     Topic     `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE"`
	Text      string    `gorm:"type:text;not null"`
	Approved  bool      `gorm:"default:true;index"`
	Choices   []Choice  `gorm:"foreignKey:QuestionID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoice returns the choice marked correct, or nil when the
// question was loaded without choices.
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}

// HasChoice reports whether choiceID belongs to this question's choice set.
func (q *Question) HasChoice(choiceID uint) bool {
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			return true
		}
	}
	return false
}

type Choice struct {
	ID         uint   `gorm:"primaryKey"`
	QuestionID uint   `gorm:"not null;index"`
	Text       string `gorm:"type:varchar(255);not null"`
	IsCorrect  bool   `gorm:"default:false"`
}

func (Choice) TableName() string {
	return "choices"
}
