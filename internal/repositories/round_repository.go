package repositories

import (
	"strings"
	"time"

	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/errors"
	"gorm.io/gorm"
)

type RoundRepository struct {
	db *gorm.DB
}

func NewRoundRepository(db *gorm.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "unique constraint")
}

// GetRound retrieves a round with its topic and match (players included).
func (r *RoundRepository) GetRound(roundID uint) (*models.Round, error) {
	var round models.Round
	result := r.db.Preload("Topic").
		Preload("Match").Preload("Match.Player1").Preload("Match.Player2").
		First(&round, roundID)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "round not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get round")
	}

	return &round, nil
}

// GetRoundByNumber retrieves a specific round of a match, or nil when it
// has not been created yet.
func (r *RoundRepository) GetRoundByNumber(matchID uint, roundNumber int) (*models.Round, error) {
	var round models.Round
	result := r.db.Preload("Topic").
		Where("match_id = ? AND round_number = ?", matchID, roundNumber).
		First(&round)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get round")
	}

	return &round, nil
}

// GetRoundsByMatch returns all rounds of a match ordered by round number.
func (r *RoundRepository) GetRoundsByMatch(matchID uint) ([]models.Round, error) {
	var rounds []models.Round
	result := r.db.Preload("Topic").
		Where("match_id = ?", matchID).
		Order("round_number ASC").
		Find(&rounds)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get rounds")
	}

	return rounds, nil
}

// UsedTopicIDs returns the topics already played in a match.
func (r *RoundRepository) UsedTopicIDs(matchID uint) ([]uint, error) {
	var ids []uint
	result := r.db.Model(&models.Round{}).
		Where("match_id = ?", matchID).
		Pluck("topic_id", &ids)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get used topics")
	}

	return ids, nil
}

// CreateRoundWithSessions creates a round plus both players' sessions in
// one transaction. Creation is idempotent: a duplicate attempt observes
// the already-created round instead of erroring, relying on the
// (match_id, round_number) unique index to break ties.
func (r *RoundRepository) CreateRoundWithSessions(matchID uint, roundNumber int, chooserID, topicID, player1ID, player2ID uint) (*models.Round, error) {
	if existing, err := r.GetRoundByNumber(matchID, roundNumber); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	round := &models.Round{
		MatchID:     matchID,
		RoundNumber: roundNumber,
		ChooserID:   chooserID,
		TopicID:     topicID,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(round).Error; err != nil {
			return err
		}

		for _, playerID := range []uint{player1ID, player2ID} {
			session := &models.RoundSession{
				RoundID:  round.ID,
				PlayerID: playerID,
			}
			if err := tx.Create(session).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// one last check for race condition
		if isDuplicateKey(err) {
			if existing, e := r.GetRoundByNumber(matchID, roundNumber); e == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create round")
	}

	return r.GetRound(round.ID)
}

// GetOffer retrieves the stored topic offer for a round, or nil.
func (r *RoundRepository) GetOffer(matchID uint, roundNumber int) (*models.TopicOffer, error) {
	var offer models.TopicOffer
	result := r.db.Where("match_id = ? AND round_number = ?", matchID, roundNumber).First(&offer)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get topic offer")
	}

	return &offer, nil
}

// CreateOffer stores the presented topic subset. Idempotent: a duplicate
// attempt returns the first-stored offer so re-polls never re-roll it.
func (r *RoundRepository) CreateOffer(matchID uint, roundNumber int, topicIDs []uint) (*models.TopicOffer, error) {
	offer := &models.TopicOffer{
		MatchID:     matchID,
		RoundNumber: roundNumber,
		TopicIDs:    models.JoinTopicIDs(topicIDs),
	}

	if err := r.db.Create(offer).Error; err != nil {
		if isDuplicateKey(err) {
			if existing, e := r.GetOffer(matchID, roundNumber); e == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create topic offer")
	}

	return offer, nil
}

// GetSession retrieves a round session by ID.
func (r *RoundRepository) GetSession(sessionID uint) (*models.RoundSession, error) {
	var session models.RoundSession
	result := r.db.First(&session, sessionID)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "session not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get session")
	}

	return &session, nil
}

// GetSessionByRoundPlayer retrieves one player's session for a round.
func (r *RoundRepository) GetSessionByRoundPlayer(roundID, playerID uint) (*models.RoundSession, error) {
	var session models.RoundSession
	result := r.db.Where("round_id = ? AND player_id = ?", roundID, playerID).First(&session)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "round session not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get round session")
	}

	return &session, nil
}

// GetSessionsByRound returns both sessions of a round.
func (r *RoundRepository) GetSessionsByRound(roundID uint) ([]models.RoundSession, error) {
	var sessions []models.RoundSession
	result := r.db.Where("round_id = ?", roundID).Find(&sessions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get round sessions")
	}

	return sessions, nil
}

// SeedAnswers assigns the sampled questions to a session, once. A second
// call (concurrent poll, retry) observes the first seed and changes
// nothing.
func (r *RoundRepository) SeedAnswers(sessionID uint, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AnswerLog{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check answer logs")
		}
		if count > 0 {
			// Already seeded, this is idempotent
			return nil
		}

		for i, qid := range questionIDs {
			log := &models.AnswerLog{
				SessionID:  sessionID,
				QuestionID: qid,
				Position:   i + 1,
			}
			if err := tx.Create(log).Error; err != nil {
				if isDuplicateKey(err) {
					return nil
				}
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to seed answer log")
			}
		}

		return nil
	})
}

// GetAnswers returns a session's answer logs in seed order.
func (r *RoundRepository) GetAnswers(sessionID uint) ([]models.AnswerLog, error) {
	var answers []models.AnswerLog
	result := r.db.Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&answers)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get answer logs")
	}

	return answers, nil
}

// RecordAnswer stores the selected choice for one position and bumps the
// session score when correct, all in one transaction. The update is
// conditioned on the record being unanswered, so a duplicate submission
// affects zero rows and the score cannot be incremented twice; false
// signals the caller lost that race.
func (r *RoundRepository) RecordAnswer(sessionID uint, position int, choiceID uint, isCorrect bool) (bool, error) {
	recorded := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.AnswerLog{}).
			Where("session_id = ? AND position = ? AND selected_choice_id IS NULL", sessionID, position).
			Updates(map[string]interface{}{
				"selected_choice_id": choiceID,
				"is_correct":         isCorrect,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to record answer")
		}
		if result.RowsAffected == 0 {
			// Already answered
			return nil
		}
		recorded = true

		updates := map[string]interface{}{
			"cursor": position,
		}
		if isCorrect {
			updates["score"] = gorm.Expr("score + 1")
		}

		if err := tx.Model(&models.RoundSession{}).
			Where("id = ?", sessionID).
			Updates(updates).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update session")
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return recorded, nil
}

// CompleteSession stamps completed_at exactly once.
func (r *RoundRepository) CompleteSession(sessionID uint) error {
	result := r.db.Model(&models.RoundSession{}).
		Where("id = ? AND completed_at IS NULL", sessionID).
		Update("completed_at", time.Now())

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to complete session")
	}

	return nil
}
