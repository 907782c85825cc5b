package repositories

import (
	"time"

	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/errors"
	"gorm.io/gorm"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// CreateWaitingMatch opens a new match with the requester as player1.
func (r *MatchRepository) CreateWaitingMatch(player1ID uint) (*models.Match, error) {
	match := &models.Match{
		Player1ID:    player1ID,
		Status:       models.MatchStatusWaiting,
		CurrentRound: 1,
	}

	if err := r.db.Create(match).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create match")
	}

	if err := r.db.Preload("Player1").First(match, match.ID).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load match player")
	}

	return match, nil
}

// GetMatch retrieves a match by ID with both players.
func (r *MatchRepository) GetMatch(matchID uint) (*models.Match, error) {
	var match models.Match
	result := r.db.Preload("Player1").Preload("Player2").First(&match, matchID)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "match not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get match")
	}

	return &match, nil
}

// GetActiveMatchByPlayer retrieves the player's WAITING or IN_ROUND
// match, or nil when none exists.
func (r *MatchRepository) GetActiveMatchByPlayer(playerID uint) (*models.Match, error) {
	var match models.Match
	result := r.db.Where("(player1_id = ? OR player2_id = ?) AND status IN (?, ?)",
		playerID, playerID, models.MatchStatusWaiting, models.MatchStatusInRound).
		Preload("Player1").Preload("Player2").
		Order("created_at ASC").
		First(&match)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil // No active match
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get active match")
	}

	return &match, nil
}

// FindWaitingMatch returns the oldest WAITING match opened by someone
// else, or nil when the queue is empty.
func (r *MatchRepository) FindWaitingMatch(excludePlayerID uint) (*models.Match, error) {
	var match models.Match
	result := r.db.Where("status = ? AND player1_id != ?", models.MatchStatusWaiting, excludePlayerID).
		Order("created_at ASC").
		First(&match)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to find waiting match")
	}

	return &match, nil
}

// ClaimWaitingMatch pairs player2 into a waiting match. The update is
// conditioned on the match still being WAITING, so exactly one of two
// racing claimers wins; the loser sees false and must re-query.
func (r *MatchRepository) ClaimWaitingMatch(matchID, player2ID uint) (bool, error) {
	result := r.db.Model(&models.Match{}).
		Where("id = ? AND status = ? AND player1_id != ?", matchID, models.MatchStatusWaiting, player2ID).
		Updates(map[string]interface{}{
			"player2_id": player2ID,
			"status":     models.MatchStatusInRound,
			"started_at": time.Now(),
		})

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to claim waiting match")
	}

	return result.RowsAffected > 0, nil
}

// AdvanceRound moves the match past fromRound, conditioned on
// current_round still being fromRound so a retried submission cannot
// advance twice. When completed, the match is closed out.
func (r *MatchRepository) AdvanceRound(matchID uint, fromRound int, completed bool) (bool, error) {
	updates := map[string]interface{}{
		"current_round": gorm.Expr("current_round + 1"),
	}
	if completed {
		updates["status"] = models.MatchStatusCompleted
	}

	result := r.db.Model(&models.Match{}).
		Where("id = ? AND current_round = ?", matchID, fromRound).
		Updates(updates)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to advance round")
	}

	return result.RowsAffected > 0, nil
}

// CompleteMatch force-closes a match regardless of round position.
func (r *MatchRepository) CompleteMatch(matchID uint) error {
	result := r.db.Model(&models.Match{}).
		Where("id = ? AND status != ?", matchID, models.MatchStatusCompleted).
		Update("status", models.MatchStatusCompleted)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to complete match")
	}

	return nil
}
