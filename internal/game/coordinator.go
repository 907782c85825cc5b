package game

import (
	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/logger"
)

// maxClaimAttempts bounds the re-query loop when racing for a waiting
// match; after losing that many claims the player just opens a new one.
const maxClaimAttempts = 3

// JoinOrResume pairs the player into a match. Re-entry is idempotent: a
// player already in a WAITING or IN_ROUND match gets that match back.
// Otherwise the oldest waiting match is claimed atomically; a losing
// racer re-queries, and when the queue is empty a new waiting match is
// opened.
func (e *Engine) JoinOrResume(playerID uint) (*JoinResult, error) {
	active, err := e.matches.GetActiveMatchByPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return &JoinResult{State: JoinAlreadyActive, Match: active}, nil
	}

	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		waiting, err := e.matches.FindWaitingMatch(playerID)
		if err != nil {
			return nil, err
		}
		if waiting == nil {
			break
		}

		claimed, err := e.matches.ClaimWaitingMatch(waiting.ID, playerID)
		if err != nil {
			return nil, err
		}
		if claimed {
			match, err := e.matches.GetMatch(waiting.ID)
			if err != nil {
				return nil, err
			}
			logger.Info("Players paired", "match_id", match.ID, "player1", match.Player1ID, "player2", playerID)
			return &JoinResult{State: JoinPaired, Match: match}, nil
		}
		// Lost the claim race; the post-race state decides what happens
		// next, so re-query rather than fail.
	}

	match, err := e.matches.CreateWaitingMatch(playerID)
	if err != nil {
		return nil, err
	}

	logger.Info("Player queued", "match_id", match.ID, "player", playerID)
	return &JoinResult{State: JoinQueued, Match: match}, nil
}

// MatchStatus reports where the player's active match stands.
func (e *Engine) MatchStatus(playerID uint) (*StatusResult, error) {
	match, err := e.matches.GetActiveMatchByPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return &StatusResult{State: StatusNone}, nil
	}
	if match.Status == models.MatchStatusWaiting {
		return &StatusResult{State: StatusWaiting, Match: match}, nil
	}
	return &StatusResult{State: StatusActiveRound, Match: match}, nil
}
