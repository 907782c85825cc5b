package game

import (
	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/errors"
	"github.com/mroshb/trivia_duel/pkg/logger"
)

// EnterRound routes a participant into the current round. Re-entry is
// idempotent everywhere: an existing round resumes, a chooser re-poll
// re-presents the stored offer, a non-chooser waits.
func (e *Engine) EnterRound(matchID, playerID uint) (*RoundEntry, error) {
	match, err := e.matches.GetMatch(matchID)
	if err != nil {
		return nil, err
	}

	if !match.HasPlayer(playerID) {
		return nil, errors.New(errors.ErrCodeNotAuthorized, "player is not part of this match")
	}

	if match.Status == models.MatchStatusWaiting {
		return nil, errors.New(errors.ErrCodeValidation, "match has no opponent yet")
	}

	if match.Status == models.MatchStatusCompleted || match.CurrentRound > e.cfg.RoundBudget {
		return &RoundEntry{State: EntryMatchComplete, Match: match}, nil
	}

	chooserID := match.ChooserForRound(match.CurrentRound)

	if existing, err := e.rounds.GetRoundByNumber(matchID, match.CurrentRound); err != nil {
		return nil, err
	} else if existing != nil {
		phase := models.PhaseOpponent
		if playerID == chooserID {
			phase = models.PhaseSelf
		}
		return &RoundEntry{State: EntryResumeRound, Match: match, Round: existing, Phase: phase}, nil
	}

	if playerID != chooserID {
		return &RoundEntry{State: EntryWaitForChoice, Match: match, RoundNumber: match.CurrentRound}, nil
	}

	offer, err := e.offerForRound(match)
	if err != nil {
		return nil, err
	}

	return &RoundEntry{
		State:       EntryChooseTopic,
		Match:       match,
		RoundNumber: match.CurrentRound,
		Offer:       offer,
	}, nil
}

// offerForRound returns the chooser's topic offer, creating and
// persisting it on first entry. Topics already played in this match are
// excluded; once the pool is exhausted repeats are tolerated.
func (e *Engine) offerForRound(match *models.Match) ([]models.Topic, error) {
	if stored, err := e.rounds.GetOffer(match.ID, match.CurrentRound); err != nil {
		return nil, err
	} else if stored != nil {
		return e.content.GetTopicsByIDs(stored.OfferedIDs())
	}

	all, err := e.content.ListTopics()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.New(errors.ErrCodeInternalError, "no topics available")
	}

	usedIDs, err := e.rounds.UsedTopicIDs(match.ID)
	if err != nil {
		return nil, err
	}

	used := make(map[uint]bool, len(usedIDs))
	for _, id := range usedIDs {
		used[id] = true
	}

	var candidates []models.Topic
	for _, t := range all {
		if !used[t.ID] {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		candidates = all
	}

	picked := e.sampler.PickTopics(candidates, e.cfg.TopicOfferSize)

	ids := make([]uint, len(picked))
	for i, t := range picked {
		ids[i] = t.ID
	}

	// A concurrent duplicate poll stores only one offer; re-read it so
	// both pollers present the same subset.
	stored, err := e.rounds.CreateOffer(match.ID, match.CurrentRound, ids)
	if err != nil {
		return nil, err
	}

	return e.content.GetTopicsByIDs(stored.OfferedIDs())
}

// SubmitTopic finalizes the chooser's pick: the topic must belong to the
// presented offer, then the round and both sessions are created
// atomically. A duplicate submission observes the first-created round.
func (e *Engine) SubmitTopic(matchID, playerID, topicID uint) (*RoundStart, error) {
	match, err := e.matches.GetMatch(matchID)
	if err != nil {
		return nil, err
	}

	if !match.HasPlayer(playerID) {
		return nil, errors.New(errors.ErrCodeNotAuthorized, "player is not part of this match")
	}
	if match.Status != models.MatchStatusInRound || match.CurrentRound > e.cfg.RoundBudget {
		return nil, errors.New(errors.ErrCodeValidation, "match is not accepting topic choices")
	}

	if existing, err := e.rounds.GetRoundByNumber(matchID, match.CurrentRound); err != nil {
		return nil, err
	} else if existing != nil {
		return &RoundStart{Round: existing, Phase: models.PhaseSelf}, nil
	}

	chooserID := match.ChooserForRound(match.CurrentRound)
	if playerID != chooserID {
		return nil, errors.New(errors.ErrCodeNotAuthorized, "only the chooser may pick the topic")
	}

	offer, err := e.rounds.GetOffer(matchID, match.CurrentRound)
	if err != nil {
		return nil, err
	}
	if offer == nil || !offer.Contains(topicID) {
		return nil, errors.New(errors.ErrCodeInvalidSelection, "topic was not part of the offer")
	}

	round, err := e.rounds.CreateRoundWithSessions(
		matchID, match.CurrentRound, chooserID, topicID,
		match.Player1ID, *match.Player2ID,
	)
	if err != nil {
		return nil, err
	}

	logger.Info("Round started",
		"match_id", matchID, "round", round.RoundNumber,
		"chooser", chooserID, "topic_id", topicID)

	return &RoundStart{Round: round, Phase: models.PhaseSelf}, nil
}
