// Package game holds the match/round/session state machine: matchmaking,
// topic selection, turn dispatch, scoring and advancement. It never
// renders anything; every entry point returns a discriminated outcome
// for the transport layer to present, and wait states are immediate
// (clients poll, nothing blocks server-side).
package game

import (
	"github.com/mroshb/trivia_duel/internal/config"
	"github.com/mroshb/trivia_duel/internal/repositories"
)

type Engine struct {
	cfg     *config.Config
	matches *repositories.MatchRepository
	rounds  *repositories.RoundRepository
	content *repositories.ContentRepository
	sampler *Sampler
}

func NewEngine(
	cfg *config.Config,
	matchRepo *repositories.MatchRepository,
	roundRepo *repositories.RoundRepository,
	contentRepo *repositories.ContentRepository,
	sampler *Sampler,
) *Engine {
	return &Engine{
		cfg:     cfg,
		matches: matchRepo,
		rounds:  roundRepo,
		content: contentRepo,
		sampler: sampler,
	}
}
