package handlers

import (
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/mroshb/trivia_duel/internal/config"
	"github.com/mroshb/trivia_duel/internal/game"
	"github.com/mroshb/trivia_duel/internal/middleware"
	"github.com/mroshb/trivia_duel/internal/repositories"
)

// Manager wires the HTTP surface to the game engine. It owns no game
// state; every request is resolved against the store so two players can
// poll independently.
type Manager struct {
	Config      *config.Config
	Engine      *game.Engine
	PlayerRepo  *repositories.PlayerRepository
	ContentRepo *repositories.ContentRepository
	Limiter     *middleware.RateLimiter
}

func NewManager(
	cfg *config.Config,
	engine *game.Engine,
	playerRepo *repositories.PlayerRepository,
	contentRepo *repositories.ContentRepository,
) *Manager {
	return &Manager{
		Config:      cfg,
		Engine:      engine,
		PlayerRepo:  playerRepo,
		ContentRepo: contentRepo,
		Limiter:     middleware.NewRateLimiter(cfg.RateLimitPerPlayer, cfg.RateLimitPerIP, time.Minute),
	}
}

// Router builds the full route table.
func (m *Manager) Router() *httprouter.Router {
	router := httprouter.New()

	router.POST("/auth/register", m.Register)
	router.GET("/topics", m.ListTopics)

	router.POST("/play/join", m.authed(m.Join))
	router.GET("/play/status", m.authed(m.Status))
	router.GET("/play/matches/:id/round", m.authed(m.EnterRound))
	router.POST("/play/matches/:id/round", m.authed(m.SubmitTopic))
	router.GET("/play/matches/:id/summary", m.authed(m.MatchSummary))
	router.GET("/play/rounds/:id/phase/:phase", m.authed(m.EnterPhase))
	router.GET("/play/rounds/:id/summary", m.authed(m.RoundSummary))
	router.POST("/play/sessions/:id/answers", m.authed(m.SubmitAnswer))

	return router
}
