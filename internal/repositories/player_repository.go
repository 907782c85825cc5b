package repositories

import (
	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/errors"
	"gorm.io/gorm"
)

type PlayerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// CreatePlayer registers a new player with a unique display name.
func (r *PlayerRepository) CreatePlayer(name string) (*models.Player, error) {
	var existing models.Player
	if err := r.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "player name already taken")
	}

	player := &models.Player{Name: name}
	if err := r.db.Create(player).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create player")
	}

	return player, nil
}

// GetPlayerByID retrieves a player by ID.
func (r *PlayerRepository) GetPlayerByID(id uint) (*models.Player, error) {
	var player models.Player
	result := r.db.First(&player, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "player not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get player")
	}

	return &player, nil
}

// GetPlayerByName retrieves a player by display name.
func (r *PlayerRepository) GetPlayerByName(name string) (*models.Player, error) {
	var player models.Player
	result := r.db.Where("name = ?", name).First(&player)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "player not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get player")
	}

	return &player, nil
}
