package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/cache"
	"github.com/fortuna/ballpark/internal/ingest/mlb"
	"github.com/fortuna/ballpark/internal/store/repository"
)

// PlayerService looks up player biographies.
type PlayerService struct {
	source PersonSource
	cache  Cache
	logger *zap.Logger
}

// NewPlayerService creates a player service. c may be nil.
func NewPlayerService(source PersonSource, c Cache, logger *zap.Logger) *PlayerService {
	if c == nil {
		c = noopCache{}
	}
	return &PlayerService{source: source, cache: c, logger: logger}
}

// GetPlayer returns the player with the given MLB person ID.
func (s *PlayerService) GetPlayer(ctx context.Context, personID int) (*mlb.Person, error) {
	if personID <= 0 {
		return nil, fmt.Errorf("player id %d: %w", personID, ErrInvalidRequest)
	}

	key := cache.PersonKey(personID)
	var cached mlb.Person
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, errCacheDisabled) {
		s.logger.Warn("reading cached player", zap.Int("player_id", personID), zap.Error(err))
	}

	person, err := s.source.FetchPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("fetching player: %w", err)
	}
	if person == nil {
		return nil, fmt.Errorf("player %d: %w", personID, repository.ErrRecordNotFound)
	}

	if err := s.cache.SetJSON(ctx, key, person, cache.PersonTTL); err != nil {
		s.logger.Warn("caching player", zap.Int("player_id", personID), zap.Error(err))
	}
	return person, nil
}
