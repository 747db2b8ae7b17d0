package replayapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fckoffmw/replay-service/internal/gateway"
)

type GameService struct {
	gateway *gateway.Gateway
}

func NewGameService(gw *gateway.Gateway) *GameService {
	return &GameService{gateway: gw}
}

func (s *GameService) List(ctx context.Context) ([]Game, error) {
	var games []Game
	err := s.gateway.Do(ctx, http.MethodGet, "/games", nil, &games)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (s *GameService) Create(ctx context.Context, name string) (Game, error) {
	var game Game
	err := s.gateway.Do(ctx, http.MethodPost, "/games", map[string]string{"name": name}, &game)
	if err != nil {
		return Game{}, fmt.Errorf("create game: %w", err)
	}
	return game, nil
}

func (s *GameService) Rename(ctx context.Context, gameID, name string) error {
	err := s.gateway.Do(ctx, http.MethodPut, gamePath(gameID), map[string]string{"name": name}, nil)
	if err != nil {
		return fmt.Errorf("rename game: %w", err)
	}
	return nil
}

func (s *GameService) Delete(ctx context.Context, gameID string) error {
	err := s.gateway.Do(ctx, http.MethodDelete, gamePath(gameID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func gamePath(gameID string) string {
	return "/games/" + url.PathEscape(gameID)
}
