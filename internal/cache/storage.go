package cache

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/fckoffmw/replay-service/internal/replayapi"
	"github.com/fckoffmw/replay-service/pkg/sql"
)

// Storage keeps the last successful games and replays listings so listing
// views can degrade gracefully when the API is unreachable. It is read only
// as a NetworkError fallback and is never consulted for auth decisions.
type Storage struct {
	db sql.Client
}

func NewStorage(db sql.Client) *Storage {
	return &Storage{db: db}
}

func (s *Storage) StoreGames(ctx context.Context, games []replayapi.Game) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM game")
	if err != nil {
		return fmt.Errorf("clear games snapshot: %w", err)
	}
	if len(games) == 0 {
		return nil
	}

	builder := sq.Insert("game").Columns("id", "name", "replay_count")
	for _, game := range games {
		builder = builder.Values(game.ID, game.Name, game.ReplayCount)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build games insert: %w", err)
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store games snapshot: %w", err)
	}
	return nil
}

func (s *Storage) Games(ctx context.Context) ([]replayapi.Game, error) {
	query, args, err := sq.
		Select("id", "name", "replay_count").
		From("game").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build games select: %w", err)
	}

	var rows []gameRow
	err = s.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load games snapshot: %w", err)
	}

	games := make([]replayapi.Game, 0, len(rows))
	for _, row := range rows {
		games = append(games, row.toGame())
	}
	return games, nil
}

func (s *Storage) StoreReplays(ctx context.Context, gameID string, replays []replayapi.Replay) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM replay WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("clear replays snapshot: %w", err)
	}
	if len(replays) == 0 {
		return nil
	}

	builder := sq.
		Insert("replay").
		Columns("id", "game_id", "title", "comment", "original_name", "size_bytes", "uploaded_at")
	for _, replay := range replays {
		builder = builder.Values(
			replay.ID,
			gameID,
			replay.Title,
			replay.Comment,
			replay.OriginalName,
			replay.SizeBytes,
			replay.UploadedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build replays insert: %w", err)
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store replays snapshot: %w", err)
	}
	return nil
}

func (s *Storage) Replays(ctx context.Context, gameID string) ([]replayapi.Replay, error) {
	query, args, err := sq.
		Select("id", "game_id", "title", "comment", "original_name", "size_bytes", "uploaded_at").
		From("replay").
		Where(sq.Eq{"game_id": gameID}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build replays select: %w", err)
	}

	var rows []replayRow
	err = s.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load replays snapshot: %w", err)
	}

	replays := make([]replayapi.Replay, 0, len(rows))
	for _, row := range rows {
		replays = append(replays, row.toReplay())
	}
	return replays, nil
}

// InvalidateReplays drops the snapshot for one game after a mutation.
func (s *Storage) InvalidateReplays(ctx context.Context, gameID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM replay WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("invalidate replays snapshot: %w", err)
	}
	return nil
}

// InvalidateGames drops the games snapshot after a mutation.
func (s *Storage) InvalidateGames(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM game")
	if err != nil {
		return fmt.Errorf("invalidate games snapshot: %w", err)
	}
	return nil
}

type gameRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	ReplayCount int    `db:"replay_count"`
}

func (r gameRow) toGame() replayapi.Game {
	return replayapi.Game{ID: r.ID, Name: r.Name, ReplayCount: r.ReplayCount}
}

type replayRow struct {
	ID           string    `db:"id"`
	GameID       string    `db:"game_id"`
	Title        string    `db:"title"`
	Comment      string    `db:"comment"`
	OriginalName string    `db:"original_name"`
	SizeBytes    int64     `db:"size_bytes"`
	UploadedAt   time.Time `db:"uploaded_at"`
}

func (r replayRow) toReplay() replayapi.Replay {
	return replayapi.Replay{
		ID:           r.ID,
		GameID:       r.GameID,
		Title:        r.Title,
		Comment:      r.Comment,
		OriginalName: r.OriginalName,
		SizeBytes:    r.SizeBytes,
		UploadedAt:   r.UploadedAt,
	}
}
