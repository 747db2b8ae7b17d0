package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fckoffmw/replay-service/internal/gateway"
	"github.com/fckoffmw/replay-service/internal/replayapi"
)

func newGamesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Manage games",
	}

	cmd.AddCommand(
		newGamesListCommand(app),
		newGamesCreateCommand(app),
		newGamesRenameCommand(app),
		newGamesDeleteCommand(app),
	)
	return cmd
}

func newGamesListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			ctx := cmd.Context()

			var games []replayapi.Game
			err := retryRead(ctx, func() error {
				var listErr error
				games, listErr = app.Games.List(ctx)
				return listErr
			})

			var networkErr *gateway.NetworkError
			if errors.As(err, &networkErr) && app.Cache != nil {
				cached, cacheErr := app.Cache.Games(ctx)
				if cacheErr == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "service unreachable, showing cached listing")
					printGames(cmd, cached)
					return nil
				}
			}
			if err != nil {
				return err
			}

			app.storeGamesSnapshot(ctx, games)
			printGames(cmd, games)
			return nil
		},
	}
}

func newGamesCreateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			game, err := app.Games.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			app.invalidateGamesSnapshot(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "created game %s (%s)\n", game.Name, game.ID)
			return nil
		},
	}
}

func newGamesRenameCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			if err := app.Games.Rename(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			app.invalidateGamesSnapshot(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "renamed")
			return nil
		},
	}
}

func newGamesDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game and all its replays",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			if err := app.Games.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			app.invalidateGamesSnapshot(cmd.Context())
			app.invalidateReplaysSnapshot(cmd.Context(), args[0])
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}

func printGames(cmd *cobra.Command, games []replayapi.Game) {
	if len(games) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no games")
		return
	}

	for _, game := range games {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d replays\n", game.ID, game.Name, game.ReplayCount)
	}
}

func (a *App) storeGamesSnapshot(ctx context.Context, games []replayapi.Game) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.StoreGames(ctx, games); err != nil {
		a.Logger.WithError(err).Warn(ctx, "failed to cache games listing")
	}
}

func (a *App) invalidateGamesSnapshot(ctx context.Context) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.InvalidateGames(ctx); err != nil {
		a.Logger.WithError(err).Warn(ctx, "failed to invalidate games cache")
	}
}

func (a *App) invalidateReplaysSnapshot(ctx context.Context, gameID string) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.InvalidateReplays(ctx, gameID); err != nil {
		a.Logger.WithError(err).Warn(ctx, "failed to invalidate replays cache")
	}
}
