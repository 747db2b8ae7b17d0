package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/fckoffmw/replay-service/internal/gateway"
	"github.com/fckoffmw/replay-service/internal/media"
	"github.com/fckoffmw/replay-service/internal/replayapi"
	"github.com/fckoffmw/replay-service/pkg/worker"
)

func newReplaysCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replays",
		Short: "Manage replays",
	}

	cmd.AddCommand(
		newReplaysListCommand(app),
		newReplaysShowCommand(app),
		newReplaysEditCommand(app),
		newReplaysDeleteCommand(app),
	)
	return cmd
}

func newReplaysListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <game-id>",
		Short: "List replays of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			ctx := cmd.Context()
			update := <-app.Browser.Select(ctx, args[0])
			if update.Stale {
				// a later selection superseded this one, nothing to render
				return nil
			}

			var networkErr *gateway.NetworkError
			if errors.As(update.Err, &networkErr) && app.Cache != nil {
				cached, cacheErr := app.Cache.Replays(ctx, args[0])
				if cacheErr == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "service unreachable, showing cached listing")
					printReplays(cmd, cached)
					return nil
				}
			}
			if update.Err != nil {
				return update.Err
			}

			if app.Cache != nil {
				if err := app.Cache.StoreReplays(ctx, args[0], update.Replays); err != nil {
					app.Logger.WithError(err).Warn(ctx, "failed to cache replays listing")
				}
			}

			printReplays(cmd, update.Replays)
			return nil
		},
	}
}

func newReplaysShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show replay details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			replay, err := app.Replays.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:\t%s\n", replay.ID)
			fmt.Fprintf(out, "file:\t%s\n", replay.OriginalName)
			if replay.Title != "" {
				fmt.Fprintf(out, "title:\t%s\n", replay.Title)
			}
			if replay.Comment != "" {
				fmt.Fprintf(out, "comment:\t%s\n", replay.Comment)
			}
			fmt.Fprintf(out, "size:\t%.2f KB\n", float64(replay.SizeBytes)/1024)
			fmt.Fprintf(out, "uploaded:\t%s\n", replay.UploadedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "playable:\t%t\n", media.IsPlayable(replay.OriginalName))
			return nil
		},
	}
}

func newReplaysEditCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update replay title and comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			var input replayapi.UpdateInput
			if cmd.Flags().Changed("title") {
				title, _ := cmd.Flags().GetString("title")
				input.Title = &title
			}
			if cmd.Flags().Changed("comment") {
				comment, _ := cmd.Flags().GetString("comment")
				input.Comment = &comment
			}
			if input.Title == nil && input.Comment == nil {
				return fmt.Errorf("nothing to update, pass --title or --comment")
			}

			ctx := cmd.Context()
			replay, err := app.Replays.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if err := app.Replays.Update(ctx, args[0], input); err != nil {
				return err
			}

			app.invalidateReplaysSnapshot(ctx, replay.GameID)
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("comment", "", "new comment")
	return cmd
}

func newReplaysDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a replay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			// the game is resolved before the mutation, afterwards the
			// replay is gone
			ctx := cmd.Context()
			replay, err := app.Replays.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if err := app.Replays.Delete(ctx, args[0]); err != nil {
				return err
			}

			app.invalidateGamesSnapshot(ctx)
			app.invalidateReplaysSnapshot(ctx, replay.GameID)
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}

func newUploadCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <game-id> <file>...",
		Short: "Upload replay files to a game",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			title, _ := cmd.Flags().GetString("title")
			comment, _ := cmd.Flags().GetString("comment")
			concurrency, _ := cmd.Flags().GetInt("concurrency")

			ctx := cmd.Context()
			gameID := args[0]
			files := args[1:]

			var mu sync.Mutex
			var failed int

			pool := worker.NewPool(concurrency)
			for _, file := range files {
				path := file
				pool.Do(func() {
					err := uploadFile(ctx, app, gameID, path, title, comment)

					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						failed++
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, PresentError(err))
						return
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: uploaded\n", path)
				})
			}
			pool.Wait()

			app.invalidateGamesSnapshot(ctx)
			app.invalidateReplaysSnapshot(ctx, gameID)

			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(files))
			}
			return nil
		},
	}
	cmd.Flags().String("title", "", "title applied to the uploaded replays")
	cmd.Flags().String("comment", "", "comment applied to the uploaded replays")
	cmd.Flags().Int("concurrency", 3, "number of parallel uploads")
	return cmd
}

func uploadFile(ctx context.Context, app *App, gameID, path, title, comment string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	_, err = app.Replays.Upload(ctx, gameID, replayapi.UploadInput{
		FileName: filepath.Base(path),
		File:     file,
		Title:    title,
		Comment:  comment,
	})
	return err
}

func printReplays(cmd *cobra.Command, replays []replayapi.Replay) {
	if len(replays) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no replays")
		return
	}

	for _, replay := range replays {
		name := replay.Title
		if name == "" {
			name = replay.OriginalName
		}
		marker := " "
		if media.IsPlayable(replay.OriginalName) {
			marker = "▶"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%.2f KB\t%s\n",
			marker, replay.ID, name,
			float64(replay.SizeBytes)/1024,
			replay.UploadedAt.Local().Format("2006-01-02 15:04"),
		)
	}
}
