package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fckoffmw/replay-service/internal/media"
)

func newPlayCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Print the playback URL of a replay",
		Long: "Prints a URL suitable for a media player. The session token is " +
			"embedded in the URL because players cannot send an Authorization " +
			"header; do not share the printed URL.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			replay, err := app.Replays.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !media.IsPlayable(replay.OriginalName) {
				return fmt.Errorf("%s is not a playable video, use 'replay download %s'",
					replay.OriginalName, replay.ID)
			}

			credential, ok := app.Session.Credential()
			if !ok {
				return fmt.Errorf("no valid session")
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.Media.PlaybackURL(replay.ID, credential))
			fmt.Fprintf(cmd.OutOrStdout(), "content type: %s\n", media.ContentType(replay.OriginalName))
			return nil
		},
	}
}

func newDownloadCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "download <id>",
		Short: "Print the download URL of a replay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			replay, err := app.Replays.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			credential, ok := app.Session.Credential()
			if !ok {
				return fmt.Errorf("no valid session")
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.Media.DownloadURL(replay.ID, credential))
			return nil
		},
	}
}
