package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "replay",
		Short:         "Client for the replay service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCommand(app),
		newRegisterCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newGamesCommand(app),
		newReplaysCommand(app),
		newUploadCommand(app),
		newPlayCommand(app),
		newDownloadCommand(app),
	)

	return root
}
