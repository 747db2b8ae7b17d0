package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <login>",
		Short: "Sign in and persist the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if decision := app.Guard.CheckAnonymous(); !decision.Allowed {
				fmt.Fprintf(cmd.OutOrStdout(), "already signed in, see 'replay %s'\n", decision.Redirect)
				return nil
			}

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			token, err := app.Auth.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			if err := app.Session.SetCredential(token); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "signed in")
			return nil
		},
	}
	cmd.Flags().String("password", "", "password, prompted when omitted")
	return cmd
}

func newRegisterCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <login>",
		Short: "Create an account and persist the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if decision := app.Guard.CheckAnonymous(); !decision.Allowed {
				fmt.Fprintf(cmd.OutOrStdout(), "already signed in, see 'replay %s'\n", decision.Redirect)
				return nil
			}

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			token, err := app.Auth.Register(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			if err := app.Session.SetCredential(token); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "account created, signed in")
			return nil
		},
	}
	cmd.Flags().String("password", "", "password, prompted when omitted")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the persisted session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Session.ClearCredential(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity embedded in the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			identity, ok := app.Session.Identity()
			if !ok {
				return fmt.Errorf("no valid session")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "id:\t%s\n", identity.ID)
			if identity.Login != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "login:\t%s\n", identity.Login)
			}
			if identity.Email != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "email:\t%s\n", identity.Email)
			}
			return nil
		},
	}
}

func readPassword(cmd *cobra.Command) (string, error) {
	password, err := cmd.Flags().GetString("password")
	if err == nil && password != "" {
		return password, nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "password: ")
	_, err = fmt.Fscanln(cmd.InOrStdin(), &password)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return password, nil
}
