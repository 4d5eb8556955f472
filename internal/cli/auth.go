package cli

import (
	"github.com/spf13/cobra"
)

func NewLoginCommand(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return app.emit(u, func() {
				app.printf("Signed in as %s <%s>\n", u.Nama, u.Email)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func NewLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Logout()
			return app.emit(map[string]bool{"success": true}, func() {
				app.printf("Signed out\n")
			})
		},
	}
}

func NewWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.RequireUser()
			if err != nil {
				return err
			}
			return app.emit(u, func() {
				app.printf("%s <%s> (%s)\n", u.Nama, u.Email, u.ID)
			})
		},
	}
}
