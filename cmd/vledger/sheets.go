package main

import (
	"fmt"

	"github.com/Veraticus/vledger/internal/cli"
	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/config"
	"github.com/Veraticus/vledger/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Google Sheets export settings",
	}

	cmd.AddCommand(sheetsAuthCmd())

	return cmd
}

func sheetsAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Obtain an OAuth2 refresh token for Google Sheets",
		Long: `Run the OAuth2 consent flow with the client id and secret configured as
sheets.client_id and sheets.client_secret, then print the refresh token to
store as sheets.refresh_token.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadSheetsConfig(viper.GetViper())
			if cfg.ClientID == "" || cfg.ClientSecret == "" {
				return common.NewUserError(
					"Set sheets.client_id and sheets.client_secret (or GOOGLE_SHEETS_CLIENT_ID and GOOGLE_SHEETS_CLIENT_SECRET) first",
					common.ErrMissingConfig)
			}

			out := cmd.OutOrStdout()
			token, err := sheets.Authenticate(cmd.Context(), cfg.ClientID, cfg.ClientSecret, func(url string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this URL in your browser to grant access:"))
				fmt.Fprintln(out, url)
			})
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			if token.RefreshToken == "" {
				return common.NewUserError("Google did not return a refresh token; revoke the app's access and try again", nil)
			}

			fmt.Fprintln(out, cli.RenderBox("Authenticated",
				"Add this to ~/.config/vledger/config.yaml:\n\nsheets:\n  refresh_token: "+token.RefreshToken))
			return nil
		},
	}
}
