package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/config"
	"github.com/Veraticus/expense-tracker/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	var clientID, clientSecret string

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authorize Google Sheets exports",
		Long: `Authorize Google Sheets exports with OAuth2.

This command will:
1. Start a local callback server
2. Print a Google consent URL to open in your browser
3. Save the resulting token for 'expenses export sheets'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			v := viper.GetViper()

			cfg := config.SheetsConfig(v)
			if clientID != "" {
				cfg.ClientID = clientID
			}
			if clientSecret != "" {
				cfg.ClientSecret = clientSecret
			}
			if cfg.ClientID == "" || cfg.ClientSecret == "" {
				return fmt.Errorf("%w: OAuth2 credentials not found, set sheets.client_id and sheets.client_secret or use --client-id and --client-secret", common.ErrMissingConfig)
			}
			cfg.TokenFile = config.ExpandPath(v.GetString("sheets.token_path"))

			slog.Info("Starting Google Sheets authentication", "token_file", cfg.TokenFile)
			token, err := sheets.Authenticate(ctx, cfg, slog.Default())
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			if token.RefreshToken == "" {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Google did not return a refresh token; you may need to authenticate again later."))
			}

			success(cmd.OutOrStdout(), "Google Sheets is ready. Token saved to %s", cfg.TokenFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret")

	return cmd
}
