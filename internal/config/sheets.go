package config

import (
	"os"

	"github.com/Veraticus/expense-tracker/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads and validates the Google Sheets configuration.
// Keys under sheets.* (config file or EXPENSES_SHEETS_* variables) take
// precedence over the GOOGLE_SHEETS_* variables, which take precedence over
// the defaults.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	cfg := SheetsConfig(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SheetsConfig resolves the Google Sheets configuration without validating
// it. The interactive auth flow uses it before a token exists.
func SheetsConfig(v *viper.Viper) sheets.Config {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = ExpandPath(firstNonEmpty(v.GetString("sheets.service_account_path"), os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	cfg.ClientID = firstNonEmpty(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	cfg.ClientSecret = firstNonEmpty(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	cfg.RefreshToken = firstNonEmpty(v.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	cfg.SpreadsheetID = firstNonEmpty(v.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	cfg.SpreadsheetName = firstNonEmpty(v.GetString("sheets.spreadsheet_name"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"), cfg.SpreadsheetName)
	cfg.CurrencyCode = firstNonEmpty(v.GetString("currency.code"), cfg.CurrencyCode)
	cfg.TimeZone = firstNonEmpty(v.GetString("sheets.time_zone"), cfg.TimeZone)

	// The token file only matters for OAuth2; a service account must not be
	// reported as a second auth method.
	if cfg.ServiceAccountPath == "" {
		cfg.TokenFile = ExpandPath(v.GetString("sheets.token_path"))
	}
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
