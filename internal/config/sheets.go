package config

import (
	"github.com/spf13/viper"

	"github.com/mbellec/bocage/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and
// environment variables. Viper keys take precedence over the direct
// GOOGLE_SHEETS_* environment variables.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	// Environment first so file-based settings can override it.
	_ = cfg.LoadFromEnv()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		cfg.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		cfg.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		cfg.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		cfg.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		cfg.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		cfg.SpreadsheetName = v
	}
	if v := viper.GetString("sheets.sheet_name"); v != "" {
		cfg.SheetName = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
