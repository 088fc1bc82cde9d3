// Package sheets pushes campaign exports to Google Sheets.
package sheets

import (
	"fmt"
	"os"
	"time"
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	SheetName          string
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName: "Bocage Outreach",
		SheetName:       "Prospects",
		RetryAttempts:   3,
		RetryDelay:      time.Second,
	}
}

// LoadFromEnv loads the configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	c.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	c.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	c.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	c.ServiceAccountPath = os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")
	c.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")

	if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" {
		c.SpreadsheetName = v
	}

	if c.ServiceAccountPath == "" && (c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "") {
		return fmt.Errorf("missing Google Sheets authentication: provide either service account path or OAuth2 credentials")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("no authentication method configured")
	}
	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or service account")
	}

	if c.SheetName == "" {
		return fmt.Errorf("sheet name is required")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}
	return nil
}
