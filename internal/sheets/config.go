// Package sheets publishes classification results to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/vledger/internal/common"
)

// AuthMethod is how the writer authenticates against the Sheets API.
type AuthMethod string

// Supported authentication methods.
const (
	AuthNone           AuthMethod = ""
	AuthOAuth          AuthMethod = "oauth"
	AuthServiceAccount AuthMethod = "service_account"
)

// Config holds the Google Sheets export settings. Either the OAuth2 triple
// (client id, secret, refresh token) or a service account key is required.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	// SpreadsheetID selects an existing spreadsheet. When empty a new
	// spreadsheet named SpreadsheetName is created on every export.
	SpreadsheetID    string
	SpreadsheetName  string
	TimeZone         string
	BatchSize        int
	RetryAttempts    int
	RetryDelay       time.Duration
	EnableFormatting bool
}

// DefaultConfig returns the export defaults for a Brazilian ledger.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  "Vledger",
		TimeZone:         "America/Sao_Paulo",
		EnableFormatting: true,
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// AuthMethod reports which credentials are configured. A partial OAuth2
// triple counts as none.
func (c *Config) AuthMethod() AuthMethod {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	switch {
	case oauth && c.ServiceAccountPath == "":
		return AuthOAuth
	case !oauth && c.ServiceAccountPath != "":
		return AuthServiceAccount
	}
	return AuthNone
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	switch {
	case oauth && c.ServiceAccountPath != "":
		errs = append(errs, fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or a service account",
			common.ErrInvalidConfig))
	case c.AuthMethod() == AuthNone:
		errs = append(errs, fmt.Errorf("%w: no authentication method configured: set sheets.service_account_path or the OAuth2 client id, secret and refresh token",
			common.ErrMissingConfig))
	}

	if c.SpreadsheetID == "" && c.SpreadsheetName == "" {
		errs = append(errs, fmt.Errorf("%w: spreadsheet id or name is required", common.ErrMissingConfig))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
