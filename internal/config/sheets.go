package config

import (
	"os"

	"github.com/Veraticus/vledger/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets settings. Keys under sheets.* take
// precedence over the GOOGLE_SHEETS_* environment variables.
func LoadSheetsConfig(v *viper.Viper) sheets.Config {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(firstNonEmpty(
		v.GetString("sheets.service_account_path"), os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	config.ClientID = firstNonEmpty(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	config.ClientSecret = firstNonEmpty(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	config.RefreshToken = firstNonEmpty(v.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	config.SpreadsheetID = firstNonEmpty(v.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	config.SpreadsheetName = firstNonEmpty(v.GetString("sheets.spreadsheet_name"),
		os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"), config.SpreadsheetName)

	if tz := v.GetString("sheets.timezone"); tz != "" {
		config.TimeZone = tz
	}
	if v.IsSet("sheets.enable_formatting") {
		config.EnableFormatting = v.GetBool("sheets.enable_formatting")
	}

	return config
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
