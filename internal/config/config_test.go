package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, values map[string]any) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("VLEDGER_TEST_DIR", "/data")

	tests := map[string]string{
		"":                       "",
		"~":                      home,
		"~/vledger.db":           filepath.Join(home, "vledger.db"),
		"$VLEDGER_TEST_DIR/x.db": "/data/x.db",
		"/abs/path.db":           "/abs/path.db",
	}

	for in, want := range tests {
		assert.Equal(t, want, ExpandPath(in), in)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper(t, nil))
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/share/vledger/vledger.db"), cfg.DatabasePath)
	assert.Equal(t, model.DefaultOptions(), cfg.Options)
	assert.Equal(t, model.OrderInsertion, cfg.ReferenceOrder)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(newViper(t, map[string]any{
		KeyDatabasePath:          "/tmp/v.db",
		KeyClassifyMode:          "whole-word",
		KeyClassifyCaseSensitive: true,
		KeyClassifyOrder:         "alphabetical",
		KeyClassifyNumberFormat:  "us",
		KeyClassifyChunkSize:     0,
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/v.db", cfg.DatabasePath)
	assert.Equal(t, model.MatchWholeWord, cfg.Options.Mode)
	assert.True(t, cfg.Options.CaseSensitive)
	assert.Equal(t, model.NumberUS, cfg.Options.NumberFormat)
	assert.Equal(t, model.OrderAlphabetical, cfg.ReferenceOrder)
	assert.Zero(t, cfg.ChunkSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		values map[string]any
		name   string
	}{
		{name: "mode", values: map[string]any{KeyClassifyMode: "fuzzy"}},
		{name: "number format", values: map[string]any{KeyClassifyNumberFormat: "eu"}},
		{name: "order", values: map[string]any{KeyClassifyOrder: "random"}},
		{name: "chunk size", values: map[string]any{KeyClassifyChunkSize: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newViper(t, tt.values))
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-client")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "env-secret")

	v := newViper(t, map[string]any{
		"sheets.client_id":         "cfg-client",
		"sheets.refresh_token":     "cfg-token",
		"sheets.enable_formatting": false,
	})

	cfg := LoadSheetsConfig(v)
	assert.Equal(t, "cfg-client", cfg.ClientID)
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, "cfg-token", cfg.RefreshToken)
	assert.Equal(t, "Vledger", cfg.SpreadsheetName)
	assert.False(t, cfg.EnableFormatting)
	assert.NoError(t, cfg.Validate())
}
