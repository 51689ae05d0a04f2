package config

import (
	"fmt"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath          = "database.path"
	KeyLoggingLevel          = "logging.level"
	KeyLoggingFormat         = "logging.format"
	KeyClassifyMode          = "classify.mode"
	KeyClassifyCaseSensitive = "classify.case_sensitive"
	KeyClassifyOrder         = "classify.reference_order"
	KeyClassifyNumberFormat  = "classify.number_format"
	KeyClassifyChunkSize     = "classify.chunk_size"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "~/.local/share/vledger/vledger.db"

// DefaultChunkSize is the number of rows classified per progress step.
const DefaultChunkSize = 500

// Config is the typed application configuration.
type Config struct {
	DatabasePath   string
	LogLevel       string
	LogFormat      string
	ReferenceOrder model.ReferenceOrder
	Options        model.Options
	ChunkSize      int
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLoggingLevel, "info")
	v.SetDefault(KeyLoggingFormat, "console")
	v.SetDefault(KeyClassifyMode, string(model.MatchContains))
	v.SetDefault(KeyClassifyCaseSensitive, false)
	v.SetDefault(KeyClassifyOrder, string(model.OrderInsertion))
	v.SetDefault(KeyClassifyNumberFormat, string(model.NumberAuto))
	v.SetDefault(KeyClassifyChunkSize, DefaultChunkSize)
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	mode, err := model.ParseMatchMode(v.GetString(KeyClassifyMode))
	if err != nil {
		return Config{}, invalid(KeyClassifyMode, err)
	}

	numberFormat, err := model.ParseNumberFormat(v.GetString(KeyClassifyNumberFormat))
	if err != nil {
		return Config{}, invalid(KeyClassifyNumberFormat, err)
	}

	order, ok := model.ParseReferenceOrder(v.GetString(KeyClassifyOrder))
	if !ok {
		return Config{}, invalid(KeyClassifyOrder,
			fmt.Errorf("unknown order %q (use insertion or alphabetical)", v.GetString(KeyClassifyOrder)))
	}

	chunkSize := v.GetInt(KeyClassifyChunkSize)
	if chunkSize < 0 {
		return Config{}, invalid(KeyClassifyChunkSize, fmt.Errorf("must not be negative, got %d", chunkSize))
	}

	dbPath := v.GetString(KeyDatabasePath)
	if dbPath == "" {
		dbPath = DefaultDatabasePath
	}

	return Config{
		DatabasePath:   ExpandPath(dbPath),
		LogLevel:       v.GetString(KeyLoggingLevel),
		LogFormat:      v.GetString(KeyLoggingFormat),
		ReferenceOrder: order,
		Options: model.Options{
			Mode:          mode,
			NumberFormat:  numberFormat,
			CaseSensitive: v.GetBool(KeyClassifyCaseSensitive),
		},
		ChunkSize: chunkSize,
	}, nil
}

func invalid(key string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, key, err)
}
