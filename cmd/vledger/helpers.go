package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/config"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
	"github.com/Veraticus/vledger/internal/storage"
	"github.com/spf13/viper"
)

// loadConfig reads the typed configuration from the global viper instance.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		closeStorage(store)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStorage(store service.Storage) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close storage", "error", err)
	}
}

// resolveCompany accepts either a numeric id or a company name.
func resolveCompany(ctx context.Context, store service.CompanyStore, arg string) (*model.Company, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, common.NewUserError("A company is required (use --company with an id or name)", nil)
	}

	var (
		company *model.Company
		err     error
	)
	if id, convErr := strconv.Atoi(arg); convErr == nil {
		company, err = store.GetCompany(ctx, id)
	} else {
		company, err = store.GetCompanyByName(ctx, arg)
	}

	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError(fmt.Sprintf("Company %q not found; see 'vledger companies list'", arg), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	return company, nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("--%s must be a date like 2024-01-31", name), err)
	}
	return &t, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("%q is not a valid id", arg), nil)
	}
	return id, nil
}
