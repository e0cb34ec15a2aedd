package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaosmibu-blip/mibu/internal/database"
	"github.com/chaosmibu-blip/mibu/internal/llm"
	"github.com/chaosmibu-blip/mibu/internal/llm/providers"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and advisor health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, err := database.OpenWithConfig(database.Config{
		Path:         cfg.Database.Path,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := database.NewMigrator(db).CurrentVersion(cmd.Context())
	if err != nil {
		return err
	}

	var placeCount int
	if err := db.Conn().QueryRowContext(cmd.Context(),
		`SELECT COUNT(*) FROM places`).Scan(&placeCount); err != nil {
		placeCount = 0
	}

	fmt.Printf("Database:  %s (schema v%d)\n", cfg.Database.Path, version)
	fmt.Printf("Places:    %d\n", placeCount)

	if !cfg.Advisor.Enabled {
		fmt.Println("Advisor:   disabled")
		return nil
	}

	provider, err := providers.NewProvider(llm.ProviderConfig{
		Type:    cfg.Advisor.Provider,
		Model:   cfg.Advisor.Model,
		APIKey:  cfg.Advisor.APIKey,
		BaseURL: cfg.Advisor.BaseURL,
	})
	if err != nil {
		fmt.Printf("Advisor:   misconfigured (%v)\n", err)
		return nil
	}
	if err := llm.Health(cmd.Context(), provider); err != nil {
		fmt.Printf("Advisor:   %s unhealthy (%v)\n", provider.Name(), err)
		return nil
	}
	fmt.Printf("Advisor:   %s healthy (model %s)\n", provider.Name(), cfg.Advisor.Model)
	return nil
}
