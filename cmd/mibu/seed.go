package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chaosmibu-blip/mibu/internal/database"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

var seedFile string

// seedDocument is the fixture format for `mibu seed`.
type seedDocument struct {
	Places       []types.Place          `json:"places"`
	SponsorLinks []database.SponsorLink `json:"sponsor_links,omitempty"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a catalog fixture into the database",
	Long: `Seed reads a JSON fixture of places (and optional sponsor links)
and inserts them into the catalog. Places without an id get a fresh one.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to the fixture JSON (required)")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return types.WrapError(types.CONFIG_LOAD_FAILED, "reading fixture file", err)
	}

	var doc seedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return types.WrapError(types.CONFIG_LOAD_FAILED, "parsing fixture file", err)
	}

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

	if err := database.NewMigrator(db).Migrate(cmd.Context()); err != nil {
		return err
	}

	catalogDAO := database.NewCatalogDAO(db)
	for i := range doc.Places {
		if doc.Places[i].ID == "" {
			doc.Places[i].ID = types.NewID().String()
		}
		if err := catalogDAO.InsertPlace(cmd.Context(), doc.Places[i]); err != nil {
			return err
		}
	}

	rewardDAO := database.NewRewardDAO(db)
	for _, link := range doc.SponsorLinks {
		if err := rewardDAO.InsertSponsorLink(cmd.Context(), link); err != nil {
			return err
		}
	}

	fmt.Printf("Seeded %d places and %d sponsor links into %s\n",
		len(doc.Places), len(doc.SponsorLinks), cfg.Database.Path)
	return nil
}
