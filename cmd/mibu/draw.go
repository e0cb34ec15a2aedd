package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chaosmibu-blip/mibu/internal/config"
	"github.com/chaosmibu-blip/mibu/internal/database"
	"github.com/chaosmibu-blip/mibu/internal/engine"
	"github.com/chaosmibu-blip/mibu/internal/ledger"
	"github.com/chaosmibu-blip/mibu/internal/llm"
	"github.com/chaosmibu-blip/mibu/internal/llm/providers"
	"github.com/chaosmibu-blip/mibu/internal/metrics"
	"github.com/chaosmibu-blip/mibu/internal/quota"
	"github.com/chaosmibu-blip/mibu/internal/reorder"
	"github.com/chaosmibu-blip/mibu/internal/reward"
	"github.com/chaosmibu-blip/mibu/internal/sequence"
	"github.com/chaosmibu-blip/mibu/internal/timeslot"
	"github.com/chaosmibu-blip/mibu/internal/types"
)

var (
	drawCity     string
	drawDistrict string
	drawCount    int
	drawIdentity string
	drawSession  string
	drawPace     string
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw a day of places for a city",
	Example: `  mibu draw --city Taipei --count 7 --identity user-42
  mibu draw --city Taipei --district Datong --count 5 --session f3a1`,
	RunE: runDraw,
}

func init() {
	drawCmd.Flags().StringVar(&drawCity, "city", "", "City to draw from (required)")
	drawCmd.Flags().StringVar(&drawDistrict, "district", "", "Preferred district within the city")
	drawCmd.Flags().IntVar(&drawCount, "count", 7, "Number of places to draw")
	drawCmd.Flags().StringVar(&drawIdentity, "identity", "", "Authenticated identity key")
	drawCmd.Flags().StringVar(&drawSession, "session", "", "Anonymous session key (ignored when --identity is set)")
	drawCmd.Flags().StringVar(&drawPace, "pace", "", "Pace hint (recorded, reserved)")
	_ = drawCmd.MarkFlagRequired("city")
}

func runDraw(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := buildEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	identity := types.AnonymousIdentity(drawSession)
	if drawIdentity != "" {
		identity = types.AuthenticatedIdentity(drawIdentity)
	} else if drawSession == "" {
		identity = types.Identity{}
	}

	result, err := eng.Draw(cmd.Context(), types.SelectionRequest{
		Identity:    identity,
		City:        drawCity,
		District:    drawDistrict,
		TargetCount: drawCount,
		Pace:        drawPace,
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// buildEngine wires the full engine from configuration. The returned cleanup
// stops the governor sweep, the anonymous ledger store and the database.
func buildEngine(ctx context.Context) (*engine.Engine, func(), error) {
	db, err := database.OpenWithConfig(database.Config{
		Path:         cfg.Database.Path,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := database.NewMigrator(db).Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	historyDAO := database.NewHistoryDAO(db)
	anon := ledger.NewAnonStore(cfg.Ledger.MaxRecent, cfg.Ledger.AnonymousTTL, cfg.Ledger.SweepInterval)
	governor := quota.NewGovernor(database.NewQuotaDAO(db), cfg.Quota, slog.Default())

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(metrics.WithNamespace(cfg.Metrics.Namespace))
	}

	eng := engine.New(engine.Deps{
		Config:    cfg,
		Catalog:   database.NewCatalogDAO(db),
		Ledger:    ledger.NewStore(historyDAO, anon, cfg.Ledger.MaxRecent),
		Governor:  governor,
		History:   historyDAO,
		Roller:    reward.NewRoller(database.NewRewardDAO(db), cfg.Reward, slog.Default()),
		Reorder:   buildAdvisor(cfg),
		Sequencer: sequence.New(timeslot.NewInferrer(timeslot.DefaultTables())),
		Metrics:   m,
		Logger:    slog.Default(),
	})

	cleanup := func() {
		governor.Close()
		anon.Close()
		_ = db.Close()
	}
	return eng, cleanup, nil
}

// buildAdvisor creates the reorder adapter, or nil when the advisory pass is
// disabled or misconfigured. A missing advisor never blocks draws.
func buildAdvisor(cfg *config.Config) engine.ReorderProposer {
	if !cfg.Advisor.Enabled {
		return nil
	}

	provider, err := providers.NewProvider(llm.ProviderConfig{
		Type:    cfg.Advisor.Provider,
		Model:   cfg.Advisor.Model,
		APIKey:  cfg.Advisor.APIKey,
		BaseURL: cfg.Advisor.BaseURL,
	})
	if err != nil {
		slog.Warn("advisor disabled", "error", err)
		return nil
	}

	policy := llm.Policy{
		MaxAttempts: cfg.Advisor.MaxAttempts,
		BaseBackoff: cfg.Advisor.BaseBackoff,
		MaxBackoff:  cfg.Advisor.Timeout,
	}
	return reorder.NewAdapter(provider, policy, cfg.Advisor.Timeout, slog.Default())
}
