package cli

import (
	"context"
	"fmt"

	"github.com/Backland-Labs/rosterdesk/internal/agent"
	"github.com/Backland-Labs/rosterdesk/internal/config"
	"github.com/Backland-Labs/rosterdesk/internal/handlers"
	"github.com/Backland-Labs/rosterdesk/internal/logger"
	"github.com/Backland-Labs/rosterdesk/internal/scheduling"
	"github.com/Backland-Labs/rosterdesk/internal/store/memory"
	"github.com/Backland-Labs/rosterdesk/internal/store/postgres"
	"github.com/Backland-Labs/rosterdesk/internal/tools"
)

// app is the wired application shared by the serve and ask commands
type app struct {
	cfg       *config.Config
	registry  *tools.Registry
	assistant *agent.Service
	close     func()
}

// loadConfig loads the configuration and initializes the global logger from it
func loadConfig(deps *Dependencies, path string) (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if level == "" && cfg.IsDebug() {
		level = "debug"
	}
	if err := logger.Initialize(level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// loadFixtures returns the configured seed roster or the bundled demo roster
func loadFixtures(cfg *config.Config) (memory.Fixtures, error) {
	if cfg.Store.SeedFile == "" {
		return memory.DemoFixtures(), nil
	}
	return memory.LoadFixtures(cfg.Store.SeedFile)
}

// openRepository opens the configured scheduling store. The returned func
// releases it.
func openRepository(ctx context.Context, cfg *config.Config) (scheduling.Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		store, err := postgres.Open(ctx, cfg.Store.DatabaseURL, int32(cfg.Store.MaxConns))
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("max_conns", cfg.Store.MaxConns).Info("Using postgres store")
		return store, store.Close, nil
	default:
		fixtures, err := loadFixtures(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.WithFields(map[string]interface{}{
			"staff":     len(fixtures.Staff),
			"shifts":    len(fixtures.Shifts),
			"seed_file": cfg.Store.SeedFile,
		}).Info("Using in-memory store")
		return memory.New(fixtures), func() {}, nil
	}
}

// newRegistry wires the scheduling service and its tools onto repo
func newRegistry(repo scheduling.Repository, cfg *config.Config) (*tools.Registry, error) {
	svc := scheduling.NewService(repo, scheduling.ServiceConfig{
		MinRest:       cfg.MinRest(),
		MaxSearchDays: cfg.Scheduling.MaxSearchDays,
	})
	return handlers.NewRegistry(svc, handlers.Config{ApproverRoles: cfg.Scheduling.ApproverRoles})
}

// newApp is the composition root: store, tools, remote client and agent
func newApp(ctx context.Context, deps *Dependencies, cfg *config.Config) (*app, error) {
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry(repo, cfg)
	if err != nil {
		closeRepo()
		return nil, err
	}

	client, err := deps.ClientFactory.NewClient(cfg)
	if err != nil {
		closeRepo()
		return nil, err
	}

	provisioned, err := agent.Provision(ctx, client, registry, agent.AgentConfig{
		ID:           cfg.Agent.ID,
		Name:         cfg.Agent.Name,
		Model:        cfg.Agent.Model,
		Instructions: cfg.Agent.Instructions,
		SyncTools:    cfg.Agent.SyncTools,
	})
	if err != nil {
		closeRepo()
		return nil, err
	}

	svc := agent.NewService(client, registry, provisioned, agent.LoopConfig{
		PollInterval:     cfg.Run.PollInterval,
		Timeout:          cfg.Run.Timeout,
		MaxToolRounds:    cfg.Run.MaxToolRounds,
		MaxParallelTools: cfg.Run.MaxParallelTools,
	})

	return &app{cfg: cfg, registry: registry, assistant: svc, close: closeRepo}, nil
}
