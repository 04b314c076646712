package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/invopop/jsonschema"
	"github.com/onchain-commerce/hubindexer/internal/common"
	"github.com/onchain-commerce/hubindexer/internal/config"
	"github.com/onchain-commerce/hubindexer/internal/db"
	"github.com/onchain-commerce/hubindexer/internal/dispatch"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/metrics"
	"github.com/onchain-commerce/hubindexer/internal/rpc"
	"github.com/onchain-commerce/hubindexer/internal/source"
	"github.com/onchain-commerce/hubindexer/internal/store"
	"github.com/onchain-commerce/hubindexer/internal/store/migrations"
	"github.com/onchain-commerce/hubindexer/internal/watch"
	"github.com/onchain-commerce/hubindexer/pkg/api"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║          Hub Indexer v%s               ║
║   On-Chain Commerce Protocol Indexer      ║
╚═══════════════════════════════════════════╝
`
)

var (
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hubindexer",
	Short: "Hub Indexer - on-chain commerce protocol indexer",
	Long: `Hub Indexer derives relational commerce state from the event logs of a
hub contract, the shop contracts it spawns, and the identity, reputation and
validation registries. It follows the chain with reorg handling and serves
the derived state over a read-only HTTP API.`,
	Version: version,
	RunE:    runIndexer,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration file JSON schema",
	Long:  `Print the JSON schema for the configuration file to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reflector := jsonschema.Reflector{ExpandedStruct: true}
		schema := reflector.Reflect(&config.Config{})
		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.AddCommand(schemaCmd)
}

func runIndexer(cmd *cobra.Command, args []string) error {
	fmt.Printf(banner, version)

	// Load configuration
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	// NewComponentLoggerFromConfig checks its interface argument against
	// nil, which a typed-nil *LoggingConfig would slip past.
	componentLogger := func(component string) *logger.Logger {
		if cfg.Logging == nil {
			return logger.NewComponentLoggerFromConfig(component, nil)
		}
		return logger.NewComponentLoggerFromConfig(component, cfg.Logging)
	}
	log := componentLogger(common.ComponentSource)

	// Initialize RPC client
	log.Info("Connecting to Ethereum node...")
	ethClient, err := rpc.NewClient(ctx, cfg.Source.RPCURL, cfg.Source.Retry)
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}
	defer ethClient.Close()
	log.Infof("Connected to Ethereum node: %s", cfg.Source.RPCURL)

	// Initialize metrics server if enabled
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics)
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(ctx); err != nil {
				log.Warnf("Failed to stop metrics server: %v", err)
			}
		}()
		log.Infof("Metrics server started on %s%s", cfg.Metrics.ListenAddress, cfg.Metrics.Path)
	}

	// Initialize database
	database, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer database.Close()

	// Run entity store migrations
	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(componentLogger(common.ComponentStore), database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize entity store
	entityStore := store.New(database, componentLogger(common.ComponentStore))

	// Initialize watch registry and load persisted shop addresses
	registry := watch.NewRegistry(componentLogger(common.ComponentWatch))
	if err := registry.Load(database); err != nil {
		return fmt.Errorf("failed to load watch registry: %w", err)
	}
	log.Infof("Watching %d shop contract(s)", registry.Count())

	addrs := dispatch.ContractAddresses{
		Hub:        cfg.Contracts.HubAddress(),
		Identity:   cfg.Contracts.IdentityAddress(),
		Reputation: cfg.Contracts.ReputationAddress(),
		Validation: cfg.Contracts.ValidationAddress(),
	}

	// Initialize event dispatcher
	dispatcher := dispatch.New(
		componentLogger(common.ComponentDispatcher),
		entityStore,
		registry,
		addrs,
	)

	// Initialize sync manager and chain source
	syncManager := source.NewSyncManager(database, componentLogger(common.ComponentSyncState))
	chainSource := source.NewChainSource(
		log,
		ethClient,
		database,
		dispatcher,
		registry,
		syncManager,
		cfg.Source,
		addrs,
	)

	g, gCtx := errgroup.WithContext(ctx)

	// Start API server if enabled
	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(
			cfg.API,
			entityStore,
			registry,
			syncManager,
			componentLogger(common.ComponentAPI),
		)
		g.Go(func() error {
			if err := apiServer.Start(gCtx); err != nil {
				return fmt.Errorf("API server failed: %w", err)
			}
			return nil
		})
	}

	// Start indexing
	log.Info("Starting Hub Indexer...")
	g.Go(func() error {
		if err := chainSource.Run(gCtx); err != nil {
			return fmt.Errorf("chain source failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Hub Indexer stopped successfully")
	return nil
}
