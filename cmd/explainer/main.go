package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	app_service "github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/application/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/repository"
	domain_service "github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/api"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/blockchain"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/config"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/database"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/messaging"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/ml"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/registry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.NewLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create FX application
	app := fx.New(
		// Provide dependencies
		fx.Supply(cfg),
		fx.Supply(log),
		fx.Supply(&cfg.NATS),
		fx.Supply(&cfg.Neo4J),
		fx.Provide(func() *zap.Logger { return log.Logger }),

		// Infrastructure providers
		fx.Provide(
			database.NewNeo4JClient,
			blockchain.NewEthereumClient,
			newAddressRegistry,
			blockchain.NewTransactionDecoderService,
			ml.NewModelRegistry,
			ml.NewPredictorSet,
			messaging.NewNATSPublisher,
			func(p *messaging.NATSPublisher) domain_service.ExplanationPublisher { return p },
		),

		// Domain services
		fx.Provide(
			domain_service.NewFeatureExtractor,
			newRuleEngine,
			newNarrativeComposer,
			domain_service.NewRecommendationGenerator,
		),

		// Application providers
		fx.Provide(
			newOrchestratorOptions,
			app_service.NewExplanationApplicationService,
		),

		// HTTP providers
		fx.Provide(
			api.NewHandlers,
			api.NewServer,
		),

		// Lifecycle hooks
		fx.Invoke(startExplainer),

		// Configure logging
		fx.WithLogger(func() fxevent.Logger {
			return fxevent.NopLogger
		}),
	)

	// Start the application
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Error("Failed to start application", zap.Error(err))
		os.Exit(1)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down application...")

	// Stop the application
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application gracefully", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}

// newAddressRegistry selects the registry backend and wraps it in the
// read-through cache
func newAddressRegistry(cfg *config.Config, neo4jClient *database.Neo4JClient, log *logger.Logger) repository.AddressRegistry {
	var backend repository.AddressRegistry
	if cfg.Registry.Source == "neo4j" {
		backend = database.NewNeo4JRegistryRepository(neo4jClient, log)
	} else {
		backend = registry.NewStaticRegistry()
	}
	return registry.NewCachedRegistry(backend, cfg.Registry.CacheTTL)
}

func newRuleEngine(cfg *config.Config) *domain_service.RuleEngine {
	engineCfg := domain_service.DefaultRuleEngineConfig()
	engineCfg.DefaultValueTiers = domain_service.ValueTierConfig{
		SmallMax: cfg.Explain.ValueTiers.SmallMax,
		HighMin:  cfg.Explain.ValueTiers.HighMin,
	}
	if len(cfg.Explain.ValueTiers.Tokens) > 0 {
		engineCfg.TokenValueTiers = make(map[string]domain_service.ValueTierConfig, len(cfg.Explain.ValueTiers.Tokens))
		for symbol, tiers := range cfg.Explain.ValueTiers.Tokens {
			engineCfg.TokenValueTiers[symbol] = domain_service.ValueTierConfig{
				SmallMax: tiers.SmallMax,
				HighMin:  tiers.HighMin,
			}
		}
	}
	if cfg.Explain.TopK > 0 {
		engineCfg.TopK = cfg.Explain.TopK
	}
	return domain_service.NewRuleEngine(engineCfg)
}

func newNarrativeComposer(cfg *config.Config) *domain_service.NarrativeComposer {
	composerCfg := domain_service.ComposerConfig{
		WhaleThresholdETH:   cfg.Explain.WhaleThresholdETH,
		SignificantETH:      cfg.Explain.SignificantETH,
		Stablecoins:         toSet(cfg.Explain.Stablecoins),
		LiquidityCategories: toSet(cfg.Explain.LiquidityCategories),
	}
	return domain_service.NewNarrativeComposer(composerCfg)
}

func newOrchestratorOptions(cfg *config.Config) app_service.Options {
	return app_service.Options{
		DecodeTimeout: cfg.Explain.DecodeTimeout,
		ETHPriceUSD:   cfg.Explain.ETHPriceUSD,
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// startExplainer wires the lifecycle: backend connections first, then the
// HTTP server
func startExplainer(
	lifecycle fx.Lifecycle,
	cfg *config.Config,
	neo4jClient *database.Neo4JClient,
	ethClient *blockchain.EthereumClient,
	publisher *messaging.NATSPublisher,
	server *api.Server,
	log *logger.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Registry.Source == "neo4j" {
				log.Info("Connecting to Neo4J registry backend")
				if err := neo4jClient.Connect(ctx); err != nil {
					return fmt.Errorf("failed to connect to Neo4J: %w", err)
				}
			}

			if err := publisher.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect to NATS: %w", err)
			}

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server error", zap.Error(err))
				}
			}()

			log.Info("Explanation service started", zap.Int("port", cfg.App.HTTPPort))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shut down HTTP server", zap.Error(err))
			}
			if err := publisher.Close(ctx); err != nil {
				log.Error("Failed to close NATS connection", zap.Error(err))
			}
			if cfg.Registry.Source == "neo4j" {
				if err := neo4jClient.Close(ctx); err != nil {
					log.Error("Failed to close Neo4J connection", zap.Error(err))
				}
			}
			ethClient.Close()
			return nil
		},
	})
}
