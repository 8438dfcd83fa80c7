package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/SujJR/fundchat/internal/ai"
	"github.com/SujJR/fundchat/internal/config"
	"github.com/SujJR/fundchat/internal/db"
	"github.com/SujJR/fundchat/internal/embedcache"
	"github.com/SujJR/fundchat/internal/extract"
	"github.com/SujJR/fundchat/internal/filestore"
	"github.com/SujJR/fundchat/internal/handler"
	"github.com/SujJR/fundchat/internal/job"
	"github.com/SujJR/fundchat/internal/middleware"
	"github.com/SujJR/fundchat/internal/rag"
	"github.com/SujJR/fundchat/internal/repo"
	"github.com/SujJR/fundchat/internal/schedule"
	"github.com/SujJR/fundchat/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "fundchat",
		Short: "fundchat backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run fundchat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			dbConn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(dbConn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, dbConn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, dbConn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("file_store", cfg.FileStore.Type),
	)

	fundRepo := repo.NewFundRepo(dbConn)
	documentRepo := repo.NewDocumentRepo(dbConn)
	chunkRepo := repo.NewChunkRepo(dbConn)
	cacheRepo := repo.NewEmbeddingCacheRepo(dbConn)

	generator, embedder, err := buildAI(cfg.AI, cacheRepo)
	if err != nil {
		return err
	}

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	queryService := service.NewQueryService(fundRepo, documentRepo, chunkRepo, embedder, generator, service.QueryOptions{
		DefaultTopK:      cfg.Query.DefaultTopK,
		SynthesisTimeout: time.Duration(cfg.Query.SynthesisTimeoutSeconds) * time.Second,
	})
	fundService := service.NewFundService(fundRepo, documentRepo, chunkRepo, queryService)
	ingestService := service.NewIngestService(fundRepo, documentRepo, chunkRepo,
		rag.NewChunker(), extract.NewExtractor(), embedder, generator, store, cfg.Query.SummaryInputMaxChars)

	deps := handler.RouterDeps{
		Funds:     handler.NewFundHandler(fundService, ingestService),
		Documents: handler.NewDocumentHandler(fundService, ingestService, store),
		Query:     handler.NewQueryHandler(queryService),
		Status:    handler.NewStatusHandler(dbConn),
	}
	if cfg.Query.RateLimitSeconds > 0 {
		deps.RateLimit = middleware.RateLimit(time.Duration(cfg.Query.RateLimitSeconds) * time.Second)
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.Jobs.SummaryRefreshCron != "" {
		if err := scheduler.AddJob(job.NewSummaryRefreshJob(fundService), cfg.Jobs.SummaryRefreshCron); err != nil {
			return fmt.Errorf("schedule summary refresh: %w", err)
		}
	}
	if cfg.Jobs.CacheCleanupCron != "" {
		if err := scheduler.AddJob(job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.Jobs.CacheMaxAgeDays), cfg.Jobs.CacheCleanupCron); err != nil {
			return fmt.Errorf("schedule cache cleanup: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

// buildAI wires the primary provider plus any fallbacks into failover
// groups and layers the LRU and database caches over the embedder.
func buildAI(cfg config.AIConfig, cacheRepo *repo.EmbeddingCacheRepo) (ai.IGenerator, ai.IEmbedder, error) {
	generators := make([]ai.GeneratorEntry, 0, 1+len(cfg.Fallbacks))
	embedders := make([]ai.EmbedderEntry, 0, 1+len(cfg.Fallbacks))

	primary, err := ai.NewProvider(cfg.Provider, cfg.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("init ai provider: %w", err)
	}
	generators = append(generators, ai.GeneratorEntry{Name: cfg.Provider, Generator: ai.NewGenerator(primary, cfg.Model)})
	embedders = append(embedders, ai.EmbedderEntry{Name: cfg.Provider, Embedder: ai.NewEmbedder(primary, cfg.EmbedModel)})

	for _, entry := range cfg.Fallbacks {
		provider, err := ai.NewProvider(entry.Provider, entry.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("init fallback provider %s: %w", entry.Provider, err)
		}
		model := entry.Model
		if model == "" {
			model = cfg.Model
		}
		embedModel := entry.EmbedModel
		if embedModel == "" {
			embedModel = cfg.EmbedModel
		}
		generators = append(generators, ai.GeneratorEntry{Name: entry.Provider, Generator: ai.NewGenerator(provider, model)})
		embedders = append(embedders, ai.EmbedderEntry{Name: entry.Provider, Embedder: ai.NewEmbedder(provider, embedModel)})
	}

	embedder := embedcache.WrapDBCacheToEmbedder(ai.NewGroupEmbedder(embedders), cacheRepo)
	embedder = embedcache.WrapLruCacheToEmbedder(embedder,
		cfg.EmbedCacheSize, time.Duration(cfg.EmbedCacheTTLMinutes)*time.Minute)
	return ai.NewGroupGenerator(generators), embedder, nil
}
