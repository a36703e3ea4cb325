package commands

import (
	"Folio/internal/api/config"
	"Folio/internal/pkg/cron"
	"Folio/internal/pkg/es"
	"Folio/internal/pkg/kafka"
	"Folio/internal/pkg/mongo"
	"Folio/internal/pkg/redis"
	"Folio/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// connectInfra 按配置连接可选的外部依赖
func connectInfra(ctx context.Context, cfg *config.Config) (wire.Infra, error) {
	var infra wire.Infra

	// Redis 连接
	if cfg.Redis.Enable {
		rdb, err := redis.InitRedis(ctx, cfg.Redis)
		if err != nil {
			log.Error("Fatal error: failed to create redis connection", "err", err)
			return infra, err
		}
		infra.Redis = rdb
	}

	// Mongo 连接
	if cfg.Mongo.Enable {
		db, err := mongo.InitMongo(ctx, cfg.Mongo)
		if err != nil {
			log.Error("Fatal error: failed to create mongo connection", "err", err)
			return infra, err
		}
		if err = mongo.EnsureIndexes(ctx, db); err != nil {
			log.Warn("Failed to ensure notification indexes", "err", err)
		}
		infra.Mongo = db
	}

	// ElasticSearch 连接
	if cfg.Elastic.Enable {
		client, err := es.InitClient(ctx, cfg.Elastic)
		if err != nil {
			log.Error("Fatal error: failed to initialize ElasticSearch", "err", err)
			return infra, err
		}
		if err = es.NewPostIndex(client, cfg.Elastic.Index).EnsureIndex(ctx); err != nil {
			log.Error("Fatal error: failed to create post index", "err", err)
			return infra, err
		}
		infra.Elastic = client
	}

	// Kafka 生产者
	if cfg.Kafka.Enable {
		publisher, err := kafka.NewSyncPublisher(cfg)
		if err != nil {
			log.Error("Fatal error: failed to create kafka producer", "err", err)
			return infra, err
		}
		infra.Publisher = publisher
	}
	return infra, nil
}

func runServe(parent context.Context) error {
	cfg := config.Cfg

	db, err := openDB(cfg.DB.AutoMigrate)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := connectInfra(ctx, cfg)
	if err != nil {
		return err
	}
	if infra.Publisher != nil {
		defer func() {
			if err := infra.Publisher.Close(); err != nil {
				log.Error("Kafka producer close failed", "err", err)
			}
		}()
	}

	// 依赖注入
	app, err := wire.BuildApplication(db, cfg, infra)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	// 定时任务
	if err = cron.InitCron(app.CronMgr); err != nil {
		log.Error("Fatal error: failed to start cron jobs", "err", err)
		return err
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		app.CronMgr.Stop()
		return nil
	})

	// Kafka 消费者
	if app.KafkaManager != nil {
		g.Go(func() error {
			log.Info("Kafka Consumers starting...")
			return app.KafkaManager.Start(ctx)
		})
	}

	// HTTP 服务器
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
		return err
	}
	log.Info("App exited successfully.")
	return nil
}
