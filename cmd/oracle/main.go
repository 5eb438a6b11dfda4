package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"polyoracle/internal/ai"
	"polyoracle/internal/client/gamma"
	"polyoracle/internal/client/newsapi"
	"polyoracle/internal/client/reddit"
	"polyoracle/internal/config"
	cronrunner "polyoracle/internal/cron"
	"polyoracle/internal/db"
	"polyoracle/internal/handler"
	"polyoracle/internal/logger"
	"polyoracle/internal/notify"
	gormrepository "polyoracle/internal/repository/gorm"
	"polyoracle/internal/service"
	"polyoracle/internal/whale"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("PO_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("PO_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		log.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		log.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	gammaClient := gamma.NewClient(&http.Client{Timeout: cfg.Gamma.Timeout}, cfg.Gamma.BaseURL)
	newsClient := newsapi.NewClient(&http.Client{Timeout: cfg.News.Timeout}, cfg.News.BaseURL, cfg.News.APIKey, cfg.News.PageSize)
	redditClient := reddit.NewClient(&http.Client{Timeout: cfg.Reddit.Timeout}, reddit.Options{
		AuthURL:      cfg.Reddit.AuthURL,
		APIURL:       cfg.Reddit.APIURL,
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		Subreddits:   cfg.Reddit.Subreddits,
		SearchLimit:  cfg.Reddit.SearchLimit,
		Tokens:       reddit.NewTokenCache(cfg.Reddit.TokenTTL),
	})
	analyst := ai.NewAnalyst(cfg.Anthropic, log)

	generator := &service.SignalGenerator{
		Repo:       store,
		Markets:    gammaClient,
		Whales:     &whale.Estimator{Enabled: cfg.Engine.WhaleEstimation},
		News:       newsClient,
		Reddit:     redditClient,
		Analyst:    analyst,
		Logger:     log,
		Config:     cfg.Engine,
		NewsWindow: time.Duration(cfg.News.WindowHours) * time.Hour,
	}

	if cfg.Notify.TelegramEnabled {
		notifier, err := notify.NewTelegram(cfg.Notify, log)
		if err != nil {
			log.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			generator.Notifier = notifier
		}
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	cronHandler := &handler.CronHandler{
		Generator: generator,
		Secret:    cfg.Server.CronSecret,
		Logger:    log,
	}
	cronHandler.Register(engine)
	signalHandler := &handler.SignalHandler{Repo: store}
	signalHandler.Register(engine)
	marketHandler := &handler.MarketHandler{Repo: store}
	marketHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		runner := cronrunner.New(log, ctx)
		_, err := runner.Add(cfg.Cron.Generate, func(ctx context.Context) {
			result := generator.Run(ctx, service.GenerateOptions{})
			if !result.Success {
				log.Warn("scheduled generation finished with errors",
					zap.Int("signals_generated", result.SignalsGenerated),
					zap.Strings("errors", result.Errors),
				)
				return
			}
			log.Info("scheduled generation ok",
				zap.Int("signals_generated", result.SignalsGenerated),
			)
		})
		if err != nil {
			log.Warn("cron register generation failed", zap.Error(err))
		}
		runner.Start()
		defer runner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
