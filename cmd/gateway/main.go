// cmd/gateway/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ecommerce-gateway/internal/common/auth"
	awsclients "ecommerce-gateway/internal/common/aws"
	"ecommerce-gateway/internal/common/config"
	"ecommerce-gateway/internal/common/database"
	"ecommerce-gateway/internal/common/logger"
	"ecommerce-gateway/internal/common/observability"
	"ecommerce-gateway/internal/common/services"
	composeprice "ecommerce-gateway/internal/handlers/compose-price"
	"ecommerce-gateway/internal/handlers/health"
	salessummary "ecommerce-gateway/internal/handlers/sales-summary"
	sendnotification "ecommerce-gateway/internal/handlers/send-notification"
	"ecommerce-gateway/internal/httpapi"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting API gateway...",
		zap.String("version", cfg.App.Version),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	tracing := observability.NewTracing(cfg.App.Name, cfg.Integrations.JaegerEndpoint)
	defer tracing.Shutdown()

	ctx := context.Background()
	probes := []health.Probe{}

	// --- Init Redis (optional, backs the compose cache and keystore cache) ---
	var redisClient *database.RedisClient
	if cfg.Gateway.CacheEnabled || cfg.Auth.Keystore.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		probes = append(probes, health.Probe{Name: "redis", Check: redisClient.Ping})
		zapLog.Info("Redis connected successfully")
	}

	// --- Init PostgreSQL (optional, backs the API keystore) ---
	var pg *database.PostgresClient
	if cfg.Auth.Keystore.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		probes = append(probes, health.Probe{Name: "postgres", Check: pg.Ping})
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Elasticsearch (optional, backs direct analytics mode) ---
	var esClient *database.ElasticsearchClient
	if cfg.Integrations.AnalyticsMode == salessummary.ModeDirect {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		probes = append(probes, health.Probe{Name: "elasticsearch", Check: func(context.Context) error {
			return esClient.Ping()
		}})
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Downstream service clients ---
	pricingClient := services.NewPricingClient(cfg.Services.Pricing.BaseURL, config.GetDuration(cfg.Services.Pricing.Timeout))
	inventoryClient := services.NewInventoryClient(cfg.Services.Inventory.BaseURL, config.GetDuration(cfg.Services.Inventory.Timeout))
	promotionsClient := services.NewPromotionsClient(cfg.Services.Promotions.BaseURL, config.GetDuration(cfg.Services.Promotions.Timeout))
	notificationsClient := services.NewNotificationsClient(cfg.Services.Notifications.BaseURL, config.GetDuration(cfg.Services.Notifications.Timeout))
	analyticsClient := services.NewAnalyticsClient(cfg.Services.Analytics.BaseURL, config.GetDuration(cfg.Services.Analytics.Timeout))

	// --- Composition coordinator ---
	composeCfg := &composeprice.Config{
		OverallDeadline: config.GetDuration(cfg.Gateway.OverallDeadline),
		CacheEnabled:    cfg.Gateway.CacheEnabled,
		CacheTTL:        time.Duration(cfg.Gateway.CacheTTL) * time.Second,
	}
	var composeCache *composeprice.Cache
	if cfg.Gateway.CacheEnabled && redisClient != nil {
		composeCache = composeprice.NewCache(redisClient, composeCfg.CacheTTL, log)
	}
	coordinator := composeprice.NewCoordinator(
		composeCfg,
		composeprice.NewPricingCaller(pricingClient),
		composeprice.NewInventoryCaller(inventoryClient),
		composeprice.NewPromotionsCaller(promotionsClient),
		composeCache, tracing, log,
	)

	// --- Notification delivery ---
	notifCfg := &sendnotification.Config{
		Provider:  cfg.Integrations.NotificationProvider,
		FromEmail: cfg.Integrations.AWS.SES.FromEmail,
		TopicARN:  cfg.Integrations.AWS.SNS.TopicARN,
	}
	var directSender *sendnotification.DirectSender
	if notifCfg.Provider != sendnotification.ProviderService {
		var sesClient *awsclients.SESClient
		var snsClient *awsclients.SNSClient
		switch notifCfg.Provider {
		case sendnotification.ProviderSES:
			sesClient, err = awsclients.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		case sendnotification.ProviderSNS:
			snsClient, err = awsclients.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		}
		if err != nil {
			zapLog.Fatal("aws client init failed", zap.Error(err))
		}
		directSender = sendnotification.NewDirectSender(notifCfg, sesClient, snsClient, log)
	}

	// --- Analytics ---
	analyticsCfg := &salessummary.Config{
		Mode:        cfg.Integrations.AnalyticsMode,
		OrdersIndex: cfg.Integrations.OrdersIndex,
	}
	var directQuerier *salessummary.DirectQuerier
	if analyticsCfg.Mode == salessummary.ModeDirect {
		directQuerier = salessummary.NewDirectQuerier(analyticsCfg, esClient, log)
	}

	// --- API key validation ---
	var validator httpapi.KeyValidator
	if cfg.Auth.Keystore.Enabled {
		validator = auth.NewKeystore(pg.GetDB(), redisClient.GetClient(),
			time.Duration(cfg.Auth.Keystore.CacheTTL)*time.Second, log)
	} else if cfg.Auth.APIKey != "" {
		validator = httpapi.NewStaticValidator(cfg.Auth.APIKey)
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Health:         health.NewHandler(cfg.App.Name, cfg.App.Version, probes, log),
		Compose:        composeprice.NewHandler(coordinator, log),
		Notifications:  sendnotification.NewHandler(notifCfg, notificationsClient, directSender, log),
		Analytics:      salessummary.NewHandler(analyticsCfg, analyticsClient, directQuerier, log),
		Validator:      validator,
		AllowedOrigins: splitOrigins(cfg.Server.AllowedOrigins),
		Logger:         log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("Gateway listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down gateway...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Gateway stopped")
}

func splitOrigins(origins string) []string {
	if origins == "" {
		return []string{"*"}
	}
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
