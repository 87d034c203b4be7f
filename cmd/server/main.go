package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"suiquiz/internal/api"
	"suiquiz/internal/app/service"
	"suiquiz/internal/common/security"
	"suiquiz/internal/domain/repository"
	"suiquiz/internal/platform/cache"
	"suiquiz/internal/platform/config"
	"suiquiz/internal/platform/database"
	"suiquiz/internal/platform/ledger"
	"suiquiz/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	// 1. Configuration and logging
	config.Load()
	logger.Init(config.AppConfig.Mode)
	defer logger.Log.Sync()

	// 2. JWT for the admin surface
	security.InitJWT()

	// 3. Attestation signing key; refuse to start without one rather than
	// ever issuing unsigned claims.
	signer, err := security.NewEd25519Signer(config.AppConfig.AttestationSeed)
	if err != nil {
		logger.Log.Fatal("attestation signer init failed", zap.Error(err))
	}

	// 4. Question bank storage
	database.Connect()
	defer database.Close()
	logger.Log.Info("database connected")

	// 5. Quota store
	var quotaStore repository.QuotaStore
	switch config.AppConfig.QuotaBackend {
	case "memory":
		quotaStore = repository.NewMemoryQuotaStore()
		logger.Log.Warn("using in-memory quota store; quota history is lost on restart")
	default:
		cache.ConnectRedis()
		defer cache.CloseRedis()
		quotaStore = repository.NewRedisQuotaStore(cache.RDB)
		logger.Log.Info("redis connected")
	}

	// 6. Services
	questionRepo := repository.NewPgQuestionRepository(database.DB)
	questionService := service.NewQuestionService(questionRepo)
	if err := questionService.Load(context.Background()); err != nil {
		logger.Log.Fatal("question bank load failed", zap.Error(err))
	}

	rateGate := service.NewRateGate(quotaStore)
	scoreService := service.NewScoreService(questionService)
	attestationService := service.NewAttestationService(rateGate, scoreService, signer)

	ledgerClient := ledger.NewClient(config.AppConfig.LedgerRPCURL, config.AppConfig.LedgerRequestTimeout)
	leaderboardService := service.NewLeaderboardService(
		ledgerClient,
		config.AppConfig.LeaderboardObjectID,
		config.AppConfig.LeaderboardPageSize,
		config.AppConfig.LeaderboardInFlight,
		config.AppConfig.LeaderboardTimeout,
	)

	authService := service.NewAuthService()

	// 7. Router & HTTP server
	router := api.NewRouter(authService, questionService, attestationService, rateGate, leaderboardService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Log.Info("server starting", zap.String("port", config.AppConfig.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server listen failed", zap.Error(err))
		}
	}()

	<-stop

	logger.Log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Log.Info("server stopped gracefully")
}
