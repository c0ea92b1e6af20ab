package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roofestimator/internal/app"
	"roofestimator/internal/backend"
	"roofestimator/internal/cache"
	"roofestimator/internal/config"
	"roofestimator/internal/database"
	"roofestimator/internal/modules/payment"
	jwtsvc "roofestimator/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("level=fatal msg=config load failed err=%v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal msg=db connect failed err=%v", err)
	}

	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	userCache := cache.NewUserCache(redisClient, cfg.UserCacheTTL)

	appCtx, stop := context.WithCancel(context.Background())
	defer stop()

	verifier, err := sessionVerifier(appCtx, cfg)
	if err != nil {
		log.Fatalf("level=fatal msg=session verifier init failed err=%v", err)
	}

	a, err := app.New(app.Options{
		Config:   cfg,
		DB:       db,
		Backend:  client,
		Cache:    userCache,
		Verifier: verifier,
		Intents:  payment.NewStripeSetupIntents(cfg.StripeSecretKey, cfg.BackendTimeout),
	})
	if err != nil {
		log.Fatalf("level=fatal msg=app init failed err=%v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("level=info msg=listening addr=%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("level=fatal msg=server failed err=%v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("level=info msg=shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// live tables hold hijacked connections that Shutdown does not wait for
	a.Hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("level=error msg=graceful shutdown failed err=%v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("level=info msg=server stopped")
}

// sessionVerifier keeps refreshing the JWKS until ctx is cancelled.
func sessionVerifier(ctx context.Context, cfg *config.Config) (jwtsvc.Verifier, error) {
	if cfg.IdentityJWKSURL == "" {
		log.Println("level=warn msg=IDENTITY_JWKS_URL not set, verifying sessions with IDENTITY_JWT_SECRET")
		return jwtsvc.New(cfg.IdentityJWTSecret, 24*time.Hour), nil
	}
	v, err := jwtsvc.NewJWKSVerifier(ctx, cfg.IdentityJWKSURL, cfg.IdentityIssuer)
	if err != nil {
		return nil, err
	}
	return v, nil
}
