// Package app assembles the BFF: modules, middleware chain and route groups.
package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"roofestimator/internal/backend"
	"roofestimator/internal/cache"
	"roofestimator/internal/config"
	"roofestimator/internal/middleware"
	"roofestimator/internal/modules/account"
	"roofestimator/internal/modules/leads"
	"roofestimator/internal/modules/navigation"
	"roofestimator/internal/modules/onboarding"
	"roofestimator/internal/modules/payment"
	"roofestimator/internal/modules/roofingprice"
	"roofestimator/internal/pkg/jwt"
)

type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Backend  *backend.Client
	Cache    *cache.UserCache
	Verifier jwt.Verifier
	Intents  payment.SetupIntentFetcher
	Loggerf  func(format string, args ...interface{})
}

type App struct {
	Router *gin.Engine
	Hub    *leads.Hub
	Drafts *onboarding.DraftStore
}

func New(opts Options) (*App, error) {
	cfg := opts.Config
	loggerf := opts.Loggerf
	if loggerf == nil {
		loggerf = log.Printf
	}

	drafts := onboarding.NewDraftStore(opts.DB)
	if err := drafts.AutoMigrate(); err != nil {
		return nil, err
	}

	resolver := account.NewResolver(opts.Backend, opts.Cache)
	accountHandler := account.NewHandler(account.NewService(opts.Backend, resolver, loggerf))

	onboardingHandler := onboarding.NewHandler(onboarding.NewService(drafts, opts.Backend, resolver))

	leadService := leads.NewService(opts.Backend, cfg.SearchDebounce, loggerf)
	hub := leads.NewHub()
	liveHandler := leads.NewLiveHandler(leadService, hub, cfg.CORSAllowedOrigins)
	leadHandler := leads.NewHandler(leadService, hub, liveHandler)

	priceHandler := roofingprice.NewHandler(roofingprice.NewService(opts.Backend, loggerf))

	paymentService := payment.NewService(opts.Backend, opts.Intents, cfg.StripePublishableKey, cfg.SetupIntentAmount, loggerf)
	paymentHandler := payment.NewHandler(paymentService, loggerf)

	navigationHandler := navigation.NewHandler()

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	r.Use(middleware.SessionGate(opts.Verifier, cfg.SessionCookie, cfg.SignInPath))

	r.GET("/health", health(opts.DB))
	navigationHandler.RegisterRoutes(&r.RouterGroup)

	// identity callbacks run before the backend user is complete
	callbacks := r.Group("")
	callbacks.Use(middleware.RequireSession(opts.Verifier, cfg.SessionCookie))
	{
		accountHandler.RegisterCallbacks(callbacks)
	}

	// onboarding and card setup need an account, not a finished profile
	setup := r.Group("")
	setup.Use(middleware.LoadAccount(resolver, false))
	{
		onboardingHandler.RegisterRoutes(setup)
		paymentHandler.RegisterRoutes(setup)
	}

	protected := r.Group("")
	protected.Use(middleware.LoadAccount(resolver, true))
	{
		accountHandler.RegisterRoutes(protected)
		leadHandler.RegisterRoutes(protected)
		priceHandler.RegisterRoutes(protected)
	}

	internal := r.Group("/internal")
	internal.Use(middleware.InternalTokenAuth(cfg.InternalTokenHash))
	{
		accountHandler.RegisterInternalRoutes(internal)
	}

	return &App{Router: r, Hub: hub, Drafts: drafts}, nil
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
