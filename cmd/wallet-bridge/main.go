package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet-bridge/internal/adapter/gateway"
	gatewaypostgres "wallet-bridge/internal/adapter/gateway/postgres"
	adapterhandler "wallet-bridge/internal/adapter/handler"
	infrapostgres "wallet-bridge/internal/infrastructure/postgres"
	infratoken "wallet-bridge/internal/infrastructure/token"
	"wallet-bridge/internal/usecase"

	"wallet-bridge/config"
	appmiddleware "wallet-bridge/middleware"
	"wallet-bridge/utils/logger"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	// Initialize structured logger
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"port", cfg.Port,
		"token_issuer", cfg.AppTokenIssuer,
		"token_ttl", cfg.AppTokenTTL)

	// Database
	db, err := infrapostgres.NewConnection(cfg.DatabaseURL, slog.Default())
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Infrastructure
	jwtIssuer := infratoken.NewJWTIssuer(infratoken.JWTConfig{
		Secret: cfg.AppTokenSecret,
		Issuer: cfg.AppTokenIssuer,
		TTL:    cfg.AppTokenTTL,
	})
	providerVerifier, err := infratoken.NewProviderVerifier(cfg.ProviderPublicKey)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse provider public key", "error", err)
		os.Exit(1)
	}
	sigVerifier := infratoken.NewEVMSignatureVerifier()
	providerGateway := gateway.NewProviderGateway(cfg.ProviderBaseURL, cfg.ProviderAPIKey, 10*time.Second)
	users := gatewaypostgres.NewUserRepository(db.Pool(), slog.Default())

	// Usecases
	exchangeUC := usecase.NewExchangeSession(providerVerifier, jwtIssuer, users, slog.Default())
	sigExchangeUC := usecase.NewExchangeSignature(sigVerifier, jwtIssuer, users, slog.Default())
	profileUC := usecase.NewGetProfile(users, cfg.ReferralBaseURL, slog.Default())
	registerUC := usecase.NewRegisterWallet(users, providerGateway, cfg.ReferralBaseURL, slog.Default())
	redeemUC := usecase.NewRedeemReferral(users, slog.Default())
	claimUC := usecase.NewClaimCard(users, slog.Default())
	deletionUC := usecase.NewRequestDeletion(users, slog.Default())

	// Handlers
	exchangeHandler := adapterhandler.NewExchangeHandler(exchangeUC, sigExchangeUC)
	profileHandler := adapterhandler.NewProfileHandler(profileUC, registerUC)
	referralHandler := adapterhandler.NewReferralHandler(redeemUC)
	claimHandler := adapterhandler.NewClaimHandler(claimUC)
	accountHandler := adapterhandler.NewAccountHandler(deletionUC)
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = adapterhandler.NewRequestValidator()

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	exchangeRL := appmiddleware.NewRateLimiter(30.0/60.0, 5) // 30 req/min
	apiRL := appmiddleware.NewRateLimiter(100.0/60.0, 10)    // 100 req/min

	// Exchange routes (unauthenticated)
	e.POST("/api/auth/exchange", exchangeHandler.HandleDelegated, exchangeRL.Middleware())
	e.POST("/api/auth/evm-exchange", exchangeHandler.HandleSignature, exchangeRL.Middleware())
	e.GET("/health", healthHandler.Handle)

	// Authenticated routes
	bearer := appmiddleware.BearerAuth(jwtIssuer)
	e.GET("/auth/me", profileHandler.HandleMe, apiRL.Middleware(), bearer)
	e.POST("/auth/verify", profileHandler.HandleVerify, apiRL.Middleware(), bearer)
	e.POST("/claim", claimHandler.HandleClaim, apiRL.Middleware(), bearer)
	e.POST("/auth/delete-request", accountHandler.HandleDelete, apiRL.Middleware(), bearer)

	// The referral redemption endpoint accepts anonymous requests at the
	// transport level; the handler enforces the subject requirement.
	e.POST("/referral/redeem", referralHandler.HandleRedeem, apiRL.Middleware(),
		appmiddleware.OptionalBearerAuth(jwtIssuer))

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting wallet-bridge server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8888"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
