package main

import (
	"catalog/cli"
	"catalog/config"
	"catalog/core"
	"catalog/database"
	"catalog/handlers"
	"catalog/metrics"
	"catalog/service"
	"catalog/storefront"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables and parse CLI flags
	config.ParseFlags()
	cfg := config.Settings

	logger, err := setupLogging(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.IssueToken != "" {
		issueToken(cfg)
		return
	}

	if cfg.CLIMode {
		mainCLI(cfg)
		return
	}

	zap.S().Infow("System starting up...", "port", cfg.Port)

	if err := database.InitDB(); err != nil {
		zap.S().Fatalw("Failed to initialize database", "error", err)
	}

	core.ErrorLoggerInstance.SetCapacity(cfg.ErrorLogCapacity)

	verifier, err := newVerifier(cfg)
	if err != nil {
		zap.S().Fatalw("Failed to configure token verification", "error", err)
	}

	adminNetwork, err := core.NewAdminNetworkACL(cfg.AdminAllowCIDRs, cfg.AdminDenyCIDRs)
	if err != nil {
		zap.S().Fatalw("Failed to parse admin network lists", "error", err)
	}

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	store, err := core.NewLocalStore(cfg.StorageDir, cfg.StorageBucket, publicBaseURL)
	if err != nil {
		zap.S().Fatalw("Failed to prepare object storage", "error", err)
	}

	if err := service.InitServices(database.DB, store, core.NewImagingProcessor(cfg.ImageMaxSide, cfg.ImageQuality)); err != nil {
		zap.S().Fatalw("Failed to initialize services", "error", err)
	}

	metrics.RegisterDatabase(
		func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return database.Up(ctx, database.DB)
		},
		database.SQLiteBusyErrorsTotal,
		database.SQLiteLockedErrorsTotal,
	)

	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := handlers.SetupRouter(handlers.RouterOptions{
		Verifier:       verifier,
		AllowedOrigins: cfg.AllowedOrigins(),
		MaxImageBytes:  cfg.ImageMaxBytes,
		Storage:        store,
		AdminNetwork:   adminNetwork,
	})

	site, err := storefront.NewSite(service.GlobalServices.Products, service.GlobalServices.Config, cfg.WhatsAppNumber)
	if err != nil {
		zap.S().Fatalw("Failed to load storefront templates", "error", err)
	}
	site.Register(r)
	if cfg.WhatsAppNumber != "" && !storefront.ValidWhatsAppNumber(cfg.WhatsAppNumber) {
		zap.S().Warnw("WHATSAPP_NUMBER is not a valid international number; purchase links are disabled", "number", cfg.WhatsAppNumber)
	}

	listener, err := core.ListenTCP("0.0.0.0", cfg.Port)
	if err != nil {
		zap.S().Fatalw("Failed to listen", "error", err)
	}

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.S().Infof("Server starting on http://127.0.0.1:%d", cfg.Port)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.S().Info("System shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Warnw("Server forced to shutdown", "error", err)
	}

	if err := database.CloseDB(); err != nil {
		zap.S().Warnw("Error closing database", "error", err)
	}

	zap.S().Info("Server exited")
}

// newVerifier prefers the external provider's JWKS and falls back to the local HS256 secret.
func newVerifier(cfg *config.Config) (core.TokenVerifier, error) {
	if cfg.AuthJWKSURL != "" {
		zap.S().Infow("Verifying admin tokens against JWKS", "url", cfg.AuthJWKSURL)
		ttl := time.Duration(cfg.AuthJWKSCacheSeconds) * time.Second
		return core.NewJWKSVerifier(cfg.AuthJWKSURL, cfg.AuthIssuer, cfg.AuthAudience, ttl, nil), nil
	}
	if cfg.AuthJWTSecret == "" {
		return nil, errors.New("set AUTH_JWKS_URL or AUTH_JWT_SECRET")
	}
	return core.NewHMACVerifier(cfg.AuthJWTSecret, cfg.AuthIssuer, cfg.AuthAudience)
}

// issueToken prints a 30 day admin token for the local HS256 verifier.
func issueToken(cfg *config.Config) {
	if cfg.AuthJWTSecret == "" {
		fmt.Fprintln(os.Stderr, "Error: AUTH_JWT_SECRET is required to issue tokens")
		os.Exit(1)
	}
	token, err := core.IssueToken(cfg.AuthJWTSecret, cfg.IssueToken, cfg.AuthIssuer, cfg.AuthAudience, 30*24*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

// mainCLI runs the admin console against a running server; it never opens the database.
func mainCLI(cfg *config.Config) {
	path, err := cli.DefaultConfigPath()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	cliConfig, err := cli.LoadConfig(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	server, err := cliConfig.GetServer("")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	serverURL := server.URL
	if cfg.CLIServer != "" {
		serverURL = cfg.CLIServer
	}
	token := server.Token
	if env := os.Getenv("CATALOG_TOKEN"); env != "" {
		token = env
	}

	console := cli.NewCLIHttp(cli.NewClient(serverURL, token), os.Stdout)
	if err := console.Start(); err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("\nTips:")
		fmt.Println("  1. Make sure the catalog server is running:")
		fmt.Println("     ./catalog")
		fmt.Println("  2. Or specify a different server:")
		fmt.Println("     ./catalog --cli --server http://your-server:3002")
		fmt.Printf("  3. Put an admin token under servers.<name>.token in %s\n", path)
		os.Exit(1)
	}
}
