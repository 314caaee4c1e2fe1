package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-console/pkg/api"
	"product-console/pkg/auth"
	"product-console/pkg/config"
	"product-console/pkg/handlers"
	"product-console/pkg/logger"
	"product-console/pkg/products"
	"product-console/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "product-console",
	Short: "Web console for managing products on a remote REST API",
	Long: `product-console serves a login screen and a protected product listing
backed by a remote product API (https://fakestoreapi.com by default).

Configuration is read from config.yaml, then .env, then CONSOLE_* environment
variables, e.g. CONSOLE_API_BASE_URL, CONSOLE_SESSION_SECRET.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default configuration to --config",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists", configPath)
		}
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML configuration file")
	rootCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides server.host and server.port)")
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	sessions, err := store.New(cfg.DataDir)
	if err != nil {
		log.WithError(err).Error("failed to initialize session store")
		return err
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout)
	authService := auth.New(&cfg.Session, client, sessions, log)
	registry := products.NewRegistry(log)
	h := handlers.New(authService, client, registry, log)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(h, log)

	addr := cfg.Addr()
	if listenAddr != "" {
		addr = listenAddr
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("api", client.BaseURL()).Infof("Starting product console on http://%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if idle := cfg.Session.WorkspaceIdle; idle > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(idle / 2)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					registry.Prune(idle)
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("Shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped with error")
		return err
	}
	return nil
}
