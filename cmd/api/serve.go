package main

import (
	"time"

	"artisan-market/internal/config"
	"artisan-market/internal/interfaces/router"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog API",
		Example: `  # Start on PORT from the environment (default 8080)
  artisan-market serve

  # Start on a custom port
  artisan-market serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			configureLogging(cfg.LogLevel, cfg.IsProduction())
			if port != "" {
				cfg.Port = port
			}

			app, db, rdb, err := router.CreateApp(cfg)
			if err != nil {
				return err
			}
			if db != nil {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				if err := sqlDB.Ping(); err != nil {
					return err
				}
				log.Info().Msg("listing event journal connected")
			}
			if rdb != nil {
				if err := rdb.Ping(cmd.Context()).Err(); err != nil {
					return err
				}
				log.Info().Msg("Redis connected")
			}

			serverErr := make(chan error, 1)
			go func() {
				log.Info().Str("url", "http://localhost:"+cfg.Port).Str("health", "/health/json").Msg("server running")
				serverErr <- app.Listen(":" + cfg.Port)
			}()

			select {
			case <-cmd.Context().Done():
				log.Info().Msg("shutting down server")
				if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
					return err
				}
				if rdb != nil {
					_ = rdb.Close()
				}
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	return cmd
}
