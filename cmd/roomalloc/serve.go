package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/navikt/roomalloc/internal/allocation"
	"github.com/navikt/roomalloc/internal/api"
	"github.com/navikt/roomalloc/internal/building"
	"github.com/navikt/roomalloc/internal/config"
	"github.com/navikt/roomalloc/internal/repository"
	"github.com/navikt/roomalloc/internal/service"
	"github.com/navikt/roomalloc/internal/web"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(config.GetServerConfig(), config.GetRedisConfig())
	},
}

func serve(serverConfig config.ServerConfig, redisConfig config.RedisConfig) error {
	// Initialize the history repository using the factory
	repo, err := repository.NewRepository(redisConfig, serverConfig.HistoryLimit)
	if err != nil {
		return err
	}

	// Redis repositories hold a connection that must be closed on exit
	if closer, ok := repo.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logrus.WithError(err).Error("Error closing Redis connection")
			}
		}()
	}

	opts := allocation.Options{MaxRoomsPerBooking: serverConfig.MaxRoomsPerBooking}
	if serverConfig.RandomSeed != 0 {
		opts.Rand = rand.New(rand.NewSource(serverConfig.RandomSeed))
	}
	session := allocation.NewSession(building.Standard(), opts)
	bookingService := service.NewBookingService(session, repo)

	// History from a previous run does not describe the fresh building
	bookingService.Reset(context.Background())

	sseManager := web.NewSSEManager()
	bookingService.RegisterUpdateCallback(sseManager.NotifyUpdate)

	mux := api.SetupRoutes(bookingService)
	mux.Handle("/events", sseManager)

	server := &http.Server{
		Addr:         ":" + serverConfig.Port,
		Handler:      web.WrapMuxWithMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable write timeout for SSE connections
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":      serverConfig.Port,
			"rooms":     session.Building().Total(),
			"max_rooms": session.MaxRoomsPerBooking(),
		}).Info("Starting roomalloc server")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-shutdown:
		logrus.Info("Shutting down server...")

		// Close SSE connections first so Shutdown does not wait on them
		sseManager.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return err
		}

		logrus.Info("Server gracefully stopped")
		return nil
	}
}
