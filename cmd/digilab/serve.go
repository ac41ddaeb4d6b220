package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/ohowland/digilab/internal/pkg/config"
	"github.com/ohowland/digilab/internal/pkg/datastreams/natshandler"
	"github.com/ohowland/digilab/internal/pkg/gradebook/mongodb"
	"github.com/ohowland/digilab/internal/pkg/gradebook/sqldb"
	"github.com/ohowland/digilab/internal/pkg/logging"
	"github.com/ohowland/digilab/internal/pkg/msg"
	"github.com/ohowland/digilab/internal/pkg/webservice"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type processor interface {
	Process() error
}

func serveCmd() *cobra.Command {
	var path string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the grading web service and the configured report sinks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if path != "" {
				var err error
				if cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			logger, err := logging.New(cfg.Log.Environment)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}

	c.Flags().StringVarP(&path, "config", "c", "", "JSON configuration file")
	return c
}

func buildSinks(cfg config.Config, system msg.Publisher, logger *zap.Logger) (map[string]processor, error) {
	sinks := make(map[string]processor)
	if cfg.Gradebook.Enabled() {
		h, err := sqldb.New(cfg.Gradebook, system, logger)
		if err != nil {
			return nil, err
		}
		sinks["gradebook"] = h
	}
	if cfg.Mongo.Enabled() {
		h, err := mongodb.New(cfg.Mongo, system, logger)
		if err != nil {
			return nil, err
		}
		sinks["mongo"] = h
	}
	if cfg.NATS.Enabled() {
		h, err := natshandler.New(cfg.NATS, system, logger)
		if err != nil {
			return nil, err
		}
		sinks["nats"] = h
	}
	return sinks, nil
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	logger = logger.Named("[Main]")

	pid, err := uuid.NewUUID()
	if err != nil {
		return err
	}
	system := msg.NewPublisher(pid)
	logger.Info("publisher ready", zap.Stringer("pid", system.PID()))

	sinks, err := buildSinks(cfg, system, logger)
	if err != nil {
		system.Close()
		return err
	}

	wg := &sync.WaitGroup{}
	for name, s := range sinks {
		wg.Add(1)
		go func(name string, s processor) {
			defer wg.Done()
			if err := s.Process(); err != nil {
				logger.Error("sink stopped", zap.String("sink", name), zap.Error(err))
			}
		}(name, s)
	}

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: webservice.New(system, nil, logger).Router(),
	}
	errs := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errs:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("server shutdown", zap.Error(serr))
	}

	// closing the publisher closes every sink inbox
	system.Close()
	wg.Wait()
	return err
}
