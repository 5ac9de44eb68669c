package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"search-sync/core/loader"
	"search-sync/core/logger"
	"search-sync/core/middleware/auth"
	"search-sync/core/middleware/rayid"
	"search-sync/feature/wiki"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the synchronization server",
	Long:  `Starts the HTTP server accepting index synchronization jobs.`,
	RunE:  runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rt, err := newRuntime(ctx, reg)
	if err != nil {
		return err
	}
	defer rt.close()
	logg := rt.log
	zap.ReplaceGlobals(logg)

	scheduler := rt.scheduler()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We log our own startup message
	})

	mgr := loader.NewManager()
	mgr.Register(wiki.NewFeature(wiki.NewService(scheduler, rt.dependencies(rt.indexer), logg)))

	// RayID first, so every later log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Metrics are public
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
		errCh <- app.Listen(rt.cfg.Server.ListenAddr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	if err := scheduler.Shutdown(shutdownCtx); err != nil {
		logg.Warn("Jobs still running at shutdown", zap.Error(err))
	}
	return nil
}
