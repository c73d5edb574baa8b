// widgetkit-demo exercises the built-in widgets against a terminal
// surface: a simulated flaky operation drives the retry tracker through
// its full state machine, and the registry can be listed for discovery.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/c360/widgetkit/config"
	"github.com/c360/widgetkit/metric"
	"github.com/c360/widgetkit/pkg/backoff"
	"github.com/c360/widgetkit/termsurface"
	"github.com/c360/widgetkit/tracker/retry"
	"github.com/c360/widgetkit/widget"
	"github.com/c360/widgetkit/widgetregistry"
)

var (
	logLevel    string
	metricsPort int

	strategyName string
	maxAttempts  int
	initialDelay time.Duration
	failUntil    int

	configPaths []string
)

var rootCommand = &cobra.Command{
	Use:   "widgetkit-demo",
	Short: "Drive widgetkit widgets on a terminal surface",
}

var retryCommand = &cobra.Command{
	Use:   "retry",
	Short: "Run a simulated flaky operation through the retry tracker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRetryDemo(cmd.Context())
	},
}

var mountCommand = &cobra.Command{
	Use:   "mount",
	Short: "Mount the widgets declared in a config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMount(cmd.Context())
	},
}

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "List the built-in widgets",
	RunE: func(*cobra.Command, []string) error {
		registry := widget.NewRegistry()
		if err := widgetregistry.Register(registry); err != nil {
			return err
		}

		available := registry.ListAvailable()
		names := make([]string, 0, len(available))
		for name := range available {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			info := available[name]
			fmt.Printf("%-20s %-10s %s\n", name, info.Category, info.Description)
		}
		return nil
	},
}

func init() {
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Logging level (debug, info, warn, error)")
	rootCommand.PersistentFlags().IntVar(&metricsPort, "metrics-port", 0,
		"Serve Prometheus metrics on this port (0 = disabled)")

	retryCommand.Flags().StringVar(&strategyName, "strategy", "exponential",
		"Backoff strategy: exponential, linear, fixed, fibonacci")
	retryCommand.Flags().IntVar(&maxAttempts, "max-attempts", 4,
		"Attempt budget")
	retryCommand.Flags().DurationVar(&initialDelay, "initial-delay", time.Second,
		"Initial backoff delay")
	retryCommand.Flags().IntVar(&failUntil, "fail-until", 3,
		"Attempt number that finally succeeds")

	mountCommand.Flags().StringArrayVar(&configPaths, "config", nil,
		"Widget config file; repeat to layer overrides")

	rootCommand.AddCommand(retryCommand, mountCommand, listCommand)
}

func setupLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: l}))
}

func runRetryDemo(ctx context.Context) error {
	logger := setupLogger(logLevel)

	strategy, ok := backoff.ParseStrategy(strategyName)
	if !ok {
		return fmt.Errorf("unknown strategy %q", strategyName)
	}

	metrics := metric.NewMetricsRegistry()
	deps := widget.Dependencies{
		Logger:  logger,
		Metrics: metrics,
	}

	cfg := retry.DefaultConfig()
	cfg.Strategy = strategy
	cfg.MaxAttempts = maxAttempts
	cfg.InitialDelay = initialDelay

	tracker := retry.New(cfg, deps)
	tracker.SetTheme(widget.Theme{"primaryColor": "#7D56F4"})

	surface := termsurface.New(os.Stdout, "Retry Tracker")
	tracker.Mount(surface)
	defer tracker.Unmount()

	attempts := make(chan int, 1)
	unsubscribe := tracker.On(retry.EventAttempt, func(e widget.Event) {
		if n, ok := e.Detail["attempt"].(int); ok {
			attempts <- n
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	terminal := func(widget.Event) {
		select {
		case <-done:
		default:
			close(done)
		}
	}
	tracker.On(retry.EventSuccess, terminal)
	tracker.On(retry.EventFailure, terminal)
	tracker.On(retry.EventCancel, terminal)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if metricsPort > 0 {
		srv := metric.NewServer(metricsPort, "/metrics", metrics)
		logger.Info("serving metrics", "address", srv.Address())
		g.Go(srv.Start)
		g.Go(func() error {
			<-ctx.Done()
			return srv.Stop()
		})
	}

	g.Go(func() error {
		// stopping the demo also stops the metrics server
		defer cancel()

		tracker.Attempt("Connecting...")
		for {
			select {
			case <-ctx.Done():
				tracker.Cancel("shutting down")
				return ctx.Err()
			case <-done:
				return nil
			case n := <-attempts:
				// simulate the operation
				time.Sleep(300 * time.Millisecond)
				if n < failUntil {
					logger.Warn("attempt failed", "attempt", n)
					tracker.WaitForRetry(retry.WaitUpdate{
						Err: fmt.Errorf("connection refused (attempt %d)", n),
					})
				} else {
					logger.Info("attempt succeeded", "attempt", n)
					tracker.Success("Connected")
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runMount(ctx context.Context) error {
	logger := setupLogger(logLevel)

	if len(configPaths) == 0 {
		return errors.New("at least one --config file is required")
	}

	loader := config.NewLoader()
	for _, path := range configPaths {
		loader.AddLayer(path)
	}
	loader.EnableValidation(true)

	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	registry := widget.NewRegistry()
	if err := widgetregistry.Register(registry); err != nil {
		return err
	}

	deps := widget.Dependencies{
		Logger:  logger,
		Metrics: metric.NewMetricsRegistry(),
	}

	widgets, err := cfg.Instantiate(registry, deps)
	if err != nil {
		return err
	}
	if len(widgets) == 0 {
		return errors.New("no enabled widgets in config")
	}

	manager := widget.NewManager(logger)
	names := make([]string, 0, len(widgets))
	for name := range widgets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mountable, ok := widgets[name].(widget.Mountable)
		if !ok {
			logger.Warn("widget is not mountable", "name", name)
			continue
		}
		surface := termsurface.New(os.Stdout, name)
		if err := manager.Mount(name, mountable, surface); err != nil {
			manager.UnmountAll()
			return err
		}
		logger.Info("mounted", "name", name, "type", cfg.Widgets[name].Type)
	}

	<-ctx.Done()
	manager.UnmountAll()
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
