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

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"vehiclegw/config"
	"vehiclegw/engine"
	"vehiclegw/logging"
	"vehiclegw/messaging"
	"vehiclegw/telemetry"
	"vehiclegw/vehicle/gm"
	"vehiclegw/www"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "vehiclegw",
		Short:         "HTTP gateway over the GM vehicle API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				fmt.Fprintf(os.Stderr, "vehiclegw: load config: %v\n", err)
				return err
			}
			if err := run(cmd.Context(), cfg); err != nil {
				logging.Std().Error(err, "vehiclegw exited")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "vehiclegw.yaml", "Path to config file.")
	config.Defaults().AddFlags(cmd.Flags())
	cmd.AddCommand(newDefaultsCommand())
	return cmd
}

func newDefaultsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults [path]",
		Short: "Write the default configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "vehiclegw.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Defaults().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.Init(logging.Options{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.EnableColor,
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync()
	log := logging.Std()

	if _, err := maxprocs.Set(maxprocs.Logger(logging.Printf)); err != nil {
		log.Warn("set GOMAXPROCS", "error", err)
	}

	// Tracing
	shutdownTracing, err := telemetry.InitTraceProvider(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, Version)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", "error", err)
		}
	}()

	// Messaging client. Left as a nil Publisher when disabled.
	var publisher engine.Publisher
	if cfg.Messaging.Backend != config.BackendNone && cfg.Messaging.Backend != "" {
		msgClient := messaging.NewClient(cfg.Messaging, log.WithName("messaging").Logr())
		if err := msgClient.Connect(); err != nil {
			log.Warn("messaging connect failed, events will be dropped until reconnect",
				"backend", cfg.Messaging.Backend, "error", err)
		} else {
			log.Info("messaging connected", "backend", cfg.Messaging.Backend)
		}
		defer msgClient.Close()
		publisher = msgClient
	}

	backend := gm.New(gm.Config{
		BaseURL:      cfg.Upstream.BaseURL,
		Timeout:      cfg.Upstream.Timeout,
		ResponseType: cfg.Upstream.ResponseType,
		Logger:       log.WithName("gmapi").Logr(),
	})

	eng := engine.New(engine.Config{
		AppConfig: cfg,
		Backend:   backend,
		MsgClient: publisher,
		Logger:    log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           www.NewRouter(eng, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return eng.Run(gctx)
	})
	g.Go(func() error {
		log.Info("web server listening", "addr", srv.Addr, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
