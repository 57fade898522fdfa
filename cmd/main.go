package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go-recruit-sse/internal/application/chat"
	"go-recruit-sse/internal/application/recruiting"
	"go-recruit-sse/internal/infrastructure/config"
	"go-recruit-sse/internal/infrastructure/hub"
	"go-recruit-sse/internal/infrastructure/logger"
	"go-recruit-sse/internal/infrastructure/server"
	"go-recruit-sse/internal/infrastructure/store"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "recruit-sse",
		Short:        "Recruiting demo backend with server-sent event fan-out",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("addr") {
				cfg.HTTP.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.Store.Path = dbPath
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path, overrides STORE_PATH")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	sctx := WithSignal(ctx)
	log := logger.NewLogrusLogger(logger.FromAppConfig(cfg))

	st, err := store.Open(sctx, cfg.Store.Path)
	if err != nil {
		log.Errorf("failed to open store: %v", err)
		return err
	}
	defer st.Close()

	if n, err := st.MarkInterrupted(sctx); err != nil {
		log.Warnf("failed to mark interrupted conversations: %v", err)
	} else if n > 0 {
		log.Infof("marked %d conversations from a previous run as cancelled", n)
	}

	hubInstance := hub.New(
		log,
		hub.WithSweepInterval(cfg.Hub.SweepInterval),
		hub.WithTimeout(cfg.Hub.Timeout),
	)

	// Start the hub first
	if err := hubInstance.Start(ctx); err != nil {
		log.Errorf("failed to start hub: %v", err)
		return err
	}

	chatCfg := chat.DefaultConfig()
	chatCfg.TurnDelay = cfg.Chat.TurnDelay
	chatCfg.SatisfactionThreshold = cfg.Chat.SatisfactionThreshold
	chatCfg.MaxTurns = cfg.Chat.MaxTurns

	simulator := chat.NewSimulator(chatCfg, nil, st, hubInstance, log)
	service := recruiting.NewService(st, hubInstance, simulator, log)

	router := InitRouter(cfg, hubInstance, service, log)
	httpSrv := server.NewHTTPServer(*cfg.HTTP, router)

	log.Infof("%s listening on %s (%s)", cfg.Service.Name, cfg.HTTP.Addr, cfg.Service.Env)

	app := newApplication(log, cfg, httpSrv, hubInstance, service)
	if err := app.Run(sctx); err != nil {
		log.Errorf("failed to run application: %v", err)
		return err
	}
	return nil
}

type Application struct {
	logger  logger.Logger
	cfg     *config.Config
	httpSrv server.Server
	hub     *hub.Hub
	service *recruiting.Service
}

func newApplication(
	logger logger.Logger,
	cfg *config.Config,
	httpSrv *server.HTTPServer,
	hubInstance *hub.Hub,
	service *recruiting.Service,
) *Application {
	return &Application{
		logger:  logger.WithField("app", "recruit-sse"),
		cfg:     cfg,
		httpSrv: httpSrv,
		hub:     hubInstance,
		service: service,
	}
}

func (app *Application) Run(ctx context.Context) error {
	eg := errgroup.Group{}

	eg.Go(func() error {
		return app.httpSrv.Start(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()

		gracefulshutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			app.cfg.HTTP.ShutdownWait,
		)
		defer cancel()

		// Running conversations record their final state before the hub
		// closes the streams that would carry it.
		if err := app.service.Shutdown(gracefulshutdownCtx); err != nil {
			app.logger.Errorf("failed to stop conversations: %v", err)
		}

		if err := app.hub.Stop(gracefulshutdownCtx); err != nil {
			app.logger.Errorf("failed to stop hub: %v", err)
		}

		if err := app.httpSrv.Stop(gracefulshutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return eg.Wait()
}

func WithSignal(pctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(pctx)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

		<-sigc

		cancel()
	}()

	return ctx
}
