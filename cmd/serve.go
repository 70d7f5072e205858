package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"robot-maze-server/api"
	"robot-maze-server/config"
	"robot-maze-server/instance"
	"robot-maze-server/metrics"
	"robot-maze-server/rpc"
	"robot-maze-server/server"
	"robot-maze-server/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the simulation server",
		Long: `Serve starts the REST API and WebSocket endpoint on HTTP_ADDR and the
gRPC Pathfinder service on GRPC_ADDR. Settings come from the environment and
an optional .env file; flags override them.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("http-addr", "", "HTTP listen address (default $HTTP_ADDR)")
	cmd.Flags().String("grpc-addr", "", "gRPC listen address, \"off\" to disable (default $GRPC_ADDR)")
	cmd.Flags().String("store", "", "layout store: file, memory, redis or mongo (default $STORE_BACKEND)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("http-addr"); v != "" {
		cfg.HTTPAddr = v
	}
	if v, _ := cmd.Flags().GetString("grpc-addr"); v != "" {
		cfg.GRPCAddr = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.StoreBackend = v
	}
	if cfg.GRPCAddr == "off" {
		cfg.GRPCAddr = ""
	}
	logger := newLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer st.Close()
	logger.Info("layout store ready", "backend", cfg.StoreBackend)

	m := metrics.New()
	manager := instance.NewManager(
		instance.WithTickInterval(cfg.TickInterval),
		instance.WithMaxSessions(cfg.MaxSessions),
		instance.WithManagerLogger(logger),
		instance.WithMetrics(m),
	)
	ws := server.NewInstanceServer(manager, st, server.WithLogger(logger), server.WithMetrics(m))

	router := api.NewRouter(cfg, api.Deps{
		Manager:   manager,
		Store:     st,
		Metrics:   m,
		Logger:    logger,
		WebSocket: ws,
		Conns:     ws.Count,
	})
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}

	var grpcLis net.Listener
	if cfg.GRPCAddr != "" {
		if grpcLis, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
	}

	go manager.Run(ctx)

	serverErrors := make(chan error, 2)
	var grpcStop func()
	if grpcLis != nil {
		grpcSrv := rpc.NewGRPCServer(rpc.NewServer(logger, m))
		grpcStop = grpcSrv.GracefulStop
		go func() {
			logger.Info("grpc server listening", "addr", grpcLis.Addr().String())
			if err := grpcSrv.Serve(grpcLis); err != nil {
				serverErrors <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case runErr = <-serverErrors:
		logger.Error("server failed", "err", runErr)
	case <-ctx.Done():
		logger.Info("shutdown requested")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	ws.Close()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "err", err)
		_ = httpSrv.Close()
	}
	if grpcStop != nil {
		grpcStop()
	}
	logger.Info("server stopped")
	return runErr
}
