package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"ambush/server"
	adapterwebsocket "ambush/server/adapter/websocket"
	"ambush/server/application"
	"ambush/server/config"
	"ambush/server/handler"
	"ambush/server/runner"
	"ambush/server/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("agent stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown failed", "err", err)
		}
	}()

	text := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(tel.LogHandler(text, cfg.LogLevel))
	slog.SetDefault(logger)

	var liveness handler.Liveness
	eg, ctx := errgroup.WithContext(ctx)

	if cfg.HealthAddr != "" {
		s := server.NewServer(cfg.HealthAddr, server.Route(&liveness))
		eg.Go(func() error {
			if err := s.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("health server: %w", err)
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return s.Shutdown(shutdownCtx)
		})
		slog.InfoContext(ctx, "health listening", "addr", cfg.HealthAddr)
	}

	serverURL := cfg.ServerURL()
	slog.InfoContext(ctx, "starting agents", "count", cfg.AgentCount, "server", serverURL)

	arena := application.NewArenaGeometry(cfg.ArenaWidth, cfg.ArenaHeight)
	for i := range cfg.AgentCount {
		eg.Go(func() error {
			runAgent(ctx, cfg, serverURL, arena, &liveness, i)
			return nil
		})
	}

	err = eg.Wait()
	slog.Info("all agents stopped")
	return err
}

// runAgent は ctx がキャンセルされるまで接続と再接続を繰り返します。
// 状態は接続ごとに作り直し、アリーナの形状だけを共有します。
func runAgent(ctx context.Context, cfg *config.Config, serverURL string, arena *application.ArenaGeometry, liveness *handler.Liveness, id int) {
	logger := slog.With("agentID", id)

	for ctx.Err() == nil {
		err := agentSession(ctx, cfg, serverURL, arena, liveness, logger)
		if ctx.Err() != nil {
			return
		}
		logger.Warn("agent session ended, reconnecting", "err", err, "delay", cfg.ReconnectDelay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.ReconnectDelay):
		}
	}
}

func agentSession(ctx context.Context, cfg *config.Config, serverURL string, arena *application.ArenaGeometry, liveness *handler.Liveness, logger *slog.Logger) error {
	transport, err := adapterwebsocket.Dial(ctx, serverURL)
	if err != nil {
		return err
	}
	release := liveness.Connect()
	defer release()
	logger.Info("connected")

	agent := application.NewAgentContext(arena)
	r := runner.New(transport, agent,
		runner.WithIdleTimeout(cfg.IdleTimeout),
		runner.WithLogger(logger),
	)
	return r.Run(ctx)
}
