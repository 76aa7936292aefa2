package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/friesse/fragNet/internal/config"
	"github.com/friesse/fragNet/internal/db"
	"github.com/friesse/fragNet/internal/gameserver"
	"github.com/friesse/fragNet/internal/gcserver"
	"github.com/friesse/fragNet/internal/matchmaking"
	"github.com/friesse/fragNet/internal/moderation"
	"github.com/friesse/fragNet/internal/session"
	"github.com/friesse/fragNet/internal/social"
	"github.com/friesse/fragNet/internal/transport"
)

const ConfigPath = "config/gcserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	slog.Info("fragNet game coordinator starting")

	cfgPath := ConfigPath
	if p := os.Getenv("GC_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.Info("config loaded", "bind", cfg.BindIP, "port", cfg.Port)

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	repo := db.NewPostgres(database.Pool())
	servers := gameserver.NewRegistry()

	tp := transport.NewTCP(cfg.Addr())
	sessions := session.NewRegistry(session.StaticValidator{}, repo, tp)
	srv := gcserver.New(tp, sessions, servers)
	tp.OnDisconnect(srv.OnPeerDisconnect)

	webhook := moderation.NewWebhook(cfg.WebhookURL, cfg.ModeratorRoleID)
	engine := matchmaking.NewEngine(cfg.Matchmaking, repo, servers, srv)
	socialSvc := social.NewService(repo, webhook, srv)
	srv.Bind(socialSvc, engine)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := tp.Run(gctx); err != nil {
			return fmt.Errorf("transport: %w", err)
		}
		return nil
	})
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return sessions.Run(gctx) })
	g.Go(func() error { return engine.Run(gctx) })
	g.Go(func() error { return webhook.Run(gctx) })

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
