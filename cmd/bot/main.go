// Package main contains the entrypoint for the degenbot backend.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/degenstudios/degenbot/internal/bot"
	"github.com/degenstudios/degenbot/internal/bot/handlers"
	"github.com/degenstudios/degenbot/internal/bot/tasks"
	"github.com/degenstudios/degenbot/internal/config"
	"github.com/degenstudios/degenbot/internal/imaging"
	"github.com/degenstudios/degenbot/internal/logger"
	"github.com/degenstudios/degenbot/internal/pending"
	"github.com/degenstudios/degenbot/internal/queue"
	"github.com/degenstudios/degenbot/internal/ratelimit"
	"github.com/degenstudios/degenbot/internal/telegram"
	"github.com/degenstudios/degenbot/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config,
// logger, transport, queue processor, sweeper, HTTP stub), handles
// graceful shutdown, and returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.toml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	g, gCtx := errgroup.WithContext(ctx)

	// The redirect page is served whether or not the bot is enabled.
	webServer := web.NewServer(log, &cfg.Server)
	g.Go(func() error {
		return webServer.Run(gCtx)
	})

	if cfg.Telegram.Enabled {
		if err := startBot(gCtx, g, log, cfg); err != nil {
			log.Error("Failed to start Telegram bot", "error", err)
			return 1
		}
	} else {
		log.Info("Telegram bot is disabled in config.")
	}

	runErr := g.Wait()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Stopped gracefully.")
	return 0
}

// startBot wires the Telegram side: transport, handlers, queue
// processor, and the expiry sweeper.
func startBot(ctx context.Context, g *errgroup.Group, log *slog.Logger, cfg *config.Config) error {
	table := pending.NewTable(cfg.Overlay.Expiry)
	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	photoQueue := queue.New()
	assets := imaging.NewAssets(cfg.Overlay.AssetsDir)

	// The transport client is bound into deps right after the bot
	// instance exists; handlers only run once the listener starts.
	hDeps := &handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Pending: table,
		Limiter: limiter,
		Queue:   photoQueue,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewPhotoHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		return err
	}
	hDeps.TG = telegram.NewClient(tg, cfg.Telegram.Token)

	me, err := tg.GetMe(ctx)
	if err != nil {
		return err
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		return err
	}

	tDeps := tasks.TaskDeps{
		Logger:  log,
		Config:  cfg,
		TG:      hDeps.TG,
		Pending: table,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		return err
	}

	processor := bot.NewProcessor(log, cfg, hDeps.TG, photoQueue, table, assets)
	app := bot.NewBot(log, cfg, tg, hDeps.TG, processor, sched)

	g.Go(func() error {
		log.Info("Starting bot...")
		return app.Run(ctx)
	})

	return nil
}
