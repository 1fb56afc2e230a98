package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	lingobot "github.com/smith3v/tg-lingo-courses/pkg/bot"
	"github.com/smith3v/tg-lingo-courses/pkg/bot/handlers"
	"github.com/smith3v/tg-lingo-courses/pkg/bot/verification"
	"github.com/smith3v/tg-lingo-courses/pkg/config"
	"github.com/smith3v/tg-lingo-courses/pkg/db"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
)

var commands = []struct {
	name    string
	handler bot.HandlerFunc
}{
	{"start", handlers.HandleStart},
	{"help", handlers.DefaultHandler},
	{"signup", handlers.HandleSignUp},
	{"verify", handlers.HandleVerify},
	{"signin", handlers.HandleSignIn},
	{"signout", handlers.HandleSignOut},
	{"courses", handlers.HandleCourses},
	{"course", handlers.HandleCourse},
	{"lesson", handlers.HandleLesson},
	{"quiz", handlers.HandleQuiz},
	{"vocab", handlers.HandleVocab},
	{"dashboard", handlers.HandleDashboard},
	{"profile", handlers.HandleProfile},
	{"export", handlers.HandleExport},
}

func main() {
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	if err := config.LoadConfig(configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	if err := db.InitDB(config.AppConfig.Database); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	limiter := lingobot.NewChatLimiter(config.AppConfig.Telegram.RateLimit, config.AppConfig.Telegram.RateBurst)
	opts := []bot.Option{
		bot.WithDefaultHandler(handlers.DefaultHandler),
		bot.WithMiddlewares(lingobot.Recover, lingobot.RateLimit(limiter)),
	}
	b, err := bot.New(config.AppConfig.Telegram.Token, opts...)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	for _, cmd := range commands {
		b.RegisterHandlerRegexp(bot.HandlerTypeMessageText, handlers.CommandPattern(cmd.name), cmd.handler)
	}
	for _, prefix := range handlers.CallbackPrefixes {
		b.RegisterHandler(bot.HandlerTypeCallbackQueryData, prefix, bot.MatchTypePrefix, handlers.HandleCallback)
	}

	go db.StartStateCleanup(ctx, db.StateCleanupInterval)
	go verification.DefaultManager.StartSweeper(ctx)

	logger.Info("Starting bot...")
	b.Start(ctx)
}
