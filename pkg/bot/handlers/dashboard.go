package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/account"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
	"github.com/smith3v/tg-lingo-courses/pkg/store"
	"github.com/smith3v/tg-lingo-courses/pkg/ui"
)

func HandleDashboard(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleDashboard")
		return
	}
	chatID := update.Message.Chat.ID

	dash, err := accountFor(chatID).Dashboard()
	if errors.Is(err, account.ErrSignInRequired) {
		sendPage(ctx, b, chatID, ui.RenderSignedOutDashboard(), nil)
		return
	}
	if err != nil {
		replyError(ctx, b, chatID, "build dashboard", err)
		return
	}
	text, keyboard, err := ui.RenderDashboard(dash)
	if err != nil {
		logger.Error("failed to render dashboard", "chat_id", chatID, "error", err)
		sendText(ctx, b, chatID, "Failed to render the dashboard. Please try again later.")
		return
	}
	sendPage(ctx, b, chatID, text, keyboard)
}

// parseProfileArgs reads "<name>; <language>; <minutes>". Minutes that are
// missing or not a positive number fall back to the default goal.
func parseProfileArgs(args string) (name, language string, daily int, ok bool) {
	parts := strings.Split(args, ";")
	if len(parts) != 3 {
		return "", "", 0, false
	}
	name = strings.TrimSpace(parts[0])
	language = strings.TrimSpace(parts[1])
	daily, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || daily <= 0 {
		daily = store.DefaultDailyMinutes
	}
	return name, language, daily, true
}

func HandleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleProfile")
		return
	}
	chatID := update.Message.Chat.ID
	name, language, daily, ok := parseProfileArgs(commandArgs(update.Message.Text))
	if !ok {
		sendText(ctx, b, chatID, "Usage: /profile <name>; <target language>; <daily minutes>")
		return
	}
	if err := accountFor(chatID).UpdateProfile(name, language, daily); err != nil {
		replyError(ctx, b, chatID, "update profile", err)
		return
	}
	sendText(ctx, b, chatID, "Profile updated!")
}
