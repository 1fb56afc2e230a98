package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
	"github.com/smith3v/tg-lingo-courses/pkg/ui"
)

func HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleStart")
		return
	}
	chatID := update.Message.Chat.ID

	user, err := accountFor(chatID).CurrentUser()
	if err != nil {
		replyError(ctx, b, chatID, "load current user", err)
		return
	}
	text, keyboard, err := ui.RenderIndex(catalog.Default.Courses(), user)
	if err != nil {
		logger.Error("failed to render index", "chat_id", chatID, "error", err)
		sendText(ctx, b, chatID, "Failed to render the course list. Please try again later.")
		return
	}
	sendPage(ctx, b, chatID, text, keyboard)
}
