package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
)

var helpText = bot.EscapeMarkdown("Commands:\n" +
	"• /start: featured courses.\n" +
	"• /signup <id> <password>: create an account.\n" +
	"• /verify <code>: confirm the one-time code.\n" +
	"• /signin <id> <password> and /signout.\n" +
	"• /courses, /course <id>: browse courses.\n" +
	"• /lesson <course> [lesson]: open a lesson.\n" +
	"• /quiz <course> [quiz]: take a quiz.\n" +
	"• /vocab [course]: flash cards.\n" +
	"• /dashboard: your progress.\n" +
	"• /profile <name>; <language>; <minutes>: edit your profile.\n" +
	"• /export [course]: download vocabulary as CSV.")

func DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}
	if update.Message.Chat.ID == 0 {
		logger.Error("chat ID is zero in DefaultHandler")
		return
	}
	sendPage(ctx, b, update.Message.Chat.ID, helpText, nil)
}
