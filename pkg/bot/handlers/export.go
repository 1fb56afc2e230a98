package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/bot/importexport"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
)

// HandleExport sends the vocabulary of "/export [course]" as a CSV document.
func HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleExport")
		return
	}
	chatID := update.Message.Chat.ID
	if update.Message.Chat.Type != models.ChatTypePrivate {
		sendText(ctx, b, chatID, "The /export command works only in private chat.")
		return
	}

	course, ok := resolveCourse(commandArgs(update.Message.Text))
	if !ok {
		sendText(ctx, b, chatID, "Course not found. See /courses.")
		return
	}
	if len(course.Vocab) == 0 {
		sendText(ctx, b, chatID, "This course has no vocabulary to export.")
		return
	}

	data, err := importexport.BuildExportCSV(course.Vocab)
	if err != nil {
		logger.Error("failed to build export CSV", "chat_id", chatID, "course_id", course.ID, "error", err)
		sendText(ctx, b, chatID, "Failed to export the vocabulary. Please try again later.")
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: importexport.ExportFilename(course.ID, time.Now()),
			Data:     bytes.NewReader(data),
		},
		Caption: fmt.Sprintf("%s vocabulary (%d words).", course.Title, len(course.Vocab)),
	})
	if err != nil {
		logger.Error("failed to send export document", "chat_id", chatID, "error", err)
		sendText(ctx, b, chatID, "Failed to export the vocabulary. Please try again later.")
	}
}
