package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
	"github.com/smith3v/tg-lingo-courses/pkg/ui"
)

// resolveCourse picks the named course, or the first catalog course when no
// id is given.
func resolveCourse(courseID string) (catalog.Course, bool) {
	if courseID == "" {
		return catalog.Default.First()
	}
	return catalog.GetCourseByID(courseID)
}

func HandleVocab(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleVocab")
		return
	}
	chatID := update.Message.Chat.ID
	course, ok := resolveCourse(commandArgs(update.Message.Text))
	if !ok {
		sendText(ctx, b, chatID, "Course not found. See /courses.")
		return
	}
	text, keyboard, err := ui.RenderVocabCard(course, 0, false)
	if err != nil {
		logger.Error("failed to render vocab card", "chat_id", chatID, "course_id", course.ID, "error", err)
		sendText(ctx, b, chatID, "Failed to show vocabulary. Please try again later.")
		return
	}
	sendPage(ctx, b, chatID, text, keyboard)
}

func flipVocabCard(ctx context.Context, b *bot.Bot, chatID int64, messageID int, action ui.Action) string {
	course, ok := catalog.GetCourseByID(action.CourseID)
	if !ok {
		return "Course not found"
	}
	text, keyboard, err := ui.RenderVocabCard(course, action.Value, action.Op == ui.OpShowMeaning)
	if err != nil {
		logger.Error("failed to render vocab card", "chat_id", chatID, "course_id", course.ID, "error", err)
		return "Failed to show the card"
	}
	_ = editPage(ctx, b, chatID, messageID, text, keyboard)
	return ""
}
