package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/account"
	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
	"github.com/smith3v/tg-lingo-courses/pkg/ui"
)

// CallbackPrefixes are the callback data prefixes HandleCallback serves.
var CallbackPrefixes = []string{
	string(ui.AreaCourse) + ":",
	string(ui.AreaQuiz) + ":",
	string(ui.AreaVocab) + ":",
}

func HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleCallback")
		return
	}

	callbackID := update.CallbackQuery.ID
	answered := false
	answerCallback := func(text string) {
		if answered || callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			logger.Error("failed to answer callback query", "error", err)
		}
		answered = true
	}
	defer answerCallback("")

	action, err := ui.ParseCallbackData(update.CallbackQuery.Data)
	if err != nil {
		logger.Error("failed to parse callback", "data", update.CallbackQuery.Data, "error", err)
		answerCallback("Unknown command")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil || message.Message.Chat.ID == 0 {
		logger.Error("callback query message is inaccessible", "user_id", update.CallbackQuery.From.ID)
		answerCallback("Message is not available")
		return
	}
	chatID := message.Message.Chat.ID
	messageID := message.Message.ID

	switch action.Area {
	case ui.AreaQuiz:
		answerCallback(answerQuiz(ctx, b, chatID, messageID, action))
	case ui.AreaVocab:
		answerCallback(flipVocabCard(ctx, b, chatID, messageID, action))
	case ui.AreaCourse:
		answerCallback(handleCourseAction(ctx, b, chatID, action))
	default:
		answerCallback("Unknown command")
	}
}

func handleCourseAction(ctx context.Context, b *bot.Bot, chatID int64, action ui.Action) string {
	course, ok := catalog.GetCourseByID(action.CourseID)
	if !ok {
		return "Course not found"
	}

	switch action.Op {
	case ui.OpEnroll:
		if err := accountFor(chatID).EnrollCourse(course.ID); err != nil {
			return callbackError(chatID, "enroll", err)
		}
		sendCoursePage(ctx, b, chatID, course)
		return "Enrolled in " + course.Title
	case ui.OpOpenLesson:
		sendLessonPage(ctx, b, chatID, course.ID, action.ItemID)
		return ""
	case ui.OpCompleteLesson:
		if _, ok := course.Lesson(action.ItemID); !ok {
			return "Lesson not found"
		}
		if err := accountFor(chatID).MarkLessonComplete(course.ID, action.ItemID); err != nil {
			return callbackError(chatID, "mark lesson complete", err)
		}
		return "Lesson marked complete"
	case ui.OpStartQuiz:
		startQuiz(ctx, b, chatID, course.ID, action.ItemID)
		return ""
	default:
		return "Unknown command"
	}
}

func callbackError(chatID int64, op string, err error) string {
	if errors.Is(err, account.ErrSignInRequired) {
		return "Sign in first"
	}
	text, known := userMessage(err)
	if !known {
		logger.Error("failed to "+op, "chat_id", chatID, "error", err)
	}
	return text
}
