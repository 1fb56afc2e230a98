package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
	"github.com/smith3v/tg-lingo-courses/pkg/quizflow"
	"github.com/smith3v/tg-lingo-courses/pkg/ui"
)

// HandleQuiz starts "/quiz <course> [quiz]"; the first quiz of the course is
// the default.
func HandleQuiz(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleQuiz")
		return
	}
	chatID := update.Message.Chat.ID
	args := strings.Fields(commandArgs(update.Message.Text))
	if len(args) == 0 {
		sendText(ctx, b, chatID, "Usage: /quiz <course id> [quiz id]")
		return
	}
	quizID := ""
	if len(args) > 1 {
		quizID = args[1]
	}
	startQuiz(ctx, b, chatID, args[0], quizID)
}

func startQuiz(ctx context.Context, b *bot.Bot, chatID int64, courseID, quizID string) {
	course, ok := catalog.GetCourseByID(courseID)
	if !ok {
		sendText(ctx, b, chatID, "Course not found. See /courses.")
		return
	}
	var quiz catalog.Quiz
	if quizID == "" {
		quiz, ok = course.FirstQuiz()
	} else {
		quiz, ok = course.Quiz(quizID)
	}
	if !ok {
		sendText(ctx, b, chatID, "Quiz not found. See /course "+course.ID)
		return
	}

	manager := quizManager()
	step, err := manager.Start(chatID, course.ID, quiz)
	if err != nil {
		logger.Error("failed to start quiz", "chat_id", chatID, "quiz_id", quiz.ID, "error", err)
		sendText(ctx, b, chatID, "Failed to start the quiz. Please try again later.")
		return
	}
	text, keyboard, err := ui.RenderQuizQuestion(step)
	if err != nil {
		logger.Error("failed to render quiz question", "chat_id", chatID, "quiz_id", quiz.ID, "error", err)
		sendText(ctx, b, chatID, "Failed to start the quiz. Please try again later.")
		return
	}
	msg, err := sendPage(ctx, b, chatID, text, keyboard)
	if err != nil || msg == nil {
		return
	}
	if err := manager.RememberMessage(chatID, msg.ID); err != nil {
		logger.Warn("failed to remember quiz message", "chat_id", chatID, "error", err)
	}
}

// answerQuiz applies one option and returns the toast text for the callback.
func answerQuiz(ctx context.Context, b *bot.Bot, chatID int64, messageID int, action ui.Action) string {
	step, err := quizManager().Answer(chatID, action.Token, action.Value)
	switch {
	case errors.Is(err, quizflow.ErrNoActiveQuiz):
		return "This quiz has expired. Start it again."
	case errors.Is(err, quizflow.ErrStaleAnswer):
		return "This question was already answered"
	case errors.Is(err, quizflow.ErrInvalidOption):
		return "Unknown option"
	case err != nil:
		logger.Error("failed to record quiz answer", "chat_id", chatID, "error", err)
		return "Failed to record the answer"
	}

	if !step.Finished {
		text, keyboard, err := ui.RenderQuizQuestion(step)
		if err != nil {
			logger.Error("failed to render quiz question", "chat_id", chatID, "error", err)
			return "Failed to show the next question"
		}
		if editPage(ctx, b, chatID, messageID, text, keyboard) != nil {
			sendPage(ctx, b, chatID, text, keyboard)
		}
		return ""
	}

	svc := accountFor(chatID)
	user, err := svc.CurrentUser()
	if err != nil {
		logger.Error("failed to load current user", "chat_id", chatID, "error", err)
	}
	saved := user != nil
	if err := svc.SaveQuizResult(step.CourseID, step.Quiz.ID, step.Score); err != nil {
		logger.Error("failed to save quiz result", "chat_id", chatID, "quiz_id", step.Quiz.ID, "error", err)
		saved = false
	}
	text := ui.RenderQuizResult(step, saved)
	if editPage(ctx, b, chatID, messageID, text, nil) != nil {
		sendPage(ctx, b, chatID, text, nil)
	}
	return "Quiz submitted"
}
