package handlers

import (
	"context"
	"slices"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
	"github.com/smith3v/tg-lingo-courses/pkg/ui"
)

func HandleCourses(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleCourses")
		return
	}
	chatID := update.Message.Chat.ID
	text, keyboard, err := ui.RenderCourseList(catalog.Default.Courses())
	if err != nil {
		logger.Error("failed to render course list", "chat_id", chatID, "error", err)
		sendText(ctx, b, chatID, "Failed to render the course list. Please try again later.")
		return
	}
	sendPage(ctx, b, chatID, text, keyboard)
}

func HandleCourse(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleCourse")
		return
	}
	chatID := update.Message.Chat.ID
	courseID := commandArgs(update.Message.Text)
	if courseID == "" {
		sendText(ctx, b, chatID, "Usage: /course <course id>. See /courses.")
		return
	}
	course, ok := catalog.GetCourseByID(courseID)
	if !ok {
		sendText(ctx, b, chatID, "Course not found. See /courses.")
		return
	}
	sendCoursePage(ctx, b, chatID, course)
}

func sendCoursePage(ctx context.Context, b *bot.Bot, chatID int64, course catalog.Course) {
	user, err := accountFor(chatID).CurrentUser()
	if err != nil {
		replyError(ctx, b, chatID, "load current user", err)
		return
	}
	text, keyboard, err := ui.RenderCourse(course, user)
	if err != nil {
		logger.Error("failed to render course", "chat_id", chatID, "course_id", course.ID, "error", err)
		sendText(ctx, b, chatID, "Failed to render the course. Please try again later.")
		return
	}
	sendPage(ctx, b, chatID, text, keyboard)
}

// HandleLesson opens "/lesson <course> [lesson]". Without a lesson id the
// first lesson is shown.
func HandleLesson(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleLesson")
		return
	}
	chatID := update.Message.Chat.ID
	args := strings.Fields(commandArgs(update.Message.Text))
	if len(args) == 0 {
		sendText(ctx, b, chatID, "Usage: /lesson <course id> [lesson id]")
		return
	}
	lessonID := ""
	if len(args) > 1 {
		lessonID = args[1]
	}
	sendLessonPage(ctx, b, chatID, args[0], lessonID)
}

func sendLessonPage(ctx context.Context, b *bot.Bot, chatID int64, courseID, lessonID string) {
	course, ok := catalog.GetCourseByID(courseID)
	if !ok {
		sendText(ctx, b, chatID, "Course not found. See /courses.")
		return
	}
	var lesson catalog.Lesson
	if lessonID == "" {
		lesson, ok = course.FirstLesson()
	} else {
		lesson, ok = course.Lesson(lessonID)
	}
	if !ok {
		sendText(ctx, b, chatID, "Lesson not found. See /course "+course.ID)
		return
	}

	user, err := accountFor(chatID).CurrentUser()
	if err != nil {
		replyError(ctx, b, chatID, "load current user", err)
		return
	}
	completed := slices.Contains(user.CompletedLessons(course.ID), lesson.ID)
	text, keyboard, err := ui.RenderLesson(course, lesson, completed)
	if err != nil {
		logger.Error("failed to render lesson", "chat_id", chatID, "lesson_id", lesson.ID, "error", err)
		sendText(ctx, b, chatID, "Failed to render the lesson. Please try again later.")
		return
	}
	sendPage(ctx, b, chatID, text, keyboard)
}
