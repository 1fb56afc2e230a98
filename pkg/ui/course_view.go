package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/account"
	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/quizflow"
)

const hiddenMeaning = "—"

// RenderIndex is the landing page: header plus the featured courses.
func RenderIndex(courses []catalog.Course, user *account.User) (string, *models.InlineKeyboardMarkup, error) {
	var sb strings.Builder
	sb.WriteString(RenderHeader(user))
	sb.WriteString("\n\n*")
	sb.WriteString(bot.EscapeMarkdown("Learn a language, one lesson at a time."))
	sb.WriteString("*\n")
	sb.WriteString(bot.EscapeMarkdown("Featured courses:"))
	sb.WriteString("\n")
	writeCourseLines(&sb, courses)
	sb.WriteString("\n")
	sb.WriteString(bot.EscapeMarkdown("Commands: /courses /vocab /dashboard /signup /signin"))

	keyboard, err := courseListKeyboard(courses)
	if err != nil {
		return "", nil, err
	}
	return sb.String(), keyboard, nil
}

func RenderCourseList(courses []catalog.Course) (string, *models.InlineKeyboardMarkup, error) {
	var sb strings.Builder
	sb.WriteString("*Courses*\n")
	writeCourseLines(&sb, courses)
	keyboard, err := courseListKeyboard(courses)
	if err != nil {
		return "", nil, err
	}
	return sb.String(), keyboard, nil
}

func writeCourseLines(sb *strings.Builder, courses []catalog.Course) {
	for _, course := range courses {
		fmt.Fprintf(sb, "• *%s* \\(%s\\)\n  %s\n",
			bot.EscapeMarkdown(course.Title),
			bot.EscapeMarkdown(course.Level),
			bot.EscapeMarkdown(course.Description),
		)
	}
}

func courseListKeyboard(courses []catalog.Course) (*models.InlineKeyboardMarkup, error) {
	rows := make([][]models.InlineKeyboardButton, 0, len(courses))
	for _, course := range courses {
		lesson, ok := course.FirstLesson()
		if !ok {
			continue
		}
		data, err := BuildOpenLessonCallback(course.ID, lesson.ID)
		if err != nil {
			return nil, err
		}
		enrollData, err := BuildEnrollCallback(course.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "Start " + course.Title, CallbackData: data},
			{Text: "Enroll", CallbackData: enrollData},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

// RenderCourse shows one course with its lessons. Lessons the user finished are
// ticked.
func RenderCourse(course catalog.Course, user *account.User) (string, *models.InlineKeyboardMarkup, error) {
	completed := user.CompletedLessons(course.ID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n%s\n%s\n\n",
		bot.EscapeMarkdown(course.Title),
		bot.EscapeMarkdown(course.Level),
		bot.EscapeMarkdown(course.Description),
	)
	if user.IsEnrolled(course.ID) {
		fmt.Fprintf(&sb, "%s\n", bot.EscapeMarkdown(fmt.Sprintf("Enrolled, %d/%d lessons completed", len(completed), len(course.Lessons))))
	}
	sb.WriteString("*Lessons*\n")
	for i, lesson := range course.Lessons {
		mark := "▫️"
		if slices.Contains(completed, lesson.ID) {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%s %s\n", mark, bot.EscapeMarkdown(fmt.Sprintf("%d. %s", i+1, lesson.Title)))
	}

	rows := [][]models.InlineKeyboardButton{}
	if !user.IsEnrolled(course.ID) {
		data, err := BuildEnrollCallback(course.ID)
		if err != nil {
			return "", nil, err
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: "Enroll", CallbackData: data}})
	}
	for _, lesson := range course.Lessons {
		data, err := BuildOpenLessonCallback(course.ID, lesson.ID)
		if err != nil {
			return "", nil, err
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: lesson.Title, CallbackData: data}})
	}
	for _, quiz := range course.Quizzes {
		data, err := BuildStartQuizCallback(course.ID, quiz.ID)
		if err != nil {
			return "", nil, err
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: "Quiz: " + quiz.Title, CallbackData: data}})
	}
	return sb.String(), &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

func RenderLesson(course catalog.Course, lesson catalog.Lesson, completed bool) (string, *models.InlineKeyboardMarkup, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n_%s_\n\n%s",
		bot.EscapeMarkdown(lesson.Title),
		bot.EscapeMarkdown(course.Title),
		bot.EscapeMarkdown(lesson.Content),
	)
	if completed {
		sb.WriteString("\n\n")
		sb.WriteString(bot.EscapeMarkdown("✅ Completed"))
	}

	completeData, err := BuildCompleteLessonCallback(course.ID, lesson.ID)
	if err != nil {
		return "", nil, err
	}
	rows := [][]models.InlineKeyboardButton{
		{{Text: "Mark complete", CallbackData: completeData}},
	}
	if quiz, ok := course.FirstQuiz(); ok {
		quizData, err := BuildStartQuizCallback(course.ID, quiz.ID)
		if err != nil {
			return "", nil, err
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: "Open quiz", CallbackData: quizData}})
	}
	return sb.String(), &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

// RenderQuizQuestion shows the current question of a running quiz with one
// button per option.
func RenderQuizQuestion(step *quizflow.Step) (string, *models.InlineKeyboardMarkup, error) {
	question, ok := step.Question()
	if !ok {
		return "", nil, fmt.Errorf("quiz %q has no current question", step.Quiz.ID)
	}
	text := fmt.Sprintf("*%s*\n%s\n\n%s",
		bot.EscapeMarkdown(step.Quiz.Title),
		bot.EscapeMarkdown(fmt.Sprintf("Question %d of %d", step.Index+1, len(step.Quiz.Questions))),
		bot.EscapeMarkdown(fmt.Sprintf("Q%d. %s", step.Index+1, question.Prompt)),
	)
	rows := make([][]models.InlineKeyboardButton, 0, len(question.Options))
	for i, option := range question.Options {
		data, err := BuildAnswerCallback(step.Token, i)
		if err != nil {
			return "", nil, err
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: option, CallbackData: data}})
	}
	return text, &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

func RenderQuizResult(step *quizflow.Step, saved bool) string {
	text := bot.EscapeMarkdown(fmt.Sprintf("%s: you scored %d%%", step.Quiz.Title, step.Score))
	if !saved {
		text += "\n" + bot.EscapeMarkdown("Sign in to keep your quiz results.")
	} else {
		text += "\n" + bot.EscapeMarkdown("Saved to your dashboard: /dashboard")
	}
	return text
}

// RenderVocabCard shows one flash card. The meaning stays hidden until asked
// for; idx may exceed the vocabulary size and wraps around.
func RenderVocabCard(course catalog.Course, idx int, showMeaning bool) (string, *models.InlineKeyboardMarkup, error) {
	entry, ok := course.VocabAt(idx)
	if !ok {
		return bot.EscapeMarkdown(course.Title + " has no vocabulary yet."), nil, nil
	}
	meaning := hiddenMeaning
	if showMeaning {
		meaning = entry.Meaning
	}
	text := fmt.Sprintf("*%s*\n\n*%s*\n%s",
		bot.EscapeMarkdown(course.Title+" — Vocabulary"),
		bot.EscapeMarkdown(entry.Word),
		bot.EscapeMarkdown(meaning),
	)

	showData, err := BuildShowMeaningCallback(course.ID, idx%len(course.Vocab))
	if err != nil {
		return "", nil, err
	}
	nextData, err := BuildNextCardCallback(course.ID, (idx+1)%len(course.Vocab))
	if err != nil {
		return "", nil, err
	}
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Show meaning", CallbackData: showData},
				{Text: "Next", CallbackData: nextData},
			},
		},
	}
	return text, keyboard, nil
}
