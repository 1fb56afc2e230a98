package ui

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/account"
	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
)

// RenderHeader is the one-line user area shown above pages.
func RenderHeader(user *account.User) string {
	if user == nil {
		return bot.EscapeMarkdown("Not signed in. Use /signin or /signup.")
	}
	badge := "Learner"
	if user.Record != nil && user.Record.Profile.Language != "" {
		badge = catalog.LabelForLanguage(user.Record.Profile.Language)
	}
	return fmt.Sprintf("\\[%s\\] *%s* %s",
		bot.EscapeMarkdown(badge),
		bot.EscapeMarkdown(user.DisplayName()),
		bot.EscapeMarkdown("("+user.ID+")"),
	)
}

func RenderSignedOutDashboard() string {
	return bot.EscapeMarkdown("Sign in to view your learning dashboard.")
}

func RenderDashboard(dash *account.Dashboard) (string, *models.InlineKeyboardMarkup, error) {
	language := dash.Profile.Language
	if language == "" {
		language = "—"
	} else {
		language = catalog.LabelForLanguage(language)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n%s\n\n",
		bot.EscapeMarkdown(dash.DisplayName),
		bot.EscapeMarkdown(fmt.Sprintf("Target: %s • Daily %d mins", language, dash.Profile.Daily)),
	)

	sb.WriteString("*Enrolled Courses*\n")
	rows := [][]models.InlineKeyboardButton{}
	if len(dash.Courses) == 0 {
		sb.WriteString(bot.EscapeMarkdown("You have not enrolled in any course."))
		sb.WriteString("\n")
	}
	for _, summary := range dash.Courses {
		fmt.Fprintf(&sb, "• %s\n  %s\n",
			bot.EscapeMarkdown(summary.Course.Title),
			bot.EscapeMarkdown(fmt.Sprintf("%s %d/%d lessons completed", progressBar(summary.Percent), summary.Done, summary.Total)),
		)
		if summary.FirstLesson == "" {
			continue
		}
		data, err := BuildOpenLessonCallback(summary.Course.ID, summary.FirstLesson)
		if err != nil {
			return "", nil, err
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: "Continue " + summary.Course.Title, CallbackData: data}})
	}

	sb.WriteString("\n*Recent Quizzes*\n")
	if len(dash.RecentQuiz) == 0 {
		sb.WriteString(bot.EscapeMarkdown("No quizzes attempted yet."))
	}
	for _, result := range dash.RecentQuiz {
		fmt.Fprintf(&sb, "%s\n", bot.EscapeMarkdown(fmt.Sprintf("%s — %d%%", result.CourseTitle, result.ScorePct)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(bot.EscapeMarkdown("Edit profile: /profile <name>; <language>; <minutes>"))

	return sb.String(), &models.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}

// progressBar draws ten cells, one per full 10%.
func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent / 10
	return "[" + strings.Repeat("■", filled) + strings.Repeat("□", 10-filled) + fmt.Sprintf("] %d%%", percent)
}
