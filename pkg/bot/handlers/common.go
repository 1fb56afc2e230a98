package handlers

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/account"
	"github.com/smith3v/tg-lingo-courses/pkg/config"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
	"github.com/smith3v/tg-lingo-courses/pkg/quizflow"
)

// CommandPattern matches "/name", "/name args" and "/name@botname" but not
// longer commands sharing the prefix.
func CommandPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`^/` + regexp.QuoteMeta(name) + `(@\w+)?(\s|$)`)
}

// commandArgs strips the command token and returns the trimmed remainder.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, rest, _ := strings.Cut(text, " ")
	return strings.TrimSpace(rest)
}

func accountFor(chatID int64) *account.Service {
	return account.ForChat(chatID, config.AppConfig.Verification.CodeTTL.Duration)
}

func quizManager() *quizflow.Manager {
	return quizflow.NewManager(config.AppConfig.Quiz.InactivityTimeout.Duration, nil)
}

func validMessage(update *models.Update) bool {
	return update != nil && update.Message != nil && update.Message.Chat.ID != 0
}

func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// sendPage sends MarkdownV2 text. Keyboards without buttons are left off.
func sendPage(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) (*models.Message, error) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	}
	if hasButtons(keyboard) {
		params.ReplyMarkup = keyboard
	}
	msg, err := b.SendMessage(ctx, params)
	if err != nil {
		logger.Error("failed to send page", "chat_id", chatID, "error", err)
	}
	return msg, err
}

func editPage(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	}
	if hasButtons(keyboard) {
		params.ReplyMarkup = keyboard
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		logger.Error("failed to edit page", "chat_id", chatID, "message_id", messageID, "error", err)
		return err
	}
	return nil
}

func hasButtons(keyboard *models.InlineKeyboardMarkup) bool {
	if keyboard == nil {
		return false
	}
	for _, row := range keyboard.InlineKeyboard {
		if len(row) > 0 {
			return true
		}
	}
	return false
}

// userMessage turns service errors into replies. Unknown errors get a generic
// text; the caller logs them.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, account.ErrMissingFields):
		return "Fill required fields.", true
	case errors.Is(err, account.ErrAccountExists):
		return "Account exists.", true
	case errors.Is(err, account.ErrAccountNotFound):
		return "Account not found.", true
	case errors.Is(err, account.ErrInvalidCredentials):
		return "Invalid credentials.", true
	case errors.Is(err, account.ErrSignInRequired):
		return "Sign in first: /signin <id> <password>", true
	case errors.Is(err, account.ErrWrongCode):
		return "Wrong OTP.", true
	case errors.Is(err, account.ErrChallengeExpired):
		return "The code has expired. Send /signup again to get a new one.", true
	default:
		return "Something went wrong. Please try again later.", false
	}
}

func replyError(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	text, known := userMessage(err)
	if !known {
		logger.Error("failed to "+op, "chat_id", chatID, "error", err)
	}
	sendText(ctx, b, chatID, text)
}
