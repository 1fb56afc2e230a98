package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/account"
	"github.com/smith3v/tg-lingo-courses/pkg/bot/verification"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
)

// credentials parses "<id> <password>". The password may contain spaces.
func credentials(text string) (string, string) {
	args := commandArgs(text)
	identifier, password, _ := strings.Cut(args, " ")
	return strings.TrimSpace(identifier), strings.TrimSpace(password)
}

func requirePrivateChat(ctx context.Context, b *bot.Bot, update *models.Update, command string) bool {
	if update.Message.Chat.Type == models.ChatTypePrivate {
		return true
	}
	sendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("The %s command works only in private chat.", command))
	return false
}

// HandleSignUp creates the account and issues a simulated one-time code that
// /verify exchanges for a session.
func HandleSignUp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleSignUp")
		return
	}
	if !requirePrivateChat(ctx, b, update, "/signup") {
		return
	}
	chatID := update.Message.Chat.ID
	identifier, password := credentials(update.Message.Text)

	svc := accountFor(chatID)
	if err := svc.CreateAccount(identifier, password); err != nil {
		if errors.Is(err, account.ErrMissingFields) {
			sendText(ctx, b, chatID, "Fill required fields. Usage: /signup <email or phone> <password>")
			return
		}
		replyError(ctx, b, chatID, "create account", err)
		return
	}

	challenge := svc.SendOTP(identifier)
	verification.DefaultManager.Put(chatID, challenge)
	logger.Info("account created", "chat_id", chatID, "challenge_id", challenge.ID)
	sendText(ctx, b, chatID, fmt.Sprintf("Account created. Your OTP: %s (Simulated)\nSend /verify %s to sign in.", challenge.Code, challenge.Code))
}

func HandleVerify(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleVerify")
		return
	}
	chatID := update.Message.Chat.ID
	code := commandArgs(update.Message.Text)

	challenge, ok := verification.DefaultManager.Get(chatID)
	if !ok {
		sendText(ctx, b, chatID, "No code is pending. Send /signup first.")
		return
	}
	if code == "" {
		sendText(ctx, b, chatID, "Usage: /verify <code>")
		return
	}

	err := accountFor(chatID).VerifyOTP(challenge, code)
	if err == nil {
		verification.DefaultManager.Remove(chatID)
		sendText(ctx, b, chatID, "Verified. You are signed in. Open /dashboard to start learning.")
		return
	}
	if errors.Is(err, account.ErrChallengeExpired) || errors.Is(err, account.ErrAccountNotFound) {
		verification.DefaultManager.Remove(chatID)
	}
	replyError(ctx, b, chatID, "verify code", err)
}

func HandleSignIn(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleSignIn")
		return
	}
	if !requirePrivateChat(ctx, b, update, "/signin") {
		return
	}
	chatID := update.Message.Chat.ID
	identifier, password := credentials(update.Message.Text)
	if identifier == "" || password == "" {
		sendText(ctx, b, chatID, "Usage: /signin <email or phone> <password>")
		return
	}

	if err := accountFor(chatID).SignIn(identifier, password); err != nil {
		replyError(ctx, b, chatID, "sign in", err)
		return
	}
	sendText(ctx, b, chatID, "Signed in. Open /dashboard to continue.")
}

func HandleSignOut(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleSignOut")
		return
	}
	chatID := update.Message.Chat.ID
	if err := accountFor(chatID).SignOut(); err != nil {
		replyError(ctx, b, chatID, "sign out", err)
		return
	}
	sendText(ctx, b, chatID, "Signed out.")
}
