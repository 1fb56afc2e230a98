package handlers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/quizflow"
	"github.com/smith3v/tg-lingo-courses/pkg/ui"
)

func currentToken(t *testing.T, chatID int64) string {
	t.Helper()
	state, err := quizflow.LoadState(chatID, time.Now().UTC())
	if err != nil || state == nil {
		t.Fatalf("expected quiz state, got err=%v", err)
	}
	return state.CurrentToken
}

func TestQuizFlowSavesResult(t *testing.T) {
	client, b := setupHandlerTest(t)
	ctx := context.Background()
	signInChat(t, 700, "ana@example.com")

	HandleQuiz(ctx, b, newTestUpdate("/quiz spanish-basic", 700))
	if got := client.lastMessageText(t); !strings.Contains(got, "How do you say Hello?") {
		t.Fatalf("expected first question, got %q", got)
	}
	state, _ := quizflow.LoadState(700, time.Now().UTC())
	if state.CurrentMessageID != 77 {
		t.Fatalf("expected question message to be remembered, got %d", state.CurrentMessageID)
	}

	first, _ := ui.BuildAnswerCallback(currentToken(t, 700), 0)
	HandleCallback(ctx, b, newTestCallbackUpdate(first, 700, 77))
	edit := client.lastRequestTo(t, "editMessageText")
	if text, _ := edit.field(t, "text"); !strings.Contains(text, "What is 2 in Spanish?") {
		t.Fatalf("expected second question, got %q", text)
	}

	second, _ := ui.BuildAnswerCallback(currentToken(t, 700), 2)
	HandleCallback(ctx, b, newTestCallbackUpdate(second, 700, 77))
	edit = client.lastRequestTo(t, "editMessageText")
	if text, _ := edit.field(t, "text"); !strings.Contains(text, "you scored 50%") {
		t.Fatalf("expected score, got %q", text)
	}
	if got := client.lastCallbackAnswer(t); got != "Quiz submitted" {
		t.Fatalf("expected submitted toast, got %q", got)
	}

	user, _ := accountFor(700).CurrentUser()
	if len(user.Record.Quizzes) != 1 || user.Record.Quizzes[0].ScorePct != 50 || user.Record.Quizzes[0].QuizID != "s1-q1" {
		t.Fatalf("unexpected stored quizzes %#v", user.Record.Quizzes)
	}

	HandleCallback(ctx, b, newTestCallbackUpdate(second, 700, 77))
	if got := client.lastCallbackAnswer(t); !strings.Contains(got, "expired") {
		t.Fatalf("expected replay after finish to be rejected, got %q", got)
	}
}

func TestQuizSignedOutIsNotSaved(t *testing.T) {
	client, b := setupHandlerTest(t)
	ctx := context.Background()

	HandleQuiz(ctx, b, newTestUpdate("/quiz french-basic", 701))
	answer, _ := ui.BuildAnswerCallback(currentToken(t, 701), 0)
	HandleCallback(ctx, b, newTestCallbackUpdate(answer, 701, 77))

	text, _ := client.lastRequestTo(t, "editMessageText").field(t, "text")
	if !strings.Contains(text, "you scored 100%") || !strings.Contains(text, "Sign in") {
		t.Fatalf("expected score with sign-in hint, got %q", text)
	}
}

func TestQuizStaleAnswer(t *testing.T) {
	client, b := setupHandlerTest(t)
	ctx := context.Background()

	HandleQuiz(ctx, b, newTestUpdate("/quiz spanish-basic s1-q1", 702))
	stale, _ := ui.BuildAnswerCallback("not-the-token", 0)
	HandleCallback(ctx, b, newTestCallbackUpdate(stale, 702, 77))
	if got := client.lastCallbackAnswer(t); !strings.Contains(got, "already answered") {
		t.Fatalf("expected stale toast, got %q", got)
	}
}

func TestQuizUnknownQuiz(t *testing.T) {
	client, b := setupHandlerTest(t)

	HandleQuiz(context.Background(), b, newTestUpdate("/quiz spanish-basic f1-q1", 703))
	if got := client.lastMessageText(t); !strings.Contains(got, "Quiz not found") {
		t.Fatalf("expected quiz not found, got %q", got)
	}
}
