package handlers

import (
	"context"
	"strings"
	"testing"
)

func TestCommandPattern(t *testing.T) {
	pattern := CommandPattern("quiz")
	for _, text := range []string{"/quiz", "/quiz spanish-basic", "/quiz@LingoBot s1-q1"} {
		if !pattern.MatchString(text) {
			t.Fatalf("expected %q to match", text)
		}
	}
	for _, text := range []string{"/quizzes", "quiz", " /quiz"} {
		if pattern.MatchString(text) {
			t.Fatalf("expected %q not to match", text)
		}
	}
}

func TestCommandArgs(t *testing.T) {
	tests := map[string]string{
		"/course spanish-basic":     "spanish-basic",
		"/profile@Bot Ana; es; 15":  "Ana; es; 15",
		"/dashboard":                "",
		"/signin  ana   pass word ": "ana   pass word",
	}
	for input, want := range tests {
		if got := commandArgs(input); got != want {
			t.Fatalf("commandArgs(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDefaultHandlerSendsHelp(t *testing.T) {
	client, b := setupHandlerTest(t)

	DefaultHandler(context.Background(), b, newTestUpdate("hello", 1100))
	got := client.lastMessageText(t)
	if !strings.Contains(got, "/quiz") || !strings.Contains(got, "/export") {
		t.Fatalf("expected command list, got %q", got)
	}
}
