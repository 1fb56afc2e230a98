package quizflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/db"
	"github.com/smith3v/tg-lingo-courses/pkg/internal/testutil"
	"gorm.io/gorm"
)

func newTestManager(t *testing.T, now *time.Time) *Manager {
	t.Helper()
	m := NewManager(time.Minute, func() time.Time { return *now })
	counter := 0
	m.token = func() string {
		counter++
		return fmt.Sprintf("tok-%d", counter)
	}
	return m
}

func spanishQuiz(t *testing.T) catalog.Quiz {
	t.Helper()
	course, _ := catalog.GetCourseByID("spanish-basic")
	quiz, ok := course.Quiz("s1-q1")
	if !ok {
		t.Fatalf("missing spanish quiz")
	}
	return quiz
}

func TestQuizRunsToCompletion(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)

	step, err := m.Start(10, "spanish-basic", spanishQuiz(t))
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if step.Token != "tok-1" || step.Index != 0 {
		t.Fatalf("unexpected first step %#v", step)
	}
	if q, ok := step.Question(); !ok || q.Prompt != "How do you say Hello?" {
		t.Fatalf("unexpected first question %#v", q)
	}

	step, err = m.Answer(10, "tok-1", 0)
	if err != nil {
		t.Fatalf("first answer failed: %v", err)
	}
	if step.Finished || step.Index != 1 || step.Token != "tok-2" {
		t.Fatalf("unexpected second step %#v", step)
	}

	step, err = m.Answer(10, "tok-2", 1)
	if err != nil {
		t.Fatalf("second answer failed: %v", err)
	}
	if !step.Finished || step.Score != 50 {
		t.Fatalf("expected finished with 50%%, got %#v", step)
	}

	if state, _ := LoadState(10, now); state != nil {
		t.Fatalf("expected state to be removed after finishing")
	}
}

func TestQuizRejectsStaleToken(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)

	if _, err := m.Start(11, "spanish-basic", spanishQuiz(t)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := m.Answer(11, "tok-1", 0); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if _, err := m.Answer(11, "tok-1", 0); !errors.Is(err, ErrStaleAnswer) {
		t.Fatalf("expected ErrStaleAnswer on replay, got %v", err)
	}
	if _, err := m.Answer(11, "tok-2", 7); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestQuizExpiresAfterInactivity(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)

	if _, err := m.Start(12, "spanish-basic", spanishQuiz(t)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := m.Answer(12, "tok-1", 0); !errors.Is(err, ErrNoActiveQuiz) {
		t.Fatalf("expected ErrNoActiveQuiz after timeout, got %v", err)
	}

	removed, err := db.CleanupExpiredQuizStates(now)
	if err != nil || removed != 1 {
		t.Fatalf("expected sweeper to remove one state, got %d err=%v", removed, err)
	}
}

func TestRestartReplacesState(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)

	if _, err := m.Start(13, "spanish-basic", spanishQuiz(t)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := m.Start(13, "spanish-basic", spanishQuiz(t)); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if err := m.RememberMessage(13, 555); err != nil {
		t.Fatalf("remember message failed: %v", err)
	}

	var count int64
	db.DB.Model(&db.QuizState{}).Where("chat_id = ?", 13).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single state row, got %d", count)
	}
	state, err := LoadState(13, now)
	if err != nil || state == nil {
		t.Fatalf("expected state, got err=%v", err)
	}
	if state.CurrentToken != "tok-2" || state.CurrentMessageID != 555 {
		t.Fatalf("unexpected state %#v", state)
	}
	if _, err := m.Answer(13, "tok-1", 0); !errors.Is(err, ErrStaleAnswer) {
		t.Fatalf("expected old token to be stale, got %v", err)
	}
}

func TestStartEmptyQuiz(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Now()
	m := newTestManager(t, &now)
	if _, err := m.Start(14, "x", catalog.Quiz{ID: "empty"}); !errors.Is(err, ErrEmptyQuiz) {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}
}

func TestAnswerWithoutQuiz(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Now()
	m := newTestManager(t, &now)
	if _, err := m.Answer(15, "tok", 0); !errors.Is(err, ErrNoActiveQuiz) {
		t.Fatalf("expected ErrNoActiveQuiz, got %v", err)
	}
}

// interleaveAfterLoad runs other once, right after the next quiz state read,
// so it lands between an answer's load and its write.
func interleaveAfterLoad(t *testing.T, other func()) {
	t.Helper()
	done := false
	err := db.DB.Callback().Query().After("gorm:query").Register("test:interleave", func(tx *gorm.DB) {
		if done || tx.Statement.Table != "quiz_states" {
			return
		}
		done = true
		other()
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}
}

func TestConcurrentFinalAnswerSubmitsOnce(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)

	if _, err := m.Start(16, "spanish-basic", spanishQuiz(t)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := m.Answer(16, "tok-1", 0); err != nil {
		t.Fatalf("first answer failed: %v", err)
	}

	var first *Step
	var firstErr error
	interleaveAfterLoad(t, func() {
		first, firstErr = m.Answer(16, "tok-2", 0)
	})
	second, err := m.Answer(16, "tok-2", 0)

	if firstErr != nil || first == nil || !first.Finished {
		t.Fatalf("expected the first tap to finish the quiz, got %#v err=%v", first, firstErr)
	}
	if !errors.Is(err, ErrStaleAnswer) || second != nil {
		t.Fatalf("expected the second tap to be stale, got %#v err=%v", second, err)
	}
}

func TestConcurrentAnswerAdvancesOnce(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)

	if _, err := m.Start(17, "spanish-basic", spanishQuiz(t)); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	var firstErr error
	interleaveAfterLoad(t, func() {
		_, firstErr = m.Answer(17, "tok-1", 0)
	})
	if _, err := m.Answer(17, "tok-1", 1); !errors.Is(err, ErrStaleAnswer) {
		t.Fatalf("expected the second tap to be stale, got %v", err)
	}
	if firstErr != nil {
		t.Fatalf("first tap failed: %v", firstErr)
	}

	state, err := LoadState(17, now)
	if err != nil || state == nil {
		t.Fatalf("expected state, got err=%v", err)
	}
	if state.CurrentIndex != 1 || state.CurrentToken != "tok-2" || string(state.Answers) != "[0,-1]" {
		t.Fatalf("expected only the first tap to be recorded, got %#v", state)
	}
}

func TestAnswerSameTokenTwice(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)

	course, _ := catalog.GetCourseByID("french-basic")
	quiz, _ := course.Quiz("f1-q1")
	if _, err := m.Start(18, "french-basic", quiz); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if step, err := m.Answer(18, "tok-1", 0); err != nil || !step.Finished {
		t.Fatalf("expected quiz to finish, got %#v err=%v", step, err)
	}
	if _, err := m.Answer(18, "tok-1", 0); err == nil {
		t.Fatalf("expected repeated final answer to be rejected")
	}
}

func TestConditionalStateWrites(t *testing.T) {
	testutil.SetupTestDB(t)
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &now)

	if _, err := m.Start(19, "spanish-basic", spanishQuiz(t)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	next := &db.QuizState{Answers: []byte("[0,-1]"), CurrentIndex: 1, CurrentToken: "tok-x", LastActivityAt: now}
	if ok, err := AdvanceState(19, "wrong", next, time.Minute); ok || err != nil {
		t.Fatalf("expected advance with wrong token to do nothing, got %v err=%v", ok, err)
	}
	if ok, err := FinishState(19, "wrong"); ok || err != nil {
		t.Fatalf("expected finish with wrong token to do nothing, got %v err=%v", ok, err)
	}
	if ok, err := FinishState(19, "tok-1"); !ok || err != nil {
		t.Fatalf("expected finish with current token, got %v err=%v", ok, err)
	}
	if ok, _ := FinishState(19, "tok-1"); ok {
		t.Fatalf("expected second finish to do nothing")
	}
}
