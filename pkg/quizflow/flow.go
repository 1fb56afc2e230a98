// Package quizflow runs a quiz one question at a time and keeps the chosen
// answers in the database between Telegram updates.
package quizflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/db"
	"gorm.io/datatypes"
)

const DefaultInactivityTimeout = 30 * time.Minute

var (
	ErrNoActiveQuiz  = errors.New("no quiz in progress")
	ErrStaleAnswer   = errors.New("answer does not match the current question")
	ErrInvalidOption = errors.New("option out of range")
	ErrEmptyQuiz     = errors.New("quiz has no questions")
)

// Step is the state of a quiz after an action. When Finished is set, Score is
// the final percentage and the state has been removed.
type Step struct {
	CourseID string
	Quiz     catalog.Quiz
	Index    int
	Token    string
	Answers  []int
	Finished bool
	Score    int
}

func (s *Step) Question() (catalog.Question, bool) {
	if s == nil || s.Finished || s.Index < 0 || s.Index >= len(s.Quiz.Questions) {
		return catalog.Question{}, false
	}
	return s.Quiz.Questions[s.Index], true
}

type Manager struct {
	catalog *catalog.Catalog
	ttl     time.Duration
	now     func() time.Time
	token   func() string
}

func NewManager(ttl time.Duration, now func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = DefaultInactivityTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{
		catalog: catalog.Default,
		ttl:     ttl,
		now:     now,
		token:   uuid.NewString,
	}
}

// Start replaces any quiz the chat had in progress.
func (m *Manager) Start(chatID int64, courseID string, quiz catalog.Quiz) (*Step, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	answers := make([]int, len(quiz.Questions))
	for i := range answers {
		answers[i] = -1
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	state := &db.QuizState{
		ChatID:         chatID,
		CourseID:       courseID,
		QuizID:         quiz.ID,
		Answers:        datatypes.JSON(raw),
		CurrentIndex:   0,
		CurrentToken:   m.token(),
		LastActivityAt: m.now().UTC(),
	}
	if err := UpsertState(state, m.ttl); err != nil {
		return nil, fmt.Errorf("failed to store quiz state: %w", err)
	}
	return &Step{
		CourseID: courseID,
		Quiz:     quiz,
		Index:    0,
		Token:    state.CurrentToken,
		Answers:  answers,
	}, nil
}

// Answer records option for the question identified by token and advances.
// The token is checked again in the write, so of two concurrent answers to the
// same question only one succeeds.
func (m *Manager) Answer(chatID int64, token string, option int) (*Step, error) {
	now := m.now().UTC()
	state, err := LoadState(chatID, now)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNoActiveQuiz
	}
	if state.CurrentToken == "" || state.CurrentToken != token {
		return nil, ErrStaleAnswer
	}
	course, ok := m.catalog.GetCourseByID(state.CourseID)
	if !ok {
		_ = DeleteState(chatID)
		return nil, fmt.Errorf("course %q: %w", state.CourseID, catalog.ErrCourseNotFound)
	}
	quiz, ok := course.Quiz(state.QuizID)
	if !ok || state.CurrentIndex < 0 || state.CurrentIndex >= len(quiz.Questions) {
		_ = DeleteState(chatID)
		return nil, ErrNoActiveQuiz
	}
	question := quiz.Questions[state.CurrentIndex]
	if option < 0 || option >= len(question.Options) {
		return nil, ErrInvalidOption
	}

	var answers []int
	if err := json.Unmarshal(state.Answers, &answers); err != nil || len(answers) != len(quiz.Questions) {
		answers = make([]int, len(quiz.Questions))
		for i := range answers {
			answers[i] = -1
		}
	}
	answers[state.CurrentIndex] = option

	step := &Step{
		CourseID: state.CourseID,
		Quiz:     quiz,
		Answers:  answers,
		Index:    state.CurrentIndex + 1,
	}
	if step.Index >= len(quiz.Questions) {
		finished, err := FinishState(chatID, token)
		if err != nil {
			return nil, err
		}
		if !finished {
			return nil, ErrStaleAnswer
		}
		step.Finished = true
		step.Score = quiz.Score(answers)
		return step, nil
	}

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	next := &db.QuizState{
		Answers:        datatypes.JSON(raw),
		CurrentIndex:   step.Index,
		CurrentToken:   m.token(),
		LastActivityAt: now,
	}
	advanced, err := AdvanceState(chatID, token, next, m.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to store quiz state: %w", err)
	}
	if !advanced {
		return nil, ErrStaleAnswer
	}
	step.Token = next.CurrentToken
	return step, nil
}

// RememberMessage records which message shows the current question, so a
// later answer can edit it.
func (m *Manager) RememberMessage(chatID int64, messageID int) error {
	state, err := LoadState(chatID, m.now().UTC())
	if err != nil || state == nil {
		return err
	}
	state.CurrentMessageID = messageID
	return UpsertState(state, m.ttl)
}
