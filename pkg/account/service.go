// Package account implements sign-up, sign-in and learning progress on top of
// the blob stores of one storage scope.
package account

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
	"github.com/smith3v/tg-lingo-courses/pkg/storage"
	"github.com/smith3v/tg-lingo-courses/pkg/store"
)

type Service struct {
	users    *store.UserStore
	sessions *store.SessionStore
	catalog  *catalog.Catalog
	codeTTL  time.Duration
	now      func() time.Time
	code     func() string
}

func NewService(kv storage.Storage, codeTTL time.Duration) *Service {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &Service{
		users:    store.NewUserStore(kv),
		sessions: store.NewSessionStore(kv),
		catalog:  catalog.Default,
		codeTTL:  codeTTL,
		now:      time.Now,
		code:     randomCode,
	}
}

// ForChat returns a service over the database scope of one chat.
func ForChat(chatID int64, codeTTL time.Duration) *Service {
	return NewService(storage.ForScope(chatID), codeTTL)
}

// User is the signed-in account.
type User struct {
	ID     string
	Record *store.UserRecord
}

// DisplayName is the profile name, or the identifier up to the first '@'.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Record != nil && u.Record.Profile.Name != "" {
		return u.Record.Profile.Name
	}
	name, _, _ := strings.Cut(u.ID, "@")
	return name
}

func (u *User) IsEnrolled(courseID string) bool {
	return u != nil && u.Record != nil && slices.Contains(u.Record.Enrolled, courseID)
}

func (u *User) CompletedLessons(courseID string) []string {
	if u == nil || u.Record == nil {
		return nil
	}
	return u.Record.Progress[courseID]
}

// loadUsers treats a corrupt blob as whatever could be salvaged, so a damaged
// store does not lock the chat out. Storage failures are returned.
func (s *Service) loadUsers() (store.Users, error) {
	users, err := s.users.Load()
	if err == nil {
		return users, nil
	}
	var corruption *store.CorruptionError
	if errors.As(err, &corruption) {
		logger.Warn("user store is corrupt, continuing with readable records", "key", corruption.Key, "dropped", len(corruption.Dropped), "repaired", len(corruption.Repaired), "error", corruption.Err)
		return users, nil
	}
	return nil, err
}

func (s *Service) setSession(accountID string) error {
	_, err := s.sessions.Set(accountID)
	return err
}

// current resolves the session to its account. A session that names a missing
// account is cleared and reported as signed out.
func (s *Service) current() (*User, store.Users, error) {
	session, err := s.sessions.Get()
	if err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			return nil, nil, err
		}
		logger.Warn("session entry is corrupt, signing out", "error", err)
		if clearErr := s.sessions.Clear(); clearErr != nil {
			return nil, nil, clearErr
		}
		return nil, nil, nil
	}
	if session == nil {
		return nil, nil, nil
	}
	users, err := s.loadUsers()
	if err != nil {
		return nil, nil, err
	}
	record, ok := users[session.ID]
	if !ok {
		logger.Warn("session refers to a missing account, signing out", "account", session.ID)
		if err := s.sessions.Clear(); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}
	return &User{ID: session.ID, Record: record}, users, nil
}

// CurrentUser returns nil when nobody is signed in.
func (s *Service) CurrentUser() (*User, error) {
	user, _, err := s.current()
	return user, err
}

// CreateAccount registers the identifier with a default profile. It does not
// sign in.
func (s *Service) CreateAccount(identifier, password string) error {
	if identifier == "" || password == "" {
		return ErrMissingFields
	}
	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	if _, ok := users[identifier]; ok {
		return ErrAccountExists
	}
	users[identifier] = store.NewUserRecord(password)
	return s.users.Save(users)
}

func (s *Service) SignIn(identifier, password string) error {
	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	record, ok := users[identifier]
	if !ok {
		return ErrAccountNotFound
	}
	if record.Password != password {
		return ErrInvalidCredentials
	}
	return s.setSession(identifier)
}

func (s *Service) SignOut() error {
	return s.sessions.Clear()
}

func (s *Service) EnrollCourse(courseID string) error {
	if courseID == "" {
		return ErrMissingFields
	}
	user, users, err := s.current()
	if err != nil {
		return err
	}
	if user == nil {
		return ErrSignInRequired
	}
	if !slices.Contains(user.Record.Enrolled, courseID) {
		user.Record.Enrolled = append(user.Record.Enrolled, courseID)
	}
	return s.users.Save(users)
}

func (s *Service) MarkLessonComplete(courseID, lessonID string) error {
	if courseID == "" || lessonID == "" {
		return ErrMissingFields
	}
	user, users, err := s.current()
	if err != nil {
		return err
	}
	if user == nil {
		return ErrSignInRequired
	}
	if user.Record.Progress == nil {
		user.Record.Progress = map[string][]string{}
	}
	done := user.Record.Progress[courseID]
	if done == nil {
		done = []string{}
	}
	if !slices.Contains(done, lessonID) {
		done = append(done, lessonID)
	}
	user.Record.Progress[courseID] = done
	return s.users.Save(users)
}

// SaveQuizResult appends an attempt. Without a session it does nothing. The
// score is clamped to 0..100.
func (s *Service) SaveQuizResult(courseID, quizID string, scorePct int) error {
	user, users, err := s.current()
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	if courseID == "" || quizID == "" {
		return ErrMissingFields
	}
	user.Record.Quizzes = append(user.Record.Quizzes, store.QuizResult{
		CourseID: courseID,
		QuizID:   quizID,
		ScorePct: store.ClampScore(scorePct),
		TS:       s.now().UnixMilli(),
	})
	return s.users.Save(users)
}

// UpdateProfile overwrites the profile. A non-positive daily goal falls back to
// the default.
func (s *Service) UpdateProfile(name, language string, daily int) error {
	user, users, err := s.current()
	if err != nil {
		return err
	}
	if user == nil {
		return ErrSignInRequired
	}
	if daily <= 0 {
		daily = store.DefaultDailyMinutes
	}
	user.Record.Profile = store.Profile{Name: name, Language: language, Daily: daily}
	return s.users.Save(users)
}

// CourseProgress counts completed lessons against the catalog course.
func (s *Service) CourseProgress(courseID string) (done, total int, err error) {
	user, _, err := s.current()
	if err != nil {
		return 0, 0, err
	}
	if user == nil {
		return 0, 0, ErrSignInRequired
	}
	course, ok := s.catalog.GetCourseByID(courseID)
	if !ok {
		return 0, 0, fmt.Errorf("course %q: %w", courseID, catalog.ErrCourseNotFound)
	}
	return len(user.CompletedLessons(courseID)), len(course.Lessons), nil
}
