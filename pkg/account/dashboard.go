package account

import (
	"time"

	"github.com/smith3v/tg-lingo-courses/pkg/catalog"
	"github.com/smith3v/tg-lingo-courses/pkg/store"
)

const recentQuizLimit = 3

type Dashboard struct {
	AccountID   string
	DisplayName string
	Profile     store.Profile
	Courses     []CourseSummary
	RecentQuiz  []RecentQuiz
}

type CourseSummary struct {
	Course      catalog.Course
	Done        int
	Total       int
	Percent     int
	FirstLesson string
}

type RecentQuiz struct {
	CourseID    string
	CourseTitle string
	QuizID      string
	ScorePct    int
	TakenAt     time.Time
}

// Dashboard summarizes the signed-in account. Enrolled ids that are no longer
// in the catalog are skipped.
func (s *Service) Dashboard() (*Dashboard, error) {
	user, _, err := s.current()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrSignInRequired
	}

	dash := &Dashboard{
		AccountID:   user.ID,
		DisplayName: user.DisplayName(),
		Profile:     user.Record.Profile,
	}
	for _, courseID := range user.Record.Enrolled {
		course, ok := s.catalog.GetCourseByID(courseID)
		if !ok {
			continue
		}
		done := len(user.CompletedLessons(courseID))
		summary := CourseSummary{
			Course:  course,
			Done:    done,
			Total:   len(course.Lessons),
			Percent: catalog.Percent(done, len(course.Lessons)),
		}
		if first, ok := course.FirstLesson(); ok {
			summary.FirstLesson = first.ID
		}
		dash.Courses = append(dash.Courses, summary)
	}

	quizzes := user.Record.Quizzes
	for i := len(quizzes) - 1; i >= 0 && len(dash.RecentQuiz) < recentQuizLimit; i-- {
		result := quizzes[i]
		title := result.CourseID
		if course, ok := s.catalog.GetCourseByID(result.CourseID); ok {
			title = course.Title
		}
		dash.RecentQuiz = append(dash.RecentQuiz, RecentQuiz{
			CourseID:    result.CourseID,
			CourseTitle: title,
			QuizID:      result.QuizID,
			ScorePct:    result.ScorePct,
			TakenAt:     time.UnixMilli(result.TS),
		})
	}
	return dash, nil
}
