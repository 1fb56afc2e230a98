package catalog

import "math"

type Course struct {
	ID          string
	Title       string
	Level       string
	Description string
	Lessons     []Lesson
	Quizzes     []Quiz
	Vocab       []VocabEntry
}

type Lesson struct {
	ID      string
	Title   string
	Content string
}

type Quiz struct {
	ID        string
	Title     string
	Questions []Question
}

// Question is a single-choice prompt; Answer indexes Options.
type Question struct {
	Prompt  string
	Options []string
	Answer  int
}

type VocabEntry struct {
	Word    string
	Meaning string
}

func (c Course) Lesson(id string) (Lesson, bool) {
	for _, lesson := range c.Lessons {
		if lesson.ID == id {
			return lesson, true
		}
	}
	return Lesson{}, false
}

func (c Course) Quiz(id string) (Quiz, bool) {
	for _, quiz := range c.Quizzes {
		if quiz.ID == id {
			return quiz, true
		}
	}
	return Quiz{}, false
}

func (c Course) FirstLesson() (Lesson, bool) {
	if len(c.Lessons) == 0 {
		return Lesson{}, false
	}
	return c.Lessons[0], true
}

func (c Course) FirstQuiz() (Quiz, bool) {
	if len(c.Quizzes) == 0 {
		return Quiz{}, false
	}
	return c.Quizzes[0], true
}

// VocabAt cycles through the vocabulary, so any non-negative index is valid.
func (c Course) VocabAt(idx int) (VocabEntry, bool) {
	if len(c.Vocab) == 0 || idx < 0 {
		return VocabEntry{}, false
	}
	return c.Vocab[idx%len(c.Vocab)], true
}

// Score returns the rounded percentage of correct answers. answers[i] is the
// option chosen for question i; a negative value or a missing entry means the
// question was left unanswered.
func (q Quiz) Score(answers []int) int {
	if len(q.Questions) == 0 {
		return 0
	}
	correct := 0
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] >= 0 && answers[i] == question.Answer {
			correct++
		}
	}
	return Percent(correct, len(q.Questions))
}

// Percent rounds done/total to a whole percentage, half away from zero.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
