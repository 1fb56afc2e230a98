package catalog

import "errors"

var ErrCourseNotFound = errors.New("course not found")

// Catalog is an immutable ordered list of courses.
type Catalog struct {
	courses []Course
}

func New(courses []Course) *Catalog {
	copied := make([]Course, len(courses))
	copy(copied, courses)
	return &Catalog{courses: copied}
}

var Default = New(defaultCourses)

func (c *Catalog) Courses() []Course {
	out := make([]Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// GetCourseByID scans the catalog in order. A miss is reported through ok, not
// an error.
func (c *Catalog) GetCourseByID(id string) (Course, bool) {
	for _, course := range c.courses {
		if course.ID == id {
			return course, true
		}
	}
	return Course{}, false
}

func (c *Catalog) First() (Course, bool) {
	if len(c.courses) == 0 {
		return Course{}, false
	}
	return c.courses[0], true
}

func GetCourseByID(id string) (Course, bool) {
	return Default.GetCourseByID(id)
}

var defaultCourses = []Course{
	{
		ID:          "spanish-basic",
		Title:       "Spanish — Basics",
		Level:       "Beginner",
		Description: "Greetings, numbers, common phrases.",
		Lessons: []Lesson{
			{ID: "s1-l1", Title: "Greetings & Intros", Content: "Hola, ¿Cómo estás? — Basic greetings and introductions."},
			{ID: "s1-l2", Title: "Numbers 1-10", Content: "Uno, dos, tres... Practice counting from 1 to 10."},
		},
		Quizzes: []Quiz{
			{
				ID:    "s1-q1",
				Title: "Basics Quiz",
				Questions: []Question{
					{Prompt: "How do you say Hello?", Options: []string{"Hola", "Bonjour", "Ciao"}, Answer: 0},
					{Prompt: "What is 2 in Spanish?", Options: []string{"dos", "due", "deux"}, Answer: 0},
				},
			},
		},
		Vocab: []VocabEntry{
			{Word: "Hola", Meaning: "Hello"},
			{Word: "Adiós", Meaning: "Goodbye"},
			{Word: "Gracias", Meaning: "Thank you"},
		},
	},
	{
		ID:          "french-basic",
		Title:       "French — Beginner",
		Level:       "Beginner",
		Description: "Simple phrases, polite expressions.",
		Lessons: []Lesson{
			{ID: "f1-l1", Title: "Bonjour & Politeness", Content: "Bonjour, merci, s’il vous plaît."},
		},
		Quizzes: []Quiz{
			{
				ID:    "f1-q1",
				Title: "French Mini Quiz",
				Questions: []Question{
					{Prompt: "How to say Thank you?", Options: []string{"Merci", "Gracias", "Danke"}, Answer: 0},
				},
			},
		},
		Vocab: []VocabEntry{
			{Word: "Bonjour", Meaning: "Hello"},
			{Word: "Merci", Meaning: "Thank you"},
		},
	},
}
