package catalog

import "testing"

func TestGetCourseByID(t *testing.T) {
	course, ok := GetCourseByID("spanish-basic")
	if !ok {
		t.Fatalf("expected spanish-basic to exist")
	}
	if len(course.Lessons) != 2 || len(course.Quizzes) != 1 || len(course.Vocab) != 3 {
		t.Fatalf("unexpected spanish course shape: %+v", course)
	}

	if _, ok := GetCourseByID("klingon-advanced"); ok {
		t.Fatalf("expected unknown course to be absent")
	}
}

func TestCoursesOrderAndCopy(t *testing.T) {
	courses := Default.Courses()
	if len(courses) != 2 || courses[0].ID != "spanish-basic" || courses[1].ID != "french-basic" {
		t.Fatalf("unexpected catalog order: %+v", courses)
	}

	courses[0].ID = "mutated"
	if first, _ := Default.First(); first.ID != "spanish-basic" {
		t.Fatalf("catalog was mutated through Courses(): %q", first.ID)
	}
}

func TestCourseLookups(t *testing.T) {
	course, _ := GetCourseByID("spanish-basic")

	lesson, ok := course.Lesson("s1-l2")
	if !ok || lesson.Title != "Numbers 1-10" {
		t.Fatalf("unexpected lesson lookup: %+v ok=%v", lesson, ok)
	}
	if _, ok := course.Lesson("f1-l1"); ok {
		t.Fatalf("expected lesson of another course to be absent")
	}

	quiz, ok := course.FirstQuiz()
	if !ok || quiz.ID != "s1-q1" {
		t.Fatalf("unexpected first quiz: %+v", quiz)
	}
	if first, ok := course.FirstLesson(); !ok || first.ID != "s1-l1" {
		t.Fatalf("unexpected first lesson: %+v", first)
	}

	empty := Course{ID: "empty"}
	if _, ok := empty.FirstLesson(); ok {
		t.Fatalf("expected no first lesson on empty course")
	}
	if _, ok := empty.FirstQuiz(); ok {
		t.Fatalf("expected no first quiz on empty course")
	}
}

func TestVocabAtCycles(t *testing.T) {
	course, _ := GetCourseByID("spanish-basic")

	entry, ok := course.VocabAt(4)
	if !ok || entry.Word != "Adiós" {
		t.Fatalf("expected index 4 to wrap to Adiós, got %+v", entry)
	}
	if _, ok := course.VocabAt(-1); ok {
		t.Fatalf("expected negative index to be rejected")
	}
	if _, ok := (Course{}).VocabAt(0); ok {
		t.Fatalf("expected empty vocab to yield nothing")
	}
}

func TestQuizScore(t *testing.T) {
	course, _ := GetCourseByID("spanish-basic")
	quiz, _ := course.Quiz("s1-q1")

	cases := []struct {
		name    string
		answers []int
		want    int
	}{
		{name: "all correct", answers: []int{0, 0}, want: 100},
		{name: "half", answers: []int{0, 2}, want: 50},
		{name: "unanswered", answers: []int{-1, -1}, want: 0},
		{name: "short answers", answers: []int{0}, want: 50},
		{name: "none", answers: nil, want: 0},
	}
	for _, tc := range cases {
		if got := quiz.Score(tc.answers); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestPercentRounds(t *testing.T) {
	if got := Percent(1, 3); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
	if got := Percent(2, 3); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
	if got := Percent(1, 0); got != 0 {
		t.Fatalf("expected 0 for empty total, got %d", got)
	}
}

func TestLabelForLanguage(t *testing.T) {
	if got := LabelForLanguage("es"); got != "🇪🇸 Spanish" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := LabelForLanguage("Italian"); got != "Italian" {
		t.Fatalf("expected free text to pass through, got %q", got)
	}
}
