package ui

import (
	"errors"
	"strconv"
	"strings"
)

const MaxCallbackDataLen = 64

type Area string

const (
	AreaCourse Area = "c"
	AreaQuiz   Area = "q"
	AreaVocab  Area = "v"
)

type Operation string

const (
	OpEnroll         Operation = "e"
	OpOpenLesson     Operation = "l"
	OpCompleteLesson Operation = "d"
	OpStartQuiz      Operation = "q"
	OpAnswer         Operation = "a"
	OpShowMeaning    Operation = "s"
	OpNextCard       Operation = "n"
)

// Action is a decoded button press. Which fields are set depends on the
// operation: course actions carry CourseID and ItemID, answers carry Token and
// Value, vocab actions carry CourseID and Value.
type Action struct {
	Area     Area
	Op       Operation
	CourseID string
	ItemID   string
	Token    string
	Value    int
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidOperation    = errors.New("invalid callback operation")
	errInvalidValue        = errors.New("invalid callback value")
	errInvalidID           = errors.New("invalid callback id")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildEnrollCallback(courseID string) (string, error) {
	if !isCallbackID(courseID) {
		return "", errInvalidID
	}
	return validateCallbackData(join(AreaCourse, OpEnroll, courseID))
}

func BuildOpenLessonCallback(courseID, lessonID string) (string, error) {
	return buildCourseItemCallback(OpOpenLesson, courseID, lessonID)
}

func BuildCompleteLessonCallback(courseID, lessonID string) (string, error) {
	return buildCourseItemCallback(OpCompleteLesson, courseID, lessonID)
}

func BuildStartQuizCallback(courseID, quizID string) (string, error) {
	return buildCourseItemCallback(OpStartQuiz, courseID, quizID)
}

func BuildAnswerCallback(token string, option int) (string, error) {
	if !isCallbackID(token) {
		return "", errInvalidID
	}
	if option < 0 {
		return "", errInvalidValue
	}
	return validateCallbackData(join(AreaQuiz, OpAnswer, token, strconv.Itoa(option)))
}

func BuildShowMeaningCallback(courseID string, idx int) (string, error) {
	return buildVocabCallback(OpShowMeaning, courseID, idx)
}

func BuildNextCardCallback(courseID string, idx int) (string, error) {
	return buildVocabCallback(OpNextCard, courseID, idx)
}

func ParseCallbackData(data string) (Action, error) {
	if data == "" {
		return Action{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return Action{}, errCallbackDataTooLong
	}

	parts := strings.Split(data, ":")
	if len(parts) < 3 {
		return Action{}, errInvalidAction
	}
	area, op := Area(parts[0]), Operation(parts[1])

	switch area {
	case AreaCourse:
		return parseCourseAction(op, parts[2:])
	case AreaQuiz:
		if op != OpAnswer {
			return Action{}, errInvalidOperation
		}
		if len(parts) != 4 || !isCallbackID(parts[2]) {
			return Action{}, errInvalidAction
		}
		value, err := parseUnsigned(parts[3])
		if err != nil {
			return Action{}, err
		}
		return Action{Area: area, Op: op, Token: parts[2], Value: value}, nil
	case AreaVocab:
		if op != OpShowMeaning && op != OpNextCard {
			return Action{}, errInvalidOperation
		}
		if len(parts) != 4 || !isCallbackID(parts[2]) {
			return Action{}, errInvalidAction
		}
		value, err := parseUnsigned(parts[3])
		if err != nil {
			return Action{}, err
		}
		return Action{Area: area, Op: op, CourseID: parts[2], Value: value}, nil
	default:
		return Action{}, errInvalidPrefix
	}
}

func parseCourseAction(op Operation, rest []string) (Action, error) {
	switch op {
	case OpEnroll:
		if len(rest) != 1 || !isCallbackID(rest[0]) {
			return Action{}, errInvalidAction
		}
		return Action{Area: AreaCourse, Op: op, CourseID: rest[0]}, nil
	case OpOpenLesson, OpCompleteLesson, OpStartQuiz:
		if len(rest) != 2 || !isCallbackID(rest[0]) || !isCallbackID(rest[1]) {
			return Action{}, errInvalidAction
		}
		return Action{Area: AreaCourse, Op: op, CourseID: rest[0], ItemID: rest[1]}, nil
	default:
		return Action{}, errInvalidOperation
	}
}

func buildCourseItemCallback(op Operation, courseID, itemID string) (string, error) {
	if !isCallbackID(courseID) || !isCallbackID(itemID) {
		return "", errInvalidID
	}
	return validateCallbackData(join(AreaCourse, op, courseID, itemID))
}

func buildVocabCallback(op Operation, courseID string, idx int) (string, error) {
	if !isCallbackID(courseID) {
		return "", errInvalidID
	}
	if idx < 0 {
		return "", errInvalidValue
	}
	return validateCallbackData(join(AreaVocab, op, courseID, strconv.Itoa(idx)))
}

func join(area Area, op Operation, rest ...string) string {
	return string(area) + ":" + string(op) + ":" + strings.Join(rest, ":")
}

func validateCallbackData(data string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func isCallbackID(value string) bool {
	return value != "" && !strings.ContainsAny(value, ": \t\n")
}

func parseUnsigned(value string) (int, error) {
	if !isASCIIUnsignedInt(value) {
		return 0, errInvalidValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errInvalidValue
	}
	return parsed, nil
}

func isASCIIUnsignedInt(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
