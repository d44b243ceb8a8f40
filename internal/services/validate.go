package services

import (
	"strconv"
	"unicode/utf8"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

const (
	minTitleLen  = 3
	maxTitleLen  = 100
	minQuestions = 1
	maxQuestions = 5
	minOptions   = 2
)

// validateFormInput checks the rules a form must satisfy regardless of how it
// reached the service.
func validateFormInput(in models.FormInput) error {
	var fields []FieldError
	add := func(msg, code string, path ...string) {
		fields = append(fields, FieldError{Message: msg, Path: path, Code: code})
	}

	switch n := utf8.RuneCountInString(in.Title); {
	case n == 0:
		add("title is required", "required", "title")
	case n < minTitleLen:
		add("title must be at least 3 characters long", "min_length", "title")
	case n > maxTitleLen:
		add("title must be at most 100 characters long", "max_length", "title")
	}

	switch n := len(in.Questions); {
	case n < minQuestions:
		add("questions must contain at least 1 item", "min_items", "questions")
	case n > maxQuestions:
		add("questions must contain at most 5 items", "max_items", "questions")
	}

	for i, q := range in.Questions {
		idx := strconv.Itoa(i)
		if q.Text == "" {
			add("question text is required", "required", "questions", idx, "text")
		}
		switch q.Type {
		case models.QuestionText:
		case models.QuestionMCQ:
			if len(q.Options) < minOptions {
				add("multiple choice questions need at least 2 options", "min_items", "questions", idx, "options")
			}
		default:
			add(`type must be one of "text", "mcq"`, "enum", "questions", idx, "type")
		}
		for j, opt := range q.Options {
			if opt == "" {
				add("options must not be empty", "required", "questions", idx, "options", strconv.Itoa(j))
			}
		}
	}

	if len(fields) > 0 {
		return NewValidationError("Validation failed", fields...)
	}
	return nil
}
