package models

import (
	"time"
)

// Domain models matching the database schema in db/migrations/0001_init.sql

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionText QuestionType = "text"
	QuestionMCQ  QuestionType = "mcq"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Question is embedded in a Form. Its ID is stable across edits.
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Required bool         `json:"required"`
	Options  []string     `json:"options"`
}

type Form struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Questions          []Question `json:"questions"`
	CreatedBy          string     `json:"createdBy"`
	CreatedAt          time.Time  `json:"createdAt"`
	AcceptingResponses bool       `json:"acceptingResponses"`
}

// QuestionIDs returns the ids of the form's questions in form order.
func (f *Form) QuestionIDs() []string {
	ids := make([]string, 0, len(f.Questions))
	for _, q := range f.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}

// Answer is embedded in a Response. Value holds a JSON scalar
// (string, float64, bool) or nil when the question was left blank.
type Answer struct {
	QuestionID string `json:"questionId"`
	Value      any    `json:"answer"`
}

type Response struct {
	ID          string    `json:"id"`
	FormID      string    `json:"form"`
	Answers     []Answer  `json:"answers"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// FormInput is the body accepted by form create and update.
// On update, nil Description and AcceptingResponses leave the stored values untouched.
type FormInput struct {
	Title              string          `json:"title"`
	Description        *string         `json:"description,omitempty"`
	Questions          []QuestionInput `json:"questions"`
	AcceptingResponses *bool           `json:"acceptingResponses,omitempty"`
}

type QuestionInput struct {
	ID       string       `json:"id,omitempty"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Required *bool        `json:"required,omitempty"`
	Options  []string     `json:"options,omitempty"`
}

// SubmissionInput is the body of a public response submission.
type SubmissionInput struct {
	Answers []Answer `json:"answers"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
