package services

import (
	"slices"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

// FormEdit is the result of reconciling an edit request with a stored form.
type FormEdit struct {
	// Questions is the list to persist, in submitted order.
	Questions []models.Question
	// PrunedQuestionIDs are stored question ids absent from Questions. Answers
	// referencing them must be struck from every response of the form.
	PrunedQuestionIDs []string
}

// ApplyFormEdit resolves question identity for an edit. An incoming question
// whose id matches a current question keeps that id; any other incoming
// question (no id, an unknown id, or a repeated id) gets a fresh one.
func ApplyFormEdit(current []models.Question, incoming []models.QuestionInput, newID func() string) FormEdit {
	known := make(map[string]bool, len(current))
	for _, q := range current {
		known[q.ID] = true
	}

	kept := make(map[string]bool, len(incoming))
	questions := make([]models.Question, 0, len(incoming))
	for _, in := range incoming {
		id := in.ID
		if id == "" || !known[id] || kept[id] {
			id = newID()
		}
		kept[id] = true
		questions = append(questions, buildQuestion(id, in))
	}

	var pruned []string
	for _, q := range current {
		if !kept[q.ID] {
			pruned = append(pruned, q.ID)
		}
	}
	return FormEdit{Questions: questions, PrunedQuestionIDs: pruned}
}

// NewQuestions builds the questions of a new form. Client supplied ids are
// ignored.
func NewQuestions(incoming []models.QuestionInput, newID func() string) []models.Question {
	questions := make([]models.Question, 0, len(incoming))
	for _, in := range incoming {
		questions = append(questions, buildQuestion(newID(), in))
	}
	return questions
}

func buildQuestion(id string, in models.QuestionInput) models.Question {
	required := true
	if in.Required != nil {
		required = *in.Required
	}
	options := slices.Clone(in.Options)
	if options == nil {
		options = []string{}
	}
	return models.Question{
		ID:       id,
		Text:     in.Text,
		Type:     in.Type,
		Required: required,
		Options:  options,
	}
}

// OrphanedQuestionIDs lists, in first-seen order, the question ids referenced
// by answers in responses that no longer exist on the form.
func OrphanedQuestionIDs(form *models.Form, responses []models.Response) []string {
	live := make(map[string]bool, len(form.Questions))
	for _, q := range form.Questions {
		live[q.ID] = true
	}
	var orphans []string
	for _, r := range responses {
		for _, a := range r.Answers {
			if !live[a.QuestionID] && !slices.Contains(orphans, a.QuestionID) {
				orphans = append(orphans, a.QuestionID)
			}
		}
	}
	return orphans
}
