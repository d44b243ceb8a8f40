package services

import (
	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

// Summarize aggregates responses per question in form order. Multiple choice
// questions count each declared option, including those never chosen; answers
// matching no option are left out. Text questions list every response's answer.
func Summarize(form *models.Form, responses []models.Response, matching AnswerMatching) []models.QuestionSummary {
	summary := make([]models.QuestionSummary, 0, len(form.Questions))
	for i, q := range form.Questions {
		qs := models.QuestionSummary{QuestionID: q.ID, Question: q.Text, Type: q.Type}
		if q.Type == models.QuestionMCQ {
			qs.Counts = countOptions(q, i, responses, matching)
		} else {
			qs.Answers = make([]any, 0, len(responses))
			for _, r := range responses {
				v, _ := matching.answerTo(r, q, i)
				qs.Answers = append(qs.Answers, v)
			}
		}
		summary = append(summary, qs)
	}
	return summary
}

func countOptions(q models.Question, i int, responses []models.Response, matching AnswerMatching) models.OptionCounts {
	counts := make(models.OptionCounts, 0, len(q.Options))
	slot := make(map[string]int, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := slot[opt]; dup {
			continue
		}
		slot[opt] = len(counts)
		counts = append(counts, models.OptionCount{Option: opt})
	}
	for _, r := range responses {
		v, ok := matching.answerTo(r, q, i)
		if !ok || v == nil {
			continue
		}
		if idx, ok := slot[scalarText(v)]; ok {
			counts[idx].Count++
		}
	}
	return counts
}
