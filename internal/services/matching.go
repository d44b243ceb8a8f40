package services

import (
	"fmt"
	"strconv"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

// AnswerMatching selects how the query layer pairs answers with questions.
type AnswerMatching string

const (
	// MatchByID pairs an answer with the question whose id it carries.
	MatchByID AnswerMatching = "id"
	// MatchByPosition pairs the answer at index i with question i.
	MatchByPosition AnswerMatching = "position"
)

func ParseAnswerMatching(s string) (AnswerMatching, error) {
	switch m := AnswerMatching(s); m {
	case "":
		return MatchByID, nil
	case MatchByID, MatchByPosition:
		return m, nil
	default:
		return "", fmt.Errorf("unknown answer matching %q", s)
	}
}

// answerTo returns the value r gave for question q at index i of the form.
func (m AnswerMatching) answerTo(r models.Response, q models.Question, i int) (any, bool) {
	if m == MatchByPosition {
		if i < len(r.Answers) {
			return r.Answers[i].Value, true
		}
		return nil, false
	}
	for _, a := range r.Answers {
		if a.QuestionID == q.ID {
			return a.Value, true
		}
	}
	return nil, false
}

// scalarText renders a JSON scalar the way it reads as an option label or
// unquoted CSV cell.
func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
