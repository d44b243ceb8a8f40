package services

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
	"github.com/Umesh-Verma07/AynaForm/pkg/repository/mock"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

type fixture struct {
	store     *mock.Store
	forms     *FormService
	responses *ResponseService
}

func newFixture(t *testing.T, opts ResponseOptions) *fixture {
	t.Helper()
	store := mock.NewStore()
	forms := NewFormService(store, store, discardLogger)
	forms.newID = sequentialIDs("id-")
	forms.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	responses := NewResponseService(forms, store, opts, discardLogger)
	responses.newID = sequentialIDs("resp-")
	return &fixture{store: store, forms: forms, responses: responses}
}

func ptr[T any](v T) *T { return &v }

func sampleInput() models.FormInput {
	return models.FormInput{
		Title: "Test Form",
		Questions: []models.QuestionInput{
			{Text: "Q1", Type: models.QuestionText},
			{Text: "Q2", Type: models.QuestionMCQ, Options: []string{"A", "B"}},
		},
	}
}

// toInputs echoes stored questions back the way an editing client would.
func toInputs(qs []models.Question) []models.QuestionInput {
	out := make([]models.QuestionInput, 0, len(qs))
	for _, q := range qs {
		out = append(out, models.QuestionInput{
			ID:       q.ID,
			Text:     q.Text,
			Type:     q.Type,
			Required: ptr(q.Required),
			Options:  q.Options,
		})
	}
	return out
}
