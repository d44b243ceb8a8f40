package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

func TestResponseService_SubmitAndList(t *testing.T) {
	f := newFixture(t, ResponseOptions{})
	ctx := context.Background()
	form, err := f.forms.CreateForm(ctx, "owner", sampleInput())
	require.NoError(t, err)
	q1, q2 := form.Questions[0].ID, form.Questions[1].ID

	resp, err := f.responses.Submit(ctx, form.ID, []models.Answer{{QuestionID: q1, Value: "Hello"}, {QuestionID: q2, Value: "A"}})
	require.NoError(t, err)
	assert.Equal(t, "resp-1", resp.ID)
	assert.Equal(t, form.ID, resp.FormID)

	// duplicates are accepted as separate responses
	_, err = f.responses.Submit(ctx, form.ID, []models.Answer{{QuestionID: q1, Value: "Hello"}, {QuestionID: q2, Value: "A"}})
	require.NoError(t, err)

	responses, err := f.responses.ListResponses(ctx, "owner", form.ID)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "resp-1", responses[0].ID)
	assert.Equal(t, "resp-2", responses[1].ID)

	_, err = f.responses.ListResponses(ctx, "intruder", form.ID)
	requireCode(t, err, ErrorNotFound)
}

func TestResponseService_SubmitRejections(t *testing.T) {
	f := newFixture(t, ResponseOptions{})
	ctx := context.Background()
	form, err := f.forms.CreateForm(ctx, "owner", sampleInput())
	require.NoError(t, err)

	_, err = f.responses.Submit(ctx, "missing", nil)
	requireCode(t, err, ErrorNotFound)

	_, err = f.responses.Submit(ctx, form.ID, []models.Answer{{QuestionID: form.Questions[0].ID, Value: "only one"}})
	se := requireCode(t, err, ErrorValidation)
	assert.Equal(t, "Invalid answers", se.Message)

	_, err = f.forms.UpdateForm(ctx, "owner", form.ID, models.FormInput{
		Title:              form.Title,
		Questions:          toInputs(form.Questions),
		AcceptingResponses: ptr(false),
	})
	require.NoError(t, err)
	_, err = f.responses.Submit(ctx, form.ID, []models.Answer{{QuestionID: "a"}, {QuestionID: "b"}})
	requireCode(t, err, ErrorFormClosed)
	assert.Zero(t, f.store.ResponseCount())
}

func TestResponseService_Strict(t *testing.T) {
	f := newFixture(t, ResponseOptions{Strict: true})
	ctx := context.Background()
	in := sampleInput()
	in.Questions[1].Required = ptr(false)
	form, err := f.forms.CreateForm(ctx, "owner", in)
	require.NoError(t, err)
	q1, q2 := form.Questions[0].ID, form.Questions[1].ID

	tests := []struct {
		name     string
		answers  []models.Answer
		wantCode string
	}{
		{"unknown question", []models.Answer{{QuestionID: q1, Value: "x"}, {QuestionID: "ghost", Value: "A"}}, "unknown"},
		{"answered twice", []models.Answer{{QuestionID: q1, Value: "x"}, {QuestionID: q1, Value: "y"}}, "duplicate"},
		{"required blank", []models.Answer{{QuestionID: q1, Value: ""}, {QuestionID: q2, Value: "A"}}, "required"},
		{"not an option", []models.Answer{{QuestionID: q1, Value: "x"}, {QuestionID: q2, Value: "C"}}, "enum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.responses.Submit(ctx, form.ID, tt.answers)
			se := requireCode(t, err, ErrorValidation)
			require.Len(t, se.Fields, 1)
			assert.Equal(t, tt.wantCode, se.Fields[0].Code)
		})
	}

	_, err = f.responses.Submit(ctx, form.ID, []models.Answer{{QuestionID: q2, Value: nil}, {QuestionID: q1, Value: "x"}})
	require.NoError(t, err, "optional questions may be left blank")
}

func TestResponseService_SummaryScenario(t *testing.T) {
	f := newFixture(t, ResponseOptions{})
	ctx := context.Background()
	form, err := f.forms.CreateForm(ctx, "owner", models.FormInput{
		Title:     "Poll",
		Questions: []models.QuestionInput{{Text: "Pick", Type: models.QuestionMCQ, Options: []string{"A", "B"}}},
	})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := f.responses.Submit(ctx, form.ID, []models.Answer{{QuestionID: form.Questions[0].ID, Value: "A"}})
		require.NoError(t, err)
	}

	summary, err := f.responses.Summary(ctx, "owner", form.ID)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, models.OptionCounts{{Option: "A", Count: 2}, {Option: "B", Count: 0}}, summary[0].Counts)

	_, err = f.responses.Summary(ctx, "intruder", form.ID)
	requireCode(t, err, ErrorNotFound)
}

func TestResponseService_Export(t *testing.T) {
	f := newFixture(t, ResponseOptions{})
	ctx := context.Background()
	form, err := f.forms.CreateForm(ctx, "owner", models.FormInput{
		Title:     `He said "hi"`,
		Questions: []models.QuestionInput{{Text: "Q1", Type: models.QuestionText}},
	})
	require.NoError(t, err)
	_, err = f.responses.Submit(ctx, form.ID, []models.Answer{{QuestionID: form.Questions[0].ID, Value: "a,b"}})
	require.NoError(t, err)

	out, err := f.responses.Export(ctx, "owner", form.ID)
	require.NoError(t, err)
	assert.Equal(t, "\"He said \"\"hi\"\"\"\n\nQ1\n\"a,b\"\n", string(out))

	boom := errors.New("read failed")
	f.store.ListResponsesErr = boom
	_, err = f.responses.Export(ctx, "owner", form.ID)
	assert.ErrorIs(t, err, boom)
}

func TestParseAnswerMatching(t *testing.T) {
	m, err := ParseAnswerMatching("")
	require.NoError(t, err)
	assert.Equal(t, MatchByID, m)
	m, err = ParseAnswerMatching("position")
	require.NoError(t, err)
	assert.Equal(t, MatchByPosition, m)
	_, err = ParseAnswerMatching("fuzzy")
	assert.Error(t, err)
}
