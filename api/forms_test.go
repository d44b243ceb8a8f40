package api_test

import (
	"net/http"
	"testing"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

func createForm(t *testing.T, h http.Handler, token string, body any) models.Form {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/forms", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create form: %d %s", w.Code, w.Body.String())
	}
	return decode[models.Form](t, w)
}

func TestForms_Scenario(t *testing.T) {
	h, _ := newTestServer(t, nil)
	token := login(t, h, "admin")

	form := createForm(t, h, token, sampleForm())
	if len(form.Questions) != 2 || form.Questions[0].ID == "" {
		t.Fatalf("unexpected form %+v", form)
	}

	w := doJSON(t, h, http.MethodGet, "/api/forms/"+form.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public get: %d", w.Code)
	}
	if got := decode[models.Form](t, w); got.Title != "Test Form" {
		t.Fatalf("unexpected title %q", got.Title)
	}

	answers := map[string]any{"answers": []map[string]any{
		{"questionId": form.Questions[0].ID, "answer": "Hello"},
		{"questionId": form.Questions[1].ID, "answer": "A"},
	}}
	if w := doJSON(t, h, http.MethodPost, "/api/forms/"+form.ID+"/responses", "", answers); w.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodGet, "/api/forms/"+form.ID+"/responses", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list responses: %d", w.Code)
	}
	if got := decode[[]models.Response](t, w); len(got) != 1 {
		t.Fatalf("expected 1 response, got %d", len(got))
	}
}

func TestForms_RequireAuth(t *testing.T) {
	h, _ := newTestServer(t, nil)

	tests := []struct {
		method string
		path   string
		token  string
	}{
		{http.MethodPost, "/api/forms", ""},
		{http.MethodGet, "/api/forms", ""},
		{http.MethodPut, "/api/forms/x", ""},
		{http.MethodDelete, "/api/forms/x", ""},
		{http.MethodGet, "/api/forms/x/responses", ""},
		{http.MethodGet, "/api/forms/x/summary", ""},
		{http.MethodGet, "/api/forms/x/export", ""},
		{http.MethodDelete, "/api/forms/x/questions/q/responses", ""},
		{http.MethodGet, "/api/forms", "garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := doJSON(t, h, tt.method, tt.path, tt.token, nil)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if code := decode[errorBody](t, w).Code; code != "UNAUTHORIZED" {
				t.Fatalf("unexpected code %s", code)
			}
		})
	}
}

func TestForms_Validation(t *testing.T) {
	h, _ := newTestServer(t, nil)
	token := login(t, h, "admin")

	tests := []struct {
		name string
		body any
	}{
		{"missing title", map[string]any{"questions": []map[string]any{{"text": "Q", "type": "text"}}}},
		{"short title", map[string]any{"title": "ab", "questions": []map[string]any{{"text": "Q", "type": "text"}}}},
		{"no questions", map[string]any{"title": "Title", "questions": []any{}}},
		{"bad type", map[string]any{"title": "Title", "questions": []map[string]any{{"text": "Q", "type": "scale"}}}},
		{"mcq single option", map[string]any{"title": "Title", "questions": []map[string]any{{"text": "Q", "type": "mcq", "options": []string{"A"}}}}},
		{"mcq no options", map[string]any{"title": "Title", "questions": []map[string]any{{"text": "Q", "type": "mcq"}}}},
		{"not an object", `["title"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, "/api/forms", token, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			eb := decode[errorBody](t, w)
			if eb.Code != "VALIDATION_ERROR" || len(eb.Errors) == 0 {
				t.Fatalf("expected field-level validation error, got %s", w.Body.String())
			}
		})
	}
}

func TestForms_OwnerOnly(t *testing.T) {
	h, _ := newTestServer(t, nil)
	owner := login(t, h, "owner")
	other := login(t, h, "other")
	form := createForm(t, h, owner, sampleForm())

	if got := decode[[]models.Form](t, doJSON(t, h, http.MethodGet, "/api/forms", other, nil)); len(got) != 0 {
		t.Fatalf("other user should see no forms, got %d", len(got))
	}

	foreign := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPut, "/api/forms/" + form.ID, sampleForm()},
		{http.MethodDelete, "/api/forms/" + form.ID, nil},
		{http.MethodGet, "/api/forms/" + form.ID + "/responses", nil},
		{http.MethodGet, "/api/forms/" + form.ID + "/summary", nil},
		{http.MethodGet, "/api/forms/" + form.ID + "/export", nil},
		{http.MethodDelete, "/api/forms/" + form.ID + "/questions/" + form.Questions[0].ID + "/responses", nil},
	}
	for _, tt := range foreign {
		w := doJSON(t, h, tt.method, tt.path, other, tt.body)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tt.method, tt.path, w.Code)
		}
		eb := decode[errorBody](t, w)
		if eb.Code != "NOT_FOUND" || eb.Error != "Form not found or unauthorized" {
			t.Fatalf("unexpected error body %+v", eb)
		}
	}

	missing := doJSON(t, h, http.MethodDelete, "/api/forms/does-not-exist", owner, nil)
	if missing.Code != http.StatusNotFound || decode[errorBody](t, missing).Error != "Form not found or unauthorized" {
		t.Fatalf("missing and foreign forms must look the same, got %d %s", missing.Code, missing.Body.String())
	}

	if w := doJSON(t, h, http.MethodGet, "/api/forms/"+form.ID, "", nil); w.Code != http.StatusOK {
		t.Fatalf("form must survive foreign attempts: %d", w.Code)
	}
}

func TestForms_UpdatePrunesAnswers(t *testing.T) {
	h, _ := newTestServer(t, nil)
	token := login(t, h, "admin")
	form := createForm(t, h, token, sampleForm())
	q1, q2 := form.Questions[0], form.Questions[1]

	submit := map[string]any{"answers": []map[string]any{
		{"questionId": q1.ID, "answer": "Hello"},
		{"questionId": q2.ID, "answer": "B"},
	}}
	if w := doJSON(t, h, http.MethodPost, "/api/forms/"+form.ID+"/responses", "", submit); w.Code != http.StatusCreated {
		t.Fatalf("submit: %d", w.Code)
	}

	edit := map[string]any{
		"title": "Edited Form",
		"questions": []map[string]any{
			{"id": q2.ID, "text": "Q2 renamed", "type": "mcq", "options": []string{"A", "B", "C"}},
			{"text": "Q3", "type": "text", "required": false},
		},
	}
	w := doJSON(t, h, http.MethodPut, "/api/forms/"+form.ID, token, edit)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	updated := decode[models.Form](t, w)
	if updated.Questions[0].ID != q2.ID {
		t.Fatalf("kept question lost its id: %s", updated.Questions[0].ID)
	}
	if updated.Questions[1].ID == q1.ID || updated.Questions[1].Required {
		t.Fatalf("unexpected new question %+v", updated.Questions[1])
	}

	responses := decode[[]models.Response](t, doJSON(t, h, http.MethodGet, "/api/forms/"+form.ID+"/responses", token, nil))
	if len(responses) != 1 || len(responses[0].Answers) != 1 || responses[0].Answers[0].QuestionID != q2.ID {
		t.Fatalf("expected only the q2 answer to remain, got %+v", responses)
	}
}

func TestForms_DeleteCascades(t *testing.T) {
	h, store := newTestServer(t, nil)
	token := login(t, h, "admin")
	form := createForm(t, h, token, sampleForm())

	submit := map[string]any{"answers": []map[string]any{
		{"questionId": form.Questions[0].ID, "answer": "x"},
		{"questionId": form.Questions[1].ID, "answer": "A"},
	}}
	doJSON(t, h, http.MethodPost, "/api/forms/"+form.ID+"/responses", "", submit)

	w := doJSON(t, h, http.MethodDelete, "/api/forms/"+form.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	if msg := decode[map[string]string](t, w)["message"]; msg != "Form and responses deleted" {
		t.Fatalf("unexpected message %q", msg)
	}
	if store.ResponseCount() != 0 {
		t.Fatalf("responses survived form deletion")
	}
	if w := doJSON(t, h, http.MethodGet, "/api/forms/"+form.ID, "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestForms_DeleteQuestionAnswersIdempotent(t *testing.T) {
	h, _ := newTestServer(t, nil)
	token := login(t, h, "admin")
	form := createForm(t, h, token, sampleForm())
	submit := map[string]any{"answers": []map[string]any{
		{"questionId": form.Questions[0].ID, "answer": "x"},
		{"questionId": form.Questions[1].ID, "answer": "A"},
	}}
	doJSON(t, h, http.MethodPost, "/api/forms/"+form.ID+"/responses", "", submit)

	path := "/api/forms/" + form.ID + "/questions/" + form.Questions[0].ID + "/responses"
	for i := 0; i < 2; i++ {
		if w := doJSON(t, h, http.MethodDelete, path, token, nil); w.Code != http.StatusOK {
			t.Fatalf("delete #%d: %d", i+1, w.Code)
		}
	}

	responses := decode[[]models.Response](t, doJSON(t, h, http.MethodGet, "/api/forms/"+form.ID+"/responses", token, nil))
	if len(responses) != 1 || len(responses[0].Answers) != 1 || responses[0].Answers[0].QuestionID != form.Questions[1].ID {
		t.Fatalf("unexpected responses %+v", responses)
	}
}
