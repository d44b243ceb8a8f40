package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	dbfs "github.com/Umesh-Verma07/AynaForm/db"
	dbpkg "github.com/Umesh-Verma07/AynaForm/internal/db"
	sqlite "github.com/Umesh-Verma07/AynaForm/internal/repository/sqlite"
	"github.com/Umesh-Verma07/AynaForm/pkg/models"
	"github.com/Umesh-Verma07/AynaForm/pkg/repository"
)

func setupRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	d, err := dbpkg.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.New(d, nil)
}

func seedUser(t *testing.T, repo *sqlite.SQLiteRepo, id string) {
	t.Helper()
	u := &models.User{ID: id, Username: "user-" + id, PasswordHash: "hash", CreatedAt: time.Now()}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func sampleForm(id, owner string) *models.Form {
	return &models.Form{
		ID:          id,
		Title:       "Survey " + id,
		Description: "",
		Questions: []models.Question{
			{ID: id + "-q1", Text: "Name", Type: models.QuestionText, Required: true, Options: []string{}},
			{ID: id + "-q2", Text: "Pick", Type: models.QuestionMCQ, Required: false, Options: []string{"A", "B"}},
		},
		CreatedBy:          owner,
		CreatedAt:          time.Now(),
		AcceptingResponses: true,
	}
}

func TestUserCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil user")
	}

	got, err := repo.GetUserByUsername(ctx, "nobody")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing user, got %#v, %v", got, err)
	}

	u := &models.User{ID: "u1", Username: "admin", PasswordHash: "h", CreatedAt: time.Now()}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	got, err = repo.GetUserByUsername(ctx, "admin")
	if err != nil || got == nil {
		t.Fatalf("GetUserByUsername: %#v, %v", got, err)
	}
	if got.ID != "u1" || got.PasswordHash != "h" {
		t.Fatalf("unexpected user %#v", got)
	}

	dup := &models.User{ID: "u2", Username: "admin", PasswordHash: "x", CreatedAt: time.Now()}
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestFormCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "owner")
	seedUser(t, repo, "other")

	for _, id := range []string{"f1", "f2"} {
		if err := repo.CreateForm(ctx, sampleForm(id, "owner")); err != nil {
			t.Fatalf("CreateForm %s: %v", id, err)
		}
	}
	if err := repo.CreateForm(ctx, sampleForm("f3", "other")); err != nil {
		t.Fatalf("CreateForm f3: %v", err)
	}

	got, err := repo.GetForm(ctx, "f1")
	if err != nil || got == nil {
		t.Fatalf("GetForm: %#v, %v", got, err)
	}
	if len(got.Questions) != 2 || got.Questions[1].Options[1] != "B" || !got.AcceptingResponses {
		t.Fatalf("unexpected form %#v", got)
	}

	missing, err := repo.GetForm(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing form")
	}

	owned, err := repo.ListFormsByOwner(ctx, "owner")
	if err != nil {
		t.Fatalf("ListFormsByOwner: %v", err)
	}
	if len(owned) != 2 || owned[0].ID != "f1" || owned[1].ID != "f2" {
		t.Fatalf("unexpected owned forms %#v", owned)
	}

	all, err := repo.ListForms(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListForms: %d, %v", len(all), err)
	}
}

func TestUpdateForm_PrunesAnswers(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "owner")
	form := sampleForm("f1", "owner")
	if err := repo.CreateForm(ctx, form); err != nil {
		t.Fatalf("CreateForm: %v", err)
	}

	resp := &models.Response{
		ID:     "r1",
		FormID: "f1",
		Answers: []models.Answer{
			{QuestionID: "f1-q1", Value: "Ada"},
			{QuestionID: "f1-q2", Value: "A"},
		},
		SubmittedAt: time.Now(),
	}
	if err := repo.CreateResponse(ctx, resp); err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	form.Title = "Renamed"
	form.Questions = form.Questions[:1]
	form.AcceptingResponses = false
	if err := repo.UpdateForm(ctx, form, []string{"f1-q2"}); err != nil {
		t.Fatalf("UpdateForm: %v", err)
	}

	got, _ := repo.GetForm(ctx, "f1")
	if got.Title != "Renamed" || len(got.Questions) != 1 || got.AcceptingResponses {
		t.Fatalf("form not updated: %#v", got)
	}

	responses, err := repo.ListResponsesByForm(ctx, "f1")
	if err != nil {
		t.Fatalf("ListResponsesByForm: %v", err)
	}
	if len(responses) != 1 || len(responses[0].Answers) != 1 || responses[0].Answers[0].QuestionID != "f1-q1" {
		t.Fatalf("expected only f1-q1 answer to remain, got %#v", responses)
	}

	stranger := *form
	stranger.CreatedBy = "someone-else"
	if err := repo.UpdateForm(ctx, &stranger, nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner update, got %v", err)
	}
}

func TestDeleteForm_Cascades(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "owner")
	for _, id := range []string{"f1", "f2"} {
		if err := repo.CreateForm(ctx, sampleForm(id, "owner")); err != nil {
			t.Fatalf("CreateForm: %v", err)
		}
		if err := repo.CreateResponse(ctx, &models.Response{
			ID:          "r-" + id,
			FormID:      id,
			Answers:     []models.Answer{{QuestionID: id + "-q1", Value: "x"}},
			SubmittedAt: time.Now(),
		}); err != nil {
			t.Fatalf("CreateResponse: %v", err)
		}
	}

	if err := repo.DeleteForm(ctx, "f1", "intruder"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}
	if err := repo.DeleteForm(ctx, "f1", "owner"); err != nil {
		t.Fatalf("DeleteForm: %v", err)
	}
	if err := repo.DeleteForm(ctx, "f1", "owner"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	if got, _ := repo.GetForm(ctx, "f1"); got != nil {
		t.Fatalf("form still present")
	}
	gone, err := repo.ListResponsesByForm(ctx, "f1")
	if err != nil || len(gone) != 0 {
		t.Fatalf("expected no responses for deleted form, got %d, %v", len(gone), err)
	}
	kept, err := repo.ListResponsesByForm(ctx, "f2")
	if err != nil || len(kept) != 1 {
		t.Fatalf("expected sibling form responses to survive, got %d, %v", len(kept), err)
	}
}

func TestResponses_OrderAndValues(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "owner")
	if err := repo.CreateForm(ctx, sampleForm("f1", "owner")); err != nil {
		t.Fatalf("CreateForm: %v", err)
	}

	values := []any{"text", 42.5, true, nil}
	for i, v := range values {
		err := repo.CreateResponse(ctx, &models.Response{
			ID:          string(rune('a' + i)),
			FormID:      "f1",
			Answers:     []models.Answer{{QuestionID: "f1-q1", Value: v}, {QuestionID: "f1-q2", Value: "B"}},
			SubmittedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("CreateResponse %d: %v", i, err)
		}
	}

	got, err := repo.ListResponsesByForm(ctx, "f1")
	if err != nil {
		t.Fatalf("ListResponsesByForm: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("expected %d responses, got %d", len(values), len(got))
	}
	for i, r := range got {
		if r.ID != string(rune('a'+i)) {
			t.Fatalf("response %d out of order: %s", i, r.ID)
		}
		if len(r.Answers) != 2 || r.Answers[1].Value != "B" {
			t.Fatalf("unexpected answers %#v", r.Answers)
		}
		if r.Answers[0].Value != values[i] {
			t.Fatalf("value %d: expected %#v got %#v", i, values[i], r.Answers[0].Value)
		}
	}
}

func TestPruneAnswers_Idempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "owner")
	if err := repo.CreateForm(ctx, sampleForm("f1", "owner")); err != nil {
		t.Fatalf("CreateForm: %v", err)
	}
	for _, id := range []string{"r1", "r2"} {
		if err := repo.CreateResponse(ctx, &models.Response{
			ID:          id,
			FormID:      "f1",
			Answers:     []models.Answer{{QuestionID: "f1-q1", Value: "x"}, {QuestionID: "f1-q2", Value: "A"}},
			SubmittedAt: time.Now(),
		}); err != nil {
			t.Fatalf("CreateResponse: %v", err)
		}
	}

	n, err := repo.PruneAnswers(ctx, "f1", []string{"f1-q2"})
	if err != nil || n != 2 {
		t.Fatalf("first prune: %d, %v", n, err)
	}
	n, err = repo.PruneAnswers(ctx, "f1", []string{"f1-q2"})
	if err != nil || n != 0 {
		t.Fatalf("second prune should be a no-op: %d, %v", n, err)
	}
	n, err = repo.PruneAnswers(ctx, "f1", nil)
	if err != nil || n != 0 {
		t.Fatalf("empty prune: %d, %v", n, err)
	}

	got, _ := repo.ListResponsesByForm(ctx, "f1")
	for _, r := range got {
		if len(r.Answers) != 1 || r.Answers[0].QuestionID != "f1-q1" {
			t.Fatalf("unexpected answers after prune %#v", r.Answers)
		}
	}
}
