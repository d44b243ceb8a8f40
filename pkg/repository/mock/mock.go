package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
	"github.com/Umesh-Verma07/AynaForm/pkg/repository"
)

var (
	_ repository.UserRepo     = (*Store)(nil)
	_ repository.FormRepo     = (*Store)(nil)
	_ repository.ResponseRepo = (*Store)(nil)
)

// Store is an in-memory document store used by tests. It copies values on the
// way in and out so callers never alias stored state.
type Store struct {
	mu        sync.Mutex
	users     []models.User
	forms     []models.Form
	responses []models.Response

	// Injected failures, returned before any mutation.
	CreateUserErr     error
	CreateFormErr     error
	UpdateFormErr     error
	DeleteFormErr     error
	CreateResponseErr error
	ListResponsesErr  error
	PruneErr          error
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateUserErr != nil {
		return s.CreateUserErr
	}
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	s.users = append(s.users, *u)
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateForm(ctx context.Context, f *models.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateFormErr != nil {
		return s.CreateFormErr
	}
	s.forms = append(s.forms, cloneForm(*f))
	return nil
}

func (s *Store) GetForm(ctx context.Context, id string) (*models.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.formIndex(id); i >= 0 {
		f := cloneForm(s.forms[i])
		return &f, nil
	}
	return nil, nil
}

func (s *Store) ListFormsByOwner(ctx context.Context, ownerID string) ([]models.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Form{}
	for _, f := range s.forms {
		if f.CreatedBy == ownerID {
			out = append(out, cloneForm(f))
		}
	}
	return out, nil
}

func (s *Store) ListForms(ctx context.Context) ([]models.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Form, 0, len(s.forms))
	for _, f := range s.forms {
		out = append(out, cloneForm(f))
	}
	return out, nil
}

func (s *Store) UpdateForm(ctx context.Context, f *models.Form, prunedQuestionIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateFormErr != nil {
		return s.UpdateFormErr
	}
	i := s.formIndex(f.ID)
	if i < 0 || s.forms[i].CreatedBy != f.CreatedBy {
		return repository.ErrNotFound
	}
	stored := &s.forms[i]
	stored.Title = f.Title
	stored.Description = f.Description
	stored.Questions = slices.Clone(f.Questions)
	stored.AcceptingResponses = f.AcceptingResponses
	s.prune(f.ID, prunedQuestionIDs)
	return nil
}

func (s *Store) DeleteForm(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteFormErr != nil {
		return s.DeleteFormErr
	}
	i := s.formIndex(id)
	if i < 0 || s.forms[i].CreatedBy != ownerID {
		return repository.ErrNotFound
	}
	s.forms = slices.Delete(s.forms, i, i+1)
	s.responses = slices.DeleteFunc(s.responses, func(r models.Response) bool { return r.FormID == id })
	return nil
}

func (s *Store) CreateResponse(ctx context.Context, r *models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateResponseErr != nil {
		return s.CreateResponseErr
	}
	c := *r
	c.Answers = slices.Clone(r.Answers)
	s.responses = append(s.responses, c)
	return nil
}

func (s *Store) ListResponsesByForm(ctx context.Context, formID string) ([]models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListResponsesErr != nil {
		return nil, s.ListResponsesErr
	}
	out := []models.Response{}
	for _, r := range s.responses {
		if r.FormID == formID {
			c := r
			c.Answers = slices.Clone(r.Answers)
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) PruneAnswers(ctx context.Context, formID string, questionIDs []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PruneErr != nil {
		return 0, s.PruneErr
	}
	return s.prune(formID, questionIDs), nil
}

// ResponseCount reports how many responses are stored across all forms.
func (s *Store) ResponseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.responses)
}

func (s *Store) prune(formID string, questionIDs []string) int64 {
	if len(questionIDs) == 0 {
		return 0
	}
	var removed int64
	for i := range s.responses {
		r := &s.responses[i]
		if r.FormID != formID {
			continue
		}
		before := len(r.Answers)
		r.Answers = slices.DeleteFunc(r.Answers, func(a models.Answer) bool {
			return slices.Contains(questionIDs, a.QuestionID)
		})
		removed += int64(before - len(r.Answers))
	}
	return removed
}

func (s *Store) formIndex(id string) int {
	return slices.IndexFunc(s.forms, func(f models.Form) bool { return f.ID == id })
}

func cloneForm(f models.Form) models.Form {
	f.Questions = slices.Clone(f.Questions)
	for i := range f.Questions {
		f.Questions[i].Options = slices.Clone(f.Questions[i].Options)
	}
	return f
}
