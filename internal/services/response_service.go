package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
	"github.com/Umesh-Verma07/AynaForm/pkg/repository"
)

// ResponseOptions tunes submission checks and answer matching.
type ResponseOptions struct {
	Matching AnswerMatching
	// Strict rejects answers to unknown questions, blank required answers and
	// multiple choice answers outside the declared options.
	Strict bool
}

// ResponseService accepts public submissions and serves read-only
// aggregations to form owners.
type ResponseService struct {
	forms     *FormService
	responses repository.ResponseRepo
	opts      ResponseOptions
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

func NewResponseService(forms *FormService, responses repository.ResponseRepo, opts ResponseOptions, logger *slog.Logger) *ResponseService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Matching == "" {
		opts.Matching = MatchByID
	}
	return &ResponseService{
		forms:     forms,
		responses: responses,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Submit stores an anonymous response. A duplicate submission is stored as a
// separate response.
func (s *ResponseService) Submit(ctx context.Context, formID string, answers []models.Answer) (*models.Response, error) {
	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !form.AcceptingResponses {
		return nil, NewFormClosedError("Form is not accepting responses")
	}
	if len(answers) != len(form.Questions) {
		return nil, NewValidationError("Invalid answers", FieldError{
			Message: fmt.Sprintf("expected %d answers, got %d", len(form.Questions), len(answers)),
			Path:    []string{"answers"},
			Code:    "length",
		})
	}
	if s.opts.Strict {
		if err := checkAnswers(form, answers); err != nil {
			return nil, err
		}
	}

	resp := &models.Response{
		ID:          s.newID(),
		FormID:      form.ID,
		Answers:     slices.Clone(answers),
		SubmittedAt: s.now().UTC(),
	}
	if err := s.responses.CreateResponse(ctx, resp); err != nil {
		return nil, fmt.Errorf("create response: %w", err)
	}
	s.logger.Info("response submitted", "form_id", form.ID, "response_id", resp.ID)
	return resp, nil
}

func (s *ResponseService) ListResponses(ctx context.Context, ownerID, formID string) ([]models.Response, error) {
	_, responses, err := s.load(ctx, ownerID, formID)
	return responses, err
}

func (s *ResponseService) Summary(ctx context.Context, ownerID, formID string) ([]models.QuestionSummary, error) {
	form, responses, err := s.load(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}
	return Summarize(form, responses, s.opts.Matching), nil
}

func (s *ResponseService) Export(ctx context.Context, ownerID, formID string) ([]byte, error) {
	form, responses, err := s.load(ctx, ownerID, formID)
	if err != nil {
		return nil, err
	}
	return ExportCSV(form, responses, s.opts.Matching)
}

func (s *ResponseService) load(ctx context.Context, ownerID, formID string) (*models.Form, []models.Response, error) {
	form, err := s.forms.OwnedForm(ctx, ownerID, formID)
	if err != nil {
		return nil, nil, err
	}
	responses, err := s.responses.ListResponsesByForm(ctx, form.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list responses: %w", err)
	}
	return form, responses, nil
}

func checkAnswers(form *models.Form, answers []models.Answer) error {
	byID := make(map[string]models.Question, len(form.Questions))
	for _, q := range form.Questions {
		byID[q.ID] = q
	}

	var fields []FieldError
	seen := make(map[string]bool, len(answers))
	for i, a := range answers {
		path := []string{"answers", strconv.Itoa(i)}
		q, ok := byID[a.QuestionID]
		switch {
		case !ok:
			fields = append(fields, FieldError{Message: "unknown question", Path: append(path, "questionId"), Code: "unknown"})
			continue
		case seen[a.QuestionID]:
			fields = append(fields, FieldError{Message: "question answered twice", Path: append(path, "questionId"), Code: "duplicate"})
			continue
		}
		seen[a.QuestionID] = true

		blank := a.Value == nil || a.Value == ""
		if blank {
			if q.Required {
				fields = append(fields, FieldError{Message: "answer is required", Path: append(path, "answer"), Code: "required"})
			}
			continue
		}
		if q.Type == models.QuestionMCQ && !slices.Contains(q.Options, scalarText(a.Value)) {
			fields = append(fields, FieldError{Message: "answer must be one of the options", Path: append(path, "answer"), Code: "enum"})
		}
	}
	if len(fields) > 0 {
		return NewValidationError("Invalid answers", fields...)
	}
	return nil
}
