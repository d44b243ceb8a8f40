package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
	"github.com/Umesh-Verma07/AynaForm/pkg/repository"
)

// FormService owns form lifecycle and keeps responses consistent with the
// questions of their form.
type FormService struct {
	forms     repository.FormRepo
	responses repository.ResponseRepo
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

func NewFormService(forms repository.FormRepo, responses repository.ResponseRepo, logger *slog.Logger) *FormService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormService{
		forms:     forms,
		responses: responses,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *FormService) CreateForm(ctx context.Context, ownerID string, in models.FormInput) (*models.Form, error) {
	if err := validateFormInput(in); err != nil {
		return nil, err
	}
	f := &models.Form{
		ID:                 s.newID(),
		Title:              in.Title,
		Questions:          NewQuestions(in.Questions, s.newID),
		CreatedBy:          ownerID,
		CreatedAt:          s.now().UTC(),
		AcceptingResponses: true,
	}
	if in.Description != nil {
		f.Description = *in.Description
	}
	if in.AcceptingResponses != nil {
		f.AcceptingResponses = *in.AcceptingResponses
	}
	if err := s.forms.CreateForm(ctx, f); err != nil {
		return nil, fmt.Errorf("create form: %w", err)
	}
	s.logger.Info("form created", "form_id", f.ID, "owner_id", ownerID, "questions", len(f.Questions))
	return f, nil
}

func (s *FormService) ListForms(ctx context.Context, ownerID string) ([]models.Form, error) {
	forms, err := s.forms.ListFormsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return forms, nil
}

// GetForm returns any form by id. Reading a form needs no ownership.
func (s *FormService) GetForm(ctx context.Context, id string) (*models.Form, error) {
	f, err := s.forms.GetForm(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}
	if f == nil {
		return nil, errFormNotFound
	}
	return f, nil
}

// OwnedForm returns the form when ownerID created it. Missing forms and forms
// of other users are reported identically.
func (s *FormService) OwnedForm(ctx context.Context, ownerID, id string) (*models.Form, error) {
	f, err := s.forms.GetForm(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}
	if f == nil || f.CreatedBy != ownerID {
		return nil, errFormNotFound
	}
	return f, nil
}

// UpdateForm applies an edit. Question identity is resolved against the
// stored form and answers to removed questions are pruned with the update.
func (s *FormService) UpdateForm(ctx context.Context, ownerID, id string, in models.FormInput) (*models.Form, error) {
	current, err := s.OwnedForm(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := validateFormInput(in); err != nil {
		return nil, err
	}

	edit := ApplyFormEdit(current.Questions, in.Questions, s.newID)
	updated := *current
	updated.Title = in.Title
	updated.Questions = edit.Questions
	if in.Description != nil {
		updated.Description = *in.Description
	}
	if in.AcceptingResponses != nil {
		updated.AcceptingResponses = *in.AcceptingResponses
	}

	if err := s.forms.UpdateForm(ctx, &updated, edit.PrunedQuestionIDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errFormNotFound
		}
		return nil, fmt.Errorf("update form: %w", err)
	}
	s.logger.Info("form updated", "form_id", id, "pruned_questions", len(edit.PrunedQuestionIDs))
	return &updated, nil
}

// DeleteForm removes the form and every response submitted to it.
func (s *FormService) DeleteForm(ctx context.Context, ownerID, id string) error {
	if _, err := s.OwnedForm(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.forms.DeleteForm(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errFormNotFound
		}
		return fmt.Errorf("delete form: %w", err)
	}
	s.logger.Info("form deleted", "form_id", id)
	return nil
}

// DeleteQuestionAnswers strikes every answer to questionID from the form's
// responses. Repeating the call is a no-op.
func (s *FormService) DeleteQuestionAnswers(ctx context.Context, ownerID, formID, questionID string) error {
	if _, err := s.OwnedForm(ctx, ownerID, formID); err != nil {
		return err
	}
	removed, err := s.responses.PruneAnswers(ctx, formID, []string{questionID})
	if err != nil {
		return fmt.Errorf("prune answers: %w", err)
	}
	s.logger.Info("question answers deleted", "form_id", formID, "question_id", questionID, "removed", removed)
	return nil
}

// RepairOrphans prunes answers of the form that reference questions no
// longer on it, returning the number of answers removed.
func (s *FormService) RepairOrphans(ctx context.Context, form *models.Form) (int64, error) {
	responses, err := s.responses.ListResponsesByForm(ctx, form.ID)
	if err != nil {
		return 0, fmt.Errorf("list responses: %w", err)
	}
	orphans := OrphanedQuestionIDs(form, responses)
	if len(orphans) == 0 {
		return 0, nil
	}
	removed, err := s.responses.PruneAnswers(ctx, form.ID, orphans)
	if err != nil {
		return 0, fmt.Errorf("prune answers: %w", err)
	}
	return removed, nil
}

// RepairAll runs RepairOrphans over every stored form.
func (s *FormService) RepairAll(ctx context.Context) (int64, error) {
	forms, err := s.forms.ListForms(ctx)
	if err != nil {
		return 0, fmt.Errorf("list forms: %w", err)
	}
	var total int64
	for i := range forms {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		removed, err := s.RepairOrphans(ctx, &forms[i])
		if err != nil {
			return total, err
		}
		if removed > 0 {
			s.logger.Warn("pruned orphaned answers", "form_id", forms[i].ID, "removed", removed)
		}
		total += removed
	}
	return total, nil
}
