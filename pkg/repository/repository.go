package repository

import (
	"context"
	"errors"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Getters return (nil, nil) when the entity does not exist.

var (
	// ErrNotFound is returned by mutations addressing a row that does not exist
	// or is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate")
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type FormRepo interface {
	CreateForm(ctx context.Context, f *models.Form) error
	GetForm(ctx context.Context, id string) (*models.Form, error)
	ListFormsByOwner(ctx context.Context, ownerID string) ([]models.Form, error)
	ListForms(ctx context.Context) ([]models.Form, error)
	// UpdateForm replaces title, description, questions and acceptingResponses
	// of the form owned by f.CreatedBy, then strikes every answer of the form's
	// responses whose question id is in prunedQuestionIDs.
	UpdateForm(ctx context.Context, f *models.Form, prunedQuestionIDs []string) error
	// DeleteForm removes the form owned by ownerID together with all of its responses.
	DeleteForm(ctx context.Context, id, ownerID string) error
}

type ResponseRepo interface {
	CreateResponse(ctx context.Context, r *models.Response) error
	// ListResponsesByForm returns responses in insertion order.
	ListResponsesByForm(ctx context.Context, formID string) ([]models.Response, error)
	// PruneAnswers removes answers to the given questions from every response
	// of the form and reports how many answers were removed.
	PruneAnswers(ctx context.Context, formID string, questionIDs []string) (int64, error)
}
