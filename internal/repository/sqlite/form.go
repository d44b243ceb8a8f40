package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
	"github.com/Umesh-Verma07/AynaForm/pkg/repository"
)

const formColumns = `id, title, description, questions, created_by, accepting_responses, created`

type scanner interface {
	Scan(dest ...any) error
}

func scanForm(s scanner) (*models.Form, error) {
	var (
		f         models.Form
		questions string
		created   int64
	)
	if err := s.Scan(&f.ID, &f.Title, &f.Description, &questions, &f.CreatedBy, &f.AcceptingResponses, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(questions), &f.Questions); err != nil {
		return nil, fmt.Errorf("decode questions of form %s: %w", f.ID, err)
	}
	f.CreatedAt = fromMillis(created)
	return &f, nil
}

func encodeQuestions(qs []models.Question) (string, error) {
	if qs == nil {
		qs = []models.Question{}
	}
	b, err := json.Marshal(qs)
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}
	return string(b), nil
}

func (r *SQLiteRepo) CreateForm(ctx context.Context, f *models.Form) error {
	if f == nil {
		return fmt.Errorf("form is nil")
	}
	questions, err := encodeQuestions(f.Questions)
	if err != nil {
		return err
	}
	_, err = r.conn.Exec(ctx, `INSERT INTO forms (`+formColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Title, f.Description, questions, f.CreatedBy, f.AcceptingResponses, toMillis(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert form: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) GetForm(ctx context.Context, id string) (*models.Form, error) {
	f, err := scanForm(r.conn.QueryRow(ctx, `SELECT `+formColumns+` FROM forms WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get form: %w", err)
	}
	return f, nil
}

func (r *SQLiteRepo) ListFormsByOwner(ctx context.Context, ownerID string) ([]models.Form, error) {
	return r.listForms(ctx, `SELECT `+formColumns+` FROM forms WHERE created_by = ? ORDER BY rowid`, ownerID)
}

func (r *SQLiteRepo) ListForms(ctx context.Context) ([]models.Form, error) {
	return r.listForms(ctx, `SELECT `+formColumns+` FROM forms ORDER BY rowid`)
}

func (r *SQLiteRepo) listForms(ctx context.Context, query string, args ...any) ([]models.Form, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	forms := []models.Form{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, *f)
	}
	return forms, rows.Err()
}

// UpdateForm persists the edited form and prunes answers to removed questions
// in a single transaction.
func (r *SQLiteRepo) UpdateForm(ctx context.Context, f *models.Form, prunedQuestionIDs []string) error {
	if f == nil {
		return fmt.Errorf("form is nil")
	}
	questions, err := encodeQuestions(f.Questions)
	if err != nil {
		return err
	}
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE forms SET title = ?, description = ?, questions = ?, accepting_responses = ? WHERE id = ? AND created_by = ?`,
			f.Title, f.Description, questions, f.AcceptingResponses, f.ID, f.CreatedBy)
		if err != nil {
			return fmt.Errorf("update form: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return repository.ErrNotFound
		}
		removed, err := pruneAnswers(ctx, tx, f.ID, prunedQuestionIDs)
		if err != nil {
			return err
		}
		if removed > 0 {
			r.logger.Debug("pruned answers on form edit", "form_id", f.ID, "removed", removed)
		}
		return nil
	})
}

// DeleteForm removes the form and its responses in a single transaction.
// The schema cascades responses and answers; the explicit delete keeps the
// guarantee when a database was opened without foreign key enforcement.
func (r *SQLiteRepo) DeleteForm(ctx context.Context, id, ownerID string) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM forms WHERE id = ? AND created_by = ?`, id, ownerID)
		if err != nil {
			return fmt.Errorf("delete form: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return repository.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM response_answers WHERE response_id IN (SELECT id FROM responses WHERE form_id = ?)`, id); err != nil {
			return fmt.Errorf("delete answers: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM responses WHERE form_id = ?`, id); err != nil {
			return fmt.Errorf("delete responses: %w", err)
		}
		return nil
	})
}
