package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLiteRepo) CreateResponse(ctx context.Context, resp *models.Response) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO responses (id, form_id, submitted) VALUES (?, ?, ?)`,
			resp.ID, resp.FormID, toMillis(resp.SubmittedAt)); err != nil {
			return fmt.Errorf("insert response: %w", err)
		}
		for i, a := range resp.Answers {
			value, err := json.Marshal(a.Value)
			if err != nil {
				return fmt.Errorf("encode answer %d: %w", i, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO response_answers (response_id, position, question_id, value) VALUES (?, ?, ?, ?)`,
				resp.ID, i, a.QuestionID, string(value)); err != nil {
				return fmt.Errorf("insert answer %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepo) ListResponsesByForm(ctx context.Context, formID string) ([]models.Response, error) {
	responses, err := r.listResponseHeaders(ctx, formID)
	if err != nil || len(responses) == 0 {
		return responses, err
	}

	index := make(map[string]int, len(responses))
	for i, resp := range responses {
		index[resp.ID] = i
	}

	rows, err := r.conn.Query(ctx, `
		SELECT ra.response_id, ra.question_id, ra.value
		FROM response_answers ra
		JOIN responses r ON r.id = ra.response_id
		WHERE r.form_id = ?
		ORDER BY r.rowid, ra.position`, formID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var responseID, questionID, raw string
		if err := rows.Scan(&responseID, &questionID, &raw); err != nil {
			return nil, err
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("decode answer of response %s: %w", responseID, err)
		}
		i, ok := index[responseID]
		if !ok {
			continue
		}
		responses[i].Answers = append(responses[i].Answers, models.Answer{QuestionID: questionID, Value: value})
	}
	return responses, rows.Err()
}

func (r *SQLiteRepo) listResponseHeaders(ctx context.Context, formID string) ([]models.Response, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, form_id, submitted FROM responses WHERE form_id = ? ORDER BY rowid`, formID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		var (
			resp      models.Response
			submitted int64
		)
		if err := rows.Scan(&resp.ID, &resp.FormID, &submitted); err != nil {
			return nil, err
		}
		resp.SubmittedAt = fromMillis(submitted)
		resp.Answers = []models.Answer{}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (r *SQLiteRepo) PruneAnswers(ctx context.Context, formID string, questionIDs []string) (int64, error) {
	return pruneAnswers(ctx, r.conn.GetConn(), formID, questionIDs)
}

func pruneAnswers(ctx context.Context, ex execer, formID string, questionIDs []string) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(questionIDs)+1)
	args = append(args, formID)
	for _, id := range questionIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(questionIDs)), ",")
	res, err := ex.ExecContext(ctx, `
		DELETE FROM response_answers
		WHERE response_id IN (SELECT id FROM responses WHERE form_id = ?)
		AND question_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("prune answers: %w", err)
	}
	return res.RowsAffected()
}
