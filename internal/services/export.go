package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

// ExportCSV renders the form's responses as:
//
//	"<title>"
//	<blank line>
//	<question texts>
//	<one row per response>
//
// String cells are always quoted; other scalars are written bare and a
// missing answer is an empty cell. In position mode each row lists the
// stored answers as they are, whatever their count.
func ExportCSV(form *models.Form, responses []models.Response, matching AnswerMatching) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(quoteCell(form.Title))
	buf.WriteString("\n\n")

	headers := make([]string, 0, len(form.Questions))
	for _, q := range form.Questions {
		headers = append(headers, q.Text)
	}
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	for _, r := range responses {
		var cells []string
		if matching == MatchByPosition {
			cells = make([]string, 0, len(r.Answers))
			for _, a := range r.Answers {
				cells = append(cells, formatCell(a.Value))
			}
		} else {
			cells = make([]string, 0, len(form.Questions))
			for i, q := range form.Questions {
				v, _ := matching.answerTo(r, q, i)
				cells = append(cells, formatCell(v))
			}
		}
		buf.WriteString(strings.Join(cells, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func formatCell(v any) string {
	if s, ok := v.(string); ok {
		return quoteCell(s)
	}
	return scalarText(v)
}

func quoteCell(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
