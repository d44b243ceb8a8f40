package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OptionCount is the tally of one declared option of a multiple choice question.
type OptionCount struct {
	Option string
	Count  int
}

// OptionCounts marshals as a JSON object whose keys keep option order.
type OptionCounts []OptionCount

func (c OptionCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, oc := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(oc.Option)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", oc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *OptionCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("option counts: expected object, got %v", tok)
	}
	out := OptionCounts{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("option counts %q: %w", key, err)
		}
		out = append(out, OptionCount{Option: key, Count: n})
	}
	*c = out
	return nil
}

// Get returns the count recorded for option.
func (c OptionCounts) Get(option string) (int, bool) {
	for _, oc := range c {
		if oc.Option == option {
			return oc.Count, true
		}
	}
	return 0, false
}

// QuestionSummary aggregates the responses to one question. Multiple choice
// questions carry Counts; text questions carry every answer in response order,
// with nil for responses that gave none.
type QuestionSummary struct {
	QuestionID string
	Question   string
	Type       QuestionType
	Counts     OptionCounts
	Answers    []any
}

type questionSummaryJSON struct {
	QuestionID string        `json:"questionId"`
	Question   string        `json:"question"`
	Type       QuestionType  `json:"type"`
	Counts     *OptionCounts `json:"counts,omitempty"`
	Answers    *[]any        `json:"answers,omitempty"`
}

func (s QuestionSummary) MarshalJSON() ([]byte, error) {
	out := questionSummaryJSON{QuestionID: s.QuestionID, Question: s.Question, Type: s.Type}
	if s.Type == QuestionMCQ {
		counts := s.Counts
		if counts == nil {
			counts = OptionCounts{}
		}
		out.Counts = &counts
	} else {
		answers := s.Answers
		if answers == nil {
			answers = []any{}
		}
		out.Answers = &answers
	}
	return json.Marshal(out)
}

func (s *QuestionSummary) UnmarshalJSON(data []byte) error {
	var in questionSummaryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = QuestionSummary{QuestionID: in.QuestionID, Question: in.Question, Type: in.Type}
	if in.Counts != nil {
		s.Counts = *in.Counts
	}
	if in.Answers != nil {
		s.Answers = *in.Answers
	}
	return nil
}
