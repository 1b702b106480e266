package models

import (
	"encoding/json"
	"fmt"
)

// TransformResult maps a raw /results record onto the view-ready Result
// shape, deserializing the answer blob and preserving answer order.
func TransformResult(raw RawResult) (Result, error) {
	var answers []Answer
	if raw.Data != "" {
		if err := json.Unmarshal([]byte(raw.Data), &answers); err != nil {
			return Result{}, fmt.Errorf("failed to parse answer data for result %d: %w", raw.ID, err)
		}
	}

	return Result{
		ID:           raw.ID,
		TestID:       raw.TestID,
		TestName:     raw.Name,
		MarksScored:  raw.Marks,
		TotalMarks:   raw.TotalMarks,
		Difficulty:   raw.Difficulty,
		Subject:      raw.Subject,
		StudentID:    raw.StudentID.String(),
		StudentName:  raw.StudentName,
		StudentEmail: raw.StudentEmail,
		TeacherEmail: raw.TeacherEmail,
		Department:   raw.DeptName,
		Answers:      answers,
	}, nil
}

// TransformResults converts a full /results payload. A record with an
// unparseable answer blob fails the whole batch so the cache is never left
// holding a partially transformed collection.
func TransformResults(raw []RawResult) ([]Result, error) {
	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		result, err := TransformResult(r)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
