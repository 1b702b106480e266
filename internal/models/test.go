package models

// Test is a scheduled set of questions. Field names follow the remote API
// wire format, camelCase included.
type Test struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Marks          int    `json:"marks"`
	TotalQuestions int    `json:"totalQuestions"`
	Duration       int    `json:"duration"`
	Difficulty     string `json:"difficulty"`
	Subject        string `json:"subject"`
	ScheduleDate   string `json:"scheduleDate"`
	CreatedBy      string `json:"createdBy"`
}
