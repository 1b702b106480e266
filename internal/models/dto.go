package models

import "encoding/json"

// Data Transfer Objects for the remote exam API.

type SignupRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AddQuestionRequest struct {
	Question      string `json:"question" validate:"required"`
	OptionA       string `json:"optionA" validate:"required"`
	OptionB       string `json:"optionB" validate:"required"`
	OptionC       string `json:"optionC" validate:"required"`
	OptionD       string `json:"optionD" validate:"required"`
	CorrectOption string `json:"correct_option" validate:"required,oneof=A B C D"`
	Subject       string `json:"subject" validate:"required"`
	Difficulty    string `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
}

type CreateTestRequest struct {
	ID             string `json:"id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Marks          int    `json:"marks" validate:"required,min=1"`
	TotalQuestions int    `json:"totalQuestions" validate:"required,min=1"`
	Duration       int    `json:"duration" validate:"required,min=1"`
	Difficulty     string `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Subject        string `json:"subject" validate:"required"`
	ScheduleDate   string `json:"scheduleDate" validate:"required"`
	CreatedBy      string `json:"createdBy"`
	DeptName       string `json:"dept_name"`
}

// RawResult is one record of GET /results. Student identity arrives under
// flattened join keys and the per-question answers as a serialized JSON
// string in Data.
type RawResult struct {
	ID           int         `json:"id"`
	TestID       int         `json:"test_id"`
	Name         string      `json:"name"`
	Marks        int         `json:"marks"`
	TotalMarks   int         `json:"total_marks"`
	Difficulty   string      `json:"difficulty"`
	Subject      string      `json:"subject"`
	StudentID    json.Number `json:"students.id"`
	StudentName  string      `json:"students.name"`
	StudentEmail string      `json:"student_email"`
	TeacherEmail string      `json:"teacher_email"`
	DeptName     string      `json:"dept_name"`
	Data         string      `json:"data"`
}

type ResultsResponse struct {
	Results []RawResult `json:"results"`
}
