package models

// Answer is one graded question inside a Result. SelectedOption is nil when
// the student left the question unanswered; an unanswered question counts
// as incorrect.
type Answer struct {
	ID             int     `json:"id"`
	Question       string  `json:"question"`
	OptionA        string  `json:"optionA"`
	OptionB        string  `json:"optionB"`
	OptionC        string  `json:"optionC"`
	OptionD        string  `json:"optionD"`
	CorrectOption  string  `json:"correct_option"`
	SelectedOption *string `json:"selected_option"`
	Subject        string  `json:"subject"`
	Difficulty     string  `json:"difficulty"`
}

func (a Answer) Answered() bool {
	return a.SelectedOption != nil && *a.SelectedOption != ""
}

func (a Answer) Correct() bool {
	return a.Answered() && *a.SelectedOption == a.CorrectOption
}

// Result is a graded attempt by one student, denormalized from the test it
// references. Answers keep the order the student saw the questions in.
type Result struct {
	ID           int      `json:"id"`
	TestID       int      `json:"testId"`
	TestName     string   `json:"testName"`
	MarksScored  int      `json:"marksScored"`
	TotalMarks   int      `json:"totalMarks"`
	Difficulty   string   `json:"difficulty"`
	Subject      string   `json:"subject"`
	StudentID    string   `json:"studentId"`
	StudentName  string   `json:"studentName"`
	StudentEmail string   `json:"studentEmail"`
	TeacherEmail string   `json:"teacherEmail"`
	Department   string   `json:"department"`
	Answers      []Answer `json:"answers"`
}

func (r Result) CorrectCount() int {
	count := 0
	for _, a := range r.Answers {
		if a.Correct() {
			count++
		}
	}
	return count
}

func (r Result) Percentage() float64 {
	if r.TotalMarks == 0 {
		return 0
	}
	return float64(r.MarksScored) / float64(r.TotalMarks) * 100
}
