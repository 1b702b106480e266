package models

// User is the authenticated educator profile. Counters and the verified
// flag are server-authoritative and replaced wholesale on every login.
type User struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Department      string   `json:"department"`
	Verified        bool     `json:"verified"`
	Subjects        []string `json:"subjects"`
	TestsCreated    int      `json:"tests_created"`
	ResultsAnalyzed int      `json:"results_analyzed"`
}
