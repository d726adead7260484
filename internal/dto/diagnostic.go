package dto

import "time"

// SubmitDiagnosticRequest is the body of a diagnostic submission.
// Each list holds the selected option index per question, in section order.
// @Description Request body for submitting the diagnostic quiz
type SubmitDiagnosticRequest struct {
	Section1 []int `json:"section1"`
	Section2 []int `json:"section2"`
	Section3 []int `json:"section3"`
}

// DiagnosticResultResponse is the scored outcome returned on submission and
// on result reads. Accuracy is a 0-100 integer percentage.
type DiagnosticResultResponse struct {
	StudentType       string `json:"student_type"`
	AutismScore       int    `json:"autism_score"`
	DownSyndromeScore int    `json:"down_syndrome_score"`
	Accuracy          int    `json:"accuracy"`
	CurrentDifficulty string `json:"current_difficulty"`
	Message           string `json:"message"`
}

// AssignedContentEntryResponse is one entry of a student's path.
type AssignedContentEntryResponse struct {
	ContentID     string    `json:"content_id"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	AIRecommended bool      `json:"ai_recommended"`
	AddedDate     time.Time `json:"added_date"`
}

// StudentPathResponse is the persisted per-student path.
type StudentPathResponse struct {
	CurriculumPathID  string                         `json:"curriculum_path_id"`
	Title             string                         `json:"title"`
	PathType          string                         `json:"path_type"`
	CurrentDifficulty string                         `json:"current_difficulty"`
	Status            string                         `json:"status"`
	AssignedContent   []AssignedContentEntryResponse `json:"assigned_content"`
}

// BatchFailureResponse records one student whose regeneration failed.
type BatchFailureResponse struct {
	StudentID string `json:"student_id"`
	Error     string `json:"error"`
}

// RegenerateReportResponse summarizes a batch regeneration run.
type RegenerateReportResponse struct {
	Succeeded int                    `json:"succeeded"`
	Skipped   int                    `json:"skipped"`
	Failed    []BatchFailureResponse `json:"failed"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
