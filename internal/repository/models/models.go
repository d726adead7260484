package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"learnpath/internal/domain"
)

// IntSlice stores an int array as a JSON string column.
type IntSlice []int

// Value implements the driver.Valuer interface
func (s IntSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *IntSlice) Scan(value interface{}) error {
	bytesToParse, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("IntSlice Scan: %w", err)
	}
	if bytesToParse == nil {
		*s = IntSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// WeightMap stores per-option trait weights as a JSON string column.
// json.Marshal renders int keys as strings; Unmarshal accepts them back.
type WeightMap map[int]domain.OptionWeight

// Value implements the driver.Valuer interface
func (m WeightMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *WeightMap) Scan(value interface{}) error {
	bytesToParse, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("WeightMap Scan: %w", err)
	}
	if bytesToParse == nil {
		*m = WeightMap{}
		return nil
	}
	return json.Unmarshal(bytesToParse, m)
}

// EntrySlice stores assigned content entries as a JSON string column.
type EntrySlice []domain.AssignedContentEntry

// Value implements the driver.Valuer interface
func (s EntrySlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *EntrySlice) Scan(value interface{}) error {
	bytesToParse, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("EntrySlice Scan: %w", err)
	}
	if bytesToParse == nil {
		*s = EntrySlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// StringSlice stores a string array as a JSON string column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	bytesToParse, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("StringSlice Scan: %w", err)
	}
	if bytesToParse == nil {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// columnBytes normalizes a scanned column value to a JSON byte slice.
// DB NULL, empty strings and literal "null" all map to nil.
func columnBytes(value interface{}) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return nil, errors.New("unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	return b, nil
}

// DiagnosticQuestion is a row of diagnostic_questions.
type DiagnosticQuestion struct {
	ID            string        `db:"ID"`
	Section       int           `db:"SECTION_NO"`
	OrderNo       int           `db:"ORDER_NO"`
	Prompt        string        `db:"PROMPT"`
	Options       StringSlice   `db:"OPTIONS"`
	Weights       WeightMap     `db:"WEIGHTS"`
	CorrectOption sql.NullInt64 `db:"CORRECT_OPTION"`
	CreatedAt     time.Time     `db:"CREATED_AT"`
	UpdatedAt     time.Time     `db:"UPDATED_AT"`
}

// AnswerSet is a row of answer_sets.
type AnswerSet struct {
	ID          string    `db:"ID"`
	StudentID   string    `db:"STUDENT_ID"`
	Section1    IntSlice  `db:"SECTION1"`
	Section2    IntSlice  `db:"SECTION2"`
	Section3    IntSlice  `db:"SECTION3"`
	SubmittedAt time.Time `db:"SUBMITTED_AT"`
}

// TestResult is a row of test_results. STUDENT_ID carries a unique
// constraint enforcing the one-result-per-student invariant.
type TestResult struct {
	ID                string    `db:"ID"`
	StudentID         string    `db:"STUDENT_ID"`
	AutismScore       int       `db:"AUTISM_SCORE"`
	DownSyndromeScore int       `db:"DOWN_SYNDROME_SCORE"`
	Accuracy          float64   `db:"ACCURACY"`
	DeterminedType    string    `db:"DETERMINED_TYPE"`
	CompletedAt       time.Time `db:"COMPLETED_AT"`
}

// Student carries the engine-owned columns of the students table.
type Student struct {
	ID                string         `db:"ID"`
	DeterminedType    sql.NullString `db:"DETERMINED_TYPE"`
	CurrentDifficulty sql.NullString `db:"CURRENT_DIFFICULTY"`
}

// ContentItem is a row of content_items. Read-only to the engine.
type ContentItem struct {
	ID          string `db:"ID"`
	Title       string `db:"TITLE"`
	PathType    string `db:"PATH_TYPE"`
	Difficulty  string `db:"DIFFICULTY"`
	ContentType string `db:"CONTENT_TYPE"`
	Topic       string `db:"TOPIC"`
	CourseID    string `db:"COURSE_ID"`
	Status      string `db:"STATUS"`
	OrderNo     int    `db:"ORDER_NO"`
}

// CurriculumPath is a row of curriculum_paths.
type CurriculumPath struct {
	ID       string `db:"ID"`
	Title    string `db:"TITLE"`
	PathType string `db:"PATH_TYPE"`
	Status   string `db:"STATUS"`
}

// StudentPath is a row of student_paths. STUDENT_ID is unique; assigned
// content lives in a JSON column.
type StudentPath struct {
	ID               string     `db:"ID"`
	StudentID        string     `db:"STUDENT_ID"`
	CurriculumPathID string     `db:"CURRICULUM_PATH_ID"`
	AssignedContent  EntrySlice `db:"ASSIGNED_CONTENT"`
	Status           string     `db:"STATUS"`
	CreatedAt        time.Time  `db:"CREATED_AT"`
	UpdatedAt        time.Time  `db:"UPDATED_AT"`
}
