package domain

import (
	"fmt"
	"time"
)

// LearnerType is the learner-profile classification inferred from the
// diagnostic quiz. It drives which content catalog partition a student sees.
type LearnerType string

const (
	LearnerTypeAutism       LearnerType = "autism"
	LearnerTypeDownSyndrome LearnerType = "down_syndrome"
)

// DifficultyBand is the Easy/Medium/Hard tier derived from section-2
// accuracy. It gates content filtering independently of learner type.
type DifficultyBand string

const (
	DifficultyEasy   DifficultyBand = "easy"
	DifficultyMedium DifficultyBand = "medium"
	DifficultyHard   DifficultyBand = "hard"
)

// Diagnostic quiz sections. Sections 1 and 3 carry per-option trait weights,
// section 2 is a knowledge check with a correct-answer key.
const (
	SectionBehavioral = 1
	SectionKnowledge  = 2
	SectionPreference = 3
)

// OptionWeight holds the trait contribution of selecting one option.
// Options with no entry are scoring-neutral.
type OptionWeight struct {
	Autism       int `json:"autism"`
	DownSyndrome int `json:"down_syndrome"`
}

// Question is a single diagnostic question. Immutable once authored; edited
// only by an external admin tool.
type Question struct {
	ID            string               `json:"id"`
	Section       int                  `json:"section"`
	Order         int                  `json:"order"`
	Prompt        string               `json:"prompt"`
	Options       []string             `json:"options"`
	Weights       map[int]OptionWeight `json:"weights,omitempty"`
	CorrectOption int                  `json:"correct_option"` // -1 outside section 2
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.Prompt == "" {
		return NewError(CodeValidation, "question prompt is required", nil)
	}
	if q.Section < SectionBehavioral || q.Section > SectionPreference {
		return NewError(CodeValidation, fmt.Sprintf("invalid section: %d", q.Section), nil)
	}
	if len(q.Options) == 0 {
		return NewError(CodeValidation, "question must have at least one option", nil)
	}
	if q.Section == SectionKnowledge && (q.CorrectOption < 0 || q.CorrectOption >= len(q.Options)) {
		return NewError(CodeValidation, "section 2 question requires a valid correct option", nil)
	}
	return nil
}

// QuestionBank is the ordered catalog of diagnostic questions, grouped into
// the three sections.
type QuestionBank struct {
	Section1 []Question
	Section2 []Question
	Section3 []Question
}

// NewQuestionBank groups a flat, ordered question list into sections.
func NewQuestionBank(questions []Question) *QuestionBank {
	bank := &QuestionBank{}
	for _, q := range questions {
		switch q.Section {
		case SectionBehavioral:
			bank.Section1 = append(bank.Section1, q)
		case SectionKnowledge:
			bank.Section2 = append(bank.Section2, q)
		case SectionPreference:
			bank.Section3 = append(bank.Section3, q)
		}
	}
	return bank
}

// AnswerSet is a student's completed diagnostic submission. Created once per
// student; a second submission is rejected.
type AnswerSet struct {
	ID          string
	StudentID   string
	Section1    []int
	Section2    []int
	Section3    []int
	SubmittedAt time.Time
}

// NewAnswerSet creates a new AnswerSet instance
func NewAnswerSet(studentID string, s1, s2, s3 []int) *AnswerSet {
	return &AnswerSet{
		StudentID:   studentID,
		Section1:    s1,
		Section2:    s2,
		Section3:    s3,
		SubmittedAt: time.Now(),
	}
}

// Validate checks the answer set against the question bank: each section's
// answer list must match the section's question count and every index must
// be a valid option index for its question.
func (a *AnswerSet) Validate(bank *QuestionBank) error {
	var errs ValidationErrors

	sections := []struct {
		field     string
		answers   []int
		questions []Question
	}{
		{"section1", a.Section1, bank.Section1},
		{"section2", a.Section2, bank.Section2},
		{"section3", a.Section3, bank.Section3},
	}

	for _, s := range sections {
		if len(s.answers) != len(s.questions) {
			errs = append(errs, NewOutOfRangeError(s.field, len(s.answers), len(s.questions), len(s.questions)))
			continue
		}
		for i, selected := range s.answers {
			if selected < 0 || selected >= len(s.questions[i].Options) {
				errs = append(errs, NewInvalidFormatError(
					fmt.Sprintf("%s[%d]", s.field, i), selected))
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TestResult is the scored outcome of a diagnostic submission. Derived,
// immutable, one per student.
type TestResult struct {
	ID                string
	StudentID         string
	AutismScore       int
	DownSyndromeScore int
	Accuracy          float64 // [0, 1]
	DeterminedType    LearnerType
	CompletedAt       time.Time
}

// Student carries the engine-owned slice of the student record.
type Student struct {
	ID                string
	DeterminedType    LearnerType // empty until the diagnostic is scored
	CurrentDifficulty DifficultyBand
}

// Classified reports whether the student has a completed diagnostic.
func (s *Student) Classified() bool {
	return s.DeterminedType != ""
}
