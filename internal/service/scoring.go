package service

import (
	"learnpath/internal/domain"
	"time"
)

// ScoringOptions holds the tunable constants of the diagnostic scorer.
// The asymmetric type thresholds (8 vs 6) are an intentional calibration.
type ScoringOptions struct {
	// LowAccuracyBonus is added to the down-syndrome score when section-2
	// accuracy falls below LowAccuracyThreshold. Models "more structured
	// support may be needed"; a heuristic, not a strict rule.
	LowAccuracyBonus     int
	LowAccuracyThreshold float64

	AutismThreshold       int
	DownSyndromeThreshold int
}

// DefaultScoringOptions returns the calibrated production constants.
func DefaultScoringOptions() ScoringOptions {
	return ScoringOptions{
		LowAccuracyBonus:      1,
		LowAccuracyThreshold:  0.5,
		AutismThreshold:       8,
		DownSyndromeThreshold: 6,
	}
}

// Score maps a completed answer set to a TestResult. Pure computation:
// persistence and the single-attempt check are the caller's responsibility.
func Score(answers *domain.AnswerSet, bank *domain.QuestionBank, opts ScoringOptions) (*domain.TestResult, error) {
	if err := answers.Validate(bank); err != nil {
		return nil, err
	}

	var autismScore, downSyndromeScore int

	// Sections 1 and 3: accumulate per-option trait weights. Options
	// without a weight entry are scoring-neutral.
	weighted := []struct {
		selections []int
		questions  []domain.Question
	}{
		{answers.Section1, bank.Section1},
		{answers.Section3, bank.Section3},
	}
	for _, s := range weighted {
		for i, selected := range s.selections {
			if w, ok := s.questions[i].Weights[selected]; ok {
				autismScore += w.Autism
				downSyndromeScore += w.DownSyndrome
			}
		}
	}

	// Section 2: knowledge check.
	correct := 0
	for i, selected := range answers.Section2 {
		if selected == bank.Section2[i].CorrectOption {
			correct++
		}
	}
	accuracy := 0.0
	if len(bank.Section2) > 0 {
		accuracy = float64(correct) / float64(len(bank.Section2))
	}
	if accuracy < opts.LowAccuracyThreshold {
		downSyndromeScore += opts.LowAccuracyBonus
	}

	return &domain.TestResult{
		StudentID:         answers.StudentID,
		AutismScore:       autismScore,
		DownSyndromeScore: downSyndromeScore,
		Accuracy:          accuracy,
		DeterminedType:    determineType(autismScore, downSyndromeScore, opts),
		CompletedAt:       time.Now(),
	}, nil
}

// determineType applies the threshold rules, falling back to whichever score
// is numerically higher. Ties break toward autism.
func determineType(autismScore, downSyndromeScore int, opts ScoringOptions) domain.LearnerType {
	switch {
	case autismScore > downSyndromeScore && autismScore >= opts.AutismThreshold:
		return domain.LearnerTypeAutism
	case downSyndromeScore > autismScore && downSyndromeScore >= opts.DownSyndromeThreshold:
		return domain.LearnerTypeDownSyndrome
	case downSyndromeScore > autismScore:
		return domain.LearnerTypeDownSyndrome
	default:
		return domain.LearnerTypeAutism
	}
}

// ClassifyDifficulty maps section-2 accuracy to a difficulty band.
// Boundary values (exactly 50%, exactly 80%) are inclusive of Medium.
func ClassifyDifficulty(accuracy float64) domain.DifficultyBand {
	pct := accuracy * 100
	switch {
	case pct < 50:
		return domain.DifficultyEasy
	case pct <= 80:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyHard
	}
}
