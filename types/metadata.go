package types

// Bloom's taxonomy levels as the backend names them.
const (
	BloomRemember   = "RBT1"
	BloomUnderstand = "RBT2"
	BloomApply      = "RBT3"
	BloomAnalyze    = "RBT4"
	BloomEvaluate   = "RBT5"
	BloomCreate     = "RBT6"
)

// Difficulty levels as the backend names them.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// Subject is a course offered for question generation.
type Subject struct {
	ID          int64  `json:"id"`
	CourseCode  string `json:"course_code"`
	SubjectName string `json:"subject_name"`
}

// Topic belongs to exactly one subject.
type Topic struct {
	ID        int64  `json:"id"`
	TopicName string `json:"topic_name"`
}

// CourseOutcome is a curriculum-mapping tag that questions reference.
type CourseOutcome struct {
	ID          int64  `json:"id"`
	OutcomeCode string `json:"outcome_code"`
	Description string `json:"description"`
}
