package types

// Verdict is the backend's classification of a matched question pair.
type Verdict string

const (
	VerdictDuplicate  Verdict = "DUPLICATE"
	VerdictParentOf   Verdict = "PARENT_OF"
	VerdictChildOf    Verdict = "CHILD_OF"
	VerdictParallelTo Verdict = "PARALLEL_TO"
	VerdictUnique     Verdict = "UNIQUE"
	VerdictConflict   Verdict = "CONFLICT"
)

// Class groups verdicts for display: danger, primary, secondary or muted.
func (v Verdict) Class() string {
	switch v {
	case VerdictDuplicate, VerdictConflict:
		return "danger"
	case VerdictParentOf, VerdictChildOf:
		return "primary"
	case VerdictParallelTo:
		return "secondary"
	default:
		return "muted"
	}
}

// DuplicateMatch pairs the inspected question with one similar question.
type DuplicateMatch struct {
	MatchQuestion   Question `json:"match_question"`
	SimilarityScore float64  `json:"similarity_score"`
	Verdict         Verdict  `json:"verdict"`
	Reason          string   `json:"reason"`
}

// Percent returns the similarity score as a whole percentage.
func (m DuplicateMatch) Percent() int {
	return int(m.SimilarityScore*100 + 0.5)
}

// RelationType is the link an operator records between two questions.
type RelationType string

const (
	RelationChild    RelationType = "CHILD"
	RelationParent   RelationType = "PARENT"
	RelationParallel RelationType = "PARALLEL"
	RelationIgnore   RelationType = "IGNORE"
)

// ParseRelationType validates a relation name coming from a form or key binding.
func ParseRelationType(s string) (RelationType, bool) {
	switch r := RelationType(s); r {
	case RelationChild, RelationParent, RelationParallel, RelationIgnore:
		return r, true
	default:
		return "", false
	}
}
