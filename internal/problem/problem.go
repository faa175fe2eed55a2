package problem

import "encoding/json"

// Difficulty is the backend's difficulty label.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// VisualType names the kind of object a problem is about.
type VisualType string

const (
	VisualApples  VisualType = "apples"
	VisualCookies VisualType = "cookies"
	VisualCars    VisualType = "cars"
	VisualGifts   VisualType = "gifts"
)

// Operation is the arithmetic a problem exercises.
type Operation string

const (
	OperationAddition    Operation = "addition"
	OperationSubtraction Operation = "subtraction"
)

// Problem is a single word problem as served by the backend.
// Problems are immutable once decoded.
type Problem struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Story        string     `json:"story"`
	Difficulty   Difficulty `json:"difficulty"`
	VisualType   VisualType `json:"visualType"`
	Operation    Operation  `json:"operation"`
	InitialCount Count      `json:"initialCount"`
	AddCount     Count      `json:"addCount"`
	RemoveCount  Count      `json:"removeCount"`
}

// UnmarshalJSON accepts both "id" and the document-store "_id" key.
func (p *Problem) UnmarshalJSON(data []byte) error {
	type plain Problem
	var raw struct {
		plain
		DocID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Problem(raw.plain)
	if p.ID == "" {
		p.ID = raw.DocID
	}
	return nil
}

// ProgressStats is the learner's server-side progress.
type ProgressStats struct {
	TotalScore   int     `json:"totalScore"`
	Accuracy     float64 `json:"accuracy"`
	TotalCorrect int     `json:"totalCorrect"`
}

// Explanation is the server-authored feedback attached to a graded answer.
type Explanation struct {
	Message       string `json:"message"`
	Reasoning     string `json:"reasoning"`
	Encouragement string `json:"encouragement"`
}

// SubmissionResult is the grader's verdict on one answer.
type SubmissionResult struct {
	IsCorrect     bool        `json:"isCorrect"`
	UserAnswer    Value       `json:"userAnswer"`
	CorrectAnswer Value       `json:"correctAnswer"`
	Explanation   Explanation `json:"explanation"`
	// Steps must be rendered in order.
	Steps []string `json:"steps"`
}

// DetailedExplanation is fetched on demand for a graded problem.
type DetailedExplanation struct {
	Hints           []string `json:"hints"`
	RelatedConcepts []string `json:"relatedConcepts"`
}

// Find returns the problem with the given ID from list.
func Find(list []Problem, id string) (Problem, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Problem{}, false
}
