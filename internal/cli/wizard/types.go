// Package wizard runs huh forms for the interactive project builder.
package wizard

import "errors"

// QuestionType represents the type of wizard question.
type QuestionType int

const (
	// QuestionTypeSelect is a single-choice selection question.
	QuestionTypeSelect QuestionType = iota
	// QuestionTypeInput is a text input question.
	QuestionTypeInput
	// QuestionTypeConfirm is a yes/no question. Its answer is "true" or "false".
	QuestionTypeConfirm
)

// Question defines a single wizard question.
type Question struct {
	ID          string             // Key in Answers
	Type        QuestionType       // Select, Input or Confirm
	Title       string             // Question title
	Description string             // Additional description
	Options     []Option           // Options for select questions
	Default     string             // Default value
	Required    bool               // Input must not be empty
	Validate    func(string) error // Extra check on the normalized input
	Condition   func(Answers) bool // Ask only when this returns true
}

// Option represents a selectable option.
type Option struct {
	Label string // Display label
	Value string // Actual value stored
	Desc  string // Optional description
}

// Answers maps question IDs to the normalized values entered.
type Answers map[string]string

// Bool reports whether the answer to a confirm question was yes.
func (a Answers) Bool(id string) bool {
	return a[id] == "true"
}

var (
	// ErrCancelled is returned when the user aborts a form.
	ErrCancelled = errors.New("wizard: cancelled by user")
	// ErrNoQuestions is returned when no questions are provided.
	ErrNoQuestions = errors.New("wizard: no questions provided")
	// ErrRequired is the validation error for an empty required input.
	ErrRequired = errors.New("a value is required")
)
