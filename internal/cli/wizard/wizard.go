package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/text/unicode/norm"
)

// runForm is replaced in tests.
var runForm = func(f *huh.Form) error { return f.Run() }

// Run asks questions in order and returns the answers.
// Each question runs as its own huh.Form, so a Condition sees every
// answer given before it. Skipped questions have no entry in Answers.
func Run(questions []Question) (Answers, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	answers := make(Answers, len(questions))
	theme := newTheme()

	for i := range questions {
		q := &questions[i]
		if q.Condition != nil && !q.Condition(answers) {
			continue
		}

		field, value := buildField(q)
		form := huh.NewForm(huh.NewGroup(field)).
			WithTheme(theme).
			WithAccessible(false)

		if err := runForm(form); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("wizard error: %w", err)
		}
		answers[q.ID] = value()
	}

	return answers, nil
}

// Normalize trims surrounding space and puts s in Unicode NFC, so names
// typed with combining marks compare equal to their composed form.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// buildField creates the huh field for q and a func that reads the
// answer after the form has run.
func buildField(q *Question) (huh.Field, func() string) {
	switch q.Type {
	case QuestionTypeSelect:
		return buildSelectField(q)
	case QuestionTypeConfirm:
		return buildConfirmField(q)
	default:
		return buildInputField(q)
	}
}

func buildSelectField(q *Question) (huh.Field, func() string) {
	selected := q.Default
	opts := make([]huh.Option[string], len(q.Options))
	for i, opt := range q.Options {
		key := opt.Label
		if opt.Desc != "" {
			key = opt.Label + " - " + opt.Desc
		}
		opts[i] = huh.NewOption(key, opt.Value)
	}

	// Static Options without Height keeps the viewport sized to the list.
	sel := huh.NewSelect[string]().
		Title(q.Title).
		Description(q.Description).
		Options(opts...).
		Value(&selected)

	return sel, func() string { return selected }
}

func buildInputField(q *Question) (huh.Field, func() string) {
	value := q.Default
	inp := huh.NewInput().
		Title(q.Title).
		Description(q.Description).
		Value(&value).
		Validate(validator(q))
	if q.Default != "" {
		inp = inp.Placeholder(q.Default)
	}
	return inp, func() string { return finalize(q, value) }
}

func buildConfirmField(q *Question) (huh.Field, func() string) {
	yes, _ := strconv.ParseBool(q.Default)
	c := huh.NewConfirm().
		Title(q.Title).
		Description(q.Description).
		Affirmative("Yes").
		Negative("No").
		Value(&yes)
	return c, func() string { return strconv.FormatBool(yes) }
}

// finalize normalizes raw input and falls back to the default when empty.
func finalize(q *Question, raw string) string {
	v := Normalize(raw)
	if v == "" {
		v = q.Default
	}
	return v
}

// validator checks the finalized input against Required and Validate.
func validator(q *Question) func(string) error {
	return func(raw string) error {
		v := finalize(q, raw)
		if q.Required && v == "" {
			return ErrRequired
		}
		if q.Validate != nil && v != "" {
			return q.Validate(v)
		}
		return nil
	}
}
